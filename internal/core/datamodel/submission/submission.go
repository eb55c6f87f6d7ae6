package submission

import "time"

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// MovementSubmission is one audited (event, employee) item of a movement batch.
type MovementSubmission struct {
	ID                 int64     `gorm:"primaryKey"`
	BatchID            string    `gorm:"column:batch_id;not null;index"`
	FlashCompanyID     string    `gorm:"column:flash_company_id;not null;index"`
	AlterDataCompanyID string    `gorm:"column:alterdata_company_id"`
	EmployeeID         string    `gorm:"column:employee_id;type:text"`
	RegistrationCode   string    `gorm:"column:registration_code;type:text"`
	EventCode          string    `gorm:"column:event_code;type:text"`
	Value              string    `gorm:"column:value;type:text"`
	Status             string    `gorm:"column:status;not null"`
	Stage              string    `gorm:"column:stage"`
	Error              string    `gorm:"column:error"`
	MovementID         string    `gorm:"column:movement_id"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime;index"`
}

func (MovementSubmission) TableName() string {
	return "movement_submissions"
}
