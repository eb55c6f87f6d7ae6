package submission

import (
	"time"

	errors "github.com/frahmantamala/payroll-bridge/internal"
	"github.com/frahmantamala/payroll-bridge/internal/core/common/validation"
	submissionDatamodel "github.com/frahmantamala/payroll-bridge/internal/core/datamodel/submission"
)

type ListQuery struct {
	CompanyID string
	BatchID   string
	Status    string
	Limit     int
	Offset    int
}

func (q ListQuery) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("status", q.Status).OneOf(submissionDatamodel.StatusSucceeded, submissionDatamodel.StatusFailed)
	validator.Field("limit", q.Limit).MinInt(0, errors.ErrCodeValidationFailed).MaxInt(MaxLimit, errors.ErrCodeValidationFailed)
	validator.Field("offset", q.Offset).MinInt(0, errors.ErrCodeValidationFailed)
	return validator.Validate()
}

type SubmissionResponse struct {
	ID                 int64     `json:"id"`
	BatchID            string    `json:"batchId"`
	FlashCompanyID     string    `json:"flashCompanyId"`
	AlterDataCompanyID string    `json:"alterdataCompanyId"`
	EmployeeID         string    `json:"employeeId"`
	RegistrationCode   string    `json:"registrationCode"`
	EventCode          string    `json:"eventCode"`
	Value              string    `json:"value,omitempty"`
	Status             string    `json:"status"`
	Stage              string    `json:"stage,omitempty"`
	Error              string    `json:"error,omitempty"`
	MovementID         string    `json:"movementId,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

type ListResponse struct {
	Submissions []SubmissionResponse `json:"submissions"`
	Total       int64                `json:"total"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
}

func toResponse(s *Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:                 s.ID,
		BatchID:            s.BatchID,
		FlashCompanyID:     s.FlashCompanyID,
		AlterDataCompanyID: s.AlterDataCompanyID,
		EmployeeID:         s.EmployeeID,
		RegistrationCode:   s.RegistrationCode,
		EventCode:          s.EventCode,
		Value:              s.Value,
		Status:             s.Status,
		Stage:              s.Stage,
		Error:              s.Error,
		MovementID:         s.MovementID,
		CreatedAt:          s.CreatedAt,
	}
}
