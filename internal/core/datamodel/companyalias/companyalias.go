package companyalias

import "time"

// CompanyAlias maps a Flash company name to the AlterData company name it should resolve to.
type CompanyAlias struct {
	ID        int64     `gorm:"primaryKey"`
	Alias     string    `gorm:"column:alias;uniqueIndex;not null"`
	Target    string    `gorm:"column:target;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CompanyAlias) TableName() string {
	return "company_aliases"
}
