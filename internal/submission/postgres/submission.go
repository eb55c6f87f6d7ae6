package postgres

import (
	"time"

	"github.com/frahmantamala/payroll-bridge/internal/submission"
	"gorm.io/gorm"
)

// SubmissionRepository implements the submission.RepositoryAPI interface using GORM
type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) submission.RepositoryAPI {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(s *submission.Submission) error {
	return r.db.Create(s).Error
}

// List returns one page of rows, newest first, and the total matching the filter.
func (r *SubmissionRepository) List(filter submission.Filter) ([]*submission.Submission, int64, error) {
	query := r.db.Model(&submission.Submission{}).Session(&gorm.Session{})
	if filter.FlashCompanyID != "" {
		query = query.Where("flash_company_id = ?", filter.FlashCompanyID)
	}
	if filter.BatchID != "" {
		query = query.Where("batch_id = ?", filter.BatchID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	query = query.Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*submission.Submission
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *SubmissionRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&submission.Submission{})
	return result.RowsAffected, result.Error
}
