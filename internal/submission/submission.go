package submission

import (
	"time"

	submissionDatamodel "github.com/frahmantamala/payroll-bridge/internal/core/datamodel/submission"
)

type Submission = submissionDatamodel.MovementSubmission

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Filter narrows the audit log listing. Empty fields match everything.
type Filter struct {
	FlashCompanyID string
	BatchID        string
	Status         string
	Limit          int
	Offset         int
}

type RepositoryAPI interface {
	Create(s *Submission) error
	List(filter Filter) ([]*Submission, int64, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}
