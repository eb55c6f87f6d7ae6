package submission

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/payroll-bridge/internal"
	submissionDatamodel "github.com/frahmantamala/payroll-bridge/internal/core/datamodel/submission"
	"github.com/frahmantamala/payroll-bridge/internal/core/events"
)

type Service struct {
	repo   RepositoryAPI
	now    func() time.Time
	logger *slog.Logger
}

// NewService builds the audit log service. A nil repo disables the audit log.
func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		now:    time.Now,
		logger: logger,
	}
}

func (s *Service) Enabled() bool {
	return s.repo != nil
}

func errAuditDisabled() *internal.AppError {
	appErr := internal.NewConfigurationError("submission audit log is disabled: no database configured", internal.ErrCodeAuditDisabled)
	appErr.StatusCode = http.StatusServiceUnavailable
	return appErr
}

// Record persists the outcome of one batch item.
func (s *Service) Record(ctx context.Context, e *events.MovementProcessedEvent) error {
	if !s.Enabled() {
		return nil
	}

	status := submissionDatamodel.StatusSucceeded
	if e.EventType() == events.EventTypeMovementFailed {
		status = submissionDatamodel.StatusFailed
	}

	row := &Submission{
		BatchID:            e.BatchID,
		FlashCompanyID:     e.FlashCompanyID,
		AlterDataCompanyID: e.AlterDataCompanyID,
		EmployeeID:         e.EmployeeID,
		RegistrationCode:   e.RegistrationCode,
		EventCode:          e.EventCode,
		Value:              e.Value,
		Status:             status,
		Stage:              e.Stage,
		Error:              internal.Truncate(e.FailureReason, 1000),
		MovementID:         e.MovementID,
		CreatedAt:          e.OccurredAt(),
	}
	if err := s.repo.Create(row); err != nil {
		return internal.NewInternalError("failed to record movement submission", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, q ListQuery) (*ListResponse, error) {
	if !s.Enabled() {
		return nil, errAuditDisabled()
	}
	if appErr := q.Validate(); appErr != nil {
		return nil, appErr
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}

	rows, total, err := s.repo.List(Filter{
		FlashCompanyID: q.CompanyID,
		BatchID:        q.BatchID,
		Status:         q.Status,
		Limit:          q.Limit,
		Offset:         q.Offset,
	})
	if err != nil {
		return nil, internal.NewInternalError("failed to list movement submissions", err)
	}

	resp := &ListResponse{
		Submissions: make([]SubmissionResponse, 0, len(rows)),
		Total:       total,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
	for _, row := range rows {
		resp.Submissions = append(resp.Submissions, toResponse(row))
	}
	return resp, nil
}

// Prune deletes rows older than retention and returns how many were removed.
func (s *Service) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if !s.Enabled() {
		return 0, errAuditDisabled()
	}
	if retention <= 0 {
		return 0, internal.NewValidationError("retention must be positive", internal.ErrCodeValidationFailed)
	}

	cutoff := s.now().Add(-retention)
	removed, err := s.repo.DeleteOlderThan(cutoff)
	if err != nil {
		return 0, internal.NewInternalError("failed to prune movement submissions", err)
	}

	s.logger.Info("movement submissions pruned", "removed", removed, "cutoff", cutoff)
	return removed, nil
}
