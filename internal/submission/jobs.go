package submission

import (
	"context"
	"time"
)

// RetentionJob prunes audit rows past the retention window.
type RetentionJob struct {
	service   *Service
	retention time.Duration
}

func NewRetentionJob(service *Service, retention time.Duration) *RetentionJob {
	return &RetentionJob{service: service, retention: retention}
}

func (j *RetentionJob) Name() string {
	return "submission-retention"
}

func (j *RetentionJob) Run(ctx context.Context) error {
	_, err := j.service.Prune(ctx, j.retention)
	return err
}
