package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job is a unit of background work run on a cron schedule.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	logger *slog.Logger
}

// New builds a scheduler whose jobs receive ctx. Schedules use the standard five-field syntax
// or descriptors such as "@daily" and "@every 10m".
func New(ctx context.Context, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		ctx:    ctx,
		logger: logger.With("component", "scheduler"),
	}
}

func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.run(job)
	})
	if err != nil {
		return err
	}

	s.logger.Info("job registered", "job", job.Name(), "schedule", schedule)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop prevents new runs and waits for running jobs to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunNow executes a job immediately, outside its schedule.
func (s *Scheduler) RunNow(job Job) error {
	s.logger.Info("running job now", "job", job.Name())
	return job.Run(s.ctx)
}

func (s *Scheduler) run(job Job) {
	s.logger.Debug("running job", "job", job.Name())
	if err := job.Run(s.ctx); err != nil {
		s.logger.Error("job failed", "job", job.Name(), "error", err)
		return
	}
	s.logger.Debug("job completed", "job", job.Name())
}
