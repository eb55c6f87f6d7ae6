package movement

import (
	"context"
	"log/slog"
)

// CacheSweepJob drops expired event-code entries.
type CacheSweepJob struct {
	cache  *EventCache
	logger *slog.Logger
}

func NewCacheSweepJob(cache *EventCache, logger *slog.Logger) *CacheSweepJob {
	return &CacheSweepJob{cache: cache, logger: logger}
}

func (j *CacheSweepJob) Name() string {
	return "event-cache-sweep"
}

func (j *CacheSweepJob) Run(_ context.Context) error {
	removed := j.cache.Sweep()
	if removed > 0 {
		j.logger.Info("expired event cache entries removed", "removed", removed, "remaining", j.cache.Len())
	}
	return nil
}
