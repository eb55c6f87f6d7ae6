package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextBatchKey ctxKey = "batchID"

func BatchIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if batchID, ok := ctx.Value(ContextBatchKey).(string); ok {
		return batchID
	}
	return ""
}

func ContextWithBatchID(ctx context.Context, batchID string) context.Context {
	return context.WithValue(ctx, ContextBatchKey, batchID)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
