package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/frahmantamala/payroll-bridge/pkg/logger"
)

const TraceIDHeader = "X-Trace-ID"

// RequestID reuses the caller's X-Trace-ID or mints one, and puts a logger carrying it on the context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "trace_id", traceID)
		w.Header().Set(TraceIDHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
