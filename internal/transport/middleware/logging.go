package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/payroll-bridge/internal"
	"github.com/frahmantamala/payroll-bridge/pkg/logger"
)

// maxLoggedBody caps request and response bodies in the access log; batch payloads can be large.
const maxLoggedBody = 2048

// sensitiveFields are matched as substrings of lower-cased header and JSON key names.
var sensitiveFields = []string{
	"authorization",
	"x-flash-auth",
	"token",
	"secret",
	"api_key",
	"apikey",
	"password",
	"credential",
	"cookie",
}

func LoggingMiddleware(lg *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := lg
			if l, ok := logger.Lookup(r.Context()); ok {
				reqLogger = l
			}

			logRequest(reqLogger, r)

			ww := &responseWriter{ResponseWriter: w, body: &bytes.Buffer{}}
			next.ServeHTTP(ww, r)

			logResponse(reqLogger, r, ww, time.Since(start))
		})
	}
}

// responseWriter records the status and the head of the body.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if room := maxLoggedBody - rw.body.Len(); room > 0 {
		if len(b) < room {
			room = len(b)
		}
		rw.body.Write(b[:room])
	}
	rw.size += len(b)
	return rw.ResponseWriter.Write(b)
}

func logRequest(lg *slog.Logger, r *http.Request) {
	var bodyBytes []byte
	if r.Body != nil {
		bodyBytes, _ = io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	}

	lg.Info("incoming request",
		"method", r.Method,
		"path", r.URL.Path,
		"query", r.URL.RawQuery,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
		"headers", filterSensitiveHeaders(r.Header),
		"body", filterSensitiveBody(bodyBytes),
	)
}

func logResponse(lg *slog.Logger, r *http.Request, rw *responseWriter, duration time.Duration) {
	statusCode := rw.statusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}

	level := slog.LevelInfo
	switch {
	case statusCode >= 500:
		level = slog.LevelError
	case statusCode >= 400 || statusCode == http.StatusMultiStatus:
		level = slog.LevelWarn
	}

	lg.Log(r.Context(), level, "response",
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
		"response_size", rw.size,
		"body", filterSensitiveBody(rw.body.Bytes()),
	)
}

func isSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}

func filterSensitiveHeaders(headers http.Header) map[string]string {
	filtered := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			filtered[name] = "[FILTERED]"
			continue
		}
		filtered[name] = strings.Join(values, ", ")
	}
	return filtered
}

// filterSensitiveBody masks sensitive JSON keys. Bodies that are not JSON (or were cut off by the
// size cap) are logged truncated.
func filterSensitiveBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		text := string(body)
		if isSensitive(text) {
			return "[FILTERED]"
		}
		return internal.Truncate(text, maxLoggedBody)
	}

	filtered, err := json.Marshal(filterSensitiveJSON(data))
	if err != nil {
		return "[UNLOGGABLE]"
	}
	return internal.Truncate(string(filtered), maxLoggedBody)
}

func filterSensitiveJSON(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		filtered := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitive(key) {
				filtered[key] = "[FILTERED]"
				continue
			}
			filtered[key] = filterSensitiveJSON(value)
		}
		return filtered
	case []interface{}:
		filtered := make([]interface{}, len(v))
		for i, item := range v {
			filtered[i] = filterSensitiveJSON(item)
		}
		return filtered
	default:
		return v
	}
}
