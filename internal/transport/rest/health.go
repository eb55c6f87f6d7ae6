package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
	HealthDisabled  HealthStatus = "disabled"
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus   `json:"status"`
	Message    string         `json:"message,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CheckedAt  time.Time      `json:"checked_at"`
	DurationMs int64          `json:"duration_ms"`
}

// Upstream is what the health check reports about a third-party API; tokens are never echoed.
type Upstream struct {
	Name       string
	BaseURL    string
	Configured bool
}

type HealthHandler struct {
	db        *sql.DB
	upstreams []Upstream
}

// NewHealthHandler builds the handler. db may be nil when the audit database is not configured.
func NewHealthHandler(db *sql.DB, upstreams ...Upstream) *HealthHandler {
	return &HealthHandler{db: db, upstreams: upstreams}
}

func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	writeHealthJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// healthCheckHandler pings the database and reports whether each upstream has credentials.
// Missing credentials degrade the service; a failing database makes it unhealthy.
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	components := make(map[string]CheckEntry, len(h.upstreams)+1)
	components["postgres"] = h.checkDatabase(r.Context())
	for _, u := range h.upstreams {
		components[u.Name] = checkUpstream(u)
	}

	overall := HealthHealthy
	for _, c := range components {
		switch c.Status {
		case HealthUnhealthy:
			overall = HealthUnhealthy
		case HealthDegraded:
			if overall == HealthHealthy {
				overall = HealthDegraded
			}
		}
	}

	statusCode := http.StatusOK
	if overall == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	writeHealthJSON(w, statusCode, HealthResponse{
		Status:     overall,
		CheckedAt:  time.Now(),
		Components: components,
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckEntry {
	if h.db == nil {
		return CheckEntry{
			Status:    HealthDisabled,
			Message:   "no database configured; submission audit log is off",
			CheckedAt: time.Now(),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)
	entry := CheckEntry{
		Status:     HealthHealthy,
		CheckedAt:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		entry.Status = HealthUnhealthy
		entry.Message = err.Error()
	}
	return entry
}

func checkUpstream(u Upstream) CheckEntry {
	entry := CheckEntry{
		Status:    HealthHealthy,
		CheckedAt: time.Now(),
		Details:   map[string]any{"base_url": u.BaseURL},
	}
	if !u.Configured {
		entry.Status = HealthDegraded
		entry.Message = "API token is not configured"
	}
	return entry
}

func writeHealthJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
