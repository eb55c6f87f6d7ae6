package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/payroll-bridge/internal"
	"github.com/frahmantamala/payroll-bridge/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Error("http error", "status", status, "message", message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResp := map[string]interface{}{
		"code":    status,
		"message": message,
	}

	if err := json.NewEncoder(w).Encode(errorResp); err != nil {
		h.Logger.Error("failed to encode error response", "error", err)
	}
}

// HandleError writes an AppError with its own status code
func (h *BaseHandler) HandleError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	if status >= http.StatusInternalServerError {
		h.Logger.Error("request failed", "status", status, "code", appErr.Code, "error", appErr.Error())
	} else {
		h.Logger.Warn("request rejected", "status", status, "code", appErr.Code, "message", appErr.GetDetailedMessage())
	}
	h.WriteJSON(w, status, body)
}

// HandleServiceError maps service errors to responses; unknown errors become a generic 500
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		h.HandleError(w, appErr)
		return
	}
	h.HandleError(w, internal.NewInternalError("internal server error", err))
}

// QueryInt reads a bounded integer query parameter, falling back to def
func (h *BaseHandler) QueryInt(r *http.Request, name string, def, min, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return def
	}
	return v
}
