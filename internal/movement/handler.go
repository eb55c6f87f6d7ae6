package movement

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/payroll-bridge/internal"
	"github.com/frahmantamala/payroll-bridge/internal/transport"
)

type ServiceAPI interface {
	Submit(ctx context.Context, req *SubmitRequest) (*BatchResponse, error)
	Cache() *EventCache
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// SubmitMovements handles POST /api/v1/movements
func (h *Handler) SubmitMovements(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("SubmitMovements: failed to decode request", "error", err)
		h.HandleError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	resp, err := h.Service.Submit(r.Context(), &req)
	if err != nil {
		h.Logger.Error("SubmitMovements: batch aborted", "error", err, "company_id", req.CompanyID)
		h.HandleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if !resp.Success {
		status = http.StatusMultiStatus
	}
	h.WriteJSON(w, status, resp)
}

// GetCacheEntries handles GET /api/v1/cache/events
func (h *Handler) GetCacheEntries(w http.ResponseWriter, r *http.Request) {
	entries := h.Service.Cache().Entries()
	h.WriteJSON(w, http.StatusOK, CacheEntriesResponse{Entries: entries, Total: len(entries)})
}

// ClearCache handles DELETE /api/v1/cache/events
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	removed := h.Service.Cache().Clear()
	h.Logger.Info("event cache cleared", "removed", removed)
	h.WriteJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// InvalidateCacheEntry handles DELETE /api/v1/cache/events/{code}
func (h *Handler) InvalidateCacheEntry(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if !h.Service.Cache().Invalidate(code) {
		h.HandleError(w, internal.NewNotFoundError("no cached evento for code "+code, internal.ErrCodeEventNotFound))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
