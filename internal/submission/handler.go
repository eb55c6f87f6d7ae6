package submission

import (
	"context"
	"net/http"

	"github.com/frahmantamala/payroll-bridge/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, q ListQuery) (*ListResponse, error)
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

// GetSubmissions handles GET /api/v1/movements/submissions
func (h *Handler) GetSubmissions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := h.Service.List(r.Context(), ListQuery{
		CompanyID: query.Get("companyId"),
		BatchID:   query.Get("batchId"),
		Status:    query.Get("status"),
		Limit:     h.QueryInt(r, "limit", DefaultLimit, 1, MaxLimit),
		Offset:    h.QueryInt(r, "offset", 0, 0, 1<<30),
	})
	if err != nil {
		h.Logger.Error("GetSubmissions: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}
