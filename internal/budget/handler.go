package budget

import (
	"context"
	"net/http"

	"github.com/frahmantamala/payroll-bridge/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context, q ListQuery) (*BudgetsResponse, error)
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

// GetBudgets handles GET /api/v1/companies/{companyId}/budgets
func (h *Handler) GetBudgets(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyId")
	if companyID == "" {
		h.WriteError(w, http.StatusBadRequest, "companyId is required")
		return
	}

	query := r.URL.Query()
	resp, err := h.Service.List(r.Context(), ListQuery{
		CompanyID: companyID,
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
		Search:    query.Get("search"),
	})
	if err != nil {
		h.Logger.Error("GetBudgets: service error", "error", err, "company_id", companyID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}
