package employee

import (
	"context"
	"net/http"

	"github.com/frahmantamala/payroll-bridge/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Search(ctx context.Context, companyID, term string) ([]Reference, error)
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

// GetEmployees handles GET /api/v1/companies/{companyId}/employees?search=
func (h *Handler) GetEmployees(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyId")
	if companyID == "" {
		h.WriteError(w, http.StatusBadRequest, "companyId is required")
		return
	}

	employees, err := h.Service.Search(r.Context(), companyID, r.URL.Query().Get("search"))
	if err != nil {
		h.Logger.Error("GetEmployees: service error", "error", err, "company_id", companyID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, EmployeesResponse{
		Employees: employees,
		Total:     len(employees),
	})
}
