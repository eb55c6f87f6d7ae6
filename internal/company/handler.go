package company

import (
	"context"
	"net/http"

	"github.com/frahmantamala/payroll-bridge/internal/transport"
)

type ServiceAPI interface {
	ListCompanies(ctx context.Context) ([]CompanyResponse, error)
	ListAliases() ([]AliasResponse, error)
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

// GetCompanies handles GET /api/v1/companies
func (h *Handler) GetCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.Service.ListCompanies(r.Context())
	if err != nil {
		h.Logger.Error("GetCompanies: failed to list companies", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CompaniesResponse{Companies: companies})
}

// GetAliases handles GET /api/v1/company-aliases
func (h *Handler) GetAliases(w http.ResponseWriter, r *http.Request) {
	aliases, err := h.Service.ListAliases()
	if err != nil {
		h.Logger.Error("GetAliases: failed to list aliases", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, AliasesResponse{Aliases: aliases})
}
