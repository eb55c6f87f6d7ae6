package company_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/payroll-bridge/internal"
	"github.com/frahmantamala/payroll-bridge/internal/alterdata"
	"github.com/frahmantamala/payroll-bridge/internal/company"
	companyaliasDatamodel "github.com/frahmantamala/payroll-bridge/internal/core/datamodel/companyalias"
	"github.com/frahmantamala/payroll-bridge/internal/flash"
	"github.com/frahmantamala/payroll-bridge/internal/transport"
	"github.com/frahmantamala/payroll-bridge/pkg/logger"
)

type mockFlash struct {
	companies []flash.Company
	listErr   error
}

func (m *mockFlash) ListCompanies(ctx context.Context) ([]flash.Company, error) {
	return m.companies, m.listErr
}

func (m *mockFlash) GetCompany(ctx context.Context, companyID string) (*flash.Company, error) {
	for _, c := range m.companies {
		if c.ID == companyID {
			c := c
			return &c, nil
		}
	}
	return nil, internal.NewUpstreamError("flash", http.StatusNotFound, "not found")
}

type mockAlterData struct {
	companies []alterdata.CompanyResource
}

func (m *mockAlterData) ListCompanies(ctx context.Context) ([]alterdata.CompanyResource, error) {
	return m.companies, nil
}

type mockAliasRepo struct {
	rows      map[string]string
	getAllErr error
}

func (m *mockAliasRepo) GetAll() ([]*companyaliasDatamodel.CompanyAlias, error) {
	if m.getAllErr != nil {
		return nil, m.getAllErr
	}
	out := []*companyaliasDatamodel.CompanyAlias{}
	for alias, target := range m.rows {
		out = append(out, &companyaliasDatamodel.CompanyAlias{Alias: alias, Target: target})
	}
	return out, nil
}

func (m *mockAliasRepo) Upsert(a *companyaliasDatamodel.CompanyAlias) error {
	m.rows[a.Alias] = a.Target
	return nil
}

var _ = Describe("Company Service", func() {
	var (
		flashAPI *mockFlash
		alterAPI *mockAlterData
		repo     *mockAliasRepo
		service  *company.Service
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		flashAPI = &mockFlash{companies: []flash.Company{
			{ID: "f-1", Name: "Acme SA"},
			{ID: "f-2", Name: "Zeta Foods", LegalName: "Zeta Alimentos Ltda"},
			{ID: "f-3", LegalName: "Beta Servicos"},
		}}
		alterAPI = &mockAlterData{companies: []alterdata.CompanyResource{
			empresa("10", "Acme Comercio Ltda"),
			empresa("20", "Zeta Alimentos Ltda"),
			empresa("30", "Beta Servicos"),
		}}
		repo = &mockAliasRepo{rows: map[string]string{"ZETA FOODS": "Zeta Alimentos Ltda"}}
		service = company.NewService(flashAPI, alterAPI, repo, map[string]string{"acme sa": "Acme Comercio Ltda"}, logger.Nop())
	})

	It("lists flash companies sorted by display name", func() {
		companies, err := service.ListCompanies(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(companies).To(HaveLen(3))
		Expect(companies[0].Name).To(Equal("Acme SA"))
		Expect(companies[1].Name).To(Equal("Beta Servicos"))
	})

	It("resolves through config aliases, stored aliases and exact names", func() {
		match, err := service.ResolveAlterDataCompany(ctx, "f-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(match.ID).To(Equal("10"))
		Expect(match.Strategy).To(Equal(company.StrategyAlias))

		match, err = service.ResolveAlterDataCompany(ctx, "f-2")
		Expect(err).NotTo(HaveOccurred())
		Expect(match.ID).To(Equal("20"))
		Expect(match.Strategy).To(Equal(company.StrategyAlias))

		match, err = service.ResolveAlterDataCompany(ctx, "f-3")
		Expect(err).NotTo(HaveOccurred())
		Expect(match.ID).To(Equal("30"))
		Expect(match.Strategy).To(Equal(company.StrategyExact))
	})

	It("passes an unknown flash company error through", func() {
		_, err := service.ResolveAlterDataCompany(ctx, "missing")
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("lets stored aliases override configured ones", func() {
		repo.rows["acme sa"] = "Beta Servicos"

		match, err := service.ResolveAlterDataCompany(ctx, "f-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(match.ID).To(Equal("30"))

		aliases, err := service.ListAliases()
		Expect(err).NotTo(HaveOccurred())
		Expect(aliases).To(ContainElement(company.AliasResponse{Alias: "acme sa", Target: "Beta Servicos", Source: "database"}))
	})

	It("matches stored and configured aliases by normalized name", func() {
		repo.rows["Acme  SA "] = "Beta Servicos"

		match, err := service.ResolveAlterDataCompany(ctx, "f-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(match.ID).To(Equal("30"))

		aliases, err := service.Aliases()
		Expect(err).NotTo(HaveOccurred())
		Expect(aliases).To(HaveLen(2))
		Expect(aliases).To(HaveKeyWithValue("Acme  SA ", "Beta Servicos"))
		Expect(aliases).NotTo(HaveKey("acme sa"))

		listed, err := service.ListAliases()
		Expect(err).NotTo(HaveOccurred())
		Expect(listed).To(ContainElement(company.AliasResponse{Alias: "Acme  SA ", Target: "Beta Servicos", Source: "database"}))
		Expect(listed).NotTo(ContainElement(HaveField("Source", "config")))
	})

	It("works from configuration alone without a repository", func() {
		service = company.NewService(flashAPI, alterAPI, nil, map[string]string{"acme sa": "Acme Comercio Ltda"}, logger.Nop())

		aliases, err := service.ListAliases()
		Expect(err).NotTo(HaveOccurred())
		Expect(aliases).To(Equal([]company.AliasResponse{{Alias: "acme sa", Target: "Acme Comercio Ltda", Source: "config"}}))

		_, err = service.SeedAliases()
		Expect(err).To(HaveOccurred())
	})

	It("seeds configured aliases into the repository", func() {
		count, err := service.SeedAliases()
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(1))
		Expect(repo.rows).To(HaveKeyWithValue("acme sa", "Acme Comercio Ltda"))
	})

	It("fails resolution when stored aliases cannot be loaded", func() {
		repo.getAllErr = errors.New("db down")

		_, err := service.ResolveAlterDataCompany(ctx, "f-1")
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
	})
})

var _ = Describe("Company Handler", func() {
	It("serves GET /companies", func() {
		flashAPI := &mockFlash{companies: []flash.Company{{ID: "f-1", Name: "Acme SA"}}}
		service := company.NewService(flashAPI, &mockAlterData{}, nil, nil, logger.Nop())
		handler := company.NewHandler(&transport.BaseHandler{Logger: logger.Nop()}, service)

		w := httptest.NewRecorder()
		handler.GetCompanies(w, httptest.NewRequest(http.MethodGet, "/companies", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp company.CompaniesResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Companies).To(HaveLen(1))
		Expect(resp.Companies[0].ID).To(Equal("f-1"))
	})

	It("hides internal errors behind a 500", func() {
		flashAPI := &mockFlash{listErr: errors.New("dial tcp: refused")}
		service := company.NewService(flashAPI, &mockAlterData{}, nil, nil, logger.Nop())
		handler := company.NewHandler(&transport.BaseHandler{Logger: logger.Nop()}, service)

		w := httptest.NewRecorder()
		handler.GetCompanies(w, httptest.NewRequest(http.MethodGet, "/companies", nil))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).NotTo(ContainSubstring("dial tcp"))
	})
})
