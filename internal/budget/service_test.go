package budget_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/payroll-bridge/internal"
	"github.com/frahmantamala/payroll-bridge/internal/budget"
	"github.com/frahmantamala/payroll-bridge/internal/flash"
	"github.com/frahmantamala/payroll-bridge/pkg/logger"
)

type mockFlash struct {
	budgets   []flash.Budget
	listErr   error
	names     map[string]string
	failFor   map[string]bool
	mu        sync.Mutex
	requested []string
	inflight  atomic.Int32
	peak      atomic.Int32
}

func (m *mockFlash) ListBudgets(ctx context.Context, companyID, startDate, endDate string) ([]flash.Budget, error) {
	return m.budgets, m.listErr
}

func (m *mockFlash) GetEmployee(ctx context.Context, employeeID string) (*flash.Employee, error) {
	n := m.inflight.Add(1)
	defer m.inflight.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}

	m.mu.Lock()
	m.requested = append(m.requested, employeeID)
	m.mu.Unlock()

	if m.failFor[employeeID] {
		return nil, internal.NewUpstreamError("flash", http.StatusNotFound, "not found")
	}
	return &flash.Employee{ID: employeeID, Name: m.names[employeeID]}, nil
}

var _ = Describe("Budget Service", func() {
	var (
		flashAPI *mockFlash
		service  *budget.Service
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		flashAPI = &mockFlash{
			budgets: []flash.Budget{
				{EmployeeID: "e-1", ExternalID: "001", Events: []flash.BudgetEvent{{EventCode: "101", Description: "Horas extras"}}},
				{EmployeeID: "e-2", ExternalID: "002", EmployeeName: "Ana", Events: []flash.BudgetEvent{{EventCode: "202", Description: "Faltas"}}},
				{EmployeeID: "e-3", ExternalID: "003", Events: []flash.BudgetEvent{{EventCode: "101", Description: "Horas extras"}}},
				{EmployeeID: "e-1", ExternalID: "001", Events: []flash.BudgetEvent{{EventCode: "303", Description: "Adicional noturno"}}},
			},
			names:   map[string]string{"e-1": "Bruno", "e-3": "Carla"},
			failFor: map[string]bool{},
		}
		service = budget.NewService(flashAPI, 2, logger.Nop())
	})

	It("fills missing names once per employee and sorts by name", func() {
		resp, err := service.List(ctx, budget.ListQuery{CompanyID: "c-1", StartDate: "2024-01-01", EndDate: "2024-01-31"})
		Expect(err).NotTo(HaveOccurred())

		Expect(flashAPI.requested).To(ConsistOf("e-1", "e-3"))
		Expect(resp.Total).To(Equal(4))
		Expect(resp.EnrichmentErrors).To(BeEmpty())
		Expect(resp.Budgets[0].Employee.EmployeeName).To(Equal("Ana"))
		Expect(resp.Budgets[1].Employee.EmployeeName).To(Equal("Bruno"))
		Expect(resp.Budgets[3].Employee.EmployeeName).To(Equal("Carla"))
	})

	It("keeps the budgets whose employee name could not be fetched", func() {
		flashAPI.failFor["e-3"] = true

		resp, err := service.List(ctx, budget.ListQuery{CompanyID: "c-1", StartDate: "2024-01-01", EndDate: "2024-01-31"})
		Expect(err).NotTo(HaveOccurred())

		Expect(resp.Total).To(Equal(4))
		Expect(resp.EnrichmentErrors).To(HaveLen(1))
		Expect(resp.EnrichmentErrors[0].EmployeeID).To(Equal("e-3"))
		Expect(resp.Budgets[0].Employee.EmployeeName).To(BeEmpty())
	})

	It("reports an employee without a name as an enrichment error", func() {
		delete(flashAPI.names, "e-1")

		resp, err := service.List(ctx, budget.ListQuery{CompanyID: "c-1"})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.EnrichmentErrors).To(ConsistOf(budget.EnrichmentError{EmployeeID: "e-1", Reason: "employee has no name"}))
	})

	It("never runs more lookups at once than the configured limit", func() {
		flashAPI.budgets = nil
		for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
			flashAPI.budgets = append(flashAPI.budgets, flash.Budget{EmployeeID: id})
			flashAPI.names[id] = "N" + id
		}

		_, err := service.List(ctx, budget.ListQuery{CompanyID: "c-1"})
		Expect(err).NotTo(HaveOccurred())
		Expect(flashAPI.requested).To(HaveLen(8))
		Expect(flashAPI.peak.Load()).To(BeNumerically("<=", 2))
	})

	It("filters by employee name, matrícula or event text", func() {
		resp, err := service.List(ctx, budget.ListQuery{CompanyID: "c-1", Search: "carla"})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Total).To(Equal(1))
		Expect(resp.Budgets[0].Employee.ExternalID).To(Equal("003"))

		resp, err = service.List(ctx, budget.ListQuery{CompanyID: "c-1", Search: "noturno"})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Total).To(Equal(1))
		Expect(resp.Budgets[0].Events).To(HaveLen(1))
		Expect(resp.Budgets[0].Events[0].EventCode).To(Equal("303"))
	})

	It("rejects a reversed period before calling Flash", func() {
		flashAPI.listErr = errors.New("must not be called")

		_, err := service.List(ctx, budget.ListQuery{CompanyID: "c-1", StartDate: "2024-02-01", EndDate: "2024-01-01"})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
		Expect(appErr.Details.(internal.ValidationErrors).Errors[0].Code).To(Equal(string(internal.ErrCodeInvalidPeriod)))
	})

	It("passes a Flash failure through", func() {
		flashAPI.listErr = internal.NewUpstreamError("flash", http.StatusBadGateway, "")

		_, err := service.List(ctx, budget.ListQuery{CompanyID: "c-1"})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusBadGateway))
	})
})
