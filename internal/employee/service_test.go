package employee_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/payroll-bridge/internal/employee"
	"github.com/frahmantamala/payroll-bridge/internal/flash"
	"github.com/frahmantamala/payroll-bridge/internal/transport"
	"github.com/frahmantamala/payroll-bridge/pkg/logger"
)

type mockFlash struct {
	employees []flash.Employee
	companyID string
}

func (m *mockFlash) ListEmployees(ctx context.Context, companyID string) ([]flash.Employee, error) {
	m.companyID = companyID
	return m.employees, nil
}

var _ = Describe("NormalizeRegistration", func() {
	DescribeTable("makes matrículas comparable",
		func(in, want string) {
			Expect(employee.NormalizeRegistration(in)).To(Equal(want))
		},
		Entry("leading zeros", "000123", "123"),
		Entry("surrounding spaces", " 42 ", "42"),
		Entry("all zeros", "0000", "0"),
		Entry("empty", "", ""),
		Entry("inner zeros kept", "1020", "1020"),
	)
})

var _ = Describe("Employee Service", func() {
	var (
		flashAPI *mockFlash
		service  *employee.Service
	)

	BeforeEach(func() {
		flashAPI = &mockFlash{employees: []flash.Employee{
			{ID: "e-2", Name: "Bruno Lima", ExternalID: "0002"},
			{ID: "e-1", Name: "Ana Souza", ExternalID: "0001"},
			{ID: "e-3", Name: "Carla Dias", ExternalID: "0310"},
		}}
		service = employee.NewService(flashAPI, logger.Nop())
	})

	It("returns everyone sorted by name for an empty term", func() {
		refs, err := service.Search(context.Background(), "c-1", "  ")
		Expect(err).NotTo(HaveOccurred())
		Expect(flashAPI.companyID).To(Equal("c-1"))
		Expect(refs).To(HaveLen(3))
		Expect(refs[0]).To(Equal(employee.Reference{EmployeeID: "e-1", ExternalID: "0001", EmployeeName: "Ana Souza"}))
	})

	It("matches name case-insensitively or matrícula", func() {
		refs, err := service.Search(context.Background(), "c-1", "LIMA")
		Expect(err).NotTo(HaveOccurred())
		Expect(refs).To(HaveLen(1))
		Expect(refs[0].EmployeeID).To(Equal("e-2"))

		refs, err = service.Search(context.Background(), "c-1", "031")
		Expect(err).NotTo(HaveOccurred())
		Expect(refs).To(HaveLen(1))
		Expect(refs[0].EmployeeID).To(Equal("e-3"))
	})

	It("serves GET /companies/{companyId}/employees", func() {
		handler := employee.NewHandler(&transport.BaseHandler{Logger: logger.Nop()}, service)
		router := chi.NewRouter()
		router.Get("/companies/{companyId}/employees", handler.GetEmployees)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/companies/c-9/employees?search=ana", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(flashAPI.companyID).To(Equal("c-9"))
		var resp employee.EmployeesResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Total).To(Equal(1))
	})
})
