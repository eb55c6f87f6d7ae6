package budget

import (
	"github.com/frahmantamala/payroll-bridge/internal/employee"
	"github.com/frahmantamala/payroll-bridge/internal/flash"
)

type BudgetResponse struct {
	Employee employee.Reference  `json:"employee"`
	Events   []flash.BudgetEvent `json:"events"`
}

// EnrichmentError reports an employee whose name could not be fetched.
type EnrichmentError struct {
	EmployeeID string `json:"employeeId"`
	Reason     string `json:"reason"`
}

type BudgetsResponse struct {
	Budgets          []BudgetResponse  `json:"budgets"`
	Total            int               `json:"total"`
	EnrichmentErrors []EnrichmentError `json:"enrichmentErrors"`
}

type ListQuery struct {
	CompanyID string
	StartDate string
	EndDate   string
	Search    string
}
