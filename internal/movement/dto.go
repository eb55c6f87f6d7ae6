package movement

import (
	"fmt"

	errors "github.com/frahmantamala/payroll-bridge/internal"
	"github.com/frahmantamala/payroll-bridge/internal/alterdata"
	"github.com/frahmantamala/payroll-bridge/internal/budget"
	"github.com/frahmantamala/payroll-bridge/internal/core/common/validation"
	"github.com/frahmantamala/payroll-bridge/internal/employee"
	"github.com/frahmantamala/payroll-bridge/internal/flash"
)

// MaxBatchItems bounds a single submission.
const MaxBatchItems = 2000

type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Item struct {
	Event    flash.BudgetEvent  `json:"event"`
	Employee employee.Reference `json:"employee"`
}

type SubmitRequest struct {
	CompanyID string  `json:"companyId"`
	Period    *Period `json:"period,omitempty"`
	DryRun    bool    `json:"dryRun"`
	Items     []Item  `json:"items"`
}

func (r *SubmitRequest) Validate() error {
	validator := validation.NewValidator()
	validator.Field("companyId", r.CompanyID).Required().MaxLength(100)
	validator.Field("items", len(r.Items)).MaxInt(MaxBatchItems, errors.ErrCodeValidationFailed)

	for i, item := range r.Items {
		validator.Field(fmt.Sprintf("items[%d].event.eventCode", i), item.Event.EventCode).Required()
		validator.Field(fmt.Sprintf("items[%d].employee.externalId", i), item.Employee.ExternalID).Required()
	}

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}

	if len(r.Items) == 0 {
		return errors.NewValidationError("at least one item is required", errors.ErrCodeEmptyBatch)
	}

	if r.Period != nil {
		if r.Period.Start == "" || r.Period.End == "" {
			return errors.NewValidationFieldError("period", "period requires both start and end", errors.ErrCodeInvalidPeriod)
		}
		if appErr := validation.ValidatePeriod("period.start", r.Period.Start, "period.end", r.Period.End); appErr != nil {
			return appErr
		}
	}
	return nil
}

// ItemState is the position of a batch item in pending → mapped → submitted → succeeded|failed.
type ItemState string

const (
	StatePending   ItemState = "pending"
	StateMapped    ItemState = "mapped"
	StateSubmitted ItemState = "submitted"
	StateSucceeded ItemState = "succeeded"
	StateFailed    ItemState = "failed"
)

// Stage names the step an item failed at.
type Stage string

const (
	StageResolveEvent    Stage = "resolve_event"
	StageResolveEmployee Stage = "resolve_employee"
	StageFormatValue     Stage = "format_value"
	StagePeriod          Stage = "period"
	StageSubmit          Stage = "submit"
)

type ItemResult struct {
	Index        int                                             `json:"index"`
	EmployeeID   string                                          `json:"employeeId"`
	ExternalID   string                                          `json:"externalId"`
	EmployeeName string                                          `json:"employeeName,omitempty"`
	EventCode    string                                          `json:"eventCode"`
	Unit         Unit                                            `json:"unit"`
	Value        string                                          `json:"value,omitempty"`
	State        ItemState                                       `json:"state"`
	MovementID   string                                          `json:"movementId,omitempty"`
	Document     *alterdata.Document[alterdata.MovementResource] `json:"document,omitempty"`
	Stage        Stage                                           `json:"stage,omitempty"`
	Error        string                                          `json:"error,omitempty"`
}

type ItemError struct {
	Index      int    `json:"index"`
	EmployeeID string `json:"employeeId"`
	ExternalID string `json:"externalId"`
	EventCode  string `json:"eventCode"`
	Stage      Stage  `json:"stage"`
	Message    string `json:"message"`
}

type CompanySummary struct {
	FlashCompanyID     string   `json:"flashCompanyId"`
	AlterDataCompanyID string   `json:"alterdataCompanyId"`
	Name               string   `json:"name"`
	Strategy           string   `json:"strategy"`
	Ambiguous          bool     `json:"ambiguous"`
	Candidates         []string `json:"candidates,omitempty"`
}

type BatchResponse struct {
	BatchID      string         `json:"batchId"`
	DryRun       bool           `json:"dryRun"`
	Success      bool           `json:"success"`
	SuccessCount int            `json:"successCount"`
	ErrorCount   int            `json:"errorCount"`
	Company      CompanySummary `json:"company"`
	Results      []ItemResult   `json:"results"`
	Errors       []ItemError    `json:"errors"`
	Warnings     []string       `json:"warnings"`
}

// RunResponse aggregates the batches of a run that was split into MaxBatchItems chunks.
type RunResponse struct {
	Success      bool             `json:"success"`
	SuccessCount int              `json:"successCount"`
	ErrorCount   int              `json:"errorCount"`
	Batches      []*BatchResponse `json:"batches"`
}

type CacheEntriesResponse struct {
	Entries []CachedEvent `json:"entries"`
	Total   int           `json:"total"`
}

// ItemsFromBudgets flattens budgets into one item per (event, employee) pair.
func ItemsFromBudgets(budgets []budget.BudgetResponse) []Item {
	items := make([]Item, 0, len(budgets))
	for _, b := range budgets {
		for _, ev := range b.Events {
			items = append(items, Item{Event: ev, Employee: b.Employee})
		}
	}
	return items
}
