package budget

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/frahmantamala/payroll-bridge/internal/core/common/validation"
	"github.com/frahmantamala/payroll-bridge/internal/employee"
	"github.com/frahmantamala/payroll-bridge/internal/flash"
)

type FlashAPI interface {
	ListBudgets(ctx context.Context, companyID, startDate, endDate string) ([]flash.Budget, error)
	GetEmployee(ctx context.Context, employeeID string) (*flash.Employee, error)
}

type Service struct {
	flash             FlashAPI
	enrichConcurrency int
	logger            *slog.Logger
}

func NewService(flashAPI FlashAPI, enrichConcurrency int, logger *slog.Logger) *Service {
	return &Service{
		flash:             flashAPI,
		enrichConcurrency: enrichConcurrency,
		logger:            logger,
	}
}

// List fetches the company budgets for the period, fills missing employee names and applies the search term.
func (s *Service) List(ctx context.Context, q ListQuery) (*BudgetsResponse, error) {
	if appErr := validation.ValidatePeriod("startDate", q.StartDate, "endDate", q.EndDate); appErr != nil {
		return nil, appErr
	}

	budgets, err := s.flash.ListBudgets(ctx, q.CompanyID, q.StartDate, q.EndDate)
	if err != nil {
		s.logger.Error("failed to list flash budgets", "company_id", q.CompanyID, "error", err)
		return nil, err
	}

	var missing []string
	seen := make(map[string]bool)
	for _, b := range budgets {
		if b.EmployeeName != "" || b.EmployeeID == "" || seen[b.EmployeeID] {
			continue
		}
		seen[b.EmployeeID] = true
		missing = append(missing, b.EmployeeID)
	}

	names := s.fetchNames(ctx, missing, s.enrichConcurrency)

	enrichmentErrors := make([]EnrichmentError, 0)
	for _, id := range missing {
		if r := names[id]; r.Err != nil {
			enrichmentErrors = append(enrichmentErrors, EnrichmentError{EmployeeID: id, Reason: r.Err.Error()})
		}
	}
	if len(enrichmentErrors) > 0 {
		s.logger.Warn("some employee names could not be fetched",
			"company_id", q.CompanyID,
			"failed", len(enrichmentErrors),
			"requested", len(missing))
	}

	term := strings.ToLower(strings.TrimSpace(q.Search))
	responses := make([]BudgetResponse, 0, len(budgets))
	for _, b := range budgets {
		ref := employee.Reference{
			EmployeeID:   b.EmployeeID,
			ExternalID:   b.ExternalID,
			EmployeeName: b.EmployeeName,
		}
		if ref.EmployeeName == "" {
			ref.EmployeeName = names[b.EmployeeID].Name
		}

		events := b.Events
		if term != "" && !matchesEmployee(ref, term) {
			events = filterEvents(events, term)
			if len(events) == 0 {
				continue
			}
		}
		responses = append(responses, BudgetResponse{Employee: ref, Events: events})
	}
	sort.SliceStable(responses, func(i, j int) bool {
		return responses[i].Employee.EmployeeName < responses[j].Employee.EmployeeName
	})

	return &BudgetsResponse{
		Budgets:          responses,
		Total:            len(responses),
		EnrichmentErrors: enrichmentErrors,
	}, nil
}

func matchesEmployee(ref employee.Reference, term string) bool {
	return strings.Contains(strings.ToLower(ref.EmployeeName), term) ||
		strings.Contains(strings.ToLower(ref.ExternalID), term)
}

func filterEvents(events []flash.BudgetEvent, term string) []flash.BudgetEvent {
	var out []flash.BudgetEvent
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.EventCode), term) ||
			strings.Contains(strings.ToLower(e.Description), term) {
			out = append(out, e)
		}
	}
	return out
}
