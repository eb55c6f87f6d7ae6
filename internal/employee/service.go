package employee

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/frahmantamala/payroll-bridge/internal/flash"
)

type FlashAPI interface {
	ListEmployees(ctx context.Context, companyID string) ([]flash.Employee, error)
}

type Service struct {
	flash  FlashAPI
	logger *slog.Logger
}

func NewService(flashAPI FlashAPI, logger *slog.Logger) *Service {
	return &Service{
		flash:  flashAPI,
		logger: logger,
	}
}

// Search lists the company employees whose name or matrícula contains term (case-insensitive).
// An empty term returns everyone.
func (s *Service) Search(ctx context.Context, companyID, term string) ([]Reference, error) {
	employees, err := s.flash.ListEmployees(ctx, companyID)
	if err != nil {
		s.logger.Error("failed to list flash employees", "company_id", companyID, "error", err)
		return nil, err
	}

	term = strings.ToLower(strings.TrimSpace(term))
	refs := make([]Reference, 0, len(employees))
	for _, e := range employees {
		if term != "" &&
			!strings.Contains(strings.ToLower(e.Name), term) &&
			!strings.Contains(strings.ToLower(e.ExternalID), term) {
			continue
		}
		refs = append(refs, Reference{
			EmployeeID:   e.ID,
			ExternalID:   e.ExternalID,
			EmployeeName: e.Name,
		})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].EmployeeName < refs[j].EmployeeName })

	s.logger.Debug("employees listed", "company_id", companyID, "term", term, "count", len(refs))
	return refs, nil
}

// NormalizeRegistration makes matrículas comparable across systems: trimmed, leading zeros dropped.
func NormalizeRegistration(code string) string {
	code = strings.TrimSpace(code)
	trimmed := strings.TrimLeft(code, "0")
	if trimmed == "" && code != "" {
		return "0"
	}
	return trimmed
}
