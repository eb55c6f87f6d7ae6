package budget

import (
	"context"
	"errors"

	"github.com/sourcegraph/conc/pool"
)

// NameResult is the outcome of one employee-name lookup: a name or the reason it failed.
type NameResult struct {
	EmployeeID string
	Name       string
	Err        error
}

// fetchNames looks up every id with at most limit requests in flight. Each id yields exactly one result.
func (s *Service) fetchNames(ctx context.Context, ids []string, limit int) map[string]NameResult {
	if limit <= 0 {
		limit = 1
	}

	p := pool.NewWithResults[NameResult]().WithMaxGoroutines(limit)
	for _, id := range ids {
		p.Go(func() NameResult {
			if err := ctx.Err(); err != nil {
				return NameResult{EmployeeID: id, Err: err}
			}
			emp, err := s.flash.GetEmployee(ctx, id)
			if err != nil {
				return NameResult{EmployeeID: id, Err: err}
			}
			if emp == nil || emp.Name == "" {
				return NameResult{EmployeeID: id, Err: errors.New("employee has no name")}
			}
			return NameResult{EmployeeID: id, Name: emp.Name}
		})
	}

	results := make(map[string]NameResult, len(ids))
	for _, r := range p.Wait() {
		results[r.EmployeeID] = r
	}
	return results
}
