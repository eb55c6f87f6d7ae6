package movement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/payroll-bridge/internal"
	"github.com/frahmantamala/payroll-bridge/internal/alterdata"
	"github.com/frahmantamala/payroll-bridge/internal/company"
	"github.com/frahmantamala/payroll-bridge/internal/core/common/validation"
	"github.com/frahmantamala/payroll-bridge/internal/core/events"
	"github.com/frahmantamala/payroll-bridge/internal/employee"
	"github.com/frahmantamala/payroll-bridge/pkg/logger"
)

type CompanyResolver interface {
	ResolveAlterDataCompany(ctx context.Context, flashCompanyID string) (*company.Match, error)
}

type AlterDataAPI interface {
	ListActiveEmployees(ctx context.Context, companyID string) ([]alterdata.EmployeeResource, error)
	FindEventsByCode(ctx context.Context, code string) ([]alterdata.EventResource, error)
	CreateMovement(ctx context.Context, doc alterdata.Document[alterdata.MovementResource]) (string, error)
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	companies CompanyResolver
	alterdata AlterDataAPI
	cache     *EventCache
	publisher Publisher
	now       func() time.Time
	logger    *slog.Logger
}

// NewService builds the pipeline. publisher may be nil when nothing audits the outcomes.
func NewService(companies CompanyResolver, alterdataAPI AlterDataAPI, cache *EventCache, publisher Publisher, logger *slog.Logger) *Service {
	return &Service{
		companies: companies,
		alterdata: alterdataAPI,
		cache:     cache,
		publisher: publisher,
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock replaces the time source used for the created attribute.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Cache() *EventCache {
	return s.cache
}

// batch holds what is resolved once per request.
type batch struct {
	id          string
	request     *SubmitRequest
	company     *company.Match
	employees   map[string]string
	warnedCodes map[string]bool
	warnings    []string
}

// Submit maps every item to a movimento and posts it. Items are processed one after another and
// a failing item never stops the others. Only failures that prevent the whole batch (company or
// employee list resolution) are returned as errors.
func (s *Service) Submit(ctx context.Context, req *SubmitRequest) (*BatchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	batchID := uuid.NewString()
	ctx = internal.ContextWithBatchID(ctx, batchID)
	log := logger.From(ctx).With("batch_id", batchID, "flash_company_id", req.CompanyID)

	match, err := s.companies.ResolveAlterDataCompany(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}

	employees, err := s.alterdata.ListActiveEmployees(ctx, match.ID)
	if err != nil {
		log.Error("failed to list alterdata employees", "alterdata_company_id", match.ID, "error", err)
		return nil, err
	}

	b := &batch{
		id:          batchID,
		request:     req,
		company:     match,
		employees:   employeeLookup(employees),
		warnedCodes: make(map[string]bool),
	}
	if match.Ambiguous {
		b.warnings = append(b.warnings, fmt.Sprintf(
			"company matched %d AlterData companies by name, using %q: %v",
			len(match.Candidates), match.OriginalName, match.Candidates))
	}

	log.Info("processing movement batch",
		"alterdata_company_id", match.ID,
		"items", len(req.Items),
		"alterdata_employees", len(b.employees),
		"dry_run", req.DryRun)

	resp := &BatchResponse{
		BatchID: batchID,
		DryRun:  req.DryRun,
		Company: CompanySummary{
			FlashCompanyID:     req.CompanyID,
			AlterDataCompanyID: match.ID,
			Name:               match.OriginalName,
			Strategy:           string(match.Strategy),
			Ambiguous:          match.Ambiguous,
			Candidates:         match.Candidates,
		},
		Results: make([]ItemResult, 0, len(req.Items)),
		Errors:  make([]ItemError, 0),
	}

	for i, item := range req.Items {
		result := s.processItem(ctx, b, i, item)
		resp.Results = append(resp.Results, result)

		if result.State == StateFailed {
			resp.ErrorCount++
			resp.Errors = append(resp.Errors, ItemError{
				Index:      result.Index,
				EmployeeID: result.EmployeeID,
				ExternalID: result.ExternalID,
				EventCode:  result.EventCode,
				Stage:      result.Stage,
				Message:    result.Error,
			})
			log.Warn("movement item failed",
				"index", i,
				"event_code", result.EventCode,
				"external_id", result.ExternalID,
				"stage", result.Stage,
				"error", result.Error)
		} else {
			resp.SuccessCount++
		}

		if !req.DryRun {
			s.publish(ctx, b, result)
		}
	}

	resp.Success = resp.ErrorCount == 0
	resp.Warnings = append(make([]string, 0, len(b.warnings)), b.warnings...)

	log.Info("movement batch finished",
		"success_count", resp.SuccessCount,
		"error_count", resp.ErrorCount)
	return resp, nil
}

// SubmitAll runs req through Submit in chunks of at most MaxBatchItems items. Results keep
// their index in req.Items. A batch-level failure stops the run and returns the batches
// already submitted together with the error.
func (s *Service) SubmitAll(ctx context.Context, req *SubmitRequest) (*RunResponse, error) {
	run := &RunResponse{Success: true, Batches: make([]*BatchResponse, 0, len(req.Items)/MaxBatchItems+1)}

	for offset := 0; offset < len(req.Items) || offset == 0; offset += MaxBatchItems {
		end := offset + MaxBatchItems
		if end > len(req.Items) {
			end = len(req.Items)
		}

		chunk := *req
		chunk.Items = req.Items[offset:end]
		resp, err := s.Submit(ctx, &chunk)
		if err != nil {
			run.Success = false
			return run, err
		}

		for i := range resp.Results {
			resp.Results[i].Index += offset
		}
		for i := range resp.Errors {
			resp.Errors[i].Index += offset
		}

		run.Batches = append(run.Batches, resp)
		run.SuccessCount += resp.SuccessCount
		run.ErrorCount += resp.ErrorCount
		if !resp.Success {
			run.Success = false
		}
	}
	return run, nil
}

func (s *Service) processItem(ctx context.Context, b *batch, index int, item Item) ItemResult {
	ev := NewEvent(item.Event)
	result := ItemResult{
		Index:        index,
		EmployeeID:   item.Employee.EmployeeID,
		ExternalID:   item.Employee.ExternalID,
		EmployeeName: item.Employee.EmployeeName,
		EventCode:    ev.Code,
		Unit:         ev.Unit,
		State:        StatePending,
	}
	fail := func(stage Stage, err error) ItemResult {
		result.State = StateFailed
		result.Stage = stage
		result.Error = err.Error()
		return result
	}

	if err := ctx.Err(); err != nil {
		return fail(StageSubmit, err)
	}

	cached, err := s.resolveEvent(ctx, b, ev.Code)
	if err != nil {
		return fail(StageResolveEvent, err)
	}

	alterdataEmployeeID, ok := b.employees[employee.NormalizeRegistration(item.Employee.ExternalID)]
	if !ok {
		return fail(StageResolveEmployee, internal.NewNotFoundError(
			fmt.Sprintf("no active AlterData employee with registration %s", item.Employee.ExternalID),
			internal.ErrCodeEmployeeNotFound,
		))
	}

	value, err := FormatValue(ev)
	if err != nil {
		return fail(StageFormatValue, err)
	}
	result.Value = value

	start, end, err := s.period(b.request.Period, ev.Date)
	if err != nil {
		return fail(StagePeriod, err)
	}

	doc := alterdata.NewMovement(alterdataEmployeeID, b.company.ID, cached.TipoMovimentoID, cached.EventoID,
		alterdata.MovementAttributes{
			Valor:      value,
			Inicio:     start,
			Fim:        end,
			Comentario: comment(ev),
			Created:    s.now().Format(validation.DateLayout),
		})
	result.State = StateMapped

	if b.request.DryRun {
		result.Document = &doc
		return result
	}

	result.State = StateSubmitted
	movementID, err := s.alterdata.CreateMovement(ctx, doc)
	if err != nil {
		return fail(StageSubmit, err)
	}

	result.State = StateSucceeded
	result.MovementID = movementID
	return result
}

// resolveEvent maps a verba code to its AlterData evento, going through the cache.
func (s *Service) resolveEvent(ctx context.Context, b *batch, code string) (CachedEvent, error) {
	if cached, ok := s.cache.Get(code); ok {
		return cached, nil
	}

	found, err := s.alterdata.FindEventsByCode(ctx, code)
	if err != nil {
		return CachedEvent{}, err
	}
	if len(found) == 0 {
		return CachedEvent{}, internal.NewNotFoundError(
			fmt.Sprintf("evento %s not found in AlterData", code),
			internal.ErrCodeEventNotFound,
		)
	}
	if len(found) > 1 && !b.warnedCodes[code] {
		b.warnedCodes[code] = true
		b.warnings = append(b.warnings, fmt.Sprintf("evento code %s matched %d AlterData eventos, using id %s", code, len(found), found[0].ID))
		s.logger.Warn("ambiguous evento code, using first", "code", code, "matches", len(found), "evento_id", found[0].ID)
	}

	evento := found[0]
	movementTypeID := evento.RelationshipID(alterdata.RelTipoMovimento)
	if movementTypeID == "" {
		movementTypeID = DefaultMovementTypeID
	}

	return s.cache.Put(CachedEvent{
		Code:            code,
		EventoID:        evento.ID,
		TipoMovimentoID: movementTypeID,
		Nome:            evento.Attributes.Nome,
	}), nil
}

// period returns the request period, or the calendar month of the event date.
func (s *Service) period(p *Period, eventDate string) (string, string, error) {
	if p != nil {
		return p.Start, p.End, nil
	}
	if len(eventDate) >= len(validation.DateLayout) {
		eventDate = eventDate[:len(validation.DateLayout)]
	}
	d, err := time.Parse(validation.DateLayout, eventDate)
	if err != nil {
		return "", "", internal.NewValidationError(
			fmt.Sprintf("event date %q is not a YYYY-MM-DD date and no period was given", eventDate),
			internal.ErrCodeInvalidDate,
		)
	}
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(validation.DateLayout), last.Format(validation.DateLayout), nil
}

func (s *Service) publish(ctx context.Context, b *batch, r ItemResult) {
	if s.publisher == nil {
		return
	}
	event := events.NewMovementProcessedEvent(events.MovementOutcome{
		BatchID:            b.id,
		FlashCompanyID:     b.request.CompanyID,
		AlterDataCompanyID: b.company.ID,
		EmployeeID:         r.EmployeeID,
		RegistrationCode:   r.ExternalID,
		EventCode:          r.EventCode,
		Value:              r.Value,
		Stage:              string(r.Stage),
		FailureReason:      r.Error,
		MovementID:         r.MovementID,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish movement outcome", "batch_id", b.id, "error", err)
	}
}

func employeeLookup(employees []alterdata.EmployeeResource) map[string]string {
	lookup := make(map[string]string, len(employees))
	for _, e := range employees {
		code := employee.NormalizeRegistration(e.Attributes.Codigo)
		if code == "" {
			continue
		}
		if _, exists := lookup[code]; !exists {
			lookup[code] = e.ID
		}
	}
	return lookup
}

func comment(ev Event) string {
	if ev.Description == "" {
		return fmt.Sprintf("Flash: %s", ev.Code)
	}
	return fmt.Sprintf("Flash: %s (%s)", ev.Description, ev.Code)
}
