// Package alterdata is the client for the AlterData payroll ERP (JSON:API).
package alterdata

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/frahmantamala/payroll-bridge/internal"
	"github.com/frahmantamala/payroll-bridge/internal/apiclient"
)

const (
	serviceName     = "alterdata"
	jsonAPI         = "application/vnd.api+json"
	defaultPageSize = 100
	// maxPages stops a misbehaving pagination from looping forever.
	maxPages = 500
)

type Client struct {
	api      *apiclient.Client
	pageSize int
	logger   *slog.Logger
}

func NewClient(cfg internal.UpstreamConfig, logger *slog.Logger) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Client{
		api: apiclient.New(apiclient.Config{
			Service:     serviceName,
			BaseURL:     cfg.BaseURL,
			Token:       cfg.Token,
			Timeout:     cfg.Timeout,
			ContentType: jsonAPI,
			Auth:        apiclient.BearerAuth,
		}, logger),
		pageSize: pageSize,
		logger:   logger,
	}
}

func (c *Client) ListCompanies(ctx context.Context) ([]CompanyResource, error) {
	var doc Document[[]CompanyResource]
	if err := c.api.Get(ctx, "/empresas", nil, &doc); err != nil {
		return nil, err
	}
	return doc.Data, nil
}

// ListActiveEmployees pages through the active funcionarios of a company.
func (c *Client) ListActiveEmployees(ctx context.Context, companyID string) ([]EmployeeResource, error) {
	var employees []EmployeeResource
	for page := 0; page < maxPages; page++ {
		query := url.Values{}
		query.Set("filter[empresa.id]", companyID)
		query.Set("filter[situacao]", "ativo")
		query.Set("page[offset]", strconv.Itoa(page*c.pageSize))
		query.Set("page[limit]", strconv.Itoa(c.pageSize))

		var doc Document[[]EmployeeResource]
		if err := c.api.Get(ctx, "/funcionarios", query, &doc); err != nil {
			return nil, err
		}
		employees = append(employees, doc.Data...)
		if len(doc.Data) < c.pageSize {
			return employees, nil
		}
	}
	c.logger.Warn("employee pagination stopped at page limit", "company_id", companyID, "pages", maxPages)
	return employees, nil
}

func (c *Client) FindEventsByCode(ctx context.Context, code string) ([]EventResource, error) {
	query := url.Values{}
	query.Set("filter[codigo]", code)

	var doc Document[[]EventResource]
	if err := c.api.Get(ctx, "/eventos", query, &doc); err != nil {
		return nil, err
	}
	return doc.Data, nil
}

// CreateMovement posts a movimento and returns the id AlterData assigned to it.
func (c *Client) CreateMovement(ctx context.Context, doc Document[MovementResource]) (string, error) {
	var created Document[MovementResource]
	if err := c.api.Post(ctx, "/movimentos", doc, &created); err != nil {
		return "", err
	}
	return created.Data.ID, nil
}
