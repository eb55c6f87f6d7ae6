// Package flash is the client for the Flash workforce API, the source of companies, employees and budgets.
package flash

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/frahmantamala/payroll-bridge/internal"
	"github.com/frahmantamala/payroll-bridge/internal/apiclient"
)

const (
	serviceName = "flash"
	authHeader  = "X-Flash-Auth"
)

type Client struct {
	api *apiclient.Client
}

func NewClient(cfg internal.UpstreamConfig, logger *slog.Logger) *Client {
	return &Client{
		api: apiclient.New(apiclient.Config{
			Service: serviceName,
			BaseURL: cfg.BaseURL,
			Token:   cfg.Token,
			Timeout: cfg.Timeout,
			Auth:    apiclient.HeaderAuth(authHeader),
		}, logger),
	}
}

func (c *Client) ListCompanies(ctx context.Context) ([]Company, error) {
	var resp listResponse[Company]
	if err := c.api.Get(ctx, "/core/v1/companies", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

func (c *Client) GetCompany(ctx context.Context, companyID string) (*Company, error) {
	var company Company
	if err := c.api.Get(ctx, "/core/v1/companies/"+url.PathEscape(companyID), nil, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *Client) ListEmployees(ctx context.Context, companyID string) ([]Employee, error) {
	var resp listResponse[Employee]
	if err := c.api.Get(ctx, "/core/v1/companies/"+url.PathEscape(companyID)+"/employees", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

func (c *Client) GetEmployee(ctx context.Context, employeeID string) (*Employee, error) {
	var employee Employee
	if err := c.api.Get(ctx, "/core/v1/employees/"+url.PathEscape(employeeID), nil, &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

// ListBudgets returns the verbas of every employee of the company in [startDate, endDate] (YYYY-MM-DD).
func (c *Client) ListBudgets(ctx context.Context, companyID, startDate, endDate string) ([]Budget, error) {
	query := url.Values{}
	if startDate != "" {
		query.Set("startDate", startDate)
	}
	if endDate != "" {
		query.Set("endDate", endDate)
	}

	var resp listResponse[Budget]
	if err := c.api.Get(ctx, "/payroll/v1/companies/"+url.PathEscape(companyID)+"/budgets", query, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}
