// Package apiclient holds the JSON request plumbing shared by the Flash and AlterData clients.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/payroll-bridge/internal"
)

var (
	ErrMissingToken   = errors.New("api token is not configured")
	ErrMissingBaseURL = errors.New("api base url is not configured")
)

// AuthFunc decorates an outgoing request with the upstream credentials.
type AuthFunc func(req *http.Request, token string)

func BearerAuth(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}

func HeaderAuth(header string) AuthFunc {
	return func(req *http.Request, token string) {
		req.Header.Set(header, token)
	}
}

type Config struct {
	Service     string
	BaseURL     string
	Token       string
	Timeout     time.Duration
	ContentType string
	Auth        AuthFunc
}

type Client struct {
	service     string
	baseURL     string
	token       string
	timeout     time.Duration
	contentType string
	auth        AuthFunc
	httpClient  *http.Client
	logger      *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	contentType := cfg.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	auth := cfg.Auth
	if auth == nil {
		auth = BearerAuth
	}
	return &Client{
		service:     cfg.Service,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		token:       strings.TrimSpace(cfg.Token),
		timeout:     cfg.Timeout,
		contentType: contentType,
		auth:        auth,
		httpClient:  &http.Client{},
		logger:      logger.With("component", cfg.Service),
	}
}

func (c *Client) Service() string {
	return c.service
}

// Get issues a GET and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post encodes body as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Do performs one request. Missing configuration fails before any network call; a non-2xx
// answer becomes an EXTERNAL_ERROR AppError carrying the upstream status and a truncated body.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	if c.baseURL == "" {
		return internal.NewConfigurationError(
			fmt.Sprintf("%s base url is not configured", c.service),
			internal.ErrCodeMissingBaseURL,
		).WithCause(ErrMissingBaseURL)
	}
	if c.token == "" {
		return internal.NewConfigurationError(
			fmt.Sprintf("%s token is not configured", c.service),
			internal.ErrCodeMissingToken,
		).WithCause(ErrMissingToken)
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", c.service, err)
		}
		reader = bytes.NewReader(payload)
	}

	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", c.service, err)
	}
	req.Header.Set("Accept", c.contentType)
	if body != nil {
		req.Header.Set("Content-Type", c.contentType)
	}
	c.auth(req, c.token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("upstream request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s request failed: %w", c.service, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", c.service, err)
	}

	log := c.logger
	if batchID := internal.BatchIDFromContext(ctx); batchID != "" {
		log = log.With("batch_id", batchID)
	}
	log.Debug("upstream request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("upstream returned error",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"response", internal.Truncate(string(respBody), 200))
		return internal.NewUpstreamError(c.service, resp.StatusCode, string(respBody))
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", c.service, err)
	}
	return nil
}
