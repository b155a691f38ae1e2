// Package restql talks to the restQL management API that lists tenants and
// the resource mappings of each tenant.
package restql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NikitaCOEUR/restql-assist/internal/derrors"
	"github.com/NikitaCOEUR/restql-assist/internal/logger"
)

// DefaultTimeout is used when the client has no timeout of its own
const DefaultTimeout = 10 * time.Second

// maxBodySize caps how much of a response body is read
const maxBodySize = 4 * 1024 * 1024

// RequestIDHeader carries a fresh id on every request
const RequestIDHeader = "X-Request-ID"

// Resource maps a resource name to the URL restQL calls for it
type Resource struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Client is the management API as seen by the environment layer
type Client interface {
	LoadTenants(ctx context.Context) ([]string, error)
	LoadResources(ctx context.Context, tenant string) ([]Resource, error)
	UpdateResource(ctx context.Context, authorizationKey, tenant string, r Resource) error
}

// HTTPClient implements Client over HTTP
type HTTPClient struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Log        *logger.Logger
}

// NewHTTPClient creates a client for the API rooted at baseURL
func NewHTTPClient(baseURL string, timeout time.Duration, log *logger.Logger) *HTTPClient {
	if log == nil {
		log = logger.Nop()
	}
	return &HTTPClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: timeout,
		Log:     log,
	}
}

type tenantsResponse struct {
	Tenants []string `json:"tenants"`
}

type updateRequest struct {
	URL string `json:"url"`
}

// LoadTenants fetches the tenant names
func (c *HTTPClient) LoadTenants(ctx context.Context) ([]string, error) {
	var payload tenantsResponse
	if err := c.do(ctx, http.MethodGet, "/tenants", "", nil, &payload); err != nil {
		return nil, err
	}
	if payload.Tenants == nil {
		return []string{}, nil
	}
	return payload.Tenants, nil
}

// LoadResources fetches the resource mappings of tenant
func (c *HTTPClient) LoadResources(ctx context.Context, tenant string) ([]Resource, error) {
	if tenant == "" {
		return nil, derrors.NewValidationError("tenant", "tenant is required", nil)
	}

	var resources []Resource
	if err := c.do(ctx, http.MethodGet, "/resources/"+url.PathEscape(tenant), "", nil, &resources); err != nil {
		return nil, err
	}
	if resources == nil {
		return []Resource{}, nil
	}
	return resources, nil
}

// UpdateResource points the named resource of tenant at r.URL
func (c *HTTPClient) UpdateResource(ctx context.Context, authorizationKey, tenant string, r Resource) error {
	if tenant == "" {
		return derrors.NewValidationError("tenant", "tenant is required", nil)
	}
	if r.Name == "" {
		return derrors.NewValidationError("name", "resource name is required", nil)
	}

	body, err := json.Marshal(updateRequest{URL: r.URL})
	if err != nil {
		return err
	}

	path := "/resources/" + url.PathEscape(tenant) + "/" + url.PathEscape(r.Name)
	return c.do(ctx, http.MethodPut, path, authorizationKey, body, nil)
}

// do sends one request and decodes a JSON response into out when out is not nil
func (c *HTTPClient) do(ctx context.Context, method, path, authorization string, body []byte, out interface{}) error {
	if c.BaseURL == "" {
		return derrors.NewConfigurationError("", "restQL API base URL is not configured", nil)
	}

	endpoint := strings.TrimRight(c.BaseURL, "/") + path
	start := time.Now()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return derrors.NewAPIError(endpoint, 0, "failed to build request", err)
	}

	requestID := uuid.New().String()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return derrors.NewAPIError(endpoint, 0, fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return derrors.NewAPIError(endpoint, resp.StatusCode, "failed to read response", err)
	}

	c.logger().Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("duration_ms", time.Since(start)).
		Msg("restQL API call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return derrors.NewAPIError(endpoint, resp.StatusCode,
			fmt.Sprintf("%s %s returned %d: %s", method, path, resp.StatusCode, msg), nil)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return derrors.NewAPIError(endpoint, resp.StatusCode, "invalid response body", err)
	}
	return nil
}

func (c *HTTPClient) logger() *logger.Logger {
	if c.Log == nil {
		return logger.Nop()
	}
	return c.Log
}

func (c *HTTPClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
