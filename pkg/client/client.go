package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/draganm/mnistmock/internal/models"
	"github.com/draganm/mnistmock/internal/utils"
)

// Client is the interface for interacting with a mnistmock server
type Client interface {
	// DownloadDataset streams a freshly generated dataset into w
	DownloadDataset(ctx context.Context, req DatasetRequest, w io.Writer) error

	// ListDatasets lists recorded manifests with optional filtering
	ListDatasets(ctx context.Context, filter *ListDatasetsFilter) ([]*models.Manifest, error)

	// GetDataset retrieves a recorded manifest by ID
	GetDataset(ctx context.Context, id uuid.UUID) (*models.Manifest, error)

	// Health checks the server health
	Health(ctx context.Context) (*HealthResponse, error)
}

// DatasetRequest selects what the server generates
type DatasetRequest struct {
	Kind   models.Kind
	Rows   int
	Header bool
	// Seed is sent only when non-zero
	Seed int64
}

// ListDatasetsFilter contains filtering options for listing manifests
type ListDatasetsFilter struct {
	Kind   models.Kind
	Limit  int
	Offset int
}

// HealthResponse represents the server health status
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// ErrorResponse represents an error response from the server
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// HTTPClient implements the Client interface using HTTP
type HTTPClient struct {
	baseURL    string
	httpClient *utils.RetryableHTTPClient
}

// New creates a new HTTP client for a mnistmock server (simplified alias)
func New(baseURL string) Client {
	return NewClient(baseURL)
}

// NewClient creates a new HTTP client for a mnistmock server
func NewClient(baseURL string) Client {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: utils.NewRetryableHTTPClient(),
	}
}

// NewClientWithOptions creates a new HTTP client with custom retry and timeout settings
func NewClientWithOptions(baseURL string, maxRetries int, retryDelay, timeout time.Duration) Client {
	httpClient := utils.NewRetryableHTTPClient()
	httpClient.SetMaxRetries(maxRetries)
	httpClient.SetRetryDelay(retryDelay)
	httpClient.SetTimeout(timeout)

	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// DownloadDataset streams a generated dataset into w
func (c *HTTPClient) DownloadDataset(ctx context.Context, dr DatasetRequest, w io.Writer) error {
	if !dr.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrBadRequest, dr.Kind)
	}

	params := url.Values{}
	params.Set("rows", strconv.Itoa(dr.Rows))
	params.Set("header", strconv.FormatBool(dr.Header))
	if dr.Seed != 0 {
		params.Set("seed", strconv.FormatInt(dr.Seed, 10))
	}

	reqURL := fmt.Sprintf("%s/api/v1/datasets/%s.csv?%s", c.baseURL, dr.Kind, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.DoWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}
	return nil
}

// ListDatasets lists recorded manifests
func (c *HTTPClient) ListDatasets(ctx context.Context, filter *ListDatasetsFilter) ([]*models.Manifest, error) {
	params := url.Values{}
	if filter != nil {
		if filter.Kind != "" {
			params.Set("kind", string(filter.Kind))
		}
		if filter.Limit > 0 {
			params.Set("limit", strconv.Itoa(filter.Limit))
		}
		if filter.Offset > 0 {
			params.Set("offset", strconv.Itoa(filter.Offset))
		}
	}

	reqURL := c.baseURL + "/api/v1/datasets"
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var result []*models.Manifest
	if err := c.getJSON(ctx, reqURL, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetDataset retrieves a recorded manifest by ID
func (c *HTTPClient) GetDataset(ctx context.Context, id uuid.UUID) (*models.Manifest, error) {
	var result models.Manifest
	if err := c.getJSON(ctx, c.baseURL+"/api/v1/datasets/"+id.String(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health checks the server health. An unhealthy server answers 503 with a
// body, which is returned together with the error.
func (c *HTTPClient) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.DoWithContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	var result HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &result, &APIError{StatusCode: resp.StatusCode, Message: "server unhealthy: " + result.Status}
	}
	return &result, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.DoWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseError turns a non-2xx response into an *APIError
func (c *HTTPClient) parseError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    errResp.Error,
		Context:    errResp.Context,
	}
}
