package utils

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// RetryableHTTPClient retries requests that fail at the transport level or
// return 429/5xx, backing off exponentially between attempts.
type RetryableHTTPClient struct {
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
	maxDelay   time.Duration
}

// NewRetryableHTTPClient creates a client with 3 retries starting at a one
// second delay
func NewRetryableHTTPClient() *RetryableHTTPClient {
	return &RetryableHTTPClient{
		client:     &http.Client{Timeout: 30 * time.Second},
		maxRetries: 3,
		retryDelay: time.Second,
		maxDelay:   10 * time.Second,
	}
}

func shouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	return resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
}

// Do executes req, retrying on the request's context
func (c *RetryableHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.DoWithContext(req.Context(), req)
}

// DoWithContext executes req with retries until ctx is done. The last
// response is returned as is once retries are exhausted so callers can
// inspect its status.
func (c *RetryableHTTPClient) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	delay := c.retryDelay

	for attempt := 0; ; attempt++ {
		resp, err := c.client.Do(req.Clone(ctx))
		if !shouldRetry(resp, err) || attempt == c.maxRetries {
			if err != nil {
				return nil, fmt.Errorf("request failed after %d attempts: %w", attempt+1, err)
			}
			return resp, nil
		}

		if resp != nil {
			resp.Body.Close()
		}
		slog.Debug("Retrying request",
			"url", req.URL.String(),
			"attempt", attempt+1,
			"delay", delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > c.maxDelay {
			delay = c.maxDelay
		}
	}
}

// SetMaxRetries sets the maximum number of retries
func (c *RetryableHTTPClient) SetMaxRetries(n int) {
	c.maxRetries = n
}

// SetRetryDelay sets the initial delay between attempts
func (c *RetryableHTTPClient) SetRetryDelay(d time.Duration) {
	c.retryDelay = d
}

// SetTimeout sets the HTTP client timeout. Zero disables it.
func (c *RetryableHTTPClient) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}
