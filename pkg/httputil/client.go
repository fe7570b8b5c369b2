package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wonny/bluemf/backend/pkg/logger"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "bluemf-backend/1.0"
	maxBodyBytes     = 32 << 20
)

// Client is an HTTP client wrapper with timeout and request logging.
// Requests are never retried; a failed call is reported to the caller once.
// ⭐ SSOT: 모든 외부 HTTP 요청은 이 클라이언트를 통해서만 수행
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
	userAgent  string
}

// Response is a fully read HTTP response
type Response struct {
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// OK reports whether the status code is 200
func (r *Response) OK() bool {
	return r.StatusCode == http.StatusOK
}

// New creates a client with the given timeout (zero selects 30s)
// ⭐ SSOT: http.Client 인스턴스는 여기서만 생성
func New(log *logger.Logger, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
		userAgent:  defaultUserAgent,
	}
}

// Timeout returns the per-request timeout
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// Get performs a GET request and reads the whole body
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	return c.do(req)
}

// do executes the request and logs its outcome.
// The URL is not logged because it carries the provider API key.
func (c *Client) do(req *http.Request) (*Response, error) {
	start := time.Now()
	fields := map[string]interface{}{
		"method": req.Method,
		"host":   req.URL.Host,
		"path":   req.URL.Path,
	}

	c.logger.WithFields(fields).Debug("HTTP request started")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithFields(fields).WithError(err).Warn("HTTP request failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Duration:   time.Since(start),
	}

	c.logger.WithFields(fields).WithFields(map[string]interface{}{
		"status_code": out.StatusCode,
		"duration":    out.Duration,
		"bytes":       len(body),
	}).Debug("HTTP request completed")

	return out, nil
}
