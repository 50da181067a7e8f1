package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderramin/ganttline/internal/contract"
)

const maxErrorBody = 4 << 10

// Client talks to the timeline REST API. It satisfies the controller's
// Source and CommandPort.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

func New(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// WithHTTPClient swaps the underlying transport client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// Fetch loads the gantt payload of one project. GETs are retried on
// connection errors and 5xx responses.
func (c *Client) Fetch(ctx context.Context, projectID string) (*contract.GanttResponse, error) {
	var resp contract.GanttResponse
	path := "/api/v1/projects/" + url.PathEscape(projectID) + "/gantt"
	if err := c.call(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateTaskDates(ctx context.Context, taskID string, req contract.DateUpdateRequest) error {
	return c.call(ctx, http.MethodPatch, "/api/v1/tasks/"+url.PathEscape(taskID)+"/dates", req, nil)
}

func (c *Client) CreateDependency(ctx context.Context, req contract.DependencyRequest) error {
	return c.call(ctx, http.MethodPost, "/api/v1/dependencies", req, nil)
}

func (c *Client) DeleteDependency(ctx context.Context, req contract.DependencyRequest) error {
	return c.call(ctx, http.MethodDelete, "/api/v1/dependencies", req, nil)
}

func (c *Client) CreateBaselines(ctx context.Context, req contract.BaselineRequest) error {
	return c.call(ctx, http.MethodPost, "/api/v1/baselines/bulk", req, nil)
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	start := time.Now()

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		payload = data
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += max(c.cfg.MaxRetries, 0)
	}

	var (
		lastErr error
		status  int
		tried   int
	)
	for i := 0; i < attempts; i++ {
		if i > 0 && !c.sleep(ctx, time.Duration(i)*c.cfg.RetryBackoff) {
			break
		}
		tried++
		status, lastErr = c.do(ctx, method, path, payload, out)
		if lastErr == nil || !retryable(lastErr) || ctx.Err() != nil {
			break
		}
	}

	err := classify(ctx, lastErr, tried, attempts)
	c.observer.OnCallComplete(ctx, CallEvent{
		Method:    method,
		Path:      path,
		Status:    status,
		Attempts:  tried,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, out any) (int, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(raw),
		}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
	}
	return resp.StatusCode, nil
}

func (c *Client) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// errorMessage extracts {"error": "..."} bodies, falling back to raw text.
func errorMessage(raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(raw))
}

func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return isConnectionError(err)
}

func classify(ctx context.Context, err error, tried, attempts int) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if attempts > 1 && tried == attempts && apiErr.Retryable() {
			return fmt.Errorf("%w: %w", ErrRetryExhausted, apiErr)
		}
		return apiErr
	}
	if isConnectionError(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	case errors.As(err, &apiErr):
		return fmt.Sprintf("HTTP_%d", apiErr.StatusCode)
	default:
		return "UNKNOWN"
	}
}
