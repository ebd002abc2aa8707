// Package backend talks to the safety check API: it reads the reported
// statuses and forwards the earthquake simulator trigger.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/config"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/ports"
)

const (
	statusPath  = "/safetyCheck"
	triggerPath = "/earthquakes/occur"

	// bodyLimit caps what is read from the backend in one response.
	bodyLimit = 4 << 20
)

// Client keeps one breaker per endpoint so simulator failures never trip
// the status feed.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	statusCB   *gobreaker.CircuitBreaker
	triggerCB  *gobreaker.CircuitBreaker
	logger     *zerolog.Logger
}

var (
	_ ports.StatusFetcher     = (*Client)(nil)
	_ ports.EarthquakeTrigger = (*Client)(nil)
)

// NewClient builds a client for baseURL. A zero timeout leaves the fetch
// bounded only by the caller's context.
func NewClient(baseURL string, timeout time.Duration, logger *zerolog.Logger) *Client {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		timeout:    timeout,
		statusCB:   config.NewCircuitBreaker("Backend-Status", logger),
		triggerCB:  config.NewCircuitBreaker("Backend-Trigger", logger),
		logger:     logger,
	}
}

// Breaker exposes the status feed's circuit breaker for readiness reporting.
func (c *Client) Breaker() *gobreaker.CircuitBreaker {
	return c.statusCB
}

// TriggerBreaker exposes the simulator endpoint's circuit breaker.
func (c *Client) TriggerBreaker() *gobreaker.CircuitBreaker {
	return c.triggerCB
}

// FetchStatuses issues GET /safetyCheck. Every failure wraps
// domain.ErrFetch; there is no retry.
func (c *Client) FetchStatuses(ctx context.Context) ([]domain.SafetyStatus, error) {
	parent := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	result, err := c.statusCB.Execute(func() (interface{}, error) {
		return c.call(parent, ctx, http.MethodGet, statusPath, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}

	statuses, err := decodeStatuses(result.([]byte))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}

	c.logger.Debug().Int("count", len(statuses)).Msg("Fetched safety statuses")
	return statuses, nil
}

// TriggerEarthquake issues POST /earthquakes/occur and returns the raw
// response body.
func (c *Client) TriggerEarthquake(ctx context.Context, req domain.EarthquakeRequest) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	result, err := c.triggerCB.Execute(func() (interface{}, error) {
		return c.call(ctx, ctx, http.MethodPost, triggerPath, payload)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// call runs one request under a breaker. A failure after the caller's own
// context ended is marked abandoned; only timeouts the client imposes itself
// count against the backend.
func (c *Client) call(caller, ctx context.Context, method, path string, payload []byte) (interface{}, error) {
	data, err := c.do(ctx, method, path, payload)
	if err != nil {
		if caller.Err() != nil {
			return nil, fmt.Errorf("%w: %w", config.ErrAbandoned, err)
		}
		return nil, err
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, bodyLimit))
	if err != nil {
		return nil, fmt.Errorf("reading %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode}
	}
	return data, nil
}

// StatusError is a non-2xx reply from the backend.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.Code)
}

// IsStatus reports whether err carries a backend reply with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
