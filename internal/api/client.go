// Package api is a typed client for the PulseHR REST API.
//
// Every request carries a bearer token (when set), a JSON body and a fresh
// X-Request-ID. Idempotent reads are retried with exponential backoff when
// they fail transiently; writes are sent once.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"

	"github.com/felixgeelhaar/pulsehr/internal/errors"
	"github.com/felixgeelhaar/pulsehr/internal/log"
	"github.com/felixgeelhaar/pulsehr/internal/version"
)

// Observer receives one call per HTTP attempt. status is 0 when no
// response arrived. route is the path template, never the concrete path.
type Observer interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
}

// Config holds client tuning knobs.
type Config struct {
	// MaxRetries is the total number of attempts for a GET request.
	MaxRetries int
	// RetryDelay is the first backoff interval. It doubles per attempt.
	RetryDelay time.Duration
	// Timeout bounds each HTTP attempt.
	Timeout time.Duration

	Observer Observer
	Logger   *log.Logger
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries: 3,
		RetryDelay: time.Second,
		Timeout:    30 * time.Second,
	}
}

// Client talks to one PulseHR API base URL.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	observer   Observer
	logger     *log.Logger
}

// New creates a client with DefaultConfig.
func New(baseURL string) *Client {
	return NewWithConfig(baseURL, nil)
}

// NewWithConfig creates a client. A nil cfg means DefaultConfig.
func NewWithConfig(baseURL string, cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		observer:   cfg.Observer,
		logger:     logger.With("component", "api"),
	}
}

// BaseURL returns the API root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// WithToken returns a copy of c that authenticates as token. The receiver
// is not modified, so one base client can be shared by several sessions.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// Token returns the bearer token in use, if any.
func (c *Client) Token() string {
	return c.token
}

// ErrorResponse is the error body shape the API uses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// MessageResponse is returned by mutations that only acknowledge.
type MessageResponse struct {
	Message string `json:"message"`
}

func (c *Client) get(ctx context.Context, route, path string, out any) error {
	return c.do(ctx, http.MethodGet, route, path, nil, out)
}

// do sends one logical request, retrying transient failures of GETs.
func (c *Client) do(ctx context.Context, method, route, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	tries := uint(1)
	if method == http.MethodGet && c.maxRetries > 1 {
		tries = uint(c.maxRetries)
	}

	b := backoff.NewExponentialBackOff()
	if c.retryDelay > 0 {
		b.InitialInterval = c.retryDelay
	}
	b.Multiplier = 2

	attempt := func() (struct{}, error) {
		err := c.send(ctx, method, route, path, payload, out)
		if err == nil {
			return struct{}{}, nil
		}
		if ctx.Err() != nil || !IsTransient(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(tries),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.logger.Debug("retrying request", "method", method, "route", route, "in", next, "error", err)
		}),
	)
	if err != nil && tries > 1 && IsTransient(err) {
		return fmt.Errorf("max retries exceeded: %w", err)
	}
	return err
}

// send performs a single HTTP attempt.
func (c *Client) send(ctx context.Context, method, route, path string, payload []byte, out any) error {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("User-Agent", version.UserAgent())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, route, 0, time.Since(start))
		return &TransportError{Method: method, Path: path, RequestID: requestID, Err: err}
	}
	defer resp.Body.Close()
	c.observe(method, route, resp.StatusCode, time.Since(start))

	if id := resp.Header.Get("X-Request-ID"); id != "" {
		requestID = id
	}
	return parseResponse(resp, requestID, out)
}

func (c *Client) observe(method, route string, status int, d time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(method, route, status, d)
	}
}

// parseResponse decodes a 2xx body into target or turns the response into
// an *APIError.
func parseResponse(resp *http.Response, requestID string, target any) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

		apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: requestID}
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil {
			apiErr.Message = errResp.Message
			if apiErr.Message == "" {
				apiErr.Message = errResp.Error
			}
		}
		return apiErr
	}

	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeAPIDecode, "failed to decode response", err)
	}
	return nil
}
