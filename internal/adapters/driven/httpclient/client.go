// Package httpclient sends JSON requests to AI provider APIs with client-side
// rate limiting and retries of transient failures.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
	"github.com/SkywalkerDarren/chatWeb/internal/logger"
)

// Default configuration values.
const (
	DefaultTimeout         = 60 * time.Second
	DefaultMaxRetries      = 3
	DefaultInitialInterval = 500 * time.Millisecond
	DefaultMaxInterval     = 10 * time.Second
)

// Config holds transport settings shared by the provider adapters.
type Config struct {
	// Timeout bounds a single attempt (default: 60s).
	Timeout time.Duration

	// RequestsPerSecond caps outgoing requests. Zero disables limiting.
	RequestsPerSecond float64

	// Burst is the limiter bucket size (default: 1).
	Burst int

	// MaxRetries is the number of retries after the first attempt.
	// Negative disables retries (default: 3).
	MaxRetries int

	// InitialInterval is the first backoff delay (default: 500ms).
	InitialInterval time.Duration
}

// StatusError is a non-2xx response from a provider.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: API returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Unwrap maps HTTP 429 to domain.ErrRateLimited.
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusTooManyRequests {
		return domain.ErrRateLimited
	}
	return nil
}

// Temporary reports whether the request may succeed when retried.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// Client is a rate-limited HTTP client for one provider.
type Client struct {
	provider        string
	http            *http.Client
	limiter         *rate.Limiter
	maxRetries      int
	initialInterval time.Duration
	header          http.Header
}

// New creates a client. Headers set on every request, such as API keys, are
// passed in header.
func New(provider string, cfg Config, header http.Header) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = DefaultInitialInterval
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	limiter := rate.NewLimiter(rate.Inf, cfg.Burst)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}
	if header == nil {
		header = http.Header{}
	}

	return &Client{
		provider:        provider,
		http:            &http.Client{Timeout: cfg.Timeout},
		limiter:         limiter,
		maxRetries:      cfg.MaxRetries,
		initialInterval: cfg.InitialInterval,
		header:          header,
	}
}

// PostJSON posts body as JSON and decodes a successful response into out.
func (c *Client) PostJSON(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", c.provider, err)
	}
	resp, err := c.do(ctx, http.MethodPost, url, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.provider, err)
	}
	return nil
}

// Get issues a GET request and discards a successful body.
func (c *Client) Get(ctx context.Context, url string) error {
	_, err := c.do(ctx, http.MethodGet, url, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var body []byte
	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		var reader io.Reader = http.NoBody
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%s: create request: %w", c.provider, err))
		}
		for k, v := range c.header {
			req.Header[k] = v
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("%s: send request: %w", c.provider, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%s: read response: %w", c.provider, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			statusErr := &StatusError{Provider: c.provider, StatusCode: resp.StatusCode, Body: string(data)}
			if statusErr.Temporary() {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}
		body = data
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval
	b.MaxInterval = DefaultMaxInterval
	var policy backoff.BackOff = &backoff.StopBackOff{}
	if c.maxRetries >= 0 {
		policy = backoff.WithMaxRetries(b, uint64(c.maxRetries))
	}

	notify := func(err error, wait time.Duration) {
		logger.Debug("%s request failed, retrying in %s: %v", c.provider, wait, err)
	}
	if err := backoff.RetryNotify(operation, backoff.WithContext(policy, ctx), notify); err != nil {
		if errors.Is(err, ctx.Err()) {
			return nil, fmt.Errorf("%s: %w", c.provider, err)
		}
		return nil, err
	}
	return body, nil
}
