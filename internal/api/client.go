// Package api is the typed client for the quotation REST API. Response
// envelopes are normalized here and nowhere else; failures surface as *Error
// or *NetworkError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is where the API listens in a default local setup.
const DefaultBaseURL = "http://localhost:10000/api"

// TokenStore holds the bearer token attached to every request.
type TokenStore interface {
	Token() string
	Clear() error
}

// RetryConfig controls retries of idempotent GET requests. POST, PUT and
// DELETE are never retried.
type RetryConfig struct {
	MaxRetries int
	RetryDelay time.Duration
	MaxDelay   time.Duration
	Multiplier float64
}

// DefaultRetryConfig returns three retries starting at 500ms.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		RetryDelay: 500 * time.Millisecond,
		MaxDelay:   10 * time.Second,
		Multiplier: 2.0,
	}
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Retry      *RetryConfig
	Tokens     TokenStore
	Logger     *zap.Logger
	HTTPClient *http.Client
}

// Client talks to the REST API. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenStore
	retry      RetryConfig
	log        *zap.Logger
}

// New validates opts and builds a Client.
func New(opts Options) (*Client, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", base)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	retry := DefaultRetryConfig()
	if opts.Retry != nil {
		retry = *opts.Retry
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(base, "/"),
		tokens:     opts.Tokens,
		retry:      retry,
		log:        log.Named("api"),
	}, nil
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// do sends one request and returns the raw response body of a 2xx answer.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.retry.MaxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := c.backoff(attempt)
			c.log.Debug("retrying request",
				zap.String("method", method), zap.String("path", path),
				zap.Int("attempt", attempt), zap.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return nil, &NetworkError{Method: method, Path: path, Err: ctx.Err()}
			case <-time.After(delay):
			}
		}

		respBody, status, err := c.roundTrip(ctx, method, target, payload)
		if err != nil {
			lastErr = &NetworkError{Method: method, Path: path, Err: err}
			if ctx.Err() != nil {
				break
			}
			continue
		}

		c.log.Debug("api response",
			zap.String("method", method), zap.String("path", path), zap.Int("status", status))

		if status >= 200 && status < 300 {
			return respBody, nil
		}
		apiErr := newError(method, path, status, respBody)
		if status == http.StatusUnauthorized && c.tokens != nil {
			if err := c.tokens.Clear(); err != nil {
				c.log.Warn("clear session token", zap.Error(err))
			}
		}
		lastErr = apiErr
		if status >= 500 || status == http.StatusTooManyRequests {
			continue
		}
		return nil, apiErr
	}
	return nil, lastErr
}

func (c *Client) roundTrip(ctx context.Context, method, target string, payload []byte) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}
	return b, resp.StatusCode, nil
}

func (c *Client) backoff(attempt int) time.Duration {
	delay := float64(c.retry.RetryDelay) * math.Pow(c.retry.Multiplier, float64(attempt-1))
	if ceiling := float64(c.retry.MaxDelay); ceiling > 0 && delay > ceiling {
		delay = ceiling
	}
	jitter := delay * 0.25
	delay += (rand.Float64()*2 - 1) * jitter
	return time.Duration(delay)
}

// getObject fetches path and decodes the enveloped object into v. keys
// name the fields that identify the expected object.
func (c *Client) getObject(ctx context.Context, path string, v any, keys ...string) error {
	body, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	return c.decodeObject(body, v, keys...)
}

func (c *Client) getList(ctx context.Context, path string, query url.Values, resource string, v any) error {
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	raw, legacy, err := unwrapList(body, resource)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	if legacy {
		c.log.Debug("legacy list envelope", zap.String("path", path))
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("GET %s: %w: %v", path, ErrMalformedResponse, err)
	}
	return nil
}

func (c *Client) decodeObject(body []byte, v any, keys ...string) error {
	raw, legacy, err := unwrapObject(body, keys...)
	if err != nil {
		return err
	}
	if legacy {
		c.log.Debug("legacy object envelope")
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// IsNotFound reports whether err is an API 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
