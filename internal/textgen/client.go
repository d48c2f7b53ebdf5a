// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package textgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/meettm/internal/metrics"
)

// DefaultBaseURL is the hosted generateText endpoint used when none is configured.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta2/models/text-bison-001:generateText"

const (
	DefaultTemperature     = 0.1
	DefaultMaxOutputTokens = 256
	DefaultHTTPTimeout     = 30 * time.Second

	// maxErrorBodySize limits how much of a failed response is kept for diagnostics.
	maxErrorBodySize = 64 * 1024

	// maxResponseBodySize bounds successful responses; 256 output tokens fit easily.
	maxResponseBodySize = 1 << 20
)

var (
	// ErrAuthConfig is returned when the client is not configured with exactly
	// one of an API key or a bearer token.
	ErrAuthConfig = errors.New("textgen: exactly one of api key or bearer token must be set")

	// ErrResponseTooLarge is returned when a successful response exceeds the read limit.
	ErrResponseTooLarge = errors.New("textgen: response body too large")
)

// StatusError reports a non-2xx response from the text-generation API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("text generation API responded %d: %s", e.StatusCode, e.Body)
}

// Config holds the outbound client settings.
type Config struct {
	BaseURL         string
	APIKey          string
	BearerToken string

	// Temperature is sent as given; 0 selects greedy decoding. The service
	// configuration defaults it to DefaultTemperature.
	Temperature     float64
	MaxOutputTokens int

	// RequestsPerMinute throttles outbound calls. Zero disables the limiter.
	RequestsPerMinute int

	// HTTPTimeout is the transport ceiling. Callers normally cancel sooner
	// through the request context.
	HTTPTimeout time.Duration
}

// Client calls a hosted text-generation API and returns the best-effort text
// of its answer. It is safe for concurrent use.
type Client struct {
	endpoint    string
	redacted    string
	bearer      string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	limiter     *rate.Limiter
}

type generateRequest struct {
	Prompt          promptText `json:"prompt"`
	Temperature     float64    `json:"temperature"`
	MaxOutputTokens int        `json:"maxOutputTokens"`
}

type promptText struct {
	Text string `json:"text"`
}

// NewClient validates cfg and builds a Client.
func NewClient(cfg Config) (*Client, error) {
	hasKey := strings.TrimSpace(cfg.APIKey) != ""
	hasBearer := strings.TrimSpace(cfg.BearerToken) != ""
	if hasKey == hasBearer {
		return nil, ErrAuthConfig
	}

	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("textgen: invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("textgen: base url must be http or https, got %q", u.Scheme)
	}

	redacted := u.String()
	if hasKey {
		q := u.Query()
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
		redacted = u.String()

		q.Set("key", strings.TrimSpace(cfg.APIKey))
		u.RawQuery = q.Encode()
	}

	c := &Client{
		endpoint:    u.String(),
		redacted:    redacted,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
		httpClient:  &http.Client{Timeout: cfg.HTTPTimeout},
	}
	if hasBearer {
		c.bearer = strings.TrimSpace(cfg.BearerToken)
	}
	if c.maxTokens <= 0 {
		c.maxTokens = DefaultMaxOutputTokens
	}
	if c.httpClient.Timeout <= 0 {
		c.httpClient.Timeout = DefaultHTTPTimeout
	}
	if cfg.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60), max(1, cfg.RequestsPerMinute/10))
	}
	return c, nil
}

// Endpoint returns the configured endpoint with any API key masked.
func (c *Client) Endpoint() string {
	return c.redacted
}

// Generate sends one prompt and returns the text found in the response.
// Non-2xx responses are returned as *StatusError.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	payload, err := json.Marshal(generateRequest{
		Prompt:          promptText{Text: prompt},
		Temperature:     c.temperature,
		MaxOutputTokens: c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", c.redact(err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordTextGenCall(0, time.Since(start), err)
		return "", fmt.Errorf("text generation request failed: %w", c.redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(readBodyForError(resp.Body))}
		metrics.RecordTextGenCall(resp.StatusCode, time.Since(start), statusErr)
		return "", statusErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize+1))
	if err == nil && len(body) > maxResponseBodySize {
		err = ErrResponseTooLarge
	}
	metrics.RecordTextGenCall(resp.StatusCode, time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	return ResponseText(body), nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	start := time.Now()
	err := c.limiter.Wait(ctx)
	metrics.TextGenRateLimitWait.Observe(time.Since(start).Seconds())
	return err
}

// redact keeps the API key out of transport errors, which embed the request URL.
func (c *Client) redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.URL != c.redacted {
		return &url.Error{Op: urlErr.Op, URL: c.redacted, Err: urlErr.Err}
	}
	return err
}

// readBodyForError reads at most maxErrorBodySize bytes of a failed response.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
