// Package builds fetches published release metadata: the electron-updater app
// manifests and the robot releases.json documents on builds.opentrons.com,
// plus the GitHub API for release readiness checks.
package builds

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

const (
	defaultMaxRetries          = 4
	defaultBackoffInitialDelay = 500 * time.Millisecond
	requestTimeout             = 10 * time.Second

	limiterRatePerSecond = 5
	limiterBurstTokens   = 10

	backoffFactor       = 2.0
	maxBackoffDelay     = 15 * time.Second
	jitterLowerBound    = 0.8
	jitterUpperBound    = 1.2
	float64MantissaBits = 53
	userAgent           = "releasectl/0.1"

	maxBodyBytes = 8 << 20
)

// ClientConfig configures the metadata client.
type ClientConfig struct {
	HTTPClient  *http.Client
	BaseURL     string
	Token       string
	BackoffBase time.Duration
	MaxRetries  int
}

// Client performs GET requests against a release metadata endpoint with
// bounded retries and rate limiting.
type Client struct {
	http    *http.Client
	baseURL *url.URL
	limiter *rate.Limiter
	jitter  func() float64
	sleep   func(time.Duration)
	cfg     ClientConfig
}

// NewClient constructs a Client with production-safe defaults.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}

	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaultBackoffInitialDelay
	}

	base := cfg.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	parsed, err := url.Parse(base)
	if err != nil {
		panic(fmt.Sprintf("invalid base URL %q: %v", base, err))
	}

	return &Client{
		cfg:     cfg,
		http:    httpClient,
		baseURL: parsed,
		limiter: rate.NewLimiter(rate.Limit(limiterRatePerSecond), limiterBurstTokens),
		sleep:   time.Sleep,
		jitter:  func() float64 { return randomFloat64(jitterLowerBound, jitterUpperBound) },
	}
}

// Get fetches the path relative to the base URL and returns the response body.
func (c *Client) Get(ctx context.Context, requestPath string) ([]byte, error) {
	target, err := c.resolve(requestPath)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		body, retry, retryAfter, err := c.attempt(ctx, target)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry {
			return nil, err
		}
		c.backoff(attempt, retryAfter)
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("exhausted retries after %d attempts", c.cfg.MaxRetries+1)
	}
	return nil, lastErr
}

// GetJSON fetches and decodes a JSON document.
func (c *Client) GetJSON(ctx context.Context, requestPath string, out any) error {
	body, err := c.Get(ctx, requestPath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode json from %s: %w", requestPath, err)
	}
	return nil
}

// GetYAML fetches and decodes a YAML document.
func (c *Client) GetYAML(ctx context.Context, requestPath string, out any) error {
	body, err := c.Get(ctx, requestPath)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode yaml from %s: %w", requestPath, err)
	}
	return nil
}

// attempt performs a single request. It reports whether the failure is worth
// retrying and any server-requested retry delay.
func (c *Client) attempt(ctx context.Context, target string) (body []byte, retry bool, retryAfter time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, false, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, reqErr := c.http.Do(req)
	if reqErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, 0, fmt.Errorf("request context: %w", ctxErr)
		}
		return nil, true, 0, fmt.Errorf("do request: %w", reqErr)
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		closeErr := resp.Body.Close()
		if readErr != nil {
			return nil, true, 0, fmt.Errorf("read response: %w", errors.Join(readErr, closeErr))
		}
		if closeErr != nil {
			return nil, false, 0, fmt.Errorf("close response body: %w", closeErr)
		}
		return data, false, 0, nil
	}

	if isRetryableStatus(resp.StatusCode) {
		return nil, true, parseRetryAfter(resp), decodeError(resp)
	}
	return nil, false, 0, decodeError(resp)
}

func (c *Client) backoff(attempt int, retryAfter time.Duration) {
	if retryAfter > 0 {
		c.sleep(retryAfter)
		return
	}

	delay := float64(c.cfg.BackoffBase) * math.Pow(backoffFactor, float64(attempt)) * c.jitter()
	backoff := time.Duration(delay)
	if backoff > maxBackoffDelay {
		backoff = maxBackoffDelay
	}
	c.sleep(backoff)
}

func (c *Client) resolve(requestPath string) (string, error) {
	if strings.HasPrefix(requestPath, "http://") || strings.HasPrefix(requestPath, "https://") {
		return requestPath, nil
	}
	target, err := c.baseURL.Parse(strings.TrimPrefix(requestPath, "/"))
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", requestPath, err)
	}
	return target.String(), nil
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func parseRetryAfter(resp *http.Response) time.Duration {
	retryAfter := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if retryAfter == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(retryAfter); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if ts, err := time.Parse(time.RFC1123, retryAfter); err == nil {
		return time.Until(ts)
	}
	return 0
}

func randomFloat64(min, max float64) float64 {
	if max <= min {
		return min
	}
	diff := max - min
	limit := int64(1 << float64MantissaBits)
	n, err := rand.Int(rand.Reader, big.NewInt(limit))
	if err != nil {
		return min
	}
	fraction := float64(n.Int64()) / float64(limit)
	return min + diff*fraction
}

// WithLimiter allows overriding the rate limiter (used by tests).
func (c *Client) WithLimiter(l *rate.Limiter) {
	if l != nil {
		c.limiter = l
	}
}

// WithSleeper injects a sleep function (tests may stub to avoid waiting).
func (c *Client) WithSleeper(s func(time.Duration)) {
	if s != nil {
		c.sleep = s
	}
}

// WithJitter injects a custom jitter provider.
func (c *Client) WithJitter(j func() float64) {
	if j != nil {
		c.jitter = j
	}
}
