// Package apiclient is the REST client used by the domain API service. It
// composes URLs, enforces a per-attempt timeout, retries transport failures
// on a linear schedule, caches unwrapped envelope data and decodes the
// {code, message, data} response envelope.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/wayss000/Inner-See-sub000/internal/cache"
	"github.com/wayss000/Inner-See-sub000/internal/logger"
	"github.com/wayss000/Inner-See-sub000/internal/metrics"
)

// CodeOK is the envelope code of a successful response.
const CodeOK = 200

const (
	maxResponseBytes  = 8 << 20
	maxErrorBodyBytes = 4 << 10
)

// Config holds the client settings.
type Config struct {
	BaseURL string

	// Timeout bounds a single attempt.
	Timeout time.Duration

	// RetryCount is the number of retries after the first attempt.
	RetryCount int

	// RetryDelay is the base of the linear backoff: attempt i (0-based)
	// waits RetryDelay*(i+1) before the next attempt.
	RetryDelay time.Duration

	// HealthTimeout bounds the connectivity check.
	HealthTimeout time.Duration

	// CacheTTL is the TTL used when a call enables caching without WithTTL.
	CacheTTL time.Duration

	// RateLimit caps outgoing attempts per second. Zero disables it.
	RateLimit float64
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:       "http://localhost:8080/api",
		Timeout:       10 * time.Second,
		RetryCount:    3,
		RetryDelay:    time.Second,
		HealthTimeout: 3 * time.Second,
		CacheTTL:      cache.DefaultTTL,
	}
}

// Response is the unwrapped envelope data of a successful call.
type Response struct {
	Data   json.RawMessage
	Cached bool
}

// Decode unmarshals the data into out.
func (r *Response) Decode(out any) error {
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return &DecodeError{Err: errors.New("response data is empty")}
	}
	if err := json.Unmarshal(r.Data, out); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// Client performs API calls. It is safe for concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	cache   *cache.Manager
	limiter *rate.Limiter
	log     *logger.Logger
	metrics *metrics.Metrics

	// sleep waits between attempts; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = logger.OrNop(l) }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a Client. A nil cache gets a private one.
func New(cfg Config, cm *cache.Manager, opts ...Option) *Client {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RetryCount < 0 {
		cfg.RetryCount = 0
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = def.HealthTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if cm == nil {
		cm = cache.New()
	}

	c := &Client{
		cfg:   cfg,
		http:  &http.Client{},
		cache: cm,
		log:   logger.Nop(),
		sleep: sleepCtx,
	}
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Cache returns the response cache.
func (c *Client) Cache() *cache.Manager {
	return c.cache
}

type callOptions struct {
	useCache bool
	cacheKey string
	ttl      time.Duration
}

// CallOption configures a single call.
type CallOption func(*callOptions)

// WithCache serves the call from the cache when possible and caches the
// result on success. An empty key caches under the request URL.
func WithCache(key string) CallOption {
	return func(o *callOptions) {
		o.useCache = true
		o.cacheKey = key
	}
}

// WithTTL overrides the cache TTL for this call.
func WithTTL(ttl time.Duration) CallOption {
	return func(o *callOptions) { o.ttl = ttl }
}

// Get issues a GET. params become query-string parameters; nil values are
// skipped.
func (c *Client) Get(ctx context.Context, path string, params map[string]any, opts ...CallOption) (*Response, error) {
	return c.do(ctx, http.MethodGet, withQuery(joinURL(c.cfg.BaseURL, path), params), nil, opts)
}

// Post issues a POST with body encoded as JSON.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...CallOption) (*Response, error) {
	return c.do(ctx, http.MethodPost, joinURL(c.cfg.BaseURL, path), body, opts)
}

// Put issues a PUT with body encoded as JSON.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...CallOption) (*Response, error) {
	return c.do(ctx, http.MethodPut, joinURL(c.cfg.BaseURL, path), body, opts)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, opts ...CallOption) (*Response, error) {
	return c.do(ctx, http.MethodDelete, joinURL(c.cfg.BaseURL, path), nil, opts)
}

func (c *Client) do(ctx context.Context, method, target string, body any, opts []CallOption) (*Response, error) {
	co := callOptions{ttl: c.cfg.CacheTTL}
	for _, o := range opts {
		o(&co)
	}
	if co.useCache && co.cacheKey == "" {
		co.cacheKey = method + " " + target
	}

	if co.useCache {
		if data, ok := cache.GetAs[json.RawMessage](c.cache, co.cacheKey); ok {
			c.metrics.IncCacheHit()
			return &Response{Data: data, Cached: true}, nil
		}
	}

	var payload []byte
	if method != http.MethodGet && body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = b
	}

	start := time.Now()
	defer func() { c.metrics.ObserveCall(method, time.Since(start)) }()

	attempts := c.cfg.RetryCount + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		data, err := c.attempt(ctx, method, target, payload)
		if err == nil {
			c.metrics.ObserveRequest(method, "ok")
			if co.useCache {
				c.cache.Set(co.cacheKey, data, co.ttl)
			}
			return &Response{Data: data}, nil
		}
		lastErr = err
		c.metrics.ObserveRequest(method, outcomeOf(err))

		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			return nil, err
		}
		if attempt == attempts-1 || ctx.Err() != nil {
			break
		}

		wait := c.cfg.RetryDelay * time.Duration(attempt+1)
		c.log.Warn("API request retrying",
			"method", method,
			"url", target,
			"attempt", attempt+1,
			"retry_count", c.cfg.RetryCount,
			"sleep", wait.String(),
			"error", err.Error(),
		)
		c.metrics.IncRetry()
		if err := c.sleep(ctx, wait); err != nil {
			break
		}
	}
	return nil, lastErr
}

// attempt performs one request and unwraps the envelope.
func (c *Client) attempt(ctx context.Context, method, target string, payload []byte) (json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &NetworkError{Method: method, URL: target, Err: err}
		}
	}

	actx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(actx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.networkError(ctx, actx, method, target, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, c.networkError(ctx, actx, method, target, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(raw))
		if len(msg) > maxErrorBodyBytes {
			msg = msg[:maxErrorBodyBytes] + "...(truncated)"
		}
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: msg}
	}

	return unwrapEnvelope(raw)
}

func (c *Client) networkError(parent, actx context.Context, method, target string, err error) error {
	ne := &NetworkError{Method: method, URL: target, Err: err}
	if parent.Err() == nil && errors.Is(actx.Err(), context.DeadlineExceeded) {
		ne.Timeout = c.cfg.Timeout
	}
	return ne
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func unwrapEnvelope(raw []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if env.Code != CodeOK {
		return nil, &EnvelopeError{Code: env.Code, Message: env.Message}
	}
	return env.Data, nil
}

// Ping checks GET /health with the health timeout. No retry, no cache.
func (c *Client) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, joinURL(c.cfg.BaseURL, "/health"), nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false
	}

	// A health endpoint may answer with a bare body; only an envelope that
	// explicitly reports failure counts as offline.
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	var env envelope
	if json.Unmarshal(raw, &env) == nil && env.Code != 0 && env.Code != CodeOK {
		return false
	}
	return true
}

// WatchForeground sweeps expired cache entries every time signals fires.
// It blocks until ctx is done or signals is closed.
func (c *Client) WatchForeground(ctx context.Context, signals <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-signals:
			if !ok {
				return
			}
			if n := c.cache.Sweep(); n > 0 {
				c.log.Debug("swept expired cache entries", "count", n)
			}
		}
	}
}

func outcomeOf(err error) string {
	var (
		netErr *NetworkError
		httpEr *HTTPError
		envErr *EnvelopeError
		decErr *DecodeError
	)
	switch {
	case errors.As(err, &netErr):
		return "network_error"
	case errors.As(err, &httpEr):
		return "http_error"
	case errors.As(err, &envErr):
		return "envelope_error"
	case errors.As(err, &decErr):
		return "decode_error"
	default:
		return "error"
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
