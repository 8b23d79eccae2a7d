package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/panelhub/file_sdk_go/internal/envelope"
	"github.com/panelhub/file_sdk_go/internal/httpx"
)

// TokenHeader carries the session token expected by the file service.
const TokenHeader = "token"

type (
	// HTTPError is returned for non-2xx replies.
	HTTPError = httpx.HTTPError
	// APIError is returned when the reply envelope carries a non-zero code.
	APIError = envelope.APIError
	// RetryPolicy controls retries of transient failures.
	RetryPolicy = httpx.RetryPolicy
)

// DefaultRetryPolicy is applied unless WithRetryPolicy overrides it.
var DefaultRetryPolicy = httpx.DefaultRetryPolicy

// Options describes one POST call: the endpoint path and an optional body.
// A nil Data sends no body at all. NoRetry sends the request exactly once,
// for calls whose effect must not be applied twice.
type Options struct {
	URL     string
	Data    any
	NoRetry bool
}

// Transport issues a POST and returns the raw response body.
type Transport interface {
	Post(ctx context.Context, opts Options) ([]byte, error)
}

// Post sends opts through t and decodes the response body into T.
// An empty body yields the zero value of T.
func Post[T any](ctx context.Context, t Transport, opts Options) (T, error) {
	var out T
	if t == nil {
		return out, fmt.Errorf("request: transport is nil")
	}
	body, err := t.Post(ctx, opts)
	if err != nil {
		return out, err
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return out, fmt.Errorf("request: decode %s response: %w", opts.URL, err)
	}
	return out, nil
}

// Option configures a Client.
type Option func(*settings)

type settings struct {
	httpOpts      []httpx.Option
	logger        *zap.Logger
	checkEnvelope bool
}

// WithToken sends the session token on every request.
func WithToken(token string) Option {
	return func(s *settings) {
		if token != "" {
			s.httpOpts = append(s.httpOpts, httpx.WithHeaders(http.Header{TokenHeader: {token}}))
		}
	}
}

// WithHeaders adds default headers to every request.
func WithHeaders(h http.Header) Option {
	return func(s *settings) {
		s.httpOpts = append(s.httpOpts, httpx.WithHeaders(h))
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(s *settings) {
		s.httpOpts = append(s.httpOpts, httpx.WithHTTPClient(h))
	}
}

// WithTimeout bounds every attempt.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.httpOpts = append(s.httpOpts, httpx.WithTimeout(d))
	}
}

// WithRetryPolicy overrides DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(s *settings) {
		s.httpOpts = append(s.httpOpts, httpx.WithRetryPolicy(p))
	}
}

// WithRateLimit caps outgoing attempts to r per second with the given burst.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(s *settings) {
		s.httpOpts = append(s.httpOpts, httpx.WithRateLimiter(rate.NewLimiter(r, burst)))
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithoutEnvelopeCheck returns bodies with a non-zero envelope code as-is
// instead of converting them into *APIError.
func WithoutEnvelopeCheck() Option {
	return func(s *settings) {
		s.checkEnvelope = false
	}
}

// Client is the HTTP Transport for the file service.
type Client struct {
	http          *httpx.Client
	logger        *zap.Logger
	checkEnvelope bool
}

// New builds a Client for baseURL, e.g. "http://panel.local:3002/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	s := &settings{
		logger:        zap.NewNop(),
		checkEnvelope: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	httpOpts := append([]httpx.Option{httpx.WithLogger(s.logger)}, s.httpOpts...)
	cl, err := httpx.NewClient(baseURL, httpOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:          cl,
		logger:        s.logger,
		checkEnvelope: s.checkEnvelope,
	}, nil
}

// Post implements Transport.
func (c *Client) Post(ctx context.Context, opts Options) ([]byte, error) {
	if c == nil || c.http == nil {
		return nil, fmt.Errorf("request: client is nil")
	}

	req := &httpx.Request{
		Method:       http.MethodPost,
		Path:         opts.URL,
		DisableRetry: opts.NoRetry,
	}
	if opts.Data != nil {
		body, contentType, err := httpx.JSONBody(opts.Data)
		if err != nil {
			return nil, fmt.Errorf("request: encode %s payload: %w", opts.URL, err)
		}
		req.Header = http.Header{"Content-Type": {contentType}}
		req.Body = bytes.NewReader(body)
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	data, err := httpx.ReadAllAndClose(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("request: read %s response: %w", opts.URL, err)
	}
	if c.checkEnvelope {
		if err := envelope.Check(data); err != nil {
			c.logger.Debug("service rejected request", zap.String("url", opts.URL), zap.Error(err))
			return nil, err
		}
	}
	return data, nil
}
