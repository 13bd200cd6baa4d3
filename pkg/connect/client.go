// Package connect is a client for the MyPromo Connect fulfillment API. A
// Client holds the session (endpoint, credentials, cached bearer token);
// repositories map resource operations onto authenticated requests and
// decode typed responses. Every failure is returned as an *Error.
package connect

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/connect-client/internal/metrics"
)

const tokenPath = "/oauth/token"

// Config is the explicit client configuration. Nothing is read from the
// environment by this package.
type Config struct {
	// EndpointURL is the API base, e.g. "https://api.mypromo.com/v1".
	EndpointURL string
	// TokenURL defaults to EndpointURL + "/oauth/token".
	TokenURL     string
	ClientID     string
	ClientSecret string
	// ShopURL is used as the default return and cancel URL for designs.
	ShopURL   string
	Timeout   time.Duration
	UserAgent string
	Scope     string
}

// Client is a Connect API session.
type Client struct {
	cfg       Config
	tokens    TokenProvider
	transport *Transport
	logger    *slog.Logger
}

type clientSettings struct {
	httpClient *http.Client
	tokens     TokenProvider
	cache      TokenCache
	limiter    *RateLimiter
	tracer     trace.TracerProvider
	meter      metric.MeterProvider
	logger     *slog.Logger
}

// Option configures the Client.
type Option func(*clientSettings)

// WithHTTPClient sends API and token requests through hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *clientSettings) {
		s.httpClient = hc
	}
}

// WithTokenProvider replaces the default OAuth token provider.
func WithTokenProvider(tp TokenProvider) Option {
	return func(s *clientSettings) {
		s.tokens = tp
	}
}

// WithSharedTokenCache makes the default token provider share tokens
// through cache.
func WithSharedTokenCache(cache TokenCache) Option {
	return func(s *clientSettings) {
		s.cache = cache
	}
}

// WithRateLimiter throttles every request through r.
func WithRateLimiter(r *RateLimiter) Option {
	return func(s *clientSettings) {
		s.limiter = r
	}
}

// WithTracing records a span per request using tp.
func WithTracing(tp trace.TracerProvider) Option {
	return func(s *clientSettings) {
		s.tracer = tp
	}
}

// WithMetering records request count and duration through mp.
func WithMetering(mp metric.MeterProvider) Option {
	return func(s *clientSettings) {
		s.meter = mp
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(s *clientSettings) {
		s.logger = l
	}
}

// New validates cfg and creates a Client. Empty credentials fail with a
// KindAuth error before any network call; a missing or unparsable
// endpoint fails with KindInvalidArgument.
func New(cfg Config, opts ...Option) (*Client, error) {
	s := &clientSettings{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.EndpointURL = strings.TrimRight(cfg.EndpointURL, "/")
	if cfg.TokenURL == "" {
		cfg.TokenURL = cfg.EndpointURL + tokenPath
	}

	tokens := s.tokens
	if tokens == nil {
		tokenOpts := []OAuthOption{WithTokenLogger(s.logger)}
		if cfg.Scope != "" {
			tokenOpts = append(tokenOpts, WithScope(cfg.Scope))
		}
		if s.cache != nil {
			tokenOpts = append(tokenOpts, WithTokenCache(s.cache))
		}
		if s.httpClient != nil {
			tokenOpts = append(tokenOpts, WithTokenHTTPClient(s.httpClient))
		}
		tokens = NewOAuthTokenProvider(cfg.TokenURL, cfg.ClientID, cfg.ClientSecret, tokenOpts...)
	}

	transportOpts := []TransportOption{WithTransportLogger(s.logger)}
	if s.httpClient != nil {
		transportOpts = append(transportOpts, WithTransportHTTPClient(s.httpClient))
	}
	if s.limiter != nil {
		transportOpts = append(transportOpts, WithTransportRateLimiter(s.limiter))
	}
	if s.tracer != nil {
		transportOpts = append(transportOpts, WithTracerProvider(s.tracer))
	}
	if s.meter != nil {
		transportOpts = append(transportOpts, WithMeterProvider(s.meter))
	}

	return &Client{
		cfg:    cfg,
		tokens: tokens,
		transport: NewTransport(
			cfg.EndpointURL, tokens, cfg.Timeout, cfg.UserAgent, transportOpts...,
		),
		logger: s.logger,
	}, nil
}

func (c *Config) validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return &Error{
			Kind:    KindAuth,
			Op:      "connect",
			Message: "client id and client secret are required",
		}
	}
	if c.EndpointURL == "" {
		return &Error{Kind: KindInvalidArgument, Op: "connect", Message: "endpoint url is required"}
	}
	u, err := url.Parse(c.EndpointURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &Error{
			Kind:    KindInvalidArgument,
			Op:      "connect",
			Message: "endpoint url must be absolute: " + c.EndpointURL,
			Err:     err,
		}
	}
	return nil
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Transport exposes the underlying transport for raw calls.
func (c *Client) Transport() *Transport {
	return c.transport
}

// Authenticate performs the token exchange now instead of on the first
// request.
func (c *Client) Authenticate(ctx context.Context) error {
	if _, err := c.tokens.Token(ctx); err != nil {
		return observe(authError("connect.authenticate", err))
	}
	return nil
}

// Logout drops the cached bearer token.
func (c *Client) Logout(ctx context.Context) error {
	return c.tokens.Invalidate(ctx)
}

// Status is shorthand for NewGeneralRepository(c).APIStatus(ctx).
func (c *Client) Status(ctx context.Context) (*APIStatus, error) {
	return NewGeneralRepository(c).APIStatus(ctx)
}

// call sends one request and turns transport failures and error statuses
// into *Error values tagged with res and op.
func (c *Client) call(
	ctx context.Context,
	res Resource,
	op, method, path string,
	query url.Values,
	headers map[string]string,
	body any,
) (*Response, error) {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	resp, err := c.transport.Send(WithOperation(ctx, op), method, path, headers, body)
	if err != nil {
		return nil, observe(withResource(err, res, op))
	}
	if resp.Status >= http.StatusBadRequest {
		return nil, observe(responseError(res, op, resp))
	}
	return resp, nil
}

func observe(err error) error {
	if ce, ok := err.(*Error); ok {
		metrics.ErrorsTotal.WithLabelValues(ce.Kind.String(), string(ce.Resource)).Inc()
	}
	return err
}
