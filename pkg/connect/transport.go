package connect

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/connect-client/internal/metrics"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "connect-client-go/1.0"
	tracerName       = "github.com/donaldgifford/connect-client/pkg/connect"

	// RequestIDHeader carries a per-request UUID for correlating client
	// logs with server logs.
	RequestIDHeader = "X-Request-Id"
)

// Response is the raw result of a single round trip.
type Response struct {
	Status    int
	Header    http.Header
	Body      []byte
	RequestID string
}

// Transport sends authenticated requests to one base endpoint. It never
// retries: a failed call surfaces immediately. Absolute URLs on another
// host are fetched without credentials.
type Transport struct {
	rc      *resty.Client
	base    *url.URL
	tokens  TokenProvider
	limiter *RateLimiter
	tracer  trace.Tracer
	meter   metric.MeterProvider
	logger  *slog.Logger

	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// TransportOption configures the Transport.
type TransportOption func(*Transport)

// WithTransportHTTPClient sends requests through a copy of hc, so the
// request timeout never changes hc itself. hc's RoundTripper is shared.
func WithTransportHTTPClient(hc *http.Client) TransportOption {
	return func(t *Transport) {
		c := *hc
		t.rc = resty.NewWithClient(&c)
	}
}

// WithTransportRateLimiter gates every Send through r.
func WithTransportRateLimiter(r *RateLimiter) TransportOption {
	return func(t *Transport) {
		t.limiter = r
	}
}

// WithTracerProvider records a client span per request.
func WithTracerProvider(tp trace.TracerProvider) TransportOption {
	return func(t *Transport) {
		t.tracer = tp.Tracer(tracerName)
	}
}

// WithMeterProvider records request count and duration as OTel metrics
// through mp. The default is the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) TransportOption {
	return func(t *Transport) {
		t.meter = mp
	}
}

// WithTransportLogger sets the logger.
func WithTransportLogger(l *slog.Logger) TransportOption {
	return func(t *Transport) {
		t.logger = l
	}
}

// NewTransport creates a Transport for baseURL. A timeout <= 0 selects the
// 30s default; an empty userAgent selects the library default.
func NewTransport(
	baseURL string,
	tokens TokenProvider,
	timeout time.Duration,
	userAgent string,
	opts ...TransportOption,
) *Transport {
	t := &Transport{
		rc:     resty.New(),
		tokens: tokens,
		tracer: otel.GetTracerProvider().Tracer(tracerName),
		meter:  otel.GetMeterProvider(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.initInstruments()
	if u, err := url.Parse(baseURL); err == nil {
		t.base = u
	}

	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	t.rc.
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetLogger(restyLogger{t.logger})
	return t
}

// Send performs one authenticated request. path is relative to the base
// endpoint and may carry a query string; an absolute URL is sent as is.
// body, when non-nil, is encoded as JSON. Any HTTP status is returned as a
// Response; only transport and auth failures produce an error.
func (t *Transport) Send(
	ctx context.Context,
	method, path string,
	headers map[string]string,
	body any,
) (*Response, error) {
	op := operationFrom(ctx)

	ctx, span := t.tracer.Start(ctx, "connect "+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
			attribute.String("connect.op", op),
		),
	)
	defer span.End()

	start := time.Now()
	resp, err := t.send(ctx, op, method, path, headers, body)

	status := "error"
	if resp != nil {
		status = strconv.Itoa(resp.Status)
		span.SetAttributes(
			attribute.Int("http.response.status_code", resp.Status),
			attribute.String("connect.request_id", resp.RequestID),
		)
		if resp.Status >= http.StatusBadRequest {
			span.SetStatus(codes.Error, http.StatusText(resp.Status))
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	elapsed := time.Since(start).Seconds()
	metrics.RequestsTotal.WithLabelValues(op, method, status).Inc()
	metrics.RequestDuration.WithLabelValues(op, method).Observe(elapsed)

	attrs := metric.WithAttributes(
		attribute.String("connect.op", op),
		attribute.String("http.request.method", method),
		attribute.String("connect.status", status),
	)
	t.requests.Add(ctx, 1, attrs)
	t.duration.Record(ctx, elapsed, attrs)

	return resp, err
}

func (t *Transport) initInstruments() {
	m := t.meter.Meter(tracerName)

	var err error
	t.requests, err = m.Int64Counter("connect.client.requests",
		metric.WithDescription("Connect API requests by operation and status."))
	if err != nil {
		t.logger.Warn("creating request counter", "error", err)
		t.requests = metricnoop.Int64Counter{}
	}
	t.duration, err = m.Float64Histogram("connect.client.request.duration",
		metric.WithDescription("Connect API request duration."),
		metric.WithUnit("s"))
	if err != nil {
		t.logger.Warn("creating request duration histogram", "error", err)
		t.duration = metricnoop.Float64Histogram{}
	}
}

// sameHost reports whether path targets the base endpoint. Relative paths
// always do; absolute URLs must match its scheme and host.
func (t *Transport) sameHost(path string) bool {
	if !isAbsoluteURL(path) {
		return true
	}
	u, err := url.Parse(path)
	if err != nil || t.base == nil {
		return false
	}
	return strings.EqualFold(u.Scheme, t.base.Scheme) && strings.EqualFold(u.Host, t.base.Host)
}

func (t *Transport) send(
	ctx context.Context,
	op, method, path string,
	headers map[string]string,
	body any,
) (*Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrQuotaExhausted) {
				metrics.RateLimitHitsTotal.Inc()
			}
			return nil, &Error{Kind: KindNetwork, Op: op, Message: "rate limit", Err: err}
		}
		metrics.RateLimitUsage.Set(float64(t.limiter.Count()))
	}

	authenticated := t.sameHost(path)

	var token string
	if authenticated {
		var err error
		if token, err = t.tokens.Token(ctx); err != nil {
			return nil, authError(op, err)
		}
	}

	requestID := uuid.NewString()
	req := t.rc.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, requestID).
		SetHeaders(headers)
	if authenticated {
		req.SetHeader("Authorization", "Bearer "+token)
	}

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{
				Kind:    KindInvalidArgument,
				Op:      op,
				Message: "encoding request body",
				Err:     err,
			}
		}
		req.SetHeader("Content-Type", "application/json").SetBody(data)
	}

	res, err := req.Execute(method, path)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: op, Message: "executing request", Err: err}
	}

	t.logger.DebugContext(ctx, "connect request",
		"op", op,
		"method", method,
		"path", path,
		"status", res.StatusCode(),
		"duration", res.Time(),
		"request_id", requestID,
	)

	if authenticated && res.StatusCode() == http.StatusUnauthorized {
		if err := t.invalidate(ctx, token); err != nil {
			t.logger.WarnContext(ctx, "invalidating token failed", "error", err)
		}
	}

	return &Response{
		Status:    res.StatusCode(),
		Header:    res.Header(),
		Body:      res.Body(),
		RequestID: requestID,
	}, nil
}

// staleTokenInvalidator is implemented by providers that can drop a token
// only while it is still the one they hold.
type staleTokenInvalidator interface {
	InvalidateToken(ctx context.Context, token string) error
}

func (t *Transport) invalidate(ctx context.Context, token string) error {
	if p, ok := t.tokens.(staleTokenInvalidator); ok {
		return p.InvalidateToken(ctx, token)
	}
	return t.tokens.Invalidate(ctx)
}

func authError(op string, err error) error {
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	return &Error{Kind: KindAuth, Op: op, Message: "getting auth token", Err: err}
}

type opKey struct{}

// WithOperation labels ctx with a repository operation name. Transport
// uses it for span names and metric labels.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, opKey{}, op)
}

func operationFrom(ctx context.Context) string {
	if op, ok := ctx.Value(opKey{}).(string); ok && op != "" {
		return op
	}
	return "raw"
}
