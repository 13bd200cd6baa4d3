package connect

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/donaldgifford/connect-client/internal/metrics"
)

const (
	defaultScope     = "*"
	refreshBuffer    = 60 * time.Second
	fallbackTokenTTL = time.Hour
	tokenTimeout     = 10 * time.Second
	opToken          = "auth.token"
)

// TokenProvider supplies bearer tokens for outgoing requests.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
	// Invalidate drops any cached token so the next Token call performs a
	// fresh exchange.
	Invalidate(ctx context.Context) error
}

// OAuthTokenProvider implements TokenProvider with the OAuth2
// client-credentials grant. Tokens are cached until 60 seconds before
// expiry. Read-check-refresh runs under a mutex, so concurrent callers
// share one exchange.
type OAuthTokenProvider struct {
	clientID     string
	clientSecret string
	tokenURL     string
	scope        string
	rc           *resty.Client
	cache        TokenCache
	cacheKey     string
	logger       *slog.Logger

	mu      sync.Mutex
	token   string
	expiry  time.Time
	nowFunc func() time.Time
}

// OAuthOption configures the OAuthTokenProvider.
type OAuthOption func(*OAuthTokenProvider)

// WithScope overrides the requested scope (default "*").
func WithScope(scope string) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.scope = scope
	}
}

// WithTokenHTTPClient sends the exchange through a copy of c. The token
// timeout applies to the copy only.
func WithTokenHTTPClient(c *http.Client) OAuthOption {
	return func(p *OAuthTokenProvider) {
		hc := *c
		p.rc = resty.NewWithClient(&hc)
	}
}

// WithTokenCache shares tokens through cache.
func WithTokenCache(cache TokenCache) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.cache = cache
	}
}

// WithTokenLogger sets the logger.
func WithTokenLogger(l *slog.Logger) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.logger = l
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.nowFunc = f
	}
}

// NewOAuthTokenProvider creates a token provider for the given token
// endpoint and client credentials.
func NewOAuthTokenProvider(
	tokenURL, clientID, clientSecret string,
	opts ...OAuthOption,
) *OAuthTokenProvider {
	p := &OAuthTokenProvider{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     tokenURL,
		scope:        defaultScope,
		rc:           resty.New(),
		logger:       slog.New(slog.DiscardHandler),
		nowFunc:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.rc.SetTimeout(tokenTimeout).SetLogger(restyLogger{p.logger})
	p.cacheKey = TokenCacheKey(tokenURL, clientID)
	return p
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Token returns a valid access token, performing the client-credentials
// exchange when no unexpired token is held locally or in the cache.
func (p *OAuthTokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.nowFunc()
	if p.token != "" && now.Before(p.expiry.Add(-refreshBuffer)) {
		return p.token, nil
	}

	if p.cache != nil {
		tok, err := p.cache.Get(ctx, p.cacheKey)
		if err != nil {
			p.logger.WarnContext(ctx, "token cache read failed", "error", err)
		}
		if tok != nil && now.Before(tok.ExpiresAt.Add(-refreshBuffer)) {
			metrics.TokenCacheHitsTotal.Inc()
			p.token, p.expiry = tok.AccessToken, tok.ExpiresAt
			return p.token, nil
		}
	}

	return p.refreshLocked(ctx)
}

// Invalidate drops the locally held token and its cache entry.
func (p *OAuthTokenProvider) Invalidate(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.token = ""
	p.expiry = time.Time{}
	if p.cache != nil {
		return p.cache.Delete(ctx, p.cacheKey)
	}
	return nil
}

// InvalidateToken drops token only if it is still the one held, so a 401
// for a request sent with an older token keeps a fresh one in place.
func (p *OAuthTokenProvider) InvalidateToken(ctx context.Context, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != token {
		return nil
	}
	p.token = ""
	p.expiry = time.Time{}
	if p.cache != nil {
		return p.cache.Delete(ctx, p.cacheKey)
	}
	return nil
}

// Expiry returns the expiry of the currently held token.
func (p *OAuthTokenProvider) Expiry() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.expiry
}

func (p *OAuthTokenProvider) refreshLocked(ctx context.Context) (string, error) {
	if p.clientID == "" || p.clientSecret == "" {
		return "", &Error{
			Kind:    KindAuth,
			Op:      opToken,
			Message: "client id and client secret are required",
		}
	}

	resp, err := p.rc.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetFormData(map[string]string{
			"grant_type":    "client_credentials",
			"client_id":     p.clientID,
			"client_secret": p.clientSecret,
			"scope":         p.scope,
		}).
		Post(p.tokenURL)
	if err != nil {
		metrics.TokenRefreshFailuresTotal.Inc()
		return "", &Error{Kind: KindAuth, Op: opToken, Message: "executing token request", Err: err}
	}

	if resp.StatusCode() != http.StatusOK {
		metrics.TokenRefreshFailuresTotal.Inc()
		e := responseError("", opToken, &Response{Status: resp.StatusCode(), Body: resp.Body()})
		e.Kind = KindAuth
		e.Message = "token request failed: " + e.Message
		return "", e
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(resp.Body(), &tokenResp); err != nil {
		metrics.TokenRefreshFailuresTotal.Inc()
		return "", &Error{Kind: KindAuth, Op: opToken, Message: "parsing token response", Err: err}
	}
	if tokenResp.AccessToken == "" {
		metrics.TokenRefreshFailuresTotal.Inc()
		return "", &Error{Kind: KindAuth, Op: opToken, Message: "token response has no access_token"}
	}

	now := p.nowFunc()
	p.token = tokenResp.AccessToken
	p.expiry = tokenExpiry(now, tokenResp)
	metrics.TokenRefreshesTotal.Inc()
	p.logger.DebugContext(ctx, "obtained access token", "expires_at", p.expiry)

	if p.cache != nil {
		err := p.cache.Set(ctx, p.cacheKey, CachedToken{AccessToken: p.token, ExpiresAt: p.expiry})
		if err != nil {
			p.logger.WarnContext(ctx, "token cache write failed", "error", err)
		}
	}

	return p.token, nil
}

// tokenExpiry prefers expires_in, then the JWT exp claim, then a fixed
// fallback lifetime.
func tokenExpiry(now time.Time, resp tokenResponse) time.Time {
	if resp.ExpiresIn > 0 {
		return now.Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	if exp, ok := jwtExpiry(resp.AccessToken); ok {
		return exp
	}
	return now.Add(fallbackTokenTTL)
}

// jwtExpiry reads the exp claim without verifying the signature; the
// token is only inspected, never trusted.
func jwtExpiry(raw string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// restyLogger routes resty's internal warnings into slog.
type restyLogger struct {
	l *slog.Logger
}

func (r restyLogger) Errorf(format string, v ...any) {
	r.l.Error("resty", "detail", fmt.Sprintf(format, v...))
}

func (r restyLogger) Warnf(format string, v ...any) {
	r.l.Warn("resty", "detail", fmt.Sprintf(format, v...))
}

func (r restyLogger) Debugf(format string, v ...any) {
	r.l.Debug("resty", "detail", fmt.Sprintf(format, v...))
}
