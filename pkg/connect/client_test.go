package connect_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/connect-client/internal/mockserver"
	"github.com/donaldgifford/connect-client/pkg/connect"
	"github.com/donaldgifford/connect-client/pkg/connect/mocks"
)

const testShopURL = "https://shop.example.com"

// newMockAPI starts a mock Connect API and returns a client for it.
func newMockAPI(
	t *testing.T,
	srvOpts []mockserver.Option,
	opts ...connect.Option,
) (*connect.Client, *mockserver.Server) {
	t.Helper()

	ms := mockserver.New(srvOpts...)
	ts := httptest.NewServer(ms.Handler())
	t.Cleanup(ts.Close)

	c, err := connect.New(connect.Config{
		EndpointURL:  ts.URL,
		ClientID:     mockserver.DefaultClientID,
		ClientSecret: mockserver.DefaultClientSecret,
		ShopURL:      testShopURL,
	}, opts...)
	require.NoError(t, err)

	return c, ms
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      connect.Config
		wantKind connect.Kind
	}{
		{
			name:     "empty client id",
			cfg:      connect.Config{EndpointURL: "https://api.example.com", ClientSecret: "s"},
			wantKind: connect.KindAuth,
		},
		{
			name:     "empty client secret",
			cfg:      connect.Config{EndpointURL: "https://api.example.com", ClientID: "c"},
			wantKind: connect.KindAuth,
		},
		{
			name:     "missing endpoint",
			cfg:      connect.Config{ClientID: "c", ClientSecret: "s"},
			wantKind: connect.KindInvalidArgument,
		},
		{
			name:     "relative endpoint",
			cfg:      connect.Config{EndpointURL: "api.example.com/v1", ClientID: "c", ClientSecret: "s"},
			wantKind: connect.KindInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := connect.New(tt.cfg)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.Equal(t, tt.wantKind, connect.KindOf(err))
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	c, err := connect.New(connect.Config{
		EndpointURL:  "https://api.example.com/v1/",
		ClientID:     "c",
		ClientSecret: "s",
	})
	require.NoError(t, err)

	cfg := c.Config()
	assert.Equal(t, "https://api.example.com/v1", cfg.EndpointURL)
	assert.Equal(t, "https://api.example.com/v1/oauth/token", cfg.TokenURL)
}

func TestClient_Authenticate(t *testing.T) {
	t.Parallel()

	c, ms := newMockAPI(t, nil)

	require.NoError(t, c.Authenticate(context.Background()))
	require.NoError(t, c.Authenticate(context.Background()))
	assert.Equal(t, int64(1), ms.TokenExchanges())

	require.NoError(t, c.Logout(context.Background()))
	require.NoError(t, c.Authenticate(context.Background()))
	assert.Equal(t, int64(2), ms.TokenExchanges())
}

func TestClient_AuthenticateBadCredentials(t *testing.T) {
	t.Parallel()

	ms := mockserver.New()
	ts := httptest.NewServer(ms.Handler())
	defer ts.Close()

	c, err := connect.New(connect.Config{
		EndpointURL:  ts.URL,
		ClientID:     "someone-else",
		ClientSecret: "wrong",
	})
	require.NoError(t, err)

	err = c.Authenticate(context.Background())
	require.ErrorIs(t, err, connect.ErrAuth)
	assert.Contains(t, err.Error(), "Client authentication failed")

	// Every repository call fails the same way.
	_, err = c.Status(context.Background())
	require.ErrorIs(t, err, connect.ErrAuth)
}

func TestClient_OneExchangeForManyCalls(t *testing.T) {
	t.Parallel()

	c, ms := newMockAPI(t, nil)
	countries := connect.NewCountryRepository(c)

	for range 5 {
		_, err := countries.All(context.Background(), connect.CountryOptions{})
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), ms.TokenExchanges())
}

func TestClient_RevokedTokenIsDropped(t *testing.T) {
	t.Parallel()

	c, ms := newMockAPI(t, nil)

	_, err := c.Status(context.Background())
	require.NoError(t, err)

	ms.RevokeTokens()

	// The rejected call surfaces as an auth error; it is not retried.
	_, err = c.Status(context.Background())
	require.ErrorIs(t, err, connect.ErrAuth)
	assert.Equal(t, int64(1), ms.TokenExchanges())

	// The next call fetches a fresh token.
	_, err = c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), ms.TokenExchanges())
}

func TestClient_WithTokenProvider(t *testing.T) {
	t.Parallel()

	tokens := mocks.NewMockTokenProvider(t)
	tokens.EXPECT().Token(mock.Anything).Return("not-issued-by-server", nil)
	tokens.EXPECT().Invalidate(mock.Anything).Return(nil)

	c, _ := newMockAPI(t, nil, connect.WithTokenProvider(tokens))

	_, err := c.Status(context.Background())
	require.ErrorIs(t, err, connect.ErrAuth)
}

func TestClient_SharedTokenCache(t *testing.T) {
	t.Parallel()

	cache := connect.NewMemoryCache()
	first, ms := newMockAPI(t, nil, connect.WithSharedTokenCache(cache))

	second, err := connect.New(first.Config(), connect.WithSharedTokenCache(cache))
	require.NoError(t, err)

	require.NoError(t, first.Authenticate(context.Background()))
	require.NoError(t, second.Authenticate(context.Background()))
	assert.Equal(t, int64(1), ms.TokenExchanges())
}
