package connect_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/connect-client/internal/mockserver"
	"github.com/donaldgifford/connect-client/pkg/connect"
)

func TestGeneralRepository_APIStatus(t *testing.T) {
	t.Parallel()

	c, ms := newMockAPI(t, nil)
	general := connect.NewGeneralRepository(c)

	status, err := general.APIStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.OK())

	// A degraded message is data, not an error.
	ms.SetStatusMessage("Maintenance")
	status, err = general.APIStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Maintenance", status.Message)
	assert.False(t, status.OK())
}

func TestGeneralRepository_DownloadFile(t *testing.T) {
	t.Parallel()

	c, _ := newMockAPI(t, []mockserver.Option{
		mockserver.WithFile("invoice-42.pdf", []byte("%PDF-invoice")),
	})
	general := connect.NewGeneralRepository(c)

	data, err := general.DownloadFile(context.Background(), "invoice-42.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-invoice", string(data))

	byURL, err := general.DownloadFile(context.Background(), c.Config().EndpointURL+"/downloads/invoice-42.pdf")
	require.NoError(t, err)
	assert.Equal(t, data, byURL)

	_, err = general.DownloadFile(context.Background(), "missing.csv")
	require.ErrorIs(t, err, connect.ErrGeneral)

	_, err = general.DownloadFile(context.Background(), "  ")
	require.ErrorIs(t, err, connect.ErrInvalidArgument)
}

func TestGeneralRepository_DownloadFileFromForeignHost(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		gotAuth []string
	)
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		mu.Unlock()
		_, _ = w.Write([]byte("sku,price\nMP-1,9.90\n"))
	}))
	defer storage.Close()

	c, _ := newMockAPI(t, nil)
	general := connect.NewGeneralRepository(c)

	data, err := general.DownloadFile(context.Background(), storage.URL+"/bucket/export.csv")
	require.NoError(t, err)
	assert.Equal(t, "sku,price\nMP-1,9.90\n", string(data))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, gotAuth, 1)
	assert.Empty(t, gotAuth[0], "bearer token must not leave the API host")
}

func TestGeneralRepository_SaveFile(t *testing.T) {
	t.Parallel()

	c, _ := newMockAPI(t, []mockserver.Option{
		mockserver.WithFile("feed.csv", []byte("sku\nMP-1\n")),
	})
	general := connect.NewGeneralRepository(c)

	dir := t.TempDir()
	path := filepath.Join(dir, "feed.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o600))

	require.NoError(t, general.SaveFile(context.Background(), "feed.csv", path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sku\nMP-1\n", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")

	require.ErrorIs(t, general.SaveFile(context.Background(), "feed.csv", ""), connect.ErrInvalidArgument)
}
