package connect_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/connect-client/internal/mockserver"
	"github.com/donaldgifford/connect-client/internal/notify"
	"github.com/donaldgifford/connect-client/pkg/connect"
)

// recordingNotifier keeps every event it is given.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.JobEvent
}

func (r *recordingNotifier) Notify(_ context.Context, e *notify.JobEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	return nil
}

func (r *recordingNotifier) NotifyBatch(_ context.Context, events []notify.JobEvent, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

func (r *recordingNotifier) Events() []notify.JobEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.JobEvent(nil), r.events...)
}

func TestProductExportRepository_Lifecycle(t *testing.T) {
	t.Parallel()

	rec := &recordingNotifier{}
	c, _ := newMockAPI(t, []mockserver.Option{mockserver.WithNotifier(rec)})
	exports := connect.NewProductExportRepository(c)
	general := connect.NewGeneralRepository(c)

	e := &connect.ProductExport{
		TemplateKey: "default",
		Format:      "csv",
		Filters:     &connect.ProductExportFilterOptions{ProductTypes: connect.ProductTypePhysical, Lang: "DE"},
		Callback:    &connect.Callback{URL: "https://shop.example.com/hooks/export"},
	}
	require.NoError(t, exports.RequestExport(context.Background(), e))
	assert.Positive(t, e.ID)
	assert.Equal(t, connect.JobStatusPending, e.Status)

	var found *connect.ProductExport
	for range 3 {
		var err error
		found, err = exports.Find(context.Background(), e.ID)
		require.NoError(t, err)
		if connect.IsTerminalJobStatus(found.Status) {
			break
		}
	}
	require.Equal(t, connect.JobStatusDone, found.Status)
	require.NotEmpty(t, found.DownloadURL)

	data, err := general.DownloadFile(context.Background(), found.DownloadURL)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sku,price")

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, e.ID, events[0].JobID)
	assert.Equal(t, connect.JobStatusDone, events[0].Status)
	assert.Equal(t, "https://shop.example.com/hooks/export", events[0].CallbackURL)

	page, err := exports.All(context.Background(), connect.ProductExportOptions{})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)

	// A finished export cannot be canceled, but it can be deleted.
	_, err = exports.Cancel(context.Background(), e.ID)
	require.ErrorIs(t, err, connect.ErrProductExport)

	require.NoError(t, exports.Delete(context.Background(), e.ID))
	_, err = exports.Find(context.Background(), e.ID)
	require.ErrorIs(t, err, connect.ErrProductExport)
}

func TestProductExportRepository_Cancel(t *testing.T) {
	t.Parallel()

	c, _ := newMockAPI(t, nil)
	exports := connect.NewProductExportRepository(c)

	id := 7
	e := &connect.ProductExport{TemplateID: &id, Format: "xlsx"}
	require.NoError(t, exports.RequestExport(context.Background(), e))

	out, err := exports.Cancel(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, connect.JobStatusCanceled, out.Status)
}

func TestProductExportRepository_RequestExport_Invalid(t *testing.T) {
	t.Parallel()

	zero := 0
	tests := []struct {
		name   string
		export *connect.ProductExport
	}{
		{name: "nil export", export: nil},
		{name: "already requested", export: &connect.ProductExport{ID: 1, TemplateKey: "k", Format: "csv"}},
		{name: "no template", export: &connect.ProductExport{Format: "csv"}},
		{name: "zero template id", export: &connect.ProductExport{TemplateID: &zero, Format: "csv"}},
		{name: "no format", export: &connect.ProductExport{TemplateKey: "k"}},
		{
			name: "bad product type",
			export: &connect.ProductExport{
				TemplateKey: "k",
				Format:      "csv",
				Filters:     &connect.ProductExportFilterOptions{ProductTypes: "digital"},
			},
		},
		{
			name: "relative callback",
			export: &connect.ProductExport{
				TemplateKey: "k",
				Format:      "csv",
				Callback:    &connect.Callback{URL: "/hooks/export"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, ms := newMockAPI(t, nil)

			err := connect.NewProductExportRepository(c).RequestExport(context.Background(), tt.export)
			require.ErrorIs(t, err, connect.ErrInvalidArgument)
			assert.Zero(t, ms.TokenExchanges())
		})
	}
}

func TestProductExportRepository_RequestExport_ServerValidation(t *testing.T) {
	t.Parallel()

	c, _ := newMockAPI(t, nil)

	err := connect.NewProductExportRepository(c).RequestExport(context.Background(),
		&connect.ProductExport{TemplateKey: "k", Format: "pdf"})
	require.ErrorIs(t, err, connect.ErrProductExport)
}

func TestProductImportRepository_Lifecycle(t *testing.T) {
	t.Parallel()

	c, _ := newMockAPI(t, nil)
	imports := connect.NewProductImportRepository(c)

	i := &connect.ProductImport{
		TemplateKey: "default",
		DryRun:      true,
		Input:       &connect.ProductImportInput{URL: "https://files.example.com/products.csv", Format: "csv"},
	}
	require.NoError(t, imports.RequestImport(context.Background(), i))
	assert.Positive(t, i.ID)
	assert.Equal(t, connect.JobStatusPending, i.Status)

	validated, err := imports.Validate(context.Background(), i.ID)
	require.NoError(t, err)
	assert.True(t, validated.DryRun)

	confirmed, err := imports.Confirm(context.Background(), i.ID)
	require.NoError(t, err)
	assert.False(t, confirmed.DryRun)

	page, err := imports.All(context.Background(), connect.ProductImportOptions{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, i.ID, page.Data[0].ID)

	canceled, err := imports.Cancel(context.Background(), i.ID)
	require.NoError(t, err)
	assert.Equal(t, connect.JobStatusCanceled, canceled.Status)

	_, err = imports.Confirm(context.Background(), i.ID)
	require.ErrorIs(t, err, connect.ErrProductImport)

	require.NoError(t, imports.Delete(context.Background(), i.ID))
	_, err = imports.Find(context.Background(), i.ID)
	require.ErrorIs(t, err, connect.ErrProductImport)
}

func TestProductImportRepository_RequestImport_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		imp  *connect.ProductImport
	}{
		{name: "nil import", imp: nil},
		{
			name: "already requested",
			imp: &connect.ProductImport{
				ID:          9,
				TemplateKey: "k",
				Input:       &connect.ProductImportInput{URL: "https://x.example.com/a.csv", Format: "csv"},
			},
		},
		{name: "no input", imp: &connect.ProductImport{TemplateKey: "k"}},
		{
			name: "relative input url",
			imp: &connect.ProductImport{
				TemplateKey: "k",
				Input:       &connect.ProductImportInput{URL: "a.csv", Format: "csv"},
			},
		},
		{
			name: "no template",
			imp: &connect.ProductImport{
				Input: &connect.ProductImportInput{URL: "https://x.example.com/a.csv", Format: "csv"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, ms := newMockAPI(t, nil)

			err := connect.NewProductImportRepository(c).RequestImport(context.Background(), tt.imp)
			require.ErrorIs(t, err, connect.ErrInvalidArgument)
			assert.Zero(t, ms.TokenExchanges())
		})
	}
}
