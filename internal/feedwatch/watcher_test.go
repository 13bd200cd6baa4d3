package feedwatch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/connect-client/internal/feedwatch"
	"github.com/donaldgifford/connect-client/internal/mockserver"
	"github.com/donaldgifford/connect-client/internal/notify"
	notifyMocks "github.com/donaldgifford/connect-client/internal/notify/mocks"
	"github.com/donaldgifford/connect-client/pkg/connect"
)

// scripted returns a fixed sequence of statuses per job id, repeating
// the last one. Ids listed in errs fail instead.
type scripted struct {
	mu       sync.Mutex
	statuses map[int][]string
	errs     map[int]error
	calls    map[int]int
}

func newScripted(statuses map[int][]string) *scripted {
	return &scripted{statuses: statuses, errs: map[int]error{}, calls: map[int]int{}}
}

func (s *scripted) next(id int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.errs[id]; ok {
		return "", err
	}
	seq := s.statuses[id]
	n := min(s.calls[id], len(seq)-1)
	s.calls[id]++
	return seq[n], nil
}

type scriptedExports struct{ *scripted }

func (s scriptedExports) Find(_ context.Context, id int) (*connect.ProductExport, error) {
	status, err := s.next(id)
	if err != nil {
		return nil, err
	}
	e := &connect.ProductExport{ID: id, Status: status}
	if status == connect.JobStatusDone {
		e.DownloadURL = "https://files.example.com/export.csv"
	}
	return e, nil
}

type scriptedImports struct{ *scripted }

func (s scriptedImports) Find(_ context.Context, id int) (*connect.ProductImport, error) {
	status, err := s.next(id)
	if err != nil {
		return nil, err
	}
	return &connect.ProductImport{ID: id, Status: status}, nil
}

type updateLog struct {
	mu      sync.Mutex
	updates []feedwatch.Update
}

func (l *updateLog) add(u feedwatch.Update) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.updates = append(l.updates, u)
}

func (l *updateLog) all() []feedwatch.Update {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]feedwatch.Update(nil), l.updates...)
}

func TestNew_RegistersCronEntry(t *testing.T) {
	t.Parallel()

	w, err := feedwatch.New(nil, nil, feedwatch.WithInterval(time.Minute))
	require.NoError(t, err)
	assert.Len(t, w.Entries(), 1)
	assert.Zero(t, w.Pending())

	select {
	case <-w.Done():
	default:
		t.Fatal("a watcher without jobs should be idle")
	}
}

func TestWatch_Validation(t *testing.T) {
	t.Parallel()

	exports := scriptedExports{newScripted(nil)}
	w, err := feedwatch.New(exports, nil)
	require.NoError(t, err)

	require.NoError(t, w.WatchExport(1))
	require.NoError(t, w.WatchExport(1))
	assert.Equal(t, 1, w.Pending())

	require.Error(t, w.WatchExport(0))
	require.Error(t, w.WatchImport(2), "no import finder")
	require.Error(t, w.Watch(connect.ResourceOrder, 3))
}

func TestPoll_ExportLifecycle(t *testing.T) {
	t.Parallel()

	exports := scriptedExports{newScripted(map[int][]string{
		7: {connect.JobStatusPending, connect.JobStatusProcessing, connect.JobStatusProcessing, connect.JobStatusDone},
	})}

	n := notifyMocks.NewMockNotifier(t)
	n.EXPECT().
		Notify(mock.Anything, mock.MatchedBy(func(e *notify.JobEvent) bool {
			return e.JobID == 7 && e.Status == connect.JobStatusDone &&
				e.Resource == string(connect.ResourceProductExport) &&
				e.URL == "https://files.example.com/export.csv"
		})).
		Return(nil).Once()

	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	log := &updateLog{}
	w, err := feedwatch.New(exports, nil,
		feedwatch.WithNotifier(n),
		feedwatch.WithOnUpdate(log.add),
		feedwatch.WithNowFunc(func() time.Time { return fixed }),
	)
	require.NoError(t, err)
	require.NoError(t, w.WatchExport(7))
	done := w.Done()

	for range 4 {
		require.NoError(t, w.Poll(context.Background()))
	}

	updates := log.all()
	require.Len(t, updates, 3, "unchanged statuses are not reported")
	assert.Equal(t, "", updates[0].Previous)
	assert.Equal(t, connect.JobStatusPending, updates[0].Status)
	assert.Equal(t, connect.JobStatusProcessing, updates[1].Status)
	assert.Equal(t, connect.JobStatusDone, updates[2].Status)
	assert.Equal(t, connect.JobStatusProcessing, updates[2].Previous)
	assert.True(t, updates[2].Terminal)
	assert.Equal(t, fixed, updates[2].At)

	assert.Zero(t, w.Pending())
	select {
	case <-done:
	default:
		t.Fatal("watcher should be idle once every job settled")
	}

	// Settled jobs are no longer polled.
	require.NoError(t, w.Poll(context.Background()))
	assert.Len(t, log.all(), 3)
}

func TestPoll_BatchNotification(t *testing.T) {
	t.Parallel()

	exports := scriptedExports{newScripted(map[int][]string{1: {connect.JobStatusDone}})}
	imports := scriptedImports{newScripted(map[int][]string{2: {connect.JobStatusFailed}})}

	n := notifyMocks.NewMockNotifier(t)
	n.EXPECT().
		NotifyBatch(mock.Anything, mock.MatchedBy(func(events []notify.JobEvent) bool {
			return len(events) == 2
		}), "feedwatch").
		Return(errors.New("webhook down")).Once()

	w, err := feedwatch.New(exports, imports, feedwatch.WithNotifier(n))
	require.NoError(t, err)
	require.NoError(t, w.WatchExport(1))
	require.NoError(t, w.WatchImport(2))

	// Notification failures are logged, not returned.
	require.NoError(t, w.Poll(context.Background()))
	assert.Zero(t, w.Pending())
}

func TestPoll_Errors(t *testing.T) {
	t.Parallel()

	exports := scriptedExports{newScripted(map[int][]string{})}
	exports.errs[1] = &connect.Error{Kind: connect.KindAPI, Resource: connect.ResourceProductExport, Status: http.StatusNotFound}
	exports.errs[2] = &connect.Error{Kind: connect.KindNetwork, Resource: connect.ResourceProductExport}

	log := &updateLog{}
	w, err := feedwatch.New(exports, nil, feedwatch.WithOnUpdate(log.add))
	require.NoError(t, err)
	require.NoError(t, w.WatchExport(1))
	require.NoError(t, w.WatchExport(2))

	err = w.Poll(context.Background())
	require.ErrorIs(t, err, connect.ErrNetwork)

	updates := log.all()
	require.Len(t, updates, 1)
	assert.Equal(t, 1, updates[0].ID)
	assert.Equal(t, feedwatch.StatusMissing, updates[0].Status)
	assert.True(t, updates[0].Terminal)
	assert.Equal(t, 1, w.Pending(), "failed lookups stay pending")
}

func TestWatcher_MockServer(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(mockserver.New().Handler())
	defer ts.Close()

	c, err := connect.New(connect.Config{
		EndpointURL:  ts.URL,
		ClientID:     mockserver.DefaultClientID,
		ClientSecret: mockserver.DefaultClientSecret,
	})
	require.NoError(t, err)

	exports := connect.NewProductExportRepository(c)
	e := &connect.ProductExport{TemplateKey: "default", Format: "json"}
	require.NoError(t, exports.RequestExport(context.Background(), e))

	log := &updateLog{}
	w, err := feedwatch.New(exports, connect.NewProductImportRepository(c), feedwatch.WithOnUpdate(log.add))
	require.NoError(t, err)
	require.NoError(t, w.WatchExport(e.ID))

	for range 3 {
		require.NoError(t, w.Poll(context.Background()))
	}
	assert.Zero(t, w.Pending())

	updates := log.all()
	require.NotEmpty(t, updates)
	last := updates[len(updates)-1]
	assert.Equal(t, connect.JobStatusDone, last.Status)
	assert.NotEmpty(t, last.DownloadURL)
}

func TestWatcher_StartStop(t *testing.T) {
	t.Parallel()

	exports := scriptedExports{newScripted(map[int][]string{5: {connect.JobStatusProcessing, connect.JobStatusDone}})}
	w, err := feedwatch.New(exports, nil, feedwatch.WithInterval(time.Second))
	require.NoError(t, err)
	require.NoError(t, w.WatchExport(5))

	w.Start()
	defer func() { <-w.Stop().Done() }()

	select {
	case <-w.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("job did not settle")
	}
	assert.Zero(t, w.Pending())
}
