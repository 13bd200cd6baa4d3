// Package feedwatch polls product export and import jobs on a cron
// schedule until they reach a terminal status.
package feedwatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/connect-client/internal/metrics"
	"github.com/donaldgifford/connect-client/internal/notify"
	"github.com/donaldgifford/connect-client/pkg/connect"
)

const (
	defaultInterval = 10 * time.Second
	pollTimeout     = 30 * time.Second

	// StatusMissing is reported when the API no longer knows a job.
	StatusMissing = "missing"

	batchSource = "feedwatch"
)

// ExportFinder looks up export jobs. *connect.ProductExportRepository
// satisfies it.
type ExportFinder interface {
	Find(ctx context.Context, id int) (*connect.ProductExport, error)
}

// ImportFinder looks up import jobs. *connect.ProductImportRepository
// satisfies it.
type ImportFinder interface {
	Find(ctx context.Context, id int) (*connect.ProductImport, error)
}

// Update reports a status change of a watched job.
type Update struct {
	Resource    connect.Resource
	ID          int
	Previous    string
	Status      string
	DownloadURL string
	// Terminal is set on the last Update for a job.
	Terminal bool
	At       time.Time
}

type jobKey struct {
	res connect.Resource
	id  int
}

// Watcher tracks feed jobs and polls them on an "@every" schedule.
type Watcher struct {
	cron     *cron.Cron
	exports  ExportFinder
	imports  ImportFinder
	notifier notify.Notifier
	onUpdate func(Update)
	interval time.Duration
	log      *slog.Logger
	nowFunc  func() time.Time

	mu   sync.Mutex
	jobs map[jobKey]string
	idle chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithInterval sets the poll interval. Values <= 0 keep the default.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithNotifier delivers an event for every job that settles.
func WithNotifier(n notify.Notifier) Option {
	return func(w *Watcher) {
		w.notifier = n
	}
}

// WithOnUpdate calls fn for every status change. fn runs on the polling
// goroutine.
func WithOnUpdate(fn func(Update)) Option {
	return func(w *Watcher) {
		w.onUpdate = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// WithNowFunc overrides the clock used for Update.At.
func WithNowFunc(f func() time.Time) Option {
	return func(w *Watcher) {
		w.nowFunc = f
	}
}

// New creates a Watcher. Either finder may be nil when only one kind of
// job is watched.
func New(exports ExportFinder, imports ImportFinder, opts ...Option) (*Watcher, error) {
	idle := make(chan struct{})
	close(idle)

	w := &Watcher{
		cron:     cron.New(),
		exports:  exports,
		imports:  imports,
		interval: defaultInterval,
		log:      slog.New(slog.DiscardHandler),
		nowFunc:  time.Now,
		jobs:     make(map[jobKey]string),
		idle:     idle,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.notifier == nil {
		w.notifier = notify.NewNoOpNotifier(w.log)
	}

	if _, err := w.cron.AddFunc("@every "+w.interval.String(), w.tick); err != nil {
		return nil, fmt.Errorf("scheduling poll: %w", err)
	}
	return w, nil
}

// WatchExport starts tracking an export job.
func (w *Watcher) WatchExport(id int) error {
	if w.exports == nil {
		return errors.New("watcher has no export finder")
	}
	return w.Watch(connect.ResourceProductExport, id)
}

// WatchImport starts tracking an import job.
func (w *Watcher) WatchImport(id int) error {
	if w.imports == nil {
		return errors.New("watcher has no import finder")
	}
	return w.Watch(connect.ResourceProductImport, id)
}

// Watch starts tracking job id of the given resource. Watching a job that
// is already tracked is a no-op.
func (w *Watcher) Watch(res connect.Resource, id int) error {
	if res != connect.ResourceProductExport && res != connect.ResourceProductImport {
		return fmt.Errorf("cannot watch %s jobs", res)
	}
	if id <= 0 {
		return fmt.Errorf("job id must be positive, got %d", id)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	key := jobKey{res: res, id: id}
	if _, ok := w.jobs[key]; ok {
		return nil
	}
	if len(w.jobs) == 0 {
		w.idle = make(chan struct{})
	}
	w.jobs[key] = ""
	metrics.FeedJobsWatched.Set(float64(len(w.jobs)))
	w.log.Info("watching feed job", "resource", res, "id", id)
	return nil
}

// Pending returns the number of jobs not yet settled.
func (w *Watcher) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.jobs)
}

// Done returns a channel closed once no jobs are pending.
func (w *Watcher) Done() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.idle
}

// Start begins scheduled polling.
func (w *Watcher) Start() {
	w.log.Info("feed watcher started", "interval", w.interval)
	w.cron.Start()
}

// Stop halts scheduled polling. The returned context is done once a
// running poll has finished.
func (w *Watcher) Stop() context.Context {
	w.log.Info("feed watcher stopping")
	return w.cron.Stop()
}

// Entries returns the registered cron entries.
func (w *Watcher) Entries() []cron.Entry {
	return w.cron.Entries()
}

func (w *Watcher) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
	defer cancel()
	if err := w.Poll(ctx); err != nil {
		w.log.Error("feed job poll failed", "error", err)
	}
}

// Poll checks every pending job once. Jobs that fail to load stay
// pending, except those the API reports as not found. The returned error
// joins every lookup failure.
func (w *Watcher) Poll(ctx context.Context) error {
	w.mu.Lock()
	keys := make([]jobKey, 0, len(w.jobs))
	for k := range w.jobs {
		keys = append(keys, k)
	}
	w.mu.Unlock()

	var (
		errs    []error
		settled []notify.JobEvent
	)
	for _, k := range keys {
		metrics.FeedJobPollsTotal.Inc()

		status, downloadURL, err := w.lookup(ctx, k)
		if err != nil {
			if !isNotFound(err) {
				errs = append(errs, err)
				continue
			}
			status = StatusMissing
		}

		u, changed := w.record(k, status, downloadURL)
		if !changed {
			continue
		}
		if w.onUpdate != nil {
			w.onUpdate(u)
		}
		if u.Terminal {
			metrics.FeedJobsSettledTotal.WithLabelValues(u.Status).Inc()
			ev := notify.JobEvent{
				Resource: string(u.Resource),
				JobID:    u.ID,
				Status:   u.Status,
				URL:      u.DownloadURL,
				At:       u.At,
			}
			if err != nil {
				ev.Error = err.Error()
			}
			settled = append(settled, ev)
		}
	}

	w.deliver(ctx, settled)
	return errors.Join(errs...)
}

func (w *Watcher) lookup(ctx context.Context, k jobKey) (status, downloadURL string, err error) {
	switch k.res {
	case connect.ResourceProductExport:
		e, err := w.exports.Find(ctx, k.id)
		if err != nil {
			return "", "", err
		}
		return e.Status, e.DownloadURL, nil
	default:
		i, err := w.imports.Find(ctx, k.id)
		if err != nil {
			return "", "", err
		}
		return i.Status, "", nil
	}
}

// record stores the latest status of k and drops k once it is terminal.
// It reports whether the status changed.
func (w *Watcher) record(k jobKey, status, downloadURL string) (Update, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prev, ok := w.jobs[k]
	if !ok || prev == status {
		return Update{}, false
	}

	u := Update{
		Resource:    k.res,
		ID:          k.id,
		Previous:    prev,
		Status:      status,
		DownloadURL: downloadURL,
		Terminal:    status == StatusMissing || connect.IsTerminalJobStatus(status),
		At:          w.nowFunc(),
	}
	if u.Terminal {
		delete(w.jobs, k)
		if len(w.jobs) == 0 {
			close(w.idle)
		}
	} else {
		w.jobs[k] = status
	}
	metrics.FeedJobsWatched.Set(float64(len(w.jobs)))
	return u, true
}

func (w *Watcher) deliver(ctx context.Context, events []notify.JobEvent) {
	var err error
	switch len(events) {
	case 0:
		return
	case 1:
		err = w.notifier.Notify(ctx, &events[0])
	default:
		err = w.notifier.NotifyBatch(ctx, events, batchSource)
	}
	if err != nil {
		w.log.Warn("feed job notification failed", "count", len(events), "error", err)
	}
}

func isNotFound(err error) bool {
	var ce *connect.Error
	return errors.As(err, &ce) && ce.Kind == connect.KindAPI && ce.Status == http.StatusNotFound
}
