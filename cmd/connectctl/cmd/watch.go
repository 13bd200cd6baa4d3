package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/connect-client/internal/feedwatch"
	"github.com/donaldgifford/connect-client/internal/notify"
	"github.com/donaldgifford/connect-client/pkg/connect"
)

// ErrJobsUnsettled is returned when a watched job failed, was canceled or
// disappeared.
var ErrJobsUnsettled = errors.New("feed jobs did not finish")

func (c *cli) watchCmd(res connect.Resource, noun string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <id>...",
		Short: "Wait until " + noun + " settle",
		Long: "Poll the given jobs until each reaches a terminal status, printing every\n" +
			"status change. Settled jobs are posted to the configured webhook.\n" +
			"Exits non-zero when a job fails, is canceled or disappears.",
		Example: fmt.Sprintf("  connectctl %s watch 12 13\n  connectctl %s watch 12 --output json", noun, noun),
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := intArgs(args)
			if err != nil {
				return err
			}
			return c.run(cmd, func(s *session) error {
				return c.watchJobs(cmd, s, res, ids)
			})
		},
	}
}

// watchJobs blocks until every job settles or watch.timeout passes.
func (c *cli) watchJobs(cmd *cobra.Command, s *session, res connect.Resource, ids []int) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), s.cfg.Watch.Timeout)
	defer cancel()

	var notifier notify.Notifier = notify.NewNoOpNotifier(s.log)
	if s.cfg.Notifications.Webhook.Enabled {
		notifier = notify.NewWebhookNotifier(s.cfg.Notifications.Webhook.URL)
	}

	var (
		mu     sync.Mutex
		failed []int
	)
	w, err := feedwatch.New(
		connect.NewProductExportRepository(s.client),
		connect.NewProductImportRepository(s.client),
		feedwatch.WithInterval(s.cfg.Watch.Interval),
		feedwatch.WithNotifier(notifier),
		feedwatch.WithLogger(s.log),
		feedwatch.WithOnUpdate(func(u feedwatch.Update) {
			mu.Lock()
			defer mu.Unlock()
			if u.Terminal && !connect.IsSuccessfulJobStatus(u.Status) {
				failed = append(failed, u.ID)
			}
			if err := c.printUpdate(cmd, u); err != nil {
				s.log.Warn("printing update", "error", err)
			}
		}),
	)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := w.Watch(res, id); err != nil {
			return err
		}
	}

	if addr := s.cfg.Watch.MetricsAddr; addr != "" {
		stop := serveMetrics(addr, s)
		defer stop()
	}

	// First poll right away so fast jobs settle without waiting an interval.
	if err := w.Poll(ctx); err != nil {
		s.log.Warn("polling feed jobs", "error", err)
	}

	w.Start()
	defer func() { <-w.Stop().Done() }()

	select {
	case <-w.Done():
	case <-ctx.Done():
		return fmt.Errorf("waiting for %d job(s): %w", w.Pending(), ctx.Err())
	}

	mu.Lock()
	defer mu.Unlock()
	if len(failed) > 0 {
		return fmt.Errorf("%w: %v", ErrJobsUnsettled, failed)
	}
	return nil
}

func (c *cli) printUpdate(cmd *cobra.Command, u feedwatch.Update) error {
	out := cmd.OutOrStdout()
	switch c.output() {
	case outputTable:
		line := fmt.Sprintf("%s  %s %d  %s -> %s",
			u.At.Format(time.TimeOnly), u.Resource, u.ID, dash(u.Previous), u.Status)
		if u.DownloadURL != "" {
			line += "  " + u.DownloadURL
		}
		_, err := fmt.Fprintln(out, line)
		return err
	default:
		return c.render(cmd, u, nil)
	}
}

// serveMetrics exposes the Prometheus registry on addr until the returned
// function is called.
func serveMetrics(addr string, s *session) func() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("metrics server error", "error", err)
		}
	}()
	s.log.Info("serving metrics", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.Shutdown(ctx); err != nil {
			s.log.Warn("shutting down metrics server", "error", err)
		}
	}
}
