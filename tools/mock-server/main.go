// Package main runs a mock Connect API server for local development.
// It serves the in-memory fixtures from internal/mockserver so connectctl
// and the client library can be exercised without real credentials.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/connect-client/internal/mockserver"
	"github.com/donaldgifford/connect-client/internal/notify"
	"github.com/donaldgifford/connect-client/pkg/logger"
)

type options struct {
	clientID     string
	clientSecret string
	tokenTTL     int
	status       string
	webhookURL   string
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	opts := options{}
	flag.StringVar(&opts.clientID, "client-id", mockserver.DefaultClientID, "accepted OAuth client id")
	flag.StringVar(&opts.clientSecret, "client-secret", mockserver.DefaultClientSecret, "accepted OAuth client secret")
	flag.IntVar(&opts.tokenTTL, "token-ttl", 0, "access token lifetime in seconds (default server value)")
	flag.StringVar(&opts.status, "status", "OK", "message returned by /status")
	flag.StringVar(&opts.webhookURL, "webhook-url", "", "deliver feed job callbacks here when a job has no callback URL")
	logLevel := flag.String("log-level", "debug", "log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "text", "log format (text, json, pretty)")
	flag.Parse()

	log := logger.New(*logLevel, *logFormat)
	e := newServer(opts, log)

	addr := fmt.Sprintf(":%d", *port)
	log.Info("starting mock Connect server",
		"addr", addr,
		"client_id", opts.clientID,
	)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("shutting down server", "error", err)
		return
	}
	log.Info("server stopped")
}

// newServer builds the API routes plus health and metrics endpoints.
func newServer(opts options, log *slog.Logger) *echo.Echo {
	srvOpts := []mockserver.Option{
		mockserver.WithCredentials(opts.clientID, opts.clientSecret),
		mockserver.WithLogger(log),
	}
	if opts.tokenTTL > 0 {
		srvOpts = append(srvOpts, mockserver.WithTokenTTL(opts.tokenTTL))
	}
	if opts.status != "" {
		srvOpts = append(srvOpts, mockserver.WithStatusMessage(opts.status))
	}
	if opts.webhookURL != "" {
		srvOpts = append(srvOpts, mockserver.WithNotifier(notify.NewWebhookNotifier(opts.webhookURL)))
	}

	e := mockserver.New(srvOpts...).Handler()
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return e
}
