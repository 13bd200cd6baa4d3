// Package cmd implements the connectctl CLI commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/connect-client/internal/config"
	"github.com/donaldgifford/connect-client/internal/telemetry"
	"github.com/donaldgifford/connect-client/pkg/connect"
	"github.com/donaldgifford/connect-client/pkg/logger"
)

// Output formats.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputDump  = "dump"
)

// cli carries the flag state of one command tree.
type cli struct {
	v       *viper.Viper
	cfgFile string
}

// NewRootCmd builds a fresh command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "connectctl",
		Short: "CLI client for the MyPromo Connect API",
		Long: "connectctl is a command-line client for the MyPromo Connect API.\n" +
			"It lets you create designs and orders, run product feed exports and\n" +
			"imports, and browse the catalog and lookup tables from the terminal.",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			switch c.output() {
			case outputTable, outputJSON, outputDump:
				return nil
			default:
				return fmt.Errorf("--output must be one of: table, json, dump (got %q)", c.output())
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default $HOME/.connectctl.yaml)")
	flags.String("endpoint-url", "", "API base URL")
	flags.String("token-url", "", "OAuth token URL (default <endpoint-url>/oauth/token)")
	flags.String("client-id", "", "OAuth client id")
	flags.String("client-secret", "", "OAuth client secret")
	flags.String("shop-url", "", "default return and cancel URL for designs")
	flags.String("output", outputTable, "output format (table, json, dump)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json, pretty)")

	for _, name := range []string{
		"endpoint-url", "token-url", "client-id", "client-secret", "shop-url",
		"output", "log-level", "log-format",
	} {
		cobra.CheckErr(c.v.BindPFlag(name, flags.Lookup(name)))
	}
	c.v.SetEnvPrefix("CONNECT")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	root.AddCommand(
		c.statusCmd(),
		c.designsCmd(),
		c.ordersCmd(),
		c.exportsCmd(),
		c.importsCmd(),
		c.productsCmd(),
		c.carriersCmd(),
		c.countriesCmd(),
		c.localesCmd(),
		c.statesCmd(),
		c.timezonesCmd(),
		c.filesCmd(),
		versionCmd(),
	)

	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func (c *cli) output() string {
	return c.v.GetString("output")
}

// loadConfig reads the config file, when one exists, and overlays flags and
// CONNECT_* environment variables.
func (c *cli) loadConfig() (*config.Config, error) {
	path := c.cfgFile
	if path == "" {
		path = c.v.GetString("config")
	}
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			candidate := filepath.Join(home, ".connectctl.yaml")
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}

	cfg := config.Default()
	if path != "" {
		parsed, err := config.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = parsed
	}

	overlay(&cfg.Connect.EndpointURL, c.v.GetString("endpoint-url"))
	overlay(&cfg.Connect.TokenURL, c.v.GetString("token-url"))
	overlay(&cfg.Connect.ClientID, c.v.GetString("client-id"))
	overlay(&cfg.Connect.ClientSecret, c.v.GetString("client-secret"))
	overlay(&cfg.Connect.ShopURL, c.v.GetString("shop-url"))
	overlay(&cfg.Logging.Level, c.v.GetString("log-level"))
	overlay(&cfg.Logging.Format, c.v.GetString("log-format"))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// session is a configured API client plus everything that must be closed
// with it.
type session struct {
	cfg     *config.Config
	log     *slog.Logger
	client  *connect.Client
	closers []func(context.Context) error
}

func (c *cli) connect(cmd *cobra.Command) (*session, error) {
	ctx := cmd.Context()

	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg: cfg,
		log: logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format),
	}

	tel, err := telemetry.Setup(ctx, cfg.Telemetry.TelemetryConfig())
	if err != nil {
		return nil, fmt.Errorf("setting up telemetry: %w", err)
	}
	s.closers = append(s.closers, tel.Shutdown)

	opts := []connect.Option{
		connect.WithLogger(s.log),
		connect.WithTracing(tel.TracerProvider()),
		connect.WithMetering(tel.MeterProvider()),
	}
	if cfg.RateLimit.Enabled {
		opts = append(opts, connect.WithRateLimiter(connect.NewRateLimiter(
			cfg.RateLimit.PerSecond, cfg.RateLimit.Burst, cfg.RateLimit.DailyLimit,
		)))
	}

	switch cfg.TokenCache.Backend {
	case config.TokenCacheMemory:
		opts = append(opts, connect.WithSharedTokenCache(connect.NewMemoryCache()))
	case config.TokenCacheRedis:
		rc, err := connect.NewRedisCacheFromURL(ctx, cfg.TokenCache.RedisURL,
			connect.WithKeyPrefix(cfg.TokenCache.KeyPrefix))
		if err != nil {
			s.close(ctx)
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) error { return rc.Close() })
		opts = append(opts, connect.WithSharedTokenCache(rc))
	}

	client, err := connect.New(cfg.Connect.ClientConfig(), opts...)
	if err != nil {
		s.close(ctx)
		return nil, fmt.Errorf("creating client: %w", err)
	}
	s.client = client
	return s, nil
}

func (s *session) close(ctx context.Context) {
	// Closed in reverse order of acquisition.
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](context.WithoutCancel(ctx)); err != nil {
			s.log.Warn("closing session", "error", err)
		}
	}
}

// run opens a session, calls fn and closes the session.
func (c *cli) run(cmd *cobra.Command, fn func(*session) error) error {
	s, err := c.connect(cmd)
	if err != nil {
		return err
	}
	defer s.close(cmd.Context())
	return fn(s)
}

