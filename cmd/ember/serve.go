// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/emberforum/ember/internal/auth"
	"github.com/emberforum/ember/internal/auth/postgres"
	"github.com/emberforum/ember/internal/auth/redisstore"
	"github.com/emberforum/ember/internal/config"
	"github.com/emberforum/ember/internal/httpapi"
	"github.com/emberforum/ember/internal/logging"
	"github.com/emberforum/ember/internal/mail"
	"github.com/emberforum/ember/internal/observability"
	"github.com/emberforum/ember/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Ember auth API",
		Long: `Run the JSON auth API together with the observability server.
Pending database migrations are applied at startup.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd.Context(), cmd, nil)
		},
	}

	cmd.Flags().String("http-addr", ":4000", "API listen address")
	cmd.Flags().String("metrics-addr", "127.0.0.1:9100", "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("base-url", "http://localhost:3000", "public base URL used in reset links")
	cmd.Flags().String("log-format", "json", "log format (json or text)")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().Bool("cookie-secure", false, "set the Secure attribute on session cookies")

	return cmd
}

// runServeWithDeps starts the service with injectable dependencies. If deps
// is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cmd *cobra.Command, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}

	if deps.ConfigLoader == nil {
		deps.ConfigLoader = func() (config.Config, error) {
			return config.Load(configFile, cmd.Flags())
		}
	}
	if deps.PoolFactory == nil {
		deps.PoolFactory = store.Connect
	}
	if deps.RedisFactory == nil {
		deps.RedisFactory = store.ConnectRedis
	}
	if deps.MigrationRunner == nil {
		deps.MigrationRunner = func(databaseURL string) error {
			migrator, err := store.NewMigrator(databaseURL)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := migrator.Close(); closeErr != nil {
					slog.Debug("error closing migrator", "error", closeErr)
				}
			}()
			return migrator.Up()
		}
	}
	if deps.APIServerFactory == nil {
		deps.APIServerFactory = newAPIServer
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, readinessChecker)
		}
	}

	cfg, err := deps.ConfigLoader()
	if err != nil {
		return oops.Code("CONFIG_LOAD_FAILED").Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.SetDefault("ember", version, cfg.LogFormat, cfg.LogLevel)

	slog.Info("starting ember",
		"http_addr", cfg.HTTPAddr,
		"log_format", cfg.LogFormat,
	)

	if err := deps.MigrationRunner(cfg.DatabaseURL); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}
	slog.Info("database schema up to date")

	pool, err := deps.PoolFactory(ctx, cfg.DatabaseURL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()
	slog.Info("connected to database")

	rdb, err := deps.RedisFactory(ctx, cfg.RedisURL)
	if err != nil {
		return oops.Code("REDIS_CONNECT_FAILED").With("operation", "connect to redis").Wrap(err)
	}
	defer func() {
		if closeErr := rdb.Close(); closeErr != nil {
			slog.Debug("error closing redis client", "error", closeErr)
		}
	}()
	slog.Info("connected to redis")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Start observability server if configured
	var obsServer ObservabilityServer
	var metrics *observability.Metrics
	if cfg.MetricsAddr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.MetricsAddr, func() bool { return true })
		obsErrChan, obsErr := obsServer.Start()
		if obsErr != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").Wrap(obsErr)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		metrics = obsServer.Metrics()
	}

	apiServer, err := deps.APIServerFactory(cfg, pool, rdb, metrics)
	if err != nil {
		return oops.Code("API_INIT_FAILED").Wrap(err)
	}
	apiErrChan, err := apiServer.Start()
	if err != nil {
		return oops.Code("API_START_FAILED").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, apiErrChan, "api")

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("Ember started")
	slog.Info("ember ready", "api_addr", apiServer.Addr())

	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		slog.Warn("error stopping api server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}

// newAPIServer wires the production dependency graph behind the API server.
func newAPIServer(cfg config.Config, pool *pgxpool.Pool, rdb *redis.Client, metrics *observability.Metrics) (APIServer, error) {
	users := postgres.NewUserRepository(pool)
	sessions := redisstore.NewSessionStore(rdb, cfg.SessionTTL)
	tokens := redisstore.NewTokenStore(rdb)

	var mailer auth.Notifier
	if cfg.SMTP.Addr != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTP.Addr, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password)
	} else {
		mailer = mail.NewLogMailer(slog.Default())
	}

	service, err := auth.NewService(users, tokens, auth.NewArgon2idHasher(), mailer, cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	return httpapi.NewServer(httpapi.Config{
		Addr:          cfg.HTTPAddr,
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: cfg.CookieSecure,
	}, service, sessions, metrics, slog.Default())
}

// monitorServerErrors monitors a server's error channel and cancels the
// context on error so one failed server takes the whole process down
// cleanly. It exits when an error arrives, the channel closes, or the
// context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
