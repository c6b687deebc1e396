package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/emberforum/ember/internal/config"
	"github.com/emberforum/ember/internal/observability"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// ConfigLoader loads the effective configuration.
	// Default: config.Load
	ConfigLoader func() (config.Config, error)

	// PoolFactory connects to PostgreSQL.
	// Default: store.Connect
	PoolFactory func(ctx context.Context, dsn string) (*pgxpool.Pool, error)

	// RedisFactory connects to Redis.
	// Default: store.ConnectRedis
	RedisFactory func(ctx context.Context, url string) (*redis.Client, error)

	// MigrationRunner applies pending migrations at startup.
	// Default: runs store.NewMigrator(...).Up()
	MigrationRunner func(databaseURL string) error

	// APIServerFactory creates the JSON API server.
	// Default: builds the real httpapi.Server from the wired service.
	APIServerFactory func(cfg config.Config, pool *pgxpool.Pool, rdb *redis.Client, metrics *observability.Metrics) (APIServer, error)

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer
}

// APIServer interface wraps the methods used from httpapi.Server.
type APIServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}

// ObservabilityServer interface wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}
