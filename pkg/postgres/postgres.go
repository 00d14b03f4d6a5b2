package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	goose "github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"

	_ "github.com/jackc/pgx/v5/stdlib" //nolint:blank-imports

	"github.com/samandr77/microservices/portal/migrations"
	"github.com/samandr77/microservices/portal/pkg/config"
)

// Connect opens the pool and pings it until the database answers or the
// configured attempts run out.
func Connect(ctx context.Context, cfg config.Postgres) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConn
	poolCfg.MinConns = min(cfg.MinConn, cfg.MaxConn)
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdle

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}

	backoff := retry.WithMaxRetries(cfg.ConnectAttempts, retry.NewConstant(cfg.ConnectDelay))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := pool.Ping(ctx)
		if err != nil {
			slog.WarnContext(ctx, "postgres is not ready", "error", err)
			return retry.RetryableError(err)
		}

		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return pool, nil
}

// UpMigrations applies the embedded org context migrations.
func UpMigrations(ctx context.Context, cfg config.Postgres) error {
	if cfg.SkipMigrations {
		return nil
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil && !errors.Is(err, goose.ErrNoNextVersion) {
		return fmt.Errorf("up migrations: %w", err)
	}

	for _, r := range results {
		slog.InfoContext(ctx, "migration applied", "version", r.Source.Version, "duration", r.Duration)
	}

	return nil
}
