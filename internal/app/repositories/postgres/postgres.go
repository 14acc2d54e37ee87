// Package postgres implements the repository interfaces on PostgreSQL. It is
// the driver to pick when the snapshot file's single-process model is not
// enough; nested action documents are stored as JSONB.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/weiting/stellact/internal/app/repositories"
	"github.com/weiting/stellact/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// NewPool establishes a connection pool from the store configuration
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Store.Postgres.User,
		cfg.Store.Postgres.Password,
		cfg.Store.Postgres.Host,
		cfg.Store.Postgres.Port,
		cfg.Store.Postgres.DBName,
		cfg.Store.Postgres.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.Store.Postgres.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}

// Migrate applies the schema. Statements are idempotent, so running it on
// every startup is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	logger.Info().Msg("Database schema applied")
	return nil
}

// NewRepositories returns the repository views backed by the pool
func NewRepositories(pool *pgxpool.Pool) *repositories.Repositories {
	return &repositories.Repositories{
		Users:          &userRepo{pool},
		Actions:        &actionRepo{pool},
		Participations: &participationRepo{pool},
		Interactions:   &interactionRepo{pool},
	}
}

// isUniqueViolation reports whether err is a unique-constraint conflict
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
