// Package postgres хранилище записей сервера на PostgreSQL через pgx pool.
package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/iudanet/fitsync/internal/server/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Storage represents PostgreSQL storage implementation
type Storage struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

var _ storage.RecordStorage = (*Storage)(nil)

// New подключается к базе по DSN и применяет миграции
func New(ctx context.Context, dsn string, log *slog.Logger) (*Storage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Storage{
		pool: pool,
		log:  log.With("component", "record_storage"),
	}

	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the pool
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Ping implements storage.RecordStorage
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// runMigrations goose работает через database/sql, поэтому оборачиваем pool
func (s *Storage) runMigrations(ctx context.Context) error {
	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations)
	if err != nil {
		return fmt.Errorf("failed to create goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}
	for _, r := range results {
		s.log.Info("Migration applied", "version", r.Source.Version, "duration", r.Duration)
	}

	return nil
}
