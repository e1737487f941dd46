// Package sqlite хранилище записей сервера на SQLite (modernc, без cgo).
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/iudanet/fitsync/internal/server/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// defaultPragmas добавляются к DSN, если оператор не задал свои _pragma
const defaultPragmas = "_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"

// Storage серверное хранилище записей всех пользователей
type Storage struct {
	db *sql.DB
}

var _ storage.RecordStorage = (*Storage)(nil)

// New opens dsn (a file path, optionally with query params) and applies migrations.
// ":memory:" works for tests.
func New(ctx context.Context, dsn string) (*Storage, error) {
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// единственный писатель; для ":memory:" еще и единственная копия базы
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Storage{db: db}, nil
}

func withPragmas(dsn string) string {
	switch {
	case strings.Contains(dsn, "_pragma="):
		return dsn
	case strings.Contains(dsn, "?"):
		return dsn + "&" + defaultPragmas
	default:
		return dsn + "?" + defaultPragmas
	}
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ping implements storage.RecordStorage
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
