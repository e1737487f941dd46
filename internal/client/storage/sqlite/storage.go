// Package sqlite локальное хранилище записей на встроенной SQLite.
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

	"github.com/iudanet/fitsync/internal/client/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// pragmas применяются драйвером к каждому новому соединению
var pragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"busy_timeout(5000)",
}

// Storage локальное хранилище: одна таблица на сущность
type Storage struct {
	db *sql.DB
}

var _ storage.RecordStorage = (*Storage)(nil)

// New открывает файл dbPath и накатывает миграции. ":memory:" для тестов.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}

	// Одно соединение: ":memory:" живет только в нем, а у файла единственный писатель.
	// Sync и приложение сериализуются здесь.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open record store %s: %w", dbPath, err)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{db: db}, nil
}

func dsn(dbPath string) string {
	params := make([]string, 0, len(pragmas))
	for _, p := range pragmas {
		params = append(params, "_pragma="+p)
	}
	return dbPath + "?" + strings.Join(params, "&")
}

// migrate создает таблицы сущностей. Provider не трогает глобальное состояние goose.
func migrate(ctx context.Context, db *sql.DB) error {
	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to migrate record store: %w", err)
	}
	return nil
}

// Close закрывает базу
func (s *Storage) Close() error {
	return s.db.Close()
}
