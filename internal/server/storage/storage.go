// Package storage хранилище записей эталонного сервера.
// Записи хранятся как непрозрачный JSON с проиндексированными id, владельцем, updated_at
// и номером изменения seq.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/iudanet/fitsync/internal/models"
)

var (
	// ErrOwnerMismatch запись с таким id уже принадлежит другому пользователю
	ErrOwnerMismatch = errors.New("record belongs to another user")

	// ErrStale сохраненная версия записи новее присланной, строка не изменена
	ErrStale = errors.New("stored version is newer")
)

// Row строка таблицы записей
type Row struct {
	UpdatedAt time.Time
	Table     models.EntityType
	ID        string
	UserID    string
	Payload   json.RawMessage
	// Seq номер изменения, выдается сервером при каждой записи строки.
	// Строго растет в пределах хранилища, общий для всех таблиц.
	Seq int64
}

// Page результат выборки
type Page struct {
	Rows    []*Row
	HasMore bool
}

//go:generate moq -out storage_mock.go . RecordStorage

// RecordStorage defines interface for record persistence
type RecordStorage interface {
	// Upsert inserts or replaces the row keyed by (table, id) and stamps row.Seq.
	// Last write wins by updated_at: ErrStale if the stored row is newer,
	// ErrOwnerMismatch if it belongs to a different owner.
	Upsert(ctx context.Context, row *Row) error

	// Query returns rows of userID with seq strictly after afterSeq, ascending by seq.
	// limit <= 0 means no limit.
	Query(ctx context.Context, table models.EntityType, userID string, afterSeq int64, limit int) (*Page, error)

	// Ping checks that the database is reachable
	Ping(ctx context.Context) error

	Close() error
}

// PageOf собирает страницу из выборки, запрошенной с LIMIT limit+1:
// лишняя строка только сообщает, что есть продолжение.
func PageOf(rows []*Row, limit int) *Page {
	if limit <= 0 || len(rows) <= limit {
		return &Page{Rows: rows}
	}
	return &Page{Rows: rows[:limit], HasMore: true}
}

// FetchLimit размер выборки для PageOf
func FetchLimit(limit int) int {
	if limit <= 0 {
		return 0
	}
	return limit + 1
}
