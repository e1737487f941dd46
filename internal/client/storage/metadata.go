package storage

import (
	"context"
	"time"

	"github.com/iudanet/fitsync/internal/models"
)

//go:generate moq -out cursor_mock.go . CursorStorage

// CursorStorage хранит курсоры синхронизации: один на пару (пользователь, сущность)
type CursorStorage interface {
	// GetCursor returns the highest remote change number (seq) already applied.
	// Returns 0 if nothing was pulled yet.
	GetCursor(ctx context.Context, userID string, entity models.EntityType) (int64, error)

	// SaveCursor persists the cursor. Курсор только растет: значение
	// не больше сохраненного игнорируется.
	SaveCursor(ctx context.Context, userID string, entity models.EntityType, seq int64) error
}

// FailureStorage учитывает постоянные ошибки отправки по каждой записи
type FailureStorage interface {
	// GetFailure returns ErrFailureNotFound if the record has no failures
	GetFailure(ctx context.Context, entity models.EntityType, id string) (*Failure, error)

	// RecordFailure stores or replaces the failure entry
	RecordFailure(ctx context.Context, failure *Failure) error

	// ClearFailure removes the entry after a successful push
	ClearFailure(ctx context.Context, entity models.EntityType, id string) error

	// ListFailures returns all failure entries of the entity type
	ListFailures(ctx context.Context, entity models.EntityType) ([]*Failure, error)

	// ResetFailures drops entries for the entity type, or for all types if entity is empty.
	// Returns number of removed entries.
	ResetFailures(ctx context.Context, entity models.EntityType) (int, error)
}

// Failure запись о постоянных ошибках отправки одной записи
type Failure struct {
	LastAttemptAt   time.Time         `json:"last_attempt_at"`
	NextAttemptAt   time.Time         `json:"next_attempt_at"`   // NextAttemptAt раньше этого момента запись не отправляется
	RecordUpdatedAt time.Time         `json:"record_updated_at"` // RecordUpdatedAt версия записи, которая упала; правка сбрасывает учет
	Entity          models.EntityType `json:"entity"`
	ID              string            `json:"id"`
	LastError       string            `json:"last_error"`
	Attempts        int               `json:"attempts"`
	Escalated       bool              `json:"escalated"` // Escalated исчерпан лимит попыток, нужна правка или сброс
}
