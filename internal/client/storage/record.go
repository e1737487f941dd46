package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iudanet/fitsync/internal/models"
)

// RecordStorage локальное хранилище записей: одна таблица на сущность.
// Методы вне InTx видят только закоммиченные данные.
type RecordStorage interface {
	// SaveRow stores a local mutation. Row is always written with synced=false,
	// remote_present is preserved if the row already exists.
	SaveRow(ctx context.Context, row *Row) error

	// GetRow returns ErrRecordNotFound if the row doesn't exist
	GetRow(ctx context.Context, entity models.EntityType, id string) (*Row, error)

	// ListRows returns non-deleted rows of the user ordered by created_at
	ListRows(ctx context.Context, entity models.EntityType, userID string) ([]*Row, error)

	// ListDirty returns rows with synced=false ordered by created_at ascending
	ListDirty(ctx context.Context, entity models.EntityType, userID string) ([]*Row, error)

	// CountDirty returns number of rows with synced=false
	CountDirty(ctx context.Context, entity models.EntityType, userID string) (int, error)

	// IsRemotePresent reports whether the row is known to exist remotely
	IsRemotePresent(ctx context.Context, entity models.EntityType, id string) (bool, error)

	// InTx runs fn in one local transaction. Rollback on error.
	InTx(ctx context.Context, fn func(tx RecordTx) error) error
}

// RecordTx операции внутри одной локальной транзакции
type RecordTx interface {
	// GetRow returns ErrRecordNotFound if the row doesn't exist
	GetRow(ctx context.Context, entity models.EntityType, id string) (*Row, error)

	// Exists reports whether a row (deleted or not) exists locally
	Exists(ctx context.Context, entity models.EntityType, id string) (bool, error)

	// ApplyRemote writes the remote copy: synced=true, remote_present=true
	ApplyRemote(ctx context.Context, row *Row) error

	// MarkRemotePresent sets remote_present without touching synced
	MarkRemotePresent(ctx context.Context, entity models.EntityType, id string) error

	// MarkDirty sets synced=false and remote_present=true: локальная копия новее
	// удалённой и должна уйти на следующем push, даже если уже была synced.
	MarkDirty(ctx context.Context, entity models.EntityType, id string) error

	// MarkSynced flips synced=true only if updated_at still equals the pushed version.
	// Returns false if the row was edited while the upsert was in flight.
	MarkSynced(ctx context.Context, entity models.EntityType, id string, updatedAt time.Time) (bool, error)
}

// Row строка локальной таблицы
type Row struct {
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Entity        models.EntityType
	ID            string
	UserID        string
	Payload       []byte // Payload JSON представление записи (совпадает с удалённым)
	Synced        bool
	RemotePresent bool // RemotePresent запись подтверждена сервером (push ack или pull)
	Deleted       bool
}

// RowFromRecord сериализует запись в строку. Флаг Synced берется из Meta.
func RowFromRecord(rec models.Record) (*Row, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s record: %w", rec.Entity(), err)
	}
	m := rec.Base()
	return &Row{
		Entity:    rec.Entity(),
		ID:        m.ID,
		UserID:    m.UserID,
		Payload:   payload,
		Synced:    m.Synced,
		Deleted:   m.Deleted,
		CreatedAt: models.Timestamp(m.CreatedAt),
		UpdatedAt: models.Timestamp(m.UpdatedAt),
	}, nil
}

// DecodeInto заполняет rec из строки. Колонки имеют приоритет над payload.
func (r *Row) DecodeInto(rec models.Record) error {
	if err := json.Unmarshal(r.Payload, rec); err != nil {
		return fmt.Errorf("failed to unmarshal %s %s: %w", r.Entity, r.ID, err)
	}
	m := rec.Base()
	m.ID = r.ID
	m.UserID = r.UserID
	m.Deleted = r.Deleted
	m.Synced = r.Synced
	m.CreatedAt = r.CreatedAt
	m.UpdatedAt = r.UpdatedAt
	return nil
}

// Decode создает запись нужного типа через реестр моделей
func (r *Row) Decode() (models.Record, error) {
	rec, err := models.New(r.Entity)
	if err != nil {
		return nil, err
	}
	if err := r.DecodeInto(rec); err != nil {
		return nil, err
	}
	return rec, nil
}
