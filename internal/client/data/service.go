// Package data локальные изменения записей: создание, правка, удаление.
// Все изменения пишутся в локальное хранилище с synced=false и уходят на сервер
// при следующей синхронизации.
package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/fitsync/internal/client/storage"
	"github.com/iudanet/fitsync/internal/models"
	"github.com/iudanet/fitsync/internal/validation"
)

var (
	// ErrRecordExists запись с таким id уже есть локально
	ErrRecordExists = errors.New("record already exists")
	// ErrForeignRecord запись принадлежит другому пользователю
	ErrForeignRecord = errors.New("record belongs to another user")
)

// Service определяет интерфейс для клиентского data сервиса
type Service interface {
	Create(ctx context.Context, rec models.Record) error
	Update(ctx context.Context, rec models.Record) error
	Delete(ctx context.Context, entity models.EntityType, id string) error
	Get(ctx context.Context, entity models.EntityType, id string) (models.Record, error)
	List(ctx context.Context, entity models.EntityType, userID string) ([]models.Record, error)

	// Import принимает JSON записи от внешнего источника (inbox, CLI).
	// Запись с известным id обновляется, иначе создается.
	Import(ctx context.Context, userID string, entity models.EntityType, raw json.RawMessage) (models.Record, error)
}

// service handles client-side record mutations
type service struct {
	records storage.RecordStorage
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a new data service
func NewService(records storage.RecordStorage, logger *slog.Logger) Service {
	return &service{
		records: records,
		logger:  logger,
		now:     time.Now,
	}
}

// Create добавляет новую запись. Пустой id генерируется, заданный сохраняется как есть.
func (s *service) Create(ctx context.Context, rec models.Record) error {
	m := rec.Base()

	if m.ID == "" {
		m.ID = uuid.New().String()
	} else if _, err := s.records.GetRow(ctx, rec.Entity(), m.ID); err == nil {
		return fmt.Errorf("%w: %s %s", ErrRecordExists, rec.Entity(), m.ID)
	} else if !errors.Is(err, storage.ErrRecordNotFound) {
		return fmt.Errorf("failed to check record: %w", err)
	}

	now := models.Timestamp(s.now())
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.CreatedAt = models.Timestamp(m.CreatedAt)
	m.UpdatedAt = now
	if m.UpdatedAt.Before(m.CreatedAt) {
		m.UpdatedAt = m.CreatedAt
	}
	m.Synced = false

	return s.save(ctx, rec, true)
}

// Update сохраняет правку. id, владелец и created_at берутся из существующей записи,
// updated_at всегда строго больше предыдущего.
func (s *service) Update(ctx context.Context, rec models.Record) error {
	m := rec.Base()

	prev, err := s.records.GetRow(ctx, rec.Entity(), m.ID)
	if err != nil {
		return fmt.Errorf("failed to get record: %w", err)
	}
	if m.UserID != "" && m.UserID != prev.UserID {
		return fmt.Errorf("%w: %s %s", ErrForeignRecord, rec.Entity(), m.ID)
	}

	m.UserID = prev.UserID
	m.CreatedAt = prev.CreatedAt
	m.UpdatedAt = s.nextUpdatedAt(prev.UpdatedAt)
	m.Synced = false

	return s.save(ctx, rec, !m.Deleted)
}

// Delete помечает запись удаленной. Tombstone синхронизируется как обычная правка.
func (s *service) Delete(ctx context.Context, entity models.EntityType, id string) error {
	row, err := s.records.GetRow(ctx, entity, id)
	if err != nil {
		return fmt.Errorf("failed to get record: %w", err)
	}
	if row.Deleted {
		return nil
	}

	rec, err := row.Decode()
	if err != nil {
		return err
	}
	m := rec.Base()
	m.Deleted = true
	m.UpdatedAt = s.nextUpdatedAt(row.UpdatedAt)
	m.Synced = false

	return s.save(ctx, rec, false)
}

// Get возвращает запись. Удаленные записи не видны.
func (s *service) Get(ctx context.Context, entity models.EntityType, id string) (models.Record, error) {
	row, err := s.records.GetRow(ctx, entity, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	if row.Deleted {
		return nil, storage.ErrRecordNotFound
	}
	return row.Decode()
}

// List возвращает неудаленные записи пользователя
func (s *service) List(ctx context.Context, entity models.EntityType, userID string) ([]models.Record, error) {
	rows, err := s.records.ListRows(ctx, entity, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	result := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.Decode()
		if err != nil {
			// Пропускаем поврежденные записи
			s.logger.Warn("Skipping undecodable record", "entity", entity, "id", row.ID, "error", err)
			continue
		}
		result = append(result, rec)
	}
	return result, nil
}

func (s *service) Import(ctx context.Context, userID string, entity models.EntityType, raw json.RawMessage) (models.Record, error) {
	rec, err := models.New(entity)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, rec); err != nil {
		return nil, fmt.Errorf("%w: %w", validation.ErrInvalidRecord, err)
	}

	m := rec.Base()
	if m.UserID != "" && m.UserID != userID {
		return nil, fmt.Errorf("%w: %s %s", ErrForeignRecord, entity, m.ID)
	}
	m.UserID = userID

	if m.ID != "" {
		_, err := s.records.GetRow(ctx, entity, m.ID)
		switch {
		case err == nil:
			return rec, s.Update(ctx, rec)
		case !errors.Is(err, storage.ErrRecordNotFound):
			return nil, fmt.Errorf("failed to check record: %w", err)
		}
	}

	return rec, s.Create(ctx, rec)
}

// nextUpdatedAt текущее время, но строго позже prev (часы могли отстать)
func (s *service) nextUpdatedAt(prev time.Time) time.Time {
	now := models.Timestamp(s.now())
	if !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	return now
}

// checkParents требует, чтобы каждый указанный родитель был в локальном хранилище.
// Tombstone родителя подходит: ссылка на удаленную запись остается валидной.
func (s *service) checkParents(ctx context.Context, rec models.Record) error {
	for _, ref := range rec.Parents() {
		if ref.ID == "" {
			continue
		}
		_, err := s.records.GetRow(ctx, ref.Entity, ref.ID)
		switch {
		case errors.Is(err, storage.ErrRecordNotFound):
			return fmt.Errorf("%w: %s %s references missing %s %s",
				validation.ErrInvalidRecord, rec.Entity(), rec.Base().ID, ref.Entity, ref.ID)
		case err != nil:
			return fmt.Errorf("failed to check parent: %w", err)
		}
	}
	return nil
}

func (s *service) save(ctx context.Context, rec models.Record, validate bool) error {
	if validate {
		if err := validation.ValidateRecord(rec); err != nil {
			return err
		}
		if err := s.checkParents(ctx, rec); err != nil {
			return err
		}
	}

	row, err := storage.RowFromRecord(rec)
	if err != nil {
		return err
	}
	if err := s.records.SaveRow(ctx, row); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}

	m := rec.Base()
	s.logger.Debug("Record saved locally",
		"entity", rec.Entity(),
		"id", m.ID,
		"deleted", m.Deleted)
	return nil
}
