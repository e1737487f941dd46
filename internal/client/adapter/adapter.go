// Package adapter содержит адаптеры синхронизации сущностей: одна обобщенная
// реализация, инстанцированная для каждой из двенадцати таблиц.
package adapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/iudanet/fitsync/internal/client/remote"
	"github.com/iudanet/fitsync/internal/client/storage"
	"github.com/iudanet/fitsync/internal/models"
)

// ErrMissingParent родителя записи нет в локальном хранилище, отправлять ее бессмысленно
var ErrMissingParent = errors.New("parent record does not exist locally")

//go:generate moq -out adapter_mock.go . EntityAdapter

// EntityAdapter синхронизирует одну сущность
type EntityAdapter interface {
	// Entity returns the table this adapter serves
	Entity() models.EntityType

	// DependsOn returns parent entity types that must be synced first
	DependsOn() []models.EntityType

	// ListDirty возвращает несинхронизированные записи пользователя, старые первыми.
	// Записи в паузе после постоянной ошибки пропускаются.
	ListDirty(ctx context.Context, userID string) ([]models.Record, error)

	// Push отправляет записи и помечает подтвержденные как synced
	Push(ctx context.Context, userID string, records []models.Record) PushResult

	// Pull забирает изменения с seq больше since и применяет их по правилу LWW
	Pull(ctx context.Context, userID string, since int64) PullResult
}

// PushResult итог push одной сущности
type PushResult struct {
	Err      error // Err ошибка всего вызова (auth, сеть, локальное хранилище)
	Errors   []error
	Pushed   int // Pushed подтверждено сервером
	Failed   int // Failed отклонено или не отправлено из-за ошибки
	Deferred int // Deferred отложено: родитель еще не подтвержден сервером
	Stale    int // Stale подтверждено, но запись изменили во время отправки, остается dirty
	// Superseded принято сервером, но у него версия новее; она придет с pull
	Superseded int
}

// PullResult итог pull одной сущности
type PullResult struct {
	Cursor    int64 // Cursor сохраненный курсор (seq) после pull
	Err       error
	Pulled    int // Pulled применено удалённых записей
	Discarded int // Discarded удалённая копия старее локальной
	Deferred  int // Deferred нет родителя локально, запись будет получена позже
	Skipped   int // Skipped некорректные удалённые записи
	Pages     int
}

// Config параметры адаптеров
type Config struct {
	Failure       FailurePolicy
	PushBatchSize int // PushBatchSize записей в одном upsert
	PullPageSize  int // PullPageSize записей в одном query
	MaxPullPages  int // MaxPullPages ограничение страниц за один прогон
}

// DefaultConfig значения по умолчанию
func DefaultConfig() Config {
	return Config{
		PushBatchSize: 100,
		PullPageSize:  200,
		MaxPullPages:  50,
		Failure:       DefaultFailurePolicy(),
	}
}

// Deps зависимости адаптеров
type Deps struct {
	Records  storage.RecordStorage
	Cursors  storage.CursorStorage
	Failures storage.FailureStorage
	Remote   remote.Store
	Logger   *slog.Logger
	Now      func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.PushBatchSize <= 0 {
		c.PushBatchSize = def.PushBatchSize
	}
	if c.PullPageSize <= 0 {
		c.PullPageSize = def.PullPageSize
	}
	if c.MaxPullPages <= 0 {
		c.MaxPullPages = def.MaxPullPages
	}
	c.Failure = c.Failure.withDefaults()
	return c
}
