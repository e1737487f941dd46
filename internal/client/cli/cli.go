// Package cli команды клиента fitsync поверх cobra.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/iudanet/fitsync/internal/client/iocli"
	"github.com/iudanet/fitsync/internal/client/scheduler"
	"github.com/iudanet/fitsync/internal/client/sync"
	"github.com/iudanet/fitsync/internal/models"
)

//go:generate moq -out cli_mock.go . Sessions Syncer Records Failures Watcher

// ErrSyncIncomplete прогон завершился, но не все сущности синхронизированы
var ErrSyncIncomplete = errors.New("synchronization incomplete")

// ErrNeedsReauth сервер отклонил сессию, нужен новый login
var ErrNeedsReauth = errors.New("session rejected by server, login required")

// Sessions локальная сессия пользователя
type Sessions interface {
	Login(ctx context.Context, userID, accessToken string, expiresAt time.Time) error
	UserID(ctx context.Context) (string, error)
}

// Syncer планировщик синхронизации
type Syncer interface {
	Start(ctx context.Context)
	Stop()
	SyncNow(ctx context.Context) (*sync.Summary, error)
	GetSyncStatus(ctx context.Context) (*scheduler.Status, error)
	Logout(ctx context.Context) error
}

// Records локальные изменения записей
type Records interface {
	Import(ctx context.Context, userID string, entity models.EntityType, raw json.RawMessage) (models.Record, error)
	Delete(ctx context.Context, entity models.EntityType, id string) error
}

// Failures учет постоянных ошибок отправки
type Failures interface {
	ResetFailures(ctx context.Context, entity models.EntityType) (int, error)
}

// Watcher входящий каталог
type Watcher interface {
	Run(ctx context.Context) error
}

// Cli выполняет команды. Поля заполняются приложением (App) или тестами.
type Cli struct {
	io       iocli.IO
	sessions Sessions
	syncer   Syncer
	records  Records
	failures Failures
	inbox    Watcher
	logger   *slog.Logger
	now      func() time.Time
}

// New creates command runner
func New(io iocli.IO, sessions Sessions, syncer Syncer, records Records, failures Failures, inbox Watcher, logger *slog.Logger) *Cli {
	return &Cli{
		io:       io,
		sessions: sessions,
		syncer:   syncer,
		records:  records,
		failures: failures,
		inbox:    inbox,
		logger:   logger,
		now:      time.Now,
	}
}
