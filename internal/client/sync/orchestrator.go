// Package sync координирует синхронизацию всех сущностей пользователя:
// один прогон на пользователя, сначала push по порядку зависимостей, затем pull.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/fitsync/internal/client/adapter"
	"github.com/iudanet/fitsync/internal/client/remote"
	"github.com/iudanet/fitsync/internal/client/storage"
	"github.com/iudanet/fitsync/internal/models"
)

//go:generate moq -out service_mock.go . Service

// ErrPanic паника внутри адаптера, перехваченная оркестратором
var ErrPanic = errors.New("sync panicked")

// Service определяет интерфейс оркестратора синхронизации
type Service interface {
	// FullSync выполняет полный прогон для пользователя. Никогда не возвращает ошибку:
	// все ошибки собраны в Summary.
	FullSync(ctx context.Context, userID string) *Summary

	// IsSyncing reports whether a run for the user is in progress
	IsSyncing(userID string) bool

	// NeedsReauth true после ошибки авторизации, до следующего успешного прогона
	NeedsReauth(userID string) bool

	// LastRun returns the summary of the last finished run or nil
	LastRun(userID string) *Summary

	// Forget сбрасывает запомненное состояние пользователя (logout)
	Forget(userID string)
}

// Orchestrator реализует Service поверх набора адаптеров
type Orchestrator struct {
	records  storage.RecordStorage
	cursors  storage.CursorStorage
	creds    remote.CredentialSource
	logger   *slog.Logger
	state    *runState
	now      func() time.Time
	adapters []adapter.EntityAdapter
}

var _ Service = (*Orchestrator)(nil)

// NewOrchestrator creates a new orchestrator. Адаптеры сортируются топологически.
func NewOrchestrator(
	adapters []adapter.EntityAdapter,
	records storage.RecordStorage,
	cursors storage.CursorStorage,
	creds remote.CredentialSource,
	logger *slog.Logger,
) (*Orchestrator, error) {
	ordered, err := adapter.Order(adapters)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		adapters: ordered,
		records:  records,
		cursors:  cursors,
		creds:    creds,
		logger:   logger,
		state:    newRunState(),
		now:      time.Now,
	}, nil
}

// Entities returns entity types in sync order
func (o *Orchestrator) Entities() []models.EntityType {
	types := make([]models.EntityType, 0, len(o.adapters))
	for _, a := range o.adapters {
		types = append(types, a.Entity())
	}
	return types
}

// FullSync performs push and pull for every entity
// 1. Push local changes in dependency order
// 2. Pull remote changes in the same order, from persisted cursors
// Ошибка одной сущности не останавливает остальные, ошибка авторизации прерывает прогон.
func (o *Orchestrator) FullSync(ctx context.Context, userID string) *Summary {
	summary := &Summary{UserID: userID, StartedAt: o.now()}

	if !o.state.begin(userID) {
		o.logger.Debug("Synchronization already in progress, skipping", "user_id", userID)
		summary.Skipped = true
		summary.FinishedAt = summary.StartedAt
		return summary
	}

	defer func() {
		if r := recover(); r != nil {
			summary.Err = fmt.Errorf("%w: %v", ErrPanic, r)
			o.logger.Error("Synchronization panicked", "user_id", userID, "panic", r)
		}
		summary.TotalUnsynced = o.countUnsynced(context.WithoutCancel(ctx), userID)
		summary.FinishedAt = o.now()
		o.state.end(userID, summary)
		o.logCompleted(summary)
	}()

	// без учетных данных в сеть не ходим
	if _, err := o.creds.Credential(ctx); err != nil {
		summary.NeedsReauth = true
		summary.Err = fmt.Errorf("%w: %w", remote.ErrUnauthorized, err)
		o.logger.Warn("No credential, synchronization skipped", "user_id", userID, "error", err)
		return summary
	}

	o.logger.Info("Starting synchronization", "user_id", userID, "entities", len(o.adapters))

	summary.Entities = make([]EntityOutcome, len(o.adapters))
	for i, a := range o.adapters {
		summary.Entities[i].Entity = a.Entity()
	}

	for i, a := range o.adapters {
		if o.aborted(ctx, summary) {
			return summary
		}
		out := &summary.Entities[i]
		out.Err = guard(func() { o.push(ctx, userID, a, out) })
		if remote.IsAuth(out.Push.Err) {
			o.abortAuth(summary, out.Push.Err)
			return summary
		}
	}

	for i, a := range o.adapters {
		if o.aborted(ctx, summary) {
			return summary
		}
		out := &summary.Entities[i]
		if err := guard(func() { o.pull(ctx, userID, a, out) }); err != nil {
			out.Err = errors.Join(out.Err, err)
		}
		if remote.IsAuth(out.Pull.Err) {
			o.abortAuth(summary, out.Pull.Err)
			return summary
		}
	}

	return summary
}

func (o *Orchestrator) push(ctx context.Context, userID string, a adapter.EntityAdapter, out *EntityOutcome) {
	dirty, err := a.ListDirty(ctx, userID)
	if err != nil {
		out.Push.Err = err
		return
	}
	out.Push = a.Push(ctx, userID, dirty)
}

func (o *Orchestrator) pull(ctx context.Context, userID string, a adapter.EntityAdapter, out *EntityOutcome) {
	since, err := o.cursors.GetCursor(ctx, userID, a.Entity())
	if err != nil {
		out.Pull.Err = fmt.Errorf("failed to read cursor: %w", err)
		return
	}
	out.Pull = a.Pull(ctx, userID, since)
}

// guard перехватывает панику шага, чтобы она не остановила остальные сущности
func guard(step func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	step()
	return nil
}

func (o *Orchestrator) aborted(ctx context.Context, summary *Summary) bool {
	if err := ctx.Err(); err != nil {
		summary.Err = err
		o.logger.Warn("Synchronization cancelled", "user_id", summary.UserID, "error", err)
		return true
	}
	return false
}

func (o *Orchestrator) abortAuth(summary *Summary, err error) {
	summary.NeedsReauth = true
	summary.Err = err
	o.logger.Warn("Authorization rejected, synchronization aborted", "user_id", summary.UserID, "error", err)
}

func (o *Orchestrator) countUnsynced(ctx context.Context, userID string) int {
	total := 0
	for _, a := range o.adapters {
		n, err := o.records.CountDirty(ctx, a.Entity(), userID)
		if err != nil {
			o.logger.Warn("Failed to count unsynced records", "entity", a.Entity(), "error", err)
			continue
		}
		total += n
	}
	return total
}

func (o *Orchestrator) logCompleted(s *Summary) {
	if s.NeedsReauth {
		return
	}
	level := slog.LevelInfo
	if !s.OK() {
		level = slog.LevelWarn
	}
	o.logger.Log(context.Background(), level, "Synchronization completed",
		"user_id", s.UserID,
		"pushed", s.Pushed(),
		"superseded", s.Superseded(),
		"pulled", s.Pulled(),
		"failed", s.Failed(),
		"unsynced", s.TotalUnsynced,
		"duration", s.Duration())
}

// IsSyncing implements Service
func (o *Orchestrator) IsSyncing(userID string) bool {
	return o.state.isRunning(userID)
}

// NeedsReauth implements Service
func (o *Orchestrator) NeedsReauth(userID string) bool {
	return o.state.reauth(userID)
}

// LastRun implements Service
func (o *Orchestrator) LastRun(userID string) *Summary {
	return o.state.lastRun(userID)
}

// Forget implements Service
func (o *Orchestrator) Forget(userID string) {
	o.state.forget(userID)
}
