package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/fitsync/internal/client/storage"
	"github.com/iudanet/fitsync/internal/models"
)

// State сводное состояние синхронизации для UI
type State string

const (
	StateSynced      State = "synced"
	StatePending     State = "pending"
	StateSyncing     State = "syncing"
	StateFailed      State = "failed"
	StateNeedsReauth State = "needs_reauth"
)

// Status снимок состояния. Счетчики каждый раз пересчитываются из хранилища.
type Status struct {
	LastRunAt              time.Time
	UnsyncedCountsByEntity map[models.EntityType]int
	FailedCountsByEntity   map[models.EntityType]int
	UserID                 string
	State                  State
	TotalUnsynced          int
	TotalFailed            int
	IsSyncing              bool
	NeedsReauth            bool
	// LastRunOK последний прогон прошел без ошибок
	LastRunOK bool
}

// GetSyncStatus возвращает текущий статус. Без сессии State=needs_reauth.
func (s *Scheduler) GetSyncStatus(ctx context.Context) (*Status, error) {
	status := &Status{
		UnsyncedCountsByEntity: make(map[models.EntityType]int),
		FailedCountsByEntity:   make(map[models.EntityType]int),
	}

	userID, err := s.sessions.UserID(ctx)
	if err != nil {
		status.NeedsReauth = true
		status.State = StateNeedsReauth
		return status, nil
	}
	status.UserID = userID

	for _, e := range s.entities {
		n, err := s.records.CountDirty(ctx, e, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to count unsynced %s: %w", e, err)
		}
		if n > 0 {
			status.UnsyncedCountsByEntity[e] = n
			status.TotalUnsynced += n
		}
	}

	if err := s.countFailed(ctx, userID, status); err != nil {
		return nil, err
	}

	status.IsSyncing = s.sync.IsSyncing(userID)
	status.NeedsReauth = s.sync.NeedsReauth(userID)
	if last := s.sync.LastRun(userID); last != nil {
		status.LastRunAt = last.FinishedAt
		status.LastRunOK = last.OK()
	}

	switch {
	case status.NeedsReauth:
		status.State = StateNeedsReauth
	case status.IsSyncing:
		status.State = StateSyncing
	case status.TotalFailed > 0:
		status.State = StateFailed
	case status.TotalUnsynced > 0:
		status.State = StatePending
	default:
		status.State = StateSynced
	}

	return status, nil
}

// countFailed считает эскалированные записи, которые все еще не отправлены
// и не менялись после последней ошибки
func (s *Scheduler) countFailed(ctx context.Context, userID string, status *Status) error {
	failures, err := s.failures.ListFailures(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to list failures: %w", err)
	}

	for _, f := range failures {
		if !f.Escalated {
			continue
		}
		row, err := s.records.GetRow(ctx, f.Entity, f.ID)
		if errors.Is(err, storage.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s %s: %w", f.Entity, f.ID, err)
		}
		if row.UserID != userID || row.Synced || !row.UpdatedAt.Equal(f.RecordUpdatedAt) {
			continue
		}
		status.FailedCountsByEntity[f.Entity]++
		status.TotalFailed++
	}
	return nil
}
