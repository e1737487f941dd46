package scheduler

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fitsync/internal/client/session"
	"github.com/iudanet/fitsync/internal/client/storage"
	"github.com/iudanet/fitsync/internal/client/storage/boltdb"
	"github.com/iudanet/fitsync/internal/client/storage/sqlite"
	"github.com/iudanet/fitsync/internal/client/sync"
	"github.com/iudanet/fitsync/internal/models"
)

const testUser = "user-1"

type fixture struct {
	records  *sqlite.Storage
	meta     *boltdb.Storage
	sessions *session.Service
	svc      *sync.ServiceMock
	runs     chan string
}

func newFixture(t *testing.T, loggedIn bool) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	records, err := sqlite.New(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = records.Close() })

	meta, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "meta.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = meta.Close() })

	sessions := session.NewService(meta, logger)
	if loggedIn {
		require.NoError(t, sessions.Login(ctx, testUser, "token", time.Time{}))
	}

	f := &fixture{
		records:  records,
		meta:     meta,
		sessions: sessions,
		runs:     make(chan string, 16),
	}
	f.svc = &sync.ServiceMock{
		FullSyncFunc: func(ctx context.Context, userID string) *sync.Summary {
			select {
			case f.runs <- userID:
			default:
			}
			return &sync.Summary{UserID: userID}
		},
		IsSyncingFunc:   func(userID string) bool { return false },
		NeedsReauthFunc: func(userID string) bool { return false },
		LastRunFunc:     func(userID string) *sync.Summary { return nil },
		ForgetFunc:      func(userID string) {},
	}
	return f
}

func (f *fixture) scheduler(cfg Config) *Scheduler {
	return New(f.svc, f.sessions, f.records, f.meta, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (f *fixture) saveDirty(t *testing.T, at time.Time) *storage.Row {
	t.Helper()
	rec := &models.Badge{
		Meta:     models.Meta{ID: uuid.New().String(), UserID: testUser, CreatedAt: at, UpdatedAt: at},
		Code:     "first_run",
		Title:    "First run",
		EarnedAt: at,
	}
	row, err := storage.RowFromRecord(rec)
	require.NoError(t, err)
	require.NoError(t, f.records.SaveRow(context.Background(), row))
	return row
}

func waitRun(t *testing.T, runs chan string) string {
	t.Helper()
	select {
	case userID := <-runs:
		return userID
	case <-time.After(2 * time.Second):
		t.Fatal("sync was not triggered")
		return ""
	}
}

func TestScheduler_TimerRunsFullSync(t *testing.T) {
	f := newFixture(t, true)
	s := f.scheduler(Config{Interval: 10 * time.Millisecond})

	s.Start(context.Background())
	defer s.Stop()

	assert.Equal(t, testUser, waitRun(t, f.runs))
	assert.Equal(t, testUser, waitRun(t, f.runs))
	assert.True(t, s.Running())
}

func TestScheduler_RunOnStart(t *testing.T) {
	f := newFixture(t, true)
	s := f.scheduler(Config{Interval: time.Hour, RunOnStart: true})

	s.Start(context.Background())
	defer s.Stop()

	assert.Equal(t, testUser, waitRun(t, f.runs))
}

func TestScheduler_BackgroundAndForeground(t *testing.T) {
	f := newFixture(t, true)
	s := f.scheduler(Config{Interval: 5 * time.Millisecond})
	s.SetForeground(false)

	s.Start(context.Background())
	defer s.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, f.svc.FullSyncCalls())

	s.SetForeground(true)
	assert.Equal(t, testUser, waitRun(t, f.runs))
}

func TestScheduler_NoSessionSkipsTick(t *testing.T) {
	f := newFixture(t, false)
	s := f.scheduler(Config{Interval: 5 * time.Millisecond, RunOnStart: true})

	s.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	assert.Empty(t, f.svc.FullSyncCalls())
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	f := newFixture(t, true)
	s := f.scheduler(Config{Interval: time.Hour})

	s.Stop()
	s.Start(context.Background())
	s.Start(context.Background())
	assert.True(t, s.Running())

	s.Stop()
	s.Stop()
	assert.False(t, s.Running())
}

func TestScheduler_SyncNow(t *testing.T) {
	t.Run("with session", func(t *testing.T) {
		f := newFixture(t, true)
		s := f.scheduler(Config{})

		summary, err := s.SyncNow(context.Background())
		require.NoError(t, err)
		assert.Equal(t, testUser, summary.UserID)
		assert.Len(t, f.svc.FullSyncCalls(), 1)
	})

	t.Run("without session", func(t *testing.T) {
		f := newFixture(t, false)
		s := f.scheduler(Config{})

		_, err := s.SyncNow(context.Background())
		assert.ErrorIs(t, err, ErrNoSession)
		assert.ErrorIs(t, err, session.ErrNoCredential)
		assert.Empty(t, f.svc.FullSyncCalls())
	})
}

func TestScheduler_Logout(t *testing.T) {
	f := newFixture(t, true)
	s := f.scheduler(Config{Interval: time.Hour})
	ctx := context.Background()

	s.Start(ctx)
	require.NoError(t, s.Logout(ctx))

	assert.False(t, s.Running())
	require.Len(t, f.svc.ForgetCalls(), 1)
	assert.Equal(t, testUser, f.svc.ForgetCalls()[0].UserID)

	ok, err := f.sessions.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetSyncStatus(t *testing.T) {
	ctx := context.Background()
	now := models.Timestamp(time.Now())

	t.Run("no session", func(t *testing.T) {
		f := newFixture(t, false)
		status, err := f.scheduler(Config{}).GetSyncStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, StateNeedsReauth, status.State)
		assert.True(t, status.NeedsReauth)
	})

	t.Run("synced", func(t *testing.T) {
		f := newFixture(t, true)
		status, err := f.scheduler(Config{}).GetSyncStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, StateSynced, status.State)
		assert.Zero(t, status.TotalUnsynced)
		assert.True(t, status.LastRunAt.IsZero())
	})

	t.Run("pending then failed", func(t *testing.T) {
		f := newFixture(t, true)
		s := f.scheduler(Config{})

		f.saveDirty(t, now)
		bad := f.saveDirty(t, now.Add(time.Second))

		status, err := s.GetSyncStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, StatePending, status.State)
		assert.Equal(t, 2, status.TotalUnsynced)
		assert.Equal(t, map[models.EntityType]int{models.EntityBadges: 2}, status.UnsyncedCountsByEntity)

		require.NoError(t, f.meta.RecordFailure(ctx, &storage.Failure{
			Entity:          models.EntityBadges,
			ID:              bad.ID,
			RecordUpdatedAt: bad.UpdatedAt,
			Attempts:        5,
			Escalated:       true,
		}))

		status, err = s.GetSyncStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, StateFailed, status.State)
		assert.Equal(t, 1, status.TotalFailed)
		assert.Equal(t, 1, status.FailedCountsByEntity[models.EntityBadges])

		// после правки запись снова ожидает отправки
		bad.UpdatedAt = bad.UpdatedAt.Add(time.Minute)
		require.NoError(t, f.records.SaveRow(ctx, bad))

		status, err = s.GetSyncStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, StatePending, status.State)
		assert.Zero(t, status.TotalFailed)
	})

	t.Run("syncing and needs reauth", func(t *testing.T) {
		f := newFixture(t, true)
		s := f.scheduler(Config{})

		finished := now.Add(-time.Minute)
		f.svc.IsSyncingFunc = func(userID string) bool { return true }
		f.svc.LastRunFunc = func(userID string) *sync.Summary {
			return &sync.Summary{StartedAt: finished, FinishedAt: finished}
		}

		status, err := s.GetSyncStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, StateSyncing, status.State)
		assert.Equal(t, finished, status.LastRunAt)
		assert.True(t, status.LastRunOK)

		f.svc.NeedsReauthFunc = func(userID string) bool { return true }
		status, err = s.GetSyncStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, StateNeedsReauth, status.State)
	})
}
