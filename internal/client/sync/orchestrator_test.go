package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fitsync/internal/client/adapter"
	"github.com/iudanet/fitsync/internal/client/remote"
	"github.com/iudanet/fitsync/internal/client/remote/remotetest"
	"github.com/iudanet/fitsync/internal/client/storage"
	"github.com/iudanet/fitsync/internal/client/storage/boltdb"
	"github.com/iudanet/fitsync/internal/client/storage/sqlite"
	"github.com/iudanet/fitsync/internal/models"
)

const testUser = "user-1"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validCreds() *remote.CredentialSourceMock {
	return &remote.CredentialSourceMock{
		CredentialFunc: func(ctx context.Context) (string, error) {
			return "token", nil
		},
	}
}

func zeroCursors() *storage.CursorStorageMock {
	return &storage.CursorStorageMock{
		GetCursorFunc: func(ctx context.Context, userID string, entity models.EntityType) (int64, error) {
			return 0, nil
		},
		SaveCursorFunc: func(ctx context.Context, userID string, entity models.EntityType, seq int64) error {
			return nil
		},
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func memoryRecords(t *testing.T) *sqlite.Storage {
	t.Helper()
	s, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// callLog записывает вызовы адаптеров в порядке их выполнения
type callLog struct {
	calls []string
	mu    sync.Mutex
}

func (l *callLog) add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func stubAdapter(entity models.EntityType, log *callLog) *adapter.EntityAdapterMock {
	return &adapter.EntityAdapterMock{
		EntityFunc: func() models.EntityType { return entity },
		DependsOnFunc: func() []models.EntityType {
			return models.DependsOn(entity)
		},
		ListDirtyFunc: func(ctx context.Context, userID string) ([]models.Record, error) {
			return nil, nil
		},
		PushFunc: func(ctx context.Context, userID string, records []models.Record) adapter.PushResult {
			log.add("push %s", entity)
			return adapter.PushResult{}
		},
		PullFunc: func(ctx context.Context, userID string, since int64) adapter.PullResult {
			log.add("pull %s", entity)
			return adapter.PullResult{}
		},
	}
}

func newTestOrchestrator(t *testing.T, adapters []adapter.EntityAdapter, creds remote.CredentialSource) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(adapters, memoryRecords(t), zeroCursors(), creds, testLogger())
	require.NoError(t, err)
	return o
}

func TestFullSync_OrderPushThenPull(t *testing.T) {
	log := &callLog{}
	// порядок намеренно перепутан: оркестратор сортирует сам
	adapters := []adapter.EntityAdapter{
		stubAdapter(models.EntitySets, log),
		stubAdapter(models.EntityWorkoutSessions, log),
		stubAdapter(models.EntityScheduledWorkouts, log),
		stubAdapter(models.EntityWorkoutTemplates, log),
		stubAdapter(models.EntityPrograms, log),
	}
	o := newTestOrchestrator(t, adapters, validCreds())

	summary := o.FullSync(context.Background(), testUser)
	require.True(t, summary.OK(), summary.Errors())

	want := []string{
		"push workout_sessions", "push sets", "push programs", "push workout_templates", "push scheduled_workouts",
		"pull workout_sessions", "pull sets", "pull programs", "pull workout_templates", "pull scheduled_workouts",
	}
	assert.Equal(t, want, log.list())
	assert.Len(t, summary.Entities, 5)
	assert.Nil(t, summary.Err)
	assert.False(t, summary.FinishedAt.Before(summary.StartedAt))
	assert.Same(t, summary, o.LastRun(testUser))
}

func TestFullSync_NoCredentialFailsClosed(t *testing.T) {
	log := &callLog{}
	sets := stubAdapter(models.EntitySets, log)
	sessions := stubAdapter(models.EntityWorkoutSessions, log)

	creds := &remote.CredentialSourceMock{
		CredentialFunc: func(ctx context.Context) (string, error) {
			return "", errors.New("no session")
		},
	}
	o := newTestOrchestrator(t, []adapter.EntityAdapter{sessions, sets}, creds)

	summary := o.FullSync(context.Background(), testUser)
	assert.True(t, summary.NeedsReauth)
	assert.ErrorIs(t, summary.Err, remote.ErrUnauthorized)
	assert.Empty(t, log.list())
	assert.Empty(t, sets.ListDirtyCalls())
	assert.True(t, o.NeedsReauth(testUser))
}

func TestFullSync_EntityIsolation(t *testing.T) {
	log := &callLog{}
	sessions := stubAdapter(models.EntityWorkoutSessions, log)
	sessions.PushFunc = func(ctx context.Context, userID string, records []models.Record) adapter.PushResult {
		return adapter.PushResult{Err: remote.ErrTransient, Failed: 3}
	}
	sessions.PullFunc = func(ctx context.Context, userID string, since int64) adapter.PullResult {
		panic("boom")
	}
	runs := stubAdapter(models.EntityRuns, log)
	badges := stubAdapter(models.EntityBadges, log)
	badges.ListDirtyFunc = func(ctx context.Context, userID string) ([]models.Record, error) {
		return nil, errors.New("disk on fire")
	}

	o := newTestOrchestrator(t, []adapter.EntityAdapter{sessions, runs, badges}, validCreds())
	summary := o.FullSync(context.Background(), testUser)

	assert.False(t, summary.OK())
	assert.False(t, summary.NeedsReauth)
	assert.NoError(t, summary.Err)
	assert.Equal(t, 3, summary.Failed())

	require.Len(t, summary.Entities, 3)
	assert.ErrorIs(t, summary.Entities[0].Push.Err, remote.ErrTransient)
	assert.ErrorIs(t, summary.Entities[0].Err, ErrPanic)
	assert.False(t, summary.Entities[1].Failed())
	assert.Error(t, summary.Entities[2].Push.Err)

	// остальные сущности отработали полностью
	assert.Contains(t, log.list(), "push runs")
	assert.Contains(t, log.list(), "pull runs")
	assert.Contains(t, log.list(), "pull badges")
	assert.Len(t, summary.Errors(), 3)
	assert.False(t, o.IsSyncing(testUser))
}

func TestFullSync_AuthErrorAborts(t *testing.T) {
	tests := []struct {
		name     string
		inPull   bool
		wantLogs []string
	}{
		{
			name:     "during push",
			wantLogs: []string{"push workout_sessions"},
		},
		{
			name:   "during pull",
			inPull: true,
			wantLogs: []string{
				"push workout_sessions", "push sets", "push runs",
				"pull workout_sessions",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &callLog{}
			sessions := stubAdapter(models.EntityWorkoutSessions, log)
			sets := stubAdapter(models.EntitySets, log)
			runs := stubAdapter(models.EntityRuns, log)

			if tt.inPull {
				sets.PullFunc = func(ctx context.Context, userID string, since int64) adapter.PullResult {
					return adapter.PullResult{Err: fmt.Errorf("query: %w", remote.ErrUnauthorized)}
				}
			} else {
				sets.PushFunc = func(ctx context.Context, userID string, records []models.Record) adapter.PushResult {
					return adapter.PushResult{Err: fmt.Errorf("upsert: %w", remote.ErrUnauthorized)}
				}
			}

			o := newTestOrchestrator(t, []adapter.EntityAdapter{sessions, sets, runs}, validCreds())
			summary := o.FullSync(context.Background(), testUser)

			assert.True(t, summary.NeedsReauth)
			assert.True(t, remote.IsAuth(summary.Err))
			assert.Equal(t, tt.wantLogs, log.list())
			assert.True(t, o.NeedsReauth(testUser))
			assert.False(t, o.IsSyncing(testUser))

			// успешный прогон снимает флаг
			sets.PushFunc = func(ctx context.Context, userID string, records []models.Record) adapter.PushResult {
				return adapter.PushResult{}
			}
			sets.PullFunc = func(ctx context.Context, userID string, since int64) adapter.PullResult {
				return adapter.PullResult{}
			}
			summary = o.FullSync(context.Background(), testUser)
			assert.True(t, summary.OK())
			assert.False(t, o.NeedsReauth(testUser))
		})
	}
}

func TestFullSync_SingleFlight(t *testing.T) {
	log := &callLog{}
	started := make(chan struct{})
	release := make(chan struct{})

	sessions := stubAdapter(models.EntityWorkoutSessions, log)
	var once sync.Once
	sessions.ListDirtyFunc = func(ctx context.Context, userID string) ([]models.Record, error) {
		once.Do(func() { close(started) })
		<-release
		return nil, nil
	}

	o := newTestOrchestrator(t, []adapter.EntityAdapter{sessions}, validCreds())

	done := make(chan *Summary, 1)
	go func() {
		done <- o.FullSync(context.Background(), testUser)
	}()

	<-started
	assert.True(t, o.IsSyncing(testUser))

	second := o.FullSync(context.Background(), testUser)
	assert.True(t, second.Skipped)
	assert.False(t, second.OK())
	assert.Len(t, sessions.ListDirtyCalls(), 1)

	close(release)
	first := <-done
	assert.False(t, first.Skipped)
	assert.True(t, first.OK())
	assert.False(t, o.IsSyncing(testUser))
	assert.Same(t, first, o.LastRun(testUser))
}

func TestFullSync_CancelledContext(t *testing.T) {
	log := &callLog{}
	o := newTestOrchestrator(t, []adapter.EntityAdapter{stubAdapter(models.EntityRuns, log)}, validCreds())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := o.FullSync(ctx, testUser)
	assert.ErrorIs(t, summary.Err, context.Canceled)
	assert.Empty(t, log.list())
	assert.False(t, o.IsSyncing(testUser))
}

func TestFullSync_CursorReadError(t *testing.T) {
	log := &callLog{}
	cursors := zeroCursors()
	cursors.GetCursorFunc = func(ctx context.Context, userID string, entity models.EntityType) (int64, error) {
		return 0, errors.New("bolt closed")
	}

	o, err := NewOrchestrator([]adapter.EntityAdapter{stubAdapter(models.EntityRuns, log)},
		memoryRecords(t), cursors, validCreds(), testLogger())
	require.NoError(t, err)

	summary := o.FullSync(context.Background(), testUser)
	require.Len(t, summary.Entities, 1)
	assert.Error(t, summary.Entities[0].Pull.Err)
	assert.Equal(t, []string{"push runs"}, log.list())
}

// device локальная копия приложения на одном устройстве
type device struct {
	records *sqlite.Storage
	meta    *boltdb.Storage
	orch    *Orchestrator
}

func newDevice(t *testing.T, store remote.Store) *device {
	t.Helper()
	ctx := context.Background()

	records := memoryRecords(t)
	meta, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "meta.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = meta.Close() })

	deps := adapter.Deps{
		Records:  records,
		Cursors:  meta,
		Failures: meta,
		Remote:   store,
		Logger:   testLogger(),
	}
	adapters, err := adapter.Registry(deps, adapter.DefaultConfig())
	require.NoError(t, err)

	orch, err := NewOrchestrator(adapters, records, meta, validCreds(), testLogger())
	require.NoError(t, err)

	return &device{records: records, meta: meta, orch: orch}
}

func (d *device) save(t *testing.T, rec models.Record) {
	t.Helper()
	row, err := storage.RowFromRecord(rec)
	require.NoError(t, err)
	require.NoError(t, d.records.SaveRow(context.Background(), row))
}

func (d *device) decode(t *testing.T, entity models.EntityType, id string) models.Record {
	t.Helper()
	row, err := d.records.GetRow(context.Background(), entity, id)
	require.NoError(t, err)
	rec, err := row.Decode()
	require.NoError(t, err)
	return rec
}

func TestFullSync_TwoDevicesConverge(t *testing.T) {
	store := remotetest.NewStore(testUser)
	phone := newDevice(t, store)
	tablet := newDevice(t, store)
	ctx := context.Background()

	now := models.Timestamp(time.Now())
	meta := func(at time.Time) models.Meta {
		return models.Meta{ID: uuid.New().String(), UserID: testUser, CreatedAt: at, UpdatedAt: at}
	}

	session := &models.WorkoutSession{Meta: meta(now), Name: "Push day", StartedAt: now}
	set := &models.WorkoutSet{Meta: meta(now.Add(time.Second)), SessionID: session.ID, Exercise: "bench", Reps: 5, WeightKg: 80}
	pr := &models.PRHistory{Meta: meta(now.Add(2 * time.Second)), SetID: set.ID, Exercise: "bench", Reps: 5, WeightKg: 80, AchievedAt: now}
	// потомок сохранен раньше родителя: порядок отправки задает граф
	phone.save(t, pr)
	phone.save(t, set)
	phone.save(t, session)

	summary := phone.orch.FullSync(ctx, testUser)
	require.True(t, summary.OK(), summary.Errors())
	assert.Equal(t, 3, summary.Pushed())
	assert.Zero(t, summary.TotalUnsynced)

	summary = tablet.orch.FullSync(ctx, testUser)
	require.True(t, summary.OK(), summary.Errors())
	assert.Equal(t, 3, summary.Pulled())

	got := tablet.decode(t, models.EntitySets, set.ID).(*models.WorkoutSet)
	assert.Equal(t, 5, got.Reps)
	assert.True(t, got.Synced)

	// правка на планшете побеждает по updated_at
	got.Reps = 6
	got.UpdatedAt = models.Timestamp(got.UpdatedAt.Add(time.Minute))
	tablet.save(t, got)

	summary = tablet.orch.FullSync(ctx, testUser)
	require.True(t, summary.OK(), summary.Errors())
	assert.Equal(t, 1, summary.Pushed())

	summary = phone.orch.FullSync(ctx, testUser)
	require.True(t, summary.OK(), summary.Errors())
	assert.Equal(t, 6, phone.decode(t, models.EntitySets, set.ID).(*models.WorkoutSet).Reps)

	// повторный прогон ничего не меняет
	summary = phone.orch.FullSync(ctx, testUser)
	assert.Zero(t, summary.Pushed())
	assert.Zero(t, summary.Pulled())
	assert.Equal(t, 1, store.Count(models.EntitySets))
}

func TestFullSync_ConcurrentLocalWrites(t *testing.T) {
	store := remotetest.NewStore(testUser)
	phone := newDevice(t, store)
	ctx := context.Background()

	now := models.Timestamp(time.Now())
	run := &models.Run{
		Meta:           models.Meta{ID: uuid.New().String(), UserID: testUser, CreatedAt: now, UpdatedAt: now},
		StartedAt:      now,
		DistanceMeters: 5000,
	}
	phone.save(t, run)

	// запись меняется, пока upsert в полете
	edited := *run
	edited.DistanceMeters = 5200
	edited.UpdatedAt = now.Add(time.Second)
	store.OnUpsert = func(table models.EntityType, _ []json.RawMessage) {
		if table == models.EntityRuns {
			store.OnUpsert = nil
			phone.save(t, &edited)
		}
	}

	summary := phone.orch.FullSync(ctx, testUser)
	assert.Equal(t, 1, summary.TotalUnsynced)

	summary = phone.orch.FullSync(ctx, testUser)
	require.True(t, summary.OK(), summary.Errors())
	assert.Zero(t, summary.TotalUnsynced)
	assert.JSONEq(t, mustJSON(t, &edited), string(store.Get(models.EntityRuns, run.ID)))
}

func TestFullSync_TwoDevicesOutOfOrder(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T, store *remotetest.Store, phone, tablet *device, now time.Time)
	}{
		{
			// запись создана офлайн раньше, а отправлена позже чужой
			name: "older record pushed late",
			run: func(t *testing.T, store *remotetest.Store, phone, tablet *device, now time.Time) {
				ctx := context.Background()

				offline := &models.Run{Meta: testMeta(now), StartedAt: now, DistanceMeters: 3000}
				phone.save(t, offline)

				fresh := &models.Run{Meta: testMeta(now.Add(time.Hour)), StartedAt: now.Add(time.Hour), DistanceMeters: 8000}
				tablet.save(t, fresh)

				summary := tablet.orch.FullSync(ctx, testUser)
				require.True(t, summary.OK(), summary.Errors())
				assert.Equal(t, 1, summary.Pushed())

				summary = phone.orch.FullSync(ctx, testUser)
				require.True(t, summary.OK(), summary.Errors())
				assert.Equal(t, 1, summary.Pushed())
				assert.Equal(t, 8000.0, phone.decode(t, models.EntityRuns, fresh.ID).(*models.Run).DistanceMeters)

				summary = tablet.orch.FullSync(ctx, testUser)
				require.True(t, summary.OK(), summary.Errors())
				got := tablet.decode(t, models.EntityRuns, offline.ID).(*models.Run)
				assert.Equal(t, 3000.0, got.DistanceMeters)
				assert.True(t, got.Synced)
			},
		},
		{
			// старая правка той же записи отправлена после новой
			name: "older edit pushed after newer edit",
			run: func(t *testing.T, store *remotetest.Store, phone, tablet *device, now time.Time) {
				ctx := context.Background()

				run := &models.Run{Meta: testMeta(now), StartedAt: now, DistanceMeters: 5000}
				phone.save(t, run)
				require.True(t, phone.orch.FullSync(ctx, testUser).OK())
				require.True(t, tablet.orch.FullSync(ctx, testUser).OK())

				older := phone.decode(t, models.EntityRuns, run.ID).(*models.Run)
				older.DistanceMeters = 5100
				older.UpdatedAt = now.Add(time.Minute)
				phone.save(t, older)

				newer := tablet.decode(t, models.EntityRuns, run.ID).(*models.Run)
				newer.DistanceMeters = 5200
				newer.UpdatedAt = now.Add(2 * time.Minute)
				tablet.save(t, newer)

				summary := tablet.orch.FullSync(ctx, testUser)
				require.True(t, summary.OK(), summary.Errors())
				assert.Equal(t, 1, summary.Pushed())

				summary = phone.orch.FullSync(ctx, testUser)
				require.True(t, summary.OK(), summary.Errors())
				assert.Zero(t, summary.Pushed())
				assert.Equal(t, 1, summary.Superseded())
				assert.Zero(t, summary.TotalUnsynced)

				assert.JSONEq(t, mustJSON(t, newer), string(store.Get(models.EntityRuns, run.ID)))
				assert.Equal(t, 5200.0, phone.decode(t, models.EntityRuns, run.ID).(*models.Run).DistanceMeters)

				summary = tablet.orch.FullSync(ctx, testUser)
				require.True(t, summary.OK(), summary.Errors())
				assert.Equal(t, 5200.0, tablet.decode(t, models.EntityRuns, run.ID).(*models.Run).DistanceMeters)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := remotetest.NewStore(testUser)
			tt.run(t, store, newDevice(t, store), newDevice(t, store), models.Timestamp(time.Now()))
		})
	}
}

func TestFullSync_DanglingParentIsReported(t *testing.T) {
	store := remotetest.NewStore(testUser)
	phone := newDevice(t, store)
	ctx := context.Background()

	now := models.Timestamp(time.Now())
	set := &models.WorkoutSet{Meta: testMeta(now), SessionID: uuid.New().String(), Exercise: "deadlift", Reps: 3, WeightKg: 160}
	phone.save(t, set)

	summary := phone.orch.FullSync(ctx, testUser)
	assert.False(t, summary.OK())
	assert.Equal(t, 1, summary.Failed())
	assert.Equal(t, 1, summary.TotalUnsynced)
	assert.Zero(t, store.Count(models.EntitySets))

	failures, err := phone.meta.ListFailures(ctx, models.EntitySets)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, set.ID, failures[0].ID)
}

func testMeta(at time.Time) models.Meta {
	return models.Meta{ID: uuid.New().String(), UserID: testUser, CreatedAt: at, UpdatedAt: at}
}
