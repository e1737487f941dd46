package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fitsync/internal/client/storage"
	"github.com/iudanet/fitsync/internal/models"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func newProgramRow(t *testing.T, userID string, createdAt time.Time) *storage.Row {
	t.Helper()

	p := &models.Program{
		Meta: models.Meta{
			ID:        uuid.New().String(),
			UserID:    userID,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		},
		Name:  "Strength",
		Weeks: 8,
	}
	row, err := storage.RowFromRecord(p)
	require.NoError(t, err)
	return row
}

func TestStorage_SaveAndGetRow(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	now := models.Timestamp(time.Now())
	row := newProgramRow(t, "user-1", now)
	require.NoError(t, s.SaveRow(ctx, row))

	got, err := s.GetRow(ctx, models.EntityPrograms, row.ID)
	require.NoError(t, err)
	assert.Equal(t, row.ID, got.ID)
	assert.Equal(t, "user-1", got.UserID)
	assert.False(t, got.Synced)
	assert.False(t, got.RemotePresent)
	assert.Equal(t, now, got.CreatedAt)
	assert.Equal(t, now, got.UpdatedAt)

	rec, err := got.Decode()
	require.NoError(t, err)
	program, ok := rec.(*models.Program)
	require.True(t, ok)
	assert.Equal(t, "Strength", program.Name)
	assert.Equal(t, 8, program.Weeks)

	_, err = s.GetRow(ctx, models.EntityPrograms, "missing")
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)

	_, err = s.GetRow(ctx, models.EntityType("workout_logs"), row.ID)
	assert.ErrorIs(t, err, models.ErrUnknownEntity)
}

func TestStorage_ListDirtyOrder(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	base := models.Timestamp(time.Now())
	newer := newProgramRow(t, "user-1", base.Add(2*time.Second))
	older := newProgramRow(t, "user-1", base)
	other := newProgramRow(t, "user-2", base)

	for _, r := range []*storage.Row{newer, older, other} {
		require.NoError(t, s.SaveRow(ctx, r))
	}

	dirty, err := s.ListDirty(ctx, models.EntityPrograms, "user-1")
	require.NoError(t, err)
	require.Len(t, dirty, 2)
	assert.Equal(t, older.ID, dirty[0].ID)
	assert.Equal(t, newer.ID, dirty[1].ID)

	count, err := s.CountDirty(ctx, models.EntityPrograms, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStorage_MarkSynced(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	now := models.Timestamp(time.Now())
	row := newProgramRow(t, "user-1", now)
	require.NoError(t, s.SaveRow(ctx, row))

	t.Run("stale version stays dirty", func(t *testing.T) {
		var flipped bool
		err := s.InTx(ctx, func(tx storage.RecordTx) error {
			var err error
			flipped, err = tx.MarkSynced(ctx, models.EntityPrograms, row.ID, now.Add(-time.Second))
			return err
		})
		require.NoError(t, err)
		assert.False(t, flipped)

		got, err := s.GetRow(ctx, models.EntityPrograms, row.ID)
		require.NoError(t, err)
		assert.False(t, got.Synced)
		assert.True(t, got.RemotePresent)
	})

	t.Run("matching version flips", func(t *testing.T) {
		var flipped bool
		err := s.InTx(ctx, func(tx storage.RecordTx) error {
			var err error
			flipped, err = tx.MarkSynced(ctx, models.EntityPrograms, row.ID, now)
			return err
		})
		require.NoError(t, err)
		assert.True(t, flipped)

		count, err := s.CountDirty(ctx, models.EntityPrograms, "user-1")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("local edit makes row dirty but keeps remote presence", func(t *testing.T) {
		row.UpdatedAt = now.Add(time.Second)
		require.NoError(t, s.SaveRow(ctx, row))

		got, err := s.GetRow(ctx, models.EntityPrograms, row.ID)
		require.NoError(t, err)
		assert.False(t, got.Synced)
		assert.True(t, got.RemotePresent)

		present, err := s.IsRemotePresent(ctx, models.EntityPrograms, row.ID)
		require.NoError(t, err)
		assert.True(t, present)
	})
}

func TestStorage_InTxRollback(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	row := newProgramRow(t, "user-1", models.Timestamp(time.Now()))
	errBoom := errors.New("boom")

	err := s.InTx(ctx, func(tx storage.RecordTx) error {
		if err := tx.ApplyRemote(ctx, row); err != nil {
			return err
		}
		exists, err := tx.Exists(ctx, models.EntityPrograms, row.ID)
		require.NoError(t, err)
		assert.True(t, exists)
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	_, err = s.GetRow(ctx, models.EntityPrograms, row.ID)
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestStorage_ApplyRemoteAndListRows(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	now := models.Timestamp(time.Now())
	live := newProgramRow(t, "user-1", now)
	gone := newProgramRow(t, "user-1", now.Add(time.Second))
	gone.Deleted = true

	err := s.InTx(ctx, func(tx storage.RecordTx) error {
		if err := tx.ApplyRemote(ctx, live); err != nil {
			return err
		}
		return tx.ApplyRemote(ctx, gone)
	})
	require.NoError(t, err)

	rows, err := s.ListRows(ctx, models.EntityPrograms, "user-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, live.ID, rows[0].ID)
	assert.True(t, rows[0].Synced)
	assert.True(t, rows[0].RemotePresent)

	count, err := s.CountDirty(ctx, models.EntityPrograms, "user-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStorage_MarkDirtyRequeuesSyncedRow(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	row := newProgramRow(t, "user-1", models.Timestamp(time.Now()))
	require.NoError(t, s.InTx(ctx, func(tx storage.RecordTx) error {
		return tx.ApplyRemote(ctx, row)
	}))

	require.NoError(t, s.InTx(ctx, func(tx storage.RecordTx) error {
		return tx.MarkDirty(ctx, models.EntityPrograms, row.ID)
	}))

	got, err := s.GetRow(ctx, models.EntityPrograms, row.ID)
	require.NoError(t, err)
	assert.False(t, got.Synced)
	assert.True(t, got.RemotePresent)

	dirty, err := s.ListDirty(ctx, models.EntityPrograms, "user-1")
	require.NoError(t, err)
	require.Len(t, dirty, 1)
	assert.Equal(t, row.ID, dirty[0].ID)
}

func TestStorage_AllEntityTablesExist(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	for _, e := range models.AllEntityTypes() {
		count, err := s.CountDirty(ctx, e, "user-1")
		require.NoError(t, err, e)
		assert.Zero(t, count)
	}
}
