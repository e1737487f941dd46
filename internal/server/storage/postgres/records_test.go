package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fitsync/internal/models"
	"github.com/iudanet/fitsync/internal/server/storage"
)

// Тесты идут только при заданной FITSYNC_TEST_POSTGRES_DSN
func setupTestStorage(t *testing.T) *Storage {
	t.Helper()
	dsn := os.Getenv("FITSYNC_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("FITSYNC_TEST_POSTGRES_DSN is not set")
	}

	s, err := New(context.Background(), dsn, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testRow(id, owner string, at time.Time) *storage.Row {
	return &storage.Row{
		Table:     models.EntityRuns,
		ID:        id,
		UserID:    owner,
		UpdatedAt: at,
		Payload:   json.RawMessage(fmt.Sprintf(`{"id":%q,"user_id":%q}`, id, owner)),
	}
}

func TestStorage_UpsertAndQuery(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	// уникальный владелец, чтобы не зависеть от данных прошлых прогонов
	owner := "pg-" + uuid.NewString()
	t0 := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	ids := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}
	first := testRow(ids[0], owner, t0)
	require.NoError(t, s.Upsert(ctx, first))
	require.NoError(t, s.Upsert(ctx, testRow(ids[1], owner, t0.Add(time.Second))))
	require.NoError(t, s.Upsert(ctx, testRow(ids[2], owner, t0.Add(time.Second))))

	again := testRow(ids[0], owner, t0)
	require.NoError(t, s.Upsert(ctx, again))
	assert.Greater(t, again.Seq, first.Seq)

	page, err := s.Query(ctx, models.EntityRuns, owner, 0, 2)
	require.NoError(t, err)
	require.Len(t, page.Rows, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, ids[1], page.Rows[0].ID)

	page, err = s.Query(ctx, models.EntityRuns, owner, page.Rows[1].Seq, 2)
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.False(t, page.HasMore)
	assert.Equal(t, ids[0], page.Rows[0].ID)

	err = s.Upsert(ctx, testRow(ids[1], owner, t0))
	assert.ErrorIs(t, err, storage.ErrStale)

	err = s.Upsert(ctx, testRow(ids[0], "pg-"+uuid.NewString(), t0.Add(time.Hour)))
	assert.ErrorIs(t, err, storage.ErrOwnerMismatch)

	assert.NoError(t, s.Ping(ctx))
}
