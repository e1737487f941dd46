package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fitsync/internal/models"
	"github.com/iudanet/fitsync/internal/server/storage"
	"github.com/iudanet/fitsync/internal/server/storage/sqlite"
	"github.com/iudanet/fitsync/pkg/api"
)

var t0 = time.Date(2026, 5, 1, 7, 30, 0, 0, time.UTC)

// newTestRouter монтирует handler как в сервере; владелец берется из X-Test-User
func newTestRouter(t *testing.T, store storage.RecordStorage) http.Handler {
	t.Helper()
	h := NewRecordsHandler(setupTestLogger(), store, 3, 2)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := r.Header.Get("X-Test-User"); user != "" {
				r = r.WithContext(WithUserID(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Post("/api/v1/tables/{table}/upsert", h.Upsert)
	r.Get("/api/v1/tables/{table}/records", h.Query)
	return r
}

func newSQLiteStore(t *testing.T) *sqlite.Storage {
	t.Helper()
	s, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newRun(owner string, updatedAt time.Time) *models.Run {
	return &models.Run{
		Meta: models.Meta{
			ID:        uuid.NewString(),
			UserID:    owner,
			CreatedAt: t0,
			UpdatedAt: updatedAt,
		},
		StartedAt:       t0,
		DistanceMeters:  5000,
		DurationSeconds: 1500,
	}
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func doUpsert(t *testing.T, h http.Handler, user, table string, records ...json.RawMessage) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(api.UpsertRequest{Records: records})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tables/"+table+"/upsert", bytes.NewReader(body))
	req.Header.Set("X-Test-User", user)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func doQuery(t *testing.T, h http.Handler, user, table string, params url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tables/"+table+"/records?"+params.Encode(), nil)
	req.Header.Set("X-Test-User", user)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRecordsHandler_UpsertResults(t *testing.T) {
	h := newTestRouter(t, newSQLiteStore(t))

	good := newRun("user-1", t0)
	invalid := newRun("user-1", t0)
	invalid.DistanceMeters = -1
	foreign := newRun("user-2", t0)

	w := doUpsert(t, h, "user-1", "runs",
		raw(t, good),
		raw(t, invalid),
		raw(t, foreign),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.UpsertResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Results, 3)

	assert.Equal(t, api.RecordResult{ID: good.ID, Status: api.ResultOK}, resp.Results[0])
	assert.Equal(t, invalid.ID, resp.Results[1].ID)
	assert.Equal(t, api.ResultValidation, resp.Results[1].Status)
	assert.Contains(t, resp.Results[1].Message, "distance_meters")
	assert.Equal(t, api.ResultForbidden, resp.Results[2].Status)

	// повтор того же id не создает вторую строку
	w = doUpsert(t, h, "user-1", "runs", raw(t, good))
	require.Equal(t, http.StatusOK, w.Code)

	w = doQuery(t, h, "user-1", "runs", url.Values{})
	require.Equal(t, http.StatusOK, w.Code)
	var page api.QueryResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
	assert.Len(t, page.Changes, 1)
}

func TestRecordsHandler_UpsertStaleVersion(t *testing.T) {
	h := newTestRouter(t, newSQLiteStore(t))

	newer := newRun("user-1", t0.Add(time.Minute))
	newer.DistanceMeters = 3000
	require.Equal(t, http.StatusOK, doUpsert(t, h, "user-1", "runs", raw(t, newer)).Code)

	// правка, сделанная офлайн раньше, приходит позже
	older := *newer
	older.UpdatedAt = t0
	older.DistanceMeters = 2000
	w := doUpsert(t, h, "user-1", "runs", raw(t, &older))
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.UpsertResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, newer.ID, resp.Results[0].ID)
	assert.Equal(t, api.ResultStale, resp.Results[0].Status)

	w = doQuery(t, h, "user-1", "runs", url.Values{})
	var page api.QueryResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
	require.Len(t, page.Changes, 1)

	var got models.Run
	require.NoError(t, json.Unmarshal(page.Changes[0].Record, &got))
	assert.Equal(t, 3000.0, got.DistanceMeters)
}

func TestRecordsHandler_UpsertForeignExistingRow(t *testing.T) {
	h := newTestRouter(t, newSQLiteStore(t))

	run := newRun("user-1", t0)
	require.Equal(t, http.StatusOK, doUpsert(t, h, "user-1", "runs", raw(t, run)).Code)

	// другой пользователь пытается перезаписать чужой id своей записью
	stolen := *run
	stolen.UserID = "user-2"
	w := doUpsert(t, h, "user-2", "runs", raw(t, &stolen))

	var resp api.UpsertResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, api.ResultForbidden, resp.Results[0].Status)
}

func TestRecordsHandler_UpsertRequestErrors(t *testing.T) {
	h := newTestRouter(t, newSQLiteStore(t))

	tests := []struct {
		name     string
		user     string
		table    string
		body     string
		wantCode int
	}{
		{name: "unknown table", user: "user-1", table: "workout_logs", body: `{"records":[]}`, wantCode: http.StatusNotFound},
		{name: "malformed body", user: "user-1", table: "runs", body: `{"records":`, wantCode: http.StatusBadRequest},
		{name: "batch too large", user: "user-1", table: "runs", body: `{"records":[{},{},{},{}]}`, wantCode: http.StatusBadRequest},
		{name: "no user", table: "runs", body: `{"records":[]}`, wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/tables/"+tt.table+"/upsert", bytes.NewBufferString(tt.body))
			req.Header.Set("X-Test-User", tt.user)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestRecordsHandler_UpsertStorageFailure(t *testing.T) {
	store := &storage.RecordStorageMock{
		UpsertFunc: func(ctx context.Context, row *storage.Row) error {
			return errors.New("disk full")
		},
	}
	h := newTestRouter(t, store)

	run := newRun("user-1", t0)
	w := doUpsert(t, h, "user-1", "runs", raw(t, run))
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.UpsertResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, api.ResultInternal, resp.Results[0].Status)

	calls := store.UpsertCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, run.ID, calls[0].Row.ID)
	assert.Equal(t, "user-1", calls[0].Row.UserID)
	assert.Equal(t, models.EntityRuns, calls[0].Row.Table)
}

func TestRecordsHandler_QueryPages(t *testing.T) {
	h := newTestRouter(t, newSQLiteStore(t))

	// порядок выдачи определяет момент приема, а не updated_at записи; размер страницы сервера 2
	first := newRun("user-1", t0.Add(3*time.Second))
	second := newRun("user-1", t0.Add(time.Second))
	third := newRun("user-1", t0.Add(2*time.Second))
	for _, r := range []*models.Run{first, second, third} {
		require.Equal(t, http.StatusOK, doUpsert(t, h, "user-1", "runs", raw(t, r)).Code)
	}

	w := doQuery(t, h, "user-1", "runs", url.Values{"user_id": {"user-1"}, "limit": {"5"}})
	require.Equal(t, http.StatusOK, w.Code)
	var page api.QueryResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
	require.Len(t, page.Changes, 2)
	assert.True(t, page.HasMore)
	assert.Less(t, page.Changes[0].Seq, page.Changes[1].Seq)

	var got models.Run
	require.NoError(t, json.Unmarshal(page.Changes[0].Record, &got))
	assert.Equal(t, first.ID, got.ID)

	cursor := strconv.FormatInt(page.Changes[1].Seq, 10)
	w = doQuery(t, h, "user-1", "runs", url.Values{"after_seq": {cursor}, "limit": {"100"}})
	require.Equal(t, http.StatusOK, w.Code)
	page = api.QueryResponse{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
	require.Len(t, page.Changes, 1)
	assert.False(t, page.HasMore)

	require.NoError(t, json.Unmarshal(page.Changes[0].Record, &got))
	assert.Equal(t, third.ID, got.ID)
}

func TestRecordsHandler_QueryErrors(t *testing.T) {
	store := &storage.RecordStorageMock{
		QueryFunc: func(ctx context.Context, table models.EntityType, userID string, afterSeq int64, limit int) (*storage.Page, error) {
			return nil, errors.New("db is gone")
		},
	}
	h := newTestRouter(t, store)

	tests := []struct {
		name     string
		table    string
		params   url.Values
		wantCode int
	}{
		{name: "other user", table: "runs", params: url.Values{"user_id": {"user-2"}}, wantCode: http.StatusForbidden},
		{name: "bad cursor", table: "runs", params: url.Values{"after_seq": {"yesterday"}}, wantCode: http.StatusBadRequest},
		{name: "negative cursor", table: "runs", params: url.Values{"after_seq": {"-5"}}, wantCode: http.StatusBadRequest},
		{name: "bad limit", table: "runs", params: url.Values{"limit": {"-1"}}, wantCode: http.StatusBadRequest},
		{name: "unknown table", table: "nope", params: url.Values{}, wantCode: http.StatusNotFound},
		{name: "storage failure", table: "runs", params: url.Values{}, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doQuery(t, h, "user-1", tt.table, tt.params)
			assert.Equal(t, tt.wantCode, w.Code)

			var resp api.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.NotEmpty(t, resp.Error)
		})
	}

	// только последний случай дошел до хранилища, с лимитом по умолчанию
	calls := store.QueryCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, 2, calls[0].Limit)
	assert.Equal(t, "user-1", calls[0].UserID)
}
