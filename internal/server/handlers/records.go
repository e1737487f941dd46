package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/fitsync/internal/models"
	"github.com/iudanet/fitsync/internal/server/storage"
	"github.com/iudanet/fitsync/internal/validation"
	"github.com/iudanet/fitsync/pkg/api"
)

const maxBodyBytes = 8 << 20

// RecordsHandler upsert и выборка записей по таблицам
type RecordsHandler struct {
	logger      *slog.Logger
	storage     storage.RecordStorage
	maxBatch    int
	maxPageSize int
}

// NewRecordsHandler creates a new records handler
func NewRecordsHandler(logger *slog.Logger, storage storage.RecordStorage, maxBatch, maxPageSize int) *RecordsHandler {
	return &RecordsHandler{
		logger:      logger,
		storage:     storage,
		maxBatch:    maxBatch,
		maxPageSize: maxPageSize,
	}
}

// table разбирает {table} из пути; при ошибке ответ уже записан
func (h *RecordsHandler) table(w http.ResponseWriter, r *http.Request) (models.EntityType, bool) {
	table, err := models.ParseEntityType(chi.URLParam(r, "table"))
	if err != nil {
		WriteError(w, h.logger, http.StatusNotFound, err.Error())
		return "", false
	}
	return table, true
}

// Upsert обрабатывает POST /api/v1/tables/{table}/upsert.
// Каждая запись получает свой результат; ошибка одной записи не мешает остальным.
func (h *RecordsHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.logger.Error("User ID not found in context")
		WriteError(w, h.logger, http.StatusUnauthorized, "missing user")
		return
	}
	table, ok := h.table(w, r)
	if !ok {
		return
	}

	var req api.UpsertRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode upsert request", "error", err)
		WriteError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Records) > h.maxBatch {
		WriteError(w, h.logger, http.StatusBadRequest,
			fmt.Sprintf("batch of %d records exceeds limit %d", len(req.Records), h.maxBatch))
		return
	}

	resp := api.UpsertResponse{Results: make([]api.RecordResult, 0, len(req.Records))}
	stored, stale := 0, 0
	for _, raw := range req.Records {
		res := h.upsertOne(r, table, userID, raw)
		switch {
		case res.OK():
			stored++
		case res.Stale():
			stale++
		}
		resp.Results = append(resp.Results, res)
	}

	h.logger.Info("Upsert completed",
		"user_id", userID,
		"table", table,
		"received", len(req.Records),
		"stored", stored,
		"stale", stale)

	writeJSON(w, h.logger, http.StatusOK, resp)
}

func (h *RecordsHandler) upsertOne(r *http.Request, table models.EntityType, userID string, raw json.RawMessage) api.RecordResult {
	rec, err := models.New(table)
	if err != nil {
		return api.RecordResult{Status: api.ResultValidation, Message: err.Error()}
	}
	if err := json.Unmarshal(raw, rec); err != nil {
		return api.RecordResult{Status: api.ResultValidation, Message: "malformed record: " + err.Error()}
	}

	m := rec.Base()
	if err := validation.ValidateRecord(rec); err != nil {
		return api.RecordResult{ID: m.ID, Status: api.ResultValidation, Message: err.Error()}
	}
	if m.UserID != userID {
		return api.RecordResult{ID: m.ID, Status: api.ResultForbidden, Message: storage.ErrOwnerMismatch.Error()}
	}

	err = h.storage.Upsert(r.Context(), &storage.Row{
		Table:     table,
		ID:        m.ID,
		UserID:    userID,
		UpdatedAt: models.Timestamp(m.UpdatedAt),
		Payload:   raw,
	})
	switch {
	case errors.Is(err, storage.ErrStale):
		// у сервера версия новее: клиент получит ее следующим pull
		return api.RecordResult{ID: m.ID, Status: api.ResultStale, Message: err.Error()}
	case errors.Is(err, storage.ErrOwnerMismatch):
		h.logger.Warn("Upsert of foreign record", "user_id", userID, "table", table, "id", m.ID)
		return api.RecordResult{ID: m.ID, Status: api.ResultForbidden, Message: err.Error()}
	case err != nil:
		h.logger.Error("Failed to store record", "table", table, "id", m.ID, "error", err)
		return api.RecordResult{ID: m.ID, Status: api.ResultInternal, Message: "storage failure"}
	}

	return api.RecordResult{ID: m.ID, Status: api.ResultOK}
}

// Query обрабатывает GET /api/v1/tables/{table}/records?user_id=&after_seq=&limit=
func (h *RecordsHandler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.logger.Error("User ID not found in context")
		WriteError(w, h.logger, http.StatusUnauthorized, "missing user")
		return
	}
	table, ok := h.table(w, r)
	if !ok {
		return
	}

	params := r.URL.Query()
	if owner := params.Get("user_id"); owner != "" && owner != userID {
		h.logger.Warn("Query for another user", "user_id", userID, "requested", owner)
		WriteError(w, h.logger, http.StatusForbidden, "user_id does not match token")
		return
	}

	var afterSeq int64
	if s := params.Get("after_seq"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 0 {
			WriteError(w, h.logger, http.StatusBadRequest, "invalid after_seq")
			return
		}
		afterSeq = n
	}

	limit := h.maxPageSize
	if s := params.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			WriteError(w, h.logger, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, h.maxPageSize)
	}

	page, err := h.storage.Query(ctx, table, userID, afterSeq, limit)
	if err != nil {
		h.logger.Error("Failed to query records", "error", err, "user_id", userID, "table", table)
		WriteError(w, h.logger, http.StatusInternalServerError, "storage failure")
		return
	}

	resp := api.QueryResponse{
		Changes: make([]api.Change, 0, len(page.Rows)),
		HasMore: page.HasMore,
	}
	for _, row := range page.Rows {
		resp.Changes = append(resp.Changes, api.Change{Seq: row.Seq, Record: row.Payload})
	}

	h.logger.Debug("Query completed",
		"user_id", userID,
		"table", table,
		"after_seq", afterSeq,
		"returned", len(resp.Changes),
		"has_more", resp.HasMore)

	writeJSON(w, h.logger, http.StatusOK, resp)
}
