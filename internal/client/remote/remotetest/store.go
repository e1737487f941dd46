// Package remotetest in-memory реализация remote.Store для тестов синхронизации.
// Поведение совпадает с эталонным сервером: upsert по id с правилом LWW и проверкой
// владельца, номер изменения seq на каждую принятую запись, выборка по seq.
package remotetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iudanet/fitsync/internal/client/remote"
	"github.com/iudanet/fitsync/internal/models"
	"github.com/iudanet/fitsync/internal/validation"
	"github.com/iudanet/fitsync/pkg/api"
)

type row struct {
	updatedAt time.Time
	id        string
	owner     string
	payload   json.RawMessage
	seq       int64
}

// Store in-memory удалённое хранилище одного владельца токена
type Store struct {
	tables map[models.EntityType]map[string]*row

	// FailUpsert/FailQuery возвращаются для всего вызова по таблице
	FailUpsert map[models.EntityType]error
	FailQuery  map[models.EntityType]error
	// Reject отклоняет отдельные записи с указанным статусом
	Reject map[string]string

	// OnUpsert вызывается перед обработкой upsert (для проверки порядка и гонок)
	OnUpsert func(table models.EntityType, records []json.RawMessage)

	owner       string
	seq         int64
	upsertCalls int
	queryCalls  int
	mu          sync.Mutex
}

var _ remote.Store = (*Store)(nil)

// NewStore создает пустое хранилище для владельца owner
func NewStore(owner string) *Store {
	return &Store{
		tables:     make(map[models.EntityType]map[string]*row),
		FailUpsert: make(map[models.EntityType]error),
		FailQuery:  make(map[models.EntityType]error),
		Reject:     make(map[string]string),
		owner:      owner,
	}
}

// Upsert implements remote.Store
func (s *Store) Upsert(ctx context.Context, table models.EntityType, records []json.RawMessage) ([]api.RecordResult, error) {
	s.mu.Lock()
	s.upsertCalls++
	hook := s.OnUpsert
	failErr := s.FailUpsert[table]
	s.mu.Unlock()

	if hook != nil {
		hook(table, records)
	}
	if failErr != nil {
		return nil, failErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]api.RecordResult, 0, len(records))
	for _, raw := range records {
		results = append(results, s.upsertOne(table, raw))
	}
	return results, nil
}

func (s *Store) upsertOne(table models.EntityType, raw json.RawMessage) api.RecordResult {
	rec, err := models.New(table)
	if err != nil {
		return api.RecordResult{Status: api.ResultValidation, Message: err.Error()}
	}
	if err := json.Unmarshal(raw, rec); err != nil {
		return api.RecordResult{Status: api.ResultValidation, Message: err.Error()}
	}

	m := rec.Base()
	if status, ok := s.Reject[m.ID]; ok {
		return api.RecordResult{ID: m.ID, Status: status, Message: "rejected by test"}
	}
	if err := validation.ValidateRecord(rec); err != nil {
		return api.RecordResult{ID: m.ID, Status: api.ResultValidation, Message: err.Error()}
	}
	if m.UserID != s.owner {
		return api.RecordResult{ID: m.ID, Status: api.ResultForbidden, Message: "record belongs to another user"}
	}

	rows := s.tables[table]
	if rows == nil {
		rows = make(map[string]*row)
		s.tables[table] = rows
	}
	updatedAt := models.Timestamp(m.UpdatedAt)
	if existing, ok := rows[m.ID]; ok {
		if existing.owner != s.owner {
			return api.RecordResult{ID: m.ID, Status: api.ResultForbidden, Message: "record belongs to another user"}
		}
		if existing.updatedAt.After(updatedAt) {
			return api.RecordResult{ID: m.ID, Status: api.ResultStale, Message: "stored version is newer"}
		}
	}

	s.seq++
	rows[m.ID] = &row{
		id:        m.ID,
		owner:     s.owner,
		payload:   append(json.RawMessage(nil), raw...),
		updatedAt: updatedAt,
		seq:       s.seq,
	}
	return api.RecordResult{ID: m.ID, Status: api.ResultOK}
}

// Query implements remote.Store
func (s *Store) Query(ctx context.Context, table models.EntityType, userID string, afterSeq int64, limit int) (*api.QueryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queryCalls++
	if err := s.FailQuery[table]; err != nil {
		return nil, err
	}
	if userID != s.owner {
		return nil, fmt.Errorf("%w: user mismatch", remote.ErrUnauthorized)
	}

	var matched []*row
	for _, r := range s.tables[table] {
		if r.owner == userID && r.seq > afterSeq {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].seq < matched[j].seq
	})

	resp := &api.QueryResponse{}
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
		resp.HasMore = true
	}

	for _, r := range matched {
		resp.Changes = append(resp.Changes, api.Change{Seq: r.seq, Record: r.payload})
	}
	return resp, nil
}

// Put кладет запись напрямую, как будто ее записало другое устройство
func (s *Store) Put(rec models.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.upsertOne(rec.Entity(), raw)
	if res.Status != api.ResultOK {
		return fmt.Errorf("put %s %s: %s %s", rec.Entity(), res.ID, res.Status, res.Message)
	}
	return nil
}

// Get returns the stored payload or nil
func (s *Store) Get(table models.EntityType, id string) json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.tables[table][id]; ok {
		return r.payload
	}
	return nil
}

// Seq returns the change number of the stored row, 0 if there is none
func (s *Store) Seq(table models.EntityType, id string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.tables[table][id]; ok {
		return r.seq
	}
	return 0
}

// Count returns number of rows in the table
func (s *Store) Count(table models.EntityType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tables[table])
}

// Calls returns number of Upsert and Query calls
func (s *Store) Calls() (upserts, queries int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertCalls, s.queryCalls
}
