package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/fitsync/internal/models"
	"github.com/iudanet/fitsync/internal/server/storage"
)

const selectColumns = `SELECT tbl, id, user_id, updated_at, payload, seq FROM records`

// Номер изменения берется как MAX(seq)+1 в том же выражении: соединение одно,
// поэтому два upsert не получат одинаковый seq.
// DO UPDATE срабатывает только для своей строки и не более старой версии.
const upsertQuery = `
	INSERT INTO records (tbl, id, user_id, updated_at, payload, seq)
	VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM records))
	ON CONFLICT (tbl, id) DO UPDATE
	SET updated_at = excluded.updated_at, payload = excluded.payload, seq = excluded.seq
	WHERE records.user_id = excluded.user_id AND excluded.updated_at >= records.updated_at
	RETURNING seq
`

// Upsert implements storage.RecordStorage
func (s *Storage) Upsert(ctx context.Context, row *storage.Row) error {
	err := s.db.QueryRowContext(ctx, upsertQuery,
		string(row.Table),
		row.ID,
		row.UserID,
		models.ToMillis(row.UpdatedAt),
		string(row.Payload),
	).Scan(&row.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return s.rejected(ctx, row)
	}
	if err != nil {
		return fmt.Errorf("failed to upsert %s %s: %w", row.Table, row.ID, err)
	}
	return nil
}

// rejected объясняет, почему DO UPDATE не изменил строку
func (s *Storage) rejected(ctx context.Context, row *storage.Row) error {
	var owner string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id FROM records WHERE tbl = ? AND id = ?`, string(row.Table), row.ID,
	).Scan(&owner)
	if err != nil {
		return fmt.Errorf("failed to read %s %s: %w", row.Table, row.ID, err)
	}
	if owner != row.UserID {
		return storage.ErrOwnerMismatch
	}
	return storage.ErrStale
}

// Query implements storage.RecordStorage
func (s *Storage) Query(ctx context.Context, table models.EntityType, userID string, afterSeq int64, limit int) (*storage.Page, error) {
	query := selectColumns + ` WHERE tbl = ? AND user_id = ? AND seq > ? ORDER BY seq`
	args := []any{string(table), userID, afterSeq}
	if n := storage.FetchLimit(limit); n > 0 {
		query += ` LIMIT ?`
		args = append(args, n)
	}

	rows, err := s.selectRows(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	return storage.PageOf(rows, limit), nil
}

func (s *Storage) selectRows(ctx context.Context, query string, args ...any) ([]*storage.Row, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*storage.Row
	for rows.Next() {
		var (
			r         storage.Row
			table     string
			updatedAt int64
			payload   string
		)
		if err := rows.Scan(&table, &r.ID, &r.UserID, &updatedAt, &payload, &r.Seq); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		r.Table = models.EntityType(table)
		r.UpdatedAt = models.FromMillis(updatedAt)
		r.Payload = []byte(payload)
		out = append(out, &r)
	}

	return out, rows.Err()
}
