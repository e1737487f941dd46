package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iudanet/fitsync/internal/models"
	"github.com/iudanet/fitsync/internal/server/storage"
)

const selectColumns = `SELECT tbl, id, user_id, updated_at, payload, seq FROM records`

// seqLockKey ключ advisory lock, под которым выдаются номера изменений
const seqLockKey = 0x66697473 // "fits"

const upsertQuery = `
	INSERT INTO records (tbl, id, user_id, updated_at, payload)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (tbl, id) DO UPDATE
	SET updated_at = EXCLUDED.updated_at, payload = EXCLUDED.payload, seq = nextval('records_seq')
	WHERE records.user_id = EXCLUDED.user_id AND EXCLUDED.updated_at >= records.updated_at
	RETURNING seq`

// Upsert implements storage.RecordStorage.
// Пишущие транзакции идут по одной под advisory lock, поэтому фиксируются
// в порядке seq: читатель не увидит seq N+1 раньше seq N.
func (s *Storage) Upsert(ctx context.Context, row *storage.Row) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, seqLockKey); err != nil {
			return fmt.Errorf("lock seq: %w", err)
		}

		err := tx.QueryRow(ctx, upsertQuery,
			string(row.Table),
			row.ID,
			row.UserID,
			models.ToMillis(row.UpdatedAt),
			[]byte(row.Payload),
		).Scan(&row.Seq)
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		// строка не изменилась: чужая или новее присланной
		var owner string
		if err := tx.QueryRow(ctx,
			`SELECT user_id FROM records WHERE tbl = $1 AND id = $2`, string(row.Table), row.ID,
		).Scan(&owner); err != nil {
			return err
		}
		if owner != row.UserID {
			return storage.ErrOwnerMismatch
		}
		return storage.ErrStale
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrOwnerMismatch), errors.Is(err, storage.ErrStale):
		return err
	default:
		s.log.Error("failed to upsert record", "table", row.Table, "id", row.ID, "error", err)
		return fmt.Errorf("upsert %s %s: %w", row.Table, row.ID, err)
	}
}

// Query implements storage.RecordStorage
func (s *Storage) Query(ctx context.Context, table models.EntityType, userID string, afterSeq int64, limit int) (*storage.Page, error) {
	query := selectColumns + ` WHERE tbl = $1 AND user_id = $2 AND seq > $3 ORDER BY seq`
	args := []any{string(table), userID, afterSeq}
	if n := storage.FetchLimit(limit); n > 0 {
		query += ` LIMIT $4`
		args = append(args, n)
	}

	rows, err := s.selectRows(ctx, query, args...)
	if err != nil {
		s.log.Error("failed to query records", "table", table, "user_id", userID, "error", err)
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	return storage.PageOf(rows, limit), nil
}

func (s *Storage) selectRows(ctx context.Context, query string, args ...any) ([]*storage.Row, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*storage.Row, error) {
		var (
			r         storage.Row
			table     string
			updatedAt int64
			payload   []byte
		)
		if err := row.Scan(&table, &r.ID, &r.UserID, &updatedAt, &payload, &r.Seq); err != nil {
			return nil, err
		}
		r.Table = models.EntityType(table)
		r.UpdatedAt = models.FromMillis(updatedAt)
		r.Payload = payload
		return &r, nil
	})
}
