package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/fitsync/internal/client/storage"
	"github.com/iudanet/fitsync/internal/models"
)

// querier общий интерфейс *sql.DB и *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const rowColumns = `id, user_id, payload, synced, remote_present, deleted, created_at, updated_at`

// table возвращает имя таблицы. Имя берется только из реестра сущностей,
// поэтому его безопасно подставлять в SQL.
func table(entity models.EntityType) (string, error) {
	if !entity.Valid() {
		return "", fmt.Errorf("%w: %q", models.ErrUnknownEntity, entity)
	}
	return string(entity), nil
}

// SaveRow stores a local mutation with synced=false
func (s *Storage) SaveRow(ctx context.Context, row *storage.Row) error {
	t, err := table(row.Entity)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES (?, ?, ?, 0, 0, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			payload = excluded.payload,
			synced = 0,
			deleted = excluded.deleted,
			updated_at = excluded.updated_at
	`, t, rowColumns)

	_, err = s.db.ExecContext(ctx, query,
		row.ID,
		row.UserID,
		row.Payload,
		boolToInt(row.Deleted),
		models.ToMillis(row.CreatedAt),
		models.ToMillis(row.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save %s %s: %w", t, row.ID, err)
	}

	row.Synced = false
	return nil
}

// GetRow retrieves a single row by ID
func (s *Storage) GetRow(ctx context.Context, entity models.EntityType, id string) (*storage.Row, error) {
	return getRow(ctx, s.db, entity, id)
}

// ListRows returns non-deleted rows of the user
func (s *Storage) ListRows(ctx context.Context, entity models.EntityType, userID string) ([]*storage.Row, error) {
	t, err := table(entity)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = ? AND deleted = 0
		ORDER BY created_at ASC, id ASC
	`, rowColumns, t)

	return queryRows(ctx, s.db, entity, query, userID)
}

// ListDirty returns rows with synced=false, oldest first
func (s *Storage) ListDirty(ctx context.Context, entity models.EntityType, userID string) ([]*storage.Row, error) {
	t, err := table(entity)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = ? AND synced = 0
		ORDER BY created_at ASC, id ASC
	`, rowColumns, t)

	return queryRows(ctx, s.db, entity, query, userID)
}

// CountDirty returns number of rows with synced=false
func (s *Storage) CountDirty(ctx context.Context, entity models.EntityType, userID string) (int, error) {
	t, err := table(entity)
	if err != nil {
		return 0, err
	}

	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE user_id = ? AND synced = 0`, t)
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count dirty %s: %w", t, err)
	}

	return count, nil
}

// IsRemotePresent reports whether the row is known to exist remotely
func (s *Storage) IsRemotePresent(ctx context.Context, entity models.EntityType, id string) (bool, error) {
	t, err := table(entity)
	if err != nil {
		return false, err
	}

	var present int
	query := fmt.Sprintf(`SELECT remote_present FROM %s WHERE id = ?`, t)
	err = s.db.QueryRowContext(ctx, query, id).Scan(&present)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check %s %s: %w", t, id, err)
	}

	return intToBool(present), nil
}

// InTx runs fn in one local transaction
func (s *Storage) InTx(ctx context.Context, fn func(tx storage.RecordTx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&recordTx{tx: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// recordTx реализация storage.RecordTx поверх *sql.Tx
type recordTx struct {
	tx *sql.Tx
}

func (r *recordTx) GetRow(ctx context.Context, entity models.EntityType, id string) (*storage.Row, error) {
	return getRow(ctx, r.tx, entity, id)
}

func (r *recordTx) Exists(ctx context.Context, entity models.EntityType, id string) (bool, error) {
	t, err := table(entity)
	if err != nil {
		return false, err
	}

	var one int
	err = r.tx.QueryRowContext(ctx, fmt.Sprintf(`SELECT 1 FROM %s WHERE id = ?`, t), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check %s %s: %w", t, id, err)
	}
	return true, nil
}

func (r *recordTx) ApplyRemote(ctx context.Context, row *storage.Row) error {
	t, err := table(row.Entity)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES (?, ?, ?, 1, 1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			payload = excluded.payload,
			synced = 1,
			remote_present = 1,
			deleted = excluded.deleted,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, t, rowColumns)

	_, err = r.tx.ExecContext(ctx, query,
		row.ID,
		row.UserID,
		row.Payload,
		boolToInt(row.Deleted),
		models.ToMillis(row.CreatedAt),
		models.ToMillis(row.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to apply remote %s %s: %w", t, row.ID, err)
	}

	row.Synced = true
	row.RemotePresent = true
	return nil
}

func (r *recordTx) MarkRemotePresent(ctx context.Context, entity models.EntityType, id string) error {
	t, err := table(entity)
	if err != nil {
		return err
	}

	if _, err := r.tx.ExecContext(ctx, fmt.Sprintf(`UPDATE %s SET remote_present = 1 WHERE id = ?`, t), id); err != nil {
		return fmt.Errorf("failed to mark %s %s remote present: %w", t, id, err)
	}
	return nil
}

func (r *recordTx) MarkDirty(ctx context.Context, entity models.EntityType, id string) error {
	t, err := table(entity)
	if err != nil {
		return err
	}

	if _, err := r.tx.ExecContext(ctx, fmt.Sprintf(`UPDATE %s SET synced = 0, remote_present = 1 WHERE id = ?`, t), id); err != nil {
		return fmt.Errorf("failed to mark %s %s dirty: %w", t, id, err)
	}
	return nil
}

func (r *recordTx) MarkSynced(ctx context.Context, entity models.EntityType, id string, updatedAt time.Time) (bool, error) {
	t, err := table(entity)
	if err != nil {
		return false, err
	}

	res, err := r.tx.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET synced = 1, remote_present = 1 WHERE id = ? AND updated_at = ?`, t),
		id, models.ToMillis(updatedAt))
	if err != nil {
		return false, fmt.Errorf("failed to mark %s %s synced: %w", t, id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected > 0 {
		return true, nil
	}

	// Запись изменили, пока шел upsert: остается dirty, но на сервере она уже есть
	if err := r.MarkRemotePresent(ctx, entity, id); err != nil {
		return false, err
	}
	return false, nil
}

func getRow(ctx context.Context, q querier, entity models.EntityType, id string) (*storage.Row, error) {
	t, err := table(entity)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, rowColumns, t)
	row, err := scanRow(entity, q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get %s %s: %w", t, id, err)
	}

	return row, nil
}

func queryRows(ctx context.Context, q querier, entity models.EntityType, query string, args ...any) ([]*storage.Row, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", entity, err)
	}
	defer rows.Close()

	var result []*storage.Row
	for rows.Next() {
		row, err := scanRow(entity, rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", entity, err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(entity models.EntityType, sc scanner) (*storage.Row, error) {
	row := &storage.Row{Entity: entity}
	var synced, remotePresent, deleted int
	var createdAt, updatedAt int64

	err := sc.Scan(
		&row.ID,
		&row.UserID,
		&row.Payload,
		&synced,
		&remotePresent,
		&deleted,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	row.Synced = intToBool(synced)
	row.RemotePresent = intToBool(remotePresent)
	row.Deleted = intToBool(deleted)
	row.CreatedAt = models.FromMillis(createdAt)
	row.UpdatedAt = models.FromMillis(updatedAt)

	return row, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}
