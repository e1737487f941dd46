package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/fitsync/internal/models"
)

// cursorKey ключ вида "<user_id>/<entity>"
func cursorKey(userID string, entity models.EntityType) []byte {
	return []byte(userID + "/" + string(entity))
}

// GetCursor returns the last applied remote seq for the user and entity.
// Returns 0 if no pull has been performed yet
func (s *Storage) GetCursor(ctx context.Context, userID string, entity models.EntityType) (int64, error) {
	var seq int64

	err := s.view(bucketCursors, func(bucket *bbolt.Bucket) error {
		data := bucket.Get(cursorKey(userID, entity))
		if data == nil {
			return nil
		}
		if len(data) != 8 {
			return fmt.Errorf("corrupted cursor for %s/%s", userID, entity)
		}

		seq = int64(binary.BigEndian.Uint64(data))
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to get cursor: %w", err)
	}

	return seq, nil
}

// SaveCursor persists the cursor; значение не больше текущего игнорируется
func (s *Storage) SaveCursor(ctx context.Context, userID string, entity models.EntityType, seq int64) error {
	return s.update(bucketCursors, func(bucket *bbolt.Bucket) error {
		key := cursorKey(userID, entity)

		if data := bucket.Get(key); len(data) == 8 {
			if current := int64(binary.BigEndian.Uint64(data)); seq <= current {
				return nil
			}
		}

		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(seq))

		if err := bucket.Put(key, buf); err != nil {
			return fmt.Errorf("failed to save cursor: %w", err)
		}

		return nil
	})
}
