package boltdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/fitsync/internal/client/storage"
	"github.com/iudanet/fitsync/internal/models"
)

func failureKey(entity models.EntityType, id string) []byte {
	return []byte(string(entity) + "/" + id)
}

func failurePrefix(entity models.EntityType) []byte {
	if entity == "" {
		return nil
	}
	return []byte(string(entity) + "/")
}

// GetFailure returns the failure entry for the record
func (s *Storage) GetFailure(ctx context.Context, entity models.EntityType, id string) (*storage.Failure, error) {
	var failure *storage.Failure

	err := s.view(bucketFailures, func(b *bbolt.Bucket) error {
		data := b.Get(failureKey(entity, id))
		if data == nil {
			return storage.ErrFailureNotFound
		}

		failure = &storage.Failure{}
		if err := json.Unmarshal(data, failure); err != nil {
			return fmt.Errorf("failed to unmarshal failure: %w", err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return failure, nil
}

// RecordFailure stores the failure entry
func (s *Storage) RecordFailure(ctx context.Context, failure *storage.Failure) error {
	data, err := json.Marshal(failure)
	if err != nil {
		return fmt.Errorf("failed to marshal failure: %w", err)
	}

	return s.update(bucketFailures, func(b *bbolt.Bucket) error {
		if err := b.Put(failureKey(failure.Entity, failure.ID), data); err != nil {
			return fmt.Errorf("failed to save failure: %w", err)
		}
		return nil
	})
}

// ClearFailure removes the failure entry
func (s *Storage) ClearFailure(ctx context.Context, entity models.EntityType, id string) error {
	return s.update(bucketFailures, func(b *bbolt.Bucket) error {
		if err := b.Delete(failureKey(entity, id)); err != nil {
			return fmt.Errorf("failed to delete failure: %w", err)
		}
		return nil
	})
}

// ListFailures returns all failure entries of the entity type
func (s *Storage) ListFailures(ctx context.Context, entity models.EntityType) ([]*storage.Failure, error) {
	var result []*storage.Failure
	prefix := failurePrefix(entity)

	err := s.view(bucketFailures, func(b *bbolt.Bucket) error {
		c := b.Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			failure := &storage.Failure{}
			if err := json.Unmarshal(v, failure); err != nil {
				return fmt.Errorf("failed to unmarshal failure %s: %w", k, err)
			}
			result = append(result, failure)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// ResetFailures removes entries of the entity type (all types if entity is empty)
func (s *Storage) ResetFailures(ctx context.Context, entity models.EntityType) (int, error) {
	removed := 0
	prefix := failurePrefix(entity)

	err := s.update(bucketFailures, func(bucket *bbolt.Bucket) error {

		// собираем ключи заранее: удаление во время обхода курсором ненадежно
		var keys [][]byte
		c := bucket.Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			keys = append(keys, bytes.Clone(k))
		}

		for _, k := range keys {
			if err := bucket.Delete(k); err != nil {
				return fmt.Errorf("failed to delete failure %s: %w", k, err)
			}
			removed++
		}
		return nil
	})

	if err != nil {
		return 0, err
	}

	return removed, nil
}
