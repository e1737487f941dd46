// Package boltdb хранит служебное состояние синхронизации в BoltDB:
// курсоры, учет постоянных ошибок и сессию.
package boltdb

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.etcd.io/bbolt"
)

const (
	fileMode os.FileMode = 0o600
	// второй процесс (например, daemon) не должен висеть на flock вечно
	lockTimeout = 2 * time.Second
)

var (
	bucketCursors  = []byte("cursors")
	bucketFailures = []byte("failures")
	bucketSession  = []byte("session")

	buckets = [][]byte{bucketCursors, bucketFailures, bucketSession}
)

// Storage метаданные синхронизации в одном bbolt файле
type Storage struct {
	db *bbolt.DB
}

// New открывает (или создает) файл dbPath и заводит все buckets
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, fileMode, &bbolt.Options{Timeout: lockTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database file
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// view выполняет fn в read-only транзакции над bucket name
func (s *Storage) view(name []byte, fn func(b *bbolt.Bucket) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(name)
		if b == nil {
			return fmt.Errorf("bucket %s not found", name)
		}
		return fn(b)
	})
}

// update то же, что view, но в пишущей транзакции
func (s *Storage) update(name []byte, fn func(b *bbolt.Bucket) error) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(name)
		if b == nil {
			return fmt.Errorf("bucket %s not found", name)
		}
		return fn(b)
	})
}
