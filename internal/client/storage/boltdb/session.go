package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/fitsync/internal/client/storage"
)

// сессия одна на устройство
var sessionKey = []byte("current")

// SaveSession перезаписывает текущую сессию
func (s *Storage) SaveSession(ctx context.Context, session *storage.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return s.update(bucketSession, func(b *bbolt.Bucket) error {
		return b.Put(sessionKey, data)
	})
}

// GetSession returns storage.ErrSessionNotFound when nobody is logged in
func (s *Storage) GetSession(ctx context.Context) (*storage.Session, error) {
	var session storage.Session

	err := s.view(bucketSession, func(b *bbolt.Bucket) error {
		data := b.Get(sessionKey)
		if data == nil {
			return storage.ErrSessionNotFound
		}
		return json.Unmarshal(data, &session)
	})
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// DeleteSession is a no-op when there is no session
func (s *Storage) DeleteSession(ctx context.Context) error {
	return s.update(bucketSession, func(b *bbolt.Bucket) error {
		return b.Delete(sessionKey)
	})
}
