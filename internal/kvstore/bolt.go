package kvstore

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

// BoltStore is a file-backed Store using BoltDB with one bucket per
// namespace. It survives process restarts, making it the default backend
// for single-node deployments.
type BoltStore struct {
	db *bbolt.DB
}

var _ Store = (*BoltStore)(nil)

// NewBoltStore opens (or creates) the database file.
func NewBoltStore(path string) (*BoltStore, error) {
	if filepath.Ext(path) == "" {
		path = path + ".db"
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache db: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Get retrieves a value from the store.
func (s *BoltStore) Get(_ context.Context, namespace, key string) (string, bool, error) {
	var val string
	var found bool

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(namespace))
		if b == nil {
			return nil
		}

		v := b.Get([]byte(key))
		if v != nil {
			val = string(v)
			found = true
		}

		return nil
	})

	return val, found, err
}

// Put stores a value in the store.
func (s *BoltStore) Put(_ context.Context, namespace, key, value string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(namespace))
		if err != nil {
			return err
		}

		return b.Put([]byte(key), []byte(value))
	})
}

// Delete removes a value from the store.
func (s *BoltStore) Delete(_ context.Context, namespace, key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(namespace))
		if b == nil {
			return nil
		}

		return b.Delete([]byte(key))
	})
}

// Clear drops the namespace bucket, returning how many keys it held.
func (s *BoltStore) Clear(_ context.Context, namespace string) (int, error) {
	count := 0

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(namespace))
		if b == nil {
			return nil
		}

		count = b.Stats().KeyN

		return tx.DeleteBucket([]byte(namespace))
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// ClearPrefix deletes all keys starting with the given prefix.
func (s *BoltStore) ClearPrefix(_ context.Context, namespace, prefix string) (int, error) {
	count := 0

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(namespace))
		if b == nil {
			return nil
		}

		c := b.Cursor()
		prefixBytes := []byte(prefix)

		for k, _ := c.Seek(prefixBytes); k != nil && bytes.HasPrefix(k, prefixBytes); k, _ = c.Next() {
			err := c.Delete()
			if err != nil {
				return err
			}

			count++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
