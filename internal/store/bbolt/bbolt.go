// Package bbolt stores classified records in an embedded bbolt database.
// Each account gets its own bucket; records are JSON values keyed by a
// sequence-prefixed record ID so iteration returns them in save order.
package bbolt

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"topics/internal/domain"
)

var bucketIndex = []byte("_index")

// emptyAccount names the bucket of records saved without an account; bbolt
// rejects empty bucket names.
const emptyAccount = "\x00"

func bucketName(account string) []byte {
	if account == "" {
		return []byte(emptyAccount)
	}
	return []byte(account)
}

// Store implements domain.RecordStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes records for account in one transaction. A record whose ID was saved
// before keeps its position and is overwritten.
func (s *Store) Save(account string, records []domain.Record) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName(account))
		if err != nil {
			return err
		}
		idx, err := b.CreateBucketIfNotExists(bucketIndex)
		if err != nil {
			return err
		}
		for _, r := range records {
			if r.ID == "" {
				return errors.New("record without id")
			}
			val, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("marshal record %s: %w", r.ID, err)
			}
			key := idx.Get([]byte(r.ID))
			if key == nil {
				seq, err := b.NextSequence()
				if err != nil {
					return err
				}
				key = make([]byte, 8)
				binary.BigEndian.PutUint64(key, seq)
				if err := idx.Put([]byte(r.ID), key); err != nil {
					return err
				}
			} else {
				key = append([]byte(nil), key...)
			}
			if err := b.Put(key, val); err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns the records of account in save order; nil when none exist.
func (s *Store) List(account string) ([]domain.Record, error) {
	var out []domain.Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName(account))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			if v == nil {
				// nested index bucket
				return nil
			}
			var r domain.Record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("unmarshal record: %w", err)
			}
			out = append(out, r)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Accounts returns the names of all accounts with stored records.
func (s *Store) Accounts() ([]string, error) {
	var out []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			if string(name) == emptyAccount {
				out = append(out, "")
				return nil
			}
			out = append(out, string(name))
			return nil
		})
	})
	return out, err
}
