package sqlite

import (
	"fmt"
	"iter"

	"github.com/mesh-intelligence/cabinet/internal/memory"
	"github.com/mesh-intelligence/cabinet/pkg/container"
	"github.com/mesh-intelligence/cabinet/pkg/types"
)

// Store is a types.Store over one bucket. Reads are served from an
// in-memory index loaded when the bucket is opened; writes go to the
// database first and to the index once they succeeded.
type Store struct {
	backend *Backend
	bucket  string
	index   *memory.Store
}

func newStore(b *Backend, bucket string) *Store {
	return &Store{backend: b, bucket: bucket, index: memory.NewStore()}
}

// load fills the index from the database. The caller must hold the backend
// lock.
func (s *Store) load() error {
	rows, err := s.backend.db.Query(`SELECT key, value FROM entries WHERE bucket = ? ORDER BY key`, s.bucket)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var data []byte
		if err := rows.Scan(&key, &data); err != nil {
			return err
		}
		v, err := s.backend.codec.Decode(data)
		if err != nil {
			return fmt.Errorf("entry %q: %w", key, err)
		}
		if _, ok := v.(types.Locatable); !ok {
			v = container.NewProxy(v)
		}
		if err := s.index.Set(key, v); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Bucket returns the bucket name.
func (s *Store) Bucket() string { return s.bucket }

// Get returns the value stored under key.
func (s *Store) Get(key string) (any, bool) { return s.index.Get(key) }

// Has reports whether key is stored.
func (s *Store) Has(key string) bool { return s.index.Has(key) }

// Len returns the number of entries.
func (s *Store) Len() int { return s.index.Len() }

// Keys iterates keys at or after from in key order.
func (s *Store) Keys(from string) iter.Seq[string] { return s.index.Keys(from) }

// Values iterates values whose keys are at or after from.
func (s *Store) Values(from string) iter.Seq[any] { return s.index.Values(from) }

// Items iterates pairs whose keys are at or after from.
func (s *Store) Items(from string) iter.Seq2[string, any] { return s.index.Items(from) }

// Set encodes value and writes it under key, replacing any previous value.
func (s *Store) Set(key string, value any) error {
	data, err := s.backend.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("entry %q: %w", key, err)
	}
	err = s.backend.exec(`INSERT INTO entries (bucket, key, value, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT (bucket, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.bucket, key, data, now())
	if err != nil {
		return fmt.Errorf("writing entry %q: %w", key, err)
	}
	return s.index.Set(key, value)
}

// Delete removes key. A missing key is a KeyError wrapping ErrNotFound.
func (s *Store) Delete(key string) error {
	if !s.index.Has(key) {
		return types.NotFound(key)
	}
	if err := s.backend.exec(`DELETE FROM entries WHERE bucket = ? AND key = ?`, s.bucket, key); err != nil {
		return fmt.Errorf("deleting entry %q: %w", key, err)
	}
	return s.index.Delete(key)
}

var _ types.Store = (*Store)(nil)
