package memory

import (
	"iter"

	"github.com/google/btree"

	"github.com/mesh-intelligence/cabinet/pkg/types"
)

// degree is the B-tree branching factor.
const degree = 32

type entry struct {
	key   string
	value any
}

func lessEntry(a, b entry) bool { return a.key < b.key }

// Store is an ordered key/value store backed by a B-tree.
// It implements types.Store.
type Store struct {
	tree *btree.BTreeG[entry]
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{tree: btree.NewG(degree, lessEntry)}
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (any, bool) {
	e, ok := s.tree.Get(entry{key: key})
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key.
func (s *Store) Set(key string, value any) error {
	s.tree.ReplaceOrInsert(entry{key: key, value: value})
	return nil
}

// Delete removes key, returning ErrNotFound when it is absent.
func (s *Store) Delete(key string) error {
	if _, ok := s.tree.Delete(entry{key: key}); !ok {
		return types.NotFound(key)
	}
	return nil
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	return s.tree.Has(entry{key: key})
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return s.tree.Len()
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.tree.Clear(false)
}

// Keys returns the keys from the first key >= from.
func (s *Store) Keys(from string) iter.Seq[string] {
	return func(yield func(string) bool) {
		s.ascend(from, func(e entry) bool { return yield(e.key) })
	}
}

// Values returns the values from the first key >= from.
func (s *Store) Values(from string) iter.Seq[any] {
	return func(yield func(any) bool) {
		s.ascend(from, func(e entry) bool { return yield(e.value) })
	}
}

// Items returns the key/value pairs from the first key >= from.
func (s *Store) Items(from string) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		s.ascend(from, func(e entry) bool { return yield(e.key, e.value) })
	}
}

func (s *Store) ascend(from string, fn func(entry) bool) {
	if from == "" {
		s.tree.Ascend(fn)
		return
	}
	s.tree.AscendGreaterOrEqual(entry{key: from}, fn)
}

var _ types.Store = (*Store)(nil)
