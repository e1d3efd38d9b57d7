package types

import "iter"

// Store is the ordered key/value primitive a container is built on. Keys
// iterate in ascending order. Range sequences start at the first key greater
// than or equal to from ("" starts at the beginning); they are lazy and can
// be ranged over more than once.
type Store interface {
	// Get returns the value stored under key and whether it exists.
	Get(key string) (any, bool)

	// Set stores value under key, replacing any previous value.
	Set(key string, value any) error

	// Delete removes key. Returns ErrNotFound if the key is absent.
	Delete(key string) error

	// Has reports whether key is present.
	Has(key string) bool

	// Len returns the number of entries. Implementations may compute it by
	// scanning; containers cache it.
	Len() int

	Keys(from string) iter.Seq[string]
	Values(from string) iter.Seq[any]
	Items(from string) iter.Seq2[string, any]
}

// OrderStore persists the presentation order of an ordered container.
type OrderStore interface {
	// Load returns the saved order, or nil when none was saved.
	Load() ([]string, error)

	// Save replaces the saved order.
	Save(order []string) error
}
