package types

import "iter"

// ReadContainer is the read side of a container.
type ReadContainer interface {
	Get(key string) (any, error)
	GetOr(key string, def any) any
	Has(key string) bool
	Len() int
	Keys() iter.Seq[string]
	Values() iter.Seq[any]
	Items() iter.Seq2[string, any]
}

// WriteContainer is the write side of a container.
type WriteContainer interface {
	Set(key string, obj any) error
	Delete(key string) error
}

// Container is the full container capability. Objects that do not satisfy
// it cannot hold items.
type Container interface {
	ReadContainer
	WriteContainer
}

// RangeContainer adds key-range iteration to Container.
type RangeContainer interface {
	Container
	KeysFrom(from string) iter.Seq[string]
	ValuesFrom(from string) iter.Seq[any]
	ItemsFrom(from string) iter.Seq2[string, any]
}

// OrderedContainer keeps an explicit presentation order.
type OrderedContainer interface {
	RangeContainer
	UpdateOrder(order []string) error
}

// ReservedNamer is implemented by containers that reserve names which may
// not be used for items.
type ReservedNamer interface {
	ReservedNames() []string
}
