package container

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"sort"

	"github.com/mesh-intelligence/cabinet/pkg/types"
)

// ErrNotIndexable is returned by Proxy.Index for values that cannot be indexed.
var ErrNotIndexable = errors.New("value is not indexable")

// Proxy gives a value without location metadata a parent and a name. Reads
// (equality, length, indexing, iteration) go to the wrapped value; the
// location belongs to the proxy.
type Proxy struct {
	types.Contained
	value any
}

// NewProxy wraps v.
func NewProxy(v any) *Proxy {
	return &Proxy{value: v}
}

// Unwrap returns the wrapped value.
func (p *Proxy) Unwrap() any { return p.value }

// Equal reports whether the wrapped value deep-equals other. A Proxy
// argument is unwrapped first.
func (p *Proxy) Equal(other any) bool {
	if o, ok := other.(*Proxy); ok {
		other = o.value
	}
	return reflect.DeepEqual(p.value, other)
}

// String formats the wrapped value.
func (p *Proxy) String() string { return fmt.Sprint(p.value) }

// Len returns the length of a wrapped slice, array, map, string or channel,
// and 0 for anything else.
func (p *Proxy) Len() int {
	v := reflect.ValueOf(p.value)
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String, reflect.Chan:
		return v.Len()
	}
	return 0
}

// Index returns the element at key: an int position for slices, arrays and
// strings (a byte), a map key for maps.
func (p *Proxy) Index(key any) (any, error) {
	v := reflect.ValueOf(p.value)
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.String:
		i, ok := key.(int)
		if !ok {
			return nil, fmt.Errorf("%w: index %v is not an int", ErrNotIndexable, key)
		}
		if i < 0 || i >= v.Len() {
			return nil, fmt.Errorf("index %d out of range [0:%d]", i, v.Len())
		}
		return v.Index(i).Interface(), nil
	case reflect.Map:
		k := reflect.ValueOf(key)
		if !k.IsValid() || !k.Type().AssignableTo(v.Type().Key()) {
			return nil, fmt.Errorf("%w: key %v has the wrong type", ErrNotIndexable, key)
		}
		e := v.MapIndex(k)
		if !e.IsValid() {
			return nil, types.NotFound(fmt.Sprint(key))
		}
		return e.Interface(), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrNotIndexable, p.value)
}

// All iterates the wrapped value: (index, element) for slices, arrays and
// strings, (key, value) in key order for maps. Other values yield nothing.
func (p *Proxy) All() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		v := reflect.ValueOf(p.value)
		switch v.Kind() {
		case reflect.Slice, reflect.Array:
			for i := range v.Len() {
				if !yield(i, v.Index(i).Interface()) {
					return
				}
			}
		case reflect.String:
			for i, r := range v.String() {
				if !yield(i, r) {
					return
				}
			}
		case reflect.Map:
			keys := v.MapKeys()
			sort.Slice(keys, func(i, j int) bool {
				return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
			})
			for _, k := range keys {
				if !yield(k.Interface(), v.MapIndex(k).Interface()) {
					return
				}
			}
		}
	}
}

// Unwrap returns the value behind obj when obj is a Proxy, and obj otherwise.
func Unwrap(obj any) any {
	if p, ok := obj.(*Proxy); ok {
		return p.value
	}
	return obj
}
