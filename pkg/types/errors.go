package types

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Key and name errors.
var (
	ErrInvalidKey   = errors.New("invalid key")
	ErrNotFound     = errors.New("key not found")
	ErrKeyConflict  = errors.New("key already in use")
	ErrNameReserved = errors.New("name is reserved")
)

// Containment errors.
var (
	ErrCyclicContainment    = errors.New("cannot add an object to itself or its children")
	ErrInvalidItemType      = errors.New("invalid item type")
	ErrInvalidContainerType = errors.New("invalid container type")
	ErrNotContainer         = errors.New("not a valid container")
	ErrOrderMismatch        = errors.New("new order must contain exactly the existing keys")
)

// Backend errors.
var (
	ErrDetached        = errors.New("backend is not attached")
	ErrAlreadyAttached = errors.New("backend is already attached")
	ErrInvalidBucket   = errors.New("invalid bucket name")
)

// KeyError reports a failed lookup or a refused overwrite for a key. It
// unwraps to ErrNotFound or ErrKeyConflict.
type KeyError struct {
	Key string
	Err error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%s: %q", e.Err, e.Key)
}

func (e *KeyError) Unwrap() error { return e.Err }

// NotFound returns a KeyError wrapping ErrNotFound.
func NotFound(key string) error {
	return &KeyError{Key: key, Err: ErrNotFound}
}

// Conflict returns a KeyError wrapping ErrKeyConflict.
func Conflict(key string) error {
	return &KeyError{Key: key, Err: ErrKeyConflict}
}

// InvalidItemTypeError is raised by an item-type precondition. Object is the
// refused item (or factory); Allowed lists the accepted types.
type InvalidItemTypeError struct {
	Container any
	Object    any
	Allowed   []reflect.Type
}

func (e *InvalidItemTypeError) Error() string {
	return fmt.Sprintf("%s: %T is not one of [%s]", ErrInvalidItemType, e.Object, typeNames(e.Allowed))
}

func (e *InvalidItemTypeError) Unwrap() error { return ErrInvalidItemType }

// InvalidContainerTypeError is raised by a container-type constraint.
type InvalidContainerTypeError struct {
	Container any
	Allowed   []reflect.Type
}

func (e *InvalidContainerTypeError) Error() string {
	return fmt.Sprintf("%s: %T is not one of [%s]", ErrInvalidContainerType, e.Container, typeNames(e.Allowed))
}

func (e *InvalidContainerTypeError) Unwrap() error { return ErrInvalidContainerType }

func typeNames(ts []reflect.Type) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}
