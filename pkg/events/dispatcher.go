package events

import (
	"reflect"
	"slices"

	"github.com/mesh-intelligence/cabinet/pkg/types"
)

// Handler reacts to an event. subject is the object the event is being
// delivered for: the event's Object, or one of its sublocations.
type Handler func(subject any, ev types.Event) error

// Filter restricts a subscription to subjects it accepts.
type Filter func(subject any) bool

// Provides returns a Filter accepting subjects whose dynamic type is t or,
// when t is an interface type, implements it.
func Provides(t reflect.Type) Filter {
	return func(subject any) bool {
		if subject == nil {
			return false
		}
		st := reflect.TypeOf(subject)
		if t.Kind() == reflect.Interface {
			return st.Implements(t)
		}
		return st == t
	}
}

// ProvidesType is Provides for a type parameter.
func ProvidesType[T any]() Filter {
	return Provides(reflect.TypeFor[T]())
}

type subscription struct {
	id      uint64
	kind    types.EventKind
	handler Handler
	filters []Filter
}

func (s subscription) matches(subject any, ev types.Event) bool {
	if s.kind != 0 && !ev.Is(s.kind) {
		return false
	}
	for _, f := range s.filters {
		if !f(subject) {
			return false
		}
	}
	return true
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSublocations makes the dispatcher forward Moved events (including adds
// and removes) for an object to every object it contains, recursively.
func WithSublocations() Option {
	return func(d *Dispatcher) { d.sublocations = true }
}

// Dispatcher is a synchronous, in-order event fan-out. It is not safe for
// concurrent use; containers assume a single writer.
type Dispatcher struct {
	subs         []subscription
	nextID       uint64
	sublocations bool
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Subscribe registers handler for events of kind (0 means every kind) whose
// subject passes all filters. It returns a function that removes the
// subscription.
func (d *Dispatcher) Subscribe(kind types.EventKind, handler Handler, filters ...Filter) (unsubscribe func()) {
	d.nextID++
	id := d.nextID
	d.subs = append(d.subs, subscription{id: id, kind: kind, handler: handler, filters: filters})
	return func() {
		d.subs = slices.DeleteFunc(d.subs, func(s subscription) bool { return s.id == id })
	}
}

// Len returns the number of registered handlers.
func (d *Dispatcher) Len() int { return len(d.subs) }

// Notify delivers ev for its Object and, when enabled, for the Object's
// sublocations. It implements types.Notifier.
func (d *Dispatcher) Notify(ev types.Event) error {
	if err := d.Dispatch(ev.Object, ev); err != nil {
		return err
	}
	if d.sublocations && ev.Is(types.EventMoved) {
		return d.DispatchToSublocations(ev.Object, ev)
	}
	return nil
}

// Dispatch delivers ev to the handlers matching subject, in registration
// order, stopping at the first error.
func (d *Dispatcher) Dispatch(subject any, ev types.Event) error {
	// Handlers may subscribe or unsubscribe while we deliver.
	subs := slices.Clone(d.subs)
	for _, s := range subs {
		if !s.matches(subject, ev) {
			continue
		}
		if err := s.handler(subject, ev); err != nil {
			return err
		}
	}
	return nil
}

// DispatchToSublocations delivers ev to every object below obj, depth first.
func (d *Dispatcher) DispatchToSublocations(obj any, ev types.Event) error {
	subs, ok := obj.(types.Sublocations)
	if !ok {
		return nil
	}
	for _, sub := range subs.Sublocations() {
		if err := d.Dispatch(sub, ev); err != nil {
			return err
		}
		if err := d.DispatchToSublocations(sub, ev); err != nil {
			return err
		}
	}
	return nil
}
