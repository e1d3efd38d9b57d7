package container

import (
	"fmt"
	"iter"
	"slices"

	"github.com/mesh-intelligence/cabinet/internal/memory"
	"github.com/mesh-intelligence/cabinet/pkg/constraints"
	"github.com/mesh-intelligence/cabinet/pkg/types"
)

// Ordered is a container whose Keys, Values and Items follow an explicit
// order instead of key order. New keys are appended. The order is saved to
// an OrderStore after every change.
//
// The set of keys in the order always equals the set of keys in the store
// once an operation returns, including when Set fails because an event
// handler refused the new item. The underlying Container is not reachable
// from outside, so every write goes through the order.
type Ordered struct {
	types.Contained

	base       *Container
	order      []string
	orderStore types.OrderStore
}

// NewOrdered returns an ordered container. The saved order is loaded from
// the OrderStore and reconciled with the store: unknown keys are dropped and
// stored keys missing from the order are appended in key order.
func NewOrdered(opts ...Option) (*Ordered, error) {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	c := newContainer(o)
	oc := &Ordered{base: c, orderStore: o.orderStore}
	c.owner = oc
	c.adopt()
	if oc.orderStore == nil {
		oc.orderStore = &memory.OrderList{}
	}

	saved, err := oc.orderStore.Load()
	if err != nil {
		return nil, fmt.Errorf("loading order: %w", err)
	}
	order, changed := reconcile(saved, c.store)
	oc.order = order
	if changed {
		if saved != nil {
			c.logger.Warn("order out of step with store, repaired",
				"container", c.id, "saved", len(saved), "stored", len(order))
		}
		if err := oc.orderStore.Save(order); err != nil {
			return nil, fmt.Errorf("saving order: %w", err)
		}
	}
	return oc, nil
}

func reconcile(saved []string, store types.Store) ([]string, bool) {
	order := make([]string, 0, store.Len())
	seen := make(map[string]bool, len(saved))
	changed := false
	for _, k := range saved {
		if seen[k] || !store.Has(k) {
			changed = true
			continue
		}
		seen[k] = true
		order = append(order, k)
	}
	for k := range store.Keys("") {
		if !seen[k] {
			seen[k] = true
			order = append(order, k)
			changed = true
		}
	}
	return order, changed
}

// ID returns the container's identifier.
func (o *Ordered) ID() string { return o.base.id }

// Store returns the backing store.
func (o *Ordered) Store() types.Store { return o.base.store }

// Get returns the object stored under key or a KeyError wrapping
// ErrNotFound.
func (o *Ordered) Get(key string) (any, error) { return o.base.Get(key) }

// GetOr returns the object stored under key, or def.
func (o *Ordered) GetOr(key string, def any) any { return o.base.GetOr(key, def) }

// Has reports whether key is in use.
func (o *Ordered) Has(key string) bool { return o.base.Has(key) }

// Len returns the number of items.
func (o *Ordered) Len() int { return o.base.Len() }

// KeysFrom iterates the keys at or after from, in key order.
func (o *Ordered) KeysFrom(from string) iter.Seq[string] { return o.base.KeysFrom(from) }

// ValuesFrom iterates the objects whose keys are at or after from, in key order.
func (o *Ordered) ValuesFrom(from string) iter.Seq[any] { return o.base.ValuesFrom(from) }

// ItemsFrom iterates the pairs whose keys are at or after from, in key order.
func (o *Ordered) ItemsFrom(from string) iter.Seq2[string, any] { return o.base.ItemsFrom(from) }

// ItemPrecondition returns the declared item precondition, or nil.
func (o *Ordered) ItemPrecondition() constraints.Precondition { return o.base.precondition }

// ContainerConstraint returns where o may be placed, or nil.
func (o *Ordered) ContainerConstraint() constraints.ContainerConstraint { return o.base.constraint }

// ReservedNames returns the names items may not use.
func (o *Ordered) ReservedNames() []string { return o.base.ReservedNames() }

// Order returns a copy of the current order.
func (o *Ordered) Order() []string { return slices.Clone(o.order) }

// Keys iterates the keys in order.
func (o *Ordered) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for k := range o.Items() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values iterates the objects in order.
func (o *Ordered) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range o.Items() {
			if !yield(v) {
				return
			}
		}
	}
}

// Items iterates key/object pairs in order. Keys removed during the
// iteration are skipped.
func (o *Ordered) Items() iter.Seq2[string, any] {
	order := slices.Clone(o.order)
	return func(yield func(string, any) bool) {
		for _, k := range order {
			v, ok := o.base.store.Get(k)
			if !ok {
				continue
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

// Sublocations returns the stored objects in order.
func (o *Ordered) Sublocations() []any {
	return slices.Collect(o.Values())
}

// Set stores obj under key like Container.Set and appends new keys to the
// order. The key is in the order while Added and ContainerModified are
// notified. If Set fails for a new key, the key leaves the order and the
// store again and obj gets back its previous location; the failure is
// returned unchanged. A failure to save the order counts as a failure of
// Set and is rolled back the same way, although the events have been sent.
func (o *Ordered) Set(key string, obj any) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}

	existed := o.base.store.Has(key)
	oldParent, oldName, _ := types.LocationOf(obj)
	if !existed {
		o.order = append(o.order, key)
	}
	err = o.base.set(key, obj)
	if existed {
		return err
	}
	if err == nil {
		err = o.save()
	}
	if err != nil {
		o.removeFromOrder(key)
		o.base.discard(key, oldParent, oldName)
	}
	return err
}

// Delete removes key like Container.Delete and drops it from the order. An
// error saving the order is returned after the item has been removed.
func (o *Ordered) Delete(key string) error {
	k := canonical(key)
	if err := o.base.Delete(k); err != nil {
		return err
	}
	o.removeFromOrder(k)
	return o.save()
}

// Clear deletes every item, in order.
func (o *Ordered) Clear() error {
	for _, k := range o.Order() {
		if err := o.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// UpdateOrder replaces the order. order must hold exactly the current keys,
// each once; otherwise it fails with ErrOrderMismatch and nothing changes.
// Only ContainerModified is notified.
func (o *Ordered) UpdateOrder(order []string) error {
	if len(order) != len(o.order) {
		return fmt.Errorf("%w: got %d keys, have %d", types.ErrOrderMismatch, len(order), len(o.order))
	}
	next := make([]string, len(order))
	seen := make(map[string]bool, len(order))
	for i, k := range order {
		k = canonical(k)
		if seen[k] {
			return fmt.Errorf("%w: duplicate key %q", types.ErrOrderMismatch, k)
		}
		if !o.base.store.Has(k) {
			return fmt.Errorf("%w: unknown key %q", types.ErrOrderMismatch, k)
		}
		seen[k] = true
		next[i] = k
	}

	o.order = next
	if err := o.save(); err != nil {
		return err
	}
	o.base.logger.Debug("order updated", "container", o.base.id, "keys", len(next))
	return o.base.notifier.Notify(types.NewContainerModified(o))
}

func (o *Ordered) removeFromOrder(key string) {
	if i := slices.Index(o.order, key); i >= 0 {
		o.order = slices.Delete(o.order, i, i+1)
	}
}

// save persists the order. On failure the in-memory state stands and the
// stored order is repaired the next time it is loaded.
func (o *Ordered) save() error {
	if err := o.orderStore.Save(o.order); err != nil {
		return fmt.Errorf("saving order: %w", err)
	}
	return nil
}

// NameChooser returns a NameChooser for o.
func (o *Ordered) NameChooser() *NameChooser { return NewNameChooser(o) }

var (
	_ types.OrderedContainer           = (*Ordered)(nil)
	_ types.Sublocations               = (*Ordered)(nil)
	_ types.Containable                = (*Ordered)(nil)
	_ types.ReservedNamer              = (*Ordered)(nil)
	_ constraints.PreconditionProvider = (*Ordered)(nil)
	_ constraints.ContainerConstrained = (*Ordered)(nil)
)
