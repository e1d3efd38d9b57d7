package container

import (
	"iter"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/cabinet/internal/memory"
	"github.com/mesh-intelligence/cabinet/pkg/constraints"
	"github.com/mesh-intelligence/cabinet/pkg/types"
)

// Container maps names to located objects over a types.Store. Iteration
// follows key order. A Container can itself be stored in another container.
type Container struct {
	types.Contained

	id           string
	store        types.Store
	notifier     types.Notifier
	logger       *slog.Logger
	precondition constraints.Precondition
	constraint   constraints.ContainerConstraint
	checking     bool
	reserved     []string

	// owner is the value reported as parent and event subject; an Ordered
	// container points it at itself.
	owner any

	// length caches the item count. It is loaded from the store on first
	// use, always before a write, and maintained by Set and Delete after.
	length *int
}

// New returns an empty container, or one over the items already held by the
// store passed with WithStore.
func New(opts ...Option) *Container {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	c := newContainer(o)
	c.adopt()
	return c
}

func newContainer(o options) *Container {
	c := &Container{
		id:           o.id,
		store:        o.store,
		notifier:     o.notifier,
		logger:       o.logger,
		precondition: o.precondition,
		constraint:   o.constraint,
		checking:     o.checking,
		reserved:     slices.Clone(o.reserved),
	}
	if c.id == "" {
		c.id = newID()
	}
	if c.store == nil {
		c.store = memory.NewStore()
	}
	if c.notifier == nil {
		c.notifier = types.Discard
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	c.owner = c
	return c
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// adopt gives items already in the store their location in c, wrapping
// values without location metadata. No events are sent.
func (c *Container) adopt() {
	var plain []string
	for k, v := range c.store.Items("") {
		loc, ok := v.(types.Locatable)
		if !ok || types.IsNil(v) {
			plain = append(plain, k)
			continue
		}
		if !types.Same(loc.Parent(), c.owner) || loc.Name() != k {
			loc.SetLocation(c.owner, k)
		}
	}
	for _, k := range plain {
		v, _ := c.store.Get(k)
		p := NewProxy(v)
		p.SetLocation(c.owner, k)
		if err := c.store.Set(k, p); err != nil {
			c.logger.Warn("cannot wrap stored value", "container", c.id, "key", k, "error", err)
		}
	}
}

// ID returns the container's identifier.
func (c *Container) ID() string { return c.id }

// Store returns the backing store.
func (c *Container) Store() types.Store { return c.store }

// Get returns the object stored under key or a KeyError wrapping
// ErrNotFound.
func (c *Container) Get(key string) (any, error) {
	if v, ok := c.store.Get(canonical(key)); ok {
		return v, nil
	}
	return nil, types.NotFound(key)
}

// GetOr returns the object stored under key, or def.
func (c *Container) GetOr(key string, def any) any {
	if v, ok := c.store.Get(canonical(key)); ok {
		return v
	}
	return def
}

// Has reports whether key is in use.
func (c *Container) Has(key string) bool {
	return c.store.Has(canonical(key))
}

// Len returns the number of items.
func (c *Container) Len() int {
	return *c.count()
}

func (c *Container) count() *int {
	if c.length == nil {
		n := c.store.Len()
		c.length = &n
	}
	return c.length
}

// Keys iterates the keys in key order.
func (c *Container) Keys() iter.Seq[string] { return c.store.Keys("") }

// Values iterates the objects in key order.
func (c *Container) Values() iter.Seq[any] { return c.store.Values("") }

// Items iterates key/object pairs in key order.
func (c *Container) Items() iter.Seq2[string, any] { return c.store.Items("") }

// KeysFrom iterates the keys at or after from.
func (c *Container) KeysFrom(from string) iter.Seq[string] { return c.store.Keys(canonical(from)) }

// ValuesFrom iterates the objects whose keys are at or after from.
func (c *Container) ValuesFrom(from string) iter.Seq[any] { return c.store.Values(canonical(from)) }

// ItemsFrom iterates the pairs whose keys are at or after from.
func (c *Container) ItemsFrom(from string) iter.Seq2[string, any] {
	return c.store.Items(canonical(from))
}

// Set stores obj under key and gives it the location (c, key). Storing the
// object already held under key does nothing; storing a different one fails
// with a KeyError wrapping ErrKeyConflict. Objects without location metadata
// are stored wrapped in a Proxy.
//
// A new placement notifies Added or Moved, then ContainerModified. A failing
// notifier aborts Set with the item already stored.
func (c *Container) Set(key string, obj any) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	return c.set(key, obj)
}

func (c *Container) set(key string, obj any) error {
	if old, ok := c.store.Get(key); ok {
		if types.Same(old, obj) {
			return nil
		}
		return types.Conflict(key)
	}

	if c.checking {
		if err := constraints.CheckObject(c.owner, key, obj); err != nil {
			return err
		}
	}

	oldParent, oldName, _ := types.LocationOf(obj)
	stored, ev, err := ContainedEvent(obj, c.owner, key)
	if err != nil {
		return err
	}
	n := c.count()
	if err := c.store.Set(key, stored); err != nil {
		if ev != nil {
			stored.(types.Locatable).SetLocation(oldParent, oldName)
		}
		return err
	}
	*n++

	c.logger.Debug("item stored", "container", c.id, "key", key)
	if ev == nil {
		return nil
	}
	if err := c.notifier.Notify(*ev); err != nil {
		return err
	}
	return c.notifier.Notify(types.NewContainerModified(c.owner))
}

// Delete removes the object stored under key, clears its location and
// notifies Removed then ContainerModified. A missing key is a KeyError
// wrapping ErrNotFound.
func (c *Container) Delete(key string) error {
	k := canonical(key)
	obj, ok := c.store.Get(k)
	if !ok {
		return types.NotFound(key)
	}
	if err := Uncontained(obj, c.owner, k, c.notifier); err != nil {
		return err
	}
	n := c.count()
	if err := c.store.Delete(k); err != nil {
		return err
	}
	*n--

	c.logger.Debug("item deleted", "container", c.id, "key", k)
	return nil
}

// Clear deletes every item, in iteration order.
func (c *Container) Clear() error {
	for _, k := range slices.Collect(c.Keys()) {
		if err := c.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// discard undoes a Set of key whose notification failed: the item leaves
// the store without events and gets back its previous location.
func (c *Container) discard(key string, oldParent any, oldName string) {
	stored, ok := c.store.Get(key)
	if !ok {
		return
	}
	n := c.count()
	if err := c.store.Delete(key); err != nil {
		c.logger.Warn("rollback failed", "container", c.id, "key", key, "error", err)
		return
	}
	*n--
	if loc, ok := stored.(types.Locatable); ok && types.Same(loc.Parent(), c.owner) && loc.Name() == key {
		loc.SetLocation(oldParent, oldName)
	}
	c.logger.Debug("item rolled back", "container", c.id, "key", key)
}

// Sublocations returns the stored objects so that events moving c reach
// its contents.
func (c *Container) Sublocations() []any {
	return slices.Collect(c.Values())
}

// ItemPrecondition returns the declared item precondition, or nil.
func (c *Container) ItemPrecondition() constraints.Precondition { return c.precondition }

// ContainerConstraint returns where c may be placed, or nil.
func (c *Container) ContainerConstraint() constraints.ContainerConstraint { return c.constraint }

// ReservedNames returns the names items may not use.
func (c *Container) ReservedNames() []string { return slices.Clone(c.reserved) }

// NameChooser returns a NameChooser for c.
func (c *Container) NameChooser() *NameChooser { return NewNameChooser(c) }

var (
	_ types.RangeContainer             = (*Container)(nil)
	_ types.Containable                = (*Container)(nil)
	_ types.Sublocations               = (*Container)(nil)
	_ types.ReservedNamer              = (*Container)(nil)
	_ constraints.PreconditionProvider = (*Container)(nil)
	_ constraints.ContainerConstrained = (*Container)(nil)
)
