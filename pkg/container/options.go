package container

import (
	"log/slog"

	"github.com/mesh-intelligence/cabinet/pkg/constraints"
	"github.com/mesh-intelligence/cabinet/pkg/types"
)

// Option configures a Container or an Ordered container.
type Option func(*options)

type options struct {
	id           string
	store        types.Store
	orderStore   types.OrderStore
	notifier     types.Notifier
	logger       *slog.Logger
	precondition constraints.Precondition
	constraint   constraints.ContainerConstraint
	checking     bool
	reserved     []string
}

// WithStore sets the backing store. The default is an empty in-memory
// B-tree.
func WithStore(s types.Store) Option {
	return func(o *options) { o.store = s }
}

// WithOrderStore sets where an Ordered container persists its order. The
// default keeps it in memory.
func WithOrderStore(s types.OrderStore) Option {
	return func(o *options) { o.orderStore = s }
}

// WithNotifier sets the event sink. The default discards events.
func WithNotifier(n types.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithLogger sets the logger for mutation traces. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithPrecondition declares what the container accepts as items. Setting a
// precondition turns on constraint checking.
func WithPrecondition(p constraints.Precondition) Option {
	return func(o *options) {
		o.precondition = p
		o.checking = o.checking || p != nil
	}
}

// WithContainerConstraint declares where the container itself may be placed.
func WithContainerConstraint(c constraints.ContainerConstraint) Option {
	return func(o *options) { o.constraint = c }
}

// WithConstraintChecking runs constraints.CheckObject on every new item,
// even when the container declares no precondition.
func WithConstraintChecking() Option {
	return func(o *options) { o.checking = true }
}

// WithReservedNames sets names that CheckName and ChooseName refuse.
func WithReservedNames(names ...string) Option {
	return func(o *options) { o.reserved = append(o.reserved, names...) }
}

// WithID fixes the container ID instead of generating one.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}
