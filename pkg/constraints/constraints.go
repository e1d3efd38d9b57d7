package constraints

import (
	"errors"
	"reflect"

	"github.com/mesh-intelligence/cabinet/pkg/types"
)

// Precondition validates a prospective (container, name, object) insertion.
type Precondition interface {
	Check(container any, name string, obj any) error
}

// FactoryPrecondition is a Precondition that can also judge a factory.
// Preconditions without it are ignored by CheckFactory.
type FactoryPrecondition interface {
	Precondition
	CheckFactory(container any, name string, f Factory) error
}

// PreconditionFunc adapts a function to Precondition.
type PreconditionFunc func(container any, name string, obj any) error

// Check calls f.
func (f PreconditionFunc) Check(container any, name string, obj any) error {
	return f(container, name, obj)
}

// PreconditionProvider is implemented by containers that restrict their items.
type PreconditionProvider interface {
	ItemPrecondition() Precondition
}

// ContainerConstraint validates the container an object is placed in.
type ContainerConstraint interface {
	Validate(container any) error
}

// ContainerConstrained is implemented by objects (and factories) that restrict
// the containers they may be placed in.
type ContainerConstrained interface {
	ContainerConstraint() ContainerConstraint
}

// Factory produces objects of a known type.
type Factory interface {
	New() any
	Produces() reflect.Type
}

// ErrInvalid marks a constraint violation reported by a custom precondition.
var ErrInvalid = errors.New("constraint not satisfied")

// ItemTypes is a FactoryPrecondition that accepts items of the listed types.
type ItemTypes struct {
	types []reflect.Type
}

// Contains returns a precondition accepting only items of the given types.
func Contains(ts ...reflect.Type) *ItemTypes {
	return &ItemTypes{types: ts}
}

// Types returns the accepted types.
func (p *ItemTypes) Types() []reflect.Type { return p.types }

// Check returns an *InvalidItemTypeError unless obj is of one of the types.
func (p *ItemTypes) Check(container any, _ string, obj any) error {
	for _, t := range p.types {
		if Provides(obj, t) {
			return nil
		}
	}
	return &types.InvalidItemTypeError{Container: container, Object: obj, Allowed: p.types}
}

// CheckFactory returns an *InvalidItemTypeError unless the factory produces
// one of the types.
func (p *ItemTypes) CheckFactory(container any, _ string, f Factory) error {
	produced := f.Produces()
	for _, t := range p.types {
		if TypeProvides(produced, t) {
			return nil
		}
	}
	return &types.InvalidItemTypeError{Container: container, Object: f, Allowed: p.types}
}

// ContainerTypes is a ContainerConstraint accepting containers of the listed
// types.
type ContainerTypes struct {
	types []reflect.Type
}

// Containers returns a constraint accepting only containers of the given types.
func Containers(ts ...reflect.Type) *ContainerTypes {
	return &ContainerTypes{types: ts}
}

// Types returns the accepted types.
func (c *ContainerTypes) Types() []reflect.Type { return c.types }

// Validate returns an *InvalidContainerTypeError unless container is of one
// of the types.
func (c *ContainerTypes) Validate(container any) error {
	for _, t := range c.types {
		if Provides(container, t) {
			return nil
		}
	}
	return &types.InvalidContainerTypeError{Container: container, Allowed: c.types}
}

// Provides reports whether obj is of type t. Proxies are looked through.
func Provides(obj any, t reflect.Type) bool {
	if obj == nil {
		return false
	}
	if TypeProvides(reflect.TypeOf(obj), t) {
		return true
	}
	if u, ok := obj.(interface{ Unwrap() any }); ok {
		return Provides(u.Unwrap(), t)
	}
	return false
}

// TypeProvides reports whether values of type have satisfy t.
func TypeProvides(have, t reflect.Type) bool {
	if have == nil || t == nil {
		return false
	}
	if t.Kind() == reflect.Interface {
		return have.Implements(t)
	}
	return have == t
}

// CheckObject validates placing obj in container under name. It checks, in
// order: the container's item precondition, that obj is neither the
// container nor one of its ancestors, the object's container constraint, and
// that container is a types.Container at all. It returns nil on success.
func CheckObject(container any, name string, obj any) error {
	if p, ok := container.(PreconditionProvider); ok {
		if pre := p.ItemPrecondition(); pre != nil {
			if err := pre.Check(container, name, obj); err != nil {
				return err
			}
		}
	}

	if err := types.CheckCycle(container, obj); err != nil {
		return err
	}

	if c, ok := obj.(ContainerConstrained); ok {
		if con := c.ContainerConstraint(); con != nil {
			if err := con.Validate(container); err != nil {
				return err
			}
		}
	}

	if _, ok := container.(types.Container); !ok {
		return types.ErrNotContainer
	}
	return nil
}

// CheckFactory reports whether objects produced by f may be placed in
// container under name. A refusal is an expected outcome, so it is reported
// as false rather than as an error.
func CheckFactory(container any, name string, f Factory) bool {
	if p, ok := container.(PreconditionProvider); ok {
		if pre, ok := p.ItemPrecondition().(FactoryPrecondition); ok {
			if err := pre.CheckFactory(container, name, f); err != nil {
				return false
			}
		}
	}

	if con := factoryConstraint(f); con != nil {
		if err := con.Validate(container); err != nil {
			return false
		}
	}
	return true
}

// factoryConstraint returns the container constraint declared by the factory
// itself or, failing that, by the type it produces. The produced type is
// consulted through a fresh zero value; the factory is never invoked.
func factoryConstraint(f Factory) ContainerConstraint {
	if c, ok := f.(ContainerConstrained); ok {
		return c.ContainerConstraint()
	}
	produced := f.Produces()
	if produced == nil || !produced.Implements(reflect.TypeFor[ContainerConstrained]()) {
		return nil
	}
	var zero reflect.Value
	if produced.Kind() == reflect.Pointer {
		zero = reflect.New(produced.Elem())
	} else {
		zero = reflect.New(produced).Elem()
	}
	return zero.Interface().(ContainerConstrained).ContainerConstraint()
}
