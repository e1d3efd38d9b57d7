package container

import (
	"github.com/mesh-intelligence/cabinet/pkg/types"
)

// ContainedEvent places obj in container under name and returns the object
// to store (obj itself, or a Proxy around it) together with the event the
// change produces. The event is nil when obj is already at (container, name).
//
// It fails with ErrCyclicContainment when obj is container or one of its
// ancestors.
func ContainedEvent(obj, container any, name string) (any, *types.Event, error) {
	if err := types.CheckCycle(container, obj); err != nil {
		return nil, nil, err
	}

	var loc types.Locatable
	switch o := obj.(type) {
	case types.Containable:
		if types.IsNil(o) {
			break
		}
		if !o.IsContained() {
			o.MarkContained()
		}
		loc = o
	case types.Locatable:
		if !types.IsNil(o) {
			loc = o
		}
	}
	if loc == nil {
		p := NewProxy(obj)
		loc, obj = p, p
	}

	oldParent, oldName := loc.Parent(), loc.Name()
	if types.Same(oldParent, container) && oldName == name {
		return obj, nil, nil
	}

	loc.SetLocation(container, name)

	var ev types.Event
	if types.IsNil(oldParent) || oldName == "" {
		ev = types.NewAdded(obj, container, name)
	} else {
		ev = types.NewMoved(obj, oldParent, oldName, container, name)
	}
	return obj, &ev, nil
}

// Contain is ContainedEvent without the event.
func Contain(obj, container any, name string) (any, error) {
	obj, _, err := ContainedEvent(obj, container, name)
	return obj, err
}

// Uncontained clears obj's location if it is still (container, name) and
// notifies a Removed event followed by ContainerModified. When obj has
// already been moved elsewhere only ContainerModified is sent, and nothing
// at all when obj carries no location.
func Uncontained(obj, container any, name string, n types.Notifier) error {
	if n == nil {
		n = types.Discard
	}
	loc, ok := obj.(types.Locatable)
	if !ok || types.IsNil(obj) {
		return nil
	}
	oldParent, oldName := loc.Parent(), loc.Name()

	if !types.Same(oldParent, container) || oldName != name {
		if !types.IsNil(oldParent) || oldName != "" {
			return n.Notify(types.NewContainerModified(container))
		}
		return nil
	}

	if err := n.Notify(types.NewRemoved(obj, oldParent, oldName)); err != nil {
		return err
	}
	loc.SetLocation(nil, "")
	return n.Notify(types.NewContainerModified(container))
}
