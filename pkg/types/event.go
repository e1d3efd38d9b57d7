package types

import "fmt"

// EventKind names a containment event.
type EventKind int

// Event kinds. Added and Removed are specialised moves; ContainerModified is
// a specialised modification.
const (
	EventMoved EventKind = iota + 1
	EventAdded
	EventRemoved
	EventModified
	EventContainerModified
)

var eventKindNames = map[EventKind]string{
	EventMoved:             "moved",
	EventAdded:             "added",
	EventRemoved:           "removed",
	EventModified:          "modified",
	EventContainerModified: "container-modified",
}

// String returns the kind's lower-case name.
func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event describes a change in containment. For Added, Moved and Removed the
// Object is the child whose placement changed; for ContainerModified it is
// the container whose membership or order changed.
type Event struct {
	Kind      EventKind
	Object    any
	OldParent any
	OldName   string
	NewParent any
	NewName   string
}

// Is reports whether the event is of the given kind or a specialisation of
// it: an Added event is also a Moved event.
func (e Event) Is(kind EventKind) bool {
	if e.Kind == kind {
		return true
	}
	switch kind {
	case EventMoved:
		return e.Kind == EventAdded || e.Kind == EventRemoved
	case EventModified:
		return e.Kind == EventContainerModified
	}
	return false
}

// String renders the event for logs.
func (e Event) String() string {
	switch e.Kind {
	case EventAdded:
		return fmt.Sprintf("%s %q", e.Kind, e.NewName)
	case EventRemoved:
		return fmt.Sprintf("%s %q", e.Kind, e.OldName)
	case EventMoved:
		return fmt.Sprintf("%s %q -> %q", e.Kind, e.OldName, e.NewName)
	}
	return e.Kind.String()
}

// NewAdded returns an Added event for obj placed at (parent, name).
func NewAdded(obj, parent any, name string) Event {
	return Event{Kind: EventAdded, Object: obj, NewParent: parent, NewName: name}
}

// NewMoved returns a Moved event.
func NewMoved(obj, oldParent any, oldName string, newParent any, newName string) Event {
	return Event{
		Kind:      EventMoved,
		Object:    obj,
		OldParent: oldParent,
		OldName:   oldName,
		NewParent: newParent,
		NewName:   newName,
	}
}

// NewRemoved returns a Removed event for obj taken out of (parent, name).
func NewRemoved(obj, parent any, name string) Event {
	return Event{Kind: EventRemoved, Object: obj, OldParent: parent, OldName: name}
}

// NewContainerModified returns a ContainerModified event for container.
func NewContainerModified(container any) Event {
	return Event{Kind: EventContainerModified, Object: container}
}

// Notifier receives containment events synchronously. A returned error
// aborts the operation that produced the event and surfaces to its caller.
type Notifier interface {
	Notify(event Event) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(event Event) error

// Notify calls f.
func (f NotifierFunc) Notify(event Event) error {
	if f == nil {
		return nil
	}
	return f(event)
}

// Discard is a Notifier that drops every event.
var Discard Notifier = NotifierFunc(func(Event) error { return nil })
