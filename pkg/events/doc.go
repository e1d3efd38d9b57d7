// Package events delivers containment events to registered handlers.
//
// A Dispatcher is a types.Notifier: containers are given one at construction
// and call Notify for every Added, Moved, Removed and ContainerModified event.
// Delivery is synchronous and in registration order. The first handler error
// stops delivery and is returned unchanged to the container, which returns it
// to the caller of the mutating operation.
//
//	d := events.NewDispatcher()
//	d.Subscribe(types.EventAdded, func(subject any, ev types.Event) error {
//	    fmt.Println("added", ev.NewName)
//	    return nil
//	})
//	c := container.New(container.WithNotifier(d))
package events
