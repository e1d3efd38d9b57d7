// Package container implements hierarchical, event-emitting containers.
//
// A Container maps unique names to objects and keeps every stored object's
// location (parent and name) in step with its membership. Writes never
// overwrite: assigning a different object to a used key fails, assigning the
// same object again does nothing. Every change of membership is reported to
// the container's types.Notifier as an Added, Moved or Removed event
// followed by a ContainerModified event for the container.
//
// Objects that do not carry location metadata are wrapped in a Proxy before
// they are stored.
//
// Ordered adds an explicit presentation order to a Container. The order is
// kept consistent with the stored keys even when an event handler fails
// halfway through an insertion.
//
// None of the types in this package lock. Callers serialise access.
package container
