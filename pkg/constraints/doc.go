// Package constraints checks what may be placed in what.
//
// A container restricts its items with a Precondition, exposed through the
// PreconditionProvider interface. An object restricts the containers it may
// be placed in with a ContainerConstraint, exposed through
// ContainerConstrained. Types are ordinary Go types: an interface type is
// satisfied by any value implementing it, a concrete type only by values of
// exactly that type.
//
//	type Buddy interface{ Buddy() }
//	type BuddyFolder struct{ *container.Container }
//
//	func (BuddyFolder) ItemPrecondition() constraints.Precondition {
//	    return constraints.Contains(reflect.TypeFor[Buddy]())
//	}
//
// CheckObject validates an existing object; CheckFactory validates what a
// factory would produce without building it.
package constraints
