package types

// Locatable is implemented by objects that carry their own placement: the
// container they live in and the name they are stored under. A nil parent or
// an empty name means "not placed".
//
// Parent is a plain back-reference used for identity comparison and for
// walking up the containment tree. It never owns the parent.
type Locatable interface {
	Parent() any
	Name() string
	SetLocation(parent any, name string)
}

// Containable is a Locatable that records whether a container has taken
// ownership of it. Objects that are locatable but not yet contained are
// tagged in place on their first insertion.
type Containable interface {
	Locatable
	IsContained() bool
	MarkContained()
}

// Sublocations is implemented by objects that contain other objects.
// Event dispatchers use it to forward move and remove events downwards.
type Sublocations interface {
	Sublocations() []any
}

// Location is an embeddable implementation of Containable. Its zero value
// is placeable but not contained.
type Location struct {
	parent    any
	name      string
	contained bool
}

// Parent returns the owning container, or nil.
func (l *Location) Parent() any { return l.parent }

// Name returns the key the object is stored under, or "".
func (l *Location) Name() string { return l.name }

// SetLocation replaces the placement.
func (l *Location) SetLocation(parent any, name string) {
	l.parent = parent
	l.name = name
}

// IsContained reports whether a container has tagged this object.
func (l *Location) IsContained() bool { return l.contained }

// MarkContained tags the object as contained.
func (l *Location) MarkContained() { l.contained = true }

// Contained is an embeddable Containable that is contained from the start.
// Types that are designed to live in containers embed it.
type Contained struct {
	Location
}

// IsContained always reports true.
func (c *Contained) IsContained() bool { return true }

// LocationOf returns the placement of obj. Objects without location metadata
// report (nil, "", false).
func LocationOf(obj any) (parent any, name string, ok bool) {
	loc, ok := obj.(Locatable)
	if !ok || IsNil(obj) {
		return nil, "", false
	}
	return loc.Parent(), loc.Name(), true
}
