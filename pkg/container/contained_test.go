package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/cabinet/pkg/events"
	"github.com/mesh-intelligence/cabinet/pkg/types"
)

type item struct {
	types.Location
	label string
}

type folder struct {
	types.Contained
}

func TestContainedEvent(t *testing.T) {
	parent := &folder{}
	other := &folder{}

	t.Run("new placement is an add", func(t *testing.T) {
		obj := &item{label: "a"}
		got, ev, err := ContainedEvent(obj, parent, "a")
		require.NoError(t, err)
		require.NotNil(t, ev)
		assert.Same(t, obj, got)
		assert.Equal(t, types.EventAdded, ev.Kind)
		assert.Same(t, parent, ev.NewParent)
		assert.Equal(t, "a", ev.NewName)
		assert.Nil(t, ev.OldParent)
		assert.Same(t, parent, obj.Parent())
		assert.Equal(t, "a", obj.Name())
		assert.True(t, obj.IsContained(), "placeable objects are tagged in place")
	})

	t.Run("same placement produces no event", func(t *testing.T) {
		obj := &item{}
		obj.SetLocation(parent, "a")
		got, ev, err := ContainedEvent(obj, parent, "a")
		require.NoError(t, err)
		assert.Nil(t, ev)
		assert.Same(t, obj, got)
	})

	t.Run("new name is a move", func(t *testing.T) {
		obj := &item{}
		obj.SetLocation(parent, "a")
		_, ev, err := ContainedEvent(obj, parent, "b")
		require.NoError(t, err)
		require.NotNil(t, ev)
		assert.Equal(t, types.EventMoved, ev.Kind)
		assert.Same(t, parent, ev.OldParent)
		assert.Equal(t, "a", ev.OldName)
		assert.Equal(t, "b", ev.NewName)
	})

	t.Run("new parent is a move", func(t *testing.T) {
		obj := &item{}
		obj.SetLocation(parent, "a")
		_, ev, err := ContainedEvent(obj, other, "a")
		require.NoError(t, err)
		require.NotNil(t, ev)
		assert.Equal(t, types.EventMoved, ev.Kind)
		assert.Same(t, other, obj.Parent())
	})

	t.Run("name without parent is an add", func(t *testing.T) {
		obj := &item{}
		obj.SetLocation(nil, "orphan")
		_, ev, err := ContainedEvent(obj, parent, "a")
		require.NoError(t, err)
		require.NotNil(t, ev)
		assert.Equal(t, types.EventAdded, ev.Kind)
	})

	t.Run("plain values are proxied", func(t *testing.T) {
		list := []int{1, 2}
		got, ev, err := ContainedEvent(list, parent, "list")
		require.NoError(t, err)
		require.NotNil(t, ev)
		p, ok := got.(*Proxy)
		require.True(t, ok)
		assert.Equal(t, list, p.Unwrap())
		assert.Same(t, parent, p.Parent())
		assert.Same(t, p, ev.Object)
	})

	t.Run("nil pointers are proxied", func(t *testing.T) {
		got, _, err := ContainedEvent((*item)(nil), parent, "nil")
		require.NoError(t, err)
		assert.IsType(t, &Proxy{}, got)
	})

	t.Run("container into itself", func(t *testing.T) {
		_, _, err := ContainedEvent(parent, parent, "self")
		assert.ErrorIs(t, err, types.ErrCyclicContainment)
	})

	t.Run("ancestor into descendant", func(t *testing.T) {
		root, child := &folder{}, &folder{}
		child.SetLocation(root, "child")
		_, _, err := ContainedEvent(root, child, "root")
		assert.ErrorIs(t, err, types.ErrCyclicContainment)
		assert.Nil(t, root.Parent(), "refused objects keep their location")
	})
}

func TestContain(t *testing.T) {
	parent := &folder{}
	obj := &item{}
	got, err := Contain(obj, parent, "x")
	require.NoError(t, err)
	assert.Same(t, obj, got)
	assert.Equal(t, "x", obj.Name())
}

func TestUncontained(t *testing.T) {
	parent := &folder{}

	t.Run("matching location is cleared", func(t *testing.T) {
		var rec events.Recorder
		obj := &item{}
		obj.SetLocation(parent, "a")
		require.NoError(t, Uncontained(obj, parent, "a", &rec))
		assert.Equal(t, []types.EventKind{types.EventRemoved, types.EventContainerModified}, rec.Kinds())
		removed, _ := rec.Last(types.EventRemoved)
		assert.Same(t, parent, removed.OldParent)
		assert.Equal(t, "a", removed.OldName)
		assert.Nil(t, obj.Parent())
		assert.Empty(t, obj.Name())
	})

	t.Run("moved object only modifies the container", func(t *testing.T) {
		var rec events.Recorder
		obj := &item{}
		obj.SetLocation(&folder{}, "elsewhere")
		require.NoError(t, Uncontained(obj, parent, "a", &rec))
		assert.Equal(t, []types.EventKind{types.EventContainerModified}, rec.Kinds())
		assert.Equal(t, "elsewhere", obj.Name(), "location is left alone")
	})

	t.Run("object without location is a no-op", func(t *testing.T) {
		var rec events.Recorder
		require.NoError(t, Uncontained(&item{}, parent, "a", &rec))
		assert.Empty(t, rec.Kinds())
	})

	t.Run("plain value is a no-op", func(t *testing.T) {
		var rec events.Recorder
		require.NoError(t, Uncontained(42, parent, "a", &rec))
		assert.Empty(t, rec.Kinds())
	})

	t.Run("nil notifier discards", func(t *testing.T) {
		obj := &item{}
		obj.SetLocation(parent, "a")
		require.NoError(t, Uncontained(obj, parent, "a", nil))
		assert.Nil(t, obj.Parent())
	})
}
