package events

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/mesh-intelligence/cabinet/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	types.Contained
	label string
}

type folder struct {
	types.Contained
	children []any
}

func (f *folder) Sublocations() []any { return f.children }

func TestDispatcherOrderAndKinds(t *testing.T) {
	d := NewDispatcher()
	var calls []string
	d.Subscribe(types.EventAdded, func(_ any, ev types.Event) error {
		calls = append(calls, "added")
		return nil
	})
	d.Subscribe(types.EventMoved, func(_ any, ev types.Event) error {
		calls = append(calls, "moved")
		return nil
	})
	d.Subscribe(0, func(_ any, ev types.Event) error {
		calls = append(calls, "any")
		return nil
	})

	require.NoError(t, d.Notify(types.NewAdded(&item{}, nil, "a")))
	assert.Equal(t, []string{"added", "moved", "any"}, calls)

	calls = nil
	require.NoError(t, d.Notify(types.NewContainerModified(&folder{})))
	assert.Equal(t, []string{"any"}, calls)
}

func TestDispatcherStopsAtFirstError(t *testing.T) {
	d := NewDispatcher()
	boom := errors.New("boom")
	var second bool
	d.Subscribe(0, func(any, types.Event) error { return boom })
	d.Subscribe(0, func(any, types.Event) error { second = true; return nil })

	err := d.Notify(types.NewAdded(&item{}, nil, "a"))
	assert.ErrorIs(t, err, boom)
	assert.False(t, second)
}

func TestDispatcherFilters(t *testing.T) {
	d := NewDispatcher()
	var seen []any
	d.Subscribe(0, func(subject any, _ types.Event) error {
		seen = append(seen, subject)
		return nil
	}, ProvidesType[*folder]())

	it, f := &item{}, &folder{}
	require.NoError(t, d.Notify(types.NewAdded(it, nil, "a")))
	require.NoError(t, d.Notify(types.NewAdded(f, nil, "b")))
	assert.Equal(t, []any{f}, seen)
}

func TestDispatcherInterfaceFilter(t *testing.T) {
	d := NewDispatcher()
	var n int
	d.Subscribe(0, func(any, types.Event) error { n++; return nil }, ProvidesType[types.Sublocations]())

	require.NoError(t, d.Notify(types.NewAdded(&item{}, nil, "a")))
	require.NoError(t, d.Notify(types.NewAdded(&folder{}, nil, "b")))
	require.NoError(t, d.Notify(types.NewAdded(nil, nil, "c")))
	assert.Equal(t, 1, n)
}

func TestUnsubscribe(t *testing.T) {
	d := NewDispatcher()
	var n int
	unsubscribe := d.Subscribe(0, func(any, types.Event) error { n++; return nil })
	require.NoError(t, d.Notify(types.NewContainerModified(nil)))
	unsubscribe()
	require.NoError(t, d.Notify(types.NewContainerModified(nil)))
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, d.Len())
}

func TestDispatchToSublocations(t *testing.T) {
	leaf1, leaf2 := &item{label: "1"}, &item{label: "2"}
	inner := &folder{children: []any{leaf2}}
	outer := &folder{children: []any{leaf1, inner}}

	var subjects []any
	record := func(subject any, _ types.Event) error {
		subjects = append(subjects, subject)
		return nil
	}

	t.Run("disabled by default", func(t *testing.T) {
		subjects = nil
		d := NewDispatcher()
		d.Subscribe(types.EventMoved, record)
		require.NoError(t, d.Notify(types.NewRemoved(outer, nil, "outer")))
		assert.Equal(t, []any{outer}, subjects)
	})

	t.Run("moves reach every descendant", func(t *testing.T) {
		subjects = nil
		d := NewDispatcher(WithSublocations())
		d.Subscribe(types.EventMoved, record)
		require.NoError(t, d.Notify(types.NewRemoved(outer, nil, "outer")))
		assert.Equal(t, []any{outer, leaf1, inner, leaf2}, subjects)
	})

	t.Run("modifications are not forwarded", func(t *testing.T) {
		subjects = nil
		d := NewDispatcher(WithSublocations())
		d.Subscribe(0, record)
		require.NoError(t, d.Notify(types.NewContainerModified(outer)))
		assert.Equal(t, []any{outer}, subjects)
	})
}

func TestRecorder(t *testing.T) {
	var r Recorder
	require.NoError(t, r.Notify(types.NewAdded(1, nil, "a")))
	require.NoError(t, r.Notify(types.NewContainerModified(2)))
	require.NoError(t, r.Notify(types.NewRemoved(1, nil, "a")))

	assert.Equal(t, 2, r.Count(types.EventMoved))
	assert.Equal(t, 1, r.Count(types.EventModified))
	assert.Len(t, r.Events(), 3)
	assert.Equal(t, []types.EventKind{types.EventAdded, types.EventContainerModified, types.EventRemoved}, r.Kinds())

	last, ok := r.Last(types.EventMoved)
	require.True(t, ok)
	assert.Equal(t, types.EventRemoved, last.Kind)

	r.Clear()
	_, ok = r.Last(types.EventMoved)
	assert.False(t, ok)
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	d := NewDispatcher()
	d.Subscribe(0, LogHandler(logger, slog.LevelInfo))

	require.NoError(t, d.Notify(types.NewMoved(&item{}, nil, "a", nil, "b")))
	assert.Contains(t, buf.String(), "kind=moved")
	assert.Contains(t, buf.String(), "old_name=a")
	assert.Contains(t, buf.String(), "new_name=b")
}
