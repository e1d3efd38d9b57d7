package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventIs(t *testing.T) {
	tests := []struct {
		event Event
		kind  EventKind
		want  bool
	}{
		{NewAdded(1, nil, "a"), EventAdded, true},
		{NewAdded(1, nil, "a"), EventMoved, true},
		{NewRemoved(1, nil, "a"), EventMoved, true},
		{NewRemoved(1, nil, "a"), EventAdded, false},
		{NewMoved(1, nil, "a", nil, "b"), EventAdded, false},
		{NewMoved(1, nil, "a", nil, "b"), EventMoved, true},
		{NewContainerModified(1), EventModified, true},
		{NewContainerModified(1), EventMoved, false},
		{Event{Kind: EventModified}, EventContainerModified, false},
	}
	for _, tt := range tests {
		t.Run(tt.event.Kind.String()+"/"+tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.Is(tt.kind))
		})
	}
}

func TestEventString(t *testing.T) {
	assert.Equal(t, `added "a"`, NewAdded(1, nil, "a").String())
	assert.Equal(t, `moved "a" -> "b"`, NewMoved(1, nil, "a", nil, "b").String())
	assert.Equal(t, "container-modified", NewContainerModified(1).String())
	assert.Equal(t, "EventKind(99)", EventKind(99).String())
}
