package events

import "github.com/mesh-intelligence/cabinet/pkg/types"

// Recorder is a Notifier that keeps every event it receives. Tests use it to
// assert on the events a container produced.
type Recorder struct {
	events []types.Event
}

// Notify records ev.
func (r *Recorder) Notify(ev types.Event) error {
	r.events = append(r.events, ev)
	return nil
}

// Handler returns a Handler that records events, for use with Subscribe.
func (r *Recorder) Handler() Handler {
	return func(_ any, ev types.Event) error { return r.Notify(ev) }
}

// Events returns the recorded events of the given kinds (all when none are
// given), including specialisations: asking for EventMoved returns adds and
// removes too.
func (r *Recorder) Events(kinds ...types.EventKind) []types.Event {
	if len(kinds) == 0 {
		return append([]types.Event(nil), r.events...)
	}
	var out []types.Event
	for _, ev := range r.events {
		for _, k := range kinds {
			if ev.Is(k) {
				out = append(out, ev)
				break
			}
		}
	}
	return out
}

// Count returns the number of recorded events of kind.
func (r *Recorder) Count(kind types.EventKind) int {
	return len(r.Events(kind))
}

// Last returns the most recent event of kind and whether there was one.
func (r *Recorder) Last(kind types.EventKind) (types.Event, bool) {
	evs := r.Events(kind)
	if len(evs) == 0 {
		return types.Event{}, false
	}
	return evs[len(evs)-1], true
}

// Kinds returns the kinds of all recorded events in order.
func (r *Recorder) Kinds() []types.EventKind {
	out := make([]types.EventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

// Clear drops everything recorded so far.
func (r *Recorder) Clear() { r.events = nil }
