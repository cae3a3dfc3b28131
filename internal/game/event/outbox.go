package event

// Outbox accumulates events in emission order. The zero value is ready to use.
// Outbox is not safe for concurrent use.
type Outbox struct {
	pending []Event
}

// Append records events. Nil events are ignored.
func (o *Outbox) Append(events ...Event) {
	for _, e := range events {
		if e != nil {
			o.pending = append(o.pending, e)
		}
	}
}

// Len returns the number of undrained events.
func (o *Outbox) Len() int { return len(o.pending) }

// Drain returns every pending event in order and empties the outbox.
func (o *Outbox) Drain() []Event {
	out := o.pending
	o.pending = nil
	return out
}

// Listener consumes drained events.
type Listener interface {
	Handle(e Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// Handle calls f(e).
func (f ListenerFunc) Handle(e Event) { f(e) }

// Dispatch delivers events to every listener, event by event, in order.
func Dispatch(events []Event, listeners ...Listener) {
	for _, e := range events {
		for _, l := range listeners {
			l.Handle(e)
		}
	}
}
