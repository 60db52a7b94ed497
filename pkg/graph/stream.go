package graph

import (
	"context"
)

// EventStream is a single-consumer asynchronous sequence of graph events.
//
// The producer side calls Send for each event and Close exactly once when the
// stream ends. The consumer drains Events and checks Err after the channel
// closes; Close stores the terminal error before closing the channel, so the
// channel close ordering makes Err safe to read without further locking.
type EventStream struct {
	events chan Event
	err    error
	closed bool
}

// NewEventStream creates a stream with the given channel buffer. A buffer of
// zero gives strict handoff semantics: the producer suspends until the
// consumer has taken each event.
func NewEventStream(buffer int) *EventStream {
	if buffer < 0 {
		buffer = 0
	}
	return &EventStream{
		events: make(chan Event, buffer),
	}
}

// Events returns the receive side of the stream. The channel is closed by the
// producer when the stream ends.
func (s *EventStream) Events() <-chan Event {
	return s.events
}

// Err reports the terminal error of the stream. It is valid only after the
// Events channel has been drained to close.
func (s *EventStream) Err() error {
	return s.err
}

// Send delivers one event to the consumer, suspending until the consumer is
// ready or ctx is done.
func (s *EventStream) Send(ctx context.Context, ev Event) error {
	select {
	case s.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close ends the stream with an optional terminal error. It must be called
// exactly once, by the producer, after the final Send.
func (s *EventStream) Close(err error) {
	if s.closed {
		return
	}
	s.closed = true
	s.err = err
	close(s.events)
}

// Collect drains a stream into a slice. Intended for tests and for callers
// that do not need incremental delivery.
func Collect(ctx context.Context, s *EventStream) ([]Event, error) {
	var events []Event
	for {
		select {
		case ev, ok := <-s.Events():
			if !ok {
				return events, s.Err()
			}
			events = append(events, ev)
		case <-ctx.Done():
			return events, ctx.Err()
		}
	}
}
