package notify

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
)

// ErrSubscriberFull is returned when a subscription's buffer has no room;
// the event is dropped for that subscriber only.
var ErrSubscriberFull = errors.New("subscriber buffer is full")

// Subscription delivers dispatched events on a channel.
type Subscription struct {
	name       string
	types      []string
	ch         chan Event
	dispatcher *Dispatcher

	mu      sync.Mutex
	closed  bool
	dropped atomic.Int64
}

// Subscribe registers a channel subscription that receives events of the
// given types, or every event when no types are given. buffer is the
// channel capacity; events that do not fit are dropped.
func (d *Dispatcher) Subscribe(buffer int, types ...string) *Subscription {
	if buffer < 1 {
		buffer = 1
	}

	d.mu.Lock()
	d.nextID++
	name := fmt.Sprintf("subscription-%d", d.nextID)
	d.mu.Unlock()

	s := &Subscription{
		name:       name,
		types:      slices.Clone(types),
		ch:         make(chan Event, buffer),
		dispatcher: d,
	}

	d.Register(s)

	return s
}

// Events returns the channel events are delivered on. It is closed by Close.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Dropped returns how many events did not fit in the buffer.
func (s *Subscription) Dropped() int64 {
	return s.dropped.Load()
}

// Name implements Sender.
func (s *Subscription) Name() string {
	return s.name
}

// Send implements Sender.
func (s *Subscription) Send(_ context.Context, event *Event) error {
	if len(s.types) > 0 && !slices.Contains(s.types, event.Type) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	select {
	case s.ch <- *event:
		return nil
	default:
		s.dropped.Add(1)
		return ErrSubscriberFull
	}
}

// Close unregisters the subscription and closes its channel.
func (s *Subscription) Close() {
	s.dispatcher.Unregister(s.name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
