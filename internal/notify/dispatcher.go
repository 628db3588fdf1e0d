package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Dispatcher routes events to registered senders.
// A nil *Dispatcher is valid and drops every event.
type Dispatcher struct {
	senders []Sender
	mu      sync.RWMutex
	async   bool
	logger  *slog.Logger
	nextID  int
}

// NewDispatcher creates a new event dispatcher.
// If async is true, events are sent in goroutines.
func NewDispatcher(async bool, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		senders: make([]Sender, 0),
		async:   async,
		logger:  logger,
	}
}

// Register adds a sender to the dispatcher.
func (d *Dispatcher) Register(sender Sender) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.senders = append(d.senders, sender)
}

// Unregister removes a sender from the dispatcher by name.
func (d *Dispatcher) Unregister(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	filtered := make([]Sender, 0, len(d.senders))
	for _, s := range d.senders {
		if s.Name() != name {
			filtered = append(filtered, s)
		}
	}
	d.senders = filtered
}

// Dispatch sends an event to all registered senders.
func (d *Dispatcher) Dispatch(ctx context.Context, event *Event) {
	if d == nil || event == nil {
		return
	}

	senders := d.Senders()
	if len(senders) == 0 {
		return
	}

	if d.async {
		for _, sender := range senders {
			go d.sendWithRecover(ctx, sender, event)
		}
	} else {
		for _, sender := range senders {
			d.sendWithRecover(ctx, sender, event)
		}
	}
}

// sendWithRecover sends an event and recovers from panics.
func (d *Dispatcher) sendWithRecover(ctx context.Context, sender Sender, event *Event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("notify: panic in sender",
				slog.String("sender", sender.Name()),
				slog.Any("panic", r),
			)
		}
	}()

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if err := sender.Send(sendCtx, event); err != nil {
		d.logger.Warn("notify: error sending event",
			slog.String("sender", sender.Name()),
			slog.String("type", event.Type),
			slog.Any("error", err),
		)
	}
}

// HasSenders returns true if any senders are registered.
func (d *Dispatcher) HasSenders() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.senders) > 0
}

// Senders returns a copy of the registered senders.
func (d *Dispatcher) Senders() []Sender {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]Sender, len(d.senders))
	copy(result, d.senders)
	return result
}
