// Package notify provides state-change notifications for dcc events.
package notify

import (
	"context"
	"time"
)

// Event represents a state change with the context subscribers need to
// react to it.
type Event struct {
	// Type is the event type (cleaner.created, clean.finished, etc.)
	Type string

	// CleanerID is the cleaner the event is about
	CleanerID int

	// CleanerName is the cleaner's display name
	CleanerName string

	// Location is the cleaner's search root
	Location string

	// Timestamp is when the event occurred
	Timestamp time.Time

	// Success indicates if the operation succeeded
	Success bool

	// Error contains error details if the operation failed
	Error string

	// Extra contains additional event-specific data
	Extra map[string]string
}

// Sender is the interface for event receivers.
type Sender interface {
	// Send delivers the event.
	// Returns an error if the event could not be delivered.
	Send(ctx context.Context, event *Event) error

	// Name returns the sender's name for logging purposes.
	Name() string
}

// Event types dispatched by the service and the sweeper.
const (
	EventCleanerCreated = "cleaner.created"
	EventCleanerUpdated = "cleaner.updated"
	EventCleanerDeleted = "cleaner.deleted"
	EventCleanFinished  = "clean.finished"
	EventScanFinished   = "scan.finished"
)

// NewEvent creates a new event with the given type and sets the timestamp.
func NewEvent(eventType string) *Event {
	return &Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Success:   true,
		Extra:     make(map[string]string),
	}
}

// WithCleaner sets the cleaner fields on the event.
func (e *Event) WithCleaner(id int, name, location string) *Event {
	e.CleanerID = id
	e.CleanerName = name
	e.Location = location

	return e
}

// WithError sets the error on the event and marks it as failed.
func (e *Event) WithError(err string) *Event {
	e.Error = err
	e.Success = false

	return e
}

// WithExtra adds extra data to the event.
func (e *Event) WithExtra(key, value string) *Event {
	if e.Extra == nil {
		e.Extra = make(map[string]string)
	}

	e.Extra[key] = value

	return e
}
