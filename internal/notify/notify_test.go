package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

type recordingSender struct {
	name string
	err  error

	mu     sync.Mutex
	events []*Event
}

func (r *recordingSender) Name() string { return r.name }

func (r *recordingSender) Send(_ context.Context, event *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)

	return r.err
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.events)
}

type panickingSender struct{}

func (panickingSender) Name() string { return "panic" }

func (panickingSender) Send(context.Context, *Event) error { panic("boom") }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestNewEvent(t *testing.T) {
	e := NewEvent(EventCleanFinished).
		WithCleaner(3, "Rust", "/src").
		WithExtra("matched", "2")

	if e.Type != EventCleanFinished {
		t.Errorf("Type = %q", e.Type)
	}
	if !e.Success {
		t.Error("new events should be successful")
	}
	if e.CleanerID != 3 || e.CleanerName != "Rust" || e.Location != "/src" {
		t.Errorf("cleaner fields = %d %q %q", e.CleanerID, e.CleanerName, e.Location)
	}
	if e.Extra["matched"] != "2" {
		t.Errorf("Extra = %v", e.Extra)
	}
	if e.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}

	e.WithError("failed")
	if e.Success || e.Error != "failed" {
		t.Errorf("WithError: Success=%v Error=%q", e.Success, e.Error)
	}

	var bare Event
	bare.WithExtra("k", "v")
	if bare.Extra["k"] != "v" {
		t.Error("WithExtra should allocate the map")
	}
}

func TestDispatcher_Dispatch(t *testing.T) {
	d := NewDispatcher(false, discardLogger())
	a := &recordingSender{name: "a"}
	b := &recordingSender{name: "b", err: errors.New("unreachable")}

	d.Register(a)
	d.Register(b)

	if !d.HasSenders() {
		t.Fatal("HasSenders = false")
	}

	d.Dispatch(context.Background(), NewEvent(EventCleanerCreated))

	if a.count() != 1 || b.count() != 1 {
		t.Errorf("counts = %d, %d; want 1, 1", a.count(), b.count())
	}

	d.Unregister("a")
	d.Dispatch(context.Background(), NewEvent(EventCleanerDeleted))

	if a.count() != 1 {
		t.Errorf("unregistered sender received %d events", a.count())
	}
	if b.count() != 2 {
		t.Errorf("b received %d events, want 2", b.count())
	}
}

func TestDispatcher_RecoversFromPanic(t *testing.T) {
	d := NewDispatcher(false, discardLogger())
	after := &recordingSender{name: "after"}

	d.Register(panickingSender{})
	d.Register(after)

	d.Dispatch(context.Background(), NewEvent(EventScanFinished))

	if after.count() != 1 {
		t.Errorf("sender after a panicking one received %d events", after.count())
	}
}

func TestDispatcher_Async(t *testing.T) {
	d := NewDispatcher(true, discardLogger())
	sub := d.Subscribe(1)
	defer sub.Close()

	d.Dispatch(context.Background(), NewEvent(EventCleanFinished))

	select {
	case ev := <-sub.Events():
		if ev.Type != EventCleanFinished {
			t.Errorf("Type = %q", ev.Type)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestDispatcher_Nil(t *testing.T) {
	var d *Dispatcher

	// must not panic
	d.Dispatch(context.Background(), NewEvent(EventCleanerCreated))

	NewDispatcher(false, nil).Dispatch(context.Background(), nil)
}

func TestSubscription_FiltersTypes(t *testing.T) {
	d := NewDispatcher(false, discardLogger())
	sub := d.Subscribe(4, EventCleanFinished)
	defer sub.Close()

	d.Dispatch(context.Background(), NewEvent(EventCleanerCreated))
	d.Dispatch(context.Background(), NewEvent(EventCleanFinished))

	if got := len(sub.Events()); got != 1 {
		t.Fatalf("buffered events = %d, want 1", got)
	}

	if ev := <-sub.Events(); ev.Type != EventCleanFinished {
		t.Errorf("Type = %q", ev.Type)
	}
}

func TestSubscription_DropsWhenFull(t *testing.T) {
	d := NewDispatcher(false, discardLogger())
	sub := d.Subscribe(1)
	defer sub.Close()

	for range 3 {
		d.Dispatch(context.Background(), NewEvent(EventCleanerUpdated))
	}

	if sub.Dropped() != 2 {
		t.Errorf("Dropped = %d, want 2", sub.Dropped())
	}

	err := sub.Send(context.Background(), NewEvent(EventCleanerUpdated))
	if !errors.Is(err, ErrSubscriberFull) {
		t.Errorf("Send on full buffer = %v", err)
	}
}

func TestSubscription_Close(t *testing.T) {
	d := NewDispatcher(false, discardLogger())
	sub := d.Subscribe(1)

	sub.Close()
	sub.Close()

	if d.HasSenders() {
		t.Error("closed subscription still registered")
	}

	if _, ok := <-sub.Events(); ok {
		t.Error("channel should be closed")
	}

	if err := sub.Send(context.Background(), NewEvent(EventCleanerCreated)); err != nil {
		t.Errorf("Send after Close = %v", err)
	}
}

func TestSubscription_UniqueNames(t *testing.T) {
	d := NewDispatcher(false, discardLogger())
	a := d.Subscribe(1)
	b := d.Subscribe(1)

	if a.Name() == b.Name() {
		t.Errorf("duplicate subscription name %q", a.Name())
	}

	a.Close()

	if len(d.Senders()) != 1 {
		t.Errorf("closing one subscription removed %d senders", 2-len(d.Senders()))
	}

	b.Close()
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := NewLogSender(logger)

	if s.Name() != "log" {
		t.Errorf("Name = %q", s.Name())
	}

	ok := NewEvent(EventCleanerCreated).WithCleaner(1, "Go", "/src")
	if err := s.Send(context.Background(), ok); err != nil {
		t.Fatal(err)
	}

	failed := NewEvent(EventCleanFinished).WithCleaner(1, "Go", "/src").WithError("denied")
	if err := s.Send(context.Background(), failed); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d log lines: %q", len(lines), buf.String())
	}

	if !strings.Contains(lines[0], "level=DEBUG") || !strings.Contains(lines[0], "type=cleaner.created") {
		t.Errorf("success line = %q", lines[0])
	}

	if !strings.Contains(lines[1], "level=WARN") || !strings.Contains(lines[1], "error=denied") {
		t.Errorf("failure line = %q", lines[1])
	}
}
