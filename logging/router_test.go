package logging

import (
	"context"
	"sync"
	"testing"
	"time"
)

type captureSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *captureSink) Write(event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *captureSink) Close(context.Context) error { return nil }

func (s *captureSink) all() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]Event, len(s.events))
	copy(copied, s.events)
	return copied
}

func closeRouter(t *testing.T, r *Router) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := r.Close(ctx); err != nil {
		t.Fatalf("close router: %v", err)
	}
}

func TestRouterForwardsToSinks(t *testing.T) {
	sink := &captureSink{}
	router, err := NewRouter(SystemClock{}, DefaultConfig(), []NamedSink{{Name: "capture", Sink: sink}})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}

	router.Publish(context.Background(), Event{
		Type:     "economy.sale_completed",
		Tick:     7,
		Severity: SeverityInfo,
		Category: CategoryEconomy,
	})
	closeRouter(t, router)

	events := sink.all()
	if len(events) != 1 {
		t.Fatalf("expected 1 forwarded event, got %d", len(events))
	}
	if events[0].Tick != 7 || events[0].Category != CategoryEconomy {
		t.Fatalf("event mangled in transit: %+v", events[0])
	}
	if events[0].Time.IsZero() {
		t.Fatalf("router must stamp untimed events")
	}
	if got := router.Stats().EventsTotal; got != 1 {
		t.Fatalf("expected 1 counted event, got %d", got)
	}
}

func TestRouterFiltersBelowMinimumSeverity(t *testing.T) {
	sink := &captureSink{}
	cfg := DefaultConfig()
	cfg.MinimumSeverity = SeverityWarn
	router, err := NewRouter(SystemClock{}, cfg, []NamedSink{{Name: "capture", Sink: sink}})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}

	router.Publish(context.Background(), Event{Type: "a", Severity: SeverityInfo})
	router.Publish(context.Background(), Event{Type: "b", Severity: SeverityWarn})
	closeRouter(t, router)

	events := sink.all()
	if len(events) != 1 || events[0].Type != "b" {
		t.Fatalf("severity filter broken: %+v", events)
	}
}

func TestRouterMergesConfiguredFields(t *testing.T) {
	sink := &captureSink{}
	cfg := DefaultConfig()
	cfg.Fields = map[string]any{"service": "cheeseshop"}
	router, err := NewRouter(SystemClock{}, cfg, []NamedSink{{Name: "capture", Sink: sink}})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}

	router.Publish(context.Background(), Event{
		Type:     "lifecycle.session_started",
		Severity: SeverityInfo,
		Extra:    map[string]any{"seed": "test"},
	})
	closeRouter(t, router)

	events := sink.all()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Extra["service"] != "cheeseshop" || events[0].Extra["seed"] != "test" {
		t.Fatalf("fields not merged: %+v", events[0].Extra)
	}
}

func TestRouterDropsEmptyTypeAndAfterClose(t *testing.T) {
	sink := &captureSink{}
	router, err := NewRouter(SystemClock{}, DefaultConfig(), []NamedSink{{Name: "capture", Sink: sink}})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}

	router.Publish(context.Background(), Event{})
	closeRouter(t, router)
	router.Publish(context.Background(), Event{Type: "late"})

	if events := sink.all(); len(events) != 0 {
		t.Fatalf("expected no events, got %+v", events)
	}
}
