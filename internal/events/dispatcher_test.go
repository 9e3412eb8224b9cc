package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherDeliversByType(t *testing.T) {
	d := NewInMemoryDispatcher()
	var created, changed int
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error { created++; return nil })
	d.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error { changed++; return nil })

	if err := d.Publish(context.Background(), NewEvent(EventTicketCreated, 1, nil, nil)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if created != 1 || changed != 0 {
		t.Errorf("created=%d changed=%d, want 1 and 0", created, changed)
	}
}

func TestDispatcherRunsAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")
	calls := 0
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error { calls++; return boom })
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error { calls++; return nil })

	err := d.Publish(context.Background(), NewEvent(EventTicketCreated, 2, nil, nil))
	if !errors.Is(err, boom) {
		t.Errorf("Publish() error = %v, want boom", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestNewEventStampsIdentity(t *testing.T) {
	a := NewEvent(EventTicketCreated, 3, nil, nil)
	b := NewEvent(EventTicketCreated, 3, nil, nil)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("event ids %q and %q should be unique", a.ID, b.ID)
	}
	if a.Timestamp.Location().String() != "UTC" {
		t.Errorf("timestamp location = %s", a.Timestamp.Location())
	}
}

func TestDispatcherRecoversPanics(t *testing.T) {
	d := NewInMemoryDispatcher()
	after := false
	d.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error { panic("bad handler") })
	d.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error { after = true; return nil })

	err := d.Publish(context.Background(), NewEvent(EventTicketStatusChanged, 4, nil, nil))
	if err == nil {
		t.Fatal("expected panic to surface as an error")
	}
	if !after {
		t.Error("handler after the panicking one did not run")
	}
}
