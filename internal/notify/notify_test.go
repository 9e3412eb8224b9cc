package notify

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
)

func sample() Notification {
	return Notification{
		EventID:    "evt-1",
		TicketID:   42,
		Name:       "Ann",
		Department: "Finance",
		Issue:      "printer crash",
		Priority:   domain.TicketPriorityHigh,
	}
}

func TestSubjectAndBody(t *testing.T) {
	n := sample()
	if got := n.Subject(); got != "New IT Ticket [High] - #42" {
		t.Errorf("Subject() = %q", got)
	}
	body := n.Body()
	for _, want := range []string{"ID: 42", "From: Ann (Finance)", "Priority: High", "printer crash"} {
		if !strings.Contains(body, want) {
			t.Errorf("Body() missing %q:\n%s", want, body)
		}
	}
}

func TestFromConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.NotificationConfig
		want int
	}{
		{"nothing configured", config.NotificationConfig{}, 0},
		{"email missing recipient", config.NotificationConfig{EmailFrom: "a@x.io", EmailPassword: "p"}, 0},
		{"email", config.NotificationConfig{EmailFrom: "a@x.io", EmailPassword: "p", EmailTo: "it@x.io"}, 1},
		{"email and webhook", config.NotificationConfig{EmailFrom: "a@x.io", EmailPassword: "p", EmailTo: "it@x.io", WebhookURL: "http://hook"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(FromConfig(tt.cfg)); got != tt.want {
				t.Errorf("len(FromConfig()) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEmailMessage(t *testing.T) {
	e := NewEmailNotifier(config.NotificationConfig{EmailFrom: "desk@x.io", EmailPassword: "p", EmailTo: "it@x.io"})
	if _, err := e.message(sample()); err != nil {
		t.Fatalf("message() error = %v", err)
	}
}

func TestWebhookPostsJSON(t *testing.T) {
	var got Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode: %v", err)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := NewWebhookNotifier(srv.URL).Notify(context.Background(), sample()); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if got.TicketID != 42 || got.Priority != domain.TicketPriorityHigh {
		t.Errorf("received %+v", got)
	}
}

func TestWebhookNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if err := NewWebhookNotifier(srv.URL).Notify(context.Background(), sample()); err == nil {
		t.Fatal("expected error on 502")
	}
}

type notifierFunc func(context.Context, Notification) error

func (f notifierFunc) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }

func TestMultiJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	m := Multi{
		notifierFunc(func(context.Context, Notification) error { calls++; return boom }),
		notifierFunc(func(context.Context, Notification) error { calls++; return nil }),
	}
	if err := m.Notify(context.Background(), sample()); !errors.Is(err, boom) {
		t.Errorf("Notify() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestMemoryQueue(t *testing.T) {
	q := NewMemoryQueue(1)
	ctx := context.Background()

	if err := q.Enqueue(ctx, sample()); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if err := q.Enqueue(ctx, sample()); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("second Enqueue() error = %v, want ErrQueueFull", err)
	}

	_ = q.Close()
	if err := q.Enqueue(ctx, sample()); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("Enqueue after Close error = %v", err)
	}

	n, err := q.Dequeue(ctx)
	if err != nil || n.TicketID != 42 {
		t.Fatalf("Dequeue() = %+v, %v", n, err)
	}
	if _, err := q.Dequeue(ctx); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("Dequeue on drained queue error = %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

func TestMemoryQueueDequeueCancel(t *testing.T) {
	q := NewMemoryQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := q.Dequeue(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Dequeue() error = %v", err)
	}
}
