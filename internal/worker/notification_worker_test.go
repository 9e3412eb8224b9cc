package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/support-desk/internal/notify"
	"github.com/spec-kit/support-desk/internal/observability"
)

type fakeNotifier struct {
	mu   sync.Mutex
	got  []int64
	fail map[int64]bool
}

func (f *fakeNotifier) Notify(_ context.Context, n notify.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, n.TicketID)
	if f.fail[n.TicketID] {
		return errors.New("smtp down")
	}
	return nil
}

func TestWorkerDrainsQueue(t *testing.T) {
	q := notify.NewMemoryQueue(8)
	ctx := context.Background()
	for _, id := range []int64{1, 2, 3} {
		if err := q.Enqueue(ctx, notify.Notification{TicketID: id}); err != nil {
			t.Fatal(err)
		}
	}
	_ = q.Close()

	n := &fakeNotifier{fail: map[int64]bool{2: true}}
	metrics := observability.NewMetrics()
	w := NewNotificationWorker(q, n, zaptest.NewLogger(t), metrics)

	if err := w.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(n.got) != 3 {
		t.Fatalf("delivered %v, want 3 attempts", n.got)
	}
	snap := metrics.Snapshot()
	if snap.Notifications[observability.NotificationSent] != 2 || snap.Notifications[observability.NotificationFailed] != 1 {
		t.Errorf("notifications = %v", snap.Notifications)
	}
}

func TestWorkerStopsOnCancel(t *testing.T) {
	q := notify.NewMemoryQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	done := StartNotificationWorker(ctx, nil, NewNotificationWorker(q, &fakeNotifier{}, zaptest.NewLogger(t), nil))

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestWorkerWithoutNotifierSkips(t *testing.T) {
	q := notify.NewMemoryQueue(1)
	_ = q.Enqueue(context.Background(), notify.Notification{TicketID: 1})
	_ = q.Close()

	metrics := observability.NewMetrics()
	if err := NewNotificationWorker(q, nil, zaptest.NewLogger(t), metrics).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := metrics.Snapshot().Notifications[observability.NotificationSkipped]; got != 1 {
		t.Errorf("skipped = %d, want 1", got)
	}
}
