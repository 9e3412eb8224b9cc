package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/notify"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/service"
)

const deliveryTimeout = 30 * time.Second

// NotificationWorker drains the notification queue and delivers each item
// once. Failed deliveries are logged and counted, never retried.
type NotificationWorker struct {
	queue    notify.Queue
	notifier notify.Notifier
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewNotificationWorker builds a worker.
func NewNotificationWorker(queue notify.Queue, notifier notify.Notifier, logger *zap.Logger, metrics *observability.Metrics) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{queue: queue, notifier: notifier, logger: logger, metrics: metrics}
}

// Run blocks until ctx is cancelled or the queue is closed and drained.
func (w *NotificationWorker) Run(ctx context.Context) error {
	for {
		n, err := w.queue.Dequeue(ctx)
		switch {
		case err == nil:
		case errors.Is(err, notify.ErrQueueClosed), ctx.Err() != nil:
			return nil
		default:
			w.logger.Error("dequeue notification", zap.Error(err))
			w.metrics.RecordNotification(observability.NotificationFailed)
			continue
		}
		w.deliver(ctx, n)
	}
}

func (w *NotificationWorker) deliver(ctx context.Context, n notify.Notification) {
	if w.notifier == nil {
		w.metrics.RecordNotification(observability.NotificationSkipped)
		return
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliveryTimeout)
	defer cancel()

	if err := w.notifier.Notify(sendCtx, n); err != nil {
		w.metrics.RecordNotification(observability.NotificationFailed)
		w.logger.Warn("notification failed",
			zap.Int64("ticket_id", n.TicketID),
			zap.String("event_id", n.EventID),
			zap.Error(err))
		return
	}
	w.metrics.RecordNotification(observability.NotificationSent)
	w.logger.Info("notification sent", zap.Int64("ticket_id", n.TicketID))
}

// StartNotificationWorker registers notification handlers and runs the
// worker in the background. The returned channel closes when it exits.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService, w *NotificationWorker) <-chan struct{} {
	done := make(chan struct{})
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if w == nil {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	return done
}
