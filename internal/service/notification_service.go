package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/notify"
	"github.com/spec-kit/support-desk/internal/observability"
)

const enqueueTimeout = 5 * time.Second

// NotificationService turns domain events into queued notifications.
type NotificationService struct {
	dispatcher events.Dispatcher
	queue      notify.Queue
	logger     *zap.Logger
	metrics    *observability.Metrics
	enabled    bool
}

// NewNotificationService creates the service. When enabled is false ticket
// creation is only logged.
func NewNotificationService(dispatcher events.Dispatcher, queue notify.Queue, enabled bool, logger *zap.Logger, metrics *observability.Metrics) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		queue:      queue,
		logger:     logger,
		metrics:    metrics,
		enabled:    enabled && queue != nil,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return errors.New("unexpected ticket_created payload")
	}
	n.logger.Info("TicketCreated",
		zap.Int64("ticket_id", event.TicketID),
		zap.String("priority", string(payload.Priority)))

	if !n.enabled {
		n.metrics.RecordNotification(observability.NotificationSkipped)
		return nil
	}

	msg := notify.Notification{
		EventID:    event.ID,
		TicketID:   event.TicketID,
		Name:       payload.Name,
		Department: payload.Department,
		Issue:      payload.Issue,
		Priority:   payload.Priority,
		CreatedAt:  payload.CreatedAt,
	}
	// The item is queued before CreateTicket returns; delivery stays on the worker.
	enqueueCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), enqueueTimeout)
	defer cancel()
	if err := n.queue.Enqueue(enqueueCtx, msg); err != nil {
		n.metrics.RecordNotification(observability.NotificationDropped)
		n.logger.Warn("notification not queued", zap.Int64("ticket_id", msg.TicketID), zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(_ context.Context, event events.Event) error {
	n.logger.Info("TicketStatusChanged", zap.Int64("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}
