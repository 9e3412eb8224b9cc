package service

import (
	"context"
	"time"

	"github.com/guregu/null/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/classifier"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// CreateTicketInput holds the submitted ticket fields. Priority is a client
// hint and is always replaced by the classifier result.
type CreateTicketInput struct {
	UserID     *int64
	Name       string
	Department string
	Issue      string
	Priority   string
}

// TicketOption customizes a TicketService.
type TicketOption func(*TicketService)

// WithClock overrides the time source used for created_at.
func WithClock(now func() time.Time) TicketOption {
	return func(s *TicketService) {
		if now != nil {
			s.now = now
		}
	}
}

// TicketService encapsulates ticket operations.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewTicketService builds a ticket service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher, logger *zap.Logger, opts ...TicketOption) *TicketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &TicketService{
		tickets:    tickets,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTicket classifies and persists a new ticket, then announces it.
// Event handling never changes the outcome of the call.
func (s *TicketService) CreateTicket(ctx context.Context, in CreateTicketInput) (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		Name:       in.Name,
		Department: in.Department,
		Issue:      in.Issue,
		Priority:   classifier.Classify(in.Issue),
		Status:     domain.TicketStatusPending,
		CreatedAt:  s.now().UTC(),
	}
	if in.UserID != nil {
		ticket.UserID = null.IntFrom(*in.UserID)
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewEvent(events.EventTicketCreated, ticket.ID, in.UserID, events.TicketCreatedPayload{
		Name:       ticket.Name,
		Department: ticket.Department,
		Issue:      ticket.Issue,
		Priority:   ticket.Priority,
		CreatedAt:  domain.FormatTimestamp(ticket.CreatedAt),
	}))
	return ticket, nil
}

// FetchTickets lists tickets newest first, scoped to userID when given.
func (s *TicketService) FetchTickets(ctx context.Context, userID *int64) ([]domain.Ticket, error) {
	return s.tickets.List(ctx, repository.TicketFilter{UserID: userID})
}

// UpdateStatus overwrites a ticket status. An unknown id is not an error.
func (s *TicketService) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) error {
	if !status.Valid() {
		return apperrors.NewValidationError("invalid status", map[string]any{"status": string(status)})
	}

	affected, err := s.tickets.UpdateStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if affected == 0 {
		s.logger.Debug("status update matched no ticket", zap.Int64("ticket_id", id))
		return nil
	}

	s.publish(ctx, events.NewEvent(events.EventTicketStatusChanged, id, nil, events.TicketStatusChangedPayload{
		NewStatus: status,
	}))
	return nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.Int64("ticket_id", event.TicketID),
			zap.Error(err))
	}
}
