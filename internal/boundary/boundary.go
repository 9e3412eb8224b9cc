// Package boundary exposes the desk operations to the HTTP and CLI front
// ends. Every failure is folded into a Result or an empty list; nothing
// returns a raw error to the caller.
package boundary

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// RegisterRequest carries sign-up fields.
type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
}

// LoginRequest carries credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateTicketRequest carries a ticket submission. Priority is accepted
// for compatibility and ignored.
type CreateTicketRequest struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Issue      string `json:"issue"`
	Priority   string `json:"priority,omitempty"`
}

// UpdateStatusRequest carries a status change.
type UpdateStatusRequest struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// Session identifies the logged-in caller.
type Session struct {
	UserID int64
	Role   domain.Role
}

// Boundary is the single entry point used by front ends.
type Boundary struct {
	auth    *service.AuthService
	tickets *service.TicketService
	logger  *zap.Logger
	metrics *observability.Metrics
}

// New wires the boundary over the services.
func New(authSvc *service.AuthService, ticketSvc *service.TicketService, logger *zap.Logger, metrics *observability.Metrics) *Boundary {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Boundary{auth: authSvc, tickets: ticketSvc, logger: logger, metrics: metrics}
}

// Register creates an account.
func (b *Boundary) Register(ctx context.Context, req RegisterRequest) Result {
	user, err := b.auth.Register(ctx, service.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Department: req.Department,
	})
	if err != nil {
		return b.failure("register", err)
	}
	return Result{Success: true, ID: &user.ID}
}

// Login returns the matching user, or nil when the credentials do not match
// or the lookup fails.
func (b *Boundary) Login(ctx context.Context, req LoginRequest) *UserRecord {
	user, err := b.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		b.failure("login", err)
		return nil
	}
	return toUserRecord(user)
}

// IssueToken signs a bearer token for a logged-in user.
func (b *Boundary) IssueToken(user *UserRecord) (string, time.Time, error) {
	return b.auth.IssueToken(&domain.User{ID: user.ID, Role: user.Role})
}

// CreateTicket submits a ticket owned by the session user, if any.
func (b *Boundary) CreateTicket(ctx context.Context, session *Session, req CreateTicketRequest) Result {
	in := service.CreateTicketInput{
		Name:       req.Name,
		Department: req.Department,
		Issue:      req.Issue,
		Priority:   req.Priority,
	}
	if session != nil {
		uid := session.UserID
		in.UserID = &uid
	}

	ticket, err := b.tickets.CreateTicket(ctx, in)
	if err != nil {
		return b.failure("createTicket", err)
	}
	return Result{Success: true, ID: &ticket.ID}
}

// FetchTickets lists tickets newest first. Any failure yields an empty list.
func (b *Boundary) FetchTickets(ctx context.Context, userID *int64) []TicketRecord {
	tickets, err := b.tickets.FetchTickets(ctx, userID)
	if err != nil {
		b.failure("fetchTickets", err)
		return []TicketRecord{}
	}
	out := make([]TicketRecord, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketRecord(t))
	}
	return out
}

// UpdateStatus changes a ticket status. Unrecognized statuses are rejected;
// an unknown id succeeds without effect.
func (b *Boundary) UpdateStatus(ctx context.Context, req UpdateStatusRequest) Result {
	status, ok := domain.ParseTicketStatus(req.Status)
	if !ok {
		return b.failure("updateStatus", apperrors.NewValidationError(
			"status must be one of Pending, In Progress, Solved",
			map[string]any{"status": req.Status}))
	}
	if err := b.tickets.UpdateStatus(ctx, req.ID, status); err != nil {
		return b.failure("updateStatus", err)
	}
	return Result{Success: true}
}

func (b *Boundary) failure(op string, err error) Result {
	de := apperrors.ToDomainError(err)
	b.metrics.RecordError(op, de.Code)
	if de.Code == apperrors.CodeInternal || de.Code == apperrors.CodeUninitialized {
		b.logger.Error(op+" failed", zap.String("code", de.Code), zap.Error(err))
	} else {
		b.logger.Debug(op+" rejected", zap.String("code", de.Code), zap.Error(err))
	}
	return Result{Success: false, Message: de.Message, Code: de.Code}
}
