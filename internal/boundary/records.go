package boundary

import (
	"github.com/guregu/null/v5"

	"github.com/spec-kit/support-desk/internal/domain"
)

// Result is the uniform outcome of a mutating operation.
type Result struct {
	Success bool   `json:"success"`
	ID      *int64 `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// UserRecord is the caller-facing view of a user. It never carries the password.
type UserRecord struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Department string      `json:"department"`
	Role       domain.Role `json:"role"`
}

// IsAdmin reports whether the record holds the admin role.
func (u *UserRecord) IsAdmin() bool {
	return u != nil && u.Role == domain.RoleAdmin
}

// TicketRecord is the caller-facing view of a ticket.
type TicketRecord struct {
	ID         int64                 `json:"id"`
	UserID     null.Int              `json:"user_id"`
	Name       string                `json:"name"`
	Department string                `json:"department"`
	Issue      string                `json:"issue"`
	Priority   domain.TicketPriority `json:"priority"`
	Status     domain.TicketStatus   `json:"status"`
	CreatedAt  string                `json:"created_at"`
}

func toUserRecord(u *domain.User) *UserRecord {
	return &UserRecord{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Department: u.Department,
		Role:       u.Role,
	}
}

func toTicketRecord(t domain.Ticket) TicketRecord {
	return TicketRecord{
		ID:         t.ID,
		UserID:     t.UserID,
		Name:       t.Name,
		Department: t.Department,
		Issue:      t.Issue,
		Priority:   t.Priority,
		Status:     t.Status,
		CreatedAt:  domain.FormatTimestamp(t.CreatedAt),
	}
}
