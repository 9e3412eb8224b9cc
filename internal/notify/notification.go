package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/spec-kit/support-desk/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Notification is the outbound message sent to IT staff for a new ticket.
type Notification struct {
	EventID    string                `json:"event_id"`
	TicketID   int64                 `json:"ticket_id"`
	Name       string                `json:"name"`
	Department string                `json:"department"`
	Issue      string                `json:"issue"`
	Priority   domain.TicketPriority `json:"priority"`
	CreatedAt  string                `json:"created_at"`
}

// Subject renders the email subject line.
func (n Notification) Subject() string {
	return fmt.Sprintf("New IT Ticket [%s] - #%d", n.Priority, n.TicketID)
}

// Body renders the plain-text email body.
func (n Notification) Body() string {
	var b strings.Builder
	b.WriteString("New IT support ticket created\n")
	fmt.Fprintf(&b, "ID: %d\n", n.TicketID)
	fmt.Fprintf(&b, "From: %s (%s)\n", n.Name, n.Department)
	fmt.Fprintf(&b, "Priority: %s\n", n.Priority)
	b.WriteString("Issue:\n")
	b.WriteString(n.Issue)
	b.WriteString("\n")
	return b.String()
}

// Notifier delivers a notification through one channel.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Multi fans a notification out to every configured notifier.
type Multi []Notifier

// Notify delivers to every notifier and joins the failures.
func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
