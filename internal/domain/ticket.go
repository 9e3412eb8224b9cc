package domain

import (
	"time"

	"github.com/guregu/null/v5"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "Pending"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusSolved     TicketStatus = "Solved"
)

// Valid reports whether s is one of the known statuses.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusPending, TicketStatusInProgress, TicketStatusSolved:
		return true
	}
	return false
}

// ParseTicketStatus converts raw input into a known status.
func ParseTicketStatus(raw string) (TicketStatus, bool) {
	s := TicketStatus(raw)
	return s, s.Valid()
}

// TicketPriority enumerates severity labels assigned by the classifier.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
)

// TimestampLayout is the fixed-width UTC layout used for created_at so
// that lexical order matches chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a value produced by FormatTimestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}

// Ticket is a single support request. Name and Department are a snapshot
// of the reporter at submission time; Priority and CreatedAt never change.
type Ticket struct {
	ID         int64
	UserID     null.Int
	Name       string
	Department string
	Issue      string
	Priority   TicketPriority
	Status     TicketStatus
	CreatedAt  time.Time
}
