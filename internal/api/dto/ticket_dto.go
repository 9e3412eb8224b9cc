package dto

import "github.com/spec-kit/support-desk/internal/boundary"

// CreateTicketRequest payload. Name and department default to the caller's profile.
type CreateTicketRequest struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Issue      string `json:"issue"`
	Priority   string `json:"priority"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// TicketListResponse wraps a ticket listing.
type TicketListResponse struct {
	Data []boundary.TicketRecord `json:"data"`
}
