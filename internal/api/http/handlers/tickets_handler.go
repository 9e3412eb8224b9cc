package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/boundary"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	desk *boundary.Boundary
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(desk *boundary.Boundary) *TicketsHandler {
	return &TicketsHandler{desk: desk}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		req.Name = principal.User.Name
	}
	if strings.TrimSpace(req.Department) == "" {
		req.Department = principal.User.Department
	}

	session := &boundary.Session{UserID: principal.User.ID, Role: principal.User.Role}
	res := h.desk.CreateTicket(c.UserContext(), session, boundary.CreateTicketRequest{
		Name:       req.Name,
		Department: req.Department,
		Issue:      req.Issue,
		Priority:   req.Priority,
	})
	return writeResult(c, res, http.StatusCreated)
}

// ListTickets GET /tickets. Users see their own tickets; admins see all,
// optionally narrowed with ?user_id=.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	var userID *int64
	if principal.IsAdmin() {
		if raw := c.Query("user_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return apperrors.NewValidationError("user_id must be an integer", nil)
			}
			userID = &id
		}
	} else {
		id := principal.User.ID
		userID = &id
	}

	return c.JSON(dto.TicketListResponse{Data: h.desk.FetchTickets(c.UserContext(), userID)})
}

// UpdateStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("ticket id must be an integer", nil)
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	res := h.desk.UpdateStatus(c.UserContext(), boundary.UpdateStatusRequest{ID: id, Status: req.Status})
	return writeResult(c, res, http.StatusOK)
}
