package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/boundary"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// UsersHandler exposes registration and login.
type UsersHandler struct {
	desk *boundary.Boundary
}

// NewUsersHandler constructs handler.
func NewUsersHandler(desk *boundary.Boundary) *UsersHandler {
	return &UsersHandler{desk: desk}
}

// Register handles POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	res := h.desk.Register(c.UserContext(), boundary.RegisterRequest{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Department: req.Department,
	})
	return writeResult(c, res, http.StatusCreated)
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user := h.desk.Login(c.UserContext(), boundary.LoginRequest{Email: req.Email, Password: req.Password})
	if user == nil {
		return apperrors.NewUnauthorized("invalid email or password")
	}

	token, exp, err := h.desk.IssueToken(user)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		User: user,
		Auth: dto.AuthResponse{Token: token, ExpiresAt: exp},
	}})
}
