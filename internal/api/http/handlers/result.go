package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/boundary"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// writeResult renders a boundary result with the status its code maps to.
func writeResult(c *fiber.Ctx, res boundary.Result, okStatus int) error {
	if res.Success {
		return c.Status(okStatus).JSON(res)
	}
	return c.Status(apperrors.StatusForCode(res.Code)).JSON(res)
}
