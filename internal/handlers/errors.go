package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ats-resume-analyzer/internal/models"
	"alfredoptarigan/ats-resume-analyzer/internal/services"
)

// writeError renders err as {message}. Server faults only ever expose the
// generic message of their kind.
func writeError(c *fiber.Ctx, err error) error {
	ae := services.AsAnalysisError(err)
	return c.Status(ae.StatusCode()).JSON(models.ErrorResponse{
		Message: ae.Message,
	})
}
