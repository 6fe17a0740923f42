package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ats-resume-analyzer/internal/models"
	"alfredoptarigan/ats-resume-analyzer/internal/services"
)

// RegisterRoutes mounts the API on app.
func RegisterRoutes(app *fiber.App, analyzeHandler *AnalyzeHandler, resultHandler *ResultHandler) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	api.Post("/analyze", analyzeHandler.HandleAnalyze)
	api.Get("/analysis/:id", resultHandler.HandleGetResult)
	api.Get("/analysis/:id/export", resultHandler.HandleExport)
}

// ErrorHandler renders errors that escape the handlers, including fiber's own
// body-limit rejection, in the {message} shape.
func ErrorHandler(maxFileSize int64) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "An error occurred while analyzing your resume. Please try again."

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		}

		if code == fiber.StatusRequestEntityTooLarge {
			message = services.FileTooLargeMessage(maxFileSize)
		}

		return c.Status(code).JSON(models.ErrorResponse{Message: message})
	}
}
