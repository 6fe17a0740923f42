package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"alfredoptarigan/ats-resume-analyzer/internal/models"
	"alfredoptarigan/ats-resume-analyzer/internal/repositories"
	"alfredoptarigan/ats-resume-analyzer/internal/services"
)

type ResultHandler struct {
	analysisRepo repositories.AnalysisRepository
	logger       zerolog.Logger
}

func NewResultHandler(analysisRepo repositories.AnalysisRepository, logger zerolog.Logger) *ResultHandler {
	return &ResultHandler{
		analysisRepo: analysisRepo,
		logger:       logger.With().Str("component", "result_handler").Logger(),
	}
}

// HandleGetResult handles GET /api/analysis/:id
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	analysis, err := h.find(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(models.AnalysisResponse{
		Success: true,
		Data:    *analysis,
	})
}

// HandleExport handles GET /api/analysis/:id/export?format=json|resume|suggestions
func (h *ResultHandler) HandleExport(c *fiber.Ctx) error {
	analysis, err := h.find(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	format := services.ExportFormat(c.Query("format", string(services.ExportJSON)))
	export, err := services.ExportAnalysis(analysis.Result(), format)
	if err != nil {
		return writeError(c, err)
	}

	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.FileName))
	return c.Send(export.Body)
}

func (h *ResultHandler) find(idParam string) (*models.ResumeAnalysis, error) {
	id, err := uuid.Parse(idParam)
	if err != nil {
		return nil, services.ErrNotFound("Analysis")
	}

	analysis, err := h.analysisRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrAnalysisNotFound) {
			return nil, services.ErrNotFound("Analysis")
		}
		h.logger.Error().Err(err).Str("analysis_id", idParam).Msg("❌ Failed to retrieve analysis")
		return nil, &services.AnalysisError{
			Kind:    services.KindInternal,
			Message: "Failed to retrieve analysis",
			Err:     err,
		}
	}

	return analysis, nil
}
