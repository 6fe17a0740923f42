package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"

	"alfredoptarigan/ats-resume-analyzer/internal/models"
	"alfredoptarigan/ats-resume-analyzer/internal/services"
)

type AnalyzeHandler struct {
	analyzer services.AnalyzerService
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewAnalyzeHandler(analyzer services.AnalyzerService, logger zerolog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		validate: validator.New(),
		logger:   logger.With().Str("component", "analyze_handler").Logger(),
	}
}

// HandleAnalyze handles POST /api/analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
				Message: "Invalid request payload",
			})
		}
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Message: "Job description is too long (maximum 20,000 characters)",
		})
	}

	// Parsed form values alias fasthttp's request buffer, which is reused once
	// the handler returns. The analysis may outlive the request in the store.
	input := services.AnalyzeInput{
		ResumeText:     utils.CopyString(req.ResumeText),
		JobDescription: utils.CopyString(req.JobDescription),
	}

	// A missing file part is not an error: the text field is the fallback.
	if fileHeader, err := c.FormFile("resume"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return writeError(c, services.ErrInternal(fmt.Errorf("failed to open uploaded file: %w", err)))
		}
		defer file.Close()

		input.Upload = &services.Upload{
			FileName: fileHeader.Filename,
			MimeType: fileHeader.Header.Get(fiber.HeaderContentType),
			Size:     fileHeader.Size,
			Content:  file,
		}
	}

	output, err := h.analyzer.Analyze(c.UserContext(), input)
	if err != nil {
		return writeError(c, err)
	}

	metadata := models.AnalyzeMetadata{
		FileName:   output.FileName,
		AnalyzedAt: output.AnalyzedAt,
	}
	if output.AnalysisID != nil {
		id := output.AnalysisID.String()
		metadata.AnalysisID = &id
	}

	return c.JSON(models.AnalyzeResponse{
		Success:  true,
		Data:     *output.Result,
		Metadata: metadata,
	})
}
