package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"alfredoptarigan/ats-resume-analyzer/internal/models"
	"alfredoptarigan/ats-resume-analyzer/internal/repositories"
	"alfredoptarigan/ats-resume-analyzer/internal/schemas"
)

type AnalysisState string

const (
	StateReceived  AnalysisState = "received"
	StateExtracted AnalysisState = "extracted"
	StateValidated AnalysisState = "validated"
	StateRequested AnalysisState = "requested"
	StateVerified  AnalysisState = "verified"
	StateCompleted AnalysisState = "completed"
	StateFailed    AnalysisState = "failed"
)

// AnalyzeInput is one analysis request. Upload wins over ResumeText when both
// are present.
type AnalyzeInput struct {
	Upload         *Upload
	ResumeText     string
	JobDescription string
}

type AnalyzeOutput struct {
	Result     *models.ResumeAnalysisResult
	FileName   *string
	AnalyzedAt time.Time
	AnalysisID *uuid.UUID
}

type AnalyzerService interface {
	Analyze(ctx context.Context, input AnalyzeInput) (*AnalyzeOutput, error)
}

type analyzerService struct {
	extractor    DocumentExtractor
	requester    AnalysisRequester
	pool         AnalysisPool
	repo         repositories.AnalysisRepository
	storeResults bool
	logger       zerolog.Logger
	now          func() time.Time
}

// NewAnalyzerService wires the pipeline. repo may be nil when analyses are not
// stored.
func NewAnalyzerService(
	extractor DocumentExtractor,
	requester AnalysisRequester,
	pool AnalysisPool,
	repo repositories.AnalysisRepository,
	storeResults bool,
	logger zerolog.Logger,
) AnalyzerService {
	return &analyzerService{
		extractor:    extractor,
		requester:    requester,
		pool:         pool,
		repo:         repo,
		storeResults: storeResults && repo != nil,
		logger:       logger.With().Str("component", "analyzer").Logger(),
		now:          time.Now,
	}
}

// run tracks the state of a single analysis.
type run struct {
	state  AnalysisState
	logger zerolog.Logger
}

func (r *run) advance(state AnalysisState) {
	r.logger.Debug().Str("from", string(r.state)).Str("to", string(state)).Msg("🔄 Analysis state changed")
	r.state = state
}

func (r *run) fail(err error) error {
	ae := AsAnalysisError(err)
	event := r.logger.Info()
	if !ae.ClientFault() {
		event = r.logger.Error()
	}
	event.Err(ae.Err).
		Str("state", string(r.state)).
		Str("kind", string(ae.Kind)).
		Msg("❌ Analysis failed")
	r.state = StateFailed
	return ae
}

// Analyze implements AnalyzerService.
func (s *analyzerService) Analyze(ctx context.Context, input AnalyzeInput) (*AnalyzeOutput, error) {
	runID := uuid.NewString()
	r := &run{
		state:  StateReceived,
		logger: s.logger.With().Str("run_id", runID).Logger(),
	}

	var output *AnalyzeOutput
	err := s.pool.Submit(ctx, func(ctx context.Context) error {
		var err error
		output, err = s.analyze(ctx, r, input)
		return err
	})
	if err == nil {
		return output, nil
	}

	var ae *AnalysisError
	if errors.As(err, &ae) {
		return nil, ae
	}

	// The task never ran or was abandoned; r may still be in use by a worker.
	s.logger.Error().Err(err).Str("run_id", runID).Msg("❌ Analysis did not complete")
	return nil, ErrProvider(err)
}

func (s *analyzerService) analyze(ctx context.Context, r *run, input AnalyzeInput) (*AnalyzeOutput, error) {
	var (
		resumeText string
		fileName   *string
	)

	// Received -> Extracted
	switch {
	case input.Upload != nil:
		doc, err := s.extractor.Extract(ctx, *input.Upload)
		if err != nil {
			return nil, r.fail(err)
		}
		resumeText = doc.Text
		if input.Upload.FileName != "" {
			name := input.Upload.FileName
			fileName = &name
		}
	case strings.TrimSpace(input.ResumeText) != "":
		resumeText = input.ResumeText
	default:
		return nil, r.fail(newError(KindEmptyInput, "No resume provided. Please upload a file or provide text input.", nil))
	}
	r.advance(StateExtracted)

	// Extracted -> Validated
	if err := ValidateResumeText(resumeText); err != nil {
		return nil, r.fail(err)
	}
	r.advance(StateValidated)

	// Validated -> Requested
	raw, err := s.requester.Request(ctx, resumeText, input.JobDescription)
	if err != nil {
		return nil, r.fail(err)
	}
	r.advance(StateRequested)

	// Requested -> Verified
	result, err := schemas.ValidateAnalysis(raw)
	if err != nil {
		return nil, r.fail(ErrSchemaViolation(err))
	}
	normalizeJobFit(r, result, input.JobDescription)
	r.advance(StateVerified)

	// Verified -> Completed
	output := &AnalyzeOutput{
		Result:     result,
		FileName:   fileName,
		AnalyzedAt: s.now().UTC(),
	}

	if s.storeResults {
		output.AnalysisID = s.store(r, resumeText, fileName, result)
	}

	r.advance(StateCompleted)
	r.logger.Info().Int("score", result.Score).Msg("✅ Analysis completed")

	return output, nil
}

// normalizeJobFit makes jd_title null exactly when no job description was
// supplied. Without one the match score is zeroed; with one a missing title
// falls back to the first line of the job description.
func normalizeJobFit(r *run, result *models.ResumeAnalysisResult, jobDescription string) {
	jd := strings.TrimSpace(jobDescription)
	if jd == "" {
		result.FitForJob.JDTitle = nil
		result.FitForJob.MatchScore = 0
		return
	}

	if result.FitForJob.JDTitle != nil && strings.TrimSpace(*result.FitForJob.JDTitle) != "" {
		return
	}

	title := fallbackJobTitle(jd)
	r.logger.Warn().Str("fallback_title", title).Msg("⚠️  Model returned no job title for a supplied job description")
	result.FitForJob.JDTitle = &title
}

const maxFallbackTitleLen = 80

func fallbackJobTitle(jd string) string {
	line, _, _ := strings.Cut(jd, "\n")
	line = strings.TrimSpace(line)
	if runes := []rune(line); len(runes) > maxFallbackTitleLen {
		line = strings.TrimSpace(string(runes[:maxFallbackTitleLen])) + "…"
	}
	return line
}

// store persists the analysis. Failures are logged and never fail the request.
func (s *analyzerService) store(r *run, resumeText string, fileName *string, result *models.ResumeAnalysisResult) *uuid.UUID {
	record := &models.ResumeAnalysis{
		ID:           uuid.New(),
		OriginalText: resumeText,
		FileName:     fileName,
		AnalysisData: datatypes.NewJSONType(*result),
		CreatedAt:    s.now().UTC(),
	}

	if err := s.repo.Create(record); err != nil {
		r.logger.Warn().Err(err).Msg("⚠️  Failed to store analysis")
		return nil
	}

	r.logger.Debug().Str("analysis_id", record.ID.String()).Msg("💾 Analysis stored")
	return &record.ID
}
