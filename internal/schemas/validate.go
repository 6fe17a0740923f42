package schemas

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"alfredoptarigan/ats-resume-analyzer/internal/models"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("analysis does not match schema:")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %d. %s: %s;", i+1, err.Field, err.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

var (
	compileOnce sync.Once
	compiled    *gojsonschema.Schema
	compileErr  error
)

func analysisSchema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = gojsonschema.NewSchema(gojsonschema.NewGoLoader(JSONSchema()))
		if compileErr != nil {
			compileErr = fmt.Errorf("failed to compile analysis schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// ValidateAnalysis checks a raw provider payload against the analysis schema
// and decodes it. Any mismatch is reported as *ValidationError.
func ValidateAnalysis(raw []byte) (*models.ResumeAnalysisResult, error) {
	schema, err := analysisSchema()
	if err != nil {
		return nil, err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, &ValidationError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}

	if !result.Valid() {
		validationErr := &ValidationError{
			Errors: make([]FieldError, 0, len(result.Errors())),
		}
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			validationErr.Errors = append(validationErr.Errors, FieldError{
				Field:   field,
				Message: desc.Description(),
			})
		}
		return nil, validationErr
	}

	var analysis models.ResumeAnalysisResult
	if err := json.Unmarshal(raw, &analysis); err != nil {
		return nil, &ValidationError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}

	return &analysis, nil
}

// Validate checks an already decoded analysis against the schema. Nil slices
// are treated as empty lists; analysis itself is not modified.
func Validate(analysis *models.ResumeAnalysisResult) error {
	raw, err := json.Marshal(withEmptyLists(*analysis))
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	_, err = ValidateAnalysis(raw)
	return err
}

func withEmptyLists(r models.ResumeAnalysisResult) models.ResumeAnalysisResult {
	p := &r.Parsed
	p.Skills = nonNil(p.Skills)
	p.Certifications = nonNil(p.Certifications)
	p.Education = nonNil(p.Education)
	p.Projects = nonNil(p.Projects)

	experience := make([]models.Experience, len(p.Experience))
	for i, exp := range p.Experience {
		exp.Bullets = nonNil(exp.Bullets)
		experience[i] = exp
	}
	p.Experience = experience

	suggestions := make([]models.LineItemSuggestion, len(r.LineItemSuggestions))
	for i, s := range r.LineItemSuggestions {
		s.SuggestedBullets = nonNil(s.SuggestedBullets)
		suggestions[i] = s
	}
	r.LineItemSuggestions = suggestions

	r.HighLevelAdvice = nonNil(r.HighLevelAdvice)
	r.FitForJob.Gaps = nonNil(r.FitForJob.Gaps)
	r.FitForJob.Recommendations = nonNil(r.FitForJob.Recommendations)

	return r
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
