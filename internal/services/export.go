package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"alfredoptarigan/ats-resume-analyzer/internal/models"
)

type ExportFormat string

const (
	ExportJSON        ExportFormat = "json"
	ExportResume      ExportFormat = "resume"
	ExportSuggestions ExportFormat = "suggestions"
)

// Export is a rendered download.
type Export struct {
	FileName    string
	ContentType string
	Body        []byte
}

// ExportAnalysis renders a stored analysis in the requested format. The
// analysis is read only.
func ExportAnalysis(result models.ResumeAnalysisResult, format ExportFormat) (*Export, error) {
	switch format {
	case ExportJSON:
		body, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, ErrInternal(fmt.Errorf("failed to encode analysis: %w", err))
		}
		return &Export{FileName: "resume-analysis.json", ContentType: "application/json", Body: body}, nil
	case ExportResume:
		return &Export{FileName: "optimized-resume.txt", ContentType: "text/plain; charset=utf-8", Body: []byte(OptimizedResumeText(result))}, nil
	case ExportSuggestions:
		return &Export{FileName: "resume-suggestions.txt", ContentType: "text/plain; charset=utf-8", Body: []byte(SuggestionsText(result))}, nil
	default:
		return nil, newError(KindInvalidRequest, "Unsupported export format. Use json, resume, or suggestions.", fmt.Errorf("unknown export format %q", format))
	}
}

// SuggestionsText lists every suggestion in the analysis. Line-item
// suggestions that point outside the parsed resume are skipped.
func SuggestionsText(result models.ResumeAnalysisResult) string {
	lines := []string{"HIGH-LEVEL RECOMMENDATIONS:"}
	lines = append(lines, result.HighLevelAdvice...)
	lines = append(lines, "", "DETAILED SUGGESTIONS:")
	for _, s := range result.ResolvedSuggestions() {
		lines = append(lines, s.SuggestedBullets...)
	}
	lines = append(lines, "", "JOB FIT RECOMMENDATIONS:")
	lines = append(lines, result.FitForJob.Recommendations...)

	return strings.Join(lines, "\n")
}

// OptimizedResumeText renders the parsed resume as plain text.
func OptimizedResumeText(result models.ResumeAnalysisResult) string {
	p := result.Parsed

	lines := []string{
		deref(p.Name),
		deref(p.Title),
		"",
		"CONTACT:",
		"Email: " + deref(p.Contact.Email),
		"Phone: " + deref(p.Contact.Phone),
		"LinkedIn: " + deref(p.Contact.LinkedIn),
		"",
		"SUMMARY:",
		deref(p.Summary),
		"",
		"SKILLS:",
		strings.Join(p.Skills, ", "),
		"",
		"EXPERIENCE:",
	}

	for _, exp := range p.Experience {
		lines = append(lines, fmt.Sprintf("%s at %s (%s - %s)", exp.Title, exp.Company, deref(exp.Start), deref(exp.End)))
		lines = append(lines, exp.Bullets...)
		lines = append(lines, "")
	}

	lines = append(lines, "EDUCATION:")
	for _, edu := range p.Education {
		lines = append(lines, fmt.Sprintf("%s from %s (%s)", edu.Degree, edu.School, deref(edu.Year)))
	}

	lines = append(lines, "", "PROJECTS:")
	for _, project := range p.Projects {
		lines = append(lines, fmt.Sprintf("%s: %s", project.Name, project.Desc))
	}

	lines = append(lines, "", "CERTIFICATIONS:")
	lines = append(lines, p.Certifications...)

	return strings.Join(lines, "\n")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
