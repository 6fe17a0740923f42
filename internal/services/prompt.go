package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnalysisInstruction creates the system instruction for resume analysis.
// The job description is appended only when one was supplied.
func (pb *PromptBuilder) BuildAnalysisInstruction(jobDescription string) string {
	var sb strings.Builder

	sb.WriteString(`You are an expert ATS (Applicant Tracking System) and resume analysis AI.
Analyze the provided resume text and return a structured JSON response with the exact schema specified.

IMPORTANT PARSING RULES:
- Extract information conservatively - only include data that is clearly present
- Return null for missing fields, empty arrays for missing lists - never invent data
- Be precise with dates, companies, and titles
- Focus on quantifiable achievements and metrics
- Provide actionable, specific suggestions (max 18 words each)
- line_item_suggestions.location.index is the zero-based position of the record in the parsed section it targets

SCORING CRITERIA (0-100):
- Format & Structure (25%): Clear sections, proper formatting, length
- Keywords & Skills (30%): Industry-relevant terms, technical skills
- Achievements (25%): Quantified results, impact metrics
- ATS Compatibility (20%): Keyword density, formatting compatibility
The overall score is the weighted sum of these four sub-scores, as an integer.
`)

	if jd := strings.TrimSpace(jobDescription); jd != "" {
		sb.WriteString(fmt.Sprintf(`
JOB DESCRIPTION FOR FIT ANALYSIS:
%s

Fill fit_for_job by comparing the resume against this job description: jd_title is the job title it names, match_score is 0-100, gaps lists missing requirements, recommendations lists concrete changes.
`, jd))
	} else {
		sb.WriteString(`
No job description was supplied. Set fit_for_job.jd_title to null and fit_for_job.match_score to 0, and use gaps and recommendations to explain that a job description is needed for fit analysis.
`)
	}

	sb.WriteString("\nRespond with valid JSON only, matching the response schema exactly.")

	return sb.String()
}
