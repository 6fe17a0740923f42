package models

import "time"

// AnalyzeRequest carries the non-file form fields of POST /api/analyze.
type AnalyzeRequest struct {
	ResumeText     string `form:"resumeText" json:"resumeText"`
	JobDescription string `form:"jobDescription" json:"jobDescription" validate:"max=20000"`
}

type AnalyzeMetadata struct {
	FileName   *string   `json:"fileName,omitempty"`
	AnalyzedAt time.Time `json:"analyzedAt"`
	AnalysisID *string   `json:"analysisId,omitempty"`
}

type AnalyzeResponse struct {
	Success  bool                 `json:"success"`
	Data     ResumeAnalysisResult `json:"data"`
	Metadata AnalyzeMetadata      `json:"metadata"`
}

type AnalysisResponse struct {
	Success bool           `json:"success"`
	Data    ResumeAnalysis `json:"data"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
