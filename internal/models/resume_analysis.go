package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ResumeAnalysis is a stored analysis. Storage is optional and never
// authoritative: the HTTP response is the source of truth.
type ResumeAnalysis struct {
	ID           uuid.UUID                                `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID       *string                                  `gorm:"type:varchar" json:"userId"`
	OriginalText string                                   `gorm:"type:text;not null" json:"originalText"`
	FileName     *string                                  `gorm:"type:text" json:"fileName"`
	AnalysisData datatypes.JSONType[ResumeAnalysisResult] `gorm:"type:jsonb;not null" json:"analysisData"`
	CreatedAt    time.Time                                `gorm:"default:now()" json:"createdAt"`
}

func (ResumeAnalysis) TableName() string {
	return "resume_analyses"
}

// Result returns a copy of the stored analysis payload.
func (r *ResumeAnalysis) Result() ResumeAnalysisResult {
	return r.AnalysisData.Data()
}
