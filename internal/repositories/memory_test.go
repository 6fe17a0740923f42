package repositories

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"alfredoptarigan/ats-resume-analyzer/internal/models"
)

func TestMemoryAnalysisRepository_CreateAndFind(t *testing.T) {
	repo := NewMemoryAnalysisRepository()
	title := "Staff Engineer"

	analysis := &models.ResumeAnalysis{
		OriginalText: "resume text",
		AnalysisData: datatypes.NewJSONType(models.ResumeAnalysisResult{
			Score:     81,
			FitForJob: models.JobFit{JDTitle: &title, MatchScore: 70},
		}),
	}
	require.NoError(t, repo.Create(analysis))
	assert.NotEqual(t, uuid.Nil, analysis.ID)
	assert.False(t, analysis.CreatedAt.IsZero())

	found, err := repo.FindByID(analysis.ID)
	require.NoError(t, err)
	assert.Equal(t, "resume text", found.OriginalText)
	assert.Equal(t, 81, found.Result().Score)
	assert.Equal(t, "Staff Engineer", *found.Result().FitForJob.JDTitle)
}

func TestMemoryAnalysisRepository_NotFound(t *testing.T) {
	repo := NewMemoryAnalysisRepository()

	_, err := repo.FindByID(uuid.New())
	assert.ErrorIs(t, err, ErrAnalysisNotFound)
}

func TestMemoryAnalysisRepository_StoresCopies(t *testing.T) {
	repo := NewMemoryAnalysisRepository()
	analysis := &models.ResumeAnalysis{ID: uuid.New(), OriginalText: "original"}
	require.NoError(t, repo.Create(analysis))

	analysis.OriginalText = "mutated after save"

	found, err := repo.FindByID(analysis.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", found.OriginalText)
}
