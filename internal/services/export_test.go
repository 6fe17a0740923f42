package services

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/ats-resume-analyzer/internal/models"
	"alfredoptarigan/ats-resume-analyzer/internal/schemas"
)

func loadResult(t *testing.T, fn func(doc map[string]any)) models.ResumeAnalysisResult {
	t.Helper()
	result, err := schemas.ValidateAnalysis([]byte(analysisJSON(t, fn)))
	require.NoError(t, err)
	return *result
}

func TestExportAnalysis_JSONRoundTrips(t *testing.T) {
	result := loadResult(t, nil)

	export, err := ExportAnalysis(result, ExportJSON)
	require.NoError(t, err)
	assert.Equal(t, "resume-analysis.json", export.FileName)
	assert.Equal(t, "application/json", export.ContentType)

	reloaded, err := schemas.ValidateAnalysis(export.Body)
	require.NoError(t, err)
	assert.Equal(t, result, *reloaded)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(export.Body, &generic))
	assert.Nil(t, generic["parsed"].(map[string]any)["contact"].(map[string]any)["phone"])
}

func TestExportAnalysis_ResumeText(t *testing.T) {
	export, err := ExportAnalysis(loadResult(t, nil), ExportResume)
	require.NoError(t, err)
	assert.Equal(t, "optimized-resume.txt", export.FileName)

	text := string(export.Body)
	assert.True(t, strings.HasPrefix(text, "Jane Doe\nSenior Backend Engineer\n"))
	assert.Contains(t, text, "Phone: \n")
	assert.Contains(t, text, "SKILLS:\nGo, PostgreSQL, Kubernetes, Go\n")
	assert.Contains(t, text, "Senior Backend Engineer at Acme Payments (2019-03 - )")
	assert.Contains(t, text, "BSc Computer Science from State University (2015)")
	assert.Contains(t, text, "ledgerctl: CLI for reconciling double-entry ledgers")
	assert.True(t, strings.HasSuffix(text, "CERTIFICATIONS:\nCKA"))
}

func TestExportAnalysis_SuggestionsSkipUnresolved(t *testing.T) {
	result := loadResult(t, func(doc map[string]any) {
		doc["line_item_suggestions"] = []any{
			map[string]any{
				"location":          map[string]any{"section": "experience", "index": 0},
				"suggested_bullets": []any{"Kept bullet"},
			},
			map[string]any{
				"location":          map[string]any{"section": "experience", "index": 7},
				"suggested_bullets": []any{"Dangling bullet"},
			},
			map[string]any{
				"location":          map[string]any{"section": "hobbies", "index": 0},
				"suggested_bullets": []any{"Unknown section bullet"},
			},
		}
	})

	export, err := ExportAnalysis(result, ExportSuggestions)
	require.NoError(t, err)

	text := string(export.Body)
	assert.Contains(t, text, "HIGH-LEVEL RECOMMENDATIONS:\nAdd a skills section ordered by relevance to target roles")
	assert.Contains(t, text, "DETAILED SUGGESTIONS:\nKept bullet\n")
	assert.NotContains(t, text, "Dangling bullet")
	assert.NotContains(t, text, "Unknown section bullet")
	assert.True(t, strings.HasSuffix(text, "JOB FIT RECOMMENDATIONS:\nProvide a job description for fit analysis"))
}

func TestExportAnalysis_UnknownFormat(t *testing.T) {
	_, err := ExportAnalysis(loadResult(t, nil), ExportFormat("pdf"))
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInvalidRequest))
	assert.Equal(t, 400, AsAnalysisError(err).StatusCode())
}
