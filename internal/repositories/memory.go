package repositories

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/ats-resume-analyzer/internal/models"
)

type memoryAnalysisRepository struct {
	mu       sync.RWMutex
	analyses map[uuid.UUID]models.ResumeAnalysis
}

// NewMemoryAnalysisRepository returns a process-local store. Contents are lost
// on restart.
func NewMemoryAnalysisRepository() AnalysisRepository {
	return &memoryAnalysisRepository{
		analyses: make(map[uuid.UUID]models.ResumeAnalysis),
	}
}

// Create implements AnalysisRepository.
func (r *memoryAnalysisRepository) Create(analysis *models.ResumeAnalysis) error {
	if analysis.ID == uuid.Nil {
		analysis.ID = uuid.New()
	}
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyses[analysis.ID] = *analysis

	return nil
}

// FindByID implements AnalysisRepository.
func (r *memoryAnalysisRepository) FindByID(id uuid.UUID) (*models.ResumeAnalysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	analysis, ok := r.analyses[id]
	if !ok {
		return nil, ErrAnalysisNotFound
	}
	return &analysis, nil
}
