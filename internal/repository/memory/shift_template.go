package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/shift-attendance/internal/domain/schedule"
)

// ShiftTemplateStore is an in-memory schedule.ShiftTemplateRepository.
type ShiftTemplateStore struct {
	mu        sync.RWMutex
	templates []schedule.ShiftTemplate
}

func NewShiftTemplateStore(templates ...schedule.ShiftTemplate) *ShiftTemplateStore {
	return &ShiftTemplateStore{templates: templates}
}

// ListActive implements schedule.ShiftTemplateRepository.
func (s *ShiftTemplateStore) ListActive(ctx context.Context) ([]schedule.ShiftTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []schedule.ShiftTemplate
	for _, t := range s.templates {
		if t.Active {
			out = append(out, t)
		}
	}
	return out, nil
}
