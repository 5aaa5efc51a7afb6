package flags

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository used by tests and examples.
type MemoryRepository struct {
	mu          sync.RWMutex
	assignments map[uuid.UUID]*FlagAssignment
}

// NewMemoryRepository builds an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{assignments: map[uuid.UUID]*FlagAssignment{}}
}

func (m *MemoryRepository) Save(ctx context.Context, assignment *FlagAssignment) (*FlagAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *assignment
	m.assignments[assignment.ID] = &clone
	out := clone
	return &out, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, contentID uuid.UUID, flag string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, assignment := range m.assignments {
		if assignment.TemplateContentID == contentID && assignment.Flag == flag {
			delete(m.assignments, id)
			return nil
		}
	}
	return ErrNotAssigned
}

func (m *MemoryRepository) ListByFlag(ctx context.Context, flag string) ([]*FlagAssignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*FlagAssignment
	for _, assignment := range m.assignments {
		if assignment.Flag == flag {
			clone := *assignment
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *MemoryRepository) ListByContent(ctx context.Context, contentID uuid.UUID) ([]*FlagAssignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*FlagAssignment
	for _, assignment := range m.assignments {
		if assignment.TemplateContentID == contentID {
			clone := *assignment
			out = append(out, &clone)
		}
	}
	return out, nil
}
