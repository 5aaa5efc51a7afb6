package slugs

import (
	"context"
	"sync"

	"github.com/goliatone/go-appcontent/content"
)

// MemoryTrailRepository is an in-memory slug trail store for scaffolding/tests.
type MemoryTrailRepository struct {
	mu     sync.RWMutex
	byOld  map[string]*content.SlugTrail
	trails []*content.SlugTrail
}

// NewMemoryTrailRepository constructs the repository.
func NewMemoryTrailRepository() *MemoryTrailRepository {
	return &MemoryTrailRepository{byOld: make(map[string]*content.SlugTrail)}
}

// Append stores the trail row. Later renames of the same old slug overwrite
// the lookup entry so resolution always follows the newest mapping.
func (m *MemoryTrailRepository) Append(_ context.Context, trail *content.SlugTrail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *trail
	m.trails = append(m.trails, &copied)
	m.byOld[copied.OldSlug] = &copied
	return nil
}

// GetByOldSlug returns the most recent mapping for an old slug.
func (m *MemoryTrailRepository) GetByOldSlug(_ context.Context, oldSlug string) (*content.SlugTrail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trail, ok := m.byOld[oldSlug]
	if !ok {
		return nil, ErrSlugNotFound
	}
	copied := *trail
	return &copied, nil
}

// Len reports how many trail rows were appended.
func (m *MemoryTrailRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trails)
}
