package microcontent

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-appcontent/domain"
)

// MemoryRepository is an in-memory micro-content store for scaffolding/tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*Item
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[uuid.UUID]*Item)}
}

// GetItem returns the item for (content, key, state) with its localizations.
func (m *MemoryRepository) GetItem(_ context.Context, contentID uuid.UUID, key string, state domain.Status) (*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if item.TemplateContentID == contentID && item.ContentKey == key && item.State == state {
			return item.Clone(), nil
		}
	}
	return nil, &NotFoundError{Key: key}
}

// ListItems returns every item of a state for the content aggregate.
func (m *MemoryRepository) ListItems(_ context.Context, contentID uuid.UUID, state domain.Status) ([]*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Item, 0)
	for _, item := range m.items {
		if item.TemplateContentID == contentID && item.State == state {
			out = append(out, item.Clone())
		}
	}
	return out, nil
}

// SaveItem upserts the item and its localized rows.
func (m *MemoryRepository) SaveItem(_ context.Context, item *Item) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := item.Clone()
	m.items[copied.ID] = copied
	return copied.Clone(), nil
}

// DeleteItem removes the item and all its localized rows.
func (m *MemoryRepository) DeleteItem(_ context.Context, itemID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, itemID)
	return nil
}

// DeleteLocalization removes one language's row from an item.
func (m *MemoryRepository) DeleteLocalization(_ context.Context, itemID uuid.UUID, language string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemID]
	if !ok {
		return &NotFoundError{Key: itemID.String()}
	}
	remaining := item.Localizations[:0]
	for _, loc := range item.Localizations {
		if loc.Language != language {
			remaining = append(remaining, loc)
		}
	}
	item.Localizations = remaining
	return nil
}
