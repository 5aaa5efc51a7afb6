package navigation

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository used by tests and examples.
type MemoryRepository struct {
	mu          sync.RWMutex
	navigations map[uuid.UUID]*Navigation
	locales     map[uuid.UUID]*LocalizedNavigation
	entries     map[uuid.UUID]*NavigationEntry
	labels      map[uuid.UUID]*LocalizedNavigationEntry
}

// NewMemoryRepository builds an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		navigations: map[uuid.UUID]*Navigation{},
		locales:     map[uuid.UUID]*LocalizedNavigation{},
		entries:     map[uuid.UUID]*NavigationEntry{},
		labels:      map[uuid.UUID]*LocalizedNavigationEntry{},
	}
}

func (m *MemoryRepository) SaveNavigation(ctx context.Context, nav *Navigation) (*Navigation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.navigations[nav.ID] = nav.Clone()
	return nav.Clone(), nil
}

func (m *MemoryRepository) GetNavigation(ctx context.Context, appID uuid.UUID, navType string) (*Navigation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, nav := range m.navigations {
		if nav.AppID == appID && nav.Type == navType {
			return nav.Clone(), nil
		}
	}
	return nil, &NotFoundError{Resource: "navigation", Key: navType}
}

func (m *MemoryRepository) ListNavigations(ctx context.Context, appID uuid.UUID) ([]*Navigation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Navigation
	for _, nav := range m.navigations {
		if nav.AppID == appID {
			out = append(out, nav.Clone())
		}
	}
	return out, nil
}

func (m *MemoryRepository) DeleteNavigation(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.navigations[id]; !ok {
		return &NotFoundError{Resource: "navigation", Key: id.String()}
	}
	delete(m.navigations, id)
	for localeID, locale := range m.locales {
		if locale.NavigationID == id {
			delete(m.locales, localeID)
		}
	}
	for entryID, entry := range m.entries {
		if entry.NavigationID == id {
			delete(m.entries, entryID)
		}
	}
	for labelID, label := range m.labels {
		if label.NavigationID == id {
			delete(m.labels, labelID)
		}
	}
	return nil
}

func (m *MemoryRepository) SaveLocale(ctx context.Context, locale *LocalizedNavigation) (*LocalizedNavigation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.locales[locale.ID] = locale.Clone()
	return locale.Clone(), nil
}

func (m *MemoryRepository) GetLocale(ctx context.Context, navigationID uuid.UUID, language string) (*LocalizedNavigation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, locale := range m.locales {
		if locale.NavigationID == navigationID && locale.Language == language {
			return locale.Clone(), nil
		}
	}
	return nil, &NotFoundError{Resource: "navigation_locale", Key: language}
}

func (m *MemoryRepository) ListLocales(ctx context.Context, navigationID uuid.UUID) ([]*LocalizedNavigation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*LocalizedNavigation
	for _, locale := range m.locales {
		if locale.NavigationID == navigationID {
			out = append(out, locale.Clone())
		}
	}
	return out, nil
}

func (m *MemoryRepository) CreateEntry(ctx context.Context, entry *NavigationEntry) (*NavigationEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[entry.ID] = entry.Clone()
	return entry.Clone(), nil
}

func (m *MemoryRepository) UpdateEntry(ctx context.Context, entry *NavigationEntry) (*NavigationEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[entry.ID]; !ok {
		return nil, &NotFoundError{Resource: "navigation_entry", Key: entry.ID.String()}
	}
	m.entries[entry.ID] = entry.Clone()
	return entry.Clone(), nil
}

func (m *MemoryRepository) GetEntry(ctx context.Context, id uuid.UUID) (*NavigationEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[id]
	if !ok {
		return nil, &NotFoundError{Resource: "navigation_entry", Key: id.String()}
	}
	return entry.Clone(), nil
}

func (m *MemoryRepository) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[id]; !ok {
		return &NotFoundError{Resource: "navigation_entry", Key: id.String()}
	}
	delete(m.entries, id)
	for labelID, label := range m.labels {
		if label.EntryID == id {
			delete(m.labels, labelID)
		}
	}
	return nil
}

func (m *MemoryRepository) SaveEntryLabel(ctx context.Context, label *LocalizedNavigationEntry) (*LocalizedNavigationEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := label.Clone()
	if existing, ok := m.labels[label.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	}
	m.labels[label.ID] = stored
	return stored.Clone(), nil
}

func (m *MemoryRepository) DeleteEntryLabel(ctx context.Context, entryID uuid.UUID, language string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for labelID, label := range m.labels {
		if label.EntryID == entryID && label.Language == language {
			delete(m.labels, labelID)
			return nil
		}
	}
	return &NotFoundError{Resource: "navigation_entry_label", Key: language}
}

func (m *MemoryRepository) ListEntryLabels(ctx context.Context, navigationID uuid.UUID, language string) ([]*LocalizedNavigationEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*LocalizedNavigationEntry
	for _, label := range m.labels {
		if label.NavigationID == navigationID && label.Language == language {
			out = append(out, label.Clone())
		}
	}
	return out, nil
}

func (m *MemoryRepository) ListEntries(ctx context.Context, navigationID uuid.UUID) ([]*NavigationEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*NavigationEntry
	for _, entry := range m.entries {
		if entry.NavigationID == navigationID {
			out = append(out, entry.Clone())
		}
	}
	return out, nil
}

func (m *MemoryRepository) ListEntriesByContent(ctx context.Context, contentID uuid.UUID) ([]*NavigationEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*NavigationEntry
	for _, entry := range m.entries {
		if entry.TemplateContentID == contentID {
			out = append(out, entry.Clone())
		}
	}
	return out, nil
}
