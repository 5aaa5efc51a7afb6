package content

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository used by tests and examples.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*TemplateContent
}

// NewMemoryRepository builds an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: map[uuid.UUID]*TemplateContent{}}
}

func (m *MemoryRepository) Create(ctx context.Context, record *TemplateContent) (*TemplateContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, locale := range record.Locales {
		if err := m.checkSlugLocked(locale.Slug, locale.ID); err != nil {
			return nil, err
		}
	}
	m.records[record.ID] = record.Clone()
	return record.Clone(), nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*TemplateContent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{Resource: "template_content", Key: id.String()}
	}
	return record.Clone(), nil
}

func (m *MemoryRepository) GetByAssignment(ctx context.Context, appID uuid.UUID, assignment string) (*TemplateContent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, record := range m.records {
		if record.AppID != appID || record.Assignment == nil {
			continue
		}
		if *record.Assignment == assignment {
			return record.Clone(), nil
		}
	}
	return nil, &NotFoundError{Resource: "template_content", Key: assignment}
}

func (m *MemoryRepository) List(ctx context.Context, appID uuid.UUID) ([]*TemplateContent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*TemplateContent, 0, len(m.records))
	for _, record := range m.records {
		if record.AppID == appID {
			out = append(out, record.Clone())
		}
	}
	return out, nil
}

func (m *MemoryRepository) Update(ctx context.Context, record *TemplateContent) (*TemplateContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.records[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "template_content", Key: record.ID.String()}
	}
	clone := record.Clone()
	// Aggregate updates do not touch localized records.
	clone.Locales = stored.Locales
	m.records[record.ID] = clone
	return clone.Clone(), nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return &NotFoundError{Resource: "template_content", Key: id.String()}
	}
	delete(m.records, id)
	return nil
}

func (m *MemoryRepository) CreateRecord(ctx context.Context, record *LocalizedTemplateContent) (*LocalizedTemplateContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	parent, ok := m.records[record.TemplateContentID]
	if !ok {
		return nil, &NotFoundError{Resource: "template_content", Key: record.TemplateContentID.String()}
	}
	if err := m.checkSlugLocked(record.Slug, record.ID); err != nil {
		return nil, err
	}
	parent.Locales = append(parent.Locales, record.Clone())
	return record.Clone(), nil
}

func (m *MemoryRepository) UpdateRecord(ctx context.Context, record *LocalizedTemplateContent) (*LocalizedTemplateContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	parent, ok := m.records[record.TemplateContentID]
	if !ok {
		return nil, &NotFoundError{Resource: "template_content", Key: record.TemplateContentID.String()}
	}
	if err := m.checkSlugLocked(record.Slug, record.ID); err != nil {
		return nil, err
	}
	for i, stored := range parent.Locales {
		if stored.ID == record.ID {
			parent.Locales[i] = record.Clone()
			return record.Clone(), nil
		}
	}
	return nil, &NotFoundError{Resource: "localized_template_content", Key: record.ID.String()}
}

// checkSlugLocked mirrors the unique constraint on the slug column. Callers
// hold the write lock.
func (m *MemoryRepository) checkSlugLocked(slug string, recordID uuid.UUID) error {
	if slug == "" {
		return nil
	}
	for _, parent := range m.records {
		for _, locale := range parent.Locales {
			if locale.Slug == slug && locale.ID != recordID {
				return fmt.Errorf("%w: %q", ErrSlugExists, slug)
			}
		}
	}
	return nil
}

func (m *MemoryRepository) GetRecordBySlug(ctx context.Context, slug string) (*LocalizedTemplateContent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, parent := range m.records {
		for _, record := range parent.Locales {
			if record.Slug == slug {
				return record.Clone(), nil
			}
		}
	}
	return nil, &NotFoundError{Resource: "localized_template_content", Key: slug}
}

func (m *MemoryRepository) SlugInUse(ctx context.Context, slug string) (bool, error) {
	_, err := m.GetRecordBySlug(ctx, slug)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
