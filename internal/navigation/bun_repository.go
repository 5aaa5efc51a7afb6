package navigation

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewNavigationRepository creates a repository for Navigation rows.
func NewNavigationRepository(db *bun.DB) repository.Repository[*Navigation] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Navigation]{
		NewRecord: func() *Navigation { return &Navigation{} },
		GetID: func(n *Navigation) uuid.UUID {
			return n.ID
		},
		SetID: func(n *Navigation, id uuid.UUID) {
			n.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(n *Navigation) string {
			return n.ID.String()
		},
	})
}

// NewLocalizedNavigationRepository creates a repository for the per-language
// navigation rows.
func NewLocalizedNavigationRepository(db *bun.DB) repository.Repository[*LocalizedNavigation] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*LocalizedNavigation]{
		NewRecord: func() *LocalizedNavigation { return &LocalizedNavigation{} },
		GetID: func(l *LocalizedNavigation) uuid.UUID {
			return l.ID
		},
		SetID: func(l *LocalizedNavigation, id uuid.UUID) {
			l.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(l *LocalizedNavigation) string {
			return l.ID.String()
		},
	})
}

// NewNavigationEntryRepository creates a repository for NavigationEntry rows.
func NewNavigationEntryRepository(db *bun.DB) repository.Repository[*NavigationEntry] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*NavigationEntry]{
		NewRecord: func() *NavigationEntry { return &NavigationEntry{} },
		GetID: func(e *NavigationEntry) uuid.UUID {
			return e.ID
		},
		SetID: func(e *NavigationEntry, id uuid.UUID) {
			e.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(e *NavigationEntry) string {
			return e.ID.String()
		},
	})
}

// NewNavigationEntryLabelRepository creates a repository for the per-language
// entry label rows.
func NewNavigationEntryLabelRepository(db *bun.DB) repository.Repository[*LocalizedNavigationEntry] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*LocalizedNavigationEntry]{
		NewRecord: func() *LocalizedNavigationEntry { return &LocalizedNavigationEntry{} },
		GetID: func(l *LocalizedNavigationEntry) uuid.UUID {
			return l.ID
		},
		SetID: func(l *LocalizedNavigationEntry, id uuid.UUID) {
			l.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(l *LocalizedNavigationEntry) string {
			return l.ID.String()
		},
	})
}

// BunRepository implements Repository on a relational store.
type BunRepository struct {
	navigations repository.Repository[*Navigation]
	locales     repository.Repository[*LocalizedNavigation]
	entries     repository.Repository[*NavigationEntry]
	labels      repository.Repository[*LocalizedNavigationEntry]
}

// NewBunRepository creates a navigation repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{
		navigations: NewNavigationRepository(db),
		locales:     NewLocalizedNavigationRepository(db),
		entries:     NewNavigationEntryRepository(db),
		labels:      NewNavigationEntryLabelRepository(db),
	}
}

func (r *BunRepository) SaveNavigation(ctx context.Context, nav *Navigation) (*Navigation, error) {
	if _, err := r.navigations.GetByID(ctx, nav.ID.String()); err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return r.navigations.Create(ctx, nav)
		}
		return nil, fmt.Errorf("navigation repository error: %w", err)
	}
	return r.navigations.Update(ctx, nav)
}

func (r *BunRepository) GetNavigation(ctx context.Context, appID uuid.UUID, navType string) (*Navigation, error) {
	records, _, err := r.navigations.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.app_id = ?", appID).
				Where("?TableAlias.type = ?", navType)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "navigation", Key: fmt.Sprintf("%s:%s", appID, navType)}
	}
	return records[0], nil
}

func (r *BunRepository) ListNavigations(ctx context.Context, appID uuid.UUID) ([]*Navigation, error) {
	records, _, err := r.navigations.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.app_id = ?", appID).
				OrderExpr("?TableAlias.type ASC")
		}),
	)
	return records, err
}

func (r *BunRepository) DeleteNavigation(ctx context.Context, id uuid.UUID) error {
	entries, err := r.ListEntries(ctx, id)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := r.DeleteEntry(ctx, entry.ID); err != nil {
			return err
		}
	}
	locales, err := r.ListLocales(ctx, id)
	if err != nil {
		return err
	}
	for _, locale := range locales {
		if err := r.locales.Delete(ctx, locale); err != nil {
			return err
		}
	}
	return r.navigations.Delete(ctx, &Navigation{ID: id})
}

func (r *BunRepository) SaveLocale(ctx context.Context, locale *LocalizedNavigation) (*LocalizedNavigation, error) {
	if _, err := r.locales.GetByID(ctx, locale.ID.String()); err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return r.locales.Create(ctx, locale)
		}
		return nil, fmt.Errorf("navigation repository error: %w", err)
	}
	return r.locales.Update(ctx, locale)
}

func (r *BunRepository) GetLocale(ctx context.Context, navigationID uuid.UUID, language string) (*LocalizedNavigation, error) {
	records, _, err := r.locales.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.navigation_id = ?", navigationID).
				Where("?TableAlias.language = ?", language)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "navigation_locale", Key: language}
	}
	return records[0], nil
}

func (r *BunRepository) ListLocales(ctx context.Context, navigationID uuid.UUID) ([]*LocalizedNavigation, error) {
	records, _, err := r.locales.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.navigation_id = ?", navigationID).
				OrderExpr("?TableAlias.language ASC")
		}),
	)
	return records, err
}

func (r *BunRepository) CreateEntry(ctx context.Context, entry *NavigationEntry) (*NavigationEntry, error) {
	return r.entries.Create(ctx, entry)
}

func (r *BunRepository) UpdateEntry(ctx context.Context, entry *NavigationEntry) (*NavigationEntry, error) {
	return r.entries.Update(ctx, entry)
}

func (r *BunRepository) GetEntry(ctx context.Context, id uuid.UUID) (*NavigationEntry, error) {
	record, err := r.entries.GetByID(ctx, id.String())
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, &NotFoundError{Resource: "navigation_entry", Key: id.String()}
		}
		return nil, fmt.Errorf("navigation repository error: %w", err)
	}
	return record, nil
}

func (r *BunRepository) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	labels, _, err := r.labels.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.navigation_entry_id = ?", id)
		}),
	)
	if err != nil {
		return err
	}
	for _, label := range labels {
		if err := r.labels.Delete(ctx, label); err != nil {
			return err
		}
	}
	return r.entries.Delete(ctx, &NavigationEntry{ID: id})
}

func (r *BunRepository) ListEntries(ctx context.Context, navigationID uuid.UUID) ([]*NavigationEntry, error) {
	records, _, err := r.entries.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.navigation_id = ?", navigationID).
				OrderExpr("?TableAlias.position ASC")
		}),
	)
	return records, err
}

func (r *BunRepository) SaveEntryLabel(ctx context.Context, label *LocalizedNavigationEntry) (*LocalizedNavigationEntry, error) {
	if _, err := r.labels.GetByID(ctx, label.ID.String()); err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return r.labels.Create(ctx, label)
		}
		return nil, fmt.Errorf("navigation repository error: %w", err)
	}
	return r.labels.Update(ctx, label)
}

func (r *BunRepository) DeleteEntryLabel(ctx context.Context, entryID uuid.UUID, language string) error {
	records, _, err := r.labels.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.navigation_entry_id = ?", entryID).
				Where("?TableAlias.language = ?", language)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return &NotFoundError{Resource: "navigation_entry_label", Key: language}
	}
	return r.labels.Delete(ctx, records[0])
}

func (r *BunRepository) ListEntryLabels(ctx context.Context, navigationID uuid.UUID, language string) ([]*LocalizedNavigationEntry, error) {
	records, _, err := r.labels.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.navigation_id = ?", navigationID).
				Where("?TableAlias.language = ?", language)
		}),
	)
	return records, err
}

func (r *BunRepository) ListEntriesByContent(ctx context.Context, contentID uuid.UUID) ([]*NavigationEntry, error) {
	records, _, err := r.entries.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.template_content_id = ?", contentID)
		}),
	)
	return records, err
}
