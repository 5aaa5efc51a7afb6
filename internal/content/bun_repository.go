package content

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository implements Repository on a relational store with optional
// read-through caching of the aggregate rows.
type BunRepository struct {
	contents     repository.Repository[*TemplateContent]
	locales      repository.Repository[*LocalizedTemplateContent]
	cacheService cache.CacheService
	cachePrefix  string
}

const contentNamespace = "template_content"

// NewBunRepository creates a content repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a content repository with caching services.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	contents := NewTemplateContentRepository(db)
	locales := NewLocalizedContentRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		contents = repositorycache.New(contents, cacheService, serializer)
		locales = repositorycache.New(locales, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(contentNamespace)
	}
	return &BunRepository{
		contents:     contents,
		locales:      locales,
		cacheService: svc,
		cachePrefix:  prefix,
	}
}

func (r *BunRepository) Create(ctx context.Context, record *TemplateContent) (*TemplateContent, error) {
	locales := record.Locales
	created, err := r.contents.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	for _, locale := range locales {
		stored, err := r.locales.Create(ctx, locale)
		if err != nil {
			// Roll the aggregate row back so a slug-conflict retry can
			// re-run the whole create.
			_ = r.contents.Delete(ctx, &TemplateContent{ID: created.ID})
			return nil, mapSlugConflict(err, locale.Slug)
		}
		created.Locales = append(created.Locales, stored)
	}
	return created, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*TemplateContent, error) {
	record, err := r.contents.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "template_content", id.String())
	}
	return r.attachLocales(ctx, record)
}

func (r *BunRepository) GetByAssignment(ctx context.Context, appID uuid.UUID, assignment string) (*TemplateContent, error) {
	records, _, err := r.contents.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.app_id = ?", appID).
				Where("?TableAlias.assignment = ?", assignment)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "template_content", Key: fmt.Sprintf("%s:%s", appID, assignment)}
	}
	return r.attachLocales(ctx, records[0])
}

func (r *BunRepository) List(ctx context.Context, appID uuid.UUID) ([]*TemplateContent, error) {
	records, _, err := r.contents.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.app_id = ?", appID).
				OrderExpr("?TableAlias.created_at ASC")
		}),
	)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if _, err := r.attachLocales(ctx, record); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (r *BunRepository) Update(ctx context.Context, record *TemplateContent) (*TemplateContent, error) {
	updated, err := r.contents.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	return r.attachLocales(ctx, updated)
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	locales, _, err := r.locales.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.template_content_id = ?", id)
		}),
	)
	if err != nil {
		return err
	}
	for _, locale := range locales {
		if err := r.locales.Delete(ctx, locale); err != nil {
			return err
		}
	}
	return r.contents.Delete(ctx, &TemplateContent{ID: id})
}

func (r *BunRepository) CreateRecord(ctx context.Context, record *LocalizedTemplateContent) (*LocalizedTemplateContent, error) {
	stored, err := r.locales.Create(ctx, record)
	if err != nil {
		return nil, mapSlugConflict(err, record.Slug)
	}
	return stored, nil
}

func (r *BunRepository) UpdateRecord(ctx context.Context, record *LocalizedTemplateContent) (*LocalizedTemplateContent, error) {
	stored, err := r.locales.Update(ctx, record)
	if err != nil {
		return nil, mapSlugConflict(err, record.Slug)
	}
	return stored, nil
}

func (r *BunRepository) GetRecordBySlug(ctx context.Context, slug string) (*LocalizedTemplateContent, error) {
	record, err := r.locales.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "localized_template_content", slug)
	}
	return record, nil
}

func (r *BunRepository) SlugInUse(ctx context.Context, slug string) (bool, error) {
	_, err := r.GetRecordBySlug(ctx, slug)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// InvalidateCache clears every cached row for this repository's namespace.
func (r *BunRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func (r *BunRepository) attachLocales(ctx context.Context, record *TemplateContent) (*TemplateContent, error) {
	locales, _, err := r.locales.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.template_content_id = ?", record.ID).
				OrderExpr("?TableAlias.created_at ASC")
		}),
	)
	if err != nil {
		return nil, err
	}
	record.Locales = locales
	return record, nil
}

// mapSlugConflict surfaces unique-constraint violations on localized record
// writes as ErrSlugExists so the service can regenerate the slug and retry.
// The slug column is the only unique column on those rows.
func mapSlugConflict(err error, slug string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseDuplicate) {
		return fmt.Errorf("%w: %q", ErrSlugExists, slug)
	}
	return err
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}

func cachePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + cache.KeySeparator
}
