package slugs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-appcontent/content"
)

// BunTrailRepository persists slug trail rows through bun.
type BunTrailRepository struct {
	db *bun.DB
}

// NewBunTrailRepository constructs the repository.
func NewBunTrailRepository(db *bun.DB) *BunTrailRepository {
	return &BunTrailRepository{db: db}
}

// Append inserts the trail row.
func (r *BunTrailRepository) Append(ctx context.Context, trail *content.SlugTrail) error {
	if _, err := r.db.NewInsert().Model(trail).Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "slug trail insert failed")
	}
	return nil
}

// GetByOldSlug returns the most recent mapping for an old slug.
func (r *BunTrailRepository) GetByOldSlug(ctx context.Context, oldSlug string) (*content.SlugTrail, error) {
	trail := new(content.SlugTrail)
	err := r.db.NewSelect().
		Model(trail).
		Where("old_slug = ?", oldSlug).
		Order("created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlugNotFound
		}
		return nil, fmt.Errorf("slug trail lookup error: %w", err)
	}
	return trail, nil
}
