package microcontent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-appcontent/domain"
)

// BunRepository persists micro-content through bun.
type BunRepository struct {
	db *bun.DB
}

// NewBunRepository constructs the repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

func (r *BunRepository) GetItem(ctx context.Context, contentID uuid.UUID, key string, state domain.Status) (*Item, error) {
	item := new(Item)
	err := r.db.NewSelect().
		Model(item).
		Relation("Localizations").
		Where("mc.template_content_id = ?", contentID).
		Where("mc.content_key = ?", key).
		Where("mc.state = ?", state).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Key: key}
		}
		return nil, fmt.Errorf("micro content lookup error: %w", err)
	}
	return item, nil
}

func (r *BunRepository) ListItems(ctx context.Context, contentID uuid.UUID, state domain.Status) ([]*Item, error) {
	var items []*Item
	err := r.db.NewSelect().
		Model(&items).
		Relation("Localizations").
		Where("mc.template_content_id = ?", contentID).
		Where("mc.state = ?", state).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("micro content list error: %w", err)
	}
	return items, nil
}

func (r *BunRepository) SaveItem(ctx context.Context, item *Item) (*Item, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().
			Model(item).
			On("CONFLICT (id) DO UPDATE").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx); err != nil {
			return err
		}
		for _, loc := range item.Localizations {
			if _, err := tx.NewInsert().
				Model(loc).
				On("CONFLICT (id) DO UPDATE").
				Set("text = EXCLUDED.text").
				Set("image_path = EXCLUDED.image_path").
				Set("licence = EXCLUDED.licence").
				Set("updated_at = EXCLUDED.updated_at").
				Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "micro content save failed")
	}
	return item, nil
}

func (r *BunRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*Localization)(nil)).
			Where("item_id = ?", itemID).
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().
			Model((*Item)(nil)).
			Where("id = ?", itemID).
			Exec(ctx)
		return err
	})
}

func (r *BunRepository) DeleteLocalization(ctx context.Context, itemID uuid.UUID, language string) error {
	_, err := r.db.NewDelete().
		Model((*Localization)(nil)).
		Where("item_id = ?", itemID).
		Where("language = ?", language).
		Exec(ctx)
	return err
}
