package flags

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewFlagAssignmentRepository creates a repository for FlagAssignment rows.
func NewFlagAssignmentRepository(db *bun.DB) repository.Repository[*FlagAssignment] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*FlagAssignment]{
		NewRecord: func() *FlagAssignment { return &FlagAssignment{} },
		GetID: func(a *FlagAssignment) uuid.UUID {
			return a.ID
		},
		SetID: func(a *FlagAssignment, id uuid.UUID) {
			a.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(a *FlagAssignment) string {
			return a.ID.String()
		},
	})
}

// BunRepository implements Repository on a relational store.
type BunRepository struct {
	repo repository.Repository[*FlagAssignment]
}

// NewBunRepository creates a flag assignment repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{repo: NewFlagAssignmentRepository(db)}
}

func (r *BunRepository) Save(ctx context.Context, assignment *FlagAssignment) (*FlagAssignment, error) {
	existing, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.template_content_id = ?", assignment.TemplateContentID).
				Where("?TableAlias.flag = ?", assignment.Flag)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("flag assignment repository error: %w", err)
	}

	if len(existing) > 0 {
		assignment.ID = existing[0].ID
		stored, err := r.repo.Update(ctx, assignment)
		if err != nil {
			return nil, fmt.Errorf("flag assignment repository error: %w", err)
		}
		return stored, nil
	}

	stored, err := r.repo.Create(ctx, assignment)
	if err != nil {
		return nil, fmt.Errorf("flag assignment repository error: %w", err)
	}
	return stored, nil
}

func (r *BunRepository) Delete(ctx context.Context, contentID uuid.UUID, flag string) error {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.template_content_id = ?", contentID).
				Where("?TableAlias.flag = ?", flag)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return ErrNotAssigned
	}
	return r.repo.Delete(ctx, records[0])
}

func (r *BunRepository) ListByFlag(ctx context.Context, flag string) ([]*FlagAssignment, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.flag = ?", flag).
				OrderExpr("?TableAlias.position ASC")
		}),
	)
	if err != nil && goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return nil, nil
	}
	return records, err
}

func (r *BunRepository) ListByContent(ctx context.Context, contentID uuid.UUID) ([]*FlagAssignment, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.template_content_id = ?", contentID)
		}),
	)
	return records, err
}
