package content

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewTemplateContentRepository creates a repository for TemplateContent rows.
func NewTemplateContentRepository(db *bun.DB) repository.Repository[*TemplateContent] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*TemplateContent]{
		NewRecord: func() *TemplateContent { return &TemplateContent{} },
		GetID: func(tc *TemplateContent) uuid.UUID {
			return tc.ID
		},
		SetID: func(tc *TemplateContent, id uuid.UUID) {
			tc.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(tc *TemplateContent) string {
			return tc.ID.String()
		},
	})
}

// NewLocalizedContentRepository creates a repository for localized records.
// The identifier column is the slug, which is globally unique.
func NewLocalizedContentRepository(db *bun.DB) repository.Repository[*LocalizedTemplateContent] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*LocalizedTemplateContent]{
		NewRecord: func() *LocalizedTemplateContent { return &LocalizedTemplateContent{} },
		GetID: func(r *LocalizedTemplateContent) uuid.UUID {
			return r.ID
		},
		SetID: func(r *LocalizedTemplateContent, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(r *LocalizedTemplateContent) string {
			return r.Slug
		},
	})
}
