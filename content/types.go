package content

import (
	"time"

	"github.com/goliatone/go-appcontent/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TemplateContent is the language-independent owner of one logical page or
// feature. It holds exactly one localized record per configured app language.
type TemplateContent struct {
	bun.BaseModel `bun:"table:template_contents,alias:tc"`

	ID              uuid.UUID `bun:",pk,type:uuid" json:"id"`
	AppID           uuid.UUID `bun:"app_id,notnull,type:uuid" json:"app_id"`
	TemplateName    string    `bun:"template_name,notnull" json:"template_name"`
	TemplateType    string    `bun:"template_type,notnull" json:"template_type"`
	Assignment      *string   `bun:"assignment" json:"assignment,omitempty"`
	PrimaryLanguage string    `bun:"primary_language,notnull" json:"primary_language"`
	CreatedBy       uuid.UUID `bun:"created_by,notnull,type:uuid" json:"created_by"`
	CreatedAt       time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Locales []*LocalizedTemplateContent `bun:"rel:has-many,join:id=template_content_id" json:"locales,omitempty"`
}

// Locale returns the localized record for a language, or nil. Absence is a
// normal state, not an error.
func (tc *TemplateContent) Locale(language string) *LocalizedTemplateContent {
	if tc == nil {
		return nil
	}
	for _, record := range tc.Locales {
		if record != nil && record.Language == language {
			return record
		}
	}
	return nil
}

// PrimaryLocale returns the record for the aggregate's primary language.
func (tc *TemplateContent) PrimaryLocale() *LocalizedTemplateContent {
	return tc.Locale(tc.PrimaryLanguage)
}

// SecondaryLocales returns every localized record except the primary one.
func (tc *TemplateContent) SecondaryLocales() []*LocalizedTemplateContent {
	if tc == nil {
		return nil
	}
	out := make([]*LocalizedTemplateContent, 0, len(tc.Locales))
	for _, record := range tc.Locales {
		if record != nil && record.Language != tc.PrimaryLanguage {
			out = append(out, record)
		}
	}
	return out
}

// IsPublished reports whether the primary language has a released snapshot.
func (tc *TemplateContent) IsPublished() bool {
	primary := tc.PrimaryLocale()
	return primary != nil && primary.IsPublished()
}

// Clone returns a deep copy of the aggregate including its localized records.
func (tc *TemplateContent) Clone() *TemplateContent {
	if tc == nil {
		return nil
	}
	out := *tc
	out.Assignment = cloneStringPtr(tc.Assignment)
	if tc.Locales != nil {
		out.Locales = make([]*LocalizedTemplateContent, 0, len(tc.Locales))
		for _, record := range tc.Locales {
			out.Locales = append(out.Locales, record.Clone())
		}
	}
	return &out
}

// LocalizedTemplateContent is one language's draft+published snapshot of a
// content item's fields.
type LocalizedTemplateContent struct {
	bun.BaseModel `bun:"table:localized_template_contents,alias:ltc"`

	ID                uuid.UUID `bun:",pk,type:uuid" json:"id"`
	TemplateContentID uuid.UUID `bun:"template_content_id,notnull,type:uuid" json:"template_content_id"`
	Language          string    `bun:"language,notnull" json:"language"`

	DraftTitle    string     `bun:"draft_title,notnull" json:"draft_title"`
	DraftNavLabel *string    `bun:"draft_nav_label" json:"draft_nav_label,omitempty"`
	DraftContents ContentMap `bun:"draft_contents,type:jsonb" json:"draft_contents,omitempty"`

	PublishedTitle    *string    `bun:"published_title" json:"published_title,omitempty"`
	PublishedNavLabel *string    `bun:"published_nav_label" json:"published_nav_label,omitempty"`
	PublishedContents ContentMap `bun:"published_contents,type:jsonb" json:"published_contents,omitempty"`

	domain.Versioned

	Slug                  string     `bun:"slug,notnull,unique" json:"slug"`
	PreviewToken          *string    `bun:"preview_token" json:"preview_token,omitempty"`
	PreviewTokenCreatedAt *time.Time `bun:"preview_token_created_at,nullzero" json:"preview_token_created_at,omitempty"`

	CreatedBy uuid.UUID `bun:"created_by,notnull,type:uuid" json:"created_by"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Clone returns a deep copy of the localized record.
func (r *LocalizedTemplateContent) Clone() *LocalizedTemplateContent {
	if r == nil {
		return nil
	}
	out := *r
	out.Versioned = r.Versioned.Clone()
	out.DraftContents = r.DraftContents.Clone()
	out.PublishedContents = r.PublishedContents.Clone()
	out.DraftNavLabel = cloneStringPtr(r.DraftNavLabel)
	out.PublishedTitle = cloneStringPtr(r.PublishedTitle)
	out.PublishedNavLabel = cloneStringPtr(r.PublishedNavLabel)
	out.PreviewToken = cloneStringPtr(r.PreviewToken)
	out.PreviewTokenCreatedAt = cloneTimePtr(r.PreviewTokenCreatedAt)
	return &out
}

// SlugTrail is an immutable old→new slug mapping appended whenever a record's
// slug changes. The trail is never pruned.
type SlugTrail struct {
	bun.BaseModel `bun:"table:slug_trails,alias:st"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	OldSlug   string    `bun:"old_slug,notnull" json:"old_slug"`
	NewSlug   string    `bun:"new_slug,notnull" json:"new_slug"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// FlagAssignment links a template content aggregate to a named flag. Many
// flags per aggregate, many aggregates per flag.
type FlagAssignment struct {
	bun.BaseModel `bun:"table:template_content_flags,alias:tcf"`

	ID                uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	TemplateContentID uuid.UUID  `bun:"template_content_id,notnull,type:uuid" json:"template_content_id"`
	Flag              string     `bun:"flag,notnull" json:"flag"`
	ParentContentID   *uuid.UUID `bun:"parent_content_id,type:uuid" json:"parent_content_id,omitempty"`
	Position          int        `bun:"position,notnull,default:0" json:"position"`
	CreatedAt         time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneTimePtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
