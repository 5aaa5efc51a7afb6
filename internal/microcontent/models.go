package microcontent

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-appcontent/domain"
)

// Kind distinguishes text from image micro-content.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Item is one per-field value object, keyed by owning content item and
// content key. Draft and published variants are separate rows; publish copies
// draft rows into their published twins.
type Item struct {
	bun.BaseModel `bun:"table:micro_contents,alias:mc"`

	ID                uuid.UUID     `bun:",pk,type:uuid" json:"id"`
	TemplateContentID uuid.UUID     `bun:"template_content_id,notnull,type:uuid" json:"template_content_id"`
	ContentKey        string        `bun:"content_key,notnull" json:"content_key"`
	Kind              Kind          `bun:"kind,notnull" json:"kind"`
	State             domain.Status `bun:"state,notnull,default:'draft'" json:"state"`
	CreatedAt         time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt         time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Localizations []*Localization `bun:"rel:has-many,join:id=item_id" json:"localizations,omitempty"`
}

// Localization holds one language's value of a micro-content item. Absence of
// a row means "no value" (sparse storage).
type Localization struct {
	bun.BaseModel `bun:"table:micro_content_localizations,alias:mcl"`

	ID        uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	ItemID    uuid.UUID      `bun:"item_id,notnull,type:uuid" json:"item_id"`
	Language  string         `bun:"language,notnull" json:"language"`
	Text      *string        `bun:"text" json:"text,omitempty"`
	ImagePath *string        `bun:"image_path" json:"image_path,omitempty"`
	Licence   map[string]any `bun:"licence,type:jsonb" json:"licence,omitempty"`
	CreatedBy uuid.UUID      `bun:"created_by,notnull,type:uuid" json:"created_by"`
	CreatedAt time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Localization lookup by language, nil when absent.
func (i *Item) Localization(language string) *Localization {
	if i == nil {
		return nil
	}
	for _, loc := range i.Localizations {
		if loc != nil && loc.Language == language {
			return loc
		}
	}
	return nil
}

// Clone deep-copies the item and its localized rows.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	out := *i
	out.Localizations = make([]*Localization, 0, len(i.Localizations))
	for _, loc := range i.Localizations {
		out.Localizations = append(out.Localizations, loc.Clone())
	}
	return &out
}

// Clone deep-copies the localized row.
func (l *Localization) Clone() *Localization {
	if l == nil {
		return nil
	}
	out := *l
	if l.Text != nil {
		text := *l.Text
		out.Text = &text
	}
	if l.ImagePath != nil {
		path := *l.ImagePath
		out.ImagePath = &path
	}
	if l.Licence != nil {
		out.Licence = make(map[string]any, len(l.Licence))
		for k, v := range l.Licence {
			out.Licence[k] = v
		}
	}
	return &out
}
