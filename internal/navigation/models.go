package navigation

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-appcontent/domain"
)

// Navigation is one named menu of an app, e.g. "main" or "footer". MaxLevels
// bounds how deep the resolved tree nests.
type Navigation struct {
	bun.BaseModel `bun:"table:navigations,alias:nav"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	AppID     uuid.UUID `bun:"app_id,notnull,type:uuid" json:"app_id"`
	Type      string    `bun:"type,notnull" json:"type"`
	Name      string    `bun:"name,notnull" json:"name"`
	MaxLevels int       `bun:"max_levels,notnull,default:1" json:"max_levels"`
	Offline   bool      `bun:"offline,notnull,default:false" json:"offline"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Entries []*NavigationEntry     `bun:"rel:has-many,join:id=navigation_id" json:"entries,omitempty"`
	Locales []*LocalizedNavigation `bun:"rel:has-many,join:id=navigation_id" json:"locales,omitempty"`
}

// Clone returns a deep copy of the navigation including its entries and
// localized records.
func (n *Navigation) Clone() *Navigation {
	if n == nil {
		return nil
	}
	out := *n
	if n.Entries != nil {
		out.Entries = make([]*NavigationEntry, 0, len(n.Entries))
		for _, entry := range n.Entries {
			out.Entries = append(out.Entries, entry.Clone())
		}
	}
	if n.Locales != nil {
		out.Locales = make([]*LocalizedNavigation, 0, len(n.Locales))
		for _, locale := range n.Locales {
			out.Locales = append(out.Locales, locale.Clone())
		}
	}
	return &out
}

// Locale returns the localized record for a language, or nil.
func (n *Navigation) Locale(language string) *LocalizedNavigation {
	for _, locale := range n.Locales {
		if locale.Language == language {
			return locale
		}
	}
	return nil
}

// LocalizedNavigation is the per-language record of a navigation. Its display
// name carries the same draft/published duality as localized template content:
// editors mutate DraftName, readers in the published app state see
// PublishedName once the locale is released.
type LocalizedNavigation struct {
	bun.BaseModel `bun:"table:localized_navigations,alias:lnav"`

	ID            uuid.UUID `bun:",pk,type:uuid" json:"id"`
	NavigationID  uuid.UUID `bun:"navigation_id,notnull,type:uuid" json:"navigation_id"`
	Language      string    `bun:"language,notnull" json:"language"`
	DraftName     string    `bun:"draft_name,notnull" json:"draft_name"`
	PublishedName *string   `bun:"published_name" json:"published_name,omitempty"`

	domain.Versioned

	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Clone returns a copy of the localized navigation.
func (l *LocalizedNavigation) Clone() *LocalizedNavigation {
	if l == nil {
		return nil
	}
	out := *l
	if l.PublishedName != nil {
		name := *l.PublishedName
		out.PublishedName = &name
	}
	out.Versioned = l.Versioned.Clone()
	return &out
}

// NavigationEntry is one navigation slot. It targets either a content
// aggregate (TemplateContentID) or an external URL, never both. ParentID
// nests the entry under another entry of the same navigation.
type NavigationEntry struct {
	bun.BaseModel `bun:"table:navigation_entries,alias:ne"`

	ID                uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	NavigationID      uuid.UUID  `bun:"navigation_id,notnull,type:uuid" json:"navigation_id"`
	TemplateContentID uuid.UUID  `bun:"template_content_id,nullzero,type:uuid" json:"template_content_id,omitempty"`
	ExternalURL       *string    `bun:"external_url" json:"external_url,omitempty"`
	ParentID          *uuid.UUID `bun:"parent_id,type:uuid" json:"parent_id,omitempty"`
	Position          int        `bun:"position,notnull,default:0" json:"position"`
	Label             *string    `bun:"label" json:"label,omitempty"`
	CreatedAt         time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt         time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// LocalizedNavigationEntry overrides an entry's label for one language. The
// entry-level Label stays the language-independent fallback.
type LocalizedNavigationEntry struct {
	bun.BaseModel `bun:"table:localized_navigation_entries,alias:lne"`

	ID           uuid.UUID `bun:",pk,type:uuid" json:"id"`
	EntryID      uuid.UUID `bun:"navigation_entry_id,notnull,type:uuid" json:"navigation_entry_id"`
	NavigationID uuid.UUID `bun:"navigation_id,notnull,type:uuid" json:"navigation_id"`
	Language     string    `bun:"language,notnull" json:"language"`
	Label        string    `bun:"label,notnull" json:"label"`
	CreatedAt    time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Clone returns a copy of the localized entry label.
func (l *LocalizedNavigationEntry) Clone() *LocalizedNavigationEntry {
	if l == nil {
		return nil
	}
	out := *l
	return &out
}

// Clone returns a copy of the entry.
func (e *NavigationEntry) Clone() *NavigationEntry {
	if e == nil {
		return nil
	}
	out := *e
	if e.ParentID != nil {
		parent := *e.ParentID
		out.ParentID = &parent
	}
	if e.ExternalURL != nil {
		url := *e.ExternalURL
		out.ExternalURL = &url
	}
	if e.Label != nil {
		label := *e.Label
		out.Label = &label
	}
	return &out
}
