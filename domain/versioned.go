package domain

import "time"

// Versioned carries the draft/published version counters shared by every
// localized record (template content and navigation alike). It is embedded into
// bun models so the columns flatten into the owning table.
type Versioned struct {
	DraftVersion     int        `bun:"draft_version,notnull,default:1" json:"draft_version"`
	PublishedVersion *int       `bun:"published_version" json:"published_version,omitempty"`
	PublishedAt      *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	TranslationReady bool       `bun:"translation_ready,notnull,default:false" json:"translation_ready"`
}

// BumpDraft records a new draft revision. Every persisted mutation of draft
// fields moves the record back to the unready translation state.
func (v *Versioned) BumpDraft() {
	v.DraftVersion++
	v.TranslationReady = false
}

// MarkPublished snapshots the current draft version as the released one.
func (v *Versioned) MarkPublished(now time.Time) {
	version := v.DraftVersion
	v.PublishedVersion = &version
	at := now
	v.PublishedAt = &at
}

// ClearPublished withdraws the released snapshot without touching the draft.
func (v *Versioned) ClearPublished() {
	v.PublishedVersion = nil
	v.PublishedAt = nil
}

// IsPublished reports whether a released snapshot exists.
func (v *Versioned) IsPublished() bool {
	return v.PublishedVersion != nil
}

// Clone returns a deep copy of the version counters.
func (v Versioned) Clone() Versioned {
	out := Versioned{
		DraftVersion:     v.DraftVersion,
		TranslationReady: v.TranslationReady,
	}
	if v.PublishedVersion != nil {
		version := *v.PublishedVersion
		out.PublishedVersion = &version
	}
	if v.PublishedAt != nil {
		at := *v.PublishedAt
		out.PublishedAt = &at
	}
	return out
}
