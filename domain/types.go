package domain

import "strings"

// Status represents lifecycle states for app content entities.
type Status string

const (
	// StatusDraft indicates content still under preparation.
	StatusDraft Status = "draft"
	// StatusPublished identifies content available to consumers.
	StatusPublished Status = "published"
)

// AppState selects which side of the draft/published duality readers resolve.
type AppState string

const (
	// AppStateDraft resolves draft fields (editor preview).
	AppStateDraft AppState = "draft"
	// AppStatePublished resolves released snapshots only.
	AppStatePublished AppState = "published"
)

// NormalizeAppState coerces arbitrary state strings into a known representation.
// Unknown values fall back to the published view so readers never see drafts by
// accident.
func NormalizeAppState(input string) AppState {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "draft", "preview":
		return AppStateDraft
	default:
		return AppStatePublished
	}
}
