package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions
// (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// AssignmentUUID derives the id for a fixed assignment slot (home, footer).
func AssignmentUUID(appID uuid.UUID, assignment string) uuid.UUID {
	return UUID("appcontent:assignment:" + appID.String() + ":" + strings.ToLower(strings.TrimSpace(assignment)))
}

// NavigationUUID derives the id for a navigation known by its configured type.
func NavigationUUID(appID uuid.UUID, navType string) uuid.UUID {
	return UUID("appcontent:navigation:" + appID.String() + ":" + strings.ToLower(strings.TrimSpace(navType)))
}

// NavigationLocaleUUID derives the id for a navigation's per-language record.
func NavigationLocaleUUID(navigationID uuid.UUID, language string) uuid.UUID {
	return UUID("appcontent:navigation_locale:" + navigationID.String() + ":" + strings.ToLower(strings.TrimSpace(language)))
}

// NavigationEntryLabelUUID derives the id for an entry's per-language label row.
func NavigationEntryLabelUUID(entryID uuid.UUID, language string) uuid.UUID {
	return UUID("appcontent:navigation_entry_label:" + entryID.String() + ":" + strings.ToLower(strings.TrimSpace(language)))
}

// FlagUUID derives the id for a (content, flag) assignment row.
func FlagUUID(contentID uuid.UUID, flag string) uuid.UUID {
	return UUID("appcontent:flag:" + contentID.String() + ":" + strings.ToLower(strings.TrimSpace(flag)))
}
