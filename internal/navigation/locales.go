package navigation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-appcontent/internal/identity"
)

// SaveLocale creates or updates the draft display name of one language. The
// row id is derived from navigation and language so repeated saves converge on
// one record per pair.
func (s *service) SaveLocale(ctx context.Context, req SaveLocaleRequest) (*LocalizedNavigation, error) {
	language := strings.TrimSpace(req.Language)
	if language == "" {
		return nil, ErrLanguageRequired
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	nav, err := s.Get(ctx, req.AppID, req.Type)
	if err != nil {
		return nil, err
	}

	now := s.now()
	locale, err := s.repo.GetLocale(ctx, nav.ID, language)
	if err != nil {
		if !IsNotFound(err) {
			return nil, err
		}
		locale = &LocalizedNavigation{
			ID:           identity.NavigationLocaleUUID(nav.ID, language),
			NavigationID: nav.ID,
			Language:     language,
			DraftName:    name,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		locale.DraftVersion = 1
		return s.repo.SaveLocale(ctx, locale)
	}

	if locale.DraftName == name {
		return locale, nil
	}
	locale.DraftName = name
	locale.BumpDraft()
	locale.UpdatedAt = now
	return s.repo.SaveLocale(ctx, locale)
}

// MarkTranslationReady toggles the translator sign-off on one language.
func (s *service) MarkTranslationReady(ctx context.Context, appID uuid.UUID, navType, language string, ready bool) (*LocalizedNavigation, error) {
	nav, err := s.Get(ctx, appID, navType)
	if err != nil {
		return nil, err
	}
	locale, err := s.repo.GetLocale(ctx, nav.ID, strings.TrimSpace(language))
	if err != nil {
		return nil, err
	}
	if locale.TranslationReady == ready {
		return locale, nil
	}
	locale.TranslationReady = ready
	locale.UpdatedAt = s.now()
	return s.repo.SaveLocale(ctx, locale)
}

// Publish releases the localized names that pass the readiness gate. A sole
// language publishes unconditionally; with several languages every one must be
// translation ready. The returned slice aggregates every blocker instead of
// stopping at the first, an empty slice means everything targeted went out.
func (s *service) Publish(ctx context.Context, appID uuid.UUID, navType string) ([]string, error) {
	nav, err := s.Get(ctx, appID, navType)
	if err != nil {
		return nil, err
	}
	locales, err := s.repo.ListLocales(ctx, nav.ID)
	if err != nil {
		return nil, err
	}
	sort.Slice(locales, func(i, j int) bool {
		return locales[i].Language < locales[j].Language
	})

	var problems []string
	for _, locale := range locales {
		if len(locales) > 1 && !locale.TranslationReady {
			problems = append(problems, fmt.Sprintf("the language %s is still working", locale.Language))
			continue
		}
		now := s.now()
		name := locale.DraftName
		locale.PublishedName = &name
		locale.MarkPublished(now)
		locale.UpdatedAt = now
		if _, err := s.repo.SaveLocale(ctx, locale); err != nil {
			return nil, err
		}
	}
	return problems, nil
}

// Unpublish withdraws every localized name so the published tree falls back to
// the configured navigation name.
func (s *service) Unpublish(ctx context.Context, appID uuid.UUID, navType string) error {
	nav, err := s.Get(ctx, appID, navType)
	if err != nil {
		return err
	}
	locales, err := s.repo.ListLocales(ctx, nav.ID)
	if err != nil {
		return err
	}
	now := s.now()
	for _, locale := range locales {
		locale.PublishedName = nil
		locale.ClearPublished()
		locale.UpdatedAt = now
		if _, err := s.repo.SaveLocale(ctx, locale); err != nil {
			return err
		}
	}
	return nil
}

// SetEntryLabel overrides the label of one entry for one language. An empty
// label removes the override so the fallback chain applies again.
func (s *service) SetEntryLabel(ctx context.Context, req SetEntryLabelRequest) error {
	language := strings.TrimSpace(req.Language)
	if language == "" {
		return ErrLanguageRequired
	}
	nav, err := s.Get(ctx, req.AppID, req.Type)
	if err != nil {
		return err
	}
	entry, err := s.repo.GetEntry(ctx, req.EntryID)
	if err != nil {
		return err
	}
	if entry.NavigationID != nav.ID {
		return &NotFoundError{Resource: "navigation_entry", Key: req.EntryID.String()}
	}

	label := strings.TrimSpace(req.Label)
	if label == "" {
		if err := s.repo.DeleteEntryLabel(ctx, entry.ID, language); err != nil && !IsNotFound(err) {
			return err
		}
		return nil
	}

	now := s.now()
	_, err = s.repo.SaveEntryLabel(ctx, &LocalizedNavigationEntry{
		ID:           identity.NavigationEntryLabelUUID(entry.ID, language),
		EntryID:      entry.ID,
		NavigationID: nav.ID,
		Language:     language,
		Label:        label,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	return err
}
