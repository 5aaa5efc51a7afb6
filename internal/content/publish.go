package content

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-appcontent/pkg/interfaces"
)

// MarkTranslationReady toggles the translator sign-off on one language.
func (s *service) MarkTranslationReady(ctx context.Context, id uuid.UUID, language string, ready bool) (*LocalizedTemplateContent, error) {
	aggregate, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	record := aggregate.Locale(strings.TrimSpace(language))
	if record == nil {
		return nil, ErrLocaleNotFound
	}
	if record.TranslationReady == ready {
		return record, nil
	}
	record.TranslationReady = ready
	record.UpdatedAt = s.now()
	return s.repo.UpdateRecord(ctx, record)
}

// TranslationComplete reports what still blocks a language from publishing.
// An empty list means complete.
func (s *service) TranslationComplete(ctx context.Context, id uuid.UUID, language string) ([]string, error) {
	aggregate, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	record := aggregate.Locale(strings.TrimSpace(language))
	if record == nil {
		return nil, ErrLocaleNotFound
	}
	def, err := s.templates.Definition(ctx, aggregate.TemplateName)
	if err != nil {
		return nil, ErrTemplateUnknown
	}
	return s.localeIssues(ctx, aggregate, def, record)
}

func (s *service) localeIssues(ctx context.Context, aggregate *TemplateContent, def *interfaces.TemplateDefinition, record *LocalizedTemplateContent) ([]string, error) {
	primary := aggregate.PrimaryLocale()
	isPrimary := primary != nil && primary.Language == record.Language

	keys := make([]string, 0, len(def.Contents))
	for key := range def.Contents {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var issues []string
	for _, key := range keys {
		field := def.Contents[key]
		if field.AllowMultiple {
			continue
		}

		has, err := s.fieldHasDraftValue(ctx, aggregate.ID, record, key, field)
		if err != nil {
			return nil, err
		}

		if field.Required && !has {
			issues = append(issues, fmt.Sprintf("field %s is required but still missing", key))
			continue
		}

		if isPrimary || primary == nil || has {
			continue
		}
		primaryHas, err := s.fieldHasDraftValue(ctx, aggregate.ID, primary, key, field)
		if err != nil {
			return nil, err
		}
		if primaryHas {
			issues = append(issues, fmt.Sprintf("field %s is missing for the language %s", key, record.Language))
		}
	}
	return issues, nil
}

// fieldHasDraftValue reads presence from the record's draft payload, falling
// through to the micro-content store for image fields, which live there
// exclusively.
func (s *service) fieldHasDraftValue(ctx context.Context, contentID uuid.UUID, record *LocalizedTemplateContent, key string, field interfaces.FieldDefinition) (bool, error) {
	if field.Type == interfaces.FieldTypeImage {
		return s.micro.HasDraftValue(ctx, contentID, key, record.Language)
	}
	value, ok := record.DraftContents[key]
	if !ok {
		return false, nil
	}
	return value.HasContent(), nil
}

const languageAll = "all"

// Publish evaluates every targeted language and releases the ones that pass.
// It never aborts on the first problem: the returned slice aggregates every
// blocker across all evaluated languages, and an empty slice means everything
// targeted was published.
func (s *service) Publish(ctx context.Context, req PublishRequest) ([]string, error) {
	aggregate, err := s.Get(ctx, req.ContentID)
	if err != nil {
		return nil, err
	}
	def, err := s.templates.Definition(ctx, aggregate.TemplateName)
	if err != nil {
		return nil, ErrTemplateUnknown
	}

	target := strings.TrimSpace(req.Language)
	if target == "" {
		target = languageAll
	}

	primary := aggregate.PrimaryLocale()
	if primary == nil {
		return nil, ErrLocaleNotFound
	}
	secondaries := aggregate.SecondaryLocales()

	var targets []*LocalizedTemplateContent
	if target == languageAll {
		targets = append(targets, primary)
		targets = append(targets, secondaries...)
	} else {
		record := aggregate.Locale(target)
		if record == nil {
			return nil, ErrLocaleNotFound
		}
		targets = append(targets, record)
	}

	var problems []string
	for _, record := range targets {
		issues, err := s.localeIssues(ctx, aggregate, def, record)
		if err != nil {
			return nil, err
		}

		if record.Language == primary.Language {
			if len(secondaries) > 0 && !record.TranslationReady {
				issues = append(issues, fmt.Sprintf("the language %s is still working", record.Language))
			}
		} else if primary.TranslationReady && !record.TranslationReady {
			issues = append(issues, fmt.Sprintf("the language %s is still working", record.Language))
		}

		if len(issues) > 0 {
			problems = append(problems, issues...)
			continue
		}

		if err := s.publishLocale(ctx, aggregate, record); err != nil {
			return nil, err
		}
	}

	return problems, nil
}

// publishLocale snapshots the draft fields of one language after its
// preconditions passed.
func (s *service) publishLocale(ctx context.Context, aggregate *TemplateContent, record *LocalizedTemplateContent) error {
	if err := s.micro.PublishLanguage(ctx, aggregate.ID, record.Language); err != nil {
		return err
	}

	now := s.now()
	title := record.DraftTitle
	record.PublishedTitle = &title
	record.PublishedNavLabel = cloneStringValue(record.DraftNavLabel)
	record.PublishedContents = record.DraftContents.Clone()
	record.MarkPublished(now)
	record.UpdatedAt = now

	_, err := s.repo.UpdateRecord(ctx, record)
	return err
}

// Unpublish withdraws every language and clears the published payloads so a
// later partial re-publish cannot serve stale snapshots.
func (s *service) Unpublish(ctx context.Context, id uuid.UUID) error {
	aggregate, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.micro.UnpublishAll(ctx, aggregate.ID); err != nil {
		return err
	}

	now := s.now()
	for _, record := range aggregate.Locales {
		record.PublishedTitle = nil
		record.PublishedNavLabel = nil
		record.PublishedContents = nil
		record.ClearPublished()
		record.UpdatedAt = now
		if _, err := s.repo.UpdateRecord(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

// IsPublished is derived from the primary language's published version.
func (s *service) IsPublished(ctx context.Context, id uuid.UUID) (bool, error) {
	aggregate, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	primary := aggregate.PrimaryLocale()
	return primary != nil && primary.IsPublished(), nil
}

func cloneStringValue(value *string) *string {
	if value == nil {
		return nil
	}
	copy := *value
	return &copy
}
