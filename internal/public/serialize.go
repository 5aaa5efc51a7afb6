package public

import (
	"context"
	"sort"

	"github.com/google/uuid"

	appcontent "github.com/goliatone/go-appcontent/content"
	"github.com/goliatone/go-appcontent/domain"
	"github.com/goliatone/go-appcontent/internal/microcontent"
	"github.com/goliatone/go-appcontent/pkg/interfaces"
)

// serializeContents renders each declared field into the wire shape: text as
// a string (HTML for layoutable formats), links as a reference object, images
// as resolved renditions or nil, component lists as ordered entry objects.
func (s *service) serializeContents(ctx context.Context, contentID uuid.UUID, record *appcontent.LocalizedTemplateContent, def *interfaces.TemplateDefinition, state domain.AppState) (map[string]any, error) {
	values := record.DraftContents
	status := domain.StatusDraft
	if state == domain.AppStatePublished {
		values = record.PublishedContents
		status = domain.StatusPublished
	}

	keys := make([]string, 0, len(def.Contents))
	for key := range def.Contents {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(keys))
	for _, key := range keys {
		field := def.Contents[key]

		if field.Type == interfaces.FieldTypeImage {
			image, err := s.serializeImage(ctx, contentID, key, record.Language, status)
			if err != nil {
				return nil, err
			}
			out[key] = image
			continue
		}

		value, ok := values[key]
		if !ok {
			continue
		}
		serialized, err := s.serializeValue(ctx, contentID, record.Language, field, value, status)
		if err != nil {
			return nil, err
		}
		out[key] = serialized
	}
	return out, nil
}

func (s *service) serializeValue(ctx context.Context, contentID uuid.UUID, language string, field interfaces.FieldDefinition, value appcontent.Value, status domain.Status) (any, error) {
	switch value.Kind {
	case appcontent.ValueKindText:
		return s.text.Render(value.Text, field.Format)
	case appcontent.ValueKindLink:
		return s.serializeLink(ctx, language, value.Link)
	case appcontent.ValueKindComponents:
		return s.serializeComponents(ctx, contentID, language, value.Components, status)
	default:
		return nil, nil
	}
}

func (s *service) serializeLink(ctx context.Context, language string, link *appcontent.LinkRef) (map[string]any, error) {
	if link == nil {
		return nil, nil
	}
	url := link.URL
	if url == "" && s.urls != nil {
		resolved, err := s.urls.ContentURL(ctx, language, link.Slug)
		if err != nil {
			return nil, err
		}
		url = resolved
	}
	return map[string]any{
		"pk":           link.PK.String(),
		"slug":         link.Slug,
		"templateName": link.TemplateName,
		"title":        link.Title,
		"url":          url,
	}, nil
}

func (s *service) serializeComponents(ctx context.Context, contentID uuid.UUID, language string, entries []appcontent.Component, status domain.Status) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		serialized, err := s.serializeComponent(ctx, contentID, language, entry, status)
		if err != nil {
			return nil, err
		}
		out = append(out, serialized)
	}
	return out, nil
}

func (s *service) serializeComponent(ctx context.Context, contentID uuid.UUID, language string, entry appcontent.Component, status domain.Status) (map[string]any, error) {
	out := map[string]any{
		"uuid":         entry.UUID.String(),
		"templateName": entry.TemplateName,
	}

	keys := make([]string, 0, len(entry.Fields))
	for key := range entry.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := entry.Fields[key]
		switch value.Kind {
		case appcontent.ValueKindImage:
			image, err := s.serializeImage(ctx, contentID, microcontent.ComponentKey(entry.UUID, key), language, status)
			if err != nil {
				return nil, err
			}
			out[key] = image
		default:
			serialized, err := s.serializeValue(ctx, contentID, language, interfaces.FieldDefinition{}, value, status)
			if err != nil {
				return nil, err
			}
			out[key] = serialized
		}
	}
	return out, nil
}

// serializeImage looks the value up in the micro-content store. Absence is a
// normal state and serializes as nil.
func (s *service) serializeImage(ctx context.Context, contentID uuid.UUID, key, language string, status domain.Status) (*interfaces.ResolvedImage, error) {
	loc, err := s.micro.GetValue(ctx, contentID, key, language, status)
	if err != nil {
		return nil, err
	}
	if loc == nil || loc.ImagePath == nil || *loc.ImagePath == "" {
		return nil, nil
	}
	if s.media == nil {
		return &interfaces.ResolvedImage{
			ImageURL: interfaces.ImageRendition{"1x": *loc.ImagePath},
			Licence:  loc.Licence,
		}, nil
	}
	return s.media.ResolveImage(ctx, *loc.ImagePath, loc.Licence)
}
