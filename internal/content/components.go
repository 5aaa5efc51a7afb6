package content

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-appcontent/pkg/interfaces"
)

// AddComponentEntry appends an entry to a repeatable field and assigns it the
// UUID later used to address edits, deletion, and image attachment.
func (s *service) AddComponentEntry(ctx context.Context, req AddComponentEntryRequest) (*Component, error) {
	aggregate, record, field, err := s.componentField(ctx, req.ContentID, req.Language, req.Key)
	if err != nil {
		return nil, err
	}

	value := record.DraftContents[req.Key]
	if field.MaxNumber > 0 && len(value.Components) >= field.MaxNumber {
		return nil, ErrComponentLimit
	}

	entry := Component{
		UUID:         s.id(),
		TemplateName: field.TemplateName,
		Fields:       cloneComponentFields(req.Fields),
	}
	value.Kind = ValueKindComponents
	value.Components = append(value.Components, entry)
	if record.DraftContents == nil {
		record.DraftContents = ContentMap{}
	}
	record.DraftContents[req.Key] = value

	if _, err := s.persistDraft(ctx, aggregate, record, true, req.SavedBy); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateComponentEntry replaces the fields of an existing entry in place,
// keeping its UUID and position.
func (s *service) UpdateComponentEntry(ctx context.Context, req UpdateComponentEntryRequest) (*Component, error) {
	aggregate, record, _, err := s.componentField(ctx, req.ContentID, req.Language, req.Key)
	if err != nil {
		return nil, err
	}

	entry, ok := record.DraftContents.FindComponent(req.Key, req.Entry)
	if !ok {
		return nil, ErrComponentNotFound
	}
	entry.Fields = cloneComponentFields(req.Fields)

	if _, err := s.persistDraft(ctx, aggregate, record, true, req.SavedBy); err != nil {
		return nil, err
	}
	result := entry.Clone()
	return &result, nil
}

// RemoveComponentEntry deletes an entry and every micro-content row keyed to
// its UUID so image attachments cannot outlive the entry.
func (s *service) RemoveComponentEntry(ctx context.Context, req RemoveComponentEntryRequest) error {
	aggregate, record, _, err := s.componentField(ctx, req.ContentID, req.Language, req.Key)
	if err != nil {
		return err
	}

	value := record.DraftContents[req.Key]
	index := -1
	for i, entry := range value.Components {
		if entry.UUID == req.Entry {
			index = i
			break
		}
	}
	if index < 0 {
		return ErrComponentNotFound
	}
	value.Components = append(value.Components[:index], value.Components[index+1:]...)
	record.DraftContents[req.Key] = value

	if err := s.micro.DeleteComponent(ctx, aggregate.ID, req.Entry); err != nil {
		return err
	}

	_, err = s.persistDraft(ctx, aggregate, record, true, req.SavedBy)
	return err
}

// componentField loads the aggregate, the localized record, and the field
// definition, verifying the field is a repeatable component.
func (s *service) componentField(ctx context.Context, contentID uuid.UUID, language, key string) (*TemplateContent, *LocalizedTemplateContent, interfaces.FieldDefinition, error) {
	aggregate, err := s.Get(ctx, contentID)
	if err != nil {
		return nil, nil, interfaces.FieldDefinition{}, err
	}
	record := aggregate.Locale(strings.TrimSpace(language))
	if record == nil {
		return nil, nil, interfaces.FieldDefinition{}, ErrLocaleNotFound
	}
	def, err := s.templates.Definition(ctx, aggregate.TemplateName)
	if err != nil {
		return nil, nil, interfaces.FieldDefinition{}, ErrTemplateUnknown
	}
	field, ok := def.Field(key)
	if !ok {
		return nil, nil, interfaces.FieldDefinition{}, &ValidationError{Issues: []string{"field " + key + " is not part of the template"}}
	}
	if field.Type != interfaces.FieldTypeComponent || !field.AllowMultiple {
		return nil, nil, interfaces.FieldDefinition{}, ErrFieldNotRepeatable
	}
	return aggregate, record, field, nil
}

func cloneComponentFields(fields map[string]Value) map[string]Value {
	if fields == nil {
		return nil
	}
	out := make(map[string]Value, len(fields))
	for key, value := range fields {
		out[key] = value.Clone()
	}
	return out
}
