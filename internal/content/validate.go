package content

import (
	"fmt"
	"sort"

	appcontent "github.com/goliatone/go-appcontent/content"
	"github.com/goliatone/go-appcontent/pkg/interfaces"
)

// validateContents checks a submitted content map against the template's
// definition at the write boundary. Unknown keys are rejected loudly so a
// content map can never drift away from its bound template.
func validateContents(def *interfaces.TemplateDefinition, contents ContentMap) error {
	if len(contents) == 0 {
		return nil
	}

	keys := make([]string, 0, len(contents))
	for key := range contents {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	issues := []string{}
	for _, key := range keys {
		value := contents[key]
		field, ok := def.Field(key)
		if !ok {
			issues = append(issues, fmt.Sprintf("field %s is not part of the template", key))
			continue
		}
		issues = append(issues, validateValue(key, field, value)...)
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func validateValue(key string, field interfaces.FieldDefinition, value Value) []string {
	issues := []string{}

	switch field.Type {
	case interfaces.FieldTypeText:
		if value.Kind != appcontent.ValueKindText {
			issues = append(issues, fmt.Sprintf("field %s expects text", key))
		}
	case interfaces.FieldTypeLink:
		if value.Kind != appcontent.ValueKindLink || value.Link == nil {
			issues = append(issues, fmt.Sprintf("field %s expects a content link", key))
		}
	case interfaces.FieldTypeImage:
		if value.Kind != appcontent.ValueKindImage {
			issues = append(issues, fmt.Sprintf("field %s expects an image reference", key))
		}
	case interfaces.FieldTypeComponent:
		if value.Kind != appcontent.ValueKindComponents {
			issues = append(issues, fmt.Sprintf("field %s expects component entries", key))
			break
		}
		if !field.AllowMultiple && len(value.Components) > 1 {
			issues = append(issues, fmt.Sprintf("field %s does not allow multiple entries", key))
		}
		if field.MaxNumber > 0 && len(value.Components) > field.MaxNumber {
			issues = append(issues, fmt.Sprintf("field %s exceeds the maximum of %d entries", key, field.MaxNumber))
		}
	default:
		issues = append(issues, fmt.Sprintf("field %s has an unsupported type %q", key, field.Type))
	}

	return issues
}
