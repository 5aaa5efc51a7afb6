package interfaces

import "context"

// FieldType enumerates the content field kinds a template definition can declare.
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeImage     FieldType = "image"
	FieldTypeComponent FieldType = "component"
	FieldTypeLink      FieldType = "templateContentLink"
)

// FieldFormat captures optional layout hints for text fields.
type FieldFormat string

const (
	FieldFormatLayoutableSimple FieldFormat = "layoutable-simple"
	FieldFormatLayoutableFull   FieldFormat = "layoutable-full"
)

// FieldDefinition describes a single addressable content field of a template.
type FieldDefinition struct {
	Type          FieldType   `json:"type"`
	Required      bool        `json:"required,omitempty"`
	AllowMultiple bool        `json:"allowMultiple,omitempty"`
	MaxNumber     int         `json:"maxNumber,omitempty"`
	Label         string      `json:"label,omitempty"`
	HelpText      string      `json:"helpText,omitempty"`
	Format        FieldFormat `json:"format,omitempty"`
	TemplateName  string      `json:"templateName,omitempty"`
}

// TemplateDefinition is the schema a template publishes for its content map.
type TemplateDefinition struct {
	Contents map[string]FieldDefinition `json:"contents"`
}

// Field returns the definition for a content key, when declared.
func (d *TemplateDefinition) Field(key string) (FieldDefinition, bool) {
	if d == nil || d.Contents == nil {
		return FieldDefinition{}, false
	}
	def, ok := d.Contents[key]
	return def, ok
}

// TemplateProvider resolves template definitions by name. The file-based
// template/theme loader lives outside this module; anything satisfying this
// contract can back it.
type TemplateProvider interface {
	Definition(ctx context.Context, templateName string) (*TemplateDefinition, error)
	TemplatePath(ctx context.Context, templateName string) (string, error)
}
