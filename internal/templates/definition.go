package templates

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-appcontent/pkg/interfaces"
)

var (
	ErrDefinitionInvalid  = errors.New("templates: definition invalid")
	ErrTemplateNotFound   = errors.New("templates: template not found")
	ErrDefinitionRequired = errors.New("templates: definition payload required")
)

// definitionSchema validates the JSON shape a template loader hands us before
// it ever reaches persistence or the editing services.
const definitionSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "TemplateDefinition",
  "type": "object",
  "required": ["contents"],
  "properties": {
    "contents": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["type"],
        "properties": {
          "type": {"enum": ["text", "image", "component", "templateContentLink"]},
          "required": {"type": "boolean"},
          "allowMultiple": {"type": "boolean"},
          "maxNumber": {"type": "integer", "minimum": 1},
          "label": {"type": "string"},
          "helpText": {"type": "string"},
          "format": {"enum": ["layoutable-simple", "layoutable-full"]},
          "templateName": {"type": "string"}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": true
}`

var compiledDefinitionSchema = mustCompileDefinitionSchema()

func mustCompileDefinitionSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("template-definition.json", bytes.NewReader([]byte(definitionSchema))); err != nil {
		panic(fmt.Sprintf("templates: add definition schema: %v", err))
	}
	return compiler.MustCompile("template-definition.json")
}

// ParseDefinition decodes raw JSON into a template definition, validating it
// against the definition schema first.
func ParseDefinition(raw []byte) (*interfaces.TemplateDefinition, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrDefinitionRequired
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDefinitionInvalid, err)
	}
	if err := compiledDefinitionSchema.Validate(generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDefinitionInvalid, err)
	}

	var def interfaces.TemplateDefinition
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDefinitionInvalid, err)
	}
	return &def, nil
}

// ValidateDefinition ensures an already-decoded definition is well formed.
func ValidateDefinition(def *interfaces.TemplateDefinition) error {
	if def == nil {
		return ErrDefinitionRequired
	}
	raw, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDefinitionInvalid, err)
	}
	_, err = ParseDefinition(raw)
	return err
}

// NormalizeTemplateName lowercases and trims a template identifier.
func NormalizeTemplateName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
