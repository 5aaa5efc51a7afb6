package content

import (
	"github.com/google/uuid"
)

// ValueKind discriminates the closed set of content value shapes.
type ValueKind string

const (
	// ValueKindText holds a scalar string (plain or layoutable markup).
	ValueKindText ValueKind = "text"
	// ValueKindLink references another template content entry.
	ValueKindLink ValueKind = "templateContentLink"
	// ValueKindImage marks an image resolved indirectly through the
	// micro-content store; the value itself only carries the derived key.
	ValueKindImage ValueKind = "image"
	// ValueKindComponents holds an ordered list of repeatable components.
	ValueKindComponents ValueKind = "component"
)

// LinkRef is the persisted shape of a templateContentLink value.
type LinkRef struct {
	PK           uuid.UUID `json:"pk"`
	Slug         string    `json:"slug"`
	TemplateName string    `json:"templateName"`
	Title        string    `json:"title"`
	URL          string    `json:"url,omitempty"`
}

// Component is one entry of a repeatable field. The UUID is the stable address
// used for later edits, deletion, and image attachment.
type Component struct {
	UUID         uuid.UUID        `json:"uuid"`
	TemplateName string           `json:"templateName,omitempty"`
	Fields       map[string]Value `json:"fields,omitempty"`
}

// Value is a tagged union over the shapes a content field can take. Exactly
// one payload field is set for a given Kind.
type Value struct {
	Kind       ValueKind   `json:"kind"`
	Text       string      `json:"text,omitempty"`
	Link       *LinkRef    `json:"link,omitempty"`
	ImageKey   string      `json:"imageKey,omitempty"`
	Components []Component `json:"components,omitempty"`
}

// TextValue builds a scalar text value.
func TextValue(text string) Value {
	return Value{Kind: ValueKindText, Text: text}
}

// LinkValue builds a templateContentLink value.
func LinkValue(ref LinkRef) Value {
	return Value{Kind: ValueKindLink, Link: &ref}
}

// ImageValue builds an indirect image marker for the given micro-content key.
func ImageValue(key string) Value {
	return Value{Kind: ValueKindImage, ImageKey: key}
}

// ComponentsValue builds a repeatable component list value.
func ComponentsValue(entries []Component) Value {
	return Value{Kind: ValueKindComponents, Components: entries}
}

// IsZero reports whether the value carries no payload at all.
func (v Value) IsZero() bool {
	return v.Kind == "" && v.Text == "" && v.Link == nil && v.ImageKey == "" && len(v.Components) == 0
}

// HasContent reports whether the value would satisfy a required field.
func (v Value) HasContent() bool {
	switch v.Kind {
	case ValueKindText:
		return v.Text != ""
	case ValueKindLink:
		return v.Link != nil
	case ValueKindImage:
		return v.ImageKey != ""
	case ValueKindComponents:
		return len(v.Components) > 0
	default:
		return false
	}
}

// Clone returns a deep copy of the value.
func (v Value) Clone() Value {
	out := Value{Kind: v.Kind, Text: v.Text, ImageKey: v.ImageKey}
	if v.Link != nil {
		link := *v.Link
		out.Link = &link
	}
	if len(v.Components) > 0 {
		out.Components = make([]Component, len(v.Components))
		for i, entry := range v.Components {
			out.Components[i] = entry.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the component entry.
func (c Component) Clone() Component {
	out := Component{UUID: c.UUID, TemplateName: c.TemplateName}
	if len(c.Fields) > 0 {
		out.Fields = make(map[string]Value, len(c.Fields))
		for key, val := range c.Fields {
			out.Fields[key] = val.Clone()
		}
	}
	return out
}

// ContentMap holds the addressable field values of one localized record.
type ContentMap map[string]Value

// Clone deep-copies the map. A nil receiver stays nil so sparse records do not
// allocate empty maps on every snapshot.
func (m ContentMap) Clone() ContentMap {
	if m == nil {
		return nil
	}
	out := make(ContentMap, len(m))
	for key, val := range m {
		out[key] = val.Clone()
	}
	return out
}

// FindComponent locates a component entry by its stable UUID.
func (m ContentMap) FindComponent(key string, id uuid.UUID) (*Component, bool) {
	value, ok := m[key]
	if !ok {
		return nil, false
	}
	for i := range value.Components {
		if value.Components[i].UUID == id {
			return &value.Components[i], true
		}
	}
	return nil, false
}
