package public

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-appcontent/pkg/interfaces"
)

// TextRenderer turns stored layoutable text into HTML for the read API.
type TextRenderer interface {
	Render(text string, format interfaces.FieldFormat) (string, error)
}

// GoldmarkRenderer implements TextRenderer using the goldmark engine. The
// simple format allows inline markup only; the full format adds GFM tables,
// task lists, and autolinks.
type GoldmarkRenderer struct {
	simple goldmark.Markdown
	full   goldmark.Markdown
}

// NewGoldmarkRenderer constructs a renderer with both format engines.
func NewGoldmarkRenderer() *GoldmarkRenderer {
	return &GoldmarkRenderer{
		simple: goldmark.New(
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		full: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.TaskList),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Render satisfies TextRenderer. Text without a layoutable format passes
// through unchanged.
func (r *GoldmarkRenderer) Render(text string, format interfaces.FieldFormat) (string, error) {
	var engine goldmark.Markdown
	switch format {
	case interfaces.FieldFormatLayoutableSimple:
		engine = r.simple
	case interfaces.FieldFormatLayoutableFull:
		engine = r.full
	default:
		return text, nil
	}

	var buf bytes.Buffer
	if err := engine.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("public: render text: %w", err)
	}
	return buf.String(), nil
}
