package public

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	appcontent "github.com/goliatone/go-appcontent/content"
	"github.com/goliatone/go-appcontent/domain"
	"github.com/goliatone/go-appcontent/internal/content"
	"github.com/goliatone/go-appcontent/internal/logging"
	"github.com/goliatone/go-appcontent/internal/microcontent"
	"github.com/goliatone/go-appcontent/internal/slugs"
	"github.com/goliatone/go-appcontent/pkg/interfaces"
)

// ContentReader is the slice of the content store the read API needs.
type ContentReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*appcontent.TemplateContent, error)
	GetRecordBySlug(ctx context.Context, slug string) (*appcontent.LocalizedTemplateContent, error)
}

// URLResolver builds public URLs for linked content.
type URLResolver interface {
	ContentURL(ctx context.Context, language, slug string) (string, error)
}

// Request addresses one page by slug. Stale slugs are followed through the
// redirect trail; the response carries the live slug so callers can emit a
// redirect.
type Request struct {
	Slug     string
	Language string
	State    domain.AppState
	// PreviewToken authorizes draft-state reads.
	PreviewToken string
}

// Page is the serialized read model of one content record.
type Page struct {
	ContentID    uuid.UUID      `json:"content_id"`
	Slug         string         `json:"slug"`
	Redirected   bool           `json:"redirected,omitempty"`
	Language     string         `json:"language"`
	Title        string         `json:"title"`
	NavLabel     *string        `json:"nav_label,omitempty"`
	TemplateName string         `json:"template_name"`
	TemplatePath string         `json:"template_path,omitempty"`
	Version      int            `json:"version"`
	PublishedAt  *time.Time     `json:"published_at,omitempty"`
	Contents     map[string]any `json:"contents"`
	LinkedTaxa   []string       `json:"linked_taxa,omitempty"`
}

// Service is the public read surface of the module.
type Service interface {
	GetBySlug(ctx context.Context, req Request) (*Page, error)
}

// ServiceOption configures the service.
type ServiceOption func(*service)

// WithMediaResolver injects the image rendition resolver.
func WithMediaResolver(resolver interfaces.MediaResolver) ServiceOption {
	return func(s *service) {
		s.media = resolver
	}
}

// WithTaxaLinker injects the taxonomy link reader.
func WithTaxaLinker(linker interfaces.TaxaLinker) ServiceOption {
	return func(s *service) {
		s.taxa = linker
	}
}

// WithURLResolver injects the resolver used for link field URLs.
func WithURLResolver(resolver URLResolver) ServiceOption {
	return func(s *service) {
		s.urls = resolver
	}
}

// WithTextRenderer overrides the layoutable text renderer.
func WithTextRenderer(renderer TextRenderer) ServiceOption {
	return func(s *service) {
		if renderer != nil {
			s.text = renderer
		}
	}
}

// WithLogger injects the logger used by the service.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		s.logger = logging.Ensure(logger)
	}
}

type service struct {
	contents  ContentReader
	registry  *slugs.Registry
	micro     microcontent.Service
	templates interfaces.TemplateProvider
	media     interfaces.MediaResolver
	taxa      interfaces.TaxaLinker
	urls      URLResolver
	text      TextRenderer
	logger    interfaces.Logger
}

// NewService constructs the public read service.
func NewService(contents ContentReader, registry *slugs.Registry, micro microcontent.Service, templates interfaces.TemplateProvider, opts ...ServiceOption) Service {
	s := &service{
		contents:  contents,
		registry:  registry,
		micro:     micro,
		templates: templates,
		text:      NewGoldmarkRenderer(),
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) GetBySlug(ctx context.Context, req Request) (*Page, error) {
	requested := strings.TrimSpace(req.Slug)

	live, err := s.registry.Resolve(ctx, requested)
	if err != nil {
		return nil, err
	}

	record, err := s.contents.GetRecordBySlug(ctx, live)
	if err != nil {
		return nil, err
	}
	// Slugs are per-language; a slug resolving to another language's record
	// means the page does not exist in the requested language.
	if req.Language != "" && record.Language != req.Language {
		return nil, &content.NotFoundError{Resource: "localized_template_content", Key: requested}
	}

	aggregate, err := s.contents.GetByID(ctx, record.TemplateContentID)
	if err != nil {
		return nil, err
	}

	page := &Page{
		ContentID:    aggregate.ID,
		Slug:         live,
		Redirected:   live != requested,
		Language:     record.Language,
		TemplateName: aggregate.TemplateName,
	}

	switch req.State {
	case domain.AppStatePublished:
		if !record.IsPublished() || record.PublishedTitle == nil {
			return nil, content.ErrNotPublished
		}
		page.Title = *record.PublishedTitle
		page.NavLabel = record.PublishedNavLabel
		page.Version = *record.PublishedVersion
		page.PublishedAt = record.PublishedAt
	default:
		if err := s.authorizePreview(record, req.PreviewToken); err != nil {
			return nil, err
		}
		page.Title = record.DraftTitle
		page.NavLabel = record.DraftNavLabel
		page.Version = record.DraftVersion
	}

	def, err := s.templates.Definition(ctx, aggregate.TemplateName)
	if err != nil {
		return nil, err
	}
	if path, err := s.templates.TemplatePath(ctx, aggregate.TemplateName); err == nil {
		page.TemplatePath = path
	}

	page.Contents, err = s.serializeContents(ctx, aggregate.ID, record, def, req.State)
	if err != nil {
		return nil, err
	}

	if s.taxa != nil {
		page.LinkedTaxa, err = s.taxa.LinkedTaxa(ctx, aggregate.ID.String())
		if err != nil {
			return nil, err
		}
	}
	return page, nil
}

// authorizePreview gates draft-state reads behind the record's preview token.
func (s *service) authorizePreview(record *appcontent.LocalizedTemplateContent, token string) error {
	if record.PreviewToken == nil || *record.PreviewToken == "" {
		return content.ErrPreviewTokenMismatch
	}
	if token == "" || token != *record.PreviewToken {
		return content.ErrPreviewTokenMismatch
	}
	return nil
}
