package appcontent

import (
	"context"
	"strings"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-appcontent/internal/content"
	"github.com/goliatone/go-appcontent/internal/di"
	"github.com/goliatone/go-appcontent/internal/flags"
	"github.com/goliatone/go-appcontent/internal/microcontent"
	"github.com/goliatone/go-appcontent/internal/navigation"
	"github.com/goliatone/go-appcontent/internal/public"
	"github.com/goliatone/go-appcontent/internal/slugs"
	"github.com/goliatone/go-appcontent/pkg/interfaces"
	"github.com/google/uuid"
)

// ContentService exports the content service contract for consumers of the module.
type ContentService = content.Service

// MicroContentService exports the micro-content service contract.
type MicroContentService = microcontent.Service

// FlagService exports the flag service contract.
type FlagService = flags.Service

// NavigationService exports the navigation service contract.
type NavigationService = navigation.Service

// PublicService exports the public read service contract.
type PublicService = public.Service

// SlugRegistry exports the slug registry used for global slug uniqueness.
type SlugRegistry = slugs.Registry

// TemplateProvider exports the template definition contract.
type TemplateProvider = interfaces.TemplateProvider

// TemplateDefinition exports the template definition DTO.
type TemplateDefinition = interfaces.TemplateDefinition

// MediaResolver exports the image variant resolution contract.
type MediaResolver = interfaces.MediaResolver

// Module represents the top level app-content runtime façade.
type Module struct {
	container *di.Container
}

// New constructs the module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Content returns the configured content service.
func (m *Module) Content() ContentService {
	return m.container.ContentService()
}

// MicroContent returns the configured micro-content service.
func (m *Module) MicroContent() MicroContentService {
	return m.container.MicroContentService()
}

// Flags returns the configured flag service.
func (m *Module) Flags() FlagService {
	return m.container.FlagService()
}

// Navigation returns the configured navigation service.
func (m *Module) Navigation() NavigationService {
	return m.container.NavigationService()
}

// Public returns the configured public read service.
func (m *Module) Public() PublicService {
	return m.container.PublicService()
}

// Templates returns the template provider used for definition lookups.
func (m *Module) Templates() TemplateProvider {
	return m.container.TemplateProvider()
}

// Slugs returns the slug registry shared by content writes and public reads.
func (m *Module) Slugs() *SlugRegistry {
	return m.container.SlugRegistry()
}

// DB exposes the configured database handle, nil for memory storage.
func (m *Module) DB() *bun.DB {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.DB()
}

// CreateSchema creates the module tables when a database is configured.
func (m *Module) CreateSchema(ctx context.Context) error {
	return m.container.CreateSchema(ctx, Models())
}

// EnsureNavigations creates or updates the navigations declared in the
// configuration for the given app.
func (m *Module) EnsureNavigations(ctx context.Context, appID uuid.UUID) error {
	navCfg := m.container.Config.Navigation
	for navType, settings := range navCfg.Navigations {
		levels := settings.MaxLevels
		if levels == 0 {
			levels = navCfg.MaxLevels
		}
		name := strings.TrimSpace(settings.Name)
		if name == "" {
			name = navType
		}
		_, err := m.Navigation().Ensure(ctx, navigation.EnsureRequest{
			AppID:     appID,
			Type:      navType,
			Name:      name,
			MaxLevels: levels,
			Offline:   settings.Offline,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Close releases command subscriptions and the database when the module
// opened it.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
