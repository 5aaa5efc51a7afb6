package di

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-appcontent/internal/commands"
	contentcmd "github.com/goliatone/go-appcontent/internal/commands/content"
	"github.com/goliatone/go-appcontent/internal/content"
	"github.com/goliatone/go-appcontent/internal/flags"
	"github.com/goliatone/go-appcontent/internal/logging"
	"github.com/goliatone/go-appcontent/internal/logging/gologger"
	"github.com/goliatone/go-appcontent/internal/microcontent"
	"github.com/goliatone/go-appcontent/internal/navigation"
	"github.com/goliatone/go-appcontent/internal/public"
	"github.com/goliatone/go-appcontent/internal/runtimeconfig"
	"github.com/goliatone/go-appcontent/internal/slugs"
	"github.com/goliatone/go-appcontent/internal/templates"
	"github.com/goliatone/go-appcontent/pkg/interfaces"
	"github.com/goliatone/go-appcontent/pkg/storage"
)

// Subscription detaches a command handler registered with the dispatcher.
type Subscription interface {
	Unsubscribe()
}

// Container wires module dependencies. Memory-backed repositories are the
// default; a bun.DB (injected or opened from config) swaps in the persistent
// implementations.
type Container struct {
	Config runtimeconfig.Config

	bunDB  *bun.DB
	ownsDB bool

	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider
	templates      interfaces.TemplateProvider
	media          interfaces.MediaResolver
	taxa           interfaces.TaxaLinker

	contentRepo content.Repository
	microRepo   microcontent.Repository
	flagRepo    flags.Repository
	navRepo     navigation.Repository
	trailRepo   slugs.TrailRepository

	routeManager *urlkit.RouteManager
	urlResolver  *navigation.URLKitResolver

	slugRegistry *slugs.Registry
	microSvc     microcontent.Service
	contentSvc   content.Service
	flagSvc      flags.Service
	navSvc       navigation.Service
	publicSvc    public.Service

	subscriptions []Subscription
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB injects an existing database handle instead of opening one from
// the storage config. The caller keeps ownership of the handle.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the default logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithTemplateProvider overrides the default template provider.
func WithTemplateProvider(provider interfaces.TemplateProvider) Option {
	return func(c *Container) {
		c.templates = provider
	}
}

// WithMediaResolver installs an image variant resolver for public reads.
func WithMediaResolver(resolver interfaces.MediaResolver) Option {
	return func(c *Container) {
		c.media = resolver
	}
}

// WithTaxaLinker installs a taxonomy linker for public reads.
func WithTaxaLinker(linker interfaces.TaxaLinker) Option {
	return func(c *Container) {
		c.taxa = linker
	}
}

// WithContentRepository overrides the content repository binding.
func WithContentRepository(repo content.Repository) Option {
	return func(c *Container) {
		c.contentRepo = repo
	}
}

// WithContentService overrides the default content service binding.
func WithContentService(svc content.Service) Option {
	return func(c *Container) {
		c.contentSvc = svc
	}
}

// WithFlagService overrides the default flag service binding.
func WithFlagService(svc flags.Service) Option {
	return func(c *Container) {
		c.flagSvc = svc
	}
}

// WithNavigationService overrides the default navigation service binding.
func WithNavigationService(svc navigation.Service) Option {
	return func(c *Container) {
		c.navSvc = svc
	}
}

// WithPublicService overrides the default public read service binding.
func WithPublicService(svc public.Service) Option {
	return func(c *Container) {
		c.publicSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:      cfg,
		cacheTTL:    cacheTTL,
		contentRepo: content.NewMemoryRepository(),
		microRepo:   microcontent.NewMemoryRepository(),
		flagRepo:    flags.NewMemoryRepository(),
		navRepo:     navigation.NewMemoryRepository(),
		trailRepo:   slugs.NewMemoryTrailRepository(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	c.configureNavigation()

	if c.templates == nil {
		c.templates = templates.NewStaticProvider()
	}

	c.slugRegistry = slugs.NewRegistry(c.contentRepo, c.trailRepo)

	if c.microSvc == nil {
		c.microSvc = microcontent.NewService(
			c.microRepo,
			microcontent.WithLogger(c.moduleLogger("microcontent")),
		)
	}

	if c.flagSvc == nil {
		flagOpts := []flags.ServiceOption{
			flags.WithLogger(c.moduleLogger("flags")),
		}
		if cfg.Flags.MaxLevels > 0 {
			flagOpts = append(flagOpts, flags.WithMaxLevels(cfg.Flags.MaxLevels))
		}
		c.flagSvc = flags.NewService(c.flagRepo, c.contentRepo, flagOpts...)
	}

	if c.navSvc == nil {
		navOpts := []navigation.ServiceOption{
			navigation.WithLogger(c.moduleLogger("navigation")),
		}
		if c.urlResolver != nil {
			navOpts = append(navOpts, navigation.WithURLResolver(c.urlResolver))
		}
		c.navSvc = navigation.NewService(c.navRepo, c.contentRepo, navOpts...)
	}

	if c.contentSvc == nil {
		c.contentSvc = content.NewService(
			c.contentRepo,
			c.slugRegistry,
			c.microSvc,
			c.templates,
			content.WithLogger(c.moduleLogger("content")),
			content.WithDeletionHook(c.flagSvc.RemoveContent),
			content.WithDeletionHook(c.navSvc.DetachContent),
		)
	}

	if c.publicSvc == nil {
		publicOpts := []public.ServiceOption{
			public.WithLogger(c.moduleLogger("public")),
		}
		if c.media != nil {
			publicOpts = append(publicOpts, public.WithMediaResolver(c.media))
		}
		if c.taxa != nil {
			publicOpts = append(publicOpts, public.WithTaxaLinker(c.taxa))
		}
		if c.urlResolver != nil {
			publicOpts = append(publicOpts, public.WithURLResolver(c.urlResolver))
		}
		c.publicSvc = public.NewService(c.contentRepo, c.slugRegistry, c.microSvc, c.templates, publicOpts...)
	}

	if cfg.Commands.Enabled && cfg.Commands.AutoRegisterDispatcher {
		c.registerCommandHandlers()
	}

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	if strings.EqualFold(strings.TrimSpace(c.Config.Logging.Provider), "gologger") {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	}
	return nil
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil {
		return nil
	}
	if !strings.EqualFold(strings.TrimSpace(c.Config.Storage.Provider), "bun") {
		return nil
	}
	db, err := storage.Open(storage.Config{
		Driver:       c.Config.Storage.Driver,
		DSN:          c.Config.Storage.DSN,
		MaxOpenConns: c.Config.Storage.MaxOpenConns,
	})
	if err != nil {
		return err
	}
	c.bunDB = db
	c.ownsDB = true
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		return
	}
	c.contentRepo = content.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.microRepo = microcontent.NewBunRepository(c.bunDB)
	c.flagRepo = flags.NewBunRepository(c.bunDB)
	c.navRepo = navigation.NewBunRepository(c.bunDB)
	c.trailRepo = slugs.NewBunTrailRepository(c.bunDB)
}

func (c *Container) configureNavigation() {
	if c.urlResolver != nil {
		return
	}

	navCfg := c.Config.Navigation
	if navCfg.RouteConfig == nil {
		return
	}

	manager := urlkit.NewRouteManager(navCfg.RouteConfig)
	c.routeManager = manager

	c.urlResolver = navigation.NewURLKitResolver(navigation.URLKitResolverOptions{
		Manager:       manager,
		Group:         strings.TrimSpace(navCfg.URLKit.DefaultGroup),
		LocaleGroups:  navCfg.URLKit.LocaleGroups,
		Route:         strings.TrimSpace(navCfg.URLKit.DefaultRoute),
		SlugParam:     strings.TrimSpace(navCfg.URLKit.SlugParam),
		LanguageParam: strings.TrimSpace(navCfg.URLKit.LanguageParam),
	})
}

func (c *Container) registerCommandHandlers() {
	logger := commands.CommandLogger(c.loggerProvider, "content")

	c.subscriptions = append(c.subscriptions,
		dispatcher.SubscribeCommand(contentcmd.NewSaveContentHandler(c.contentSvc, logger)),
		dispatcher.SubscribeCommand(contentcmd.NewPublishContentHandler(c.contentSvc, logger)),
		dispatcher.SubscribeCommand(contentcmd.NewUnpublishContentHandler(c.contentSvc, logger)),
		dispatcher.SubscribeCommand(contentcmd.NewMarkTranslationReadyHandler(c.contentSvc, logger)),
	)
}

func (c *Container) moduleLogger(module string) interfaces.Logger {
	return logging.ModuleLogger(c.loggerProvider, module)
}

// CreateSchema creates the module tables when a database is configured.
func (c *Container) CreateSchema(ctx context.Context, models []any) error {
	if c.bunDB == nil {
		return nil
	}
	for _, model := range models {
		if _, err := c.bunDB.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close detaches command handlers and closes the database when the container
// opened it.
func (c *Container) Close() error {
	for _, sub := range c.subscriptions {
		sub.Unsubscribe()
	}
	c.subscriptions = nil

	if c.contentSvc != nil {
		if err := c.contentSvc.Close(); err != nil {
			return err
		}
	}

	if c.ownsDB && c.bunDB != nil {
		err := c.bunDB.Close()
		c.bunDB = nil
		return err
	}
	return nil
}

// DB exposes the configured database handle, nil for memory storage.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// TemplateProvider exposes the configured template provider.
func (c *Container) TemplateProvider() interfaces.TemplateProvider {
	return c.templates
}

// ContentRepository exposes the configured content repository.
func (c *Container) ContentRepository() content.Repository {
	return c.contentRepo
}

// SlugRegistry exposes the slug registry shared by content and public reads.
func (c *Container) SlugRegistry() *slugs.Registry {
	return c.slugRegistry
}

// RouteManager exposes the urlkit route manager when navigation routing is
// configured.
func (c *Container) RouteManager() *urlkit.RouteManager {
	return c.routeManager
}

// ContentService returns the configured content service.
func (c *Container) ContentService() content.Service {
	return c.contentSvc
}

// MicroContentService returns the configured micro-content service.
func (c *Container) MicroContentService() microcontent.Service {
	return c.microSvc
}

// FlagService returns the configured flag service.
func (c *Container) FlagService() flags.Service {
	return c.flagSvc
}

// NavigationService returns the configured navigation service.
func (c *Container) NavigationService() navigation.Service {
	return c.navSvc
}

// PublicService returns the configured public read service.
func (c *Container) PublicService() public.Service {
	return c.publicSvc
}
