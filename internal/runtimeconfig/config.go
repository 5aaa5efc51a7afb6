package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var ErrDefaultLanguageRequired = errors.New("appcontent config: default language is required")
var ErrDefaultLanguageMissing = errors.New("appcontent config: languages must include the default language")
var ErrLanguageDuplicate = errors.New("appcontent config: language list contains duplicates")
var ErrStorageProviderUnknown = errors.New("appcontent config: storage provider is invalid")
var ErrStorageDSNRequired = errors.New("appcontent config: storage DSN is required for the bun provider")

// ErrAdvancedCacheRequiresEnabledCache ensures repository caching only builds when cache is enabled.
var ErrAdvancedCacheRequiresEnabledCache = errors.New("appcontent config: advanced cache feature requires cache to be enabled")
var ErrFlagDepthInvalid = errors.New("appcontent config: flag tree depth must be zero or positive")
var ErrNavigationDepthInvalid = errors.New("appcontent config: navigation depth must be between 1 and 3")
var ErrLoggingProviderRequired = errors.New("appcontent config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("appcontent config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("appcontent config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("appcontent config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the app content module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled         bool
	DefaultLanguage string
	Languages       []string
	Storage         StorageConfig
	Cache           CacheConfig
	Navigation      NavigationConfig
	Flags           FlagsConfig
	Commands        CommandsConfig
	Features        Features
	Logging         LoggingConfig
}

// StorageConfig selects and parameterizes the persistence backend.
type StorageConfig struct {
	Provider     string
	Driver       string
	DSN          string
	MaxOpenConns int
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// NavigationConfig captures routing configuration for navigation URL resolution.
type NavigationConfig struct {
	RouteConfig *urlkit.Config
	URLKit      URLKitResolverConfig
	MaxLevels   int
	Navigations map[string]NavigationSettings
}

// NavigationSettings binds per-type navigation behaviour, keyed by navigation type.
type NavigationSettings struct {
	Name      string
	Offline   bool
	MaxLevels int
}

// URLKitResolverConfig configures the go-urlkit based resolver.
type URLKitResolverConfig struct {
	DefaultGroup  string
	LocaleGroups  map[string]string
	DefaultRoute  string
	SlugParam     string
	LanguageParam string
}

// FlagsConfig captures flag tree behaviour.
type FlagsConfig struct {
	MaxLevels int
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled                bool
	AutoRegisterDispatcher bool
}

// Features toggles module functionality.
type Features struct {
	AdvancedCache bool
	Logger        bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for a single-language deployment.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		DefaultLanguage: "en",
		Languages:       []string{"en"},
		Storage: StorageConfig{
			Provider: "memory",
			Driver:   "sqlite3",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Navigation: NavigationConfig{
			MaxLevels: 1,
		},
		Flags:    FlagsConfig{MaxLevels: 2},
		Commands: CommandsConfig{},
		Features: Features{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.DefaultLanguage) == "" {
		return ErrDefaultLanguageRequired
	}
	if len(cfg.Languages) > 0 {
		seen := map[string]bool{}
		hasDefault := false
		for _, lang := range cfg.Languages {
			key := strings.ToLower(strings.TrimSpace(lang))
			if seen[key] {
				return fmt.Errorf("%w: %s", ErrLanguageDuplicate, lang)
			}
			seen[key] = true
			if key == strings.ToLower(strings.TrimSpace(cfg.DefaultLanguage)) {
				hasDefault = true
			}
		}
		if !hasDefault {
			return fmt.Errorf("%w: %s", ErrDefaultLanguageMissing, cfg.DefaultLanguage)
		}
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Storage.Provider))
	switch provider {
	case "", "memory":
	case "bun":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}
	if cfg.Features.AdvancedCache && !cfg.Cache.Enabled {
		return ErrAdvancedCacheRequiresEnabledCache
	}
	if cfg.Flags.MaxLevels < 0 {
		return fmt.Errorf("%w: %d", ErrFlagDepthInvalid, cfg.Flags.MaxLevels)
	}
	if cfg.Navigation.MaxLevels < 0 || cfg.Navigation.MaxLevels > 3 {
		return fmt.Errorf("%w: %d", ErrNavigationDepthInvalid, cfg.Navigation.MaxLevels)
	}
	for navType, settings := range cfg.Navigation.Navigations {
		if settings.MaxLevels < 0 || settings.MaxLevels > 3 {
			return fmt.Errorf("%w: %s=%d", ErrNavigationDepthInvalid, navType, settings.MaxLevels)
		}
	}
	if cfg.Features.Logger {
		logProvider := normalizeProvider(cfg.Logging.Provider)
		if logProvider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(logProvider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, logProvider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if logProvider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
