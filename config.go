package appcontent

import "github.com/goliatone/go-appcontent/internal/runtimeconfig"

var (
	ErrDefaultLanguageRequired           = runtimeconfig.ErrDefaultLanguageRequired
	ErrDefaultLanguageMissing            = runtimeconfig.ErrDefaultLanguageMissing
	ErrLanguageDuplicate                 = runtimeconfig.ErrLanguageDuplicate
	ErrStorageProviderUnknown            = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired                = runtimeconfig.ErrStorageDSNRequired
	ErrAdvancedCacheRequiresEnabledCache = runtimeconfig.ErrAdvancedCacheRequiresEnabledCache
	ErrFlagDepthInvalid                  = runtimeconfig.ErrFlagDepthInvalid
	ErrNavigationDepthInvalid            = runtimeconfig.ErrNavigationDepthInvalid
	ErrLoggingProviderRequired           = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown            = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid               = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid              = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	StorageConfig        = runtimeconfig.StorageConfig
	CacheConfig          = runtimeconfig.CacheConfig
	NavigationConfig     = runtimeconfig.NavigationConfig
	NavigationSettings   = runtimeconfig.NavigationSettings
	URLKitResolverConfig = runtimeconfig.URLKitResolverConfig
	FlagsConfig          = runtimeconfig.FlagsConfig
	CommandsConfig       = runtimeconfig.CommandsConfig
	Features             = runtimeconfig.Features
	LoggingConfig        = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
