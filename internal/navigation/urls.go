package navigation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"
)

// URLKitResolverOptions configures the go-urlkit backed resolver.
type URLKitResolverOptions struct {
	Manager *urlkit.RouteManager
	// Group names the route group holding the content route.
	Group string
	// LocaleGroups maps a language to a route group, overriding Group.
	LocaleGroups map[string]string
	// Route is the route name inside the group, e.g. "content".
	Route string
	// SlugParam defaults to "slug".
	SlugParam string
	// LanguageParam, when set, adds the language as a route param.
	LanguageParam string
}

// URLKitResolver builds entry URLs through a go-urlkit RouteManager.
type URLKitResolver struct {
	manager       *urlkit.RouteManager
	group         string
	localeGroups  map[string]string
	route         string
	slugParam     string
	languageParam string

	groupCache map[string]*urlkit.Group
	mu         sync.RWMutex
}

// NewURLKitResolver constructs a resolver backed by go-urlkit.
func NewURLKitResolver(opts URLKitResolverOptions) *URLKitResolver {
	if opts.SlugParam == "" {
		opts.SlugParam = "slug"
	}
	return &URLKitResolver{
		manager:       opts.Manager,
		group:         strings.TrimSpace(opts.Group),
		localeGroups:  opts.LocaleGroups,
		route:         strings.TrimSpace(opts.Route),
		slugParam:     opts.SlugParam,
		languageParam: strings.TrimSpace(opts.LanguageParam),
		groupCache:    make(map[string]*urlkit.Group),
	}
}

// ContentURL implements URLResolver.
func (r *URLKitResolver) ContentURL(ctx context.Context, language, slug string) (string, error) {
	_ = ctx
	if r == nil || r.manager == nil || r.route == "" {
		return "/" + slug, nil
	}

	groupName := r.group
	if r.localeGroups != nil {
		if name, ok := r.localeGroups[strings.ToLower(strings.TrimSpace(language))]; ok && strings.TrimSpace(name) != "" {
			groupName = strings.TrimSpace(name)
		}
	}
	if groupName == "" {
		return "/" + slug, nil
	}

	group, err := r.lookupGroup(groupName)
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, r.route)
	if err != nil {
		return "", err
	}

	builder.WithParam(r.slugParam, slug)
	if r.languageParam != "" && language != "" {
		builder.WithParam(r.languageParam, language)
	}
	return builder.Build()
}

func (r *URLKitResolver) lookupGroup(name string) (*urlkit.Group, error) {
	r.mu.RLock()
	group, ok := r.groupCache[name]
	r.mu.RUnlock()
	if ok {
		return group, nil
	}

	group, err := lookupGroup(r.manager, name)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.groupCache[name] = group
	r.mu.Unlock()
	return group, nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (*urlkit.Group, error) {
	var (
		group *urlkit.Group
		err   error
	)
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("navigation: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}

func safeBuilder(group *urlkit.Group, route string) (*urlkit.Builder, error) {
	if group == nil {
		return nil, fmt.Errorf("navigation: urlkit group is nil")
	}
	var (
		builder *urlkit.Builder
		err     error
	)
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("navigation: urlkit builder panic: %v", rec)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}
