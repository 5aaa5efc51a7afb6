package slugs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	slug "github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-appcontent/content"
)

var (
	ErrTitleRequired = errors.New("slugs: title is required")
	ErrSlugNotFound  = errors.New("slugs: slug not found")
	ErrTrailCycle    = errors.New("slugs: trail does not terminate at a live slug")
)

// maxSlugBaseLength leaves room for a numeric suffix inside a 100-char column.
const maxSlugBaseLength = 99

// Checker reports whether a slug is currently used by any live localized
// record. Uniqueness is global, across apps and languages.
type Checker interface {
	SlugInUse(ctx context.Context, slug string) (bool, error)
}

// TrailRepository persists the append-only slug rename history.
type TrailRepository interface {
	Append(ctx context.Context, trail *content.SlugTrail) error
	// GetByOldSlug returns the most recent mapping for an old slug, or a
	// NotFound error.
	GetByOldSlug(ctx context.Context, oldSlug string) (*content.SlugTrail, error)
}

// Registry generates unique URL-safe slugs and resolves historical ones.
type Registry struct {
	checker Checker
	trails  TrailRepository
	id      func() uuid.UUID
}

// RegistryOption configures the registry at construction time.
type RegistryOption func(*Registry)

// WithIDGenerator overrides the id generator used for trail rows.
func WithIDGenerator(generator func() uuid.UUID) RegistryOption {
	return func(r *Registry) {
		if generator != nil {
			r.id = generator
		}
	}
}

// NewRegistry constructs a registry over the given stores.
func NewRegistry(checker Checker, trails TrailRepository, opts ...RegistryOption) *Registry {
	r := &Registry{checker: checker, trails: trails, id: uuid.New}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GenerateBase slugifies a title and truncates it to 99 characters so a
// uniqueness suffix never overflows the column.
func GenerateBase(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrTitleRequired
	}
	normalized, err := slug.Normalize(trimmed)
	if err != nil {
		return "", fmt.Errorf("slugs: normalize %q: %w", title, err)
	}
	if len(normalized) > maxSlugBaseLength {
		normalized = strings.Trim(normalized[:maxSlugBaseLength], "-")
	}
	if normalized == "" {
		return "", ErrTitleRequired
	}
	return normalized, nil
}

// IsVariant reports whether candidate is base itself or base carrying the
// numeric uniqueness suffix Generate appends. A record whose stored slug is a
// variant of its title's base slug needs no regeneration.
func IsVariant(candidate, base string) bool {
	if candidate == base {
		return true
	}
	rest, ok := strings.CutPrefix(candidate, base+"-")
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Generate returns the base slug when free, otherwise the first "-2", "-3", …
// suffixed variant not used by any live record.
func (r *Registry) Generate(ctx context.Context, title string) (string, error) {
	base, err := GenerateBase(title)
	if err != nil {
		return "", err
	}

	candidate := base
	for suffix := 2; ; suffix++ {
		used, err := r.checker.SlugInUse(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
}

// RecordChange appends a trail row mapping the old slug to its replacement.
// Call before overwriting the record's slug.
func (r *Registry) RecordChange(ctx context.Context, oldSlug, newSlug string) error {
	if oldSlug == "" || oldSlug == newSlug {
		return nil
	}
	trail := &content.SlugTrail{ID: r.id(), OldSlug: oldSlug, NewSlug: newSlug}
	return r.trails.Append(ctx, trail)
}

// Resolve follows the trail from a possibly historical slug to the live one.
// A known live slug resolves to itself. The walk is bounded by a visited set
// so a corrupt trail cannot loop forever.
func (r *Registry) Resolve(ctx context.Context, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return "", ErrSlugNotFound
	}

	current := requested
	visited := map[string]struct{}{}
	for {
		used, err := r.checker.SlugInUse(ctx, current)
		if err != nil {
			return "", err
		}
		if used {
			return current, nil
		}

		if _, seen := visited[current]; seen {
			return "", ErrTrailCycle
		}
		visited[current] = struct{}{}

		trail, err := r.trails.GetByOldSlug(ctx, current)
		if err != nil || trail == nil {
			return "", ErrSlugNotFound
		}
		current = trail.NewSlug
	}
}
