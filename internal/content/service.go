package content

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-appcontent/internal/events"
	"github.com/goliatone/go-appcontent/internal/identity"
	"github.com/goliatone/go-appcontent/internal/logging"
	"github.com/goliatone/go-appcontent/internal/microcontent"
	"github.com/goliatone/go-appcontent/internal/slugs"
	"github.com/goliatone/go-appcontent/pkg/interfaces"
)

// Service exposes the template content aggregate use-cases.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*TemplateContent, error)
	Get(ctx context.Context, id uuid.UUID) (*TemplateContent, error)
	GetByAssignment(ctx context.Context, appID uuid.UUID, assignment string) (*TemplateContent, error)
	List(ctx context.Context, appID uuid.UUID) ([]*TemplateContent, error)
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (*TemplateContent, error)
	Delete(ctx context.Context, id uuid.UUID) error

	GetLocale(ctx context.Context, id uuid.UUID, language string) (*LocalizedTemplateContent, error)
	AddLocale(ctx context.Context, req AddLocaleRequest) (*LocalizedTemplateContent, error)
	Save(ctx context.Context, req SaveRequest) (*LocalizedTemplateContent, error)

	MarkTranslationReady(ctx context.Context, id uuid.UUID, language string, ready bool) (*LocalizedTemplateContent, error)
	TranslationComplete(ctx context.Context, id uuid.UUID, language string) ([]string, error)
	Publish(ctx context.Context, req PublishRequest) ([]string, error)
	Unpublish(ctx context.Context, id uuid.UUID) error
	IsPublished(ctx context.Context, id uuid.UUID) (bool, error)

	EnsurePreviewToken(ctx context.Context, id uuid.UUID, language string) (string, error)
	RevokePreviewToken(ctx context.Context, id uuid.UUID, language string) error

	AddComponentEntry(ctx context.Context, req AddComponentEntryRequest) (*Component, error)
	UpdateComponentEntry(ctx context.Context, req UpdateComponentEntryRequest) (*Component, error)
	RemoveComponentEntry(ctx context.Context, req RemoveComponentEntryRequest) error

	// Close detaches the service's event subscription from the shared
	// dispatcher. A closed service no longer reacts to primary-draft saves.
	Close() error
}

// CreateRequest captures the information required to create an aggregate with
// its first (primary) localized record.
type CreateRequest struct {
	AppID        uuid.UUID
	Language     string
	Title        string
	NavLabel     *string
	TemplateName string
	TemplateType string
	Assignment   *string
	CreatedBy    uuid.UUID
}

// UpdateSettingsRequest mutates aggregate-level settings. The template binding
// is immutable after creation; supplying a different one fails loudly.
type UpdateSettingsRequest struct {
	ContentID    uuid.UUID
	TemplateName string
	TemplateType string
	Assignment   *string
	UpdatedBy    uuid.UUID
}

// AddLocaleRequest registers a new language for an existing aggregate. The new
// record's draft version mirrors the primary's current one.
type AddLocaleRequest struct {
	ContentID uuid.UUID
	Language  string
	Title     string
	NavLabel  *string
	CreatedBy uuid.UUID
}

// SaveRequest persists draft fields of a localized record.
type SaveRequest struct {
	ContentID uuid.UUID
	Language  string
	Title     string
	NavLabel  *string
	Contents  ContentMap
	// DisallowNewVersion suppresses the draft version bump and the
	// translation-ready reset.
	DisallowNewVersion bool
	// BaseVersion, when set, must match the stored draft version or the save
	// fails with ErrStaleWrite instead of overwriting a concurrent edit.
	BaseVersion *int
	SavedBy     uuid.UUID
}

// PublishRequest selects which languages to release. Language "all" (or
// empty) targets every configured language.
type PublishRequest struct {
	ContentID   uuid.UUID
	Language    string
	PublishedBy uuid.UUID
}

// AddComponentEntryRequest appends an entry to a repeatable field.
type AddComponentEntryRequest struct {
	ContentID uuid.UUID
	Language  string
	Key       string
	Fields    map[string]Value
	SavedBy   uuid.UUID
}

// UpdateComponentEntryRequest replaces the fields of an existing entry.
type UpdateComponentEntryRequest struct {
	ContentID uuid.UUID
	Language  string
	Key       string
	Entry     uuid.UUID
	Fields    map[string]Value
	SavedBy   uuid.UUID
}

// RemoveComponentEntryRequest deletes an entry and its derived micro-content.
type RemoveComponentEntryRequest struct {
	ContentID uuid.UUID
	Language  string
	Key       string
	Entry     uuid.UUID
	SavedBy   uuid.UUID
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the id generator.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger injects the logger used by the service.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		s.logger = logging.Ensure(logger)
	}
}

// WithTokenGenerator overrides preview token generation.
func WithTokenGenerator(generator func() string) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.token = generator
		}
	}
}

// WithDeletionHook registers a callback run when an aggregate is deleted,
// before the aggregate row is removed. Flag assignments and navigation
// entries pointing at the aggregate are cleaned up through these.
func WithDeletionHook(hook func(ctx context.Context, contentID uuid.UUID) error) ServiceOption {
	return func(s *service) {
		if hook != nil {
			s.cleanup = append(s.cleanup, hook)
		}
	}
}

// slugRetryLimit bounds how many times a write regenerates its slug after
// losing a uniqueness race on the slug column to a concurrent writer.
const slugRetryLimit = 3

type service struct {
	repo      Repository
	slugs     *slugs.Registry
	micro     microcontent.Service
	templates interfaces.TemplateProvider
	logger    interfaces.Logger
	now       func() time.Time
	id        func() uuid.UUID
	token     func() string
	cleanup   []func(ctx context.Context, contentID uuid.UUID) error
	sub       events.Subscription
}

// NewService constructs the content service. It registers its own handler for
// the primary-draft-changed event so the sibling readiness fan-out holds for
// every save path.
func NewService(repo Repository, registry *slugs.Registry, micro microcontent.Service, templates interfaces.TemplateProvider, opts ...ServiceOption) Service {
	s := &service{
		repo:      repo,
		slugs:     registry,
		micro:     micro,
		templates: templates,
		logger:    logging.NoOp(),
		now:       time.Now,
		id:        uuid.New,
		token:     newPreviewToken,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.sub = events.SubscribePrimaryDraftChanged(s.handlePrimaryDraftChanged)

	return s
}

// Close detaches the primary-draft-changed handler. The dispatcher is process
// global, so a service that is not closed keeps receiving events after its
// backing store is gone.
func (s *service) Close() error {
	if s.sub != nil {
		s.sub.Unsubscribe()
		s.sub = nil
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*TemplateContent, error) {
	language := strings.TrimSpace(req.Language)
	if language == "" {
		return nil, ErrLanguageRequired
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	templateName := strings.TrimSpace(req.TemplateName)
	if templateName == "" {
		return nil, ErrTemplateRequired
	}
	if _, err := s.templates.Definition(ctx, templateName); err != nil {
		return nil, ErrTemplateUnknown
	}

	assignment := ""
	if req.Assignment != nil {
		assignment = strings.TrimSpace(*req.Assignment)
		if assignment != "" {
			if existing, err := s.repo.GetByAssignment(ctx, req.AppID, assignment); err == nil && existing != nil {
				return nil, ErrDuplicateAssignment
			} else if err != nil && !IsNotFound(err) {
				return nil, err
			}
		}
	}

	slug, err := s.slugs.Generate(ctx, title)
	if err != nil {
		return nil, err
	}

	// Fixed slots (home, footer) keep the same aggregate id across installs,
	// and a racing double-create collides on the primary key instead of
	// leaving two rows claiming the slot.
	aggregateID := s.id()
	if assignment != "" {
		aggregateID = identity.AssignmentUUID(req.AppID, assignment)
	}

	now := s.now()
	record := &TemplateContent{
		ID:              aggregateID,
		AppID:           req.AppID,
		TemplateName:    templateName,
		TemplateType:    strings.TrimSpace(req.TemplateType),
		Assignment:      req.Assignment,
		PrimaryLanguage: language,
		CreatedBy:       req.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	record.Locales = []*LocalizedTemplateContent{{
		ID:                s.id(),
		TemplateContentID: record.ID,
		Language:          language,
		DraftTitle:        title,
		DraftNavLabel:     req.NavLabel,
		Slug:              slug,
		CreatedBy:         req.CreatedBy,
		CreatedAt:         now,
		UpdatedAt:         now,
	}}
	record.Locales[0].DraftVersion = 1

	for attempt := 0; ; attempt++ {
		created, err := s.repo.Create(ctx, record)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, ErrSlugExists) || attempt >= slugRetryLimit {
			return nil, err
		}
		// The pre-check in Generate raced a concurrent writer. Re-derive
		// against the now-visible rows and try again.
		next, genErr := s.slugs.Generate(ctx, title)
		if genErr != nil {
			return nil, genErr
		}
		record.Locales[0].Slug = next
	}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*TemplateContent, error) {
	if id == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByAssignment(ctx context.Context, appID uuid.UUID, assignment string) (*TemplateContent, error) {
	return s.repo.GetByAssignment(ctx, appID, strings.TrimSpace(assignment))
}

func (s *service) List(ctx context.Context, appID uuid.UUID) ([]*TemplateContent, error) {
	return s.repo.List(ctx, appID)
}

func (s *service) UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (*TemplateContent, error) {
	record, err := s.Get(ctx, req.ContentID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.TemplateName); name != "" && name != record.TemplateName {
		return nil, ErrStructuralChange
	}
	if kind := strings.TrimSpace(req.TemplateType); kind != "" && kind != record.TemplateType {
		return nil, ErrStructuralChange
	}

	if req.Assignment != nil {
		assignment := strings.TrimSpace(*req.Assignment)
		if assignment != "" && (record.Assignment == nil || *record.Assignment != assignment) {
			if existing, err := s.repo.GetByAssignment(ctx, record.AppID, assignment); err == nil && existing != nil && existing.ID != record.ID {
				return nil, ErrDuplicateAssignment
			} else if err != nil && !IsNotFound(err) {
				return nil, err
			}
		}
		record.Assignment = req.Assignment
	}

	record.UpdatedAt = s.now()
	return s.repo.Update(ctx, record)
}

// Delete removes the aggregate, its localized records, every associated
// micro-content row, and whatever the registered deletion hooks clean up
// (flag assignments, navigation entries).
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrContentIDRequired
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.micro.DeleteContent(ctx, id); err != nil {
		return err
	}
	for _, hook := range s.cleanup {
		if err := hook(ctx, id); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, id)
}

// GetLocale returns the localized record for a language, or nil when the
// language is not configured. Absence is a normal state, not an error.
func (s *service) GetLocale(ctx context.Context, id uuid.UUID, language string) (*LocalizedTemplateContent, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return record.Locale(strings.TrimSpace(language)), nil
}

func (s *service) AddLocale(ctx context.Context, req AddLocaleRequest) (*LocalizedTemplateContent, error) {
	language := strings.TrimSpace(req.Language)
	if language == "" {
		return nil, ErrLanguageRequired
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	record, err := s.Get(ctx, req.ContentID)
	if err != nil {
		return nil, err
	}
	if record.Locale(language) != nil {
		return nil, ErrLocaleExists
	}
	primary := record.PrimaryLocale()
	if primary == nil {
		return nil, ErrLocaleNotFound
	}

	slug, err := s.slugs.Generate(ctx, title)
	if err != nil {
		return nil, err
	}

	now := s.now()
	locale := &LocalizedTemplateContent{
		ID:                s.id(),
		TemplateContentID: record.ID,
		Language:          language,
		DraftTitle:        title,
		DraftNavLabel:     req.NavLabel,
		Slug:              slug,
		CreatedBy:         req.CreatedBy,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	// A secondary record mirrors the primary's current draft version so the
	// counters stay comparable across languages.
	locale.DraftVersion = primary.DraftVersion

	for attempt := 0; ; attempt++ {
		created, err := s.repo.CreateRecord(ctx, locale)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, ErrSlugExists) || attempt >= slugRetryLimit {
			return nil, err
		}
		next, genErr := s.slugs.Generate(ctx, title)
		if genErr != nil {
			return nil, genErr
		}
		locale.Slug = next
	}
}

func (s *service) Save(ctx context.Context, req SaveRequest) (*LocalizedTemplateContent, error) {
	aggregate, err := s.Get(ctx, req.ContentID)
	if err != nil {
		return nil, err
	}
	record := aggregate.Locale(strings.TrimSpace(req.Language))
	if record == nil {
		return nil, ErrLocaleNotFound
	}

	if req.BaseVersion != nil && *req.BaseVersion != record.DraftVersion {
		return nil, ErrStaleWrite
	}

	def, err := s.templates.Definition(ctx, aggregate.TemplateName)
	if err != nil {
		return nil, ErrTemplateUnknown
	}
	if err := validateContents(def, req.Contents); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if err := s.refreshSlug(ctx, record, title); err != nil {
		return nil, err
	}

	record.DraftTitle = title
	record.DraftNavLabel = req.NavLabel
	record.DraftContents = req.Contents.Clone()

	return s.persistDraft(ctx, aggregate, record, !req.DisallowNewVersion, req.SavedBy)
}

// refreshSlug re-derives the slug when the title changed and records the old
// slug in the trail before overwriting.
func (s *service) refreshSlug(ctx context.Context, record *LocalizedTemplateContent, title string) error {
	base, err := slugs.GenerateBase(title)
	if err != nil {
		return err
	}
	// A stored slug that is the base or a suffixed variant of it means the
	// title did not change; regenerating would see the record's own slug as
	// taken and rename it on every save.
	if slugs.IsVariant(record.Slug, base) {
		return nil
	}
	next, err := s.slugs.Generate(ctx, title)
	if err != nil {
		return err
	}
	if next == record.Slug {
		return nil
	}
	if err := s.slugs.RecordChange(ctx, record.Slug, next); err != nil {
		return err
	}
	record.Slug = next
	return nil
}

// persistDraft writes the mutated record and runs the translation-readiness
// fan-out when the primary language changed.
func (s *service) persistDraft(ctx context.Context, aggregate *TemplateContent, record *LocalizedTemplateContent, bump bool, savedBy uuid.UUID) (*LocalizedTemplateContent, error) {
	if bump {
		record.BumpDraft()
	}
	record.UpdatedAt = s.now()

	updated, err := s.repo.UpdateRecord(ctx, record)
	for attempt := 0; err != nil && errors.Is(err, ErrSlugExists) && attempt < slugRetryLimit; attempt++ {
		// Only a freshly regenerated slug can collide here; the record's
		// previous slug is its own row. Chain the trail onto the new
		// candidate so redirects through the losing slug keep resolving.
		next, genErr := s.slugs.Generate(ctx, record.DraftTitle)
		if genErr != nil {
			return nil, genErr
		}
		if next == record.Slug {
			return nil, err
		}
		if trailErr := s.slugs.RecordChange(ctx, record.Slug, next); trailErr != nil {
			return nil, trailErr
		}
		record.Slug = next
		updated, err = s.repo.UpdateRecord(ctx, record)
	}
	if err != nil {
		return nil, err
	}

	if bump && record.Language == aggregate.PrimaryLanguage && len(aggregate.SecondaryLocales()) > 0 {
		if err := events.Publish(ctx, events.PrimaryDraftChanged{
			ContentID: aggregate.ID,
			Language:  record.Language,
			SavedBy:   savedBy,
		}); err != nil {
			return nil, err
		}
	}

	return updated, nil
}

// handlePrimaryDraftChanged resets every sibling's translation readiness when
// the primary draft they were translating changes. Aggregates unknown to this
// service's store are ignored so multiple instances can share the dispatcher.
func (s *service) handlePrimaryDraftChanged(ctx context.Context, event events.PrimaryDraftChanged) error {
	aggregate, err := s.repo.GetByID(ctx, event.ContentID)
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return err
	}
	if aggregate.PrimaryLanguage != event.Language {
		return nil
	}

	now := s.now()
	for _, sibling := range aggregate.SecondaryLocales() {
		if !sibling.TranslationReady {
			continue
		}
		sibling.TranslationReady = false
		sibling.UpdatedAt = now
		if _, err := s.repo.UpdateRecord(ctx, sibling); err != nil {
			return err
		}
	}

	s.logger.Debug("content.translation_ready.reset", "content_id", event.ContentID.String(), "language", event.Language)
	return nil
}

func (s *service) EnsurePreviewToken(ctx context.Context, id uuid.UUID, language string) (string, error) {
	aggregate, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	record := aggregate.Locale(strings.TrimSpace(language))
	if record == nil {
		return "", ErrLocaleNotFound
	}
	if record.PreviewToken != nil && *record.PreviewToken != "" {
		return *record.PreviewToken, nil
	}

	token := s.token()
	now := s.now()
	record.PreviewToken = &token
	record.PreviewTokenCreatedAt = &now
	record.UpdatedAt = now

	// Token maintenance is not a draft mutation: no version bump.
	if _, err := s.repo.UpdateRecord(ctx, record); err != nil {
		return "", err
	}
	return token, nil
}

func (s *service) RevokePreviewToken(ctx context.Context, id uuid.UUID, language string) error {
	aggregate, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	record := aggregate.Locale(strings.TrimSpace(language))
	if record == nil {
		return ErrLocaleNotFound
	}
	if record.PreviewToken == nil {
		return nil
	}
	record.PreviewToken = nil
	record.PreviewTokenCreatedAt = nil
	record.UpdatedAt = s.now()
	_, err = s.repo.UpdateRecord(ctx, record)
	return err
}

func newPreviewToken() string {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(buf)
}
