package microcontent

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-appcontent/domain"
	"github.com/goliatone/go-appcontent/internal/logging"
	"github.com/goliatone/go-appcontent/pkg/interfaces"
)

var (
	ErrContentIDRequired = errors.New("microcontent: content id required")
	ErrKeyRequired       = errors.New("microcontent: content key required")
	ErrLanguageRequired  = errors.New("microcontent: language required")
	ErrValueRequired     = errors.New("microcontent: value required")
)

// NotFoundError represents missing micro-content rows.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return "micro content not found"
	}
	return "micro content " + e.Key + " not found"
}

// Repository abstracts storage for micro-content items.
type Repository interface {
	GetItem(ctx context.Context, contentID uuid.UUID, key string, state domain.Status) (*Item, error)
	ListItems(ctx context.Context, contentID uuid.UUID, state domain.Status) ([]*Item, error)
	SaveItem(ctx context.Context, item *Item) (*Item, error)
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	DeleteLocalization(ctx context.Context, itemID uuid.UUID, language string) error
}

// Service manages per-field draft/published value objects.
type Service interface {
	UpsertDraftText(ctx context.Context, req UpsertTextRequest) (*Item, error)
	UpsertDraftImage(ctx context.Context, req UpsertImageRequest) (*Item, error)
	RemoveDraftValue(ctx context.Context, contentID uuid.UUID, key, language string) error
	GetValue(ctx context.Context, contentID uuid.UUID, key, language string, state domain.Status) (*Localization, error)
	HasDraftValue(ctx context.Context, contentID uuid.UUID, key, language string) (bool, error)
	PublishLanguage(ctx context.Context, contentID uuid.UUID, language string) error
	UnpublishAll(ctx context.Context, contentID uuid.UUID) error
	DeleteComponent(ctx context.Context, contentID uuid.UUID, entry uuid.UUID) error
	DeleteContent(ctx context.Context, contentID uuid.UUID) error
}

// UpsertTextRequest stores one language's draft text for a content key.
type UpsertTextRequest struct {
	ContentID uuid.UUID
	Key       string
	Language  string
	Text      string
	CreatedBy uuid.UUID
}

// UpsertImageRequest stores one language's draft image reference.
type UpsertImageRequest struct {
	ContentID uuid.UUID
	Key       string
	Language  string
	ImagePath string
	Licence   map[string]any
	CreatedBy uuid.UUID
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

type service struct {
	repo   Repository
	now    func() time.Time
	id     func() uuid.UUID
	logger interfaces.Logger
}

// NewService constructs a micro-content service.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		now:    time.Now,
		id:     uuid.New,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) UpsertDraftText(ctx context.Context, req UpsertTextRequest) (*Item, error) {
	if err := validateAddress(req.ContentID, req.Key, req.Language); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrValueRequired
	}
	text := req.Text
	return s.upsertDraft(ctx, req.ContentID, req.Key, KindText, req.Language, func(loc *Localization) {
		loc.Text = &text
		loc.ImagePath = nil
		loc.Licence = nil
	}, req.CreatedBy)
}

func (s *service) UpsertDraftImage(ctx context.Context, req UpsertImageRequest) (*Item, error) {
	if err := validateAddress(req.ContentID, req.Key, req.Language); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ImagePath) == "" {
		return nil, ErrValueRequired
	}
	path := req.ImagePath
	return s.upsertDraft(ctx, req.ContentID, req.Key, KindImage, req.Language, func(loc *Localization) {
		loc.ImagePath = &path
		loc.Licence = req.Licence
		loc.Text = nil
	}, req.CreatedBy)
}

func (s *service) upsertDraft(ctx context.Context, contentID uuid.UUID, key string, kind Kind, language string, apply func(*Localization), createdBy uuid.UUID) (*Item, error) {
	now := s.now()

	item, err := s.repo.GetItem(ctx, contentID, key, domain.StatusDraft)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		item = &Item{
			ID:                s.id(),
			TemplateContentID: contentID,
			ContentKey:        key,
			Kind:              kind,
			State:             domain.StatusDraft,
			CreatedAt:         now,
		}
	}

	loc := item.Localization(language)
	if loc == nil {
		loc = &Localization{
			ID:        s.id(),
			ItemID:    item.ID,
			Language:  language,
			CreatedBy: createdBy,
			CreatedAt: now,
		}
		item.Localizations = append(item.Localizations, loc)
	}
	apply(loc)
	loc.UpdatedAt = now
	item.UpdatedAt = now

	return s.repo.SaveItem(ctx, item)
}

// RemoveDraftValue deletes one language's draft row. When no localized rows
// remain the item itself is deleted: absence means "no value".
func (s *service) RemoveDraftValue(ctx context.Context, contentID uuid.UUID, key, language string) error {
	if err := validateAddress(contentID, key, language); err != nil {
		return err
	}
	item, err := s.repo.GetItem(ctx, contentID, key, domain.StatusDraft)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	if item.Localization(language) == nil {
		return nil
	}
	if err := s.repo.DeleteLocalization(ctx, item.ID, language); err != nil {
		return err
	}
	if len(item.Localizations) <= 1 {
		return s.repo.DeleteItem(ctx, item.ID)
	}
	return nil
}

func (s *service) GetValue(ctx context.Context, contentID uuid.UUID, key, language string, state domain.Status) (*Localization, error) {
	if err := validateAddress(contentID, key, language); err != nil {
		return nil, err
	}
	item, err := s.repo.GetItem(ctx, contentID, key, state)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}
	return item.Localization(language).Clone(), nil
}

func (s *service) HasDraftValue(ctx context.Context, contentID uuid.UUID, key, language string) (bool, error) {
	loc, err := s.GetValue(ctx, contentID, key, language, domain.StatusDraft)
	if err != nil {
		return false, err
	}
	return loc != nil, nil
}

// PublishLanguage copies every draft item's row for the language into its
// published twin, creating twins as needed and pruning published rows whose
// draft source disappeared.
func (s *service) PublishLanguage(ctx context.Context, contentID uuid.UUID, language string) error {
	if contentID == uuid.Nil {
		return ErrContentIDRequired
	}
	if strings.TrimSpace(language) == "" {
		return ErrLanguageRequired
	}

	drafts, err := s.repo.ListItems(ctx, contentID, domain.StatusDraft)
	if err != nil {
		return err
	}
	published, err := s.repo.ListItems(ctx, contentID, domain.StatusPublished)
	if err != nil {
		return err
	}
	publishedByKey := make(map[string]*Item, len(published))
	for _, item := range published {
		publishedByKey[item.ContentKey] = item
	}

	now := s.now()
	draftKeys := make(map[string]struct{}, len(drafts))

	for _, draft := range drafts {
		draftKeys[draft.ContentKey] = struct{}{}
		source := draft.Localization(language)
		if source == nil {
			continue
		}

		twin := publishedByKey[draft.ContentKey]
		if twin == nil {
			twin = &Item{
				ID:                s.id(),
				TemplateContentID: contentID,
				ContentKey:        draft.ContentKey,
				Kind:              draft.Kind,
				State:             domain.StatusPublished,
				CreatedAt:         now,
			}
		}

		target := twin.Localization(language)
		if target == nil {
			target = &Localization{
				ID:       s.id(),
				ItemID:   twin.ID,
				Language: language,
			}
			twin.Localizations = append(twin.Localizations, target)
		}
		target.Text = cloneStringPtr(source.Text)
		target.ImagePath = cloneStringPtr(source.ImagePath)
		target.Licence = cloneAnyMap(source.Licence)
		target.CreatedBy = source.CreatedBy
		target.CreatedAt = source.CreatedAt
		target.UpdatedAt = now
		twin.UpdatedAt = now

		if _, err := s.repo.SaveItem(ctx, twin); err != nil {
			return err
		}
	}

	// Published rows without a draft source no longer serve this language.
	for _, item := range published {
		if _, alive := draftKeys[item.ContentKey]; alive {
			continue
		}
		if item.Localization(language) == nil {
			continue
		}
		if err := s.repo.DeleteLocalization(ctx, item.ID, language); err != nil {
			return err
		}
		if len(item.Localizations) <= 1 {
			if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
				return err
			}
		}
	}

	return nil
}

// UnpublishAll removes every published row so a withdrawn aggregate cannot
// serve stale values.
func (s *service) UnpublishAll(ctx context.Context, contentID uuid.UUID) error {
	if contentID == uuid.Nil {
		return ErrContentIDRequired
	}
	published, err := s.repo.ListItems(ctx, contentID, domain.StatusPublished)
	if err != nil {
		return err
	}
	for _, item := range published {
		if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteComponent removes every draft row whose derived key references the
// component entry (orphan cleanup after a component deletion).
func (s *service) DeleteComponent(ctx context.Context, contentID uuid.UUID, entry uuid.UUID) error {
	if contentID == uuid.Nil {
		return ErrContentIDRequired
	}
	prefix := ComponentPrefix(entry)
	drafts, err := s.repo.ListItems(ctx, contentID, domain.StatusDraft)
	if err != nil {
		return err
	}
	for _, item := range drafts {
		if !strings.HasPrefix(item.ContentKey, prefix) {
			continue
		}
		if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteContent removes every row of both states for an aggregate deletion.
func (s *service) DeleteContent(ctx context.Context, contentID uuid.UUID) error {
	if contentID == uuid.Nil {
		return ErrContentIDRequired
	}
	for _, state := range []domain.Status{domain.StatusDraft, domain.StatusPublished} {
		items, err := s.repo.ListItems(ctx, contentID, state)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateAddress(contentID uuid.UUID, key, language string) error {
	if contentID == uuid.Nil {
		return ErrContentIDRequired
	}
	if strings.TrimSpace(key) == "" {
		return ErrKeyRequired
	}
	if strings.TrimSpace(language) == "" {
		return ErrLanguageRequired
	}
	return nil
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneAnyMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
