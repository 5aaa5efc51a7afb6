package navigation

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	appcontent "github.com/goliatone/go-appcontent/content"
	"github.com/goliatone/go-appcontent/domain"
	"github.com/goliatone/go-appcontent/internal/content"
	"github.com/goliatone/go-appcontent/internal/identity"
	"github.com/goliatone/go-appcontent/internal/logging"
	"github.com/goliatone/go-appcontent/pkg/interfaces"
)

const (
	minLevels = 1
	maxLevels = 3
)

// Repository abstracts storage for navigations and their entries.
type Repository interface {
	SaveNavigation(ctx context.Context, nav *Navigation) (*Navigation, error)
	GetNavigation(ctx context.Context, appID uuid.UUID, navType string) (*Navigation, error)
	ListNavigations(ctx context.Context, appID uuid.UUID) ([]*Navigation, error)
	DeleteNavigation(ctx context.Context, id uuid.UUID) error

	SaveLocale(ctx context.Context, locale *LocalizedNavigation) (*LocalizedNavigation, error)
	GetLocale(ctx context.Context, navigationID uuid.UUID, language string) (*LocalizedNavigation, error)
	ListLocales(ctx context.Context, navigationID uuid.UUID) ([]*LocalizedNavigation, error)

	CreateEntry(ctx context.Context, entry *NavigationEntry) (*NavigationEntry, error)
	UpdateEntry(ctx context.Context, entry *NavigationEntry) (*NavigationEntry, error)
	GetEntry(ctx context.Context, id uuid.UUID) (*NavigationEntry, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error
	ListEntries(ctx context.Context, navigationID uuid.UUID) ([]*NavigationEntry, error)
	ListEntriesByContent(ctx context.Context, contentID uuid.UUID) ([]*NavigationEntry, error)

	SaveEntryLabel(ctx context.Context, label *LocalizedNavigationEntry) (*LocalizedNavigationEntry, error)
	DeleteEntryLabel(ctx context.Context, entryID uuid.UUID, language string) error
	ListEntryLabels(ctx context.Context, navigationID uuid.UUID, language string) ([]*LocalizedNavigationEntry, error)
}

// ContentReader is the slice of the content store the tree builder needs.
type ContentReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*appcontent.TemplateContent, error)
}

// URLResolver builds the public URL for a resolved entry.
type URLResolver interface {
	ContentURL(ctx context.Context, language, slug string) (string, error)
}

// EnsureRequest creates or updates a navigation for an app.
type EnsureRequest struct {
	AppID     uuid.UUID
	Type      string
	Name      string
	MaxLevels int
	Offline   bool
}

// AddEntryRequest appends an entry to a navigation. Exactly one of ContentID
// and ExternalURL must be set.
type AddEntryRequest struct {
	AppID       uuid.UUID
	Type        string
	ContentID   uuid.UUID
	ExternalURL *string
	Parent      *uuid.UUID
	Position    int
	Label       *string
}

// SaveLocaleRequest writes the draft display name of one language.
type SaveLocaleRequest struct {
	AppID    uuid.UUID
	Type     string
	Language string
	Name     string
}

// SetEntryLabelRequest overrides the label of one entry for one language. An
// empty label clears the override.
type SetEntryLabelRequest struct {
	AppID    uuid.UUID
	Type     string
	EntryID  uuid.UUID
	Language string
	Label    string
}

// MoveEntryRequest re-parents or re-orders an entry.
type MoveEntryRequest struct {
	AppID    uuid.UUID
	Type     string
	EntryID  uuid.UUID
	Parent   *uuid.UUID
	Position int
}

// TreeRequest selects the navigation hierarchy to resolve.
type TreeRequest struct {
	AppID    uuid.UUID
	Type     string
	Language string
	State    domain.AppState
}

// Service manages navigations and resolves their trees.
type Service interface {
	Ensure(ctx context.Context, req EnsureRequest) (*Navigation, error)
	Get(ctx context.Context, appID uuid.UUID, navType string) (*Navigation, error)
	List(ctx context.Context, appID uuid.UUID) ([]*Navigation, error)
	Remove(ctx context.Context, appID uuid.UUID, navType string) error

	SaveLocale(ctx context.Context, req SaveLocaleRequest) (*LocalizedNavigation, error)
	MarkTranslationReady(ctx context.Context, appID uuid.UUID, navType, language string, ready bool) (*LocalizedNavigation, error)
	Publish(ctx context.Context, appID uuid.UUID, navType string) ([]string, error)
	Unpublish(ctx context.Context, appID uuid.UUID, navType string) error

	AddEntry(ctx context.Context, req AddEntryRequest) (*NavigationEntry, error)
	MoveEntry(ctx context.Context, req MoveEntryRequest) (*NavigationEntry, error)
	RemoveEntry(ctx context.Context, appID uuid.UUID, navType string, entryID uuid.UUID) error
	SetEntryLabel(ctx context.Context, req SetEntryLabelRequest) error
	DetachContent(ctx context.Context, contentID uuid.UUID) error

	Tree(ctx context.Context, req TreeRequest) (*Tree, error)
}

// ServiceOption configures the service.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the entry id generator.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithURLResolver injects the resolver used to build entry URLs.
func WithURLResolver(resolver URLResolver) ServiceOption {
	return func(s *service) {
		s.urls = resolver
	}
}

// WithLogger injects the logger used by the service.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		s.logger = logging.Ensure(logger)
	}
}

type service struct {
	repo     Repository
	contents ContentReader
	urls     URLResolver
	logger   interfaces.Logger
	now      func() time.Time
	id       func() uuid.UUID
}

// NewService constructs the navigation service.
func NewService(repo Repository, contents ContentReader, opts ...ServiceOption) Service {
	s := &service{
		repo:     repo,
		contents: contents,
		logger:   logging.NoOp(),
		now:      time.Now,
		id:       uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure creates the navigation when missing and updates its settings when it
// exists. The id is derived from app and type so repeated calls converge.
func (s *service) Ensure(ctx context.Context, req EnsureRequest) (*Navigation, error) {
	navType := strings.TrimSpace(req.Type)
	if navType == "" {
		return nil, ErrTypeRequired
	}

	levels := req.MaxLevels
	if levels < minLevels {
		levels = minLevels
	}
	if levels > maxLevels {
		levels = maxLevels
	}

	now := s.now()
	nav := &Navigation{
		ID:        identity.NavigationUUID(req.AppID, navType),
		AppID:     req.AppID,
		Type:      navType,
		Name:      strings.TrimSpace(req.Name),
		MaxLevels: levels,
		Offline:   req.Offline,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing, err := s.repo.GetNavigation(ctx, req.AppID, navType); err == nil {
		nav.CreatedAt = existing.CreatedAt
	} else if !IsNotFound(err) {
		return nil, err
	}
	return s.repo.SaveNavigation(ctx, nav)
}

func (s *service) Get(ctx context.Context, appID uuid.UUID, navType string) (*Navigation, error) {
	return s.repo.GetNavigation(ctx, appID, strings.TrimSpace(navType))
}

func (s *service) List(ctx context.Context, appID uuid.UUID) ([]*Navigation, error) {
	return s.repo.ListNavigations(ctx, appID)
}

func (s *service) Remove(ctx context.Context, appID uuid.UUID, navType string) error {
	nav, err := s.Get(ctx, appID, navType)
	if err != nil {
		return err
	}
	return s.repo.DeleteNavigation(ctx, nav.ID)
}

func (s *service) AddEntry(ctx context.Context, req AddEntryRequest) (*NavigationEntry, error) {
	var external *string
	if req.ExternalURL != nil {
		if url := strings.TrimSpace(*req.ExternalURL); url != "" {
			external = &url
		}
	}
	if req.ContentID == uuid.Nil && external == nil {
		return nil, ErrTargetRequired
	}
	if req.ContentID != uuid.Nil && external != nil {
		return nil, ErrTargetConflict
	}
	nav, err := s.Get(ctx, req.AppID, req.Type)
	if err != nil {
		return nil, err
	}
	if req.ContentID != uuid.Nil {
		if _, err := s.contents.GetByID(ctx, req.ContentID); err != nil {
			return nil, err
		}
	}
	if req.Parent != nil {
		parent, err := s.repo.GetEntry(ctx, *req.Parent)
		if err != nil {
			return nil, err
		}
		if parent.NavigationID != nav.ID {
			return nil, ErrParentMismatch
		}
	}

	now := s.now()
	entry := &NavigationEntry{
		ID:                s.id(),
		NavigationID:      nav.ID,
		TemplateContentID: req.ContentID,
		ExternalURL:       external,
		ParentID:          req.Parent,
		Position:          req.Position,
		Label:             req.Label,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	return s.repo.CreateEntry(ctx, entry)
}

// MoveEntry re-parents an entry. An entry may not be assigned as its own
// descendant's child.
func (s *service) MoveEntry(ctx context.Context, req MoveEntryRequest) (*NavigationEntry, error) {
	nav, err := s.Get(ctx, req.AppID, req.Type)
	if err != nil {
		return nil, err
	}
	entry, err := s.repo.GetEntry(ctx, req.EntryID)
	if err != nil {
		return nil, err
	}
	if entry.NavigationID != nav.ID {
		return nil, &NotFoundError{Resource: "navigation_entry", Key: req.EntryID.String()}
	}

	if req.Parent != nil {
		parent, err := s.repo.GetEntry(ctx, *req.Parent)
		if err != nil {
			return nil, err
		}
		if parent.NavigationID != nav.ID {
			return nil, ErrParentMismatch
		}
		entries, err := s.repo.ListEntries(ctx, nav.ID)
		if err != nil {
			return nil, err
		}
		if wouldCycle(entries, entry.ID, *req.Parent) {
			return nil, ErrCycle
		}
	}

	entry.ParentID = req.Parent
	entry.Position = req.Position
	entry.UpdatedAt = s.now()
	return s.repo.UpdateEntry(ctx, entry)
}

// RemoveEntry deletes the entry and re-parents its children to the removed
// entry's parent so the rest of the subtree stays reachable.
func (s *service) RemoveEntry(ctx context.Context, appID uuid.UUID, navType string, entryID uuid.UUID) error {
	nav, err := s.Get(ctx, appID, navType)
	if err != nil {
		return err
	}
	entry, err := s.repo.GetEntry(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.NavigationID != nav.ID {
		return &NotFoundError{Resource: "navigation_entry", Key: entryID.String()}
	}
	return s.removeEntryRow(ctx, entry)
}

// DetachContent removes every entry, in any navigation, that links the given
// content aggregate. Children of removed entries are re-parented the same way
// RemoveEntry does.
func (s *service) DetachContent(ctx context.Context, contentID uuid.UUID) error {
	if contentID == uuid.Nil {
		return ErrContentRequired
	}
	entries, err := s.repo.ListEntriesByContent(ctx, contentID)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := s.removeEntryRow(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) removeEntryRow(ctx context.Context, entry *NavigationEntry) error {
	siblings, err := s.repo.ListEntries(ctx, entry.NavigationID)
	if err != nil {
		return err
	}
	now := s.now()
	for _, child := range siblings {
		if child.ParentID == nil || *child.ParentID != entry.ID {
			continue
		}
		child.ParentID = entry.ParentID
		child.UpdatedAt = now
		if _, err := s.repo.UpdateEntry(ctx, child); err != nil {
			return err
		}
	}
	return s.repo.DeleteEntry(ctx, entry.ID)
}

// wouldCycle reports whether attaching entry under parent makes the entry its
// own ancestor.
func wouldCycle(entries []*NavigationEntry, entryID, parentID uuid.UUID) bool {
	if entryID == parentID {
		return true
	}
	parents := make(map[uuid.UUID]*uuid.UUID, len(entries))
	for _, entry := range entries {
		parents[entry.ID] = entry.ParentID
	}
	current := parentID
	seen := map[uuid.UUID]bool{}
	for {
		if current == entryID {
			return true
		}
		if seen[current] {
			return false
		}
		seen[current] = true
		next := parents[current]
		if next == nil {
			return false
		}
		current = *next
	}
}

// Tree resolves the navigation against the requested language and app state.
// Entries whose content cannot be resolved are skipped along with their
// descendants; entries nested past MaxLevels are not rendered.
func (s *service) Tree(ctx context.Context, req TreeRequest) (*Tree, error) {
	nav, err := s.Get(ctx, req.AppID, req.Type)
	if err != nil {
		return nil, err
	}

	tree := &Tree{
		Type:      nav.Type,
		Name:      nav.Name,
		MaxLevels: nav.MaxLevels,
		Offline:   nav.Offline,
	}
	if name, ok, err := s.localizedName(ctx, nav.ID, req); err != nil {
		return nil, err
	} else if ok {
		tree.Name = name
	}
	if nav.Offline && req.State == domain.AppStatePublished {
		return tree, nil
	}

	entries, err := s.repo.ListEntries(ctx, nav.ID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Position < entries[j].Position
	})

	children := map[uuid.UUID][]*NavigationEntry{}
	var roots []*NavigationEntry
	for _, entry := range entries {
		if entry.ParentID == nil {
			roots = append(roots, entry)
			continue
		}
		children[*entry.ParentID] = append(children[*entry.ParentID], entry)
	}

	labels, err := s.entryLabels(ctx, nav.ID, req.Language)
	if err != nil {
		return nil, err
	}

	tree.Nodes, err = s.resolveLevel(ctx, roots, children, labels, req, 1, nav.MaxLevels)
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// localizedName resolves the navigation's display name for the requested
// language and state. In the published state an unreleased locale does not
// override the configured name.
func (s *service) localizedName(ctx context.Context, navigationID uuid.UUID, req TreeRequest) (string, bool, error) {
	locale, err := s.repo.GetLocale(ctx, navigationID, req.Language)
	if err != nil {
		if IsNotFound(err) {
			return "", false, nil
		}
		return "", false, err
	}
	if req.State == domain.AppStatePublished {
		if !locale.IsPublished() || locale.PublishedName == nil {
			return "", false, nil
		}
		return *locale.PublishedName, true, nil
	}
	return locale.DraftName, true, nil
}

func (s *service) entryLabels(ctx context.Context, navigationID uuid.UUID, language string) (map[uuid.UUID]string, error) {
	rows, err := s.repo.ListEntryLabels(ctx, navigationID, language)
	if err != nil {
		return nil, err
	}
	labels := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		labels[row.EntryID] = row.Label
	}
	return labels, nil
}

func (s *service) resolveLevel(ctx context.Context, entries []*NavigationEntry, children map[uuid.UUID][]*NavigationEntry, labels map[uuid.UUID]string, req TreeRequest, level, bound int) ([]*Node, error) {
	if level > bound {
		return nil, nil
	}
	var nodes []*Node
	for _, entry := range entries {
		node, ok, err := s.resolveEntry(ctx, entry, labels, req)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		node.Children, err = s.resolveLevel(ctx, children[entry.ID], children, labels, req, level+1, bound)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (s *service) resolveEntry(ctx context.Context, entry *NavigationEntry, labels map[uuid.UUID]string, req TreeRequest) (*Node, bool, error) {
	// External links carry no draft/published duality and resolve in every
	// app state.
	if entry.ExternalURL != nil && *entry.ExternalURL != "" {
		node := &Node{
			EntryID:  entry.ID,
			URL:      *entry.ExternalURL,
			Position: entry.Position,
			Label:    *entry.ExternalURL,
		}
		if entry.Label != nil && *entry.Label != "" {
			node.Label = *entry.Label
		}
		if label, ok := labels[entry.ID]; ok {
			node.Label = label
		}
		node.Title = node.Label
		return node, true, nil
	}

	aggregate, err := s.contents.GetByID(ctx, entry.TemplateContentID)
	if err != nil {
		if content.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	locale := aggregate.Locale(req.Language)
	if locale == nil {
		return nil, false, nil
	}

	node := &Node{
		EntryID:   entry.ID,
		ContentID: aggregate.ID,
		Slug:      locale.Slug,
		Position:  entry.Position,
	}

	var navLabel *string
	switch req.State {
	case domain.AppStatePublished:
		if !locale.IsPublished() || locale.PublishedTitle == nil {
			return nil, false, nil
		}
		node.Title = *locale.PublishedTitle
		navLabel = locale.PublishedNavLabel
	default:
		node.Title = locale.DraftTitle
		navLabel = locale.DraftNavLabel
	}

	// Most specific label wins: per-language override, then the entry's
	// shared label, then the record's navigation label, then the title.
	node.Label = node.Title
	if navLabel != nil && *navLabel != "" {
		node.Label = *navLabel
	}
	if entry.Label != nil && *entry.Label != "" {
		node.Label = *entry.Label
	}
	if label, ok := labels[entry.ID]; ok {
		node.Label = label
	}

	node.URL, err = s.entryURL(ctx, req.Language, locale.Slug)
	if err != nil {
		return nil, false, err
	}
	return node, true, nil
}

func (s *service) entryURL(ctx context.Context, language, slug string) (string, error) {
	if s.urls == nil {
		return "/" + slug, nil
	}
	return s.urls.ContentURL(ctx, language, slug)
}
