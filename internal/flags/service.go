package flags

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

// DefaultMaxLevels bounds flag tree nesting when no override is configured.
const DefaultMaxLevels = 2

// Repository abstracts storage for flag assignments.
type Repository interface {
	Save(ctx context.Context, assignment *FlagAssignment) (*FlagAssignment, error)
	Delete(ctx context.Context, contentID uuid.UUID, flag string) error
	ListByFlag(ctx context.Context, flag string) ([]*FlagAssignment, error)
	ListByContent(ctx context.Context, contentID uuid.UUID) ([]*FlagAssignment, error)
}

// ContentReader is the slice of the content store the tree builder needs.
type ContentReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*appcontent.TemplateContent, error)
}

// AssignRequest attaches a flag to a content aggregate.
type AssignRequest struct {
	ContentID uuid.UUID
	Flag      string
	Parent    *uuid.UUID
	Position  int
}

// TreeRequest selects the flag hierarchy to resolve.
type TreeRequest struct {
	AppID    uuid.UUID
	Flag     string
	Language string
	State    domain.AppState
}

// Service manages flag assignments and resolves flag trees.
type Service interface {
	Assign(ctx context.Context, req AssignRequest) (*FlagAssignment, error)
	Unassign(ctx context.Context, contentID uuid.UUID, flag string) error
	RemoveContent(ctx context.Context, contentID uuid.UUID) error
	ListFlags(ctx context.Context, contentID uuid.UUID) ([]string, error)
	Tree(ctx context.Context, req TreeRequest) (*Tree, error)
}

// ServiceOption configures the service.
type ServiceOption func(*service)

// WithMaxLevels overrides the tree depth bound.
func WithMaxLevels(levels int) ServiceOption {
	return func(s *service) {
		if levels > 0 {
			s.maxLevels = levels
		}
	}
}

// WithClock overrides the clock used to stamp assignments.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
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
	repo      Repository
	contents  ContentReader
	logger    interfaces.Logger
	now       func() time.Time
	maxLevels int
}

// NewService constructs the flag service.
func NewService(repo Repository, contents ContentReader, opts ...ServiceOption) Service {
	s := &service{
		repo:      repo,
		contents:  contents,
		logger:    logging.NoOp(),
		now:       time.Now,
		maxLevels: DefaultMaxLevels,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Assign(ctx context.Context, req AssignRequest) (*FlagAssignment, error) {
	flag := strings.TrimSpace(req.Flag)
	if flag == "" {
		return nil, ErrFlagRequired
	}
	if req.ContentID == uuid.Nil {
		return nil, ErrContentRequired
	}
	if _, err := s.contents.GetByID(ctx, req.ContentID); err != nil {
		return nil, err
	}

	assignment := &FlagAssignment{
		ID:                identity.FlagUUID(req.ContentID, flag),
		TemplateContentID: req.ContentID,
		Flag:              flag,
		ParentContentID:   req.Parent,
		Position:          req.Position,
		CreatedAt:         s.now(),
	}
	return s.repo.Save(ctx, assignment)
}

func (s *service) Unassign(ctx context.Context, contentID uuid.UUID, flag string) error {
	flag = strings.TrimSpace(flag)
	if flag == "" {
		return ErrFlagRequired
	}
	return s.repo.Delete(ctx, contentID, flag)
}

// RemoveContent drops every flag assignment of a content aggregate. Used when
// the aggregate itself is deleted.
func (s *service) RemoveContent(ctx context.Context, contentID uuid.UUID) error {
	if contentID == uuid.Nil {
		return ErrContentRequired
	}
	assignments, err := s.repo.ListByContent(ctx, contentID)
	if err != nil {
		return err
	}
	for _, assignment := range assignments {
		if err := s.repo.Delete(ctx, contentID, assignment.Flag); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) ListFlags(ctx context.Context, contentID uuid.UUID) ([]string, error) {
	assignments, err := s.repo.ListByContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(assignments))
	for _, assignment := range assignments {
		out = append(out, assignment.Flag)
	}
	sort.Strings(out)
	return out, nil
}

// Tree resolves every assignment of the flag against the requested language
// and app state. Assignments whose content cannot be resolved are skipped,
// never errored: an unpublished page simply does not appear in the published
// tree.
func (s *service) Tree(ctx context.Context, req TreeRequest) (*Tree, error) {
	flag := strings.TrimSpace(req.Flag)
	if flag == "" {
		return nil, ErrFlagRequired
	}

	assignments, err := s.repo.ListByFlag(ctx, flag)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(assignments, func(i, j int) bool {
		return assignments[i].Position < assignments[j].Position
	})

	nodes := map[uuid.UUID]*Node{}
	parents := map[uuid.UUID]*uuid.UUID{}
	var order []uuid.UUID

	for _, assignment := range assignments {
		node, ok, err := s.resolve(ctx, assignment, req)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		nodes[assignment.TemplateContentID] = node
		parents[assignment.TemplateContentID] = assignment.ParentContentID
		order = append(order, assignment.TemplateContentID)
	}

	tree := &Tree{Flag: flag}
	for _, id := range order {
		node := nodes[id]
		parent := resolvedParent(id, parents, nodes)
		if parent == nil || depthOf(id, parents, nodes) > s.maxLevels {
			tree.Nodes = append(tree.Nodes, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return tree, nil
}

func (s *service) resolve(ctx context.Context, assignment *FlagAssignment, req TreeRequest) (*Node, bool, error) {
	aggregate, err := s.contents.GetByID(ctx, assignment.TemplateContentID)
	if err != nil {
		if content.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if req.AppID != uuid.Nil && aggregate.AppID != req.AppID {
		return nil, false, nil
	}

	locale := aggregate.Locale(req.Language)
	if locale == nil {
		return nil, false, nil
	}

	node := &Node{
		ContentID: aggregate.ID,
		Slug:      locale.Slug,
		Position:  assignment.Position,
	}
	switch req.State {
	case domain.AppStatePublished:
		if !locale.IsPublished() || locale.PublishedTitle == nil {
			return nil, false, nil
		}
		node.Title = *locale.PublishedTitle
		node.NavLabel = locale.PublishedNavLabel
	default:
		node.Title = locale.DraftTitle
		node.NavLabel = locale.DraftNavLabel
	}
	return node, true, nil
}

// resolvedParent returns the parent node only when that parent itself carries
// the flag and resolved.
func resolvedParent(id uuid.UUID, parents map[uuid.UUID]*uuid.UUID, nodes map[uuid.UUID]*Node) *Node {
	parent := parents[id]
	if parent == nil {
		return nil
	}
	return nodes[*parent]
}

// depthOf walks the parent chain. Entries past the depth bound and entries on
// a broken chain fall back to the root level.
func depthOf(id uuid.UUID, parents map[uuid.UUID]*uuid.UUID, nodes map[uuid.UUID]*Node) int {
	depth := 1
	seen := map[uuid.UUID]bool{id: true}
	current := id
	for {
		parent := parents[current]
		if parent == nil || nodes[*parent] == nil || seen[*parent] {
			return depth
		}
		seen[*parent] = true
		current = *parent
		depth++
	}
}
