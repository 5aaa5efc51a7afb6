package navigation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	appcontent "github.com/goliatone/go-appcontent/content"
	"github.com/goliatone/go-appcontent/domain"
	"github.com/goliatone/go-appcontent/internal/content"
	"github.com/goliatone/go-appcontent/internal/navigation"
)

type navFixture struct {
	svc      navigation.Service
	contents *content.MemoryRepository
	appID    uuid.UUID
}

func newNavFixture(t *testing.T, opts ...navigation.ServiceOption) *navFixture {
	t.Helper()
	contents := content.NewMemoryRepository()
	return &navFixture{
		svc:      navigation.NewService(navigation.NewMemoryRepository(), contents, opts...),
		contents: contents,
		appID:    uuid.New(),
	}
}

func (fx *navFixture) ensure(t *testing.T, navType string, levels int, offline bool) *navigation.Navigation {
	t.Helper()
	nav, err := fx.svc.Ensure(context.Background(), navigation.EnsureRequest{
		AppID:     fx.appID,
		Type:      navType,
		Name:      navType,
		MaxLevels: levels,
		Offline:   offline,
	})
	if err != nil {
		t.Fatalf("ensure %s: %v", navType, err)
	}
	return nav
}

type navPage struct {
	title     string
	slug      string
	navLabel  *string
	published bool
}

func (fx *navFixture) seedPage(t *testing.T, page navPage) uuid.UUID {
	t.Helper()
	id := uuid.New()
	record := &appcontent.LocalizedTemplateContent{
		ID:                uuid.New(),
		TemplateContentID: id,
		Language:          "en",
		DraftTitle:        page.title,
		DraftNavLabel:     page.navLabel,
		Slug:              page.slug,
		Versioned:         domain.Versioned{DraftVersion: 1},
		CreatedBy:         uuid.New(),
	}
	if page.published {
		published := page.title
		record.PublishedTitle = &published
		record.PublishedNavLabel = page.navLabel
		record.MarkPublished(time.Now())
	}
	aggregate := &appcontent.TemplateContent{
		ID:              id,
		AppID:           fx.appID,
		TemplateName:    "page",
		TemplateType:    "page",
		PrimaryLanguage: "en",
		CreatedBy:       record.CreatedBy,
		Locales:         []*appcontent.LocalizedTemplateContent{record},
	}
	if _, err := fx.contents.Create(context.Background(), aggregate); err != nil {
		t.Fatalf("seed %q: %v", page.title, err)
	}
	return id
}

func (fx *navFixture) addEntry(t *testing.T, navType string, contentID uuid.UUID, parent *uuid.UUID, position int, label *string) *navigation.NavigationEntry {
	t.Helper()
	entry, err := fx.svc.AddEntry(context.Background(), navigation.AddEntryRequest{
		AppID:     fx.appID,
		Type:      navType,
		ContentID: contentID,
		Parent:    parent,
		Position:  position,
		Label:     label,
	})
	if err != nil {
		t.Fatalf("add entry: %v", err)
	}
	return entry
}

func (fx *navFixture) saveLocale(t *testing.T, navType, language, name string) *navigation.LocalizedNavigation {
	t.Helper()
	locale, err := fx.svc.SaveLocale(context.Background(), navigation.SaveLocaleRequest{
		AppID:    fx.appID,
		Type:     navType,
		Language: language,
		Name:     name,
	})
	if err != nil {
		t.Fatalf("save locale %s: %v", language, err)
	}
	return locale
}

func (fx *navFixture) tree(t *testing.T, navType string, state domain.AppState) *navigation.Tree {
	t.Helper()
	tree, err := fx.svc.Tree(context.Background(), navigation.TreeRequest{
		AppID:    fx.appID,
		Type:     navType,
		Language: "en",
		State:    state,
	})
	if err != nil {
		t.Fatalf("tree %s: %v", navType, err)
	}
	return tree
}

func strPtr(value string) *string { return &value }

func TestEnsure_Idempotent(t *testing.T) {
	fx := newNavFixture(t)

	first := fx.ensure(t, "main", 2, false)
	second := fx.ensure(t, "main", 3, true)

	if first.ID != second.ID {
		t.Fatal("ensure must converge on one navigation per app and type")
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatal("an update must keep the original creation time")
	}
	if second.MaxLevels != 3 || !second.Offline {
		t.Fatalf("expected updated settings, got %+v", second)
	}

	navs, err := fx.svc.List(context.Background(), fx.appID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(navs) != 1 {
		t.Fatalf("expected one navigation, got %d", len(navs))
	}
}

func TestEnsure_ClampsLevels(t *testing.T) {
	fx := newNavFixture(t)

	if nav := fx.ensure(t, "shallow", 0, false); nav.MaxLevels != 1 {
		t.Fatalf("expected the lower bound, got %d", nav.MaxLevels)
	}
	if nav := fx.ensure(t, "deep", 9, false); nav.MaxLevels != 3 {
		t.Fatalf("expected the upper bound, got %d", nav.MaxLevels)
	}
	if _, err := fx.svc.Ensure(context.Background(), navigation.EnsureRequest{AppID: fx.appID}); !errors.Is(err, navigation.ErrTypeRequired) {
		t.Fatalf("expected ErrTypeRequired, got %v", err)
	}
}

func TestAddEntry_Validation(t *testing.T) {
	ctx := context.Background()
	fx := newNavFixture(t)
	fx.ensure(t, "main", 2, false)
	fx.ensure(t, "footer", 1, false)

	if _, err := fx.svc.AddEntry(ctx, navigation.AddEntryRequest{AppID: fx.appID, Type: "main"}); !errors.Is(err, navigation.ErrTargetRequired) {
		t.Fatalf("expected ErrTargetRequired, got %v", err)
	}
	if _, err := fx.svc.AddEntry(ctx, navigation.AddEntryRequest{
		AppID:       fx.appID,
		Type:        "main",
		ContentID:   uuid.New(),
		ExternalURL: strPtr("https://example.com"),
	}); !errors.Is(err, navigation.ErrTargetConflict) {
		t.Fatalf("expected ErrTargetConflict, got %v", err)
	}
	if _, err := fx.svc.AddEntry(ctx, navigation.AddEntryRequest{
		AppID:     fx.appID,
		Type:      "main",
		ContentID: uuid.New(),
	}); !content.IsNotFound(err) {
		t.Fatalf("expected a not-found error for unknown content, got %v", err)
	}

	// A parent from another navigation is rejected.
	page := fx.seedPage(t, navPage{title: "Home", slug: "home"})
	foreign := fx.addEntry(t, "footer", page, nil, 0, nil)
	if _, err := fx.svc.AddEntry(ctx, navigation.AddEntryRequest{
		AppID:     fx.appID,
		Type:      "main",
		ContentID: page,
		Parent:    &foreign.ID,
	}); !errors.Is(err, navigation.ErrParentMismatch) {
		t.Fatalf("expected ErrParentMismatch, got %v", err)
	}
}

func TestMoveEntry_CycleGuard(t *testing.T) {
	ctx := context.Background()
	fx := newNavFixture(t)
	fx.ensure(t, "main", 3, false)

	a := fx.addEntry(t, "main", fx.seedPage(t, navPage{title: "A", slug: "a"}), nil, 0, nil)
	b := fx.addEntry(t, "main", fx.seedPage(t, navPage{title: "B", slug: "b"}), &a.ID, 0, nil)
	c := fx.addEntry(t, "main", fx.seedPage(t, navPage{title: "C", slug: "c"}), &b.ID, 0, nil)

	// a under its grandchild c closes a loop.
	if _, err := fx.svc.MoveEntry(ctx, navigation.MoveEntryRequest{
		AppID:   fx.appID,
		Type:    "main",
		EntryID: a.ID,
		Parent:  &c.ID,
	}); !errors.Is(err, navigation.ErrCycle) {
		t.Fatalf("expected ErrCycle, got %v", err)
	}
	if _, err := fx.svc.MoveEntry(ctx, navigation.MoveEntryRequest{
		AppID:   fx.appID,
		Type:    "main",
		EntryID: a.ID,
		Parent:  &a.ID,
	}); !errors.Is(err, navigation.ErrCycle) {
		t.Fatalf("expected ErrCycle for self-parenting, got %v", err)
	}

	// A legal move re-parents c to the root level.
	moved, err := fx.svc.MoveEntry(ctx, navigation.MoveEntryRequest{
		AppID:    fx.appID,
		Type:     "main",
		EntryID:  c.ID,
		Parent:   nil,
		Position: 7,
	})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.ParentID != nil || moved.Position != 7 {
		t.Fatalf("expected c at root position 7, got %+v", moved)
	}
}

func TestRemoveEntry_ReparentsChildren(t *testing.T) {
	ctx := context.Background()
	fx := newNavFixture(t)
	fx.ensure(t, "main", 3, false)

	a := fx.addEntry(t, "main", fx.seedPage(t, navPage{title: "A", slug: "a"}), nil, 0, nil)
	b := fx.addEntry(t, "main", fx.seedPage(t, navPage{title: "B", slug: "b"}), &a.ID, 0, nil)
	fx.addEntry(t, "main", fx.seedPage(t, navPage{title: "C", slug: "c"}), &b.ID, 0, nil)

	if err := fx.svc.RemoveEntry(ctx, fx.appID, "main", b.ID); err != nil {
		t.Fatalf("remove entry: %v", err)
	}

	tree := fx.tree(t, "main", domain.AppStateDraft)
	if len(tree.Nodes) != 1 || tree.Nodes[0].Slug != "a" {
		t.Fatalf("expected a at root, got %+v", tree.Nodes)
	}
	children := tree.Nodes[0].Children
	if len(children) != 1 || children[0].Slug != "c" {
		t.Fatalf("expected c re-parented under a, got %+v", children)
	}
}

func TestTree_DepthBound(t *testing.T) {
	fx := newNavFixture(t)
	fx.ensure(t, "main", 2, false)

	a := fx.addEntry(t, "main", fx.seedPage(t, navPage{title: "A", slug: "a"}), nil, 0, nil)
	b := fx.addEntry(t, "main", fx.seedPage(t, navPage{title: "B", slug: "b"}), &a.ID, 0, nil)
	fx.addEntry(t, "main", fx.seedPage(t, navPage{title: "C", slug: "c"}), &b.ID, 0, nil)

	tree := fx.tree(t, "main", domain.AppStateDraft)
	if len(tree.Nodes) != 1 {
		t.Fatalf("expected one root, got %d", len(tree.Nodes))
	}
	second := tree.Nodes[0].Children
	if len(second) != 1 || second[0].Slug != "b" {
		t.Fatalf("expected b at level two, got %+v", second)
	}
	if len(second[0].Children) != 0 {
		t.Fatal("entries past the navigation's depth bound are not rendered")
	}
}

func TestTree_SkipsUnresolvedSubtrees(t *testing.T) {
	fx := newNavFixture(t)
	fx.ensure(t, "main", 3, false)

	fx.addEntry(t, "main", fx.seedPage(t, navPage{title: "Live", slug: "live", published: true}), nil, 0, nil)
	draft := fx.addEntry(t, "main", fx.seedPage(t, navPage{title: "Draft", slug: "draft"}), nil, 1, nil)
	// A published child under the draft-only parent disappears with it.
	fx.addEntry(t, "main", fx.seedPage(t, navPage{title: "Hidden", slug: "hidden", published: true}), &draft.ID, 0, nil)

	tree := fx.tree(t, "main", domain.AppStatePublished)
	if len(tree.Nodes) != 1 || tree.Nodes[0].Slug != "live" {
		t.Fatalf("expected only the published root, got %+v", tree.Nodes)
	}

	if tree := fx.tree(t, "main", domain.AppStateDraft); len(tree.Nodes) != 2 {
		t.Fatalf("expected both roots in draft state, got %d", len(tree.Nodes))
	}
}

func TestTree_OfflineHidesPublishedView(t *testing.T) {
	fx := newNavFixture(t)
	fx.ensure(t, "main", 2, true)
	fx.addEntry(t, "main", fx.seedPage(t, navPage{title: "Home", slug: "home", published: true}), nil, 0, nil)

	tree := fx.tree(t, "main", domain.AppStatePublished)
	if tree.HasEntries() {
		t.Fatal("an offline navigation serves no published entries")
	}
	if !tree.Offline {
		t.Fatal("the tree metadata must report the offline state")
	}

	if tree := fx.tree(t, "main", domain.AppStateDraft); !tree.HasEntries() {
		t.Fatal("editors still see an offline navigation")
	}
}

func TestTree_LabelPrecedenceAndURL(t *testing.T) {
	fx := newNavFixture(t)
	fx.ensure(t, "main", 2, false)

	labelled := fx.seedPage(t, navPage{title: "Contact Office", slug: "contact", navLabel: strPtr("Contact")})
	overridden := fx.seedPage(t, navPage{title: "About the Company", slug: "about", navLabel: strPtr("About")})
	plain := fx.seedPage(t, navPage{title: "Press", slug: "press"})

	fx.addEntry(t, "main", labelled, nil, 0, nil)
	fx.addEntry(t, "main", overridden, nil, 1, strPtr("Who we are"))
	fx.addEntry(t, "main", plain, nil, 2, nil)

	tree := fx.tree(t, "main", domain.AppStateDraft)
	if len(tree.Nodes) != 3 {
		t.Fatalf("expected three nodes, got %d", len(tree.Nodes))
	}
	if got := tree.Nodes[0].Label; got != "Contact" {
		t.Fatalf("nav label beats title, got %q", got)
	}
	if got := tree.Nodes[1].Label; got != "Who we are" {
		t.Fatalf("entry label beats nav label, got %q", got)
	}
	if got := tree.Nodes[2].Label; got != "Press" {
		t.Fatalf("title is the fallback label, got %q", got)
	}
	if got := tree.Nodes[2].URL; got != "/press" {
		t.Fatalf("without a resolver the URL is the slug path, got %q", got)
	}
}

func TestTree_ExternalEntries(t *testing.T) {
	ctx := context.Background()
	fx := newNavFixture(t)
	fx.ensure(t, "main", 2, false)

	if _, err := fx.svc.AddEntry(ctx, navigation.AddEntryRequest{
		AppID:       fx.appID,
		Type:        "main",
		ExternalURL: strPtr("https://blog.example.com"),
		Label:       strPtr("Blog"),
		Position:    0,
	}); err != nil {
		t.Fatalf("add labelled external entry: %v", err)
	}
	if _, err := fx.svc.AddEntry(ctx, navigation.AddEntryRequest{
		AppID:       fx.appID,
		Type:        "main",
		ExternalURL: strPtr("  https://docs.example.com  "),
		Position:    1,
	}); err != nil {
		t.Fatalf("add bare external entry: %v", err)
	}

	// External links ignore publish gating entirely.
	tree := fx.tree(t, "main", domain.AppStatePublished)
	if len(tree.Nodes) != 2 {
		t.Fatalf("expected both external entries in the published tree, got %d", len(tree.Nodes))
	}
	if got := tree.Nodes[0]; got.Label != "Blog" || got.URL != "https://blog.example.com" {
		t.Fatalf("expected the entry label and raw URL, got %+v", got)
	}
	if got := tree.Nodes[1]; got.Label != "https://docs.example.com" || got.URL != "https://docs.example.com" {
		t.Fatalf("expected the trimmed URL as label fallback, got %+v", got)
	}
}

func TestSaveLocale_VersionsDraftName(t *testing.T) {
	ctx := context.Background()
	fx := newNavFixture(t)
	fx.ensure(t, "main", 2, false)

	locale, err := fx.svc.SaveLocale(ctx, navigation.SaveLocaleRequest{
		AppID:    fx.appID,
		Type:     "main",
		Language: "de",
		Name:     "Hauptmenü",
	})
	if err != nil {
		t.Fatalf("save locale: %v", err)
	}
	if locale.DraftVersion != 1 || locale.DraftName != "Hauptmenü" {
		t.Fatalf("expected a fresh draft at version 1, got %+v", locale)
	}
	if locale.IsPublished() {
		t.Fatal("a new locale must not be published")
	}

	// An unchanged name is a no-op.
	same, err := fx.svc.SaveLocale(ctx, navigation.SaveLocaleRequest{
		AppID:    fx.appID,
		Type:     "main",
		Language: "de",
		Name:     "Hauptmenü",
	})
	if err != nil {
		t.Fatalf("save unchanged locale: %v", err)
	}
	if same.DraftVersion != 1 {
		t.Fatalf("expected the version untouched, got %d", same.DraftVersion)
	}

	if _, err := fx.svc.MarkTranslationReady(ctx, fx.appID, "main", "de", true); err != nil {
		t.Fatalf("mark ready: %v", err)
	}
	renamed, err := fx.svc.SaveLocale(ctx, navigation.SaveLocaleRequest{
		AppID:    fx.appID,
		Type:     "main",
		Language: "de",
		Name:     "Menü",
	})
	if err != nil {
		t.Fatalf("rename locale: %v", err)
	}
	if renamed.DraftVersion != 2 {
		t.Fatalf("expected the rename to bump the draft, got %d", renamed.DraftVersion)
	}
	if renamed.TranslationReady {
		t.Fatal("a draft change must reset translation readiness")
	}

	if _, err := fx.svc.SaveLocale(ctx, navigation.SaveLocaleRequest{AppID: fx.appID, Type: "main", Name: "x"}); !errors.Is(err, navigation.ErrLanguageRequired) {
		t.Fatalf("expected ErrLanguageRequired, got %v", err)
	}
	if _, err := fx.svc.SaveLocale(ctx, navigation.SaveLocaleRequest{AppID: fx.appID, Type: "main", Language: "de"}); !errors.Is(err, navigation.ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
}

func TestPublish_CollectsUnreadyLanguages(t *testing.T) {
	ctx := context.Background()
	fx := newNavFixture(t)
	fx.ensure(t, "main", 2, false)

	fx.saveLocale(t, "main", "de", "Hauptmenü")
	fx.saveLocale(t, "main", "en", "Main menu")
	if _, err := fx.svc.MarkTranslationReady(ctx, fx.appID, "main", "de", true); err != nil {
		t.Fatalf("mark de ready: %v", err)
	}

	problems, err := fx.svc.Publish(ctx, fx.appID, "main")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(problems) != 1 || problems[0] != "the language en is still working" {
		t.Fatalf("expected the unready language reported, got %v", problems)
	}

	// The ready language released anyway. Re-saving the unchanged name is a
	// no-op, so it returns the stored record.
	de, err := fx.svc.SaveLocale(ctx, navigation.SaveLocaleRequest{AppID: fx.appID, Type: "main", Language: "de", Name: "Hauptmenü"})
	if err != nil {
		t.Fatalf("reload de: %v", err)
	}
	if !de.IsPublished() || de.PublishedName == nil || *de.PublishedName != "Hauptmenü" {
		t.Fatalf("expected the de name released, got %+v", de)
	}

	if _, err := fx.svc.MarkTranslationReady(ctx, fx.appID, "main", "en", true); err != nil {
		t.Fatalf("mark en ready: %v", err)
	}
	problems, err = fx.svc.Publish(ctx, fx.appID, "main")
	if err != nil {
		t.Fatalf("publish again: %v", err)
	}
	if len(problems) != 0 {
		t.Fatalf("expected a clean publish, got %v", problems)
	}
}

func TestPublish_SoleLanguageSkipsReadinessGate(t *testing.T) {
	ctx := context.Background()
	fx := newNavFixture(t)
	fx.ensure(t, "footer", 1, false)
	fx.saveLocale(t, "footer", "en", "Footer")

	problems, err := fx.svc.Publish(ctx, fx.appID, "footer")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(problems) != 0 {
		t.Fatalf("a sole language publishes without sign-off, got %v", problems)
	}
}

func TestTree_LocalizedNamePerState(t *testing.T) {
	ctx := context.Background()
	fx := newNavFixture(t)
	fx.ensure(t, "main", 2, false)
	fx.saveLocale(t, "main", "en", "Main menu")

	// Draft state sees the draft name, the published state falls back to the
	// configured name until the locale is released.
	if got := fx.tree(t, "main", domain.AppStateDraft).Name; got != "Main menu" {
		t.Fatalf("expected the draft name in the draft tree, got %q", got)
	}
	if got := fx.tree(t, "main", domain.AppStatePublished).Name; got != "main" {
		t.Fatalf("expected the configured fallback name, got %q", got)
	}

	if _, err := fx.svc.Publish(ctx, fx.appID, "main"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got := fx.tree(t, "main", domain.AppStatePublished).Name; got != "Main menu" {
		t.Fatalf("expected the released name, got %q", got)
	}

	// A later draft rename leaves the published snapshot untouched.
	fx.saveLocale(t, "main", "en", "Primary menu")
	if got := fx.tree(t, "main", domain.AppStateDraft).Name; got != "Primary menu" {
		t.Fatalf("expected the new draft name, got %q", got)
	}
	if got := fx.tree(t, "main", domain.AppStatePublished).Name; got != "Main menu" {
		t.Fatalf("expected the published snapshot to survive the rename, got %q", got)
	}

	if err := fx.svc.Unpublish(ctx, fx.appID, "main"); err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if got := fx.tree(t, "main", domain.AppStatePublished).Name; got != "main" {
		t.Fatalf("expected the fallback after unpublish, got %q", got)
	}
}

func TestSetEntryLabel_PerLanguage(t *testing.T) {
	ctx := context.Background()
	fx := newNavFixture(t)
	fx.ensure(t, "main", 2, false)

	page := fx.seedPage(t, navPage{title: "Contact Office", slug: "contact", navLabel: strPtr("Contact")})
	entry := fx.addEntry(t, "main", page, nil, 0, strPtr("Reach us"))

	if err := fx.svc.SetEntryLabel(ctx, navigation.SetEntryLabelRequest{
		AppID:    fx.appID,
		Type:     "main",
		EntryID:  entry.ID,
		Language: "en",
		Label:    "Say hello",
	}); err != nil {
		t.Fatalf("set label: %v", err)
	}

	// The localized override beats the entry's shared label.
	if got := fx.tree(t, "main", domain.AppStateDraft).Nodes[0].Label; got != "Say hello" {
		t.Fatalf("expected the localized label, got %q", got)
	}

	// Clearing the override restores the shared entry label.
	if err := fx.svc.SetEntryLabel(ctx, navigation.SetEntryLabelRequest{
		AppID:    fx.appID,
		Type:     "main",
		EntryID:  entry.ID,
		Language: "en",
	}); err != nil {
		t.Fatalf("clear label: %v", err)
	}
	if got := fx.tree(t, "main", domain.AppStateDraft).Nodes[0].Label; got != "Reach us" {
		t.Fatalf("expected the shared label after clearing, got %q", got)
	}

	if err := fx.svc.SetEntryLabel(ctx, navigation.SetEntryLabelRequest{
		AppID:   fx.appID,
		Type:    "main",
		EntryID: entry.ID,
		Label:   "x",
	}); !errors.Is(err, navigation.ErrLanguageRequired) {
		t.Fatalf("expected ErrLanguageRequired, got %v", err)
	}
}

func TestSetEntryLabel_ExternalEntries(t *testing.T) {
	ctx := context.Background()
	fx := newNavFixture(t)
	fx.ensure(t, "main", 2, false)

	entry, err := fx.svc.AddEntry(ctx, navigation.AddEntryRequest{
		AppID:       fx.appID,
		Type:        "main",
		ExternalURL: strPtr("https://blog.example.com"),
		Position:    0,
	})
	if err != nil {
		t.Fatalf("add external entry: %v", err)
	}
	if err := fx.svc.SetEntryLabel(ctx, navigation.SetEntryLabelRequest{
		AppID:    fx.appID,
		Type:     "main",
		EntryID:  entry.ID,
		Language: "en",
		Label:    "Blog",
	}); err != nil {
		t.Fatalf("set label: %v", err)
	}

	tree := fx.tree(t, "main", domain.AppStatePublished)
	if got := tree.Nodes[0].Label; got != "Blog" {
		t.Fatalf("expected the localized label on the external link, got %q", got)
	}
}

func TestDetachContent(t *testing.T) {
	ctx := context.Background()
	fx := newNavFixture(t)
	fx.ensure(t, "main", 3, false)
	fx.ensure(t, "footer", 1, false)

	doomed := fx.seedPage(t, navPage{title: "Doomed", slug: "doomed"})
	kept := fx.seedPage(t, navPage{title: "Kept", slug: "kept"})

	parent := fx.addEntry(t, "main", doomed, nil, 0, nil)
	fx.addEntry(t, "main", kept, &parent.ID, 0, nil)
	fx.addEntry(t, "footer", doomed, nil, 0, nil)

	if err := fx.svc.DetachContent(ctx, doomed); err != nil {
		t.Fatalf("detach: %v", err)
	}

	tree := fx.tree(t, "main", domain.AppStateDraft)
	if len(tree.Nodes) != 1 || tree.Nodes[0].Slug != "kept" {
		t.Fatalf("expected the child promoted to root, got %+v", tree.Nodes)
	}
	if tree := fx.tree(t, "footer", domain.AppStateDraft); tree.HasEntries() {
		t.Fatal("expected the footer entry removed")
	}

	if err := fx.svc.DetachContent(ctx, uuid.Nil); !errors.Is(err, navigation.ErrContentRequired) {
		t.Fatalf("expected ErrContentRequired, got %v", err)
	}
}
