package content_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	appcontent "github.com/goliatone/go-appcontent/content"
	"github.com/goliatone/go-appcontent/internal/content"
	"github.com/goliatone/go-appcontent/internal/events"
	"github.com/goliatone/go-appcontent/internal/identity"
	"github.com/goliatone/go-appcontent/internal/microcontent"
	"github.com/goliatone/go-appcontent/internal/slugs"
	"github.com/goliatone/go-appcontent/internal/templates"
	"github.com/goliatone/go-appcontent/pkg/interfaces"
)

const testTemplate = "sponsor_page"

type fixture struct {
	svc       content.Service
	repo      *content.MemoryRepository
	micro     microcontent.Service
	registry  *slugs.Registry
	templates *templates.StaticProvider
	appID     uuid.UUID
	editor    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	provider := templates.NewStaticProvider()
	err := provider.Register(testTemplate, &interfaces.TemplateDefinition{
		Contents: map[string]interfaces.FieldDefinition{
			"headline": {Type: interfaces.FieldTypeText, Required: true, Format: interfaces.FieldFormatLayoutableSimple},
			"body":     {Type: interfaces.FieldTypeText, Format: interfaces.FieldFormatLayoutableFull},
			"hero":     {Type: interfaces.FieldTypeImage},
			"cta":      {Type: interfaces.FieldTypeLink},
			"partners": {Type: interfaces.FieldTypeComponent, AllowMultiple: true, MaxNumber: 2, TemplateName: "partner_entry"},
		},
	})
	if err != nil {
		t.Fatalf("register template: %v", err)
	}

	repo := content.NewMemoryRepository()
	micro := microcontent.NewService(microcontent.NewMemoryRepository())
	registry := slugs.NewRegistry(repo, slugs.NewMemoryTrailRepository())

	svc := content.NewService(repo, registry, micro, provider,
		content.WithClock(func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }),
	)
	t.Cleanup(func() { _ = svc.Close() })

	return &fixture{
		svc:       svc,
		repo:      repo,
		micro:     micro,
		registry:  registry,
		templates: provider,
		appID:     uuid.New(),
		editor:    uuid.New(),
	}
}

func (fx *fixture) create(t *testing.T, language, title string) *appcontent.TemplateContent {
	t.Helper()
	record, err := fx.svc.Create(context.Background(), content.CreateRequest{
		AppID:        fx.appID,
		Language:     language,
		Title:        title,
		TemplateName: testTemplate,
		TemplateType: "page",
		CreatedBy:    fx.editor,
	})
	if err != nil {
		t.Fatalf("create content: %v", err)
	}
	return record
}

func (fx *fixture) save(t *testing.T, id uuid.UUID, language, title string, contents content.ContentMap) *appcontent.LocalizedTemplateContent {
	t.Helper()
	record, err := fx.svc.Save(context.Background(), content.SaveRequest{
		ContentID: id,
		Language:  language,
		Title:     title,
		Contents:  contents,
		SavedBy:   fx.editor,
	})
	if err != nil {
		t.Fatalf("save %s: %v", language, err)
	}
	return record
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	record := fx.create(t, "de", "About Us")

	if record.PrimaryLanguage != "de" {
		t.Fatalf("expected primary language de, got %q", record.PrimaryLanguage)
	}
	locale := record.Locale("de")
	if locale == nil {
		t.Fatal("expected a localized record for de")
	}
	if locale.DraftVersion != 1 {
		t.Fatalf("expected first draft version 1, got %d", locale.DraftVersion)
	}
	if locale.Slug != "about-us" {
		t.Fatalf("expected slug about-us, got %q", locale.Slug)
	}
	if locale.IsPublished() {
		t.Fatal("new content must not be published")
	}

	loaded, err := fx.svc.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.TemplateName != testTemplate {
		t.Fatalf("expected template %q, got %q", testTemplate, loaded.TemplateName)
	}
}

func TestService_Create_UnknownTemplate(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.Create(context.Background(), content.CreateRequest{
		AppID:        fx.appID,
		Language:     "en",
		Title:        "Broken",
		TemplateName: "missing_template",
		CreatedBy:    fx.editor,
	})
	if !errors.Is(err, content.ErrTemplateUnknown) {
		t.Fatalf("expected ErrTemplateUnknown, got %v", err)
	}
}

func TestService_Create_SlugCollisionSuffix(t *testing.T) {
	fx := newFixture(t)

	first := fx.create(t, "de", "Partners")
	second := fx.create(t, "de", "Partners")

	if got := first.Locale("de").Slug; got != "partners" {
		t.Fatalf("expected slug partners, got %q", got)
	}
	if got := second.Locale("de").Slug; got != "partners-2" {
		t.Fatalf("expected slug partners-2, got %q", got)
	}
}

func TestService_Create_DuplicateAssignment(t *testing.T) {
	fx := newFixture(t)
	assignment := "home"

	_, err := fx.svc.Create(context.Background(), content.CreateRequest{
		AppID:        fx.appID,
		Language:     "en",
		Title:        "Home",
		TemplateName: testTemplate,
		Assignment:   &assignment,
		CreatedBy:    fx.editor,
	})
	if err != nil {
		t.Fatalf("first assignment: %v", err)
	}

	_, err = fx.svc.Create(context.Background(), content.CreateRequest{
		AppID:        fx.appID,
		Language:     "en",
		Title:        "Second Home",
		TemplateName: testTemplate,
		Assignment:   &assignment,
		CreatedBy:    fx.editor,
	})
	if !errors.Is(err, content.ErrDuplicateAssignment) {
		t.Fatalf("expected ErrDuplicateAssignment, got %v", err)
	}
}

func TestService_Create_FixedAssignmentID(t *testing.T) {
	fx := newFixture(t)
	assignment := "home"

	record, err := fx.svc.Create(context.Background(), content.CreateRequest{
		AppID:        fx.appID,
		Language:     "en",
		Title:        "Home",
		TemplateName: testTemplate,
		Assignment:   &assignment,
		CreatedBy:    fx.editor,
	})
	if err != nil {
		t.Fatalf("create assigned content: %v", err)
	}
	if want := identity.AssignmentUUID(fx.appID, "home"); record.ID != want {
		t.Fatalf("expected the deterministic slot id %s, got %s", want, record.ID)
	}

	// Recreating the slot after deletion lands on the same id.
	if err := fx.svc.Delete(context.Background(), record.ID); err != nil {
		t.Fatalf("delete assigned content: %v", err)
	}
	again, err := fx.svc.Create(context.Background(), content.CreateRequest{
		AppID:        fx.appID,
		Language:     "en",
		Title:        "Home Again",
		TemplateName: testTemplate,
		Assignment:   &assignment,
		CreatedBy:    fx.editor,
	})
	if err != nil {
		t.Fatalf("recreate assigned content: %v", err)
	}
	if again.ID != record.ID {
		t.Fatalf("expected the slot id to be stable, got %s then %s", record.ID, again.ID)
	}
}

func TestService_UpdateSettings_TemplateImmutable(t *testing.T) {
	fx := newFixture(t)
	record := fx.create(t, "en", "Settings Page")

	_, err := fx.svc.UpdateSettings(context.Background(), content.UpdateSettingsRequest{
		ContentID:    record.ID,
		TemplateName: "another_template",
		UpdatedBy:    fx.editor,
	})
	if !errors.Is(err, content.ErrStructuralChange) {
		t.Fatalf("expected ErrStructuralChange, got %v", err)
	}
}

func TestService_AddLocale_MirrorsPrimaryVersion(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	record := fx.create(t, "de", "Versioned Page")

	// Two saves move the primary draft to version 3.
	fx.save(t, record.ID, "de", "Versioned Page", content.ContentMap{"headline": appcontent.TextValue("Hallo")})
	fx.save(t, record.ID, "de", "Versioned Page", content.ContentMap{"headline": appcontent.TextValue("Hallo nochmal")})

	locale, err := fx.svc.AddLocale(ctx, content.AddLocaleRequest{
		ContentID: record.ID,
		Language:  "en",
		Title:     "Versioned Page EN",
		CreatedBy: fx.editor,
	})
	if err != nil {
		t.Fatalf("add locale: %v", err)
	}
	if locale.DraftVersion != 3 {
		t.Fatalf("expected secondary to start at the primary's version 3, got %d", locale.DraftVersion)
	}

	_, err = fx.svc.AddLocale(ctx, content.AddLocaleRequest{
		ContentID: record.ID,
		Language:  "en",
		Title:     "Again",
		CreatedBy: fx.editor,
	})
	if !errors.Is(err, content.ErrLocaleExists) {
		t.Fatalf("expected ErrLocaleExists, got %v", err)
	}
}

func TestService_Save_BumpsVersion(t *testing.T) {
	fx := newFixture(t)
	record := fx.create(t, "en", "Draft Page")

	saved := fx.save(t, record.ID, "en", "Draft Page", content.ContentMap{"headline": appcontent.TextValue("Hello")})
	if saved.DraftVersion != 2 {
		t.Fatalf("expected version 2 after save, got %d", saved.DraftVersion)
	}
	if saved.TranslationReady {
		t.Fatal("a fresh draft must not be translation ready")
	}
}

func TestService_Save_DisallowNewVersion(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	record := fx.create(t, "en", "Quiet Edit")

	saved, err := fx.svc.Save(ctx, content.SaveRequest{
		ContentID:          record.ID,
		Language:           "en",
		Title:              "Quiet Edit",
		Contents:           content.ContentMap{"headline": appcontent.TextValue("Hi")},
		DisallowNewVersion: true,
		SavedBy:            fx.editor,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.DraftVersion != 1 {
		t.Fatalf("expected version to stay at 1, got %d", saved.DraftVersion)
	}
}

func TestService_Save_StaleWrite(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	record := fx.create(t, "en", "Contested Page")

	fx.save(t, record.ID, "en", "Contested Page", content.ContentMap{"headline": appcontent.TextValue("v2")})

	stale := 1
	_, err := fx.svc.Save(ctx, content.SaveRequest{
		ContentID:   record.ID,
		Language:    "en",
		Title:       "Contested Page",
		Contents:    content.ContentMap{"headline": appcontent.TextValue("late")},
		BaseVersion: &stale,
		SavedBy:     fx.editor,
	})
	if !errors.Is(err, content.ErrStaleWrite) {
		t.Fatalf("expected ErrStaleWrite, got %v", err)
	}

	current := 2
	_, err = fx.svc.Save(ctx, content.SaveRequest{
		ContentID:   record.ID,
		Language:    "en",
		Title:       "Contested Page",
		Contents:    content.ContentMap{"headline": appcontent.TextValue("on time")},
		BaseVersion: &current,
		SavedBy:     fx.editor,
	})
	if err != nil {
		t.Fatalf("save with matching base version: %v", err)
	}
}

func TestService_Save_RejectsUnknownField(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	record := fx.create(t, "en", "Strict Page")

	_, err := fx.svc.Save(ctx, content.SaveRequest{
		ContentID: record.ID,
		Language:  "en",
		Title:     "Strict Page",
		Contents:  content.ContentMap{"rogue": appcontent.TextValue("nope")},
		SavedBy:   fx.editor,
	})
	var validation *content.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestService_Save_PrimaryResetsSiblingReadiness(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	record := fx.create(t, "de", "Fanout Page")

	if _, err := fx.svc.AddLocale(ctx, content.AddLocaleRequest{
		ContentID: record.ID,
		Language:  "en",
		Title:     "Fanout Page EN",
		CreatedBy: fx.editor,
	}); err != nil {
		t.Fatalf("add locale: %v", err)
	}
	if _, err := fx.svc.MarkTranslationReady(ctx, record.ID, "en", true); err != nil {
		t.Fatalf("mark ready: %v", err)
	}

	fx.save(t, record.ID, "de", "Fanout Page", content.ContentMap{"headline": appcontent.TextValue("Neu")})

	sibling, err := fx.svc.GetLocale(ctx, record.ID, "en")
	if err != nil {
		t.Fatalf("get locale: %v", err)
	}
	if sibling.TranslationReady {
		t.Fatal("primary save must reset sibling translation readiness")
	}
}

func TestService_Save_SecondaryDoesNotResetSiblings(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	record := fx.create(t, "de", "Stable Page")

	if _, err := fx.svc.AddLocale(ctx, content.AddLocaleRequest{
		ContentID: record.ID,
		Language:  "en",
		Title:     "Stable Page EN",
		CreatedBy: fx.editor,
	}); err != nil {
		t.Fatalf("add locale: %v", err)
	}
	if _, err := fx.svc.MarkTranslationReady(ctx, record.ID, "de", true); err != nil {
		t.Fatalf("mark ready: %v", err)
	}

	fx.save(t, record.ID, "en", "Stable Page EN", content.ContentMap{"headline": appcontent.TextValue("Hello")})

	primary, err := fx.svc.GetLocale(ctx, record.ID, "de")
	if err != nil {
		t.Fatalf("get locale: %v", err)
	}
	if !primary.TranslationReady {
		t.Fatal("secondary save must not touch the primary's readiness")
	}
}

func TestService_Save_SlugFollowsTitle(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	record := fx.create(t, "en", "Old Name")

	saved := fx.save(t, record.ID, "en", "New Name", content.ContentMap{"headline": appcontent.TextValue("x")})
	if saved.Slug != "new-name" {
		t.Fatalf("expected slug new-name, got %q", saved.Slug)
	}

	live, err := fx.registry.Resolve(ctx, "old-name")
	if err != nil {
		t.Fatalf("resolve old slug: %v", err)
	}
	if live != "new-name" {
		t.Fatalf("expected trail to resolve old-name to new-name, got %q", live)
	}
}

func TestService_Save_SameTitleKeepsSlug(t *testing.T) {
	fx := newFixture(t)
	record := fx.create(t, "en", "Steady Title")

	saved := fx.save(t, record.ID, "en", "Steady Title", content.ContentMap{"headline": appcontent.TextValue("x")})
	if saved.Slug != "steady-title" {
		t.Fatalf("expected slug to stay steady-title, got %q", saved.Slug)
	}
}

func TestService_Save_SameTitleKeepsSuffixedSlug(t *testing.T) {
	fx := newFixture(t)
	fx.create(t, "en", "Home")
	second := fx.create(t, "en", "Home")

	if got := second.Locale("en").Slug; got != "home-2" {
		t.Fatalf("expected the second page at home-2, got %q", got)
	}

	// Repeated saves with the unchanged title must not walk the suffix.
	saved := fx.save(t, second.ID, "en", "Home", content.ContentMap{"headline": appcontent.TextValue("x")})
	if saved.Slug != "home-2" {
		t.Fatalf("expected the suffixed slug to survive a save, got %q", saved.Slug)
	}
	saved = fx.save(t, second.ID, "en", "Home", content.ContentMap{"headline": appcontent.TextValue("y")})
	if saved.Slug != "home-2" {
		t.Fatalf("expected the suffixed slug to stay stable, got %q", saved.Slug)
	}

	// A real rename still regenerates and leaves a trail.
	saved = fx.save(t, second.ID, "en", "Home Office", content.ContentMap{"headline": appcontent.TextValue("y")})
	if saved.Slug != "home-office" {
		t.Fatalf("expected a new slug after the rename, got %q", saved.Slug)
	}
	resolved, err := fx.registry.Resolve(context.Background(), "home-2")
	if err != nil {
		t.Fatalf("resolve old slug: %v", err)
	}
	if resolved != "home-office" {
		t.Fatalf("expected the trail to reach home-office, got %q", resolved)
	}
}

// racingRepository simulates a concurrent writer claiming a slug between the
// registry's uniqueness pre-check and the insert. The first aggregate write
// runs the rival and reports the conflict the way the bun repository does.
type racingRepository struct {
	*content.MemoryRepository
	raced bool
	rival func()
}

func (r *racingRepository) Create(ctx context.Context, record *content.TemplateContent) (*content.TemplateContent, error) {
	if !r.raced {
		r.raced = true
		r.rival()
		return nil, fmt.Errorf("%w: %q", content.ErrSlugExists, record.Locales[0].Slug)
	}
	return r.MemoryRepository.Create(ctx, record)
}

func TestService_Create_RetriesSlugOnConflict(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	repo := &racingRepository{MemoryRepository: fx.repo}
	repo.rival = func() {
		rivalID := uuid.New()
		_, err := fx.repo.Create(ctx, &content.TemplateContent{
			ID:              rivalID,
			AppID:           fx.appID,
			TemplateName:    testTemplate,
			PrimaryLanguage: "en",
			Locales: []*appcontent.LocalizedTemplateContent{{
				ID:                uuid.New(),
				TemplateContentID: rivalID,
				Language:          "en",
				DraftTitle:        "About Us",
				Slug:              "about-us",
			}},
		})
		if err != nil {
			t.Fatalf("seed rival record: %v", err)
		}
	}

	svc := content.NewService(repo, fx.registry, fx.micro, fx.templates)
	t.Cleanup(func() { _ = svc.Close() })
	record, err := svc.Create(ctx, content.CreateRequest{
		AppID:        fx.appID,
		Language:     "en",
		Title:        "About Us",
		TemplateName: testTemplate,
		CreatedBy:    fx.editor,
	})
	if err != nil {
		t.Fatalf("create after conflict: %v", err)
	}
	if got := record.Locale("en").Slug; got != "about-us-2" {
		t.Fatalf("expected the retried slug about-us-2, got %q", got)
	}
}

func TestMemoryRepository_DuplicateSlug(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	record := fx.create(t, "en", "Imprint")

	_, err := fx.repo.CreateRecord(ctx, &appcontent.LocalizedTemplateContent{
		ID:                uuid.New(),
		TemplateContentID: record.ID,
		Language:          "fr",
		DraftTitle:        "Imprint",
		Slug:              "imprint",
	})
	if !errors.Is(err, content.ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists for a taken slug, got %v", err)
	}
}

func TestService_PreviewTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	record := fx.create(t, "en", "Preview Page")

	token, err := fx.svc.EnsurePreviewToken(ctx, record.ID, "en")
	if err != nil {
		t.Fatalf("ensure token: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty preview token")
	}

	again, err := fx.svc.EnsurePreviewToken(ctx, record.ID, "en")
	if err != nil {
		t.Fatalf("ensure token again: %v", err)
	}
	if again != token {
		t.Fatalf("expected a stable token, got %q then %q", token, again)
	}

	locale, err := fx.svc.GetLocale(ctx, record.ID, "en")
	if err != nil {
		t.Fatalf("get locale: %v", err)
	}
	if locale.DraftVersion != 1 {
		t.Fatalf("token maintenance must not bump the draft version, got %d", locale.DraftVersion)
	}

	if err := fx.svc.RevokePreviewToken(ctx, record.ID, "en"); err != nil {
		t.Fatalf("revoke token: %v", err)
	}
	locale, err = fx.svc.GetLocale(ctx, record.ID, "en")
	if err != nil {
		t.Fatalf("get locale: %v", err)
	}
	if locale.PreviewToken != nil {
		t.Fatal("expected the token to be cleared")
	}
}

func TestService_Delete_RemovesMicroContent(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	record := fx.create(t, "en", "Doomed Page")

	if _, err := fx.micro.UpsertDraftImage(ctx, microcontent.UpsertImageRequest{
		ContentID: record.ID,
		Key:       "hero",
		Language:  "en",
		ImagePath: "uploads/hero.png",
		CreatedBy: fx.editor,
	}); err != nil {
		t.Fatalf("upsert image: %v", err)
	}

	if err := fx.svc.Delete(ctx, record.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := fx.svc.Get(ctx, record.ID); !content.IsNotFound(err) {
		t.Fatalf("expected NotFound after delete, got %v", err)
	}
	has, err := fx.micro.HasDraftValue(ctx, record.ID, "hero", "en")
	if err != nil {
		t.Fatalf("has draft value: %v", err)
	}
	if has {
		t.Fatal("expected micro content to be removed with the aggregate")
	}
}

func TestService_Close_StopsReadinessFanOut(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	record := fx.create(t, "de", "Closing Page")
	if _, err := fx.svc.AddLocale(ctx, content.AddLocaleRequest{
		ContentID: record.ID,
		Language:  "en",
		Title:     "Closing Page EN",
		CreatedBy: fx.editor,
	}); err != nil {
		t.Fatalf("add locale: %v", err)
	}
	if _, err := fx.svc.MarkTranslationReady(ctx, record.ID, "en", true); err != nil {
		t.Fatalf("mark ready: %v", err)
	}

	// While attached, a dispatched primary change resets the sibling.
	if err := events.Publish(ctx, events.PrimaryDraftChanged{ContentID: record.ID, Language: "de", SavedBy: fx.editor}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	sibling, err := fx.svc.GetLocale(ctx, record.ID, "en")
	if err != nil {
		t.Fatalf("get sibling: %v", err)
	}
	if sibling.TranslationReady {
		t.Fatal("expected readiness reset while the handler is attached")
	}

	if _, err := fx.svc.MarkTranslationReady(ctx, record.ID, "en", true); err != nil {
		t.Fatalf("mark ready again: %v", err)
	}
	if err := fx.svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// The dispatcher reports an error when nothing is subscribed anymore;
	// either way the detached handler must not run.
	_ = events.Publish(ctx, events.PrimaryDraftChanged{ContentID: record.ID, Language: "de", SavedBy: fx.editor})

	sibling, err = fx.svc.GetLocale(ctx, record.ID, "en")
	if err != nil {
		t.Fatalf("get sibling after close: %v", err)
	}
	if !sibling.TranslationReady {
		t.Fatal("expected readiness to survive events after Close")
	}
}

func TestService_Delete_RunsDeletionHooks(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	var cleaned []uuid.UUID
	svc := content.NewService(fx.repo, fx.registry, fx.micro, fx.templates,
		content.WithDeletionHook(func(_ context.Context, contentID uuid.UUID) error {
			cleaned = append(cleaned, contentID)
			return nil
		}),
	)
	t.Cleanup(func() { _ = svc.Close() })

	record, err := svc.Create(ctx, content.CreateRequest{
		AppID:        fx.appID,
		Language:     "en",
		Title:        "Hooked Page",
		TemplateName: testTemplate,
		TemplateType: "page",
		CreatedBy:    fx.editor,
	})
	if err != nil {
		t.Fatalf("create content: %v", err)
	}

	if err := svc.Delete(ctx, record.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(cleaned) != 1 || cleaned[0] != record.ID {
		t.Fatalf("expected one hook call for the aggregate, got %v", cleaned)
	}
}
