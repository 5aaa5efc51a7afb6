package public_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	appcontent "github.com/goliatone/go-appcontent/content"
	"github.com/goliatone/go-appcontent/domain"
	"github.com/goliatone/go-appcontent/internal/content"
	"github.com/goliatone/go-appcontent/internal/microcontent"
	"github.com/goliatone/go-appcontent/internal/public"
	"github.com/goliatone/go-appcontent/internal/slugs"
	"github.com/goliatone/go-appcontent/internal/templates"
	"github.com/goliatone/go-appcontent/pkg/interfaces"
)

const pageTemplate = "landing_page"

type publicFixture struct {
	svc     public.Service
	authors content.Service
	micro   microcontent.Service
	appID   uuid.UUID
	editor  uuid.UUID
}

func newPublicFixture(t *testing.T, opts ...public.ServiceOption) *publicFixture {
	t.Helper()

	provider := templates.NewStaticProvider()
	err := provider.Register(pageTemplate, &interfaces.TemplateDefinition{
		Contents: map[string]interfaces.FieldDefinition{
			"headline": {Type: interfaces.FieldTypeText, Required: true, Format: interfaces.FieldFormatLayoutableSimple},
			"body":     {Type: interfaces.FieldTypeText, Format: interfaces.FieldFormatLayoutableFull},
			"kicker":   {Type: interfaces.FieldTypeText},
			"hero":     {Type: interfaces.FieldTypeImage},
			"cta":      {Type: interfaces.FieldTypeLink},
		},
	})
	if err != nil {
		t.Fatalf("register template: %v", err)
	}

	repo := content.NewMemoryRepository()
	micro := microcontent.NewService(microcontent.NewMemoryRepository())
	registry := slugs.NewRegistry(repo, slugs.NewMemoryTrailRepository())
	authors := content.NewService(repo, registry, micro, provider)
	t.Cleanup(func() { _ = authors.Close() })

	return &publicFixture{
		svc:     public.NewService(repo, registry, micro, provider, opts...),
		authors: authors,
		micro:   micro,
		appID:   uuid.New(),
		editor:  uuid.New(),
	}
}

// publishPage creates, fills, and releases a single-language page, returning
// its aggregate id.
func (fx *publicFixture) publishPage(t *testing.T, title string, contents content.ContentMap) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	record, err := fx.authors.Create(ctx, content.CreateRequest{
		AppID:        fx.appID,
		Language:     "en",
		Title:        title,
		TemplateName: pageTemplate,
		TemplateType: "page",
		CreatedBy:    fx.editor,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := fx.authors.Save(ctx, content.SaveRequest{
		ContentID: record.ID,
		Language:  "en",
		Title:     title,
		Contents:  contents,
		SavedBy:   fx.editor,
	}); err != nil {
		t.Fatalf("save: %v", err)
	}
	problems, err := fx.authors.Publish(ctx, content.PublishRequest{
		ContentID:   record.ID,
		Language:    "all",
		PublishedBy: fx.editor,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(problems) != 0 {
		t.Fatalf("expected a clean publish, got %v", problems)
	}
	return record.ID
}

func TestGetBySlug_Published(t *testing.T) {
	ctx := context.Background()
	fx := newPublicFixture(t)
	id := fx.publishPage(t, "Launch Week", content.ContentMap{
		"headline": appcontent.TextValue("We are **live**"),
		"body":     appcontent.TextValue("# Welcome\n\nDetails follow."),
		"kicker":   appcontent.TextValue("breaking"),
	})

	page, err := fx.svc.GetBySlug(ctx, public.Request{
		Slug:     "launch-week",
		Language: "en",
		State:    domain.AppStatePublished,
	})
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}

	if page.ContentID != id || page.Slug != "launch-week" || page.Redirected {
		t.Fatalf("unexpected page identity: %+v", page)
	}
	if page.Title != "Launch Week" || page.TemplateName != pageTemplate {
		t.Fatalf("unexpected page head: %+v", page)
	}
	if page.PublishedAt == nil {
		t.Fatal("a published page carries its release time")
	}

	headline, _ := page.Contents["headline"].(string)
	if !strings.Contains(headline, "<strong>live</strong>") {
		t.Fatalf("expected rendered inline markup, got %q", headline)
	}
	body, _ := page.Contents["body"].(string)
	if !strings.Contains(body, "<h1") {
		t.Fatalf("expected rendered block markup, got %q", body)
	}
	if got := page.Contents["kicker"]; got != "breaking" {
		t.Fatalf("plain text passes through unchanged, got %v", got)
	}
	// Image fields are always present; absence serializes as nil.
	if image, ok := page.Contents["hero"]; !ok || image != (*interfaces.ResolvedImage)(nil) {
		t.Fatalf("expected a nil hero entry, got %v (present %v)", image, ok)
	}
}

func TestGetBySlug_FollowsSlugTrail(t *testing.T) {
	ctx := context.Background()
	fx := newPublicFixture(t)
	id := fx.publishPage(t, "Old Name", content.ContentMap{
		"headline": appcontent.TextValue("hello"),
	})

	// Renaming moves the slug and leaves a redirect behind.
	if _, err := fx.authors.Save(ctx, content.SaveRequest{
		ContentID: id,
		Language:  "en",
		Title:     "New Name",
		Contents:  content.ContentMap{"headline": appcontent.TextValue("hello")},
		SavedBy:   fx.editor,
	}); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, err := fx.authors.Publish(ctx, content.PublishRequest{ContentID: id, Language: "all", PublishedBy: fx.editor}); err != nil {
		t.Fatalf("republish: %v", err)
	}

	page, err := fx.svc.GetBySlug(ctx, public.Request{
		Slug:     "old-name",
		Language: "en",
		State:    domain.AppStatePublished,
	})
	if err != nil {
		t.Fatalf("get by old slug: %v", err)
	}
	if !page.Redirected || page.Slug != "new-name" {
		t.Fatalf("expected a redirect to the live slug, got %+v", page)
	}

	if _, err := fx.svc.GetBySlug(ctx, public.Request{Slug: "never-existed", Language: "en", State: domain.AppStatePublished}); !errors.Is(err, slugs.ErrSlugNotFound) {
		t.Fatalf("expected ErrSlugNotFound, got %v", err)
	}
}

func TestGetBySlug_DraftRequiresPreviewToken(t *testing.T) {
	ctx := context.Background()
	fx := newPublicFixture(t)
	id := fx.publishPage(t, "Preview Me", content.ContentMap{
		"headline": appcontent.TextValue("released"),
	})
	if _, err := fx.authors.Save(ctx, content.SaveRequest{
		ContentID: id,
		Language:  "en",
		Title:     "Preview Me",
		Contents:  content.ContentMap{"headline": appcontent.TextValue("unreleased edit")},
		SavedBy:   fx.editor,
	}); err != nil {
		t.Fatalf("draft edit: %v", err)
	}

	// No token on the record yet: every draft read is rejected.
	if _, err := fx.svc.GetBySlug(ctx, public.Request{Slug: "preview-me", Language: "en", State: domain.AppStateDraft}); !errors.Is(err, content.ErrPreviewTokenMismatch) {
		t.Fatalf("expected ErrPreviewTokenMismatch, got %v", err)
	}

	token, err := fx.authors.EnsurePreviewToken(ctx, id, "en")
	if err != nil {
		t.Fatalf("ensure token: %v", err)
	}
	if _, err := fx.svc.GetBySlug(ctx, public.Request{
		Slug:         "preview-me",
		Language:     "en",
		State:        domain.AppStateDraft,
		PreviewToken: "wrong-" + token,
	}); !errors.Is(err, content.ErrPreviewTokenMismatch) {
		t.Fatalf("expected a mismatch for a wrong token, got %v", err)
	}

	page, err := fx.svc.GetBySlug(ctx, public.Request{
		Slug:         "preview-me",
		Language:     "en",
		State:        domain.AppStateDraft,
		PreviewToken: token,
	})
	if err != nil {
		t.Fatalf("draft read: %v", err)
	}
	headline, _ := page.Contents["headline"].(string)
	if !strings.Contains(headline, "unreleased edit") {
		t.Fatalf("expected the draft contents, got %q", headline)
	}
}

func TestGetBySlug_NotPublished(t *testing.T) {
	ctx := context.Background()
	fx := newPublicFixture(t)

	if _, err := fx.authors.Create(ctx, content.CreateRequest{
		AppID:        fx.appID,
		Language:     "en",
		Title:        "Still Cooking",
		TemplateName: pageTemplate,
		TemplateType: "page",
		CreatedBy:    fx.editor,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := fx.svc.GetBySlug(ctx, public.Request{
		Slug:     "still-cooking",
		Language: "en",
		State:    domain.AppStatePublished,
	}); !errors.Is(err, content.ErrNotPublished) {
		t.Fatalf("expected ErrNotPublished, got %v", err)
	}
}

func TestGetBySlug_LanguageMismatch(t *testing.T) {
	ctx := context.Background()
	fx := newPublicFixture(t)
	fx.publishPage(t, "English Only", content.ContentMap{
		"headline": appcontent.TextValue("hello"),
	})

	_, err := fx.svc.GetBySlug(ctx, public.Request{
		Slug:     "english-only",
		Language: "de",
		State:    domain.AppStatePublished,
	})
	if !content.IsNotFound(err) {
		t.Fatalf("expected a not-found error for the wrong language, got %v", err)
	}
}

func TestGetBySlug_ImageFromMicroStore(t *testing.T) {
	ctx := context.Background()
	fx := newPublicFixture(t)

	record, err := fx.authors.Create(ctx, content.CreateRequest{
		AppID:        fx.appID,
		Language:     "en",
		Title:        "Gallery",
		TemplateName: pageTemplate,
		TemplateType: "page",
		CreatedBy:    fx.editor,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := fx.authors.Save(ctx, content.SaveRequest{
		ContentID: record.ID,
		Language:  "en",
		Title:     "Gallery",
		Contents:  content.ContentMap{"headline": appcontent.TextValue("look")},
		SavedBy:   fx.editor,
	}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := fx.micro.UpsertDraftImage(ctx, microcontent.UpsertImageRequest{
		ContentID: record.ID,
		Key:       "hero",
		Language:  "en",
		ImagePath: "heroes/gallery.jpg",
		Licence:   map[string]any{"author": "jane"},
		CreatedBy: fx.editor,
	}); err != nil {
		t.Fatalf("attach hero: %v", err)
	}
	if _, err := fx.authors.Publish(ctx, content.PublishRequest{ContentID: record.ID, Language: "all", PublishedBy: fx.editor}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	page, err := fx.svc.GetBySlug(ctx, public.Request{
		Slug:     "gallery",
		Language: "en",
		State:    domain.AppStatePublished,
	})
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	hero, ok := page.Contents["hero"].(*interfaces.ResolvedImage)
	if !ok || hero == nil {
		t.Fatalf("expected a resolved hero image, got %v", page.Contents["hero"])
	}
	if hero.ImageURL["1x"] != "heroes/gallery.jpg" {
		t.Fatalf("expected the stored rendition, got %v", hero.ImageURL)
	}
	if hero.Licence["author"] != "jane" {
		t.Fatalf("expected the licence payload, got %v", hero.Licence)
	}
}

// routeStub resolves every slug under a language path.
type routeStub struct{}

func (routeStub) ContentURL(_ context.Context, language, slug string) (string, error) {
	return "/" + language + "/" + slug, nil
}

func TestGetBySlug_LinkURLs(t *testing.T) {
	ctx := context.Background()
	fx := newPublicFixture(t, public.WithURLResolver(routeStub{}))

	target := uuid.New()
	fx.publishPage(t, "Linked", content.ContentMap{
		"headline": appcontent.TextValue("hello"),
		"cta": appcontent.LinkValue(appcontent.LinkRef{
			PK:           target,
			Slug:         "pricing",
			TemplateName: pageTemplate,
			Title:        "See pricing",
		}),
	})

	page, err := fx.svc.GetBySlug(ctx, public.Request{
		Slug:     "linked",
		Language: "en",
		State:    domain.AppStatePublished,
	})
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	cta, ok := page.Contents["cta"].(map[string]any)
	if !ok {
		t.Fatalf("expected a link object, got %v", page.Contents["cta"])
	}
	if cta["url"] != "/en/pricing" {
		t.Fatalf("expected the resolved URL, got %v", cta["url"])
	}
	if cta["slug"] != "pricing" || cta["title"] != "See pricing" || cta["pk"] != target.String() {
		t.Fatalf("unexpected link payload: %v", cta)
	}
}

func TestGetBySlug_SkipsUndeclaredValues(t *testing.T) {
	ctx := context.Background()
	fx := newPublicFixture(t)
	fx.publishPage(t, "Sparse", content.ContentMap{
		"headline": appcontent.TextValue("only this"),
	})

	page, err := fx.svc.GetBySlug(ctx, public.Request{
		Slug:     "sparse",
		Language: "en",
		State:    domain.AppStatePublished,
	})
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if _, ok := page.Contents["body"]; ok {
		t.Fatal("absent optional fields are omitted")
	}
	if _, ok := page.Contents["hero"]; !ok {
		t.Fatal("image fields are always present")
	}
}
