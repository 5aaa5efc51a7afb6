package contentcmd_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	appcontent "github.com/goliatone/go-appcontent/content"
	contentcmd "github.com/goliatone/go-appcontent/internal/commands/content"
	"github.com/goliatone/go-appcontent/internal/content"
	"github.com/goliatone/go-appcontent/internal/microcontent"
	"github.com/goliatone/go-appcontent/internal/slugs"
	"github.com/goliatone/go-appcontent/internal/templates"
	"github.com/goliatone/go-appcontent/pkg/interfaces"
)

type cmdFixture struct {
	svc    content.Service
	appID  uuid.UUID
	editor uuid.UUID
}

func newCmdFixture(t *testing.T) *cmdFixture {
	t.Helper()

	provider := templates.NewStaticProvider()
	err := provider.Register("note", &interfaces.TemplateDefinition{
		Contents: map[string]interfaces.FieldDefinition{
			"headline": {Type: interfaces.FieldTypeText, Required: true},
		},
	})
	if err != nil {
		t.Fatalf("register template: %v", err)
	}

	repo := content.NewMemoryRepository()
	micro := microcontent.NewService(microcontent.NewMemoryRepository())
	registry := slugs.NewRegistry(repo, slugs.NewMemoryTrailRepository())

	svc := content.NewService(repo, registry, micro, provider)
	t.Cleanup(func() { _ = svc.Close() })

	return &cmdFixture{
		svc:    svc,
		appID:  uuid.New(),
		editor: uuid.New(),
	}
}

func (fx *cmdFixture) create(t *testing.T, title string) uuid.UUID {
	t.Helper()
	record, err := fx.svc.Create(context.Background(), content.CreateRequest{
		AppID:        fx.appID,
		Language:     "en",
		Title:        title,
		TemplateName: "note",
		TemplateType: "page",
		CreatedBy:    fx.editor,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return record.ID
}

func TestSaveContentHandler(t *testing.T) {
	ctx := context.Background()
	fx := newCmdFixture(t)
	id := fx.create(t, "Draft Note")
	handler := contentcmd.NewSaveContentHandler(fx.svc, nil)

	err := handler.Execute(ctx, contentcmd.SaveContentCommand{
		ContentID: id,
		Language:  "en",
		Title:     "Draft Note",
		Contents:  content.ContentMap{"headline": appcontent.TextValue("saved by message")},
		SavedBy:   fx.editor,
	})
	if err != nil {
		t.Fatalf("execute save: %v", err)
	}

	locale, err := fx.svc.GetLocale(ctx, id, "en")
	if err != nil {
		t.Fatalf("get locale: %v", err)
	}
	if locale.DraftVersion != 2 {
		t.Fatalf("expected the save to bump the draft, got %d", locale.DraftVersion)
	}
	if got := locale.DraftContents["headline"].Text; got != "saved by message" {
		t.Fatalf("expected the saved field, got %q", got)
	}
}

func TestSaveContentHandler_RejectsIncompleteMessage(t *testing.T) {
	fx := newCmdFixture(t)
	handler := contentcmd.NewSaveContentHandler(fx.svc, nil)

	err := handler.Execute(context.Background(), contentcmd.SaveContentCommand{
		Language: "en",
		Title:    "No Target",
	})
	if err == nil {
		t.Fatal("a message without a content id must not execute")
	}
}

func TestPublishContentHandler(t *testing.T) {
	ctx := context.Background()
	fx := newCmdFixture(t)
	id := fx.create(t, "Release Note")
	publish := contentcmd.NewPublishContentHandler(fx.svc, nil)

	// The required field is still empty, so publishing is blocked.
	err := publish.Execute(ctx, contentcmd.PublishContentCommand{
		ContentID:   id,
		Language:    "all",
		PublishedBy: fx.editor,
	})
	var blocked *contentcmd.PublishBlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected PublishBlockedError, got %v", err)
	}
	if len(blocked.Problems) == 0 {
		t.Fatal("the blocked error carries the collected problems")
	}

	save := contentcmd.NewSaveContentHandler(fx.svc, nil)
	if err := save.Execute(ctx, contentcmd.SaveContentCommand{
		ContentID: id,
		Language:  "en",
		Title:     "Release Note",
		Contents:  content.ContentMap{"headline": appcontent.TextValue("done")},
		SavedBy:   fx.editor,
	}); err != nil {
		t.Fatalf("execute save: %v", err)
	}
	if err := publish.Execute(ctx, contentcmd.PublishContentCommand{
		ContentID:   id,
		Language:    "all",
		PublishedBy: fx.editor,
	}); err != nil {
		t.Fatalf("execute publish: %v", err)
	}

	published, err := fx.svc.IsPublished(ctx, id)
	if err != nil {
		t.Fatalf("is published: %v", err)
	}
	if !published {
		t.Fatal("expected the aggregate to publish")
	}
}

func TestUnpublishContentHandler(t *testing.T) {
	ctx := context.Background()
	fx := newCmdFixture(t)
	id := fx.create(t, "Withdraw Me")

	save := contentcmd.NewSaveContentHandler(fx.svc, nil)
	if err := save.Execute(ctx, contentcmd.SaveContentCommand{
		ContentID: id,
		Language:  "en",
		Title:     "Withdraw Me",
		Contents:  content.ContentMap{"headline": appcontent.TextValue("out")},
		SavedBy:   fx.editor,
	}); err != nil {
		t.Fatalf("execute save: %v", err)
	}
	publish := contentcmd.NewPublishContentHandler(fx.svc, nil)
	if err := publish.Execute(ctx, contentcmd.PublishContentCommand{ContentID: id, Language: "all", PublishedBy: fx.editor}); err != nil {
		t.Fatalf("execute publish: %v", err)
	}

	unpublish := contentcmd.NewUnpublishContentHandler(fx.svc, nil)
	if err := unpublish.Execute(ctx, contentcmd.UnpublishContentCommand{ContentID: id, UnpublishedBy: fx.editor}); err != nil {
		t.Fatalf("execute unpublish: %v", err)
	}
	if published, _ := fx.svc.IsPublished(ctx, id); published {
		t.Fatal("expected the aggregate to withdraw")
	}
}

func TestMarkTranslationReadyHandler(t *testing.T) {
	ctx := context.Background()
	fx := newCmdFixture(t)
	id := fx.create(t, "Sign Off")
	handler := contentcmd.NewMarkTranslationReadyHandler(fx.svc, nil)

	if err := handler.Execute(ctx, contentcmd.MarkTranslationReadyCommand{
		ContentID: id,
		Language:  "en",
		Ready:     true,
		MarkedBy:  fx.editor,
	}); err != nil {
		t.Fatalf("execute mark ready: %v", err)
	}

	locale, err := fx.svc.GetLocale(ctx, id, "en")
	if err != nil {
		t.Fatalf("get locale: %v", err)
	}
	if !locale.TranslationReady {
		t.Fatal("expected the sign-off to stick")
	}

	if err := handler.Execute(ctx, contentcmd.MarkTranslationReadyCommand{ContentID: id}); err == nil {
		t.Fatal("a message without a language must not execute")
	}
}
