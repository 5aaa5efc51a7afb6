package contentcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-appcontent/internal/commands"
	"github.com/goliatone/go-appcontent/internal/content"
	"github.com/goliatone/go-appcontent/pkg/interfaces"
)

const markTranslationReadyMessageType = "appcontent.content.mark_translation_ready"

// MarkTranslationReadyCommand toggles the translator sign-off of one language.
type MarkTranslationReadyCommand struct {
	ContentID uuid.UUID `json:"content_id"`
	Language  string    `json:"language"`
	Ready     bool      `json:"ready"`
	MarkedBy  uuid.UUID `json:"marked_by"`
}

// Type implements command.Message.
func (MarkTranslationReadyCommand) Type() string { return markTranslationReadyMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m MarkTranslationReadyCommand) Validate() error {
	errs := validation.Errors{}
	if m.ContentID == uuid.Nil {
		errs["content_id"] = validation.NewError("appcontent.content.mark_ready.content_id_required", "content_id is required")
	}
	if m.Language == "" {
		errs["language"] = validation.NewError("appcontent.content.mark_ready.language_required", "language is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// MarkTranslationReadyHandler toggles readiness via the content service.
type MarkTranslationReadyHandler struct {
	inner *commands.Handler[MarkTranslationReadyCommand]
}

// NewMarkTranslationReadyHandler constructs a handler wired to the provided content service.
func NewMarkTranslationReadyHandler(service content.Service, logger interfaces.Logger, opts ...commands.HandlerOption[MarkTranslationReadyCommand]) *MarkTranslationReadyHandler {
	exec := func(ctx context.Context, msg MarkTranslationReadyCommand) error {
		_, err := service.MarkTranslationReady(ctx, msg.ContentID, msg.Language, msg.Ready)
		return err
	}

	handlerOpts := []commands.HandlerOption[MarkTranslationReadyCommand]{
		commands.WithLogger[MarkTranslationReadyCommand](logger),
		commands.WithOperation[MarkTranslationReadyCommand]("content.mark_translation_ready"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &MarkTranslationReadyHandler{
		inner: commands.NewHandler[MarkTranslationReadyCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[MarkTranslationReadyCommand].Execute.
func (h *MarkTranslationReadyHandler) Execute(ctx context.Context, msg MarkTranslationReadyCommand) error {
	return h.inner.Execute(ctx, msg)
}
