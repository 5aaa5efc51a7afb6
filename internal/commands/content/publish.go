package contentcmd

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-appcontent/internal/commands"
	"github.com/goliatone/go-appcontent/internal/content"
	"github.com/goliatone/go-appcontent/pkg/interfaces"
)

const (
	publishContentMessageType   = "appcontent.content.publish"
	unpublishContentMessageType = "appcontent.content.unpublish"
)

// PublishBlockedError carries the aggregated precondition problems that kept
// languages from publishing.
type PublishBlockedError struct {
	Problems []string
}

func (e *PublishBlockedError) Error() string {
	return fmt.Sprintf("publish blocked: %s", strings.Join(e.Problems, "; "))
}

// PublishContentCommand requests release of one language or of every
// configured language (empty or "all").
type PublishContentCommand struct {
	ContentID   uuid.UUID `json:"content_id"`
	Language    string    `json:"language,omitempty"`
	PublishedBy uuid.UUID `json:"published_by"`
}

// Type implements command.Message.
func (PublishContentCommand) Type() string { return publishContentMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m PublishContentCommand) Validate() error {
	errs := validation.Errors{}
	if m.ContentID == uuid.Nil {
		errs["content_id"] = validation.NewError("appcontent.content.publish.content_id_required", "content_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PublishContentHandler publishes content via the content service. When any
// targeted language is blocked, the handler fails with PublishBlockedError so
// dispatch callers see the full problem list.
type PublishContentHandler struct {
	inner *commands.Handler[PublishContentCommand]
}

// NewPublishContentHandler constructs a handler wired to the provided content service.
func NewPublishContentHandler(service content.Service, logger interfaces.Logger, opts ...commands.HandlerOption[PublishContentCommand]) *PublishContentHandler {
	exec := func(ctx context.Context, msg PublishContentCommand) error {
		problems, err := service.Publish(ctx, content.PublishRequest{
			ContentID:   msg.ContentID,
			Language:    msg.Language,
			PublishedBy: msg.PublishedBy,
		})
		if err != nil {
			return err
		}
		if len(problems) > 0 {
			return &PublishBlockedError{Problems: problems}
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[PublishContentCommand]{
		commands.WithLogger[PublishContentCommand](logger),
		commands.WithOperation[PublishContentCommand]("content.publish"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PublishContentHandler{
		inner: commands.NewHandler[PublishContentCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[PublishContentCommand].Execute.
func (h *PublishContentHandler) Execute(ctx context.Context, msg PublishContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// UnpublishContentCommand withdraws every language of an aggregate.
type UnpublishContentCommand struct {
	ContentID     uuid.UUID `json:"content_id"`
	UnpublishedBy uuid.UUID `json:"unpublished_by"`
}

// Type implements command.Message.
func (UnpublishContentCommand) Type() string { return unpublishContentMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m UnpublishContentCommand) Validate() error {
	errs := validation.Errors{}
	if m.ContentID == uuid.Nil {
		errs["content_id"] = validation.NewError("appcontent.content.unpublish.content_id_required", "content_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UnpublishContentHandler withdraws content via the content service.
type UnpublishContentHandler struct {
	inner *commands.Handler[UnpublishContentCommand]
}

// NewUnpublishContentHandler constructs a handler wired to the provided content service.
func NewUnpublishContentHandler(service content.Service, logger interfaces.Logger, opts ...commands.HandlerOption[UnpublishContentCommand]) *UnpublishContentHandler {
	exec := func(ctx context.Context, msg UnpublishContentCommand) error {
		return service.Unpublish(ctx, msg.ContentID)
	}

	handlerOpts := []commands.HandlerOption[UnpublishContentCommand]{
		commands.WithLogger[UnpublishContentCommand](logger),
		commands.WithOperation[UnpublishContentCommand]("content.unpublish"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &UnpublishContentHandler{
		inner: commands.NewHandler[UnpublishContentCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[UnpublishContentCommand].Execute.
func (h *UnpublishContentHandler) Execute(ctx context.Context, msg UnpublishContentCommand) error {
	return h.inner.Execute(ctx, msg)
}
