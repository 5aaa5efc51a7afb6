package contentcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-appcontent/internal/commands"
	"github.com/goliatone/go-appcontent/internal/content"
	"github.com/goliatone/go-appcontent/pkg/interfaces"
)

const saveContentMessageType = "appcontent.content.save"

// SaveContentCommand persists draft fields of one localized record.
type SaveContentCommand struct {
	ContentID          uuid.UUID          `json:"content_id"`
	Language           string             `json:"language"`
	Title              string             `json:"title"`
	NavLabel           *string            `json:"nav_label,omitempty"`
	Contents           content.ContentMap `json:"contents,omitempty"`
	DisallowNewVersion bool               `json:"disallow_new_version,omitempty"`
	BaseVersion        *int               `json:"base_version,omitempty"`
	SavedBy            uuid.UUID          `json:"saved_by"`
}

// Type implements command.Message.
func (SaveContentCommand) Type() string { return saveContentMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m SaveContentCommand) Validate() error {
	errs := validation.Errors{}
	if m.ContentID == uuid.Nil {
		errs["content_id"] = validation.NewError("appcontent.content.save.content_id_required", "content_id is required")
	}
	if m.Language == "" {
		errs["language"] = validation.NewError("appcontent.content.save.language_required", "language is required")
	}
	if m.Title == "" {
		errs["title"] = validation.NewError("appcontent.content.save.title_required", "title is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SaveContentHandler saves drafts via the content service.
type SaveContentHandler struct {
	inner *commands.Handler[SaveContentCommand]
}

// NewSaveContentHandler constructs a handler wired to the provided content service.
func NewSaveContentHandler(service content.Service, logger interfaces.Logger, opts ...commands.HandlerOption[SaveContentCommand]) *SaveContentHandler {
	exec := func(ctx context.Context, msg SaveContentCommand) error {
		_, err := service.Save(ctx, content.SaveRequest{
			ContentID:          msg.ContentID,
			Language:           msg.Language,
			Title:              msg.Title,
			NavLabel:           msg.NavLabel,
			Contents:           msg.Contents,
			DisallowNewVersion: msg.DisallowNewVersion,
			BaseVersion:        msg.BaseVersion,
			SavedBy:            msg.SavedBy,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[SaveContentCommand]{
		commands.WithLogger[SaveContentCommand](logger),
		commands.WithOperation[SaveContentCommand]("content.save"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SaveContentHandler{
		inner: commands.NewHandler[SaveContentCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SaveContentCommand].Execute.
func (h *SaveContentHandler) Execute(ctx context.Context, msg SaveContentCommand) error {
	return h.inner.Execute(ctx, msg)
}
