package events

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/google/uuid"
)

const primaryDraftChangedType = "appcontent.content.primary_draft_changed"

// PrimaryDraftChanged announces that the primary-language draft of a content
// aggregate was saved. Handlers reset sibling translation readiness; keeping
// the fan-out as an explicit event keeps the invariant auditable instead of a
// side effect buried in the save path.
type PrimaryDraftChanged struct {
	ContentID uuid.UUID `json:"content_id"`
	Language  string    `json:"language"`
	SavedBy   uuid.UUID `json:"saved_by,omitempty"`
}

// Type implements command.Message.
func (PrimaryDraftChanged) Type() string { return primaryDraftChangedType }

// Validate ensures the event carries its required fields.
func (e PrimaryDraftChanged) Validate() error {
	errs := validation.Errors{}
	if e.ContentID == uuid.Nil {
		errs["content_id"] = validation.NewError("appcontent.events.content_id_required", "content_id is required")
	}
	if e.Language == "" {
		errs["language"] = validation.NewError("appcontent.events.language_required", "language is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Publish dispatches the event through the in-process command dispatcher.
func Publish(ctx context.Context, event PrimaryDraftChanged) error {
	return dispatcher.Dispatch(ctx, event)
}

// Subscription detaches a previously registered handler.
type Subscription interface {
	Unsubscribe()
}

type handlerFunc struct {
	fn func(ctx context.Context, event PrimaryDraftChanged) error
}

func (h handlerFunc) Execute(ctx context.Context, event PrimaryDraftChanged) error {
	return h.fn(ctx, event)
}

// SubscribePrimaryDraftChanged registers a handler for the event.
func SubscribePrimaryDraftChanged(fn func(ctx context.Context, event PrimaryDraftChanged) error) Subscription {
	return dispatcher.SubscribeCommand(handlerFunc{fn: fn})
}
