package content

import (
	"context"

	"github.com/google/uuid"
)

// Repository abstracts storage operations for template content aggregates and
// their localized records. Implementations must return localized records
// attached to the aggregate on every Get.
type Repository interface {
	Create(ctx context.Context, record *TemplateContent) (*TemplateContent, error)
	GetByID(ctx context.Context, id uuid.UUID) (*TemplateContent, error)
	GetByAssignment(ctx context.Context, appID uuid.UUID, assignment string) (*TemplateContent, error)
	List(ctx context.Context, appID uuid.UUID) ([]*TemplateContent, error)
	Update(ctx context.Context, record *TemplateContent) (*TemplateContent, error)
	Delete(ctx context.Context, id uuid.UUID) error

	CreateRecord(ctx context.Context, record *LocalizedTemplateContent) (*LocalizedTemplateContent, error)
	UpdateRecord(ctx context.Context, record *LocalizedTemplateContent) (*LocalizedTemplateContent, error)
	GetRecordBySlug(ctx context.Context, slug string) (*LocalizedTemplateContent, error)

	// SlugInUse satisfies the slug registry's global uniqueness check.
	SlugInUse(ctx context.Context, slug string) (bool, error)
}
