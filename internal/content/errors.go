package content

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrContentIDRequired    = errors.New("content: content id required")
	ErrTemplateRequired     = errors.New("content: template name is required")
	ErrTitleRequired        = errors.New("content: title is required")
	ErrLanguageRequired     = errors.New("content: language is required")
	ErrTemplateUnknown      = errors.New("content: template not found")
	ErrDuplicateAssignment  = errors.New("content: assignment already used within the app")
	ErrLocaleExists         = errors.New("content: language already configured")
	ErrLocaleNotFound       = errors.New("content: language not configured")
	ErrStaleWrite           = errors.New("content: draft was modified by another editor")
	ErrStructuralChange     = errors.New("content: template binding cannot change after creation")
	ErrFieldNotRepeatable   = errors.New("content: field does not allow multiple entries")
	ErrComponentLimit       = errors.New("content: component entry limit reached")
	ErrComponentNotFound    = errors.New("content: component entry not found")
	ErrSlugExists           = errors.New("content: slug already exists")
	ErrNotPublished         = errors.New("content: no published snapshot")
	ErrPreviewTokenMismatch = errors.New("content: preview token mismatch")
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// ValidationError reports field-level problems with a submitted content map.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "content: validation failed"
	}
	return "content: " + strings.Join(e.Issues, "; ")
}

// IsNotFound reports whether err is a repository not-found error.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
