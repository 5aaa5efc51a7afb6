package navigation

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeRequired indicates a request without a navigation type.
	ErrTypeRequired = errors.New("navigation: type is required")
	// ErrContentRequired indicates a request without a content id.
	ErrContentRequired = errors.New("navigation: content id is required")
	// ErrTargetRequired indicates an entry with neither a content link nor an
	// external url.
	ErrTargetRequired = errors.New("navigation: entry needs a content link or an external url")
	// ErrTargetConflict indicates an entry targeting both at once.
	ErrTargetConflict = errors.New("navigation: entry cannot link content and an external url at once")
	// ErrCycle indicates a re-parent that would make an entry its own ancestor.
	ErrCycle = errors.New("navigation: entry cannot become its own descendant's child")
	// ErrParentMismatch indicates a parent entry from a different navigation.
	ErrParentMismatch = errors.New("navigation: parent entry belongs to another navigation")
	// ErrLanguageRequired indicates a localized request without a language.
	ErrLanguageRequired = errors.New("navigation: language is required")
	// ErrNameRequired indicates a localized save without a name.
	ErrNameRequired = errors.New("navigation: name is required")
)

// NotFoundError indicates a missing navigation or entry.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
