package flags

import "errors"

var (
	// ErrFlagRequired indicates an assignment without a flag name.
	ErrFlagRequired = errors.New("flags: flag name is required")
	// ErrContentRequired indicates an assignment without a content id.
	ErrContentRequired = errors.New("flags: content id is required")
	// ErrNotAssigned indicates the content does not carry the flag.
	ErrNotAssigned = errors.New("flags: content is not assigned to flag")
)
