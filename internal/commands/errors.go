package commands

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

const (
	codeMessageInvalid  = "CONTENT_COMMAND_INVALID"
	codeCommandCanceled = "CONTENT_COMMAND_CANCELED"
	codeCommandTimeout  = "CONTENT_COMMAND_TIMEOUT"
	codeContextFailed   = "CONTENT_COMMAND_CONTEXT"
	codeExecutionFailed = "CONTENT_COMMAND_FAILED"
)

// wrap decorates err with a category and text code unless a previous layer
// already did so. Preserving wrapped errors keeps errors.Is/As chains intact
// for callers that match on domain sentinels.
func wrap(err error, category goerrors.Category, message, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, message).WithTextCode(code)
}

func wrapValidationError(err error) error {
	return wrap(err, goerrors.CategoryValidation, "content command rejected by validation", codeMessageInvalid)
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case goerrors.IsWrapped(err):
		return err
	case err == context.Canceled:
		return wrap(err, goerrors.CategoryCommand, "content command canceled", codeCommandCanceled)
	case err == context.DeadlineExceeded:
		return wrap(err, goerrors.CategoryCommand, "content command deadline exceeded", codeCommandTimeout)
	default:
		return wrap(err, goerrors.CategoryCommand, "content command context failure", codeContextFailed)
	}
}

func wrapExecuteError(err error) error {
	return wrap(err, goerrors.CategoryCommand, "content command execution failed", codeExecutionFailed)
}
