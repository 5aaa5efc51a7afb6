package logging

import (
	"context"
	"maps"

	"github.com/goliatone/go-appcontent/pkg/interfaces"
)

type noop struct{}

func (noop) Trace(string, ...any) {}
func (noop) Debug(string, ...any) {}
func (noop) Info(string, ...any)  {}
func (noop) Warn(string, ...any)  {}
func (noop) Error(string, ...any) {}
func (noop) Fatal(string, ...any) {}

func (n noop) WithContext(context.Context) interfaces.Logger { return n }

// NoOp returns a logger that discards every entry. Services default to it so
// logging stays optional.
func NoOp() interfaces.Logger { return noop{} }

// Ensure returns a usable logger, defaulting to the no-op logger when nil.
func Ensure(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return NoOp()
	}
	return logger
}

// ModuleLogger resolves a named child logger from the provider, falling back
// to the no-op logger, and tags entries with the module name when supported.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = "appcontent"
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{"module": module})
}

// WithFields attaches structured fields to a logger when the implementation
// supports the optional FieldsLogger extension. Callers can pass nil or an
// empty map to skip allocation safely.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}

	return logger
}
