// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"context"
)

var (
	// nullRegistry hands out loggers that discard every record.
	nullRegistry = NewRegistry(Config{Level: WARNING})
)

// WithContext returns a new context with the provided registry.
func WithContext(ctx context.Context, registry *Registry) context.Context {
	return context.WithValue(ctx, contextKey, registry)
}

// FromContext retrieves the registry from the context. If no registry is found, a registry
// whose loggers discard all records is returned.
func FromContext(ctx context.Context) *Registry {
	if ctx != nil {
		if registry, ok := ctx.Value(contextKey).(*Registry); ok && registry != nil {
			return registry
		}
	}

	return nullRegistry
}

// Unexported new type so that our context key never collides with another.
type contextKeyType struct{}

// contextKey is the key used for the context to store the registry.
var contextKey = contextKeyType{}
