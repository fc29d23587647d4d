package ai

import "context"

// Completer turns a single user prompt into a model response. The call is
// stateless: prior conversation turns are never replayed to the model.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Provider is a named, configurable completion backend
type Provider interface {
	Completer

	// Name returns the provider identifier
	Name() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool
}
