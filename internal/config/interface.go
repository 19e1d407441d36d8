package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given path and translates it into
	// the format-agnostic model, layering file values over the defaults.
	Load(ctx context.Context, path string) (*Model, error)
}
