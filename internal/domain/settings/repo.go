package settings

import "context"

// Repository stores settings keyed by their unique key.
type Repository interface {
	// Get retrieves one setting by key.
	Get(ctx context.Context, key string) (*Setting, error)

	// GetAll returns every setting.
	GetAll(ctx context.Context) ([]*Setting, error)

	// Upsert inserts the setting or replaces the stored value and type.
	Upsert(ctx context.Context, s *Setting) error

	// SeedDefaults inserts the given settings for keys not present yet.
	SeedDefaults(ctx context.Context, defaults []*Setting) error
}
