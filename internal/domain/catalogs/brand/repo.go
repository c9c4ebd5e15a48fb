package brand

import (
	"context"

	"retailpos/internal/domain"
)

// Repository defines the interface for Brand persistence.
type Repository interface {
	domain.CatalogRepository[*Brand]

	// FindByName retrieves a brand by exact name (case-insensitive).
	FindByName(ctx context.Context, name string) (*Brand, error)
}
