package model

import (
	"context"

	"retailpos/internal/domain"
)

// Repository defines the interface for Model persistence.
type Repository interface {
	domain.CatalogRepository[*Model]

	// ListByBrand retrieves all models of a brand.
	ListByBrand(ctx context.Context, brandID int64) ([]*Model, error)
}
