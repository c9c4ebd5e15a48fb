package variant

import (
	"context"

	"retailpos/internal/core/types"
	"retailpos/internal/domain"
)

// Annotated is a variant joined with its parent model and brand names,
// the shape the search surface returns.
type Annotated struct {
	Variant

	ModelName   string `db:"model_name" json:"modelName"`
	ModelNameAr string `db:"model_name_ar" json:"modelNameAr,omitempty"`
	BrandName   string `db:"brand_name" json:"brandName"`
}

// Repository defines the interface for Variant persistence.
type Repository interface {
	domain.CatalogRepository[*Variant]

	// ListByModel retrieves all variants of a model.
	ListByModel(ctx context.Context, modelID int64) ([]*Variant, error)

	// FindByBarcode retrieves a variant by exact barcode match.
	FindByBarcode(ctx context.Context, barcode string) (*Annotated, error)

	// ListBySKUPrefix retrieves variants whose SKU starts with the prefix
	// (case-insensitive), ordered by SKU.
	ListBySKUPrefix(ctx context.Context, prefix string, limit int) ([]*Annotated, error)

	// ListByModelName retrieves variants whose model name or localized
	// name contains the query (case-insensitive substring).
	ListByModelName(ctx context.Context, query string, limit int) ([]*Annotated, error)

	// ListAllAnnotated retrieves every active variant with parent
	// names, ordered by SKU.
	ListAllAnnotated(ctx context.Context) ([]*Annotated, error)

	// UpdateCost overwrites the weighted-average cost basis.
	// Called only inside the purchase receipt transaction.
	UpdateCost(ctx context.Context, id int64, cost types.Money) error
}
