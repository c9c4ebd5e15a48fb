package supplier

import (
	"context"

	"retailpos/internal/core/types"
	"retailpos/internal/domain"
)

// Repository defines the interface for Supplier persistence.
type Repository interface {
	domain.CatalogRepository[*Supplier]

	// GetForUpdate retrieves a supplier with a row lock.
	GetForUpdate(ctx context.Context, id int64) (*Supplier, error)

	// AdjustBalance atomically adds delta (may be negative) to the
	// cached balance. Called only inside lifecycle transactions that
	// append the matching ledger rows.
	AdjustBalance(ctx context.Context, id int64, delta types.Money) error
}
