package customer

import (
	"context"

	"retailpos/internal/core/types"
	"retailpos/internal/domain"
)

// Repository defines the interface for Customer persistence.
type Repository interface {
	domain.CatalogRepository[*Customer]

	// GetForUpdate retrieves a customer with a row lock, for balance
	// adjustments inside lifecycle transactions.
	GetForUpdate(ctx context.Context, id int64) (*Customer, error)

	// AdjustBalance atomically adds delta (may be negative) to the
	// cached balance. Called only inside lifecycle transactions that
	// append the matching ledger rows.
	AdjustBalance(ctx context.Context, id int64, delta types.Money) error
}
