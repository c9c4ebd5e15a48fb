package returns

import (
	"context"

	"retailpos/internal/domain"
)

// Repository defines the persistence surface for return invoices.
type Repository interface {
	// Create inserts the return invoice header and assigns its ID.
	Create(ctx context.Context, inv *Invoice) error

	// SaveItems inserts the return's items.
	SaveItems(ctx context.Context, returnInvoiceID int64, items []*Item) error

	// GetByID retrieves the return invoice header.
	GetByID(ctx context.Context, id int64) (*Invoice, error)

	// GetItems loads the return's items.
	GetItems(ctx context.Context, returnInvoiceID int64) ([]*Item, error)

	// List returns invoices newest first.
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Invoice], error)
}
