package sale

import (
	"context"

	"retailpos/internal/domain"
)

// Repository defines the persistence surface for sales invoices.
type Repository interface {
	// Create inserts the invoice header and assigns its ID.
	Create(ctx context.Context, inv *Invoice) error

	// SaveItems inserts the invoice's items.
	SaveItems(ctx context.Context, invoiceID int64, items []*Item) error

	// GetByID retrieves the invoice header.
	GetByID(ctx context.Context, id int64) (*Invoice, error)

	// GetByNumber retrieves the invoice header by document number.
	GetByNumber(ctx context.Context, number string) (*Invoice, error)

	// GetItems loads the invoice's items.
	GetItems(ctx context.Context, invoiceID int64) ([]*Item, error)

	// AddReturnedQty increments an item's returned quantity.
	AddReturnedQty(ctx context.Context, itemID int64, qty int64) error

	// UpdateStatus transitions the invoice's lifecycle status.
	UpdateStatus(ctx context.Context, invoiceID int64, status string) error

	// List returns invoices newest first.
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Invoice], error)
}
