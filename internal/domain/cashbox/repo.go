package cashbox

import (
	"context"

	"retailpos/internal/core/types"
	"retailpos/internal/domain"
)

// CashFlow is the aggregated cash movement of one shift.
type CashFlow struct {
	In  types.Money
	Out types.Money
}

// Repository defines the persistence surface for shifts.
type Repository interface {
	// Create inserts a new shift and assigns its ID.
	Create(ctx context.Context, shift *Shift) error

	// GetByID retrieves a shift.
	GetByID(ctx context.Context, id int64) (*Shift, error)

	// GetOpen returns the single open shift, or a not-found error.
	// Takes a row lock inside transactions so open/close serialize.
	GetOpen(ctx context.Context) (*Shift, error)

	// Update persists shift mutations (only the open-to-closed transition).
	Update(ctx context.Context, shift *Shift) error

	// List returns shifts newest first.
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Shift], error)

	// SumCash aggregates cash payments linked to the shift by shift_id.
	// Payments without a shift link never count.
	SumCash(ctx context.Context, shiftID int64) (CashFlow, error)
}
