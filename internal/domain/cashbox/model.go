// Package cashbox manages cash register shifts. At most one shift is
// open system-wide; cash payments created while it is open link to it
// and nothing else ever aggregates into its expected balance.
package cashbox

import (
	"context"
	"time"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
	"retailpos/internal/core/types"
)

// ShiftStatus is the lifecycle state of a shift.
type ShiftStatus string

const (
	ShiftOpen   ShiftStatus = "open"
	ShiftClosed ShiftStatus = "closed"
)

// Shift represents one cash register session between opening and
// counting the till. A shift transitions exactly once, open to closed.
type Shift struct {
	entity.BaseEntity

	Status ShiftStatus `db:"status" json:"status"`

	OpenedBy int64     `db:"opened_by" json:"openedBy"`
	OpenedAt time.Time `db:"opened_at" json:"openedAt"`

	ClosedBy *int64     `db:"closed_by" json:"closedBy,omitempty"`
	ClosedAt *time.Time `db:"closed_at" json:"closedAt,omitempty"`

	// OpeningCash is the counted float at open
	OpeningCash types.Money `db:"opening_cash" json:"openingCash"`

	// ClosingCash is the counted cash at close
	ClosingCash types.Money `db:"closing_cash" json:"closingCash"`

	// ExpectedCash = OpeningCash + cash in - cash out, snapshot at close
	ExpectedCash types.Money `db:"expected_cash" json:"expectedCash"`

	// Difference = ClosingCash - ExpectedCash. A nonzero difference is
	// recorded, it never blocks closing.
	Difference types.Money `db:"difference" json:"difference"`

	Notes string `db:"notes" json:"notes,omitempty"`
}

// NewShift opens a new shift for a user.
func NewShift(userID int64, openingCash types.Money) *Shift {
	return &Shift{
		BaseEntity:  entity.NewBaseEntity(),
		Status:      ShiftOpen,
		OpenedBy:    userID,
		OpenedAt:    time.Now().UTC(),
		OpeningCash: openingCash,
	}
}

// Validate implements entity.Validatable.
func (s *Shift) Validate(_ context.Context) error {
	if s.OpenedBy == 0 {
		return apperror.NewValidation("shift requires an opening user").
			WithDetail("field", "openedBy")
	}
	if s.OpeningCash.IsNegative() {
		return apperror.NewValidation("opening cash cannot be negative").
			WithDetail("openingCash", s.OpeningCash.String())
	}
	if s.Status != ShiftOpen && s.Status != ShiftClosed {
		return apperror.NewValidation("unknown shift status").
			WithDetail("status", string(s.Status))
	}
	return nil
}
