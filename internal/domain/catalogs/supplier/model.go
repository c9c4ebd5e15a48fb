// Package supplier provides the Supplier catalog.
package supplier

import (
	"context"
	"strings"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
	"retailpos/internal/core/types"
)

// Supplier represents a vendor the store purchases from.
type Supplier struct {
	entity.BaseCatalog

	Name  string `db:"name" json:"name"`
	Phone string `db:"phone" json:"phone,omitempty"`
	Email string `db:"email" json:"email,omitempty"`

	ContactPerson string `db:"contact_person" json:"contactPerson,omitempty"`
	Address       string `db:"address" json:"address,omitempty"`
	Notes         string `db:"notes" json:"notes,omitempty"`

	// CurrentBalance is the amount the store owes the supplier.
	// Cache over the party ledger, written only together with ledger
	// entries inside the same transaction.
	CurrentBalance types.Money `db:"current_balance" json:"currentBalance"`
}

// New creates a new Supplier.
func New(name string) *Supplier {
	return &Supplier{
		BaseCatalog: entity.NewBaseCatalog(),
		Name:        strings.TrimSpace(name),
	}
}

// Validate implements entity.Validatable.
func (s *Supplier) Validate(_ context.Context) error {
	if strings.TrimSpace(s.Name) == "" {
		return apperror.NewValidation("supplier name is required").
			WithDetail("field", "name")
	}
	return nil
}
