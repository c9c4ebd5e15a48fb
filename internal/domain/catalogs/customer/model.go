// Package customer provides the Customer catalog.
package customer

import (
	"context"
	"strings"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
	"retailpos/internal/core/types"
)

// Customer represents a buyer with an optional running credit balance.
type Customer struct {
	entity.BaseCatalog

	Name  string `db:"name" json:"name"`
	Phone string `db:"phone" json:"phone,omitempty"`
	Email string `db:"email" json:"email,omitempty"`

	Address string `db:"address" json:"address,omitempty"`
	Notes   string `db:"notes" json:"notes,omitempty"`

	// CurrentBalance is the amount the customer owes the store.
	// It is a cache over the party ledger and is written only together
	// with ledger entries, inside the same transaction.
	CurrentBalance types.Money `db:"current_balance" json:"currentBalance"`
}

// New creates a new Customer.
func New(name string) *Customer {
	return &Customer{
		BaseCatalog: entity.NewBaseCatalog(),
		Name:        strings.TrimSpace(name),
	}
}

// Validate implements entity.Validatable.
func (c *Customer) Validate(_ context.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("customer name is required").
			WithDetail("field", "name")
	}
	return nil
}
