// Package brand provides the Brand catalog, the top level of the
// brand - model - variant product tree.
package brand

import (
	"context"
	"strings"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
)

// Brand represents a product manufacturer or label.
type Brand struct {
	entity.BaseCatalog

	Name string `db:"name" json:"name"`

	// Country of origin, informational only
	Country string `db:"country" json:"country,omitempty"`
}

// New creates a new Brand.
func New(name string) *Brand {
	return &Brand{
		BaseCatalog: entity.NewBaseCatalog(),
		Name:        strings.TrimSpace(name),
	}
}

// Validate implements entity.Validatable.
func (b *Brand) Validate(_ context.Context) error {
	if strings.TrimSpace(b.Name) == "" {
		return apperror.NewValidation("brand name is required").
			WithDetail("field", "name")
	}
	return nil
}
