// Package model provides the product Model catalog, the middle level of
// the brand - model - variant tree. A model groups sellable variants and
// carries the human-facing product names used in search.
package model

import (
	"context"
	"strings"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
)

// Model represents a product line under a brand (e.g. "Air Zoom 90").
type Model struct {
	entity.BaseCatalog

	BrandID int64 `db:"brand_id" json:"brandId"`

	Name string `db:"name" json:"name"`

	// NameAr is the localized (Arabic) display name, also searchable
	NameAr string `db:"name_ar" json:"nameAr,omitempty"`

	Category string `db:"category" json:"category,omitempty"`

	Description string `db:"description" json:"description,omitempty"`
}

// New creates a new Model under a brand.
func New(brandID int64, name string) *Model {
	return &Model{
		BaseCatalog: entity.NewBaseCatalog(),
		BrandID:     brandID,
		Name:        strings.TrimSpace(name),
	}
}

// Validate implements entity.Validatable.
func (m *Model) Validate(_ context.Context) error {
	if m.BrandID == 0 {
		return apperror.NewValidation("model requires a brand").
			WithDetail("field", "brandId")
	}
	if strings.TrimSpace(m.Name) == "" {
		return apperror.NewValidation("model name is required").
			WithDetail("field", "name")
	}
	return nil
}
