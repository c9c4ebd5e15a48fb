// Package variant provides the Variant catalog, the only sellable and
// stockable unit of the product tree. A variant is a concrete
// color+size combination of a model.
package variant

import (
	"context"
	"strings"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
	"retailpos/internal/core/types"
)

// DefaultMinStock is the reorder threshold applied when none is given.
const DefaultMinStock int64 = 5

// Variant represents one sellable color+size combination.
type Variant struct {
	entity.BaseCatalog

	ModelID int64 `db:"model_id" json:"modelId"`

	Color string `db:"color" json:"color,omitempty"`
	Size  string `db:"size" json:"size,omitempty"`

	// SKU is the stock keeping unit. Uniqueness is conventional, not enforced.
	SKU string `db:"sku" json:"sku"`

	// Barcode is optional and used for exact-match fast lookup
	Barcode string `db:"barcode" json:"barcode,omitempty"`

	SalePrice types.Money `db:"sale_price" json:"salePrice"`

	// CostPrice is the running weighted-average cost basis.
	// Written only by the purchase receipt flow, never by hand.
	CostPrice types.Money `db:"cost_price" json:"costPrice"`

	// MinStock is the reorder threshold
	MinStock int64 `db:"min_stock" json:"minStock"`
}

// New creates a new Variant under a model.
func New(modelID int64, sku string) *Variant {
	return &Variant{
		BaseCatalog: entity.NewBaseCatalog(),
		ModelID:     modelID,
		SKU:         strings.TrimSpace(sku),
		MinStock:    DefaultMinStock,
	}
}

// Validate implements entity.Validatable.
func (v *Variant) Validate(_ context.Context) error {
	if v.ModelID == 0 {
		return apperror.NewValidation("variant requires a model").
			WithDetail("field", "modelId")
	}
	if strings.TrimSpace(v.SKU) == "" {
		return apperror.NewValidation("variant SKU is required").
			WithDetail("field", "sku")
	}
	if v.SalePrice.IsNegative() {
		return apperror.NewValidation("sale price cannot be negative").
			WithDetail("salePrice", v.SalePrice.String())
	}
	if v.CostPrice.IsNegative() {
		return apperror.NewValidation("cost price cannot be negative").
			WithDetail("costPrice", v.CostPrice.String())
	}
	if v.MinStock < 0 {
		return apperror.NewValidation("min stock cannot be negative").
			WithDetail("minStock", v.MinStock)
	}
	return nil
}
