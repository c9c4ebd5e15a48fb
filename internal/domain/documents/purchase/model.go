// Package purchase provides the purchase invoice document and its
// lifecycle: stock-in moves plus the weighted-average cost recompute.
package purchase

import (
	"context"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
	"retailpos/internal/core/types"
)

// Invoice is a goods receipt from a supplier. Purchases are recorded
// fully on credit; settling the supplier is a separate payment.
type Invoice struct {
	entity.BaseDocument

	SupplierID int64 `db:"supplier_id" json:"supplierId"`

	Subtotal       types.Money `db:"subtotal" json:"subtotal"`
	DiscountAmount types.Money `db:"discount_amount" json:"discountAmount"`
	TaxAmount      types.Money `db:"tax_amount" json:"taxAmount"`
	Total          types.Money `db:"total" json:"total"`

	// Items are loaded separately, not a database column
	Items []*Item `db:"-" json:"items,omitempty"`
}

// Item is one received line.
type Item struct {
	entity.BaseEntity

	InvoiceID int64 `db:"invoice_id" json:"invoiceId"`
	VariantID int64 `db:"variant_id" json:"variantId"`

	Qty      int64       `db:"qty" json:"qty"`
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`

	LineTotal types.Money `db:"line_total" json:"lineTotal"`
}

// NewInvoice creates a draft purchase invoice.
func NewInvoice(supplierID int64) *Invoice {
	return &Invoice{
		BaseDocument: entity.NewBaseDocument(),
		SupplierID:   supplierID,
	}
}

// Validate implements entity.Validatable.
func (inv *Invoice) Validate(_ context.Context) error {
	if inv.SupplierID == 0 {
		return apperror.NewValidation("purchase requires a supplier").
			WithDetail("field", "supplierId")
	}
	if inv.Total.IsNegative() {
		return apperror.NewValidation("invoice total cannot be negative").
			WithDetail("total", inv.Total.String())
	}
	for _, item := range inv.Items {
		if item.Qty <= 0 {
			return apperror.NewValidation("item quantity must be positive").
				WithDetail("variantId", item.VariantID)
		}
		if item.UnitCost.IsNegative() {
			return apperror.NewValidation("unit cost cannot be negative").
				WithDetail("variantId", item.VariantID)
		}
	}
	return nil
}
