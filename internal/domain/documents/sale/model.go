// Package sale provides the sales invoice document and its lifecycle.
package sale

import (
	"context"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
	"retailpos/internal/core/types"
)

// Invoice is a completed sale. Money aggregates always satisfy
// Total = Subtotal - DiscountAmount + TaxAmount.
type Invoice struct {
	entity.BaseDocument

	// CustomerID is nil for walk-in cash sales
	CustomerID *int64 `db:"customer_id" json:"customerId,omitempty"`

	Subtotal        types.Money `db:"subtotal" json:"subtotal"`
	DiscountAmount  types.Money `db:"discount_amount" json:"discountAmount"`
	DiscountPercent types.Money `db:"discount_percent" json:"discountPercent"`
	TaxAmount       types.Money `db:"tax_amount" json:"taxAmount"`
	Total           types.Money `db:"total" json:"total"`

	PaidAmount    types.Money          `db:"paid_amount" json:"paidAmount"`
	PaymentStatus entity.PaymentStatus `db:"payment_status" json:"paymentStatus"`
	PaymentMethod entity.PayMethod     `db:"payment_method" json:"paymentMethod"`

	// Items are loaded separately, not a database column
	Items []*Item `db:"-" json:"items,omitempty"`
}

// Item is one sold line. It snapshots the variant's cost at sale time
// for margin reporting and accumulates ReturnedQty as returns process
// against it.
type Item struct {
	entity.BaseEntity

	InvoiceID int64 `db:"invoice_id" json:"invoiceId"`
	VariantID int64 `db:"variant_id" json:"variantId"`

	Qty       int64       `db:"qty" json:"qty"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
	LineTotal types.Money `db:"line_total" json:"lineTotal"`

	// UnitCostSnapshot is the variant's weighted-average cost at sale time
	UnitCostSnapshot types.Money `db:"unit_cost_snapshot" json:"unitCostSnapshot"`

	// ReturnedQty accumulates processed returns; never exceeds Qty
	ReturnedQty int64 `db:"returned_qty" json:"returnedQty"`
}

// RemainingQty is how many units can still be returned.
func (i *Item) RemainingQty() int64 {
	return i.Qty - i.ReturnedQty
}

// FullyReturned reports whether nothing remains returnable.
func (i *Item) FullyReturned() bool {
	return i.ReturnedQty >= i.Qty
}

// NewInvoice creates a draft sales invoice.
func NewInvoice() *Invoice {
	return &Invoice{BaseDocument: entity.NewBaseDocument()}
}

// Validate implements entity.Validatable.
func (inv *Invoice) Validate(_ context.Context) error {
	if inv.Total.IsNegative() {
		return apperror.NewValidation("invoice total cannot be negative").
			WithDetail("total", inv.Total.String())
	}
	if inv.PaidAmount.IsNegative() {
		return apperror.NewValidation("paid amount cannot be negative").
			WithDetail("paidAmount", inv.PaidAmount.String())
	}
	check := inv.Subtotal.Sub(inv.DiscountAmount).Add(inv.TaxAmount)
	if !check.Equal(inv.Total) {
		return apperror.NewValidation("invoice money breakdown does not add up").
			WithDetail("subtotal", inv.Subtotal.String()).
			WithDetail("discount", inv.DiscountAmount.String()).
			WithDetail("tax", inv.TaxAmount.String()).
			WithDetail("total", inv.Total.String())
	}
	for _, item := range inv.Items {
		if item.Qty <= 0 {
			return apperror.NewValidation("item quantity must be positive").
				WithDetail("variantId", item.VariantID)
		}
		if item.ReturnedQty < 0 || item.ReturnedQty > item.Qty {
			return apperror.NewValidation("returned quantity out of range").
				WithDetail("variantId", item.VariantID).
				WithDetail("returnedQty", item.ReturnedQty)
		}
	}
	return nil
}
