// Package returns provides the return invoice document: plain returns
// against a sale, and exchanges that pair a return with a replacement
// sale in the same atomic operation.
package returns

import (
	"context"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
	"retailpos/internal/core/types"
)

// Kind distinguishes plain returns from exchanges.
type Kind string

const (
	KindReturn   Kind = "return"
	KindExchange Kind = "exchange"
)

// Invoice is a processed return or exchange.
//
// Difference is the net money effect on the customer side:
// exchangeTotal - returnTotal for exchanges, -returnTotal for plain
// returns. Positive means the customer owes more, negative a refund.
type Invoice struct {
	entity.BaseDocument

	OriginalInvoiceID int64  `db:"original_invoice_id" json:"originalInvoiceId"`
	CustomerID        *int64 `db:"customer_id" json:"customerId,omitempty"`

	Type Kind `db:"type" json:"type"`

	ReturnTotal   types.Money `db:"return_total" json:"returnTotal"`
	ExchangeTotal types.Money `db:"exchange_total" json:"exchangeTotal"`
	Difference    types.Money `db:"difference" json:"difference"`

	// ExchangeInvoiceID links the replacement sales invoice, nil for
	// plain returns
	ExchangeInvoiceID *int64 `db:"exchange_invoice_id" json:"exchangeInvoiceId,omitempty"`

	// Items are loaded separately, not a database column
	Items []*Item `db:"-" json:"items,omitempty"`
}

// Item is one returned line, priced at the original sale price.
type Item struct {
	entity.BaseEntity

	ReturnInvoiceID int64 `db:"return_invoice_id" json:"returnInvoiceId"`
	OriginalItemID  int64 `db:"original_item_id" json:"originalItemId"`
	VariantID       int64 `db:"variant_id" json:"variantId"`

	Qty       int64       `db:"qty" json:"qty"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
	LineTotal types.Money `db:"line_total" json:"lineTotal"`
}

// NewInvoice creates a draft return invoice.
func NewInvoice(originalInvoiceID int64, kind Kind) *Invoice {
	return &Invoice{
		BaseDocument:      entity.NewBaseDocument(),
		OriginalInvoiceID: originalInvoiceID,
		Type:              kind,
	}
}

// Validate implements entity.Validatable.
func (inv *Invoice) Validate(_ context.Context) error {
	if inv.OriginalInvoiceID == 0 {
		return apperror.NewValidation("return requires an original invoice").
			WithDetail("field", "originalInvoiceId")
	}
	if inv.Type != KindReturn && inv.Type != KindExchange {
		return apperror.NewValidation("unknown return kind").
			WithDetail("type", string(inv.Type))
	}
	if inv.ReturnTotal.IsNegative() || inv.ExchangeTotal.IsNegative() {
		return apperror.NewValidation("return totals cannot be negative")
	}
	for _, item := range inv.Items {
		if item.Qty <= 0 {
			return apperror.NewValidation("return quantity must be positive").
				WithDetail("originalItemId", item.OriginalItemID)
		}
	}
	return nil
}
