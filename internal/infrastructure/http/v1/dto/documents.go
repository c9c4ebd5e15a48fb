package dto

import (
	"retailpos/internal/core/entity"
	"retailpos/internal/core/types"
	"retailpos/internal/domain/documents/purchase"
	"retailpos/internal/domain/documents/returns"
	"retailpos/internal/domain/documents/sale"
	"retailpos/internal/domain/pricing"
)

// --- Sale ---

type SaleLineRequest struct {
	VariantID    int64       `json:"variantId" binding:"required"`
	Qty          int64       `json:"qty" binding:"required,min=1"`
	UnitPrice    types.Money `json:"unitPrice"`
	LineDiscount types.Money `json:"lineDiscount"`
}

type CreateSaleRequest struct {
	Lines         []SaleLineRequest    `json:"lines" binding:"required"`
	CustomerID    *int64               `json:"customerId"`
	DiscountMode  pricing.DiscountMode `json:"discountMode"`
	DiscountValue types.Money          `json:"discountValue"`
	PaidAmount    types.Money          `json:"paidAmount"`
	PaymentMethod entity.PayMethod     `json:"paymentMethod" binding:"required"`
	Notes         string               `json:"notes"`
}

// ToInput converts the request to the domain checkout input.
func (r CreateSaleRequest) ToInput() sale.CreateInput {
	lines := make([]sale.Line, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = sale.Line{
			VariantID:    l.VariantID,
			Qty:          l.Qty,
			UnitPrice:    l.UnitPrice,
			LineDiscount: l.LineDiscount,
		}
	}
	return sale.CreateInput{
		Lines:         lines,
		CustomerID:    r.CustomerID,
		DiscountMode:  r.DiscountMode,
		DiscountValue: r.DiscountValue,
		PaidAmount:    r.PaidAmount,
		PaymentMethod: r.PaymentMethod,
		Notes:         r.Notes,
	}
}

// --- Purchase ---

type PurchaseLineRequest struct {
	VariantID int64       `json:"variantId" binding:"required"`
	Qty       int64       `json:"qty" binding:"required,min=1"`
	UnitCost  types.Money `json:"unitCost"`
}

type CreatePurchaseRequest struct {
	SupplierID int64                 `json:"supplierId" binding:"required"`
	Lines      []PurchaseLineRequest `json:"lines" binding:"required"`
	Notes      string                `json:"notes"`
}

// ToInput converts the request to the domain receipt input.
func (r CreatePurchaseRequest) ToInput() purchase.CreateInput {
	lines := make([]purchase.Line, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = purchase.Line{
			VariantID: l.VariantID,
			Qty:       l.Qty,
			UnitCost:  l.UnitCost,
		}
	}
	return purchase.CreateInput{
		SupplierID: r.SupplierID,
		Lines:      lines,
		Notes:      r.Notes,
	}
}

// --- Return / Exchange ---

type ReturnLineRequest struct {
	OriginalItemID int64 `json:"originalItemId" binding:"required"`
	Qty            int64 `json:"qty" binding:"required,min=1"`
}

type ExchangeLineRequest struct {
	VariantID int64       `json:"variantId" binding:"required"`
	Qty       int64       `json:"qty" binding:"required,min=1"`
	UnitPrice types.Money `json:"unitPrice"`
}

type ProcessReturnRequest struct {
	InvoiceNumber string                `json:"invoiceNumber" binding:"required"`
	Lines         []ReturnLineRequest   `json:"lines" binding:"required"`
	Exchange      []ExchangeLineRequest `json:"exchange"`
	Notes         string                `json:"notes"`
}

// ToInput converts the request to the domain return input.
func (r ProcessReturnRequest) ToInput() returns.ProcessInput {
	lines := make([]returns.ReturnLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = returns.ReturnLine{OriginalItemID: l.OriginalItemID, Qty: l.Qty}
	}
	var exchange []returns.ExchangeLine
	for _, l := range r.Exchange {
		exchange = append(exchange, returns.ExchangeLine{
			VariantID: l.VariantID,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice,
		})
	}
	return returns.ProcessInput{
		InvoiceNumber: r.InvoiceNumber,
		Lines:         lines,
		Exchange:      exchange,
		Notes:         r.Notes,
	}
}
