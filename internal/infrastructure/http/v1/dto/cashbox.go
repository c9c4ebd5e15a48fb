package dto

import (
	"retailpos/internal/core/entity"
	"retailpos/internal/core/types"
)

// OpenShiftRequest opens the cash drawer for a shift.
type OpenShiftRequest struct {
	OpeningCash types.Money `json:"openingCash"`
}

// CloseShiftRequest closes the open shift with a counted amount.
type CloseShiftRequest struct {
	ClosingCash types.Money `json:"closingCash"`
	Notes       string      `json:"notes"`
}

// CashMovementRequest records a manual till expense or income.
type CashMovementRequest struct {
	Direction entity.PayDirection `json:"direction" binding:"required"`
	Amount    types.Money         `json:"amount" binding:"required"`
	Note      string              `json:"note"`
}

// RecordPaymentRequest settles part of a party's balance.
type RecordPaymentRequest struct {
	Amount types.Money      `json:"amount" binding:"required"`
	Method entity.PayMethod `json:"method" binding:"required"`
	Note   string           `json:"note"`
}

// AdjustStockRequest posts a manual stock correction.
type AdjustStockRequest struct {
	VariantID int64       `json:"variantId" binding:"required"`
	Delta     int64       `json:"delta" binding:"required"`
	UnitCost  types.Money `json:"unitCost"`
	Note      string      `json:"note"`
}

// OpeningStockRequest posts an opening stock balance.
type OpeningStockRequest struct {
	VariantID int64       `json:"variantId" binding:"required"`
	Qty       int64       `json:"qty" binding:"required,min=1"`
	UnitCost  types.Money `json:"unitCost"`
}
