package entity

import (
	"context"
	"time"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/id"
	"retailpos/internal/core/types"
)

// MoveRef identifies the kind of event that produced a stock move.
// The set is closed; every consumer that switches on it must handle
// all values.
type MoveRef string

const (
	MoveRefSale           MoveRef = "sale"
	MoveRefSaleReturn     MoveRef = "sale_return"
	MoveRefPurchase       MoveRef = "purchase"
	MoveRefPurchaseReturn MoveRef = "purchase_return"
	MoveRefAdjustment     MoveRef = "adjustment"
	MoveRefTransfer       MoveRef = "transfer"
	MoveRefOpening        MoveRef = "opening"
)

// ValidMoveRef reports whether r is a known stock move reference kind.
func ValidMoveRef(r MoveRef) bool {
	switch r {
	case MoveRefSale, MoveRefSaleReturn, MoveRefPurchase,
		MoveRefPurchaseReturn, MoveRefAdjustment, MoveRefTransfer, MoveRefOpening:
		return true
	}
	return false
}

// StockMove is one append-only row of the stock ledger. Exactly one of
// QtyIn/QtyOut is positive. Current stock is always SUM(qty_in - qty_out)
// over the variant's rows; nothing else is authoritative.
type StockMove struct {
	BaseEntity

	// LineID is a globally unique line identifier, assigned at creation
	LineID id.Line `db:"line_id" json:"lineId"`

	Date      time.Time `db:"date" json:"date"`
	VariantID int64     `db:"variant_id" json:"variantId"`

	QtyIn  int64 `db:"qty_in" json:"qtyIn"`
	QtyOut int64 `db:"qty_out" json:"qtyOut"`

	// UnitCost is the per-unit cost snapshot at the time of the move
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`

	// RefType and RefID point to the originating document
	RefType MoveRef `db:"ref_type" json:"refType"`
	RefID   int64   `db:"ref_id" json:"refId"`

	Note      string `db:"note" json:"note,omitempty"`
	CreatedBy *int64 `db:"created_by" json:"createdBy,omitempty"`
}

// NewStockMove creates a move dated now with a fresh line ID.
func NewStockMove() StockMove {
	return StockMove{
		BaseEntity: NewBaseEntity(),
		LineID:     id.NewLine(),
		Date:       time.Now().UTC(),
	}
}

// SignedQty returns the net effect of the move on stock.
func (m *StockMove) SignedQty() int64 {
	return m.QtyIn - m.QtyOut
}

// Validate checks stock move invariants.
func (m *StockMove) Validate(_ context.Context) error {
	if m.VariantID == 0 {
		return apperror.NewValidation("stock move requires variant").
			WithDetail("field", "variantId")
	}
	if !ValidMoveRef(m.RefType) {
		return apperror.NewValidation("unknown stock move reference type").
			WithDetail("refType", string(m.RefType))
	}
	if m.QtyIn < 0 || m.QtyOut < 0 {
		return apperror.NewValidation("stock move quantities must be non-negative").
			WithDetail("qtyIn", m.QtyIn).
			WithDetail("qtyOut", m.QtyOut)
	}
	if (m.QtyIn == 0) == (m.QtyOut == 0) {
		return apperror.NewValidation("stock move must be either inbound or outbound").
			WithDetail("qtyIn", m.QtyIn).
			WithDetail("qtyOut", m.QtyOut)
	}
	if m.UnitCost.IsNegative() {
		return apperror.NewValidation("unit cost cannot be negative").
			WithDetail("unitCost", m.UnitCost.String())
	}
	return nil
}

// PayRef identifies the kind of event that produced a payment row.
type PayRef string

const (
	PayRefSale            PayRef = "sale"
	PayRefSaleReturn      PayRef = "sale_return"
	PayRefPurchase        PayRef = "purchase"
	PayRefPurchaseReturn  PayRef = "purchase_return"
	PayRefCustomerPayment PayRef = "customer_payment"
	PayRefSupplierPayment PayRef = "supplier_payment"
	PayRefExpense         PayRef = "expense"
	PayRefIncome          PayRef = "income"
)

// ValidPayRef reports whether r is a known payment reference kind.
func ValidPayRef(r PayRef) bool {
	switch r {
	case PayRefSale, PayRefSaleReturn, PayRefPurchase, PayRefPurchaseReturn,
		PayRefCustomerPayment, PayRefSupplierPayment, PayRefExpense, PayRefIncome:
		return true
	}
	return false
}

// PayDirection tells whether money enters or leaves the till.
type PayDirection string

const (
	PayIn  PayDirection = "in"
	PayOut PayDirection = "out"
)

// PayMethod is the settlement instrument of a payment.
type PayMethod string

const (
	MethodCash     PayMethod = "cash"
	MethodCard     PayMethod = "card"
	MethodTransfer PayMethod = "transfer"
	MethodCredit   PayMethod = "credit"
)

// ValidPayMethod reports whether m is a known payment method.
func ValidPayMethod(m PayMethod) bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer, MethodCredit:
		return true
	}
	return false
}

// Payment is one append-only row of the money ledger. Amount is always
// positive; Direction carries the sign. Cash payments created while a
// shift is open carry that shift's ID and nothing else ever aggregates
// into the shift.
type Payment struct {
	BaseEntity

	LineID id.Line `db:"line_id" json:"lineId"`

	Date      time.Time    `db:"date" json:"date"`
	Direction PayDirection `db:"direction" json:"direction"`
	Method    PayMethod    `db:"method" json:"method"`
	Amount    types.Money  `db:"amount" json:"amount"`

	// Counterparty links, at most one of the two is set
	CustomerID *int64 `db:"customer_id" json:"customerId,omitempty"`
	SupplierID *int64 `db:"supplier_id" json:"supplierId,omitempty"`

	RefType PayRef `db:"ref_type" json:"refType"`
	RefID   int64  `db:"ref_id" json:"refId"`

	// ShiftID is set iff the payment was registered during an open cash shift
	ShiftID *int64 `db:"shift_id" json:"shiftId,omitempty"`

	Note      string `db:"note" json:"note,omitempty"`
	CreatedBy *int64 `db:"created_by" json:"createdBy,omitempty"`
}

// NewPayment creates a payment dated now with a fresh line ID.
func NewPayment() Payment {
	return Payment{
		BaseEntity: NewBaseEntity(),
		LineID:     id.NewLine(),
		Date:       time.Now().UTC(),
	}
}

// SignedAmount returns the amount with the direction applied.
func (p *Payment) SignedAmount() types.Money {
	if p.Direction == PayOut {
		return p.Amount.Neg()
	}
	return p.Amount
}

// Validate checks payment invariants.
func (p *Payment) Validate(_ context.Context) error {
	if p.Direction != PayIn && p.Direction != PayOut {
		return apperror.NewValidation("payment direction must be in or out").
			WithDetail("direction", string(p.Direction))
	}
	if !ValidPayMethod(p.Method) {
		return apperror.NewValidation("unknown payment method").
			WithDetail("method", string(p.Method))
	}
	if !ValidPayRef(p.RefType) {
		return apperror.NewValidation("unknown payment reference type").
			WithDetail("refType", string(p.RefType))
	}
	if !p.Amount.IsPositive() {
		return apperror.NewValidation("payment amount must be positive").
			WithDetail("amount", p.Amount.String())
	}
	if p.CustomerID != nil && p.SupplierID != nil {
		return apperror.NewValidation("payment cannot reference both customer and supplier")
	}
	return nil
}
