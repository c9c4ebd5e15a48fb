package entity

import (
	"time"

	"retailpos/internal/core/types"
)

// DocumentStatus is the lifecycle state of an invoice document.
type DocumentStatus string

const (
	// StatusDraft - document saved but not posted, no ledger effects
	StatusDraft DocumentStatus = "draft"
	// StatusCompleted - document posted, ledger rows written
	StatusCompleted DocumentStatus = "completed"
	// StatusCancelled - document voided before posting
	StatusCancelled DocumentStatus = "cancelled"
	// StatusReturned - every line of the document has been fully returned
	StatusReturned DocumentStatus = "returned"
)

// PaymentStatus is derived from amounts, never stored as free input.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// DerivePaymentStatus classifies paid against total.
// paid <= 0 is unpaid, paid >= total is paid, anything between is partial.
func DerivePaymentStatus(paid, total types.Money) PaymentStatus {
	switch {
	case paid.LessThanOrEqual(types.Zero()):
		return PaymentUnpaid
	case paid.GreaterThanOrEqual(total):
		return PaymentPaid
	default:
		return PaymentPartial
	}
}

// BaseDocument contains common fields for invoice documents
// (sales, purchases, returns). A document records an event at a point in
// time; once completed it is immutable and corrected only by reversal
// documents.
type BaseDocument struct {
	BaseEntity

	// Number is the human-facing document number, assigned on completion
	Number string `db:"number" json:"number"`

	// Date of the business event (may differ from CreatedAt)
	Date time.Time `db:"date" json:"date"`

	// Status is the lifecycle state
	Status DocumentStatus `db:"status" json:"status"`

	// Notes - free-form comment
	Notes string `db:"notes" json:"notes,omitempty"`

	// CreatedBy references the user who created the document (nil for seed/import)
	CreatedBy *int64 `db:"created_by" json:"createdBy,omitempty"`
}

// NewBaseDocument creates a draft document dated now.
func NewBaseDocument() BaseDocument {
	return BaseDocument{
		BaseEntity: NewBaseEntity(),
		Date:       time.Now().UTC(),
		Status:     StatusDraft,
	}
}

// IsCompleted reports whether the document has been posted.
func (d *BaseDocument) IsCompleted() bool {
	return d.Status == StatusCompleted
}

// IsReturned reports whether the document has been fully returned.
func (d *BaseDocument) IsReturned() bool {
	return d.Status == StatusReturned
}
