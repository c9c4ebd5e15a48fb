// Package balance derives customer and supplier running balances from
// the invoice and payment history. The cached balance on the party
// record is a read-through cache; this package can rebuild the full
// statement and assert the cache against it.
package balance

import (
	"context"
	"sort"
	"time"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
	"retailpos/internal/core/tx"
	"retailpos/internal/core/types"
	"retailpos/internal/domain/catalogs/customer"
	"retailpos/internal/domain/catalogs/supplier"
	"retailpos/pkg/logger"
)

// PartyKind selects which side of the ledger a party lives on.
type PartyKind string

const (
	PartyCustomer PartyKind = "customer"
	PartySupplier PartyKind = "supplier"
)

// EntryKind classifies a statement row source.
type EntryKind string

const (
	EntryInvoice EntryKind = "invoice"
	EntryPayment EntryKind = "payment"
)

// Entry is one raw ledger contribution for a party, before folding.
type Entry struct {
	Date      time.Time   `json:"date"`
	Kind      EntryKind   `json:"kind"`
	Reference string      `json:"reference"`
	Amount    types.Money `json:"amount"`
}

// StatementLine is one folded statement row.
type StatementLine struct {
	Date           time.Time   `json:"date"`
	Kind           EntryKind   `json:"kind"`
	Reference      string      `json:"reference"`
	Debit          types.Money `json:"debit"`
	Credit         types.Money `json:"credit"`
	RunningBalance types.Money `json:"runningBalance"`
}

// Repository reads a party's raw ledger contributions.
// Invoice entries carry the credit portion of invoice totals; payment
// entries carry signed payment amounts (refunds are negative).
type Repository interface {
	InvoiceEntries(ctx context.Context, kind PartyKind, partyID int64) ([]Entry, error)
	PaymentEntries(ctx context.Context, kind PartyKind, partyID int64) ([]Entry, error)
}

// PaymentAppender appends rows to the money ledger.
type PaymentAppender interface {
	Append(ctx context.Context, payments ...*entity.Payment) error
}

// ShiftResolver reports the currently open cash shift, if any.
type ShiftResolver interface {
	OpenShiftID(ctx context.Context) (*int64, error)
}

// Service is the balance ledger.
type Service struct {
	repo      Repository
	payments  PaymentAppender
	customers customer.Repository
	suppliers supplier.Repository
	shifts    ShiftResolver
	txManager tx.Manager
}

// NewService creates the balance ledger service.
func NewService(
	repo Repository,
	payments PaymentAppender,
	customers customer.Repository,
	suppliers supplier.Repository,
	shifts ShiftResolver,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		payments:  payments,
		customers: customers,
		suppliers: suppliers,
		shifts:    shifts,
		txManager: txManager,
	}
}

// Statement builds the chronological, balance-folded rendering of a
// party's invoice and payment history. For customers invoices are
// debits and payments credits; for suppliers the reverse. Both
// conventions read as "amount currently owed" from the store's view.
func (s *Service) Statement(ctx context.Context, kind PartyKind, partyID int64) ([]StatementLine, error) {
	invoices, err := s.repo.InvoiceEntries(ctx, kind, partyID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.PaymentEntries(ctx, kind, partyID)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(invoices)+len(payments))
	entries = append(entries, invoices...)
	entries = append(entries, payments...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	lines := make([]StatementLine, len(entries))
	running := types.Zero()
	for i, e := range entries {
		line := StatementLine{
			Date:      e.Date,
			Kind:      e.Kind,
			Reference: e.Reference,
			Debit:     types.Zero(),
			Credit:    types.Zero(),
		}
		// Invoices raise the owed amount, payments settle it. Customers
		// show invoices as debits; suppliers show them as credits. The
		// running balance folds the same way on both sides.
		if e.Kind == EntryInvoice {
			if kind == PartyCustomer {
				line.Debit = e.Amount
			} else {
				line.Credit = e.Amount
			}
			running = running.Add(e.Amount)
		} else {
			if kind == PartyCustomer {
				line.Credit = e.Amount
			} else {
				line.Debit = e.Amount
			}
			running = running.Sub(e.Amount)
		}
		line.RunningBalance = running
		lines[i] = line
	}
	return lines, nil
}

// DerivedBalance returns the final running balance of the statement.
func (s *Service) DerivedBalance(ctx context.Context, kind PartyKind, partyID int64) (types.Money, error) {
	lines, err := s.Statement(ctx, kind, partyID)
	if err != nil {
		return types.Zero(), err
	}
	if len(lines) == 0 {
		return types.Zero(), nil
	}
	return lines[len(lines)-1].RunningBalance, nil
}

// VerifyBalance recomputes the party's balance from the ledger and
// compares it with the cached field. Any drift is a bug in a lifecycle
// writer and is reported, never silently patched.
func (s *Service) VerifyBalance(ctx context.Context, kind PartyKind, partyID int64) (cached, derived types.Money, err error) {
	switch kind {
	case PartyCustomer:
		c, getErr := s.customers.GetByID(ctx, partyID)
		if getErr != nil {
			return types.Zero(), types.Zero(), getErr
		}
		cached = c.CurrentBalance
	case PartySupplier:
		sp, getErr := s.suppliers.GetByID(ctx, partyID)
		if getErr != nil {
			return types.Zero(), types.Zero(), getErr
		}
		cached = sp.CurrentBalance
	default:
		return types.Zero(), types.Zero(), apperror.NewValidation("unknown party kind").
			WithDetail("kind", string(kind))
	}

	derived, err = s.DerivedBalance(ctx, kind, partyID)
	if err != nil {
		return types.Zero(), types.Zero(), err
	}

	if !cached.Equal(derived) {
		logger.Error(ctx, "cached balance drift detected",
			"kind", string(kind),
			"party_id", partyID,
			"cached", cached.String(),
			"derived", derived.String())
	}
	return cached, derived, nil
}

// RecordCustomerPayment registers a standalone payment from a customer
// against their outstanding balance. The ledger row and the cached
// balance move together in one transaction.
func (s *Service) RecordCustomerPayment(ctx context.Context, customerID int64, amount types.Money, method entity.PayMethod, note string) (*entity.Payment, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewValidation("payment amount must be positive").
			WithDetail("amount", amount.String())
	}

	p := entity.NewPayment()
	p.Direction = entity.PayIn
	p.Method = method
	p.Amount = amount
	p.CustomerID = &customerID
	p.RefType = entity.PayRefCustomerPayment
	p.Note = note

	if err := p.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.customers.GetForUpdate(ctx, customerID); err != nil {
			return err
		}
		if err := s.attachShift(ctx, &p); err != nil {
			return err
		}
		if err := s.payments.Append(ctx, &p); err != nil {
			return err
		}
		return s.customers.AdjustBalance(ctx, customerID, amount.Neg())
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "customer payment recorded",
		"customer_id", customerID, "amount", amount.String())
	return &p, nil
}

// RecordSupplierPayment registers a standalone payment to a supplier
// against the store's outstanding debt.
func (s *Service) RecordSupplierPayment(ctx context.Context, supplierID int64, amount types.Money, method entity.PayMethod, note string) (*entity.Payment, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewValidation("payment amount must be positive").
			WithDetail("amount", amount.String())
	}

	p := entity.NewPayment()
	p.Direction = entity.PayOut
	p.Method = method
	p.Amount = amount
	p.SupplierID = &supplierID
	p.RefType = entity.PayRefSupplierPayment
	p.Note = note

	if err := p.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.suppliers.GetForUpdate(ctx, supplierID); err != nil {
			return err
		}
		if err := s.attachShift(ctx, &p); err != nil {
			return err
		}
		if err := s.payments.Append(ctx, &p); err != nil {
			return err
		}
		return s.suppliers.AdjustBalance(ctx, supplierID, amount.Neg())
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "supplier payment recorded",
		"supplier_id", supplierID, "amount", amount.String())
	return &p, nil
}

// attachShift links cash payments to the open shift. Non-cash payments
// never aggregate into shift expectations.
func (s *Service) attachShift(ctx context.Context, p *entity.Payment) error {
	if p.Method != entity.MethodCash {
		return nil
	}
	shiftID, err := s.shifts.OpenShiftID(ctx)
	if err != nil {
		return err
	}
	p.ShiftID = shiftID
	return nil
}
