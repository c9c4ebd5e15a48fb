package register_repo

import (
	"context"
	"fmt"
	"time"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
	"retailpos/internal/core/types"
	"retailpos/internal/domain/registers/balance"
	"retailpos/internal/infrastructure/storage/postgres"
)

// BalanceRepo reads raw ledger contributions for party statements.
//
// Invoice entries carry the credit portion of each document so the
// statement fold lands exactly on the cached balance field:
//
//   - sales invoices contribute total - paid_amount, except invoices
//     created as the exchange side of a return, whose effect is already
//     inside the return's difference;
//   - return invoices contribute their signed difference;
//   - purchase invoices contribute their full total, settled later.
//
// Payment entries are restricted to manual settlements
// (customer_payment / supplier_payment). Document-attached payments
// never move the balance, so including them would double count.
type BalanceRepo struct {
	txManager *postgres.TxManager
}

// NewBalanceRepo creates a new balance statement repository.
func NewBalanceRepo(txManager *postgres.TxManager) *BalanceRepo {
	return &BalanceRepo{txManager: txManager}
}

// InvoiceEntries returns the party's document contributions, unordered.
func (r *BalanceRepo) InvoiceEntries(ctx context.Context, kind balance.PartyKind, partyID int64) ([]balance.Entry, error) {
	switch kind {
	case balance.PartyCustomer:
		return r.customerInvoiceEntries(ctx, partyID)
	case balance.PartySupplier:
		return r.supplierInvoiceEntries(ctx, partyID)
	default:
		return nil, apperror.NewValidation("unknown party kind").
			WithDetail("kind", string(kind))
	}
}

func (r *BalanceRepo) customerInvoiceEntries(ctx context.Context, customerID int64) ([]balance.Entry, error) {
	// Exchange invoices are excluded from the sales side because the
	// return row already carries their net effect as the difference.
	sql := `
		SELECT date, number, total - paid_amount AS amount
		FROM sales_invoices
		WHERE customer_id = $1
		  AND id NOT IN (
			SELECT exchange_invoice_id FROM return_invoices
			WHERE exchange_invoice_id IS NOT NULL
		  )
		UNION ALL
		SELECT date, number, difference AS amount
		FROM return_invoices
		WHERE customer_id = $1`

	return r.scanEntries(ctx, balance.EntryInvoice, sql, customerID)
}

func (r *BalanceRepo) supplierInvoiceEntries(ctx context.Context, supplierID int64) ([]balance.Entry, error) {
	sql := `
		SELECT date, number, total AS amount
		FROM purchase_invoices
		WHERE supplier_id = $1`

	return r.scanEntries(ctx, balance.EntryInvoice, sql, supplierID)
}

// PaymentEntries returns the party's manual settlement rows, signed by
// direction: money received is positive, money paid out is negative.
func (r *BalanceRepo) PaymentEntries(ctx context.Context, kind balance.PartyKind, partyID int64) ([]balance.Entry, error) {
	var sql string
	switch kind {
	case balance.PartyCustomer:
		sql = `
			SELECT date,
			       COALESCE(NULLIF(note, ''), 'payment') AS reference,
			       CASE WHEN direction = 'in' THEN amount ELSE -amount END AS amount
			FROM payments
			WHERE customer_id = $1 AND ref_type = $2`
		return r.scanEntries(ctx, balance.EntryPayment, sql, partyID, entity.PayRefCustomerPayment)
	case balance.PartySupplier:
		sql = `
			SELECT date,
			       COALESCE(NULLIF(note, ''), 'payment') AS reference,
			       CASE WHEN direction = 'out' THEN amount ELSE -amount END AS amount
			FROM payments
			WHERE supplier_id = $1 AND ref_type = $2`
		return r.scanEntries(ctx, balance.EntryPayment, sql, partyID, entity.PayRefSupplierPayment)
	default:
		return nil, apperror.NewValidation("unknown party kind").
			WithDetail("kind", string(kind))
	}
}

func (r *BalanceRepo) scanEntries(ctx context.Context, kind balance.EntryKind, sql string, args ...any) ([]balance.Entry, error) {
	rows, err := r.txManager.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s entries: %w", kind, err)
	}
	defer rows.Close()

	var entries []balance.Entry
	for rows.Next() {
		var (
			date      time.Time
			reference string
			amount    types.Money
		)
		if err := rows.Scan(&date, &reference, &amount); err != nil {
			return nil, fmt.Errorf("scan %s entry: %w", kind, err)
		}
		entries = append(entries, balance.Entry{
			Date:      date,
			Kind:      kind,
			Reference: reference,
			Amount:    amount,
		})
	}

	return entries, rows.Err()
}
