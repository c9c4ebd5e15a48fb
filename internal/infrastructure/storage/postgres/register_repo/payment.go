package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"retailpos/internal/core/entity"
	"retailpos/internal/infrastructure/storage/postgres"
)

const paymentsTable = "payments"

var paymentCols = postgres.ExtractDBColumns[entity.Payment]()

// PaymentRepo implements the money ledger append surface shared by the
// document lifecycle services and the balance register.
type PaymentRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewPaymentRepo creates a new payment ledger repository.
func NewPaymentRepo(txManager *postgres.TxManager) *PaymentRepo {
	return &PaymentRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append inserts payments as new immutable rows.
func (r *PaymentRepo) Append(ctx context.Context, payments ...*entity.Payment) error {
	if len(payments) == 0 {
		return nil
	}

	columns := []string{
		"line_id", "version", "created_at", "updated_at", "sync_status",
		"date", "direction", "method", "amount",
		"customer_id", "supplier_id", "ref_type", "ref_id",
		"shift_id", "note", "created_by",
	}

	if r.txManager.GetTx(ctx) != nil {
		inserter := postgres.NewBatchInserter(r.txManager)
		rows := make([][]any, len(payments))
		for i, p := range payments {
			rows[i] = []any{
				p.LineID, p.Version, p.CreatedAt, p.UpdatedAt, p.SyncStatus,
				p.Date, p.Direction, p.Method, p.Amount,
				p.CustomerID, p.SupplierID, p.RefType, p.RefID,
				p.ShiftID, p.Note, p.CreatedBy,
			}
		}
		if _, err := inserter.CopyFromSlice(ctx, paymentsTable, columns, rows); err != nil {
			return fmt.Errorf("copy payments: %w", err)
		}
		return nil
	}

	q := r.builder.Insert(paymentsTable).Columns(columns...)
	for _, p := range payments {
		q = q.Values(
			p.LineID, p.Version, p.CreatedAt, p.UpdatedAt, p.SyncStatus,
			p.Date, p.Direction, p.Method, p.Amount,
			p.CustomerID, p.SupplierID, p.RefType, p.RefID,
			p.ShiftID, p.Note, p.CreatedBy,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert payments: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert payments: %w", err)
	}

	return nil
}

// ListByShift returns payments attached to a shift, oldest first.
func (r *PaymentRepo) ListByShift(ctx context.Context, shiftID int64) ([]*entity.Payment, error) {
	q := r.builder.
		Select(paymentCols...).
		From(paymentsTable).
		Where(squirrel.Eq{"shift_id": shiftID}).
		OrderBy("date ASC", "id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var payments []*entity.Payment
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &payments, sql, args...); err != nil {
		return nil, fmt.Errorf("list shift payments: %w", err)
	}

	return payments, nil
}
