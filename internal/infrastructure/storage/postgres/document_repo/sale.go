package document_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"retailpos/internal/core/apperror"
	"retailpos/internal/domain/documents/sale"
	"retailpos/internal/infrastructure/storage/postgres"
)

const (
	salesTable     = "sales_invoices"
	saleItemsTable = "sales_items"
)

var saleItemCols = []string{
	"version", "created_at", "updated_at", "sync_status",
	"invoice_id", "variant_id", "qty", "unit_price", "line_total",
	"unit_cost_snapshot", "returned_qty",
}

// SaleRepo implements sale.Repository.
type SaleRepo struct {
	*BaseDocumentRepo[*sale.Invoice]
}

// NewSaleRepo creates a new sales invoice repository.
func NewSaleRepo(txManager *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			salesTable,
			postgres.ExtractDBColumns[sale.Invoice](),
			func() *sale.Invoice { return &sale.Invoice{} },
		),
	}
}

// SaveItems bulk-inserts the invoice's items over COPY. Items are
// written once at checkout, inside the checkout transaction.
func (r *SaleRepo) SaveItems(ctx context.Context, invoiceID int64, items []*sale.Item) error {
	if len(items) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([][]any, len(items))
	for i, item := range items {
		rows[i] = []any{
			item.Version, now, now, item.SyncStatus,
			invoiceID, item.VariantID, item.Qty, item.UnitPrice, item.LineTotal,
			item.UnitCostSnapshot, item.ReturnedQty,
		}
	}

	if _, err := r.inserter.CopyFromSlice(ctx, saleItemsTable, saleItemCols, rows); err != nil {
		return fmt.Errorf("insert sale items: %w", err)
	}

	return nil
}

// GetItems loads the invoice's items.
func (r *SaleRepo) GetItems(ctx context.Context, invoiceID int64) ([]*sale.Item, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[sale.Item]()...).
		From(saleItemsTable).
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		OrderBy("id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*sale.Item
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}

	return items, nil
}

// AddReturnedQty increments an item's returned quantity, rejecting
// increments past the sold quantity at the storage level too.
func (r *SaleRepo) AddReturnedQty(ctx context.Context, itemID int64, qty int64) error {
	q := r.Builder().
		Update(saleItemsTable).
		Set("returned_qty", squirrel.Expr("returned_qty + ?", qty)).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": itemID}).
		Where(squirrel.Expr("returned_qty + ? <= qty", qty))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build add returned qty: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("add returned qty: %w", err)
	}
	if result.RowsAffected() == 0 {
		// The guard blocks both a missing row and an increment past the
		// sold quantity; tell them apart before reporting.
		check := r.Builder().
			Select("qty", "returned_qty").
			From(saleItemsTable).
			Where(squirrel.Eq{"id": itemID})
		checkSQL, checkArgs, err := check.ToSql()
		if err != nil {
			return fmt.Errorf("build returned qty check: %w", err)
		}

		var sold, returned int64
		err = r.querier(ctx).QueryRow(ctx, checkSQL, checkArgs...).Scan(&sold, &returned)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NewNotFound("sales item", itemID)
		}
		if err != nil {
			return fmt.Errorf("check returned qty: %w", err)
		}
		return apperror.NewReturnQtyExceeded(itemID, qty, sold-returned)
	}

	return nil
}
