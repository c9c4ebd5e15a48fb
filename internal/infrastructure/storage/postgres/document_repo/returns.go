package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"retailpos/internal/domain/documents/returns"
	"retailpos/internal/infrastructure/storage/postgres"
)

const (
	returnsTable     = "return_invoices"
	returnItemsTable = "return_items"
)

var returnItemCols = []string{
	"version", "created_at", "updated_at", "sync_status",
	"return_invoice_id", "original_item_id", "variant_id",
	"qty", "unit_price", "line_total",
}

// ReturnRepo implements returns.Repository.
type ReturnRepo struct {
	*BaseDocumentRepo[*returns.Invoice]
}

// NewReturnRepo creates a new return invoice repository.
func NewReturnRepo(txManager *postgres.TxManager) *ReturnRepo {
	return &ReturnRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			returnsTable,
			postgres.ExtractDBColumns[returns.Invoice](),
			func() *returns.Invoice { return &returns.Invoice{} },
		),
	}
}

// SaveItems bulk-inserts the return's items over COPY.
func (r *ReturnRepo) SaveItems(ctx context.Context, returnInvoiceID int64, items []*returns.Item) error {
	if len(items) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([][]any, len(items))
	for i, item := range items {
		rows[i] = []any{
			item.Version, now, now, item.SyncStatus,
			returnInvoiceID, item.OriginalItemID, item.VariantID,
			item.Qty, item.UnitPrice, item.LineTotal,
		}
	}

	if _, err := r.inserter.CopyFromSlice(ctx, returnItemsTable, returnItemCols, rows); err != nil {
		return fmt.Errorf("insert return items: %w", err)
	}

	return nil
}

// GetItems loads the return's items.
func (r *ReturnRepo) GetItems(ctx context.Context, returnInvoiceID int64) ([]*returns.Item, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[returns.Item]()...).
		From(returnItemsTable).
		Where(squirrel.Eq{"return_invoice_id": returnInvoiceID}).
		OrderBy("id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*returns.Item
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get return items: %w", err)
	}

	return items, nil
}
