package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"retailpos/internal/domain/documents/purchase"
	"retailpos/internal/infrastructure/storage/postgres"
)

const (
	purchasesTable     = "purchase_invoices"
	purchaseItemsTable = "purchase_items"
)

var purchaseItemCols = []string{
	"version", "created_at", "updated_at", "sync_status",
	"invoice_id", "variant_id", "qty", "unit_cost", "line_total",
}

// PurchaseRepo implements purchase.Repository.
type PurchaseRepo struct {
	*BaseDocumentRepo[*purchase.Invoice]
}

// NewPurchaseRepo creates a new purchase invoice repository.
func NewPurchaseRepo(txManager *postgres.TxManager) *PurchaseRepo {
	return &PurchaseRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			purchasesTable,
			postgres.ExtractDBColumns[purchase.Invoice](),
			func() *purchase.Invoice { return &purchase.Invoice{} },
		),
	}
}

// SaveItems bulk-inserts the receipt's items over COPY.
func (r *PurchaseRepo) SaveItems(ctx context.Context, invoiceID int64, items []*purchase.Item) error {
	if len(items) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([][]any, len(items))
	for i, item := range items {
		rows[i] = []any{
			item.Version, now, now, item.SyncStatus,
			invoiceID, item.VariantID, item.Qty, item.UnitCost, item.LineTotal,
		}
	}

	if _, err := r.inserter.CopyFromSlice(ctx, purchaseItemsTable, purchaseItemCols, rows); err != nil {
		return fmt.Errorf("insert purchase items: %w", err)
	}

	return nil
}

// GetItems loads the receipt's items.
func (r *PurchaseRepo) GetItems(ctx context.Context, invoiceID int64) ([]*purchase.Item, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[purchase.Item]()...).
		From(purchaseItemsTable).
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		OrderBy("id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*purchase.Item
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get purchase items: %w", err)
	}

	return items, nil
}
