// Package register_repo provides PostgreSQL implementations for the
// stock and money ledgers.
package register_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"retailpos/internal/core/entity"
	"retailpos/internal/domain/registers/stockledger"
	"retailpos/internal/infrastructure/storage/postgres"
)

const stockMovesTable = "stock_moves"

var stockMoveCols = postgres.ExtractDBColumns[entity.StockMove]()

// StockMoveRepo implements stockledger.Repository. Rows are append
// only; nothing here updates or deletes.
type StockMoveRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewStockMoveRepo creates a new stock ledger repository.
func NewStockMoveRepo(txManager *postgres.TxManager) *StockMoveRepo {
	return &StockMoveRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append inserts moves as new immutable rows. Inside a transaction it
// uses COPY; posting paths always run inside one.
func (r *StockMoveRepo) Append(ctx context.Context, moves ...*entity.StockMove) error {
	if len(moves) == 0 {
		return nil
	}

	columns := []string{
		"line_id", "version", "created_at", "updated_at", "sync_status",
		"date", "variant_id", "qty_in", "qty_out", "unit_cost",
		"ref_type", "ref_id", "note", "created_by",
	}

	if r.txManager.GetTx(ctx) != nil {
		inserter := postgres.NewBatchInserter(r.txManager)
		rows := make([][]any, len(moves))
		for i, m := range moves {
			rows[i] = []any{
				m.LineID, m.Version, m.CreatedAt, m.UpdatedAt, m.SyncStatus,
				m.Date, m.VariantID, m.QtyIn, m.QtyOut, m.UnitCost,
				m.RefType, m.RefID, m.Note, m.CreatedBy,
			}
		}
		if _, err := inserter.CopyFromSlice(ctx, stockMovesTable, columns, rows); err != nil {
			return fmt.Errorf("copy stock moves: %w", err)
		}
		return nil
	}

	q := r.builder.Insert(stockMovesTable).Columns(columns...)
	for _, m := range moves {
		q = q.Values(
			m.LineID, m.Version, m.CreatedAt, m.UpdatedAt, m.SyncStatus,
			m.Date, m.VariantID, m.QtyIn, m.QtyOut, m.UnitCost,
			m.RefType, m.RefID, m.Note, m.CreatedBy,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert moves: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert stock moves: %w", err)
	}

	return nil
}

// SumQty returns SUM(qty_in - qty_out) for the variant.
func (r *StockMoveRepo) SumQty(ctx context.Context, variantID int64) (int64, error) {
	q := r.builder.
		Select("COALESCE(SUM(qty_in - qty_out), 0)").
		From(stockMovesTable).
		Where(squirrel.Eq{"variant_id": variantID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var sum int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum qty: %w", err)
	}

	return sum, nil
}

// SumQtyBulk returns the signed sum per variant. Variants with no
// moves are absent from the map.
func (r *StockMoveRepo) SumQtyBulk(ctx context.Context, variantIDs []int64) (map[int64]int64, error) {
	if len(variantIDs) == 0 {
		return map[int64]int64{}, nil
	}

	q := r.builder.
		Select("variant_id", "COALESCE(SUM(qty_in - qty_out), 0) AS qty").
		From(stockMovesTable).
		Where(squirrel.Eq{"variant_id": variantIDs}).
		GroupBy("variant_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.txManager.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("sum qty bulk: %w", err)
	}
	defer rows.Close()

	result := make(map[int64]int64, len(variantIDs))
	for rows.Next() {
		var variantID, qty int64
		if err := rows.Scan(&variantID, &qty); err != nil {
			return nil, fmt.Errorf("scan qty row: %w", err)
		}
		result[variantID] = qty
	}

	return result, rows.Err()
}

// SumQtyAsOf returns the signed sum over moves dated at or before t.
func (r *StockMoveRepo) SumQtyAsOf(ctx context.Context, variantID int64, t time.Time) (int64, error) {
	q := r.builder.
		Select("COALESCE(SUM(qty_in - qty_out), 0)").
		From(stockMovesTable).
		Where(squirrel.Eq{"variant_id": variantID}).
		Where(squirrel.LtOrEq{"date": t})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var sum int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum qty as of: %w", err)
	}

	return sum, nil
}

// History returns moves for a variant, newest first.
func (r *StockMoveRepo) History(ctx context.Context, variantID int64, filter stockledger.HistoryFilter) ([]*entity.StockMove, error) {
	q := r.builder.
		Select(stockMoveCols...).
		From(stockMovesTable).
		Where(squirrel.Eq{"variant_id": variantID}).
		OrderBy("date DESC", "id DESC")

	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.To})
	}
	if filter.RefType != "" {
		q = q.Where(squirrel.Eq{"ref_type": filter.RefType})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var moves []*entity.StockMove
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &moves, sql, args...); err != nil {
		return nil, fmt.Errorf("stock history: %w", err)
	}

	return moves, nil
}
