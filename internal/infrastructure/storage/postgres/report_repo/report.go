// Package report_repo provides SQL aggregations for the reports service.
package report_repo

import (
	"context"
	"fmt"

	"retailpos/internal/core/types"
	"retailpos/internal/domain/reports"
	"retailpos/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

// SalesSummary aggregates completed sales in one round trip per block.
// Fully returned invoices stay in the figures; their reversal shows up
// through the returned_qty subtraction on the item block.
func (r *ReportRepo) SalesSummary(ctx context.Context, p reports.Period) (*reports.SalesSummary, error) {
	summary := &reports.SalesSummary{}
	q := r.txManager.GetQuerier(ctx)

	headSQL := `
		SELECT COUNT(*),
		       COALESCE(SUM(subtotal), 0),
		       COALESCE(SUM(discount_amount), 0),
		       COALESCE(SUM(tax_amount), 0),
		       COALESCE(SUM(total), 0)
		FROM sales_invoices
		WHERE status IN ('completed', 'returned')
		  AND date >= $1 AND date <= $2`
	err := q.QueryRow(ctx, headSQL, p.From, p.To).Scan(
		&summary.InvoiceCount,
		&summary.Gross,
		&summary.Discounts,
		&summary.Tax,
		&summary.Net,
	)
	if err != nil {
		return nil, fmt.Errorf("sales summary header: %w", err)
	}

	itemSQL := `
		SELECT COALESCE(SUM(i.qty), 0),
		       COALESCE(SUM(i.qty * i.unit_cost_snapshot), 0)
		FROM sales_items i
		JOIN sales_invoices s ON s.id = i.invoice_id
		WHERE s.status IN ('completed', 'returned')
		  AND s.date >= $1 AND s.date <= $2`
	err = q.QueryRow(ctx, itemSQL, p.From, p.To).Scan(
		&summary.ItemsSold,
		&summary.CostOfGoods,
	)
	if err != nil {
		return nil, fmt.Errorf("sales summary items: %w", err)
	}

	methodSQL := `
		SELECT payment_method, COUNT(*), COALESCE(SUM(paid_amount), 0)
		FROM sales_invoices
		WHERE status IN ('completed', 'returned')
		  AND date >= $1 AND date <= $2
		GROUP BY payment_method
		ORDER BY payment_method`
	rows, err := q.Query(ctx, methodSQL, p.From, p.To)
	if err != nil {
		return nil, fmt.Errorf("sales summary methods: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			method string
			count  int64
			amount types.Money
		)
		if err := rows.Scan(&method, &count, &amount); err != nil {
			return nil, fmt.Errorf("scan method total: %w", err)
		}
		summary.ByMethod = append(summary.ByMethod, reports.MethodTotal{
			Method: method,
			Count:  count,
			Amount: amount,
		})
	}

	return summary, rows.Err()
}
