package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/types"
	"retailpos/internal/domain/catalogs/variant"
	"retailpos/internal/infrastructure/storage/postgres"
)

const variantTable = "variants"

// VariantRepo implements variant.Repository.
type VariantRepo struct {
	*BaseCatalogRepo[*variant.Variant]
	txManager *postgres.TxManager
}

// NewVariantRepo creates a new variant repository.
func NewVariantRepo(txManager *postgres.TxManager) *VariantRepo {
	return &VariantRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			variantTable,
			postgres.ExtractDBColumns[variant.Variant](),
			func() *variant.Variant { return &variant.Variant{} },
		),
		txManager: txManager,
	}
}

// ListByModel retrieves all active variants of a model.
func (r *VariantRepo) ListByModel(ctx context.Context, modelID int64) ([]*variant.Variant, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"model_id": modelID}).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("sku ASC")

	return r.FindMany(ctx, q)
}

// annotatedSelect joins variants with their model and brand names.
func (r *VariantRepo) annotatedSelect() squirrel.SelectBuilder {
	cols := make([]string, 0, len(postgres.ExtractDBColumns[variant.Variant]())+3)
	for _, col := range postgres.ExtractDBColumns[variant.Variant]() {
		cols = append(cols, "v."+col)
	}
	cols = append(cols,
		"m.name AS model_name",
		"m.name_ar AS model_name_ar",
		"b.name AS brand_name",
	)

	return r.Builder().
		Select(cols...).
		From(variantTable + " v").
		Join("models m ON m.id = v.model_id").
		Join("brands b ON b.id = m.brand_id").
		Where(squirrel.Eq{"v.is_active": true})
}

func (r *VariantRepo) findAnnotated(ctx context.Context, q squirrel.SelectBuilder) ([]*variant.Annotated, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*variant.Annotated
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select annotated variants: %w", err)
	}
	return items, nil
}

// FindByBarcode retrieves a variant by exact barcode match.
func (r *VariantRepo) FindByBarcode(ctx context.Context, barcode string) (*variant.Annotated, error) {
	q := r.annotatedSelect().
		Where(squirrel.Eq{"v.barcode": barcode}).
		Limit(1)

	items, err := r.findAnnotated(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperror.NewNotFound("variant", barcode)
	}
	return items[0], nil
}

// ListBySKUPrefix retrieves variants whose SKU starts with the prefix.
func (r *VariantRepo) ListBySKUPrefix(ctx context.Context, prefix string, limit int) ([]*variant.Annotated, error) {
	q := r.annotatedSelect().
		Where(squirrel.ILike{"v.sku": prefix + "%"}).
		OrderBy("v.sku ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	return r.findAnnotated(ctx, q)
}

// ListByModelName retrieves variants whose model name or localized name
// contains the query.
func (r *VariantRepo) ListByModelName(ctx context.Context, query string, limit int) ([]*variant.Annotated, error) {
	pattern := "%" + query + "%"
	q := r.annotatedSelect().
		Where(squirrel.Or{
			squirrel.ILike{"m.name": pattern},
			squirrel.ILike{"m.name_ar": pattern},
		}).
		OrderBy("m.name ASC", "v.sku ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	return r.findAnnotated(ctx, q)
}

// ListAllAnnotated retrieves every active variant with its parent
// names, ordered by SKU. Feeds the low stock report.
func (r *VariantRepo) ListAllAnnotated(ctx context.Context) ([]*variant.Annotated, error) {
	q := r.annotatedSelect().OrderBy("v.sku ASC")
	return r.findAnnotated(ctx, q)
}

// UpdateCost overwrites the weighted-average cost basis. Runs inside
// the purchase receipt transaction.
func (r *VariantRepo) UpdateCost(ctx context.Context, id int64, cost types.Money) error {
	q := r.Builder().
		Update(variantTable).
		Set("cost_price", cost).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": id})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update cost: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update cost: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("variant", id)
	}

	return nil
}
