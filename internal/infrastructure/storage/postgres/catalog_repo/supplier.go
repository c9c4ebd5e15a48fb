package catalog_repo

import (
	"context"

	"retailpos/internal/core/types"
	"retailpos/internal/domain/catalogs/supplier"
	"retailpos/internal/infrastructure/storage/postgres"
)

const supplierTable = "suppliers"

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	*BaseCatalogRepo[*supplier.Supplier]
	txManager *postgres.TxManager
}

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txManager *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			supplierTable,
			postgres.ExtractDBColumns[supplier.Supplier](),
			func() *supplier.Supplier { return &supplier.Supplier{} },
		),
		txManager: txManager,
	}
}

// AdjustBalance atomically adds delta to the cached balance.
func (r *SupplierRepo) AdjustBalance(ctx context.Context, id int64, delta types.Money) error {
	return adjustBalance(ctx, r.txManager, r.Builder(), supplierTable, id, delta)
}
