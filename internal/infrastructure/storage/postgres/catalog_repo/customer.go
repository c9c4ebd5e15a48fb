package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/types"
	"retailpos/internal/domain/catalogs/customer"
	"retailpos/internal/infrastructure/storage/postgres"
)

const customerTable = "customers"

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	*BaseCatalogRepo[*customer.Customer]
	txManager *postgres.TxManager
}

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(txManager *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			customerTable,
			postgres.ExtractDBColumns[customer.Customer](),
			func() *customer.Customer { return &customer.Customer{} },
		),
		txManager: txManager,
	}
}

// AdjustBalance atomically adds delta to the cached balance. The caller
// holds the row lock from GetForUpdate in the same transaction.
func (r *CustomerRepo) AdjustBalance(ctx context.Context, id int64, delta types.Money) error {
	return adjustBalance(ctx, r.txManager, r.Builder(), customerTable, id, delta)
}

// adjustBalance is shared by the customer and supplier repositories.
func adjustBalance(ctx context.Context, txm *postgres.TxManager, b squirrel.StatementBuilderType, table string, id int64, delta types.Money) error {
	q := b.Update(table).
		Set("current_balance", squirrel.Expr("current_balance + ?", delta)).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": id})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build adjust balance: %w", err)
	}

	result, err := txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("adjust balance %s: %w", table, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(table, id)
	}

	return nil
}
