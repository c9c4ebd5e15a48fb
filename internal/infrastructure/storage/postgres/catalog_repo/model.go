package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"retailpos/internal/domain/catalogs/model"
	"retailpos/internal/infrastructure/storage/postgres"
)

const modelTable = "models"

// ModelRepo implements model.Repository.
type ModelRepo struct {
	*BaseCatalogRepo[*model.Model]
}

// NewModelRepo creates a new model repository.
func NewModelRepo(txManager *postgres.TxManager) *ModelRepo {
	return &ModelRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			modelTable,
			postgres.ExtractDBColumns[model.Model](),
			func() *model.Model { return &model.Model{} },
		),
	}
}

// ListByBrand retrieves all active models of a brand.
func (r *ModelRepo) ListByBrand(ctx context.Context, brandID int64) ([]*model.Model, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"brand_id": brandID}).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("name ASC")

	return r.FindMany(ctx, q)
}
