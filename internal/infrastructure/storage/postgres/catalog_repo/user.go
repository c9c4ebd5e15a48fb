package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"retailpos/internal/core/apperror"
	"retailpos/internal/domain/catalogs/user"
	"retailpos/internal/infrastructure/storage/postgres"
)

const userTable = "users"

// UserRepo implements user.Repository.
type UserRepo struct {
	*BaseCatalogRepo[*user.User]
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txManager *postgres.TxManager) *UserRepo {
	return &UserRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			userTable,
			postgres.ExtractDBColumns[user.User](),
			func() *user.User { return &user.User{} },
		),
	}
}

// FindByUsername retrieves a user by username, case-insensitive.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	q := r.baseSelect().
		Where(squirrel.Expr("LOWER(username) = LOWER(?)", username)).
		Limit(1)

	u, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("user", username)
		}
		return nil, err
	}
	return u, nil
}
