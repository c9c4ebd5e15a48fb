package brand

import (
	"context"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/tx"
	"retailpos/internal/domain"
)

// Service provides business logic for the Brand catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Brand]
	repo Repository
}

// NewService creates a new Brand service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Brand]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "brand",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkNameUnique)
	base.Hooks().On(domain.BeforeUpdate, svc.checkNameUnique)

	return svc
}

func (s *Service) checkNameUnique(ctx context.Context, b *Brand) error {
	existing, err := s.repo.FindByName(ctx, b.Name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != b.ID {
		return apperror.NewDuplicate("brand", "name", b.Name)
	}
	return nil
}
