package model

import (
	"context"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/tx"
	"retailpos/internal/domain"
	"retailpos/internal/domain/catalogs/brand"
)

// Service provides business logic for the Model catalog.
type Service struct {
	*domain.CatalogService[*Model]
	repo   Repository
	brands brand.Repository
}

// NewService creates a new Model service.
func NewService(repo Repository, brands brand.Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Model]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "model",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		brands:         brands,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkBrandExists)
	base.Hooks().On(domain.BeforeUpdate, svc.checkBrandExists)

	return svc
}

func (s *Service) checkBrandExists(ctx context.Context, m *Model) error {
	exists, err := s.brands.Exists(ctx, m.BrandID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NewNotFound("brand", m.BrandID)
	}
	return nil
}

// ListByBrand retrieves all models of a brand.
func (s *Service) ListByBrand(ctx context.Context, brandID int64) ([]*Model, error) {
	return s.repo.ListByBrand(ctx, brandID)
}
