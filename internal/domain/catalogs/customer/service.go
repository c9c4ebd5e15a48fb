package customer

import (
	"retailpos/internal/core/tx"
	"retailpos/internal/domain"
)

// Service provides business logic for the Customer catalog.
// Balance mutations are owned by the lifecycle and balance packages;
// this service only covers catalog CRUD.
type Service struct {
	*domain.CatalogService[*Customer]
	repo Repository
}

// NewService creates a new Customer service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Customer]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "customer",
	})

	return &Service{
		CatalogService: base,
		repo:           repo,
	}
}
