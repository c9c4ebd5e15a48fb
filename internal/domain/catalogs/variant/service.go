package variant

import (
	"context"
	"strings"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/tx"
	"retailpos/internal/domain"
	"retailpos/internal/domain/catalogs/model"
	"retailpos/pkg/logger"
)

// searchLimit caps results per search tier.
const searchLimit = 25

// StockReader resolves current stock for variants. Implemented by the
// stock ledger; tests substitute a fake.
type StockReader interface {
	GetStockBulk(ctx context.Context, variantIDs []int64) (map[int64]int64, error)
}

// SearchCache is an optional short-TTL cache in front of Search.
// A nil cache disables caching.
type SearchCache interface {
	Get(ctx context.Context, query string) ([]SearchResult, bool)
	Set(ctx context.Context, query string, results []SearchResult)
	Invalidate(ctx context.Context)
}

// SearchResult is a variant with its derived stock and parent names.
type SearchResult struct {
	Annotated
	Stock int64 `json:"stock"`
}

// Service provides business logic for the Variant catalog, including
// the search surface used by the POS, purchases and returns screens.
type Service struct {
	*domain.CatalogService[*Variant]
	repo   Repository
	models model.Repository
	stock  StockReader
	cache  SearchCache
}

// NewService creates a new Variant service. cache may be nil.
func NewService(
	repo Repository,
	models model.Repository,
	stock StockReader,
	cache SearchCache,
	txManager tx.Manager,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Variant]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "variant",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		models:         models,
		stock:          stock,
		cache:          cache,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkModelExists)
	base.Hooks().On(domain.BeforeUpdate, svc.checkModelExists)
	base.Hooks().On(domain.AfterCreate, svc.invalidateCache)
	base.Hooks().On(domain.AfterUpdate, svc.invalidateCache)
	base.Hooks().On(domain.AfterDelete, svc.invalidateCache)

	return svc
}

func (s *Service) checkModelExists(ctx context.Context, v *Variant) error {
	exists, err := s.models.Exists(ctx, v.ModelID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NewNotFound("model", v.ModelID)
	}
	return nil
}

func (s *Service) invalidateCache(ctx context.Context, _ *Variant) error {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return nil
}

// ListByModel retrieves all variants of a model.
func (s *Service) ListByModel(ctx context.Context, modelID int64) ([]*Variant, error) {
	return s.repo.ListByModel(ctx, modelID)
}

// Search resolves a free-text query against the catalog in priority
// order: exact barcode match, then SKU prefix match, then model name
// substring match. Results carry derived stock and parent names.
func (s *Service) Search(ctx context.Context, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, query); ok {
			return cached, nil
		}
	}

	hits, err := s.resolve(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := s.annotateStock(ctx, hits)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, query, results)
	}
	return results, nil
}

func (s *Service) resolve(ctx context.Context, query string) ([]*Annotated, error) {
	// Tier 1: exact barcode
	hit, err := s.repo.FindByBarcode(ctx, query)
	if err == nil {
		return []*Annotated{hit}, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	// Tier 2: SKU prefix
	hits, err := s.repo.ListBySKUPrefix(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}
	if len(hits) > 0 {
		return hits, nil
	}

	// Tier 3: model name substring (including localized name)
	return s.repo.ListByModelName(ctx, query, searchLimit)
}

func (s *Service) annotateStock(ctx context.Context, hits []*Annotated) ([]SearchResult, error) {
	ids := make([]int64, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}

	stocks, err := s.stock.GetStockBulk(ctx, ids)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, len(hits))
	for i, h := range hits {
		results[i] = SearchResult{Annotated: *h, Stock: stocks[h.ID]}
	}
	return results, nil
}

// ListLowStock returns active variants whose stock is at or below their
// reorder threshold, in the same annotated shape search results carry.
func (s *Service) ListLowStock(ctx context.Context) ([]SearchResult, error) {
	all, err := s.repo.ListAllAnnotated(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(all))
	for i, v := range all {
		ids[i] = v.ID
	}
	stocks, err := s.stock.GetStockBulk(ctx, ids)
	if err != nil {
		return nil, err
	}

	var low []SearchResult
	for _, v := range all {
		if stocks[v.ID] <= v.MinStock {
			low = append(low, SearchResult{Annotated: *v, Stock: stocks[v.ID]})
		}
	}
	logger.Debug(ctx, "low stock scan", "total", len(all), "low", len(low))
	return low, nil
}
