// Package stockledger derives on-hand stock from an append-only move
// log. There is no stored "current stock" field anywhere; the sum of
// signed moves is the only source of truth.
package stockledger

import (
	"context"
	"time"

	"retailpos/internal/core/appctx"
	"retailpos/internal/core/entity"
	"retailpos/internal/core/types"
	"retailpos/pkg/logger"
)

// HistoryFilter narrows move history queries.
type HistoryFilter struct {
	From    *time.Time
	To      *time.Time
	RefType entity.MoveRef
	Limit   int
}

// Repository defines the persistence surface of the stock ledger.
// Append must observe a transaction in context when one is present so
// moves commit together with the documents that produced them.
type Repository interface {
	// Append inserts moves as new immutable rows. Existing rows are
	// never updated or deleted.
	Append(ctx context.Context, moves ...*entity.StockMove) error

	// SumQty returns SUM(qty_in - qty_out) for the variant.
	SumQty(ctx context.Context, variantID int64) (int64, error)

	// SumQtyBulk returns the signed sum per variant. Variants with no
	// moves are absent from the map.
	SumQtyBulk(ctx context.Context, variantIDs []int64) (map[int64]int64, error)

	// SumQtyAsOf returns the signed sum over moves dated at or before t.
	SumQtyAsOf(ctx context.Context, variantID int64, t time.Time) (int64, error)

	// History returns moves for a variant, newest first.
	History(ctx context.Context, variantID int64, filter HistoryFilter) ([]*entity.StockMove, error)
}

// Service is the stock ledger. Lifecycle services post moves through it
// inside their transactions; read paths query derived stock.
type Service struct {
	repo  Repository
	cache CacheInvalidator
}

// NewService creates the stock ledger service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CacheInvalidator drops derived caches whose entries embed stock
// figures, such as the variant search cache.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// SetCacheInvalidator registers a cache to drop whenever moves post.
func (s *Service) SetCacheInvalidator(inv CacheInvalidator) {
	s.cache = inv
}

// PostMoves validates and appends moves. The caller owns the
// transaction boundary; a failed append rolls back with it.
func (s *Service) PostMoves(ctx context.Context, moves ...*entity.StockMove) error {
	for _, m := range moves {
		if err := m.Validate(ctx); err != nil {
			return err
		}
	}
	if err := s.repo.Append(ctx, moves...); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	logger.Debug(ctx, "stock moves posted", "count", len(moves))
	return nil
}

// GetStock returns the variant's current stock. Negative stock is a
// legal state: oversell is not blocked.
func (s *Service) GetStock(ctx context.Context, variantID int64) (int64, error) {
	return s.repo.SumQty(ctx, variantID)
}

// GetStockBulk returns current stock per variant. Variants without
// moves report zero.
func (s *Service) GetStockBulk(ctx context.Context, variantIDs []int64) (map[int64]int64, error) {
	sums, err := s.repo.SumQtyBulk(ctx, variantIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]int64, len(variantIDs))
	for _, id := range variantIDs {
		out[id] = sums[id]
	}
	return out, nil
}

// StockAsOf reconstructs the variant's stock at a point in time.
func (s *Service) StockAsOf(ctx context.Context, variantID int64, t time.Time) (int64, error) {
	return s.repo.SumQtyAsOf(ctx, variantID, t)
}

// History returns the move log for a variant, newest first.
func (s *Service) History(ctx context.Context, variantID int64, filter HistoryFilter) ([]*entity.StockMove, error) {
	return s.repo.History(ctx, variantID, filter)
}

// PostAdjustment corrects stock by a signed delta, e.g. after a
// physical count. Zero delta is rejected by move validation.
func (s *Service) PostAdjustment(ctx context.Context, variantID, delta int64, unitCost types.Money, note string) (*entity.StockMove, error) {
	m := entity.NewStockMove()
	m.VariantID = variantID
	m.UnitCost = unitCost
	m.RefType = entity.MoveRefAdjustment
	m.Note = note
	m.CreatedBy = appctx.GetUserID(ctx)
	if delta > 0 {
		m.QtyIn = delta
	} else {
		m.QtyOut = -delta
	}

	if err := s.PostMoves(ctx, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// PostOpening records an opening balance for a variant that predates
// the ledger.
func (s *Service) PostOpening(ctx context.Context, variantID, qty int64, unitCost types.Money) (*entity.StockMove, error) {
	m := entity.NewStockMove()
	m.VariantID = variantID
	m.QtyIn = qty
	m.UnitCost = unitCost
	m.RefType = entity.MoveRefOpening
	m.CreatedBy = appctx.GetUserID(ctx)

	if err := s.PostMoves(ctx, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
