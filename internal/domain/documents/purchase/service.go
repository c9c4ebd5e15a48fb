package purchase

import (
	"context"
	"time"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
	"retailpos/internal/core/tx"
	"retailpos/internal/core/types"
	"retailpos/internal/domain"
	"retailpos/internal/domain/catalogs/supplier"
	"retailpos/internal/domain/catalogs/variant"
	"retailpos/internal/domain/registers/stockledger"
	"retailpos/pkg/logger"
	"retailpos/pkg/numerator"
)

// NumberPrefix is the document number prefix for purchase invoices.
const NumberPrefix = "PUR"

// Line is one received line of a purchase request.
type Line struct {
	VariantID int64       `json:"variantId"`
	Qty       int64       `json:"qty"`
	UnitCost  types.Money `json:"unitCost"`
}

// CreateInput is a goods receipt request.
type CreateInput struct {
	SupplierID int64
	Lines      []Line
	Notes      string
}

// Service orchestrates the purchase lifecycle: stock-in moves, the
// per-line weighted-average cost recompute and the supplier balance
// increase, all in one transaction.
type Service struct {
	repo      Repository
	variants  variant.Repository
	suppliers supplier.Repository
	stock     *stockledger.Service
	numbers   *numerator.Service
	txManager tx.Manager
}

// NewService creates the purchase service.
func NewService(
	repo Repository,
	variants variant.Repository,
	suppliers supplier.Repository,
	stock *stockledger.Service,
	numbers *numerator.Service,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		variants:  variants,
		suppliers: suppliers,
		stock:     stock,
		numbers:   numbers,
		txManager: txManager,
	}
}

// Create completes a goods receipt. The whole receipt is on credit:
// the supplier balance grows by the invoice total and no payment leg
// is written here.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Invoice, error) {
	if len(in.Lines) == 0 {
		return nil, apperror.NewEmptyCart()
	}

	inv := NewInvoice(in.SupplierID)
	inv.Status = entity.StatusCompleted
	inv.Notes = in.Notes

	subtotal := types.Zero()
	for i, l := range in.Lines {
		if l.Qty <= 0 {
			return nil, apperror.NewValidation("line quantity must be positive").
				WithDetail("line", i)
		}
		if l.UnitCost.IsNegative() {
			return nil, apperror.NewValidation("unit cost cannot be negative").
				WithDetail("line", i)
		}
		subtotal = subtotal.Add(l.UnitCost.Mul(types.NewMoneyFromInt(l.Qty)))
	}
	inv.Subtotal = subtotal.Round(2)
	inv.DiscountAmount = types.Zero()
	inv.TaxAmount = types.Zero()
	inv.Total = inv.Subtotal

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.suppliers.GetForUpdate(ctx, in.SupplierID); err != nil {
			return err
		}

		number, err := s.numbers.NextNumber(ctx, numerator.DefaultConfig(NumberPrefix), time.Now())
		if err != nil {
			return err
		}
		inv.Number = number

		if err := inv.Validate(ctx); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, inv); err != nil {
			return err
		}

		items := make([]*Item, len(in.Lines))
		for i, l := range in.Lines {
			items[i] = &Item{
				BaseEntity: entity.NewBaseEntity(),
				InvoiceID:  inv.ID,
				VariantID:  l.VariantID,
				Qty:        l.Qty,
				UnitCost:   l.UnitCost,
				LineTotal:  l.UnitCost.Mul(types.NewMoneyFromInt(l.Qty)),
			}
		}
		if err := s.repo.SaveItems(ctx, inv.ID, items); err != nil {
			return err
		}
		inv.Items = items

		// Lines post sequentially: each cost recompute reads the stock
		// level that includes the move it just posted.
		for _, l := range in.Lines {
			if err := s.receiveLine(ctx, inv, l); err != nil {
				return err
			}
		}

		return s.suppliers.AdjustBalance(ctx, in.SupplierID, inv.Total)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase completed",
		"number", inv.Number,
		"supplier_id", inv.SupplierID,
		"total", inv.Total.String())
	return inv, nil
}

// receiveLine posts the stock-in move and folds the received cost into
// the variant's weighted-average cost basis.
func (s *Service) receiveLine(ctx context.Context, inv *Invoice, l Line) error {
	v, err := s.variants.GetByID(ctx, l.VariantID)
	if err != nil {
		return err
	}

	move := entity.NewStockMove()
	move.VariantID = v.ID
	move.QtyIn = l.Qty
	move.UnitCost = l.UnitCost
	move.RefType = entity.MoveRefPurchase
	move.RefID = inv.ID
	move.CreatedBy = inv.CreatedBy
	if err := s.stock.PostMoves(ctx, &move); err != nil {
		return err
	}

	stockAfter, err := s.stock.GetStock(ctx, v.ID)
	if err != nil {
		return err
	}

	newCost := WeightedAverageCost(v.CostPrice, stockAfter, l.UnitCost, l.Qty)
	return s.variants.UpdateCost(ctx, v.ID, newCost)
}

// WeightedAverageCost blends the prior cost basis with a received lot:
//
//	newCost = (oldCost*stockBefore + receivedCost*receivedQty) / stockAfter
//
// where stockBefore = stockAfter - receivedQty. When the prior stock is
// zero or negative the received cost wins outright.
func WeightedAverageCost(oldCost types.Money, stockAfter int64, receivedCost types.Money, receivedQty int64) types.Money {
	stockBefore := stockAfter - receivedQty
	if stockBefore <= 0 || stockAfter <= 0 {
		return receivedCost
	}

	prior := oldCost.Mul(types.NewMoneyFromInt(stockBefore))
	received := receivedCost.Mul(types.NewMoneyFromInt(receivedQty))
	return prior.Add(received).Div(types.NewMoneyFromInt(stockAfter)).Round(4)
}

// GetByID loads an invoice with its items.
func (s *Service) GetByID(ctx context.Context, id int64) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

// List returns invoices newest first, headers only.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Invoice], error) {
	return s.repo.List(ctx, filter)
}
