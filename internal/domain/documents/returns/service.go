package returns

import (
	"context"
	"fmt"
	"time"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
	"retailpos/internal/core/tx"
	"retailpos/internal/core/types"
	"retailpos/internal/domain"
	"retailpos/internal/domain/catalogs/customer"
	"retailpos/internal/domain/catalogs/variant"
	"retailpos/internal/domain/documents/sale"
	"retailpos/internal/domain/registers/stockledger"
	"retailpos/pkg/logger"
	"retailpos/pkg/numerator"
)

// Document number prefixes. The exchange's replacement sale gets its
// own prefix, distinct from both plain sales and returns.
const (
	NumberPrefix         = "RET"
	ExchangeNumberPrefix = "EXC"
)

// PaymentAppender appends rows to the money ledger.
type PaymentAppender interface {
	Append(ctx context.Context, payments ...*entity.Payment) error
}

// ShiftResolver reports the currently open cash shift, if any.
type ShiftResolver interface {
	OpenShiftID(ctx context.Context) (*int64, error)
}

// ReturnLine selects how much of one original item comes back.
type ReturnLine struct {
	OriginalItemID int64 `json:"originalItemId"`
	Qty            int64 `json:"qty"`
}

// ExchangeLine is one replacement item of an exchange.
type ExchangeLine struct {
	VariantID int64       `json:"variantId"`
	Qty       int64       `json:"qty"`
	UnitPrice types.Money `json:"unitPrice"`
}

// ProcessInput is a return or exchange request. Exchange lines present
// make it an exchange.
type ProcessInput struct {
	InvoiceNumber string
	Lines         []ReturnLine
	Exchange      []ExchangeLine
	Notes         string
}

// Service orchestrates returns and exchanges.
type Service struct {
	repo      Repository
	sales     sale.Repository
	variants  variant.Repository
	customers customer.Repository
	stock     *stockledger.Service
	payments  PaymentAppender
	shifts    ShiftResolver
	numbers   *numerator.Service
	txManager tx.Manager
}

// NewService creates the returns service.
func NewService(
	repo Repository,
	sales sale.Repository,
	variants variant.Repository,
	customers customer.Repository,
	stock *stockledger.Service,
	payments PaymentAppender,
	shifts ShiftResolver,
	numbers *numerator.Service,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		sales:     sales,
		variants:  variants,
		customers: customers,
		stock:     stock,
		payments:  payments,
		shifts:    shifts,
		numbers:   numbers,
		txManager: txManager,
	}
}

// Process performs a return or exchange against an original sale.
// Every effect commits atomically: the return invoice and items, the
// stock-in moves at original cost, the returnedQty increments, the
// optional replacement sale with its stock-out moves, the single net
// payment, the customer balance change and the original invoice's
// transition to returned when nothing remains returnable.
func (s *Service) Process(ctx context.Context, in ProcessInput) (*Invoice, error) {
	if len(in.Lines) == 0 {
		return nil, apperror.NewEmptyCart()
	}

	isExchange := len(in.Exchange) > 0
	kind := KindReturn
	if isExchange {
		kind = KindExchange
	}

	var result *Invoice
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		orig, err := s.sales.GetByNumber(ctx, in.InvoiceNumber)
		if err != nil {
			return err
		}
		if orig.IsReturned() {
			return apperror.NewInvoiceReturned(orig.Number)
		}

		origItems, err := s.sales.GetItems(ctx, orig.ID)
		if err != nil {
			return err
		}
		byID := make(map[int64]*sale.Item, len(origItems))
		for _, item := range origItems {
			byID[item.ID] = item
		}

		returnTotal, err := s.validateLines(in.Lines, byID)
		if err != nil {
			return err
		}

		exchangeTotal := types.Zero()
		for _, ex := range in.Exchange {
			if ex.Qty <= 0 {
				return apperror.NewValidation("exchange quantity must be positive").
					WithDetail("variantId", ex.VariantID)
			}
			exchangeTotal = exchangeTotal.Add(ex.UnitPrice.Mul(types.NewMoneyFromInt(ex.Qty)))
		}

		// Net money effect on the customer side, applied exactly once.
		difference := returnTotal.Neg()
		if isExchange {
			difference = exchangeTotal.Sub(returnTotal)
		}

		ret := NewInvoice(orig.ID, kind)
		ret.CustomerID = orig.CustomerID
		ret.ReturnTotal = returnTotal
		ret.ExchangeTotal = exchangeTotal
		ret.Difference = difference
		ret.Status = entity.StatusCompleted
		ret.Notes = in.Notes

		number, err := s.numbers.NextNumber(ctx, numerator.DefaultConfig(NumberPrefix), time.Now())
		if err != nil {
			return err
		}
		ret.Number = number

		if err := ret.Validate(ctx); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, ret); err != nil {
			return err
		}

		if err := s.processReturnLines(ctx, ret, in.Lines, byID); err != nil {
			return err
		}

		if isExchange {
			exchangeID, err := s.createExchangeSale(ctx, orig, in.Exchange, exchangeTotal, difference)
			if err != nil {
				return err
			}
			ret.ExchangeInvoiceID = &exchangeID
		}

		if err := s.appendNetPayment(ctx, ret, isExchange); err != nil {
			return err
		}

		if orig.CustomerID != nil {
			if _, err := s.customers.GetForUpdate(ctx, *orig.CustomerID); err != nil {
				return err
			}
			if err := s.customers.AdjustBalance(ctx, *orig.CustomerID, difference); err != nil {
				return err
			}
		}

		if err := s.markReturnedIfDone(ctx, orig.ID); err != nil {
			return err
		}

		result = ret
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "return processed",
		"number", result.Number,
		"type", string(result.Type),
		"return_total", result.ReturnTotal.String(),
		"difference", result.Difference.String())
	return result, nil
}

// validateLines checks return quantities against what remains
// returnable and computes the return total at original prices.
func (s *Service) validateLines(lines []ReturnLine, byID map[int64]*sale.Item) (types.Money, error) {
	total := types.Zero()
	for _, l := range lines {
		item, ok := byID[l.OriginalItemID]
		if !ok {
			return types.Zero(), apperror.NewNotFound("sales item", l.OriginalItemID)
		}
		if l.Qty <= 0 {
			return types.Zero(), apperror.NewValidation("return quantity must be positive").
				WithDetail("originalItemId", l.OriginalItemID)
		}
		if l.Qty > item.RemainingQty() {
			return types.Zero(), apperror.NewReturnQtyExceeded(item.ID, l.Qty, item.RemainingQty())
		}
		total = total.Add(item.UnitPrice.Mul(types.NewMoneyFromInt(l.Qty)))
	}
	return total, nil
}

// processReturnLines writes return items, posts stock back in at the
// original cost snapshot and increments returnedQty on the originals.
func (s *Service) processReturnLines(ctx context.Context, ret *Invoice, lines []ReturnLine, byID map[int64]*sale.Item) error {
	items := make([]*Item, len(lines))
	moves := make([]*entity.StockMove, len(lines))

	for i, l := range lines {
		orig := byID[l.OriginalItemID]

		items[i] = &Item{
			BaseEntity:      entity.NewBaseEntity(),
			ReturnInvoiceID: ret.ID,
			OriginalItemID:  orig.ID,
			VariantID:       orig.VariantID,
			Qty:             l.Qty,
			UnitPrice:       orig.UnitPrice,
			LineTotal:       orig.UnitPrice.Mul(types.NewMoneyFromInt(l.Qty)),
		}

		move := entity.NewStockMove()
		move.VariantID = orig.VariantID
		move.QtyIn = l.Qty
		move.UnitCost = orig.UnitCostSnapshot
		move.RefType = entity.MoveRefSaleReturn
		move.RefID = ret.ID
		moves[i] = &move
	}

	if err := s.repo.SaveItems(ctx, ret.ID, items); err != nil {
		return err
	}
	ret.Items = items

	if err := s.stock.PostMoves(ctx, moves...); err != nil {
		return err
	}

	for _, l := range lines {
		if err := s.sales.AddReturnedQty(ctx, l.OriginalItemID, l.Qty); err != nil {
			return err
		}
	}
	return nil
}

// createExchangeSale writes the replacement sales invoice with its own
// number, items and stock-out moves. The net payment is carried by the
// return leg, so the replacement records only what the difference
// already settles.
func (s *Service) createExchangeSale(ctx context.Context, orig *sale.Invoice, lines []ExchangeLine, exchangeTotal, difference types.Money) (int64, error) {
	number, err := s.numbers.NextNumber(ctx, numerator.DefaultConfig(ExchangeNumberPrefix), time.Now())
	if err != nil {
		return 0, err
	}

	inv := sale.NewInvoice()
	inv.Number = number
	inv.CustomerID = orig.CustomerID
	inv.Subtotal = exchangeTotal
	inv.DiscountAmount = types.Zero()
	inv.DiscountPercent = types.Zero()
	inv.TaxAmount = types.Zero()
	inv.Total = exchangeTotal
	inv.PaidAmount = types.MaxMoney(types.Zero(), difference)
	if difference.LessThanOrEqual(types.Zero()) {
		inv.PaymentStatus = entity.PaymentPaid
	} else {
		inv.PaymentStatus = entity.PaymentUnpaid
	}
	inv.PaymentMethod = entity.MethodCash
	inv.Status = entity.StatusCompleted
	inv.Notes = fmt.Sprintf("exchange for invoice %s", orig.Number)

	if err := inv.Validate(ctx); err != nil {
		return 0, err
	}
	if err := s.sales.Create(ctx, inv); err != nil {
		return 0, err
	}

	items := make([]*sale.Item, len(lines))
	moves := make([]*entity.StockMove, len(lines))
	for i, l := range lines {
		v, err := s.variants.GetByID(ctx, l.VariantID)
		if err != nil {
			return 0, err
		}

		items[i] = &sale.Item{
			BaseEntity:       entity.NewBaseEntity(),
			InvoiceID:        inv.ID,
			VariantID:        v.ID,
			Qty:              l.Qty,
			UnitPrice:        l.UnitPrice,
			LineTotal:        l.UnitPrice.Mul(types.NewMoneyFromInt(l.Qty)),
			UnitCostSnapshot: v.CostPrice,
		}

		move := entity.NewStockMove()
		move.VariantID = v.ID
		move.QtyOut = l.Qty
		move.UnitCost = v.CostPrice
		move.RefType = entity.MoveRefSale
		move.RefID = inv.ID
		moves[i] = &move
	}

	if err := s.sales.SaveItems(ctx, inv.ID, items); err != nil {
		return 0, err
	}
	return inv.ID, s.stock.PostMoves(ctx, moves...)
}

// appendNetPayment writes the single net payment: refund out for plain
// returns, the difference in or out for exchanges. A zero difference
// writes nothing.
func (s *Service) appendNetPayment(ctx context.Context, ret *Invoice, isExchange bool) error {
	if ret.Difference.IsZero() {
		return nil
	}

	p := entity.NewPayment()
	p.Method = entity.MethodCash
	p.Amount = ret.Difference.Abs()
	p.CustomerID = ret.CustomerID
	p.RefID = ret.ID
	if ret.Difference.IsPositive() {
		p.Direction = entity.PayIn
	} else {
		p.Direction = entity.PayOut
	}
	if isExchange {
		p.RefType = entity.PayRefSale
	} else {
		p.RefType = entity.PayRefSaleReturn
	}

	shiftID, err := s.shifts.OpenShiftID(ctx)
	if err != nil {
		return err
	}
	p.ShiftID = shiftID

	return s.payments.Append(ctx, &p)
}

// markReturnedIfDone transitions the original invoice to returned when
// every item has been fully returned.
func (s *Service) markReturnedIfDone(ctx context.Context, invoiceID int64) error {
	items, err := s.sales.GetItems(ctx, invoiceID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if !item.FullyReturned() {
			return nil
		}
	}
	return s.sales.UpdateStatus(ctx, invoiceID, string(entity.StatusReturned))
}

// GetByID loads a return invoice with its items.
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
