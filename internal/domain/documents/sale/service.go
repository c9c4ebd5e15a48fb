package sale

import (
	"context"
	"time"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
	"retailpos/internal/core/tx"
	"retailpos/internal/core/types"
	"retailpos/internal/domain"
	"retailpos/internal/domain/catalogs/customer"
	"retailpos/internal/domain/catalogs/variant"
	"retailpos/internal/domain/pricing"
	"retailpos/internal/domain/registers/stockledger"
	"retailpos/pkg/logger"
	"retailpos/pkg/numerator"
)

// NumberPrefix is the document number prefix for sales invoices.
const NumberPrefix = "INV"

// PaymentAppender appends rows to the money ledger.
type PaymentAppender interface {
	Append(ctx context.Context, payments ...*entity.Payment) error
}

// ShiftResolver reports the currently open cash shift, if any.
type ShiftResolver interface {
	OpenShiftID(ctx context.Context) (*int64, error)
}

// TaxProvider exposes the store's tax configuration.
type TaxProvider interface {
	TaxConfig(ctx context.Context) (rate types.Money, enabled bool, err error)
}

// Line is one cart row of a sale request.
type Line struct {
	VariantID    int64       `json:"variantId"`
	Qty          int64       `json:"qty"`
	UnitPrice    types.Money `json:"unitPrice"`
	LineDiscount types.Money `json:"lineDiscount"`
}

// CreateInput is a sale request.
type CreateInput struct {
	Lines []Line

	CustomerID    *int64
	DiscountMode  pricing.DiscountMode
	DiscountValue types.Money

	PaidAmount    types.Money
	PaymentMethod entity.PayMethod

	Notes string
}

// Service orchestrates the sale lifecycle: one atomic transaction
// writes the invoice, its items, the stock-out moves, the payment leg
// and the customer balance adjustment.
type Service struct {
	repo      Repository
	variants  variant.Repository
	customers customer.Repository
	stock     *stockledger.Service
	payments  PaymentAppender
	shifts    ShiftResolver
	taxes     TaxProvider
	numbers   *numerator.Service
	txManager tx.Manager
}

// NewService creates the sale service.
func NewService(
	repo Repository,
	variants variant.Repository,
	customers customer.Repository,
	stock *stockledger.Service,
	payments PaymentAppender,
	shifts ShiftResolver,
	taxes TaxProvider,
	numbers *numerator.Service,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		variants:  variants,
		customers: customers,
		stock:     stock,
		payments:  payments,
		shifts:    shifts,
		taxes:     taxes,
		numbers:   numbers,
		txManager: txManager,
	}
}

// Create completes a sale. Either every effect commits or none does; a
// reader can never observe the invoice without its items and moves.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Invoice, error) {
	totals, err := s.computeTotals(ctx, in)
	if err != nil {
		return nil, err
	}
	if in.PaidAmount.IsNegative() {
		return nil, apperror.NewValidation("paid amount cannot be negative").
			WithDetail("paidAmount", in.PaidAmount.String())
	}
	// Cash tendered above the total is change handed back at the till.
	// The ledger records the settled amount only; otherwise a customer
	// statement would show phantom credit.
	if in.PaidAmount.GreaterThan(totals.Total) {
		in.PaidAmount = totals.Total
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = entity.MethodCash
	}
	if !entity.ValidPayMethod(in.PaymentMethod) {
		return nil, apperror.NewValidation("unknown payment method").
			WithDetail("method", string(in.PaymentMethod))
	}

	inv := NewInvoice()
	inv.CustomerID = in.CustomerID
	inv.Subtotal = totals.Subtotal
	inv.DiscountAmount = totals.DiscountAmount
	inv.DiscountPercent = totals.DiscountPercent
	inv.TaxAmount = totals.TaxAmount
	inv.Total = totals.Total
	inv.PaidAmount = in.PaidAmount
	inv.PaymentStatus = entity.DerivePaymentStatus(in.PaidAmount, totals.Total)
	inv.PaymentMethod = in.PaymentMethod
	inv.Status = entity.StatusCompleted
	inv.Notes = in.Notes

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if in.CustomerID != nil {
			if _, err := s.customers.GetForUpdate(ctx, *in.CustomerID); err != nil {
				return err
			}
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

		items, moves, err := s.buildLines(ctx, inv, in.Lines)
		if err != nil {
			return err
		}
		if err := s.repo.SaveItems(ctx, inv.ID, items); err != nil {
			return err
		}
		inv.Items = items

		if err := s.stock.PostMoves(ctx, moves...); err != nil {
			return err
		}

		if in.PaidAmount.IsPositive() {
			if err := s.appendPayment(ctx, inv); err != nil {
				return err
			}
		}

		// Unpaid remainder becomes customer debt.
		if in.CustomerID != nil && in.PaidAmount.LessThan(inv.Total) {
			owed := inv.Total.Sub(in.PaidAmount)
			if err := s.customers.AdjustBalance(ctx, *in.CustomerID, owed); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale completed",
		"number", inv.Number,
		"total", inv.Total.String(),
		"paid", inv.PaidAmount.String(),
		"payment_status", string(inv.PaymentStatus))
	return inv, nil
}

func (s *Service) computeTotals(ctx context.Context, in CreateInput) (pricing.Totals, error) {
	taxRate, taxEnabled, err := s.taxes.TaxConfig(ctx)
	if err != nil {
		return pricing.Totals{}, err
	}

	lines := make([]pricing.Line, len(in.Lines))
	for i, l := range in.Lines {
		lines[i] = pricing.Line{
			VariantID:    l.VariantID,
			Qty:          l.Qty,
			UnitPrice:    l.UnitPrice,
			LineDiscount: l.LineDiscount,
		}
	}
	return pricing.Calculate(pricing.Input{
		Lines:         lines,
		DiscountMode:  in.DiscountMode,
		DiscountValue: in.DiscountValue,
		TaxRate:       taxRate,
		TaxEnabled:    taxEnabled,
	})
}

// buildLines snapshots variant costs and prepares items plus the
// matching stock-out moves.
func (s *Service) buildLines(ctx context.Context, inv *Invoice, lines []Line) ([]*Item, []*entity.StockMove, error) {
	items := make([]*Item, len(lines))
	moves := make([]*entity.StockMove, len(lines))

	for i, l := range lines {
		v, err := s.variants.GetByID(ctx, l.VariantID)
		if err != nil {
			return nil, nil, err
		}

		item := &Item{
			BaseEntity:       entity.NewBaseEntity(),
			InvoiceID:        inv.ID,
			VariantID:        v.ID,
			Qty:              l.Qty,
			UnitPrice:        l.UnitPrice,
			LineTotal:        l.UnitPrice.Mul(types.NewMoneyFromInt(l.Qty)).Sub(l.LineDiscount),
			UnitCostSnapshot: v.CostPrice,
		}
		items[i] = item

		move := entity.NewStockMove()
		move.VariantID = v.ID
		move.QtyOut = l.Qty
		move.UnitCost = v.CostPrice
		move.RefType = entity.MoveRefSale
		move.RefID = inv.ID
		move.CreatedBy = inv.CreatedBy
		moves[i] = &move
	}
	return items, moves, nil
}

func (s *Service) appendPayment(ctx context.Context, inv *Invoice) error {
	p := entity.NewPayment()
	p.Direction = entity.PayIn
	p.Method = inv.PaymentMethod
	p.Amount = inv.PaidAmount
	p.CustomerID = inv.CustomerID
	p.RefType = entity.PayRefSale
	p.RefID = inv.ID

	if p.Method == entity.MethodCash {
		shiftID, err := s.shifts.OpenShiftID(ctx)
		if err != nil {
			return err
		}
		p.ShiftID = shiftID
	}
	return s.payments.Append(ctx, &p)
}

// GetByID loads an invoice with its items.
func (s *Service) GetByID(ctx context.Context, id int64) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, inv)
}

// GetByNumber loads an invoice with its items by document number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	inv, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, inv)
}

func (s *Service) withItems(ctx context.Context, inv *Invoice) (*Invoice, error) {
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
