package cashbox

import (
	"context"
	"time"

	"retailpos/internal/core/appctx"
	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
	"retailpos/internal/core/tx"
	"retailpos/internal/core/types"
	"retailpos/internal/domain"
	"retailpos/pkg/logger"
)

// ShiftView is a shift with its live aggregated cash flow.
type ShiftView struct {
	Shift        *Shift      `json:"shift"`
	CashIn       types.Money `json:"cashIn"`
	CashOut      types.Money `json:"cashOut"`
	ExpectedCash types.Money `json:"expectedCash"`
}

// PaymentAppender appends rows to the money ledger.
type PaymentAppender interface {
	Append(ctx context.Context, payments ...*entity.Payment) error
}

// CashMovementInput describes a manual till movement: a paid expense
// or an income that is not tied to any document.
type CashMovementInput struct {
	Direction entity.PayDirection `json:"direction"`
	Amount    types.Money         `json:"amount"`
	Note      string              `json:"note"`
}

// Service manages the shift lifecycle.
type Service struct {
	repo      Repository
	payments  PaymentAppender
	txManager tx.Manager
}

// NewService creates the cashbox service.
func NewService(repo Repository, payments PaymentAppender, txManager tx.Manager) *Service {
	return &Service{repo: repo, payments: payments, txManager: txManager}
}

// OpenShift opens a new shift. Fails when any shift is already open;
// the single-open-shift rule is system-wide, not per user.
func (s *Service) OpenShift(ctx context.Context, userID int64, openingCash types.Money) (*Shift, error) {
	shift := NewShift(userID, openingCash)
	if err := shift.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		open, err := s.repo.GetOpen(ctx)
		if err == nil {
			return apperror.NewShiftAlreadyOpen(open.ID)
		}
		if !apperror.IsNotFound(err) {
			return err
		}
		return s.repo.Create(ctx, shift)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "shift opened",
		"shift_id", shift.ID, "user_id", userID, "opening_cash", openingCash.String())
	return shift, nil
}

// CloseShift counts the till and closes the open shift. The expected
// balance is opening cash plus linked cash in minus linked cash out;
// a counting difference is recorded but never blocks closing.
func (s *Service) CloseShift(ctx context.Context, closingCash types.Money, notes string) (*Shift, error) {
	if closingCash.IsNegative() {
		return nil, apperror.NewValidation("closing cash cannot be negative").
			WithDetail("closingCash", closingCash.String())
	}

	var shift *Shift
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		open, err := s.repo.GetOpen(ctx)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewShiftNotOpen()
			}
			return err
		}

		flow, err := s.repo.SumCash(ctx, open.ID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		open.Status = ShiftClosed
		open.ClosedAt = &now
		open.ClosedBy = appctx.GetUserID(ctx)
		open.ClosingCash = closingCash
		open.ExpectedCash = open.OpeningCash.Add(flow.In).Sub(flow.Out)
		open.Difference = closingCash.Sub(open.ExpectedCash)
		open.Notes = notes
		open.Touch()

		if err := s.repo.Update(ctx, open); err != nil {
			return err
		}
		shift = open
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "shift closed",
		"shift_id", shift.ID,
		"expected", shift.ExpectedCash.String(),
		"counted", shift.ClosingCash.String(),
		"difference", shift.Difference.String())
	return shift, nil
}

// CurrentShift returns the open shift with its live cash flow, or a
// not-found error when the register is closed.
func (s *Service) CurrentShift(ctx context.Context) (*ShiftView, error) {
	open, err := s.repo.GetOpen(ctx)
	if err != nil {
		return nil, err
	}
	flow, err := s.repo.SumCash(ctx, open.ID)
	if err != nil {
		return nil, err
	}
	return &ShiftView{
		Shift:        open,
		CashIn:       flow.In,
		CashOut:      flow.Out,
		ExpectedCash: open.OpeningCash.Add(flow.In).Sub(flow.Out),
	}, nil
}

// OpenShiftID reports the open shift's ID, or nil when none is open.
// Lifecycle services call this to link cash payments to the shift.
func (s *Service) OpenShiftID(ctx context.Context) (*int64, error) {
	open, err := s.repo.GetOpen(ctx)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	id := open.ID
	return &id, nil
}

// RecordCashMovement posts a manual expense or income against the open
// shift. The register must be open; a till without an operator takes
// no money.
func (s *Service) RecordCashMovement(ctx context.Context, in CashMovementInput) (*entity.Payment, error) {
	if !in.Amount.IsPositive() {
		return nil, apperror.NewValidation("amount must be positive").
			WithDetail("amount", in.Amount.String())
	}
	if in.Direction != entity.PayIn && in.Direction != entity.PayOut {
		return nil, apperror.NewValidation("direction must be in or out").
			WithDetail("direction", string(in.Direction))
	}

	p := entity.NewPayment()
	p.Direction = in.Direction
	p.Method = entity.MethodCash
	p.Amount = in.Amount
	p.Note = in.Note
	p.CreatedBy = appctx.GetUserID(ctx)
	if in.Direction == entity.PayIn {
		p.RefType = entity.PayRefIncome
	} else {
		p.RefType = entity.PayRefExpense
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		open, err := s.repo.GetOpen(ctx)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewShiftNotOpen()
			}
			return err
		}
		shiftID := open.ID
		p.ShiftID = &shiftID
		return s.payments.Append(ctx, &p)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "cash movement recorded",
		"shift_id", *p.ShiftID, "direction", p.Direction, "amount", p.Amount.String())
	return &p, nil
}

// GetShift retrieves a shift by ID.
func (s *Service) GetShift(ctx context.Context, id int64) (*Shift, error) {
	return s.repo.GetByID(ctx, id)
}

// ListShifts returns shift history, newest first.
func (s *Service) ListShifts(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Shift], error) {
	return s.repo.List(ctx, filter)
}
