// Package reports provides read-only aggregations over completed
// documents. Nothing here writes; every figure is derived on demand.
package reports

import (
	"context"
	"time"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/types"
)

// Period is a closed date range. A zero To means "until now".
type Period struct {
	From time.Time `form:"from" json:"from"`
	To   time.Time `form:"to" json:"to"`
}

// Normalize validates the range and fills the open end.
func (p *Period) Normalize() error {
	if p.To.IsZero() {
		p.To = time.Now().UTC()
	}
	if p.From.After(p.To) {
		return apperror.NewValidation("period start is after its end").
			WithDetail("from", p.From).
			WithDetail("to", p.To)
	}
	return nil
}

// MethodTotal is revenue taken through one payment method.
type MethodTotal struct {
	Method string      `json:"method"`
	Count  int64       `json:"count"`
	Amount types.Money `json:"amount"`
}

// SalesSummary aggregates completed sales over a period. Profit is
// revenue net of discounts minus the cost snapshots captured at sale
// time, so later cost changes never rewrite history.
type SalesSummary struct {
	Period Period `json:"period"`

	InvoiceCount int64       `json:"invoiceCount"`
	ItemsSold    int64       `json:"itemsSold"`
	Gross        types.Money `json:"gross"`
	Discounts    types.Money `json:"discounts"`
	Tax          types.Money `json:"tax"`
	Net          types.Money `json:"net"`
	CostOfGoods  types.Money `json:"costOfGoods"`
	Profit       types.Money `json:"profit"`

	ByMethod []MethodTotal `json:"byMethod"`
}

// Repository reads report aggregates.
type Repository interface {
	SalesSummary(ctx context.Context, p Period) (*SalesSummary, error)
}

// Service exposes the reporting surface.
type Service struct {
	repo Repository
}

// NewService creates the reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SalesSummary aggregates completed sales over the period.
func (s *Service) SalesSummary(ctx context.Context, p Period) (*SalesSummary, error) {
	if err := p.Normalize(); err != nil {
		return nil, err
	}

	summary, err := s.repo.SalesSummary(ctx, p)
	if err != nil {
		return nil, err
	}
	summary.Period = p
	summary.Profit = summary.Net.Sub(summary.Tax).Sub(summary.CostOfGoods)
	return summary, nil
}
