// Package pricing computes cart totals. The same calculation backs the
// sales cart, the purchase cart and the exchange replacement cart, so
// the functions here are pure and never touch storage.
package pricing

import (
	"retailpos/internal/core/apperror"
	"retailpos/internal/core/types"
)

// DiscountMode selects how the invoice-level discount is expressed.
type DiscountMode string

const (
	// DiscountPercent interprets the value as a percentage of the subtotal
	DiscountPercent DiscountMode = "percent"
	// DiscountAmount interprets the value as a flat amount
	DiscountAmount DiscountMode = "amount"
)

// Line is one cart row.
type Line struct {
	VariantID int64
	Qty       int64
	UnitPrice types.Money

	// LineDiscount is a flat per-line reduction, applied before the
	// invoice-level discount
	LineDiscount types.Money
}

// Input is everything the calculation needs.
type Input struct {
	Lines []Line

	DiscountMode  DiscountMode
	DiscountValue types.Money

	// TaxRate is a percentage (e.g. 15 for 15%)
	TaxRate    types.Money
	TaxEnabled bool
}

// Totals is the computed money breakdown.
// Total = Subtotal - DiscountAmount + TaxAmount always holds.
type Totals struct {
	Subtotal        types.Money `json:"subtotal"`
	DiscountAmount  types.Money `json:"discountAmount"`
	DiscountPercent types.Money `json:"discountPercent"`
	TaxAmount       types.Money `json:"taxAmount"`
	Total           types.Money `json:"total"`
}

// Calculate computes cart totals. Amounts are rounded to 2 decimal
// places at the aggregate level, not per line, so the breakdown
// identity survives rounding.
func Calculate(in Input) (Totals, error) {
	if len(in.Lines) == 0 {
		return Totals{}, apperror.NewEmptyCart()
	}

	subtotal := types.Zero()
	for i, line := range in.Lines {
		if line.Qty <= 0 {
			return Totals{}, apperror.NewValidation("line quantity must be positive").
				WithDetail("line", i).
				WithDetail("qty", line.Qty)
		}
		if line.UnitPrice.IsNegative() {
			return Totals{}, apperror.NewValidation("unit price cannot be negative").
				WithDetail("line", i)
		}
		if line.LineDiscount.IsNegative() {
			return Totals{}, apperror.NewValidation("line discount cannot be negative").
				WithDetail("line", i)
		}

		lineTotal := line.UnitPrice.Mul(types.NewMoneyFromInt(line.Qty)).Sub(line.LineDiscount)
		if lineTotal.IsNegative() {
			return Totals{}, apperror.NewValidation("line discount exceeds line total").
				WithDetail("line", i)
		}
		subtotal = subtotal.Add(lineTotal)
	}
	subtotal = subtotal.Round(2)

	discountAmount, discountPercent, err := resolveDiscount(in, subtotal)
	if err != nil {
		return Totals{}, err
	}

	taxable := subtotal.Sub(discountAmount)
	taxAmount := types.Zero()
	if in.TaxEnabled && in.TaxRate.IsPositive() {
		taxAmount = taxable.Mul(in.TaxRate).Div(types.Hundred).Round(2)
	}

	return Totals{
		Subtotal:        subtotal,
		DiscountAmount:  discountAmount,
		DiscountPercent: discountPercent,
		TaxAmount:       taxAmount,
		Total:           taxable.Add(taxAmount),
	}, nil
}

func resolveDiscount(in Input, subtotal types.Money) (amount, percent types.Money, err error) {
	amount = types.Zero()
	percent = types.Zero()

	if in.DiscountValue.IsZero() {
		return amount, percent, nil
	}
	if in.DiscountValue.IsNegative() {
		return amount, percent, apperror.NewValidation("discount cannot be negative").
			WithDetail("discount", in.DiscountValue.String())
	}

	switch in.DiscountMode {
	case DiscountPercent:
		if in.DiscountValue.GreaterThan(types.Hundred) {
			return amount, percent, apperror.NewValidation("discount percent cannot exceed 100").
				WithDetail("discount", in.DiscountValue.String())
		}
		percent = in.DiscountValue
		amount = subtotal.Mul(percent).Div(types.Hundred).Round(2)
	case DiscountAmount, "":
		if in.DiscountValue.GreaterThan(subtotal) {
			return amount, percent, apperror.NewValidation("discount cannot exceed subtotal").
				WithDetail("discount", in.DiscountValue.String()).
				WithDetail("subtotal", subtotal.String())
		}
		amount = in.DiscountValue.Round(2)
		if subtotal.IsPositive() {
			percent = amount.Mul(types.Hundred).Div(subtotal).Round(2)
		}
	default:
		return amount, percent, apperror.NewValidation("unknown discount mode").
			WithDetail("mode", string(in.DiscountMode))
	}

	return amount, percent, nil
}
