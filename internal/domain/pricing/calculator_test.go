package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/types"
)

func money(s string) types.Money {
	return types.MustMoney(s)
}

func TestCalculate_NoDiscountNoTax(t *testing.T) {
	totals, err := Calculate(Input{
		Lines: []Line{
			{VariantID: 1, Qty: 2, UnitPrice: money("50")},
			{VariantID: 2, Qty: 1, UnitPrice: money("30")},
		},
	})
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(money("130")), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.DiscountAmount.IsZero())
	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.Total.Equal(money("130")))
}

func TestCalculate_PercentDiscountWithTax(t *testing.T) {
	totals, err := Calculate(Input{
		Lines: []Line{
			{VariantID: 1, Qty: 2, UnitPrice: money("100")},
		},
		DiscountMode:  DiscountPercent,
		DiscountValue: money("10"),
		TaxRate:       money("15"),
		TaxEnabled:    true,
	})
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(money("200")))
	assert.True(t, totals.DiscountAmount.Equal(money("20")))
	assert.True(t, totals.DiscountPercent.Equal(money("10")))
	// tax applies after discount: 180 * 15% = 27
	assert.True(t, totals.TaxAmount.Equal(money("27")), "tax %s", totals.TaxAmount)
	assert.True(t, totals.Total.Equal(money("207")), "total %s", totals.Total)
}

func TestCalculate_FlatDiscount(t *testing.T) {
	totals, err := Calculate(Input{
		Lines: []Line{
			{VariantID: 1, Qty: 4, UnitPrice: money("25")},
		},
		DiscountMode:  DiscountAmount,
		DiscountValue: money("15"),
	})
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(money("100")))
	assert.True(t, totals.DiscountAmount.Equal(money("15")))
	assert.True(t, totals.DiscountPercent.Equal(money("15")))
	assert.True(t, totals.Total.Equal(money("85")))
}

func TestCalculate_LineDiscount(t *testing.T) {
	totals, err := Calculate(Input{
		Lines: []Line{
			{VariantID: 1, Qty: 2, UnitPrice: money("50"), LineDiscount: money("10")},
			{VariantID: 2, Qty: 1, UnitPrice: money("30")},
		},
	})
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(money("120")))
	assert.True(t, totals.Total.Equal(money("120")))
}

func TestCalculate_BreakdownIdentity(t *testing.T) {
	// Total = Subtotal - DiscountAmount + TaxAmount must survive rounding.
	totals, err := Calculate(Input{
		Lines: []Line{
			{VariantID: 1, Qty: 3, UnitPrice: money("33.33")},
		},
		DiscountMode:  DiscountPercent,
		DiscountValue: money("7.5"),
		TaxRate:       money("15"),
		TaxEnabled:    true,
	})
	require.NoError(t, err)

	reassembled := totals.Subtotal.Sub(totals.DiscountAmount).Add(totals.TaxAmount)
	assert.True(t, totals.Total.Equal(reassembled),
		"total %s != %s", totals.Total, reassembled)
}

func TestCalculate_TaxDisabled(t *testing.T) {
	totals, err := Calculate(Input{
		Lines:      []Line{{VariantID: 1, Qty: 1, UnitPrice: money("100")}},
		TaxRate:    money("15"),
		TaxEnabled: false,
	})
	require.NoError(t, err)
	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.Total.Equal(money("100")))
}

func TestCalculate_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		code string
	}{
		{
			name: "empty cart",
			in:   Input{},
			code: apperror.CodeEmptyCart,
		},
		{
			name: "zero qty",
			in: Input{
				Lines: []Line{{VariantID: 1, Qty: 0, UnitPrice: money("10")}},
			},
			code: apperror.CodeValidation,
		},
		{
			name: "negative price",
			in: Input{
				Lines: []Line{{VariantID: 1, Qty: 1, UnitPrice: money("-10")}},
			},
			code: apperror.CodeValidation,
		},
		{
			name: "discount over 100 percent",
			in: Input{
				Lines:         []Line{{VariantID: 1, Qty: 1, UnitPrice: money("10")}},
				DiscountMode:  DiscountPercent,
				DiscountValue: money("120"),
			},
			code: apperror.CodeValidation,
		},
		{
			name: "flat discount exceeds subtotal",
			in: Input{
				Lines:         []Line{{VariantID: 1, Qty: 1, UnitPrice: money("10")}},
				DiscountMode:  DiscountAmount,
				DiscountValue: money("11"),
			},
			code: apperror.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.in)
			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, tt.code), "got %v", err)
		})
	}
}
