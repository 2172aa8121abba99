package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate_SingleLine(t *testing.T) {
	totals := Calculate([]Line{
		{UnitPrice: 10, CostPrice: 7, Quantity: 3, DiscountPercent: 10, GSTPerUnit: 1},
	}, 5)

	// 30 - 3 + 3 = 30, minus global discount 5.
	assert.Equal(t, 30.00, totals.Subtotal)
	assert.Equal(t, 5.00, totals.GlobalDiscount)
	assert.Equal(t, 25.00, totals.GrandTotal)
	assert.Equal(t, 3, totals.ItemCount)
	// (10-7)*3 - 3 - 5 = 1
	assert.Equal(t, 1.00, totals.Profit)
}

func TestCalculate_EmptyCart(t *testing.T) {
	totals := Calculate(nil, 10)

	assert.Equal(t, 0.00, totals.Subtotal)
	assert.Equal(t, 0.00, totals.GlobalDiscount)
	assert.Equal(t, 0.00, totals.GrandTotal)
	assert.Equal(t, 0.00, totals.Profit)
	assert.Equal(t, 0, totals.ItemCount)
}

func TestCalculate_DiscountCappedAtSubtotal(t *testing.T) {
	totals := Calculate([]Line{
		{UnitPrice: 5, Quantity: 2},
	}, 100)

	assert.Equal(t, 10.00, totals.Subtotal)
	assert.Equal(t, 10.00, totals.GlobalDiscount)
	assert.Equal(t, 0.00, totals.GrandTotal)
}

func TestCalculate_NegativeDiscountIgnored(t *testing.T) {
	totals := Calculate([]Line{
		{UnitPrice: 5, Quantity: 2},
	}, -20)

	assert.Equal(t, 0.00, totals.GlobalDiscount)
	assert.Equal(t, 10.00, totals.GrandTotal)
}

func TestCalculate_GrandTotalNeverNegative(t *testing.T) {
	carts := [][]Line{
		{{UnitPrice: 1.99, Quantity: 1, DiscountPercent: 100}},
		{{UnitPrice: 12.49, Quantity: 7, DiscountPercent: 33.3, GSTPerUnit: 0.62}},
		{{UnitPrice: 0, Quantity: 5}},
		{
			{UnitPrice: 3.33, Quantity: 2, DiscountPercent: 50},
			{UnitPrice: 99.99, Quantity: 1, GSTPerUnit: 5},
		},
	}
	discounts := []float64{0, 1, 50, 1000}

	for _, cart := range carts {
		for _, discount := range discounts {
			totals := Calculate(cart, discount)
			assert.GreaterOrEqual(t, totals.GrandTotal, 0.00)
			assert.GreaterOrEqual(t, totals.GlobalDiscount, 0.00)
			assert.LessOrEqual(t, totals.GlobalDiscount, totals.Subtotal)
			assert.InDelta(t, totals.Subtotal-totals.GlobalDiscount, totals.GrandTotal, 0.011)
		}
	}
}

func TestCalculate_RoundingAtOutputOnly(t *testing.T) {
	// Each line total is a repeating fraction; rounding per line would drift.
	totals := Calculate([]Line{
		{UnitPrice: 0.10, Quantity: 3, DiscountPercent: 33.333},
		{UnitPrice: 0.10, Quantity: 3, DiscountPercent: 33.333},
		{UnitPrice: 0.10, Quantity: 3, DiscountPercent: 33.333},
	}, 0)

	// 3 * (0.3 - 0.0999...) = 0.60003 -> 0.60
	assert.Equal(t, 0.60, totals.Subtotal)
}

func TestEffectiveCostPrice_Fallback(t *testing.T) {
	assert.Equal(t, 7.0, EffectiveCostPrice(7, 10))
	assert.InDelta(t, 7.0, EffectiveCostPrice(0, 10), 1e-9)
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, 30.00, LineTotal(Line{UnitPrice: 10, Quantity: 3, DiscountPercent: 10, GSTPerUnit: 1}))
}
