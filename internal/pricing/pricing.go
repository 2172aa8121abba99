// Package pricing is the single source of truth for order totals. Every
// caller (counter sales, dealer sales, receipts, dashboard rollups) prices a
// cart through Calculate; nothing else re-implements the formula.
package pricing

import "math"

// DefaultCostPriceRatio is the margin heuristic applied when a medicine has
// no recorded cost price: cost is assumed to be 70% of the selling price.
const DefaultCostPriceRatio = 0.7

// Line is one cart entry: a pricing snapshot of a medicine at sale time.
type Line struct {
	UnitPrice       float64
	CostPrice       float64
	Quantity        int
	DiscountPercent float64
	GSTPerUnit      float64
}

// Totals is the derived order summary. Amounts are rounded to two decimal
// places at this boundary only; intermediate line math is unrounded.
type Totals struct {
	Subtotal       float64
	GlobalDiscount float64
	GrandTotal     float64
	Profit         float64
	ItemCount      int
}

// EffectiveCostPrice resolves the cost basis for a line, falling back to the
// margin heuristic when no cost price is recorded.
func EffectiveCostPrice(costPrice, unitPrice float64) float64 {
	if costPrice > 0 {
		return costPrice
	}
	return unitPrice * DefaultCostPriceRatio
}

// Calculate derives order totals from cart lines and an order-level discount
// amount. The global discount is capped at the subtotal, so the grand total
// never goes negative. An empty cart yields all-zero totals.
func Calculate(lines []Line, discountAmount float64) Totals {
	var subtotal, profit float64
	var itemCount int

	for _, line := range lines {
		qty := float64(line.Quantity)
		lineSubtotal := line.UnitPrice * qty
		lineDiscount := lineSubtotal * line.DiscountPercent / 100
		lineGST := line.GSTPerUnit * qty

		subtotal += lineSubtotal - lineDiscount + lineGST

		cost := EffectiveCostPrice(line.CostPrice, line.UnitPrice)
		profit += (line.UnitPrice-cost)*qty - lineDiscount

		itemCount += line.Quantity
	}

	globalDiscount := discountAmount
	if globalDiscount < 0 {
		globalDiscount = 0
	}
	if globalDiscount > subtotal {
		globalDiscount = subtotal
	}

	return Totals{
		Subtotal:       Round2(subtotal),
		GlobalDiscount: Round2(globalDiscount),
		GrandTotal:     Round2(subtotal - globalDiscount),
		Profit:         Round2(profit - globalDiscount),
		ItemCount:      itemCount,
	}
}

// LineTotal prices a single line (after its discount, including GST).
func LineTotal(line Line) float64 {
	qty := float64(line.Quantity)
	lineSubtotal := line.UnitPrice * qty
	lineDiscount := lineSubtotal * line.DiscountPercent / 100
	return Round2(lineSubtotal - lineDiscount + line.GSTPerUnit*qty)
}

// Round2 rounds a currency amount to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
