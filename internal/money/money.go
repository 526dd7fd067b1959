// Package money rounds and formats currency amounts for display.
//
// Calculations elsewhere stay in unrounded float64; amounts pass through
// here exactly once, at the display or wire boundary. Rounding goes via
// the shortest decimal representation of the float, so 16.495 becomes
// 16.50 rather than falling to 16.49 on its binary approximation.
package money

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits shown for an amount.
const Places = 2

// Round rounds an amount to cents, half away from zero.
// NaN and infinities are returned unchanged.
func Round(amount float64) float64 {
	if !finite(amount) {
		return amount
	}
	f, _ := decimal.NewFromFloat(amount).Round(Places).Float64()
	return f
}

// String renders an amount with exactly two decimals, without a symbol.
func String(amount float64) string {
	if !finite(amount) {
		return nonFinite(amount)
	}
	return decimal.NewFromFloat(amount).StringFixed(Places)
}

// Format renders an amount as dollars, e.g. "$16.50" or "-$3.10".
func Format(amount float64) string {
	if !finite(amount) {
		return nonFinite(amount)
	}
	d := decimal.NewFromFloat(amount).Round(Places)
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(Places)
	}
	return "$" + d.StringFixed(Places)
}

// Percent renders a rate given as a fraction, e.g. 0.08875 -> "8.9%".
func Percent(rate float64) string {
	if !finite(rate) {
		return nonFinite(rate) + "%"
	}
	return decimal.NewFromFloat(rate).Shift(2).StringFixed(1) + "%"
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// nonFinite renders NaN or an infinity, which decimal cannot represent.
func nonFinite(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
