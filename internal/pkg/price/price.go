// Package price provides price normalization helpers.
package price

import "github.com/shopspring/decimal"

// RoundToStep snaps a raw quote to the instrument's minimum price step.
// Decimal arithmetic avoids the float drift that plain multiplication
// accumulates on small steps. A non-positive step returns raw unchanged.
func RoundToStep(raw, step float64) float64 {
	if step <= 0 {
		return raw
	}
	r := decimal.NewFromFloat(raw)
	s := decimal.NewFromFloat(step)
	out, _ := r.Div(s).Round(0).Mul(s).Float64()
	return out
}
