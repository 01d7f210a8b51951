// Package allocation splits a fixed monetary total across weighted shares
// with exact decimal arithmetic. No cent is lost or gained: every result
// sequence sums to the quantized total exactly, with all rounding drift
// absorbed by the last element.
package allocation

import (
	"github.com/shopspring/decimal"

	"fjacquet/donation-docs/internal/textutils"
)

// Proportional allocates total across shares in proportion to each share's
// weight, quantized to cents. Invalid (absent) shares count as zero weight.
// The returned slice has the same length as shares; it sums exactly to
// textutils.QuantizeToCents(total) because the last element receives the
// remainder after all prior quantized allocations. Callers that care about
// who absorbs the rounding drift control it by ordering the input.
//
// A zero share sum (including all-zero and all-absent inputs) yields a slice
// of 0.00 values; empty input yields an empty slice. Neither is an error.
func Proportional(total decimal.Decimal, shares []decimal.NullDecimal) []decimal.Decimal {
	if len(shares) == 0 {
		return []decimal.Decimal{}
	}

	sum := decimal.Zero
	for _, s := range shares {
		if s.Valid {
			sum = sum.Add(s.Decimal)
		}
	}

	allocated := make([]decimal.Decimal, len(shares))
	if sum.IsZero() {
		zero := textutils.QuantizeToCents(decimal.Zero)
		for i := range allocated {
			allocated[i] = zero
		}
		return allocated
	}

	running := decimal.Zero
	last := len(shares) - 1
	for i, s := range shares {
		if i == last {
			// Remainder absorption: whatever rounding left over, the final
			// element makes the sum exact.
			allocated[i] = textutils.QuantizeToCents(total.Sub(running))
			break
		}
		weight := decimal.Zero
		if s.Valid {
			weight = s.Decimal
		}
		part := textutils.QuantizeToCents(total.Mul(weight).Div(sum))
		allocated[i] = part
		running = running.Add(part)
	}
	return allocated
}
