package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// amount coerces a monetary field to a non-negative decimal. NaN, infinities
// and negative values count as zero.
func amount(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// quantity coerces a line quantity to at least one unit.
func quantity(q int) decimal.Decimal {
	if q < 1 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(int64(q))
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func toFloat(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
