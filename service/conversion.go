package service

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// ErrAmountOutOfRange is returned when a converted amount does not fit in int64.
var ErrAmountOutOfRange = errors.New("converted amount out of range")

var (
	maxUnits = decimal.NewFromInt(math.MaxInt64)
	minUnits = decimal.NewFromInt(math.MinInt64)
)

// Converter applies the fixed foreign-to-local exchange rate in both directions.
// Results are rounded to the nearest integer, halves away from zero.
type Converter struct {
	rate decimal.Decimal
}

func NewConverter(rate decimal.Decimal) Converter {
	return Converter{rate: rate}
}

// ToLocal converts a foreign amount into local currency units.
func (c Converter) ToLocal(amount decimal.Decimal) (int64, error) {
	local := amount.Mul(c.rate).Round(0)
	if local.GreaterThan(maxUnits) || local.LessThan(minUnits) {
		return 0, ErrAmountOutOfRange
	}
	return local.IntPart(), nil
}

// ToForeign is the inverse of ToLocal; lossy for non-integer foreign amounts.
func (c Converter) ToForeign(totalSum decimal.Decimal) int64 {
	return totalSum.Div(c.rate).Round(0).IntPart()
}
