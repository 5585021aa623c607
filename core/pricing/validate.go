package pricing

import (
	"math"

	"github.com/shopspring/decimal"

	"jewel-pricing/internal/errors"
)

var one = decimal.NewFromInt(1)

// requireFinite converts v to a decimal, rejecting NaN and infinities.
func requireFinite(path string, v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, errors.TypeErrorf("%s must be a finite number, got %v", path, v)
	}
	return decimal.NewFromFloat(v), nil
}

func requireNonNegative(path string, v float64) (decimal.Decimal, error) {
	d, err := requireFinite(path, v)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errors.RangeErrorf("%s must be non-negative, got %v", path, v)
	}
	return d, nil
}

func requirePositive(path string, v float64) (decimal.Decimal, error) {
	d, err := requireFinite(path, v)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, errors.RangeErrorf("%s must be greater than zero, got %v", path, v)
	}
	return d, nil
}

// optionalQuantity returns 1 for an omitted quantity. An explicit value
// must be a positive finite number; zero is rejected, not skipped.
func optionalQuantity(path string, q *float64) (decimal.Decimal, error) {
	if q == nil {
		return one, nil
	}
	return requirePositive(path, *q)
}

// requireFraction accepts values in [0, 1].
func requireFraction(path string, v float64) (decimal.Decimal, error) {
	d, err := requireNonNegative(path, v)
	if err != nil {
		return decimal.Zero, err
	}
	if d.GreaterThan(one) {
		return decimal.Zero, errors.RangeErrorf("%s must be between 0 and 1, got %v", path, v)
	}
	return d, nil
}
