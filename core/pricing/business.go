package pricing

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RawBusinessMultiplier is 1 + administrative + business + consumables fees
func (s *Settings) RawBusinessMultiplier() decimal.Decimal {
	return one.Add(s.AdministrativeFee).Add(s.BusinessFee).Add(s.ConsumablesFee)
}

// BusinessMultiplier is the raw multiplier raised to the configured floor
func (s *Settings) BusinessMultiplier() decimal.Decimal {
	return decimal.Max(s.RawBusinessMultiplier(), s.MinimumBusinessMultiplier)
}

func (e *Engine) businessMultiplier(s *Settings) decimal.Decimal {
	raw := s.RawBusinessMultiplier()
	if raw.LessThan(s.MinimumBusinessMultiplier) {
		e.logger.Debug("business multiplier raised to floor",
			zap.String("raw", raw.String()),
			zap.String("floor", s.MinimumBusinessMultiplier.String()))
		return s.MinimumBusinessMultiplier
	}
	return raw
}

func (e *Engine) applyBusinessMultiplier(baseCost decimal.Decimal, s *Settings) decimal.Decimal {
	if baseCost.IsZero() {
		return decimal.Zero
	}
	return baseCost.Mul(e.businessMultiplier(s))
}

// BusinessMultiplier returns the effective retail multiplier
func (e *Engine) BusinessMultiplier(settings *AdminSettings) (decimal.Decimal, error) {
	s, err := e.resolve(settings)
	if err != nil {
		return decimal.Zero, err
	}
	return e.businessMultiplier(s), nil
}

// ApplyBusinessMultiplier converts a base cost into a retail price
func (e *Engine) ApplyBusinessMultiplier(baseCost float64, settings *AdminSettings) (decimal.Decimal, error) {
	base, err := requireNonNegative("baseCost", baseCost)
	if err != nil {
		return decimal.Zero, err
	}
	if base.IsZero() {
		return decimal.Zero, nil
	}
	s, err := e.resolve(settings)
	if err != nil {
		return decimal.Zero, err
	}
	return e.applyBusinessMultiplier(base, s), nil
}
