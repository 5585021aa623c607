package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"jewel-pricing/internal/errors"
)

var two = decimal.NewFromInt(2)

// wholesaleStrategy produces a candidate price before the floor is applied
type wholesaleStrategy func(e *Engine, retail, base decimal.Decimal, s *Settings) decimal.Decimal

var wholesaleStrategies = map[WholesaleType]wholesaleStrategy{
	WholesalePercentageOfRetail: func(_ *Engine, retail, _ decimal.Decimal, s *Settings) decimal.Decimal {
		return retail.Mul(s.Wholesale.Percentage)
	},
	WholesaleBusinessMultiplierAdjustment: func(e *Engine, _, base decimal.Decimal, s *Settings) decimal.Decimal {
		return base.Mul(e.businessMultiplier(s).Mul(s.Wholesale.Adjustment))
	},
	WholesaleFormulaBased: func(_ *Engine, _, base decimal.Decimal, s *Settings) decimal.Decimal {
		fees := s.AdministrativeFee.Mul(base).
			Add(s.BusinessFee.Mul(base)).
			Add(s.ConsumablesFee.Mul(base))
		return base.Add(fees.Div(two))
	},
}

// WholesaleTypes lists the supported strategies
func WholesaleTypes() []string {
	types := make([]string, 0, len(wholesaleStrategies))
	for t := range wholesaleStrategies {
		types = append(types, string(t))
	}
	sort.Strings(types)
	return types
}

func (e *Engine) wholesalePrice(retail, base decimal.Decimal, s *Settings) (decimal.Decimal, error) {
	if retail.LessThan(base) {
		return decimal.Zero, errors.RangeErrorf(
			"retail price %s is below base cost %s", retail.String(), base.String()).
			WithContext("retailPrice", retail.String()).
			WithContext("baseCost", base.String())
	}

	candidate := wholesaleStrategies[s.Wholesale.Type](e, retail, base, s)
	floor := base.Mul(s.Wholesale.MinimumMultiplier)
	if candidate.LessThan(floor) {
		e.logger.Debug("wholesale price raised to floor",
			zap.String("strategy", string(s.Wholesale.Type)),
			zap.String("candidate", candidate.String()),
			zap.String("floor", floor.String()))
		return floor, nil
	}
	return candidate, nil
}

// WholesalePrice derives a wholesale price from retail price and base cost.
// A retail price below base cost is rejected.
func (e *Engine) WholesalePrice(retailPrice, baseCost float64, settings *AdminSettings) (decimal.Decimal, error) {
	retail, err := requireNonNegative("retailPrice", retailPrice)
	if err != nil {
		return decimal.Zero, err
	}
	base, err := requireNonNegative("baseCost", baseCost)
	if err != nil {
		return decimal.Zero, err
	}
	s, err := e.resolve(settings)
	if err != nil {
		return decimal.Zero, err
	}
	return e.wholesalePrice(retail, base, s)
}
