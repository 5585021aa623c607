package pricing

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"jewel-pricing/internal/errors"
)

// WholesaleType selects how a wholesale price is derived
type WholesaleType string

const (
	// WholesalePercentageOfRetail prices wholesale as a fraction of retail
	WholesalePercentageOfRetail WholesaleType = "percentage_of_retail"

	// WholesaleBusinessMultiplierAdjustment scales the business multiplier down
	WholesaleBusinessMultiplierAdjustment WholesaleType = "business_multiplier_adjustment"

	// WholesaleFormulaBased adds half the proportional business fees to base cost
	WholesaleFormulaBased WholesaleType = "formula_based"
)

// Default pricing configuration
const (
	DefaultWage                       = 50.00
	DefaultMaterialMarkup             = 2.0
	MinimumMaterialMarkup             = 2.0
	DefaultAdministrativeFee          = 0.10
	DefaultBusinessFee                = 0.15
	DefaultConsumablesFee             = 0.05
	DefaultMinimumBusinessMultiplier  = 2.0
	DefaultWholesalePercentage        = 0.5
	DefaultWholesaleAdjustment        = 0.75
	DefaultWholesaleMinimumMultiplier = 1.5
	DefaultWholesaleType              = WholesaleFormulaBased

	// OtherMetal is the complexity table entry used for unknown metal types
	OtherMetal = "other"
)

// DefaultMetalComplexityMultipliers returns a fresh copy of the built-in table
func DefaultMetalComplexityMultipliers() map[string]float64 {
	return map[string]float64{
		"gold":     1.0,
		"silver":   0.9,
		"platinum": 1.3,
		OtherMetal: 1.0,
	}
}

// AdminSettings is the caller-owned pricing configuration. Every field is
// optional; Resolve fills in defaults. The engine never mutates it.
type AdminSettings struct {
	// Pricing holds wage, markup, fees and wholesale configuration
	Pricing *PricingSettings `json:"pricing,omitempty" hcl:"pricing,block"`

	// MetalComplexityMultipliers overlays the default metal table
	MetalComplexityMultipliers map[string]float64 `json:"metalComplexityMultipliers,omitempty" hcl:"metal_complexity_multipliers,optional"`
}

// PricingSettings contains the pricing block of the admin settings
type PricingSettings struct {
	// Wage is the base hourly rate for standard skill
	Wage *float64 `json:"wage,omitempty" hcl:"wage,optional"`

	// MaterialMarkup multiplies raw material cost; floored at 2.0
	MaterialMarkup *float64 `json:"materialMarkup,omitempty" hcl:"material_markup,optional"`

	// AdministrativeFee, BusinessFee and ConsumablesFee are fractions in [0,1]
	AdministrativeFee *float64 `json:"administrativeFee,omitempty" hcl:"administrative_fee,optional"`
	BusinessFee       *float64 `json:"businessFee,omitempty" hcl:"business_fee,optional"`
	ConsumablesFee    *float64 `json:"consumablesFee,omitempty" hcl:"consumables_fee,optional"`

	// MinimumBusinessMultiplier is the retail safety floor
	MinimumBusinessMultiplier *float64 `json:"minimumBusinessMultiplier,omitempty" hcl:"minimum_business_multiplier,optional"`

	// WholesaleConfig selects and parameterizes the wholesale strategy
	WholesaleConfig *WholesaleConfig `json:"wholesaleConfig,omitempty" hcl:"wholesale,block"`
}

// WholesaleConfig configures the wholesale price calculation
type WholesaleConfig struct {
	Type              string   `json:"type,omitempty" hcl:"type,optional"`
	Percentage        *float64 `json:"percentage,omitempty" hcl:"percentage,optional"`
	Adjustment        *float64 `json:"adjustment,omitempty" hcl:"adjustment,optional"`
	MinimumMultiplier *float64 `json:"minimumMultiplier,omitempty" hcl:"minimum_multiplier,optional"`
}

// Settings is the resolved, validated form of AdminSettings. All defaults
// and floors have been applied.
type Settings struct {
	Wage decimal.Decimal `json:"wage"`

	// MaterialMarkup is the effective markup after the floor
	MaterialMarkup decimal.Decimal `json:"materialMarkup"`

	// ConfiguredMaterialMarkup is the markup before the floor
	ConfiguredMaterialMarkup decimal.Decimal `json:"configuredMaterialMarkup"`

	AdministrativeFee         decimal.Decimal `json:"administrativeFee"`
	BusinessFee               decimal.Decimal `json:"businessFee"`
	ConsumablesFee            decimal.Decimal `json:"consumablesFee"`
	MinimumBusinessMultiplier decimal.Decimal `json:"minimumBusinessMultiplier"`

	Wholesale WholesaleSettings `json:"wholesale"`

	// MetalComplexity is keyed by lower-case metal name and always has an "other" entry
	MetalComplexity map[string]decimal.Decimal `json:"metalComplexity"`
}

// WholesaleSettings is the resolved wholesale configuration
type WholesaleSettings struct {
	Type              WholesaleType   `json:"type"`
	Percentage        decimal.Decimal `json:"percentage"`
	Adjustment        decimal.Decimal `json:"adjustment"`
	MinimumMultiplier decimal.Decimal `json:"minimumMultiplier"`
}

// Resolve applies defaults and floors and validates every configured value.
// A nil receiver resolves to the defaults.
func (a *AdminSettings) Resolve() (*Settings, error) {
	p := &PricingSettings{}
	if a != nil && a.Pricing != nil {
		p = a.Pricing
	}

	s := &Settings{}
	var err error

	if s.Wage, err = withDefault("pricing.wage", p.Wage, DefaultWage, requireNonNegative); err != nil {
		return nil, err
	}

	if s.ConfiguredMaterialMarkup, err = withDefault("pricing.materialMarkup", p.MaterialMarkup, DefaultMaterialMarkup, requireFinite); err != nil {
		return nil, err
	}
	s.MaterialMarkup = decimal.Max(s.ConfiguredMaterialMarkup, decimal.NewFromFloat(MinimumMaterialMarkup))

	if s.AdministrativeFee, err = withDefault("pricing.administrativeFee", p.AdministrativeFee, DefaultAdministrativeFee, requireFraction); err != nil {
		return nil, err
	}
	if s.BusinessFee, err = withDefault("pricing.businessFee", p.BusinessFee, DefaultBusinessFee, requireFraction); err != nil {
		return nil, err
	}
	if s.ConsumablesFee, err = withDefault("pricing.consumablesFee", p.ConsumablesFee, DefaultConsumablesFee, requireFraction); err != nil {
		return nil, err
	}
	if s.MinimumBusinessMultiplier, err = withDefault("pricing.minimumBusinessMultiplier", p.MinimumBusinessMultiplier, DefaultMinimumBusinessMultiplier, requirePositive); err != nil {
		return nil, err
	}

	if s.Wholesale, err = resolveWholesale(p.WholesaleConfig); err != nil {
		return nil, err
	}

	var metals map[string]float64
	if a != nil {
		metals = a.MetalComplexityMultipliers
	}
	if s.MetalComplexity, err = resolveMetalComplexity(metals); err != nil {
		return nil, err
	}

	return s, nil
}

func resolveWholesale(cfg *WholesaleConfig) (WholesaleSettings, error) {
	if cfg == nil {
		cfg = &WholesaleConfig{}
	}

	w := WholesaleSettings{Type: DefaultWholesaleType}
	if t := strings.TrimSpace(cfg.Type); t != "" {
		w.Type = WholesaleType(strings.ToLower(t))
		if _, ok := wholesaleStrategies[w.Type]; !ok {
			return WholesaleSettings{}, errors.RangeErrorf(
				"pricing.wholesaleConfig.type must be one of %s, got %q",
				strings.Join(WholesaleTypes(), ", "), cfg.Type)
		}
	}

	var err error
	if w.Percentage, err = withDefault("pricing.wholesaleConfig.percentage", cfg.Percentage, DefaultWholesalePercentage, requireNonNegative); err != nil {
		return WholesaleSettings{}, err
	}
	if w.Adjustment, err = withDefault("pricing.wholesaleConfig.adjustment", cfg.Adjustment, DefaultWholesaleAdjustment, requireNonNegative); err != nil {
		return WholesaleSettings{}, err
	}
	if w.MinimumMultiplier, err = withDefault("pricing.wholesaleConfig.minimumMultiplier", cfg.MinimumMultiplier, DefaultWholesaleMinimumMultiplier, requirePositive); err != nil {
		return WholesaleSettings{}, err
	}
	return w, nil
}

func resolveMetalComplexity(configured map[string]float64) (map[string]decimal.Decimal, error) {
	table := make(map[string]decimal.Decimal)
	for metal, m := range DefaultMetalComplexityMultipliers() {
		table[metal] = decimal.NewFromFloat(m)
	}

	// Sorted so that the first reported error is stable.
	names := make([]string, 0, len(configured))
	for name := range configured {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		key := normalizeMetal(name)
		if key == "" {
			return nil, errors.TypeErrorf("metalComplexityMultipliers contains an empty metal name")
		}
		m, err := requirePositive("metalComplexityMultipliers."+name, configured[name])
		if err != nil {
			return nil, err
		}
		table[key] = m
	}
	return table, nil
}

// MetalMultiplier looks up a metal type. An empty metal type is neutral;
// unknown metals use the "other" entry.
func (s *Settings) MetalMultiplier(metalType string) decimal.Decimal {
	key := normalizeMetal(metalType)
	if key == "" {
		return one
	}
	if m, ok := s.MetalComplexity[key]; ok {
		return m
	}
	if m, ok := s.MetalComplexity[OtherMetal]; ok {
		return m
	}
	return one
}

// MaterialMarkupFloored reports whether the configured markup was raised to the floor
func (s *Settings) MaterialMarkupFloored() bool {
	return s.ConfiguredMaterialMarkup.LessThan(s.MaterialMarkup)
}

func normalizeMetal(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func withDefault(
	path string,
	v *float64,
	def float64,
	check func(string, float64) (decimal.Decimal, error),
) (decimal.Decimal, error) {
	if v == nil {
		return decimal.NewFromFloat(def), nil
	}
	return check(path, *v)
}

// Float64 is a helper for building optional settings fields
func Float64(v float64) *float64 {
	return &v
}
