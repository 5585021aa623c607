package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"jewel-pricing/internal/errors"
)

// SkillLevel is a labor grade that scales the base wage
type SkillLevel string

const (
	SkillBasic    SkillLevel = "basic"
	SkillStandard SkillLevel = "standard"
	SkillAdvanced SkillLevel = "advanced"
	SkillExpert   SkillLevel = "expert"
)

var skillMultipliers = map[SkillLevel]decimal.Decimal{
	SkillBasic:    decimal.RequireFromString("0.75"),
	SkillStandard: decimal.RequireFromString("1.0"),
	SkillAdvanced: decimal.RequireFromString("1.25"),
	SkillExpert:   decimal.RequireFromString("1.5"),
}

// SkillLevels lists the accepted skill levels in ascending order
func SkillLevels() []SkillLevel {
	return []SkillLevel{SkillBasic, SkillStandard, SkillAdvanced, SkillExpert}
}

// Multiplier returns the wage multiplier for a known level
func (l SkillLevel) Multiplier() (decimal.Decimal, bool) {
	m, ok := skillMultipliers[l]
	return m, ok
}

// ParseSkillLevel is the strict parser used by public entry points.
// A missing level is a type error, an unknown one a range error.
func ParseSkillLevel(raw string) (SkillLevel, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.TypeErrorf("skill level is required")
	}
	level := SkillLevel(strings.ToLower(trimmed))
	if _, ok := skillMultipliers[level]; !ok {
		return "", errors.RangeErrorf("skill level must be one of basic, standard, advanced, expert, got %q", raw)
	}
	return level, nil
}

// lenientSkill never fails: missing or unknown levels price as standard.
// Process costing goes through here.
func lenientSkill(raw string) (SkillLevel, decimal.Decimal) {
	level := SkillLevel(strings.ToLower(strings.TrimSpace(raw)))
	if m, ok := skillMultipliers[level]; ok {
		return level, m
	}
	return SkillStandard, skillMultipliers[SkillStandard]
}

// hourlyRate is wage x skill multiplier
func hourlyRate(level SkillLevel, s *Settings) decimal.Decimal {
	m, ok := skillMultipliers[level]
	if !ok {
		m = skillMultipliers[SkillStandard]
	}
	return s.Wage.Mul(m)
}

// HourlyRateForSkill returns the hourly rate for a validated skill level
func (e *Engine) HourlyRateForSkill(skillLevel string, settings *AdminSettings) (decimal.Decimal, error) {
	level, err := ParseSkillLevel(skillLevel)
	if err != nil {
		return decimal.Zero, err
	}
	s, err := e.resolve(settings)
	if err != nil {
		return decimal.Zero, err
	}
	return hourlyRate(level, s), nil
}

// LaborCost prices laborHours at the rate for a validated skill level
func (e *Engine) LaborCost(laborHours float64, skillLevel string, settings *AdminSettings) (decimal.Decimal, error) {
	hours, err := requireNonNegative("laborHours", laborHours)
	if err != nil {
		return decimal.Zero, err
	}
	level, err := ParseSkillLevel(skillLevel)
	if err != nil {
		return decimal.Zero, err
	}
	s, err := e.resolve(settings)
	if err != nil {
		return decimal.Zero, err
	}
	return hours.Mul(hourlyRate(level, s)), nil
}
