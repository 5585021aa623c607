package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"jewel-pricing/internal/errors"
)

// Process is a billable unit of labor with optional embedded materials
type Process struct {
	ID         string     `json:"id,omitempty"`
	Name       string     `json:"name,omitempty"`
	LaborHours float64    `json:"laborHours"`
	SkillLevel string     `json:"skillLevel,omitempty"`
	Materials  []Material `json:"materials,omitempty"`

	// MetalType keys into the metal complexity table
	MetalType string `json:"metalType,omitempty"`

	// MetalComplexityMultiplier overrides the table lookup when set
	MetalComplexityMultiplier *float64 `json:"metalComplexityMultiplier,omitempty"`
}

// ProcessCostResult is the price of a single process
type ProcessCostResult struct {
	LaborCost                 decimal.Decimal `json:"laborCost"`
	BaseMaterialsCost         decimal.Decimal `json:"baseMaterialsCost"`
	MaterialsCost             decimal.Decimal `json:"materialsCost"`
	TotalCost                 decimal.Decimal `json:"totalCost"`
	HourlyRate                decimal.Decimal `json:"hourlyRate"`
	SkillLevel                SkillLevel      `json:"skillLevel"`
	SkillMultiplier           decimal.Decimal `json:"skillMultiplier"`
	MaterialMarkup            decimal.Decimal `json:"materialMarkup"`
	MetalComplexityMultiplier decimal.Decimal `json:"metalComplexityMultiplier"`
	LaborHours                decimal.Decimal `json:"laborHours"`
	CalculatedAt              time.Time       `json:"calculatedAt"`
}

// ProcessCost prices one process against the given settings
func (e *Engine) ProcessCost(process *Process, settings *AdminSettings) (*ProcessCostResult, error) {
	if process == nil {
		return nil, errors.TypeErrorf("process is required")
	}
	s, err := e.resolve(settings)
	if err != nil {
		return nil, err
	}
	return e.processCost("process", process, s)
}

func (e *Engine) processCost(path string, p *Process, s *Settings) (*ProcessCostResult, error) {
	hours, err := requireNonNegative(path+".laborHours", p.LaborHours)
	if err != nil {
		return nil, err
	}

	level, skillMultiplier := lenientSkill(p.SkillLevel)
	rate := s.Wage.Mul(skillMultiplier)
	laborCost := hours.Mul(rate)

	baseMaterials := decimal.Zero
	materials := decimal.Zero
	for i := range p.Materials {
		mPath := fmt.Sprintf("%s.materials[%d]", path, i)
		base, err := unitCost(mPath, &p.Materials[i])
		if err != nil {
			return nil, err
		}
		qty, err := optionalQuantity(mPath+".quantity", p.Materials[i].Quantity)
		if err != nil {
			return nil, err
		}
		line := materialCost(base, qty, s)
		baseMaterials = baseMaterials.Add(base.Mul(qty))
		materials = materials.Add(line.TotalCost)
	}

	metal := s.MetalMultiplier(p.MetalType)
	if p.MetalComplexityMultiplier != nil {
		metal, err = requirePositive(path+".metalComplexityMultiplier", *p.MetalComplexityMultiplier)
		if err != nil {
			return nil, err
		}
	}

	subtotal := laborCost.Add(materials)

	return &ProcessCostResult{
		LaborCost:                 laborCost,
		BaseMaterialsCost:         baseMaterials,
		MaterialsCost:             materials,
		TotalCost:                 subtotal.Mul(metal),
		HourlyRate:                rate,
		SkillLevel:                level,
		SkillMultiplier:           skillMultiplier,
		MaterialMarkup:            s.MaterialMarkup,
		MetalComplexityMultiplier: metal,
		LaborHours:                hours,
		CalculatedAt:              e.now(),
	}, nil
}
