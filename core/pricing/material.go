package pricing

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"jewel-pricing/internal/errors"
)

// CostSource names the field a material's unit cost came from
type CostSource string

const (
	CostSourceNone      CostSource = ""
	CostSourceEstimated CostSource = "estimatedCost"
	CostSourcePortion   CostSource = "costPerPortion"
	CostSourceStuller   CostSource = "stullerPrice"
)

// MaterialCost is a normalized unit cost tagged with its origin
type MaterialCost struct {
	Source CostSource
	Amount float64
}

// EstimatedCost builds a cost from an estimate
func EstimatedCost(amount float64) MaterialCost {
	return MaterialCost{Source: CostSourceEstimated, Amount: amount}
}

// CostPerPortion builds a cost from a per-portion price
func CostPerPortion(amount float64) MaterialCost {
	return MaterialCost{Source: CostSourcePortion, Amount: amount}
}

// StullerPrice builds a cost from a supplier catalog price
func StullerPrice(amount float64) MaterialCost {
	return MaterialCost{Source: CostSourceStuller, Amount: amount}
}

// Material is a consumable or component with a unit cost
type Material struct {
	ID       string
	Name     string
	Cost     MaterialCost
	Quantity *float64
}

type materialJSON struct {
	ID             string   `json:"id,omitempty"`
	Name           string   `json:"name,omitempty"`
	EstimatedCost  *float64 `json:"estimatedCost,omitempty"`
	CostPerPortion *float64 `json:"costPerPortion,omitempty"`
	StullerPrice   *float64 `json:"stullerPrice,omitempty"`
	Quantity       *float64 `json:"quantity,omitempty"`
}

// UnmarshalJSON normalizes the three cost fields into Cost. The first
// present of estimatedCost, costPerPortion and stullerPrice wins.
func (m *Material) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var raw materialJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Material{ID: raw.ID, Name: raw.Name, Quantity: raw.Quantity}
	switch {
	case raw.EstimatedCost != nil:
		m.Cost = EstimatedCost(*raw.EstimatedCost)
	case raw.CostPerPortion != nil:
		m.Cost = CostPerPortion(*raw.CostPerPortion)
	case raw.StullerPrice != nil:
		m.Cost = StullerPrice(*raw.StullerPrice)
	}
	return nil
}

// MarshalJSON writes the cost back under the field it came from
func (m Material) MarshalJSON() ([]byte, error) {
	raw := materialJSON{ID: m.ID, Name: m.Name, Quantity: m.Quantity}
	amount := m.Cost.Amount
	switch m.Cost.Source {
	case CostSourceEstimated:
		raw.EstimatedCost = &amount
	case CostSourcePortion:
		raw.CostPerPortion = &amount
	case CostSourceStuller:
		raw.StullerPrice = &amount
	}
	return json.Marshal(raw)
}

// MaterialCostResult is the price of one material line
type MaterialCostResult struct {
	BaseCost       decimal.Decimal `json:"baseCost"`
	MarkedUpCost   decimal.Decimal `json:"markedUpCost"`
	TotalCost      decimal.Decimal `json:"totalCost"`
	MaterialMarkup decimal.Decimal `json:"materialMarkup"`
	Quantity       decimal.Decimal `json:"quantity"`
}

// unitCost validates and returns the material's unit cost
func unitCost(path string, m *Material) (decimal.Decimal, error) {
	if m == nil {
		return decimal.Zero, errors.TypeErrorf("%s is required", path)
	}
	if m.Cost.Source == CostSourceNone {
		return decimal.Zero, errors.TypeErrorf(
			"%s has no numeric cost (estimatedCost, costPerPortion or stullerPrice)", path)
	}
	return requireNonNegative(path+"."+string(m.Cost.Source), m.Cost.Amount)
}

func materialCost(base, quantity decimal.Decimal, s *Settings) *MaterialCostResult {
	markedUp := base.Mul(s.MaterialMarkup)
	return &MaterialCostResult{
		BaseCost:       base,
		MarkedUpCost:   markedUp,
		TotalCost:      markedUp.Mul(quantity),
		MaterialMarkup: s.MaterialMarkup,
		Quantity:       quantity,
	}
}

// MaterialCost prices quantity units of a material at the floored markup
func (e *Engine) MaterialCost(material *Material, quantity float64, settings *AdminSettings) (*MaterialCostResult, error) {
	base, err := unitCost("material", material)
	if err != nil {
		return nil, err
	}
	qty, err := requirePositive("quantity", quantity)
	if err != nil {
		return nil, err
	}
	s, err := e.resolve(settings)
	if err != nil {
		return nil, err
	}
	return materialCost(base, qty, s), nil
}
