// Package pricing turns labor processes and materials into retail and
// wholesale prices for custom jewelry tasks.
//
// The engine is pure: no I/O, no shared mutable state. An Engine value is
// immutable after construction and safe for concurrent use. Each public
// method validates its inputs (returning TYPE_ERROR or RANGE_ERROR from
// internal/errors) and resolves AdminSettings once before computing.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Engine computes prices
type Engine struct {
	logger *zap.Logger
	now    func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used for floor diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock sets the source of CalculatedAt timestamps
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Settings resolves admin settings the same way every entry point does
func (e *Engine) Settings(settings *AdminSettings) (*Settings, error) {
	return e.resolve(settings)
}

func (e *Engine) resolve(settings *AdminSettings) (*Settings, error) {
	s, err := settings.Resolve()
	if err != nil {
		return nil, err
	}
	if s.MaterialMarkupFloored() {
		e.logger.Debug("material markup raised to floor",
			zap.String("configured", s.ConfiguredMaterialMarkup.String()),
			zap.String("floor", s.MaterialMarkup.String()))
	}
	return s, nil
}

var defaultEngine = NewEngine()

// CalculateProcessCost prices one process with the default engine
func CalculateProcessCost(process *Process, settings *AdminSettings) (*ProcessCostResult, error) {
	return defaultEngine.ProcessCost(process, settings)
}

// CalculateMaterialCost prices quantity units of a material with the default engine
func CalculateMaterialCost(material *Material, quantity float64, settings *AdminSettings) (*MaterialCostResult, error) {
	return defaultEngine.MaterialCost(material, quantity, settings)
}

// ApplyBusinessMultiplier converts base cost to retail price with the default engine
func ApplyBusinessMultiplier(baseCost float64, settings *AdminSettings) (decimal.Decimal, error) {
	return defaultEngine.ApplyBusinessMultiplier(baseCost, settings)
}

// CalculateWholesalePrice derives a wholesale price with the default engine
func CalculateWholesalePrice(retailPrice, baseCost float64, settings *AdminSettings) (decimal.Decimal, error) {
	return defaultEngine.WholesalePrice(retailPrice, baseCost, settings)
}

// CalculateTaskCost prices a task with the default engine. The optional
// lookup slices resolve processId and materialId references.
func CalculateTaskCost(task *Task, settings *AdminSettings, availableProcesses []Process, availableMaterials []Material) (*CostBreakdown, error) {
	var catalog Catalog
	if availableProcesses != nil || availableMaterials != nil {
		catalog = NewStaticCatalog(availableProcesses, availableMaterials)
	}
	return defaultEngine.TaskCost(task, settings, catalog)
}

// GetHourlyRateForSkill returns the validated skill rate with the default engine
func GetHourlyRateForSkill(skillLevel string, settings *AdminSettings) (decimal.Decimal, error) {
	return defaultEngine.HourlyRateForSkill(skillLevel, settings)
}

// CalculateLaborCost prices labor hours with the default engine
func CalculateLaborCost(laborHours float64, skillLevel string, settings *AdminSettings) (decimal.Decimal, error) {
	return defaultEngine.LaborCost(laborHours, skillLevel, settings)
}

// GetBusinessMultiplier returns the effective business multiplier with the default engine
func GetBusinessMultiplier(settings *AdminSettings) (decimal.Decimal, error) {
	return defaultEngine.BusinessMultiplier(settings)
}
