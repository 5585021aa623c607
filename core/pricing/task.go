package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"jewel-pricing/internal/errors"
)

// Task is an ordered list of process and material selections to be priced
type Task struct {
	Processes []ProcessSelection  `json:"processes,omitempty"`
	Materials []MaterialSelection `json:"materials,omitempty"`
}

// ProcessSelection either embeds a Process or references one by ID.
// Quantity defaults to 1 when omitted.
type ProcessSelection struct {
	Process   *Process `json:"process,omitempty"`
	ProcessID string   `json:"processId,omitempty"`
	Quantity  *float64 `json:"quantity,omitempty"`
}

// MaterialSelection either embeds a Material or references one by ID.
// Quantity defaults to 1 when omitted.
type MaterialSelection struct {
	Material   *Material `json:"material,omitempty"`
	MaterialID string    `json:"materialId,omitempty"`
	Quantity   *float64  `json:"quantity,omitempty"`
}

// SelectionKind distinguishes embedded objects from catalog references
type SelectionKind string

const (
	SelectionEmbedded  SelectionKind = "embedded"
	SelectionReference SelectionKind = "reference"
)

// Kind reports how the selection identifies its process. An embedded
// process wins when both forms are present.
func (s ProcessSelection) Kind() (SelectionKind, bool) {
	switch {
	case s.Process != nil:
		return SelectionEmbedded, true
	case s.ProcessID != "":
		return SelectionReference, true
	default:
		return "", false
	}
}

// Kind reports how the selection identifies its material
func (s MaterialSelection) Kind() (SelectionKind, bool) {
	switch {
	case s.Material != nil:
		return SelectionEmbedded, true
	case s.MaterialID != "":
		return SelectionReference, true
	default:
		return "", false
	}
}

// CostBreakdown is the priced result for a task
type CostBreakdown struct {
	TotalLaborHours      decimal.Decimal `json:"totalLaborHours"`
	TotalProcessCost     decimal.Decimal `json:"totalProcessCost"`
	TotalMaterialCost    decimal.Decimal `json:"totalMaterialCost"`
	MarkedUpMaterialCost decimal.Decimal `json:"markedUpMaterialCost"`
	BaseCost             decimal.Decimal `json:"baseCost"`
	RetailPrice          decimal.Decimal `json:"retailPrice"`
	WholesalePrice       decimal.Decimal `json:"wholesalePrice"`
	BusinessMultiplier   decimal.Decimal `json:"businessMultiplier"`
	WholesaleType        WholesaleType   `json:"wholesaleType"`
	Processes            []ProcessLine   `json:"processes"`
	Materials            []MaterialLine  `json:"materials"`
	CalculatedAt         time.Time       `json:"calculatedAt"`
}

// ProcessLine records how one process selection contributed to the task
type ProcessLine struct {
	ID         string             `json:"id,omitempty"`
	Name       string             `json:"name,omitempty"`
	Kind       SelectionKind      `json:"kind"`
	Quantity   decimal.Decimal    `json:"quantity"`
	LaborHours decimal.Decimal    `json:"laborHours"`
	UnitCost   decimal.Decimal    `json:"unitCost"`
	TotalCost  decimal.Decimal    `json:"totalCost"`
	Detail     *ProcessCostResult `json:"detail"`
}

// MaterialLine records how one task-level material contributed to the task
type MaterialLine struct {
	ID           string          `json:"id,omitempty"`
	Name         string          `json:"name,omitempty"`
	Kind         SelectionKind   `json:"kind"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unitCost"`
	RawCost      decimal.Decimal `json:"rawCost"`
	MarkedUpCost decimal.Decimal `json:"markedUpCost"`
}

type resolvedProcess struct {
	path     string
	kind     SelectionKind
	process  *Process
	quantity decimal.Decimal
}

type resolvedMaterial struct {
	path     string
	kind     SelectionKind
	material *Material
	quantity decimal.Decimal
}

func resolveProcesses(selections []ProcessSelection, catalog Catalog) ([]resolvedProcess, error) {
	out := make([]resolvedProcess, 0, len(selections))
	for i, sel := range selections {
		path := fmt.Sprintf("processes[%d]", i)
		kind, ok := sel.Kind()
		if !ok {
			return nil, errors.TypeErrorf("%s must embed a process or reference a processId", path)
		}

		r := resolvedProcess{path: path + ".process", kind: kind, process: sel.Process}
		if kind == SelectionReference {
			r.path = fmt.Sprintf("%s.processId(%s)", path, sel.ProcessID)
			if catalog == nil {
				return nil, errors.TypeErrorf("%s references process %q but no process catalog was supplied", path, sel.ProcessID)
			}
			if r.process, ok = catalog.Process(sel.ProcessID); !ok || r.process == nil {
				return nil, errors.TypeErrorf("%s references unknown process %q", path, sel.ProcessID).
					WithContext("processId", sel.ProcessID)
			}
		}

		var err error
		if r.quantity, err = optionalQuantity(path+".quantity", sel.Quantity); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func resolveMaterials(selections []MaterialSelection, catalog Catalog) ([]resolvedMaterial, error) {
	out := make([]resolvedMaterial, 0, len(selections))
	for i, sel := range selections {
		path := fmt.Sprintf("materials[%d]", i)
		kind, ok := sel.Kind()
		if !ok {
			return nil, errors.TypeErrorf("%s must embed a material or reference a materialId", path)
		}

		r := resolvedMaterial{path: path + ".material", kind: kind, material: sel.Material}
		if kind == SelectionReference {
			r.path = fmt.Sprintf("%s.materialId(%s)", path, sel.MaterialID)
			if catalog == nil {
				return nil, errors.TypeErrorf("%s references material %q but no material catalog was supplied", path, sel.MaterialID)
			}
			if r.material, ok = catalog.Material(sel.MaterialID); !ok || r.material == nil {
				return nil, errors.TypeErrorf("%s references unknown material %q", path, sel.MaterialID).
					WithContext("materialId", sel.MaterialID)
			}
		}

		var err error
		if r.quantity, err = optionalQuantity(path+".quantity", sel.Quantity); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// TaskCost prices a task. catalog may be nil when every selection embeds
// its process or material.
func (e *Engine) TaskCost(task *Task, settings *AdminSettings, catalog Catalog) (*CostBreakdown, error) {
	if task == nil {
		return nil, errors.TypeErrorf("task data is required")
	}
	s, err := e.resolve(settings)
	if err != nil {
		return nil, err
	}

	processes, err := resolveProcesses(task.Processes, catalog)
	if err != nil {
		return nil, err
	}
	materials, err := resolveMaterials(task.Materials, catalog)
	if err != nil {
		return nil, err
	}

	b := &CostBreakdown{
		TotalLaborHours:      decimal.Zero,
		TotalProcessCost:     decimal.Zero,
		TotalMaterialCost:    decimal.Zero,
		MarkedUpMaterialCost: decimal.Zero,
		WholesaleType:        s.Wholesale.Type,
		Processes:            make([]ProcessLine, 0, len(processes)),
		Materials:            make([]MaterialLine, 0, len(materials)),
	}

	for _, r := range processes {
		pc, err := e.processCost(r.path, r.process, s)
		if err != nil {
			return nil, err
		}
		line := ProcessLine{
			ID:         r.process.ID,
			Name:       r.process.Name,
			Kind:       r.kind,
			Quantity:   r.quantity,
			LaborHours: pc.LaborHours.Mul(r.quantity),
			UnitCost:   pc.TotalCost,
			TotalCost:  pc.TotalCost.Mul(r.quantity),
			Detail:     pc,
		}
		b.TotalProcessCost = b.TotalProcessCost.Add(line.TotalCost)
		b.TotalLaborHours = b.TotalLaborHours.Add(line.LaborHours)
		b.Processes = append(b.Processes, line)
	}

	// Task-level materials are separate from those embedded in processes,
	// which are already inside TotalProcessCost.
	for _, r := range materials {
		base, err := unitCost(r.path, r.material)
		if err != nil {
			return nil, err
		}
		mc := materialCost(base, r.quantity, s)
		line := MaterialLine{
			ID:           r.material.ID,
			Name:         r.material.Name,
			Kind:         r.kind,
			Quantity:     r.quantity,
			UnitCost:     base,
			RawCost:      base.Mul(r.quantity),
			MarkedUpCost: mc.TotalCost,
		}
		b.TotalMaterialCost = b.TotalMaterialCost.Add(line.RawCost)
		b.MarkedUpMaterialCost = b.MarkedUpMaterialCost.Add(line.MarkedUpCost)
		b.Materials = append(b.Materials, line)
	}

	b.BaseCost = b.TotalProcessCost.Add(b.MarkedUpMaterialCost)
	b.BusinessMultiplier = e.businessMultiplier(s)
	b.RetailPrice = e.applyBusinessMultiplier(b.BaseCost, s)
	if b.WholesalePrice, err = e.wholesalePrice(b.RetailPrice, b.BaseCost, s); err != nil {
		return nil, err
	}
	b.CalculatedAt = e.now()

	e.logger.Debug("task priced",
		zap.Int("processes", len(b.Processes)),
		zap.Int("materials", len(b.Materials)),
		zap.String("baseCost", b.BaseCost.String()),
		zap.String("retailPrice", b.RetailPrice.String()),
		zap.String("wholesalePrice", b.WholesalePrice.String()))

	return b, nil
}
