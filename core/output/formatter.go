// Package output provides output formatting interfaces.
// This package produces human and machine-readable outputs.
package output

import (
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"jewel-pricing/core/pricing"
	"jewel-pricing/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown report
	FormatMarkdown Format = "markdown"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given result
	Render(w io.Writer, result *Result) error
}

// Result is one priced item. Exactly one of Task, Process and Material is set.
type Result struct {
	// Title labels the report
	Title string `json:"title,omitempty"`

	Task     *pricing.CostBreakdown     `json:"task,omitempty"`
	Process  *pricing.ProcessCostResult  `json:"process,omitempty"`
	Material *pricing.MaterialCostResult `json:"material,omitempty"`

	// Currency is printed next to amounts
	Currency string `json:"currency,omitempty"`

	// ShowDetails includes per-selection lines for tasks
	ShowDetails bool `json:"-"`
}

func (r *Result) validate() error {
	if r == nil {
		return errors.TypeErrorf("result is required")
	}
	n := 0
	for _, set := range []bool{r.Task != nil, r.Process != nil, r.Material != nil} {
		if set {
			n++
		}
	}
	if n != 1 {
		return errors.Newf(errors.TypeInput, "result must hold exactly one of task, process or material, got %d", n)
	}
	return nil
}

func (r *Result) currency() string {
	if r.Currency == "" {
		return "USD"
	}
	return r.Currency
}

// FormatterRegistry manages formatter registration
type FormatterRegistry interface {
	// Register adds a formatter to the registry
	Register(formatter Formatter) error

	// GetFormatter returns a formatter for a format type
	GetFormatter(format Format) (Formatter, bool)

	// GetAll returns all registered formatters
	GetAll() []Formatter
}

// Registry is the default FormatterRegistry
type Registry struct {
	mu         sync.RWMutex
	formatters map[Format]Formatter
}

// NewRegistry creates a registry holding the built-in formatters
func NewRegistry() *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	_ = r.Register(NewCLIFormatter())
	_ = r.Register(NewJSONFormatter())
	_ = r.Register(NewMarkdownFormatter())
	return r
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.formatters[formatter.Format()]; exists {
		return errors.Newf(errors.TypeConfig, "formatter already registered: %s", formatter.Format())
	}
	r.formatters[formatter.Format()] = formatter
	return nil
}

// GetFormatter returns a formatter for a format type
func (r *Registry) GetFormatter(format Format) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[Format(strings.ToLower(string(format)))]
	return f, ok
}

// GetAll returns all registered formatters sorted by format name
func (r *Registry) GetAll() []Formatter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]Formatter, 0, len(r.formatters))
	for _, f := range r.formatters {
		all = append(all, f)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Format() < all[j].Format() })
	return all
}

var defaultRegistry = NewRegistry()

// Render writes result in the named format using the built-in formatters
func Render(w io.Writer, format Format, result *Result) error {
	f, ok := defaultRegistry.GetFormatter(format)
	if !ok {
		names := make([]string, 0, 3)
		for _, f := range defaultRegistry.GetAll() {
			names = append(names, string(f.Format()))
		}
		return errors.Newf(errors.TypeInput, "unknown output format %q (want %s)", format, strings.Join(names, ", "))
	}
	return f.Render(w, result)
}

// money rounds an amount for display
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
