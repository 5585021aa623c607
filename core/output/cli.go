package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	boxLabelWidth = 50
	boxValueWidth = 20
)

// CLIFormatter renders a boxed summary for terminals
type CLIFormatter struct{}

// NewCLIFormatter creates a CLI formatter
func NewCLIFormatter() *CLIFormatter {
	return &CLIFormatter{}
}

// Format returns FormatCLI
func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

// Render writes the box
func (f *CLIFormatter) Render(w io.Writer, result *Result) error {
	if err := result.validate(); err != nil {
		return err
	}

	b := &box{w: bufio.NewWriter(w), currency: result.currency()}
	switch {
	case result.Task != nil:
		f.renderTask(b, result)
	case result.Process != nil:
		f.renderProcess(b, result)
	case result.Material != nil:
		f.renderMaterial(b, result)
	}
	return b.w.Flush()
}

func (f *CLIFormatter) renderTask(b *box, result *Result) {
	t := result.Task
	b.top(titleOr(result.Title, "TASK PRICE SUMMARY"))

	if result.ShowDetails {
		for i, line := range t.Processes {
			b.amount(lineLabel("Process", i, line.Name, line.ID, line.Quantity), line.TotalCost)
			if line.Detail != nil {
				b.detail(fmt.Sprintf("%s h @ %s/h, %s", line.LaborHours.StringFixed(2),
					money(line.Detail.HourlyRate), line.Detail.SkillLevel), "")
			}
		}
		for i, line := range t.Materials {
			b.amount(lineLabel("Material", i, line.Name, line.ID, line.Quantity), line.MarkedUpCost)
		}
		if len(t.Processes)+len(t.Materials) > 0 {
			b.rule()
		}
	}

	b.row("Total labor hours", t.TotalLaborHours.StringFixed(2))
	b.amount("Total process cost", t.TotalProcessCost)
	b.amount("Total material cost", t.TotalMaterialCost)
	b.amount("Marked-up material cost", t.MarkedUpMaterialCost)
	b.rule()
	b.amount("BASE COST", t.BaseCost)
	b.row("Business multiplier", "x"+t.BusinessMultiplier.String())
	b.amount("RETAIL PRICE", t.RetailPrice)
	b.amount("WHOLESALE PRICE ("+string(t.WholesaleType)+")", t.WholesalePrice)
	b.bottom()
}

func (f *CLIFormatter) renderProcess(b *box, result *Result) {
	p := result.Process
	b.top(titleOr(result.Title, "PROCESS COST"))
	b.row("Skill level", string(p.SkillLevel)+" (x"+p.SkillMultiplier.String()+")")
	b.row("Labor hours", p.LaborHours.StringFixed(2))
	b.amount("Hourly rate", p.HourlyRate)
	b.amount("Labor cost", p.LaborCost)
	b.amount("Materials (base)", p.BaseMaterialsCost)
	b.amount("Materials (x"+p.MaterialMarkup.String()+" markup)", p.MaterialsCost)
	b.row("Metal complexity", "x"+p.MetalComplexityMultiplier.String())
	b.rule()
	b.amount("TOTAL COST", p.TotalCost)
	b.bottom()
}

func (f *CLIFormatter) renderMaterial(b *box, result *Result) {
	m := result.Material
	b.top(titleOr(result.Title, "MATERIAL COST"))
	b.amount("Unit cost", m.BaseCost)
	b.row("Markup", "x"+m.MaterialMarkup.String())
	b.amount("Marked-up unit cost", m.MarkedUpCost)
	b.row("Quantity", m.Quantity.String())
	b.rule()
	b.amount("TOTAL COST", m.TotalCost)
	b.bottom()
}

type box struct {
	w        *bufio.Writer
	currency string
}

func (b *box) line(left, fill, right string) {
	fmt.Fprintln(b.w, left+strings.Repeat(fill, boxLabelWidth+boxValueWidth+3)+right)
}

func (b *box) top(title string) {
	b.line("┌", "─", "┐")
	width := boxLabelWidth + boxValueWidth + 1
	pad := (width - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintf(b.w, "│ %-*s │\n", width, strings.Repeat(" ", pad)+truncate(title, width))
	b.rule()
}

func (b *box) rule() {
	b.line("├", "─", "┤")
}

func (b *box) bottom() {
	b.line("└", "─", "┘")
}

func (b *box) row(label, value string) {
	fmt.Fprintf(b.w, "│ %-*s %*s │\n", boxLabelWidth, truncate(label, boxLabelWidth), boxValueWidth, value)
}

func (b *box) detail(label, value string) {
	b.row("  └─ "+label, value)
}

func (b *box) amount(label string, d decimal.Decimal) {
	b.row(label, money(d)+" "+b.currency)
}

func lineLabel(kind string, i int, name, id string, quantity decimal.Decimal) string {
	label := name
	if label == "" {
		label = id
	}
	if label == "" {
		label = fmt.Sprintf("#%d", i+1)
	}
	return fmt.Sprintf("%s %s x%s", kind, label, quantity.String())
}

func titleOr(title, fallback string) string {
	if title != "" {
		return strings.ToUpper(title)
	}
	return fallback
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
