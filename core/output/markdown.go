package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// MarkdownFormatter renders GitHub-flavored markdown tables
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a markdown formatter
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format returns FormatMarkdown
func (f *MarkdownFormatter) Format() Format {
	return FormatMarkdown
}

// Render writes the report
func (f *MarkdownFormatter) Render(w io.Writer, result *Result) error {
	if err := result.validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	cur := result.currency()
	amount := func(d decimal.Decimal) string { return money(d) + " " + cur }

	switch {
	case result.Task != nil:
		t := result.Task
		fmt.Fprintf(bw, "## %s\n\n", mdTitle(result.Title, "Task price"))

		if result.ShowDetails && len(t.Processes) > 0 {
			fmt.Fprintln(bw, "| Process | Kind | Qty | Labor hours | Unit cost | Total |")
			fmt.Fprintln(bw, "|---|---|---:|---:|---:|---:|")
			for i, l := range t.Processes {
				fmt.Fprintf(bw, "| %s | %s | %s | %s | %s | %s |\n",
					mdEscape(displayName(i, l.Name, l.ID)), l.Kind, l.Quantity.String(),
					l.LaborHours.StringFixed(2), amount(l.UnitCost), amount(l.TotalCost))
			}
			fmt.Fprintln(bw)
		}
		if result.ShowDetails && len(t.Materials) > 0 {
			fmt.Fprintln(bw, "| Material | Kind | Qty | Unit cost | Raw | Marked up |")
			fmt.Fprintln(bw, "|---|---|---:|---:|---:|---:|")
			for i, l := range t.Materials {
				fmt.Fprintf(bw, "| %s | %s | %s | %s | %s | %s |\n",
					mdEscape(displayName(i, l.Name, l.ID)), l.Kind, l.Quantity.String(),
					amount(l.UnitCost), amount(l.RawCost), amount(l.MarkedUpCost))
			}
			fmt.Fprintln(bw)
		}

		summary := [][2]string{
			{"Total labor hours", t.TotalLaborHours.StringFixed(2)},
			{"Total process cost", amount(t.TotalProcessCost)},
			{"Total material cost", amount(t.TotalMaterialCost)},
			{"Marked-up material cost", amount(t.MarkedUpMaterialCost)},
			{"**Base cost**", "**" + amount(t.BaseCost) + "**"},
			{"Business multiplier", "x" + t.BusinessMultiplier.String()},
			{"**Retail price**", "**" + amount(t.RetailPrice) + "**"},
			{"**Wholesale price** (" + string(t.WholesaleType) + ")", "**" + amount(t.WholesalePrice) + "**"},
		}
		writeSummary(bw, summary)

	case result.Process != nil:
		p := result.Process
		fmt.Fprintf(bw, "## %s\n\n", mdTitle(result.Title, "Process cost"))
		writeSummary(bw, [][2]string{
			{"Skill level", fmt.Sprintf("%s (x%s)", p.SkillLevel, p.SkillMultiplier)},
			{"Labor hours", p.LaborHours.StringFixed(2)},
			{"Hourly rate", amount(p.HourlyRate)},
			{"Labor cost", amount(p.LaborCost)},
			{"Materials (base)", amount(p.BaseMaterialsCost)},
			{"Materials (marked up)", amount(p.MaterialsCost)},
			{"Metal complexity", "x" + p.MetalComplexityMultiplier.String()},
			{"**Total cost**", "**" + amount(p.TotalCost) + "**"},
		})

	case result.Material != nil:
		m := result.Material
		fmt.Fprintf(bw, "## %s\n\n", mdTitle(result.Title, "Material cost"))
		writeSummary(bw, [][2]string{
			{"Unit cost", amount(m.BaseCost)},
			{"Markup", "x" + m.MaterialMarkup.String()},
			{"Marked-up unit cost", amount(m.MarkedUpCost)},
			{"Quantity", m.Quantity.String()},
			{"**Total cost**", "**" + amount(m.TotalCost) + "**"},
		})
	}

	return bw.Flush()
}

func writeSummary(w io.Writer, rows [][2]string) {
	fmt.Fprintln(w, "| | Amount |")
	fmt.Fprintln(w, "|---|---:|")
	for _, r := range rows {
		fmt.Fprintf(w, "| %s | %s |\n", r[0], r[1])
	}
}

func displayName(i int, name, id string) string {
	switch {
	case name != "":
		return name
	case id != "":
		return id
	default:
		return fmt.Sprintf("#%d", i+1)
	}
}

func mdTitle(title, fallback string) string {
	if title == "" {
		return fallback
	}
	return mdEscape(title)
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
