// Package cmd - single-figure calculators
package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"jewel-pricing/core/output"
	"jewel-pricing/core/pricing"
	"jewel-pricing/internal/config"
	"jewel-pricing/internal/errors"
)

var rateCmd = &cobra.Command{
	Use:   "rate <skill-level>",
	Short: "Print the hourly rate for a skill level",
	Long: `Print the hourly rate for a skill level (basic, standard, advanced, expert).

Examples:
  jewel-pricing rate expert
  jewel-pricing rate basic --settings shop.hcl`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		rate, err := newEngine().HourlyRateForSkill(args[0], settings)
		if err != nil {
			return err
		}
		level, _ := pricing.ParseSkillLevel(args[0])
		return printFigures(cmd, []figure{
			{"skillLevel", "Skill level", string(level)},
			{"hourlyRate", "Hourly rate", rate},
		})
	},
}

var laborCmd = &cobra.Command{
	Use:   "labor <hours> <skill-level>",
	Short: "Price labor hours at a skill level",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		hours, err := parseAmount("hours", args[0])
		if err != nil {
			return err
		}
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		cost, err := newEngine().LaborCost(hours, args[1], settings)
		if err != nil {
			return err
		}
		return printFigures(cmd, []figure{{"laborCost", "Labor cost", cost}})
	},
}

var multiplierCmd = &cobra.Command{
	Use:   "multiplier",
	Short: "Print the effective business multiplier",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		e := newEngine()
		s, err := e.Settings(settings)
		if err != nil {
			return err
		}
		return printFigures(cmd, []figure{
			{"rawMultiplier", "Raw multiplier", s.RawBusinessMultiplier().String()},
			{"minimum", "Minimum", s.MinimumBusinessMultiplier.String()},
			{"businessMultiplier", "Business multiplier", s.BusinessMultiplier().String()},
		})
	},
}

var retailCmd = &cobra.Command{
	Use:   "retail <base-cost>",
	Short: "Convert a base cost to a retail price",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := parseAmount("base cost", args[0])
		if err != nil {
			return err
		}
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		retail, err := newEngine().ApplyBusinessMultiplier(base, settings)
		if err != nil {
			return err
		}
		return printFigures(cmd, []figure{{"retailPrice", "Retail price", retail}})
	},
}

var wholesaleCmd = &cobra.Command{
	Use:   "wholesale <retail-price> <base-cost>",
	Short: "Derive a wholesale price",
	Long: `Derive a wholesale price from a retail price and base cost using the
configured wholesale strategy (formula_based, percentage_of_retail or
business_multiplier_adjustment). The result never drops below the
wholesale minimum multiplier times base cost.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		retail, err := parseAmount("retail price", args[0])
		if err != nil {
			return err
		}
		base, err := parseAmount("base cost", args[1])
		if err != nil {
			return err
		}
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		e := newEngine()
		s, err := e.Settings(settings)
		if err != nil {
			return err
		}
		price, err := e.WholesalePrice(retail, base, settings)
		if err != nil {
			return err
		}
		return printFigures(cmd, []figure{
			{"wholesaleType", "Strategy", string(s.Wholesale.Type)},
			{"wholesalePrice", "Wholesale price", price},
		})
	},
}

func init() {
	rootCmd.AddCommand(rateCmd)
	rootCmd.AddCommand(laborCmd)
	rootCmd.AddCommand(multiplierCmd)
	rootCmd.AddCommand(retailCmd)
	rootCmd.AddCommand(wholesaleCmd)
}

// figure is one labelled value. Decimal values are money and print with
// two places and the currency outside JSON.
type figure struct {
	key   string
	label string
	value interface{}
}

func printFigures(cmd *cobra.Command, figures []figure) error {
	out := cmd.OutOrStdout()
	format := outputFormat
	if format == "" {
		format = config.Get().Output.DefaultFormat
	}

	if output.Format(format) == output.FormatJSON {
		m := make(map[string]interface{}, len(figures))
		for _, f := range figures {
			m[f.key] = f.value
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}

	currency := config.Get().Pricing.Currency
	for _, f := range figures {
		value := fmt.Sprint(f.value)
		if d, ok := f.value.(decimal.Decimal); ok {
			value = d.StringFixed(2) + " " + currency
		}
		fmt.Fprintf(out, "%-20s %s\n", f.label+":", value)
	}
	return nil
}

func parseAmount(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.TypeErrorf("%s must be a number, got %q", name, raw)
	}
	return v, nil
}
