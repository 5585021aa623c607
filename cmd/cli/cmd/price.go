// Package cmd - price command
package cmd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"jewel-pricing/core/output"
	"jewel-pricing/core/pricing"
	"jewel-pricing/internal/catalog"
	"jewel-pricing/internal/config"
	"jewel-pricing/internal/logging"
)

var (
	useCatalog       bool
	materialQuantity float64
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price a task, process or material from a JSON file",
	Long: `Price a task, process or material described in a JSON file.
Use "-" as the file to read standard input.

A task file holds processes and materials selections:
  {
    "processes": [{"process": {"laborHours": 2, "skillLevel": "standard"}, "quantity": 2}],
    "materials": [{"materialId": "solder", "quantity": 3}]
  }

References (processId, materialId) are resolved from the catalog database
when --catalog is set.`,
}

var priceTaskCmd = &cobra.Command{
	Use:   "task <file>",
	Short: "Price a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runPriceTask,
}

var priceProcessCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Price a single process",
	Args:  cobra.ExactArgs(1),
	RunE:  runPriceProcess,
}

var priceMaterialCmd = &cobra.Command{
	Use:   "material <file>",
	Short: "Price a quantity of one material",
	Args:  cobra.ExactArgs(1),
	RunE:  runPriceMaterial,
}

func init() {
	rootCmd.AddCommand(priceCmd)
	priceCmd.AddCommand(priceTaskCmd)
	priceCmd.AddCommand(priceProcessCmd)
	priceCmd.AddCommand(priceMaterialCmd)

	priceTaskCmd.Flags().BoolVar(&useCatalog, "catalog", false, "resolve processId/materialId references from the catalog database")
	priceMaterialCmd.Flags().Float64VarP(&materialQuantity, "quantity", "q", 1, "number of units")
}

func runPriceTask(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	task, err := pricing.DecodeTask(data)
	if err != nil {
		return err
	}
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	var lookup pricing.Catalog
	if useCatalog || config.Get().Catalog.Enabled {
		snap, err := catalogSnapshot(cmd.Context())
		if err != nil {
			return err
		}
		lookup = snap
	}

	breakdown, err := newEngine().TaskCost(task, settings, lookup)
	if err != nil {
		return err
	}
	return render(cmd, &output.Result{Title: titleFor(args[0]), Task: breakdown})
}

func runPriceProcess(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	process, err := pricing.DecodeProcess(data)
	if err != nil {
		return err
	}
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	result, err := newEngine().ProcessCost(process, settings)
	if err != nil {
		return err
	}
	title := process.Name
	if title == "" {
		title = titleFor(args[0])
	}
	return render(cmd, &output.Result{Title: title, Process: result})
}

func runPriceMaterial(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	material, err := pricing.DecodeMaterial(data)
	if err != nil {
		return err
	}
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	result, err := newEngine().MaterialCost(material, materialQuantity, settings)
	if err != nil {
		return err
	}
	title := material.Name
	if title == "" {
		title = titleFor(args[0])
	}
	return render(cmd, &output.Result{Title: title, Material: result})
}

func catalogSnapshot(ctx context.Context) (*pricing.StaticCatalog, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := catalog.Open(config.Get().Catalog.DatabasePath, catalog.WithLogger(logging.Named("catalog")))
	if err != nil {
		return nil, err
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		return nil, err
	}
	return store.Snapshot(ctx)
}

func titleFor(path string) string {
	if path == "-" {
		return ""
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
