// Package cmd - catalog management
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"jewel-pricing/core/pricing"
	"jewel-pricing/internal/catalog"
	"jewel-pricing/internal/config"
	"jewel-pricing/internal/logging"
)

var catalogDB string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the process and material catalog",
	Long: `Manage the SQLite catalog used to resolve processId and materialId
references in tasks.`,
}

var catalogMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the catalog schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(ctx context.Context, store *catalog.Store) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Catalog ready: %s\n", catalogPath())
			return nil
		})
	},
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import processes and materials from a JSON document",
	Long: `Import processes and materials from a JSON document:

  {"processes": [{"id": "resize", "laborHours": 2}], "materials": [{"id": "solder", "stullerPrice": 4}]}

Entries with an existing id are replaced. Entries without an id get a new one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		return withCatalog(cmd, func(ctx context.Context, store *catalog.Store) error {
			res, err := store.Import(ctx, data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d processes and %d materials\n",
				len(res.ProcessIDs), len(res.MaterialIDs))
			return nil
		})
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(ctx context.Context, store *catalog.Store) error {
			doc, err := store.Export(ctx)
			if err != nil {
				return err
			}
			if outputFormat == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			}
			printCatalog(cmd, doc)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogMigrateCmd)
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogListCmd)

	catalogCmd.PersistentFlags().StringVar(&catalogDB, "db", "", "catalog database path (overrides config)")
}

func catalogPath() string {
	if catalogDB != "" {
		return catalogDB
	}
	return config.Get().Catalog.DatabasePath
}

func withCatalog(cmd *cobra.Command, fn func(context.Context, *catalog.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := catalog.Open(catalogPath(), catalog.WithLogger(logging.Named("catalog")))
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	return fn(ctx, store)
}

func printCatalog(cmd *cobra.Command, doc *catalog.Document) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROCESS\tNAME\tHOURS\tSKILL\tMETAL\tMATERIALS")
	for _, p := range doc.Processes {
		fmt.Fprintf(tw, "%s\t%s\t%g\t%s\t%s\t%d\n", p.ID, p.Name, p.LaborHours, p.SkillLevel, p.MetalType, len(p.Materials))
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "MATERIAL\tNAME\tSOURCE\tUNIT COST\tQTY")
	for _, m := range doc.Materials {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%s\n", m.ID, m.Name, m.Cost.Source, m.Cost.Amount, quantityLabel(m))
	}
	tw.Flush()
}

func quantityLabel(m pricing.Material) string {
	if m.Quantity == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *m.Quantity)
}
