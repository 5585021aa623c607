// Package cmd provides the CLI commands for jewel-pricing.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"jewel-pricing/core/output"
	"jewel-pricing/core/pricing"
	"jewel-pricing/internal/config"
	"jewel-pricing/internal/logging"
)

const version = "0.1.0"

var (
	cfgFile      string
	verbose      bool
	settingsFile string
	outputFormat string
	showDetails  bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "jewel-pricing",
	Short: "Price custom jewelry work",
	Long: `jewel-pricing turns labor processes and materials into retail and
wholesale prices using shop-configurable wages, markups and fees.

Examples:
  jewel-pricing price task ring-resize.json
  jewel-pricing price process --format markdown solder.json
  jewel-pricing rate expert --settings shop.hcl
  jewel-pricing wholesale 640 320`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.jewel-pricing/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&settingsFile, "settings", "s", "", "admin settings file, .json or .hcl (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json, markdown)")
	rootCmd.PersistentFlags().BoolVarP(&showDetails, "details", "d", true, "show per-selection lines")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if settingsFile != "" {
		cfg.Pricing.SettingsPath = settingsFile
	}
	config.Set(cfg)

	// Initialize logging
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "jewel-pricing version %s\n", version)
	},
}

func newEngine() *pricing.Engine {
	return pricing.NewEngine(pricing.WithLogger(logging.Named("engine")))
}

func loadSettings() (*pricing.AdminSettings, error) {
	return config.LoadAdminSettings(config.Get().Pricing.SettingsPath)
}

func render(cmd *cobra.Command, result *output.Result) error {
	cfg := config.Get()
	format := outputFormat
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	result.Currency = cfg.Pricing.Currency
	result.ShowDetails = showDetails && cfg.Output.ShowDetails
	return output.Render(cmd.OutOrStdout(), output.Format(format), result)
}

// readInput reads a file argument; "-" reads standard input
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
