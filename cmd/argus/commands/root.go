package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "argus",
	Short: "Argus - A-share analyst-panel portfolio advisor",
	Long: `Argus Unified CLI

Runs a panel of scoring analysts over the account's holdings and a
dynamically screened candidate pool, aggregates their verdicts into
directional signals and derives a portfolio risk index.

Usage:
  go run ./cmd/argus [command]

Examples:
  go run ./cmd/argus serve
  go run ./cmd/argus analyze
  go run ./cmd/argus screen
  go run ./cmd/argus risk`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
