package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Evaluate current holdings through the analyst panel once",
	Long: `Loads holdings from Postgres, fetches live quotes, runs every analyst
on each position, and prints the aggregated report as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze()
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze() error {
	c, err := buildComponents(true)
	if err != nil {
		return err
	}
	defer c.close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	state, err := c.portfolio.GetPortfolio(ctx)
	if err != nil {
		return fmt.Errorf("load portfolio: %w", err)
	}

	report, err := c.analyzer.Analyze(ctx, state.Holdings)
	if err != nil {
		return fmt.Errorf("analyze holdings: %w", err)
	}

	return printJSON(report)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
