package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/argus/internal/portfolio"
)

var screenSkipDB bool

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Screen the market for buy candidates once",
	Long: `Ranks sectors by main capital inflow, builds a candidate pool from the
strongest sectors, scores each candidate through the analyst panel, and
prints the picks as JSON. Held symbols are excluded unless --no-db is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScreen()
	},
}

func init() {
	screenCmd.Flags().BoolVar(&screenSkipDB, "no-db", false, "screen without loading holdings from Postgres")
	rootCmd.AddCommand(screenCmd)
}

func runScreen() error {
	c, err := buildComponents(!screenSkipDB)
	if err != nil {
		return err
	}
	defer c.close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	held := map[string]bool{}
	if c.portfolio != nil {
		state, err := c.portfolio.GetPortfolio(ctx)
		if err != nil {
			return fmt.Errorf("load portfolio: %w", err)
		}
		held = portfolio.HeldSymbols(state.Holdings)
	}

	picks, err := c.screener.Screen(ctx, held)
	if err != nil {
		return fmt.Errorf("screen market: %w", err)
	}

	return printJSON(picks)
}
