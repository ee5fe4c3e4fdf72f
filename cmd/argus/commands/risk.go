package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Score portfolio risk once",
	Long: `Loads holdings and account balances from Postgres, computes exposure,
concentration, and drawdown based risk, and prints the assessment as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRisk()
	},
}

func init() {
	rootCmd.AddCommand(riskCmd)
}

func runRisk() error {
	c, err := buildComponents(true)
	if err != nil {
		return err
	}
	defer c.close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	state, err := c.portfolio.GetPortfolio(ctx)
	if err != nil {
		return fmt.Errorf("load portfolio: %w", err)
	}

	return printJSON(c.risk.Assess(state))
}
