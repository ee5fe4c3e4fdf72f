package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify connectivity to Postgres, Redis, and the market gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck()
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck() error {
	c, err := buildComponents(true)
	if err != nil {
		return err
	}
	defer c.close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	fmt.Println("=== Argus connectivity check ===")

	fmt.Print("Postgres ping... ")
	if err := c.db.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	status, err := c.db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("postgres health: %w", err)
	}
	fmt.Printf("ok (%d/%d conns in use)\n", status.Stats.AcquiredConns, status.Stats.TotalConns)

	fmt.Print("Redis... ")
	if c.cache.Enabled() {
		fmt.Println("ok")
	} else {
		fmt.Println("disabled, snapshot cache off")
	}

	fmt.Print("Eastmoney gateway... ")
	quotes, err := c.market.GetQuotes(ctx, []string{"000001.SH"})
	if err != nil {
		return fmt.Errorf("gateway: %w", err)
	}
	for _, q := range quotes {
		fmt.Printf("ok (%s %s at %.2f)\n", q.Symbol, q.Name, q.Price)
	}

	fmt.Printf("Agents registered: %d\n", c.panel.Size())
	return nil
}
