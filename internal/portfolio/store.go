// Package portfolio loads the account's holdings and aggregate totals
// from Postgres. Broker synchronization writes these tables; the core
// only reads them.
package portfolio

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/argus/internal/contracts"
)

// Store reads portfolio state from the holdings schema.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a portfolio store over an existing pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// GetPortfolio returns the current positions plus account totals in
// one snapshot. Totals derive from the same read so the risk scorer
// never sees positions and totals from different moments.
func (s *Store) GetPortfolio(ctx context.Context) (*contracts.PortfolioState, error) {
	holdings, err := s.getHoldings(ctx)
	if err != nil {
		return nil, err
	}

	account, err := s.getAccount(ctx)
	if err != nil {
		return nil, err
	}

	state := &contracts.PortfolioState{
		Holdings: holdings,
		Account:  account,
	}
	for _, h := range holdings {
		state.Account.TotalCostBasis += h.CostValue()
	}
	return state, nil
}

func (s *Store) getHoldings(ctx context.Context) ([]contracts.Holding, error) {
	query := `
		SELECT symbol, name, cost_basis, shares
		FROM portfolio.holdings
		WHERE shares > 0
		ORDER BY cost_basis * shares DESC
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []contracts.Holding
	for rows.Next() {
		var h contracts.Holding
		if err := rows.Scan(&h.Symbol, &h.Name, &h.CostBasis, &h.Shares); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("holdings row iteration failed: %w", err)
	}
	return holdings, nil
}

func (s *Store) getAccount(ctx context.Context) (contracts.AccountSummary, error) {
	query := `
		SELECT total_assets, cash, total_market_value, total_pnl
		FROM portfolio.account
		ORDER BY updated_at DESC
		LIMIT 1
	`
	var account contracts.AccountSummary
	err := s.pool.QueryRow(ctx, query).Scan(
		&account.TotalAssets,
		&account.Cash,
		&account.TotalMarketValue,
		&account.TotalPnL,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		// Fresh install: no broker sync yet.
		return contracts.AccountSummary{}, nil
	}
	if err != nil {
		return contracts.AccountSummary{}, fmt.Errorf("failed to query account: %w", err)
	}
	return account, nil
}

// HeldSymbols returns the held-symbol set the screener excludes.
func HeldSymbols(holdings []contracts.Holding) map[string]bool {
	held := make(map[string]bool, len(holdings))
	for _, h := range holdings {
		held[bareSymbol(h.Symbol)] = true
	}
	return held
}

func bareSymbol(symbol string) string {
	for i := 0; i < len(symbol); i++ {
		if symbol[i] == '.' {
			return symbol[:i]
		}
	}
	return symbol
}
