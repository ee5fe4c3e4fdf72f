// Package gateway defines the boundary to the external collaborators:
// the market data provider and the portfolio source. The core consumes
// these interfaces and never touches vendor wire formats directly.
package gateway

import (
	"context"

	"github.com/wonny/argus/internal/contracts"
)

// QuoteGateway supplies current quotes and aggregate market context.
type QuoteGateway interface {
	// GetQuotes resolves quotes for a batch of symbols in one round
	// trip. Individual symbols may be missing from the result without
	// failing the whole call.
	GetQuotes(ctx context.Context, symbols []string) (map[string]contracts.Quote, error)

	// GetMarketContext returns the shared market snapshot for a cycle.
	GetMarketContext(ctx context.Context) (*contracts.MarketContext, error)
}

// SectorStocksProvider lists a sector's constituents by net inflow,
// used to build the candidate pool.
type SectorStocksProvider interface {
	GetSectorStocks(ctx context.Context, sectorCode string, limit int) ([]contracts.SectorStock, error)
}

// MarketScanner lists the strongest stocks across the whole market,
// used as a fallback when the sector pool comes up empty.
type MarketScanner interface {
	GetMarketTopStocks(ctx context.Context, limit int) ([]contracts.SectorStock, error)
}

// KlineProvider supplies daily bars for the technical strategies.
type KlineProvider interface {
	GetKlines(ctx context.Context, symbol string, limit int) ([]contracts.Kline, error)
}

// HeadlineProvider supplies recent discussion headlines for a symbol,
// used by the sentiment strategy.
type HeadlineProvider interface {
	GetHeadlines(ctx context.Context, symbol string, limit int) ([]string, error)
}

// PortfolioSource supplies the account's holdings and totals.
// Credential handling lives entirely behind this interface.
type PortfolioSource interface {
	GetPortfolio(ctx context.Context) (*contracts.PortfolioState, error)
}
