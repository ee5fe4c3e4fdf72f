package contracts

// Holding is one position supplied by the external portfolio source.
// The core treats it as read-only input.
type Holding struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	CostBasis float64 `json:"cost_basis"` // per share
	Shares    int64   `json:"shares"`
}

// CostValue returns the total acquisition cost of the position.
func (h Holding) CostValue() float64 {
	return h.CostBasis * float64(h.Shares)
}

// MarketValue returns the current value at the given price.
func (h Holding) MarketValue(price float64) float64 {
	return price * float64(h.Shares)
}

// PnLPct returns unrealized profit/loss percent at the given price.
func (h Holding) PnLPct(price float64) float64 {
	if h.CostBasis == 0 {
		return 0
	}
	return (price - h.CostBasis) / h.CostBasis * 100
}

// AccountSummary carries the aggregate figures the risk scorer needs.
type AccountSummary struct {
	TotalAssets      float64 `json:"total_assets"`
	Cash             float64 `json:"cash"`
	TotalMarketValue float64 `json:"total_market_value"`
	TotalPnL         float64 `json:"total_pnl"`
	TotalCostBasis   float64 `json:"total_cost_basis"`
}

// PortfolioState is one getHoldings round trip: positions plus totals.
type PortfolioState struct {
	Holdings []Holding      `json:"holdings"`
	Account  AccountSummary `json:"account"`
}
