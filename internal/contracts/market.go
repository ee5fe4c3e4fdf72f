package contracts

import "time"

// Quote is an immutable snapshot of one symbol's current trading state.
// A fresh instance is produced on every gateway call and never mutated.
type Quote struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	PrevClose float64 `json:"prev_close"`
	ChangePct float64 `json:"change_pct"`
	Volume    int64   `json:"volume"` // lots
	Amount    float64 `json:"amount"` // traded value

	// Valuation ratios; 0 means unavailable (index, fund, loss-maker)
	PE float64 `json:"pe,omitempty"`
	PB float64 `json:"pb,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// Amplitude returns the intraday swing as a percent of previous close.
func (q Quote) Amplitude() float64 {
	if q.PrevClose == 0 {
		return 0
	}
	return (q.High - q.Low) / q.PrevClose * 100
}

// SectorRecord is one row of the sector money-flow ranking.
type SectorRecord struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	ChangePct float64 `json:"change_pct"`
	NetInflow float64 `json:"net_inflow"` // main-force net inflow, CNY
}

// SectorStock is a constituent of a sector, ordered by net inflow.
type SectorStock struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ChangePct float64 `json:"change_pct"`
	NetInflow float64 `json:"net_inflow"`
	PE        float64 `json:"pe,omitempty"`
	PB        float64 `json:"pb,omitempty"`
}

// MarketContext is the aggregate market snapshot shared by every
// strategy invocation within one refresh cycle. Immutable per cycle.
type MarketContext struct {
	// Index code -> day change percent
	IndexChanges map[string]float64 `json:"index_changes"`

	// Sector ranking, ordered by net inflow descending
	Sectors []SectorRecord `json:"sectors"`

	// Advance/decline counts across the whole market
	Advancing int `json:"advancing"`
	Declining int `json:"declining"`

	// Whole-market main-force net inflow, CNY
	NetInflow float64 `json:"net_inflow"`

	Timestamp time.Time `json:"timestamp"`
}

// TopSectors returns the strongest k sectors by net inflow.
func (m *MarketContext) TopSectors(k int) []SectorRecord {
	if k > len(m.Sectors) {
		k = len(m.Sectors)
	}
	if k <= 0 {
		return nil
	}
	return m.Sectors[:k]
}

// Breadth returns the advancing share of stocks with a direction,
// in [0,1]. Returns 0.5 when counts are missing.
func (m *MarketContext) Breadth() float64 {
	total := m.Advancing + m.Declining
	if total == 0 {
		return 0.5
	}
	return float64(m.Advancing) / float64(total)
}

// Kline is one daily bar used by the technical strategies.
type Kline struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Open   float64 `json:"open"`
	Close  float64 `json:"close"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Volume float64 `json:"volume"`
}
