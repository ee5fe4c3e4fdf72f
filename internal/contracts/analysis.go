package contracts

import "time"

// HoldingAnalysis is one holding's evaluation for one refresh cycle.
// Superseded, not mutated, by the next cycle's instance.
type HoldingAnalysis struct {
	Holding Holding           `json:"holding"`
	Quote   Quote             `json:"quote"`
	PnLPct  float64           `json:"pnl_pct"`
	Verdict AggregatedVerdict `json:"verdict"`
}

// PortfolioRollup summarizes holding-level signals into one view.
// The portfolio signal applies the same majority rule as the panel
// aggregation, over holdings instead of analysts.
type PortfolioRollup struct {
	Bullish       int    `json:"bullish"`
	Bearish       int    `json:"bearish"`
	Neutral       int    `json:"neutral"`
	AvgConfidence int    `json:"avg_confidence"`
	Signal        Signal `json:"signal"`
}

// HoldingsReport is the published output of one holdings cycle.
type HoldingsReport struct {
	Analyses []HoldingAnalysis `json:"analyses"`

	// Skipped lists symbols whose quote could not be resolved this
	// cycle. They are reported, never defaulted to zero values.
	Skipped []string `json:"skipped,omitempty"`

	Rollup      PortfolioRollup `json:"rollup"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// Candidate is a not-currently-held symbol surfaced by screening.
// Created during a screening cycle, discarded after presentation.
type Candidate struct {
	Symbol         string            `json:"symbol"`
	Name           string            `json:"name"`
	Quote          Quote             `json:"quote"`
	Sector         string            `json:"sector"`
	NetInflow      float64           `json:"net_inflow"`
	Verdict        AggregatedVerdict `json:"verdict"`
	CompositeScore float64           `json:"composite_score"`
}

// MarketPicksResult carries the two independent picks of one
// screening cycle.
type MarketPicksResult struct {
	FlowPick  *Candidate `json:"flow_pick,omitempty"`  // highest inflow in the top sector
	ScorePick *Candidate `json:"score_pick,omitempty"` // highest composite score

	Considered  int       `json:"considered"` // size of the scored pool
	Sectors     []string  `json:"sectors"`    // sector names used to build the pool
	GeneratedAt time.Time `json:"generated_at"`
}
