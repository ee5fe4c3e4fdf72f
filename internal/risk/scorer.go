// Package risk derives a 0-100 portfolio risk index from exposure,
// concentration and drawdown proxies. Pure computation; data
// collection happens upstream.
package risk

import (
	"time"

	"github.com/wonny/argus/internal/contracts"
)

const baseScore = 20

// Tiered thresholds. Crossing a tier adds its increment to the score.
const (
	exposureHigh     = 85.0
	exposureElevated = 70.0

	concentrationHigh     = 70.0
	concentrationElevated = 50.0

	lossDeep     = -5.0
	lossModerate = -3.0
)

// Scorer computes risk assessments from account figures.
type Scorer struct{}

// NewScorer creates a risk scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Assess scores the portfolio. Each contributing metric is reported
// with its raw value, the first threshold it was held against and a
// pass flag, so the number is auditable.
func (s *Scorer) Assess(state *contracts.PortfolioState) contracts.RiskAssessment {
	account := state.Account

	exposure := ratio(account.TotalMarketValue, account.TotalAssets)
	concentration := ratio(maxPositionCost(state.Holdings), account.TotalAssets)
	pnlPct := ratio(account.TotalPnL, account.TotalCostBasis)

	score := baseScore
	switch {
	case exposure > exposureHigh:
		score += 20
	case exposure > exposureElevated:
		score += 10
	}
	switch {
	case concentration > concentrationHigh:
		score += 25
	case concentration > concentrationElevated:
		score += 10
	}
	switch {
	case pnlPct < lossDeep:
		score += 20
	case pnlPct < lossModerate:
		score += 10
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return contracts.RiskAssessment{
		Score: score,
		Level: band(score),
		Metrics: []contracts.RiskMetric{
			{Label: "exposure_ratio", Value: exposure, Threshold: exposureElevated, Passed: exposure <= exposureElevated},
			{Label: "concentration", Value: concentration, Threshold: concentrationElevated, Passed: concentration <= concentrationElevated},
			{Label: "pnl_pct", Value: pnlPct, Threshold: lossModerate, Passed: pnlPct >= lossModerate},
		},
		GeneratedAt: time.Now(),
	}
}

func band(score int) contracts.RiskLevel {
	switch {
	case score < 30:
		return contracts.RiskLow
	case score < 60:
		return contracts.RiskMedium
	default:
		return contracts.RiskHigh
	}
}

// maxPositionCost returns the largest single position by cost value.
func maxPositionCost(holdings []contracts.Holding) float64 {
	max := 0.0
	for _, h := range holdings {
		if cost := h.CostValue(); cost > max {
			max = cost
		}
	}
	return max
}

// ratio returns part/whole as a percentage, 0 when whole is 0.
func ratio(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}
