package agents

import (
	"context"
	"fmt"

	"github.com/wonny/argus/internal/contracts"
)

// Thresholds for reading the aggregate environment.
const (
	marketIndexStrong   = 0.5 // mean index change percent
	marketBreadthStrong = 0.6 // advancing share of stocks with a direction
	marketBreadthWeak   = 0.4
	marketAmplitudeWide = 8.0 // intraday swing percent
)

// Market judges the environment a target trades in: index direction,
// advance/decline breadth and whole-market main-force flow. A wide
// intraday swing on the target itself lowers conviction. Abstains
// when the cycle carries no market snapshot.
type Market struct{}

// NewMarket creates the market environment analyst.
func NewMarket() *Market {
	return &Market{}
}

func (m *Market) Name() string  { return "market" }
func (m *Market) Group() string { return GroupMarket }

func (m *Market) Evaluate(ctx context.Context, target Target) (contracts.AgentVerdict, error) {
	mc := target.Market
	if mc == nil {
		return contracts.AgentVerdict{}, ErrNotApplicable
	}

	var idxMean float64
	for _, chg := range mc.IndexChanges {
		idxMean += chg
	}
	if n := len(mc.IndexChanges); n > 0 {
		idxMean /= float64(n)
	}
	breadth := mc.Breadth()

	score := 0
	switch {
	case idxMean > marketIndexStrong:
		score++
	case idxMean < -marketIndexStrong:
		score--
	}
	switch {
	case breadth >= marketBreadthStrong:
		score++
	case breadth <= marketBreadthWeak:
		score--
	}
	switch {
	case mc.NetInflow > 0:
		score++
	case mc.NetInflow < 0:
		score--
	}

	verdict := contracts.AgentVerdict{
		Rationale: []string{
			fmt.Sprintf("index mean %+.2f%%, breadth %.0f%%, market flow %+.1f bn",
				idxMean, breadth*100, mc.NetInflow/1e9),
		},
	}
	switch {
	case score >= 2:
		verdict.Signal = contracts.SignalBullish
		verdict.Confidence = 50 + score*5
	case score <= -2:
		verdict.Signal = contracts.SignalBearish
		verdict.Confidence = 50 - score*5
	default:
		verdict.Signal = contracts.SignalNeutral
		verdict.Confidence = 50
	}

	if amp := target.Quote.Amplitude(); amp > marketAmplitudeWide {
		verdict.Confidence -= 5
		verdict.Rationale = append(verdict.Rationale,
			fmt.Sprintf("wide intraday swing %.1f%%", amp))
	}
	return verdict, nil
}
