package agents

import (
	"context"
	"fmt"

	"github.com/wonny/argus/internal/contracts"
)

// CostBasis tiers a holding on its unrealized P&L. Screening
// candidates carry no cost basis, so it abstains for them.
type CostBasis struct{}

// NewCostBasis creates the position P&L analyst.
func NewCostBasis() *CostBasis { return &CostBasis{} }

func (c *CostBasis) Name() string  { return "costbasis" }
func (c *CostBasis) Group() string { return GroupRisk }

func (c *CostBasis) Evaluate(_ context.Context, target Target) (contracts.AgentVerdict, error) {
	if !target.HasCostBasis || target.CostBasis <= 0 {
		return contracts.AgentVerdict{}, ErrNotApplicable
	}

	pnl := target.PnLPct()
	verdict := contracts.AgentVerdict{
		Rationale: []string{fmt.Sprintf("unrealized P&L %.1f%%", pnl)},
	}
	switch {
	case pnl <= -8:
		verdict.Signal = contracts.SignalBearish
		verdict.Confidence = 70
		verdict.Rationale = append(verdict.Rationale, "deep loss, stop-loss zone")
	case pnl <= -3:
		verdict.Signal = contracts.SignalBearish
		verdict.Confidence = 55
		verdict.Rationale = append(verdict.Rationale, "position underwater")
	case pnl < 8:
		verdict.Signal = contracts.SignalNeutral
		verdict.Confidence = 50
	case pnl < 20:
		verdict.Signal = contracts.SignalBullish
		verdict.Confidence = 60
		verdict.Rationale = append(verdict.Rationale, "trend working in position's favor")
	default:
		verdict.Signal = contracts.SignalNeutral
		verdict.Confidence = 60
		verdict.Rationale = append(verdict.Rationale, "large gain, consider trimming")
	}
	return verdict, nil
}
