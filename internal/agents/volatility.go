package agents

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/internal/gateway"
)

const (
	volatilityKlineWindow = 60
	volatilityMinBars     = 21 // need 20 daily returns

	tradingDaysPerYear = 242
)

// Volatility is the risk-aware analyst: it bands targets on annualized
// realized volatility, leaning bearish on violent names and bullish on
// calm ones. Abstains on thin history.
type Volatility struct {
	klines gateway.KlineProvider
}

// NewVolatility creates the volatility analyst.
func NewVolatility(klines gateway.KlineProvider) *Volatility {
	return &Volatility{klines: klines}
}

func (v *Volatility) Name() string  { return "volatility" }
func (v *Volatility) Group() string { return GroupRisk }

func (v *Volatility) Evaluate(ctx context.Context, target Target) (contracts.AgentVerdict, error) {
	bars, err := v.klines.GetKlines(ctx, target.Symbol, volatilityKlineWindow)
	if err != nil {
		return contracts.AgentVerdict{}, fmt.Errorf("fetch klines: %w", err)
	}
	if len(bars) < volatilityMinBars {
		return contracts.AgentVerdict{}, ErrNotApplicable
	}

	returns := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		if bars[i-1].Close == 0 {
			continue
		}
		returns = append(returns, math.Log(bars[i].Close/bars[i-1].Close))
	}
	if len(returns) < volatilityMinBars-1 {
		return contracts.AgentVerdict{}, ErrNotApplicable
	}

	annualized := stat.StdDev(returns, nil) * math.Sqrt(tradingDaysPerYear) * 100

	verdict := contracts.AgentVerdict{
		Rationale: []string{fmt.Sprintf("annualized volatility %.1f%%", annualized)},
	}
	switch {
	case annualized < 25:
		verdict.Signal = contracts.SignalBullish
		verdict.Confidence = 55
		verdict.Rationale = append(verdict.Rationale, "low realized risk")
	case annualized > 60:
		verdict.Signal = contracts.SignalBearish
		verdict.Confidence = 60
		verdict.Rationale = append(verdict.Rationale, "elevated realized risk")
	default:
		verdict.Signal = contracts.SignalNeutral
		verdict.Confidence = 50
	}
	return verdict, nil
}
