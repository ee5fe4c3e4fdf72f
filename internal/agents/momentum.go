package agents

import (
	"context"
	"fmt"

	"github.com/markcheno/go-talib"

	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/internal/gateway"
)

const (
	momentumKlineWindow = 60
	momentumMinBars     = 35 // MACD needs 26+9 bars of history
)

// Momentum scores a target on daily-bar technicals: RSI(14) extremes
// and the MACD histogram.
type Momentum struct {
	klines gateway.KlineProvider
}

// NewMomentum creates the momentum analyst.
func NewMomentum(klines gateway.KlineProvider) *Momentum {
	return &Momentum{klines: klines}
}

func (m *Momentum) Name() string  { return "momentum" }
func (m *Momentum) Group() string { return GroupTechnical }

func (m *Momentum) Evaluate(ctx context.Context, target Target) (contracts.AgentVerdict, error) {
	bars, err := m.klines.GetKlines(ctx, target.Symbol, momentumKlineWindow)
	if err != nil {
		return contracts.AgentVerdict{}, fmt.Errorf("fetch klines: %w", err)
	}
	if len(bars) < momentumMinBars {
		return contracts.AgentVerdict{}, ErrNotApplicable
	}

	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}

	rsi := talib.Rsi(closes, 14)
	macd, macdSignal, hist := talib.Macd(closes, 12, 26, 9)

	lastRSI := rsi[len(rsi)-1]
	lastHist := hist[len(hist)-1]
	prevHist := hist[len(hist)-2]
	crossedUp := macd[len(macd)-1] > macdSignal[len(macdSignal)-1] &&
		macd[len(macd)-2] <= macdSignal[len(macdSignal)-2]

	score := 0
	var rationale []string

	switch {
	case lastRSI < 30:
		score += 2
		rationale = append(rationale, fmt.Sprintf("RSI %.1f oversold", lastRSI))
	case lastRSI > 70:
		score -= 2
		rationale = append(rationale, fmt.Sprintf("RSI %.1f overbought", lastRSI))
	default:
		rationale = append(rationale, fmt.Sprintf("RSI %.1f neutral band", lastRSI))
	}

	if lastHist > 0 && lastHist > prevHist {
		score++
		rationale = append(rationale, "MACD histogram positive and expanding")
	} else if lastHist < 0 && lastHist < prevHist {
		score--
		rationale = append(rationale, "MACD histogram negative and expanding")
	}
	if crossedUp {
		score++
		rationale = append(rationale, "MACD golden cross")
	}

	verdict := contracts.AgentVerdict{Rationale: rationale}
	switch {
	case score >= 2:
		verdict.Signal = contracts.SignalBullish
		verdict.Confidence = 60 + score*5
	case score <= -2:
		verdict.Signal = contracts.SignalBearish
		verdict.Confidence = 60 - score*5
	default:
		verdict.Signal = contracts.SignalNeutral
		verdict.Confidence = 50
	}
	verdict.Confidence = contracts.ClampConfidence(verdict.Confidence)
	return verdict, nil
}
