// Package aggregate combines a panel's individual verdicts into one
// directional signal with a composite confidence.
package aggregate

import (
	"math"

	"github.com/wonny/argus/internal/contracts"
)

// Combine folds a set of analyst verdicts into an AggregatedVerdict
// under the absolute-majority rule: a direction wins only with at
// least ceil(n/2) votes, otherwise the outcome is neutral regardless
// of relative plurality. Confidence is the mean of present verdicts
// rounded to the nearest integer. Analysts that failed or timed out
// must not appear in verdicts; abstained only annotates the result.
//
// The same rule applies to holdings and screening candidates.
func Combine(verdicts []contracts.AgentVerdict, abstained int) contracts.AggregatedVerdict {
	result := contracts.AggregatedVerdict{
		Verdicts:  make(map[string]contracts.AgentVerdict, len(verdicts)),
		Abstained: abstained,
	}

	n := len(verdicts)
	if n == 0 {
		result.Signal = contracts.SignalNeutral
		result.Confidence = 0
		result.NoData = true
		return result
	}

	confidenceSum := 0
	for _, v := range verdicts {
		result.Verdicts[v.Agent] = v
		confidenceSum += contracts.ClampConfidence(v.Confidence)
		switch v.Signal {
		case contracts.SignalBullish:
			result.Votes.Bullish++
		case contracts.SignalBearish:
			result.Votes.Bearish++
		default:
			result.Votes.Neutral++
		}
	}

	majority := (n + 1) / 2 // ceil(n/2)
	switch {
	case result.Votes.Bullish >= majority:
		result.Signal = contracts.SignalBullish
	case result.Votes.Bearish >= majority:
		result.Signal = contracts.SignalBearish
	default:
		result.Signal = contracts.SignalNeutral
	}

	result.Confidence = int(math.Round(float64(confidenceSum) / float64(n)))
	return result
}

// MajoritySignal applies the same absolute-majority rule to a tally of
// already-aggregated signals, e.g. holding-level outcomes rolling up
// to a portfolio stance.
func MajoritySignal(tally contracts.VoteTally) contracts.Signal {
	n := tally.Total()
	if n == 0 {
		return contracts.SignalNeutral
	}
	majority := (n + 1) / 2
	switch {
	case tally.Bullish >= majority:
		return contracts.SignalBullish
	case tally.Bearish >= majority:
		return contracts.SignalBearish
	default:
		return contracts.SignalNeutral
	}
}
