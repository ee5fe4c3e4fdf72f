package agents

import (
	"context"
	"fmt"

	"github.com/wonny/argus/internal/contracts"
)

// Value scores a target on valuation ratios. It abstains when the
// quote carries neither P/E nor P/B (indices, suspended stocks).
type Value struct{}

// NewValue creates the valuation analyst.
func NewValue() *Value { return &Value{} }

func (v *Value) Name() string  { return "value" }
func (v *Value) Group() string { return GroupValue }

func (v *Value) Evaluate(_ context.Context, target Target) (contracts.AgentVerdict, error) {
	pe := target.Quote.PE
	pb := target.Quote.PB
	if pe == 0 && pb == 0 {
		return contracts.AgentVerdict{}, ErrNotApplicable
	}

	score := 0
	var rationale []string

	switch {
	case pe < 0:
		score -= 2
		rationale = append(rationale, "negative earnings")
	case pe > 0 && pe <= 25:
		score++
		rationale = append(rationale, fmt.Sprintf("P/E %.1f in value band", pe))
	case pe > 60:
		score--
		rationale = append(rationale, fmt.Sprintf("P/E %.1f stretched", pe))
	case pe > 0:
		rationale = append(rationale, fmt.Sprintf("P/E %.1f fair", pe))
	}

	switch {
	case pb > 0 && pb <= 3:
		score++
		rationale = append(rationale, fmt.Sprintf("P/B %.2f conservative", pb))
	case pb > 10:
		score--
		rationale = append(rationale, fmt.Sprintf("P/B %.2f rich", pb))
	case pb > 0:
		rationale = append(rationale, fmt.Sprintf("P/B %.2f fair", pb))
	}

	verdict := contracts.AgentVerdict{Rationale: rationale}
	switch {
	case score >= 2:
		verdict.Signal = contracts.SignalBullish
		verdict.Confidence = 65
	case score == 1:
		verdict.Signal = contracts.SignalBullish
		verdict.Confidence = 55
	case score <= -2:
		verdict.Signal = contracts.SignalBearish
		verdict.Confidence = 65
	case score == -1:
		verdict.Signal = contracts.SignalBearish
		verdict.Confidence = 55
	default:
		verdict.Signal = contracts.SignalNeutral
		verdict.Confidence = 50
	}
	return verdict, nil
}
