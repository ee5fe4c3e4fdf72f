package contracts

// Signal is the directional stance of one analyst, or of the panel.
type Signal string

const (
	SignalBullish Signal = "bullish"
	SignalBearish Signal = "bearish"
	SignalNeutral Signal = "neutral"
)

// AgentVerdict is one analyst's opinion on one target for one cycle.
// Immutable once produced.
type AgentVerdict struct {
	Agent      string   `json:"agent"`
	Signal     Signal   `json:"signal"`
	Confidence int      `json:"confidence"` // 0-100
	Rationale  []string `json:"rationale,omitempty"`
}

// ClampConfidence bounds a confidence value to [0,100].
func ClampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

// VoteTally counts directional votes within one aggregation.
type VoteTally struct {
	Bullish int `json:"bullish"`
	Bearish int `json:"bearish"`
	Neutral int `json:"neutral"`
}

// Total returns the number of analysts that actually voted.
func (v VoteTally) Total() int {
	return v.Bullish + v.Bearish + v.Neutral
}

// AggregatedVerdict is the panel's combined opinion on one target.
// Recomputed every cycle, never persisted across cycles.
type AggregatedVerdict struct {
	Signal     Signal                  `json:"signal"`
	Confidence int                     `json:"confidence"` // 0-100, mean of present verdicts
	Votes      VoteTally               `json:"votes"`
	Verdicts   map[string]AgentVerdict `json:"verdicts"` // key: agent name

	// Abstained counts analysts that failed, timed out or declared the
	// target not applicable. They are excluded from Votes entirely.
	Abstained int `json:"abstained"`

	// NoData marks a cycle where no analyst produced a verdict; the
	// neutral/0 outcome is a placeholder, not an opinion.
	NoData bool `json:"no_data"`
}
