package contracts

import "time"

// RiskLevel bands the scalar risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"    // score < 30
	RiskMedium RiskLevel = "medium" // score < 60
	RiskHigh   RiskLevel = "high"
)

// RiskMetric is one audited input to the risk score: the raw value,
// the threshold it was checked against, and whether it passed.
type RiskMetric struct {
	Label     string  `json:"label"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Passed    bool    `json:"passed"`
}

// RiskAssessment is the portfolio risk view for one cycle.
type RiskAssessment struct {
	Score       int          `json:"score"` // 0-100
	Level       RiskLevel    `json:"level"`
	Metrics     []RiskMetric `json:"metrics"`
	GeneratedAt time.Time    `json:"generated_at"`
}
