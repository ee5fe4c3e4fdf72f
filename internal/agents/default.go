package agents

import "github.com/wonny/argus/internal/gateway"

// NewDefaultRegistry wires the standard six-analyst panel.
func NewDefaultRegistry(klines gateway.KlineProvider, headlines gateway.HeadlineProvider) (*Registry, error) {
	return NewRegistry(
		NewMomentum(klines),
		NewValue(),
		NewSentiment(headlines),
		NewVolatility(klines),
		NewCostBasis(),
		NewMarket(),
	)
}
