package agents

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/argus/internal/contracts"
)

var (
	// ErrNotApplicable means the analyst cannot form an opinion on this
	// target (missing cost basis, thin data). The analyst abstains and
	// is excluded from the vote tally.
	ErrNotApplicable = errors.New("strategy not applicable to target")

	// ErrStrategyTimeout means the analyst missed its deadline.
	ErrStrategyTimeout = errors.New("strategy timed out")
)

// Target is one holding or screening candidate under evaluation.
// Snapshots are read-only for the duration of a cycle.
type Target struct {
	Symbol string
	Name   string
	Quote  contracts.Quote
	Market *contracts.MarketContext

	// CostBasis is only meaningful when HasCostBasis is set; screening
	// candidates carry none.
	CostBasis    float64
	HasCostBasis bool
}

// PnLPct returns the unrealized gain percentage against cost basis.
func (t Target) PnLPct() float64 {
	if !t.HasCostBasis || t.CostBasis == 0 {
		return 0
	}
	return (t.Quote.Price - t.CostBasis) / t.CostBasis * 100
}

// Agent is one scoring analyst. Evaluate must be pure with respect to
// its inputs so invocations for different targets can run concurrently,
// and must honor ctx cancellation on any network work.
type Agent interface {
	Name() string
	Group() string
	Evaluate(ctx context.Context, target Target) (contracts.AgentVerdict, error)
}

// Presentation groups. Grouping has no effect on aggregation.
const (
	GroupTechnical = "technical"
	GroupValue     = "value"
	GroupSentiment = "sentiment"
	GroupRisk      = "risk-aware"
	GroupMarket    = "market"
)

// Registry is a static, ordered set of analysts keyed by name.
type Registry struct {
	order  []Agent
	byName map[string]Agent
}

// NewRegistry creates a registry from the given analysts. Duplicate
// names are a programming error.
func NewRegistry(agents ...Agent) (*Registry, error) {
	r := &Registry{byName: make(map[string]Agent, len(agents))}
	for _, a := range agents {
		if _, dup := r.byName[a.Name()]; dup {
			return nil, fmt.Errorf("duplicate agent name: %s", a.Name())
		}
		r.byName[a.Name()] = a
		r.order = append(r.order, a)
	}
	return r, nil
}

// All returns the analysts in registration order.
func (r *Registry) All() []Agent {
	return r.order
}

// Get looks up an analyst by name.
func (r *Registry) Get(name string) (Agent, bool) {
	a, ok := r.byName[name]
	return a, ok
}

// Len returns the panel size.
func (r *Registry) Len() int {
	return len(r.order)
}
