package agents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/pkg/config"
	"github.com/wonny/argus/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error"})
}

type stubAgent struct {
	name    string
	verdict contracts.AgentVerdict
	err     error
	delay   time.Duration
}

func (s *stubAgent) Name() string  { return s.name }
func (s *stubAgent) Group() string { return GroupTechnical }

func (s *stubAgent) Evaluate(ctx context.Context, _ Target) (contracts.AgentVerdict, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return contracts.AgentVerdict{}, ctx.Err()
		}
	}
	return s.verdict, s.err
}

func TestPanelEvaluate(t *testing.T) {
	registry, err := NewRegistry(
		&stubAgent{name: "a", verdict: contracts.AgentVerdict{Signal: contracts.SignalBullish, Confidence: 70}},
		&stubAgent{name: "b", verdict: contracts.AgentVerdict{Signal: contracts.SignalBearish, Confidence: 130}},
		&stubAgent{name: "c", err: errors.New("upstream broke")},
		&stubAgent{name: "d", err: ErrNotApplicable},
	)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	panel := NewPanel(registry, testLogger(), 2, time.Second)
	verdicts, abstained := panel.Evaluate(context.Background(), Target{Symbol: "600519"})

	if len(verdicts) != 2 {
		t.Fatalf("Expected 2 verdicts, got %d", len(verdicts))
	}
	if abstained != 2 {
		t.Errorf("Expected 2 abstentions, got %d", abstained)
	}

	byName := make(map[string]contracts.AgentVerdict)
	for _, v := range verdicts {
		byName[v.Agent] = v
	}
	if byName["a"].Signal != contracts.SignalBullish {
		t.Errorf("Expected agent a bullish, got %s", byName["a"].Signal)
	}
	// Out-of-range confidence gets clamped on the way in.
	if byName["b"].Confidence != 100 {
		t.Errorf("Expected clamped confidence 100, got %d", byName["b"].Confidence)
	}
}

func TestPanelEvaluateTimeout(t *testing.T) {
	registry, err := NewRegistry(
		&stubAgent{name: "fast", verdict: contracts.AgentVerdict{Signal: contracts.SignalNeutral, Confidence: 50}},
		&stubAgent{name: "slow", delay: 500 * time.Millisecond, verdict: contracts.AgentVerdict{Signal: contracts.SignalBullish, Confidence: 90}},
	)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	panel := NewPanel(registry, testLogger(), 4, 50*time.Millisecond)
	verdicts, abstained := panel.Evaluate(context.Background(), Target{Symbol: "600519"})

	if len(verdicts) != 1 {
		t.Fatalf("Expected slow agent to miss the deadline, got %d verdicts", len(verdicts))
	}
	if verdicts[0].Agent != "fast" {
		t.Errorf("Expected fast agent's verdict, got %s", verdicts[0].Agent)
	}
	if abstained != 1 {
		t.Errorf("Expected 1 abstention, got %d", abstained)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(
		&stubAgent{name: "dup"},
		&stubAgent{name: "dup"},
	)
	if err == nil {
		t.Fatal("Expected duplicate agent name to be rejected")
	}
}

func TestTargetPnLPct(t *testing.T) {
	target := Target{
		Quote:        contracts.Quote{Price: 130},
		CostBasis:    100,
		HasCostBasis: true,
	}
	if got := target.PnLPct(); got != 30 {
		t.Errorf("Expected P&L 30%%, got %v", got)
	}

	noBasis := Target{Quote: contracts.Quote{Price: 130}}
	if got := noBasis.PnLPct(); got != 0 {
		t.Errorf("Expected 0 without cost basis, got %v", got)
	}
}
