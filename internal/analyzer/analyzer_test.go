package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wonny/argus/internal/agents"
	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/internal/gateway"
	"github.com/wonny/argus/pkg/config"
	"github.com/wonny/argus/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error"})
}

type stubGateway struct {
	quotes map[string]contracts.Quote
	market *contracts.MarketContext
	err    error
}

func (s *stubGateway) GetQuotes(_ context.Context, _ []string) (map[string]contracts.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.quotes, nil
}

func (s *stubGateway) GetMarketContext(_ context.Context) (*contracts.MarketContext, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.market != nil {
		return s.market, nil
	}
	return &contracts.MarketContext{}, nil
}

type fixedAgent struct {
	name   string
	signal contracts.Signal
	conf   int
}

func (f *fixedAgent) Name() string  { return f.name }
func (f *fixedAgent) Group() string { return agents.GroupTechnical }

func (f *fixedAgent) Evaluate(_ context.Context, _ agents.Target) (contracts.AgentVerdict, error) {
	return contracts.AgentVerdict{Signal: f.signal, Confidence: f.conf}, nil
}

func bullishPanel(t *testing.T) *agents.Panel {
	t.Helper()
	registry, err := agents.NewRegistry(
		&fixedAgent{name: "a", signal: contracts.SignalBullish, conf: 70},
		&fixedAgent{name: "b", signal: contracts.SignalBullish, conf: 60},
		&fixedAgent{name: "c", signal: contracts.SignalBearish, conf: 80},
	)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	return agents.NewPanel(registry, testLogger(), 4, time.Second)
}

func TestAnalyze(t *testing.T) {
	gw := &stubGateway{quotes: map[string]contracts.Quote{
		"600519": {Symbol: "600519", Price: 130},
		"000858": {Symbol: "000858", Price: 95},
	}}
	a := New(gw, bullishPanel(t), testLogger())

	holdings := []contracts.Holding{
		{Symbol: "600519", Name: "贵州茅台", CostBasis: 100, Shares: 100},
		{Symbol: "000858", Name: "五粮液", CostBasis: 100, Shares: 200},
		{Symbol: "300999", Name: "金龙鱼", CostBasis: 50, Shares: 100}, // no quote
	}
	report, err := a.Analyze(context.Background(), holdings)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(report.Analyses) != 2 {
		t.Fatalf("Expected 2 analyses, got %d", len(report.Analyses))
	}
	if len(report.Skipped) != 1 || report.Skipped[0] != "300999" {
		t.Errorf("Expected 300999 skipped, got %v", report.Skipped)
	}

	first := report.Analyses[0]
	if first.Holding.Symbol != "600519" {
		t.Errorf("Expected input order preserved, got %s first", first.Holding.Symbol)
	}
	if first.PnLPct != 30 {
		t.Errorf("Expected P&L 30%%, got %v", first.PnLPct)
	}
	if first.Verdict.Signal != contracts.SignalBullish {
		t.Errorf("Expected bullish verdict, got %s", first.Verdict.Signal)
	}
	if first.Verdict.Votes.Total() != 3 {
		t.Errorf("Expected 3 votes, got %d", first.Verdict.Votes.Total())
	}

	// Both analyzed holdings are bullish 2-of-3, so the rollup is too.
	if report.Rollup.Bullish != 2 || report.Rollup.Signal != contracts.SignalBullish {
		t.Errorf("Unexpected rollup: %+v", report.Rollup)
	}
	// Each holding's verdict confidence is mean(70,60,80) = 70.
	if report.Rollup.AvgConfidence != 70 {
		t.Errorf("Expected rollup confidence 70, got %d", report.Rollup.AvgConfidence)
	}
}

func TestAnalyzeAbortsOnGatewayFailure(t *testing.T) {
	gw := &stubGateway{err: gateway.ErrGatewayUnavailable}
	a := New(gw, bullishPanel(t), testLogger())

	_, err := a.Analyze(context.Background(), []contracts.Holding{{Symbol: "600519"}})
	if !errors.Is(err, gateway.ErrGatewayUnavailable) {
		t.Errorf("Expected gateway failure to abort the cycle, got %v", err)
	}
}

func TestAnalyzeEmptyHoldings(t *testing.T) {
	a := New(&stubGateway{}, bullishPanel(t), testLogger())
	report, err := a.Analyze(context.Background(), nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(report.Analyses) != 0 {
		t.Errorf("Expected no analyses, got %d", len(report.Analyses))
	}
	if report.Rollup.Signal != contracts.SignalNeutral {
		t.Errorf("Expected neutral rollup, got %s", report.Rollup.Signal)
	}
}

func TestAnalyzeSuffixedSymbols(t *testing.T) {
	gw := &stubGateway{quotes: map[string]contracts.Quote{
		"600519": {Symbol: "600519", Price: 110},
	}}
	a := New(gw, bullishPanel(t), testLogger())

	report, err := a.Analyze(context.Background(), []contracts.Holding{
		{Symbol: "600519.SH", CostBasis: 100, Shares: 100},
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(report.Analyses) != 1 {
		t.Fatalf("Expected suffixed symbol to resolve, skipped=%v", report.Skipped)
	}
}
