package screener

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

func testConfig() config.ScreenerConfig {
	return config.ScreenerConfig{
		SectorCount:     2,
		StocksPerSector: 3,
		MinChangePct:    1.0,
		MaxChangePct:    9.0,
		CompositeBase:   60,
		CompositeCap:    85,
		InflowWeight:    25,
	}
}

type stubMarket struct {
	market *contracts.MarketContext
	err    error
}

func (s *stubMarket) GetQuotes(_ context.Context, _ []string) (map[string]contracts.Quote, error) {
	return nil, nil
}

func (s *stubMarket) GetMarketContext(_ context.Context) (*contracts.MarketContext, error) {
	return s.market, s.err
}

type stubSectors struct {
	bySector map[string][]contracts.SectorStock
}

func (s *stubSectors) GetSectorStocks(_ context.Context, code string, limit int) ([]contracts.SectorStock, error) {
	stocks, ok := s.bySector[code]
	if !ok {
		return nil, errors.New("unknown sector")
	}
	if len(stocks) > limit {
		stocks = stocks[:limit]
	}
	return stocks, nil
}

type stubScanner struct {
	stocks []contracts.SectorStock
}

func (s *stubScanner) GetMarketTopStocks(_ context.Context, _ int) ([]contracts.SectorStock, error) {
	return s.stocks, nil
}

type fixedAgent struct {
	name string
	conf int
}

func (f *fixedAgent) Name() string  { return f.name }
func (f *fixedAgent) Group() string { return agents.GroupTechnical }

func (f *fixedAgent) Evaluate(_ context.Context, _ agents.Target) (contracts.AgentVerdict, error) {
	return contracts.AgentVerdict{Signal: contracts.SignalBullish, Confidence: f.conf}, nil
}

func testPanel(t *testing.T) *agents.Panel {
	t.Helper()
	registry, err := agents.NewRegistry(&fixedAgent{name: "a", conf: 60})
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	return agents.NewPanel(registry, testLogger(), 4, time.Second)
}

func testMarketContext() *contracts.MarketContext {
	return &contracts.MarketContext{
		Sectors: []contracts.SectorRecord{
			{Code: "BK01", Name: "semis", NetInflow: 3e9},
			{Code: "BK02", Name: "banks", NetInflow: 2e9},
			{Code: "BK03", Name: "autos", NetInflow: 1e9},
		},
	}
}

func TestScreen(t *testing.T) {
	sectors := &stubSectors{bySector: map[string][]contracts.SectorStock{
		"BK01": {
			{Symbol: "688981", Name: "SMIC", Price: 55, ChangePct: 3.2, NetInflow: 8e8},
			{Symbol: "600519", Name: "Moutai", Price: 1700, ChangePct: 2.0, NetInflow: 6e8}, // held
			{Symbol: "002371", Name: "NAURA", Price: 310, ChangePct: 9.9, NetInflow: 9e8},   // limit-up zone
		},
		"BK02": {
			{Symbol: "601398", Name: "ICBC", Price: 5.4, ChangePct: 1.5, NetInflow: 4e8},
			{Symbol: "600036", Name: "CMB", Price: 34, ChangePct: 0.5, NetInflow: 5e8}, // too flat
		},
	}}
	s := New(&stubMarket{market: testMarketContext()}, sectors, nil, testPanel(t), testConfig(), testLogger())

	held := map[string]bool{"600519": true}
	result, err := s.Screen(context.Background(), held)
	if err != nil {
		t.Fatalf("Screen failed: %v", err)
	}

	// Pool: 688981, 002371, 601398, 600036 (600519 held). Eligible:
	// 688981 and 601398 (change inside (1,9), positive inflow).
	if result.Considered != 2 {
		t.Fatalf("Expected 2 considered, got %d", result.Considered)
	}
	if len(result.Sectors) != 2 || result.Sectors[0] != "semis" {
		t.Errorf("Unexpected sectors: %v", result.Sectors)
	}

	if result.FlowPick == nil || result.FlowPick.Symbol != "688981" {
		t.Errorf("Expected flow pick 688981 (top sector, highest inflow), got %+v", result.FlowPick)
	}
	if result.ScorePick == nil || result.ScorePick.Symbol != "688981" {
		t.Errorf("Expected score pick 688981 (max inflow at equal confidence), got %+v", result.ScorePick)
	}
	if result.ScorePick.CompositeScore <= 0 {
		t.Errorf("Expected positive composite score, got %v", result.ScorePick.CompositeScore)
	}
}

func TestScreenNeverPicksHeldSymbol(t *testing.T) {
	sectors := &stubSectors{bySector: map[string][]contracts.SectorStock{
		"BK01": {
			{Symbol: "688981", ChangePct: 3.0, NetInflow: 8e8},
			{Symbol: "600519", ChangePct: 2.0, NetInflow: 9e9},
		},
		"BK02": {},
	}}
	s := New(&stubMarket{market: testMarketContext()}, sectors, nil, testPanel(t), testConfig(), testLogger())

	result, err := s.Screen(context.Background(), map[string]bool{"600519": true})
	if err != nil {
		t.Fatalf("Screen failed: %v", err)
	}
	for _, pick := range []*contracts.Candidate{result.FlowPick, result.ScorePick} {
		if pick != nil && pick.Symbol == "600519" {
			t.Errorf("Held symbol surfaced as a pick: %+v", pick)
		}
	}
	if result.Considered != 1 {
		t.Errorf("Expected only the unheld symbol in the pool, got %d", result.Considered)
	}
}

func TestScreenEligibilityFallback(t *testing.T) {
	// Nothing passes the filter: one flat, one with negative inflow.
	sectors := &stubSectors{bySector: map[string][]contracts.SectorStock{
		"BK01": {
			{Symbol: "600000", ChangePct: 0.2, NetInflow: 5e8},
			{Symbol: "600016", ChangePct: 4.0, NetInflow: -2e8},
		},
		"BK02": {},
	}}
	s := New(&stubMarket{market: testMarketContext()}, sectors, nil, testPanel(t), testConfig(), testLogger())

	result, err := s.Screen(context.Background(), nil)
	if err != nil {
		t.Fatalf("Screen failed: %v", err)
	}
	if result.Considered != 2 {
		t.Fatalf("Expected fallback to the unfiltered pool, considered=%d", result.Considered)
	}
	if result.FlowPick == nil || result.ScorePick == nil {
		t.Error("Expected picks from the unfiltered pool, got none")
	}
}

func TestScreenMarketWideFallback(t *testing.T) {
	// Every sector fetch fails; the market-wide scan backs the pool.
	sectors := &stubSectors{bySector: map[string][]contracts.SectorStock{}}
	scanner := &stubScanner{stocks: []contracts.SectorStock{
		{Symbol: "300750", Name: "CATL", ChangePct: 2.5, NetInflow: 1e9},
	}}
	s := New(&stubMarket{market: testMarketContext()}, sectors, scanner, testPanel(t), testConfig(), testLogger())

	result, err := s.Screen(context.Background(), nil)
	if err != nil {
		t.Fatalf("Screen failed: %v", err)
	}
	if result.Considered != 1 {
		t.Fatalf("Expected market-wide fallback pool, considered=%d", result.Considered)
	}
	if result.FlowPick == nil || result.FlowPick.Symbol != "300750" {
		t.Errorf("Expected fallback flow pick 300750, got %+v", result.FlowPick)
	}
}

func TestScreenAbortsOnGatewayFailure(t *testing.T) {
	s := New(&stubMarket{err: gateway.ErrGatewayUnavailable}, &stubSectors{}, nil, testPanel(t), testConfig(), testLogger())
	_, err := s.Screen(context.Background(), nil)
	if !errors.Is(err, gateway.ErrGatewayUnavailable) {
		t.Errorf("Expected gateway failure to abort, got %v", err)
	}
}

func TestCompositeScoreOrdering(t *testing.T) {
	s := New(nil, nil, nil, testPanel(t), testConfig(), testLogger())

	low := s.composite(1e8, 1e9, 60)
	high := s.composite(1e9, 1e9, 60)
	if high <= low {
		t.Errorf("Composite must grow with inflow: %v <= %v", high, low)
	}

	lowConf := s.composite(5e8, 1e9, 40)
	highConf := s.composite(5e8, 1e9, 80)
	if highConf <= lowConf {
		t.Errorf("Composite must grow with confidence: %v <= %v", highConf, lowConf)
	}

	// The flow leg never exceeds the cap.
	capped := s.composite(1e9, 1e9, 100)
	if capped > (85+100)/2.0 {
		t.Errorf("Flow leg exceeded cap: %v", capped)
	}
}
