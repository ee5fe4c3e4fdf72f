// Package screener builds a pool of not-currently-held candidates
// from market context, scores them through the analyst panel and
// surfaces two independent picks per cycle.
package screener

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/argus/internal/aggregate"
	"github.com/wonny/argus/internal/agents"
	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/internal/gateway"
	"github.com/wonny/argus/pkg/config"
	"github.com/wonny/argus/pkg/logger"
)

// Screener runs one candidate screening cycle at a time. Each cycle
// snapshots the market context once, builds the pool from the top-K
// sectors, filters for eligibility and scores the survivors.
type Screener struct {
	quotes  gateway.QuoteGateway
	sectors gateway.SectorStocksProvider
	scanner gateway.MarketScanner
	panel   *agents.Panel
	config  config.ScreenerConfig
	logger  *logger.Logger
}

// New creates a screener. scanner may be nil; it only backs the
// fallback path when every sector comes up empty.
func New(quotes gateway.QuoteGateway, sectors gateway.SectorStocksProvider, scanner gateway.MarketScanner, panel *agents.Panel, cfg config.ScreenerConfig, log *logger.Logger) *Screener {
	return &Screener{
		quotes:  quotes,
		sectors: sectors,
		scanner: scanner,
		panel:   panel,
		config:  cfg,
		logger:  log,
	}
}

// poolEntry is one pool member before panel scoring.
type poolEntry struct {
	stock  contracts.SectorStock
	sector string
}

// Screen runs one screening cycle against the given held-symbol set.
// A failed market context fetch aborts the cycle; per-sector fetch
// failures only shrink the pool.
func (s *Screener) Screen(ctx context.Context, held map[string]bool) (*contracts.MarketPicksResult, error) {
	market, err := s.quotes.GetMarketContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("market context failed: %w", err)
	}
	return s.ScreenWithContext(ctx, market, held)
}

// ScreenWithContext runs one screening cycle over an already-fetched
// market snapshot.
func (s *Screener) ScreenWithContext(ctx context.Context, market *contracts.MarketContext, held map[string]bool) (*contracts.MarketPicksResult, error) {
	topSectors := market.TopSectors(s.config.SectorCount)
	pool, sectorNames := s.buildPool(ctx, topSectors, held)

	if len(pool) == 0 && s.scanner != nil {
		pool = s.marketWideFallback(ctx, held)
	}

	result := &contracts.MarketPicksResult{
		Sectors:     sectorNames,
		GeneratedAt: time.Now(),
	}
	if len(pool) == 0 {
		s.logger.Warn("Screening produced an empty pool")
		return result, nil
	}

	eligible := s.filterEligible(pool)
	if len(eligible) == 0 {
		// Never produce an empty pick from a non-empty raw pool.
		s.logger.WithField("pool", len(pool)).Debug("No candidate passed eligibility, falling back to unfiltered pool")
		eligible = pool
	}

	candidates := s.score(ctx, market, eligible)
	result.Considered = len(candidates)

	topSectorName := ""
	if len(topSectors) > 0 {
		topSectorName = topSectors[0].Name
	}
	result.FlowPick = pickByFlow(candidates, topSectorName)
	result.ScorePick = pickByScore(candidates)
	return result, nil
}

// buildPool unions the top-N inflow stocks of each top sector,
// excluding held symbols and duplicates.
func (s *Screener) buildPool(ctx context.Context, topSectors []contracts.SectorRecord, held map[string]bool) ([]poolEntry, []string) {
	var pool []poolEntry
	var names []string
	seen := make(map[string]bool)

	for _, sector := range topSectors {
		names = append(names, sector.Name)
		stocks, err := s.sectors.GetSectorStocks(ctx, sector.Code, s.config.StocksPerSector)
		if err != nil {
			s.logger.WithError(err).WithField("sector", sector.Code).Warn("Sector fetch failed, shrinking pool")
			continue
		}
		for _, stock := range stocks {
			if held[stock.Symbol] || seen[stock.Symbol] {
				continue
			}
			seen[stock.Symbol] = true
			pool = append(pool, poolEntry{stock: stock, sector: sector.Name})
		}
	}
	return pool, names
}

// marketWideFallback pulls the strongest stocks across all boards when
// the sector pool is empty.
func (s *Screener) marketWideFallback(ctx context.Context, held map[string]bool) []poolEntry {
	limit := s.config.SectorCount * s.config.StocksPerSector
	stocks, err := s.scanner.GetMarketTopStocks(ctx, limit)
	if err != nil {
		s.logger.WithError(err).Warn("Market-wide fallback failed")
		return nil
	}
	var pool []poolEntry
	for _, stock := range stocks {
		if held[stock.Symbol] {
			continue
		}
		pool = append(pool, poolEntry{stock: stock})
	}
	return pool
}

// filterEligible keeps candidates whose day change lies strictly
// inside the configured interval and whose net inflow is positive.
func (s *Screener) filterEligible(pool []poolEntry) []poolEntry {
	var eligible []poolEntry
	for _, entry := range pool {
		if entry.stock.ChangePct > s.config.MinChangePct &&
			entry.stock.ChangePct < s.config.MaxChangePct &&
			entry.stock.NetInflow > 0 {
			eligible = append(eligible, entry)
		}
	}
	return eligible
}

// score runs every pool member through the full panel, without a cost
// basis, and computes composite scores.
func (s *Screener) score(ctx context.Context, market *contracts.MarketContext, pool []poolEntry) []contracts.Candidate {
	maxInflow := 0.0
	for _, entry := range pool {
		if entry.stock.NetInflow > maxInflow {
			maxInflow = entry.stock.NetInflow
		}
	}

	candidates := make([]contracts.Candidate, len(pool))
	var wg sync.WaitGroup
	for i, entry := range pool {
		wg.Add(1)
		go func(i int, entry poolEntry) {
			defer wg.Done()
			candidates[i] = s.scoreOne(ctx, market, entry, maxInflow)
		}(i, entry)
	}
	wg.Wait()
	return candidates
}

func (s *Screener) scoreOne(ctx context.Context, market *contracts.MarketContext, entry poolEntry, maxInflow float64) contracts.Candidate {
	stock := entry.stock
	target := agents.Target{
		Symbol: stock.Symbol,
		Name:   stock.Name,
		Quote: contracts.Quote{
			Symbol:    stock.Symbol,
			Name:      stock.Name,
			Price:     stock.Price,
			ChangePct: stock.ChangePct,
			PE:        stock.PE,
			PB:        stock.PB,
		},
		Market: market,
	}
	verdicts, abstained := s.panel.Evaluate(ctx, target)
	verdict := aggregate.Combine(verdicts, abstained)

	return contracts.Candidate{
		Symbol:         stock.Symbol,
		Name:           stock.Name,
		Quote:          target.Quote,
		Sector:         entry.sector,
		NetInflow:      stock.NetInflow,
		Verdict:        verdict,
		CompositeScore: s.composite(stock.NetInflow, maxInflow, verdict.Confidence),
	}
}

// composite blends inflow strength with the panel's confidence. It
// grows with both: the inflow leg is base + normalizedInflow x weight
// capped at the configured ceiling, then averaged with confidence.
func (s *Screener) composite(inflow, maxInflow float64, confidence int) float64 {
	norm := 0.0
	if maxInflow > 0 && inflow > 0 {
		norm = inflow / maxInflow
	}
	flowLeg := s.config.CompositeBase + norm*s.config.InflowWeight
	if flowLeg > s.config.CompositeCap {
		flowLeg = s.config.CompositeCap
	}
	return (flowLeg + float64(confidence)) / 2
}

// pickByFlow selects the highest-inflow candidate in the top sector,
// falling back to the overall highest inflow when the top sector
// contributed nothing.
func pickByFlow(candidates []contracts.Candidate, topSector string) *contracts.Candidate {
	best := bestBy(candidates, func(c contracts.Candidate) bool {
		return c.Sector == topSector
	}, func(a, b contracts.Candidate) bool {
		return a.NetInflow > b.NetInflow
	})
	if best == nil {
		best = bestBy(candidates, nil, func(a, b contracts.Candidate) bool {
			return a.NetInflow > b.NetInflow
		})
	}
	return best
}

// pickByScore selects the highest composite score.
func pickByScore(candidates []contracts.Candidate) *contracts.Candidate {
	return bestBy(candidates, nil, func(a, b contracts.Candidate) bool {
		return a.CompositeScore > b.CompositeScore
	})
}

// bestBy returns a copy of the candidate preferred by better,
// optionally restricted to those matching keep.
func bestBy(candidates []contracts.Candidate, keep func(contracts.Candidate) bool, better func(a, b contracts.Candidate) bool) *contracts.Candidate {
	var best *contracts.Candidate
	for i := range candidates {
		c := candidates[i]
		if keep != nil && !keep(c) {
			continue
		}
		if best == nil || better(c, *best) {
			picked := c
			best = &picked
		}
	}
	return best
}
