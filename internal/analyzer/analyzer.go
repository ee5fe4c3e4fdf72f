// Package analyzer orchestrates the strategy panel across the
// holdings set and rolls the results up to a portfolio view.
package analyzer

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/wonny/argus/internal/aggregate"
	"github.com/wonny/argus/internal/agents"
	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/internal/gateway"
	"github.com/wonny/argus/pkg/logger"
)

// Analyzer evaluates every holding against the panel. One Analyze
// call is one cycle: quotes are fetched in a single batch, the market
// context is snapshotted once, and both stay read-only throughout.
type Analyzer struct {
	quotes gateway.QuoteGateway
	panel  *agents.Panel
	logger *logger.Logger
}

// New creates a holdings analyzer.
func New(quotes gateway.QuoteGateway, panel *agents.Panel, log *logger.Logger) *Analyzer {
	return &Analyzer{
		quotes: quotes,
		panel:  panel,
		logger: log,
	}
}

// Analyze runs one holdings cycle. Holdings whose quote cannot be
// resolved are skipped and listed in the report. A failed quote batch
// or market context fetch aborts the whole cycle so the caller can
// retain its previous result.
func (a *Analyzer) Analyze(ctx context.Context, holdings []contracts.Holding) (*contracts.HoldingsReport, error) {
	report := &contracts.HoldingsReport{GeneratedAt: time.Now()}
	if len(holdings) == 0 {
		report.Rollup.Signal = contracts.SignalNeutral
		return report, nil
	}

	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		symbols = append(symbols, h.Symbol)
	}

	quotes, err := a.quotes.GetQuotes(ctx, symbols)
	if err != nil {
		return nil, fmt.Errorf("quote batch failed: %w", err)
	}

	market, err := a.quotes.GetMarketContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("market context failed: %w", err)
	}

	analyses := make([]contracts.HoldingAnalysis, len(holdings))
	resolved := make([]bool, len(holdings))

	var wg sync.WaitGroup
	for i, holding := range holdings {
		quote, ok := quotes[bareSymbol(holding.Symbol)]
		if !ok || quote.Price == 0 {
			report.Skipped = append(report.Skipped, holding.Symbol)
			continue
		}
		resolved[i] = true

		wg.Add(1)
		go func(i int, holding contracts.Holding, quote contracts.Quote) {
			defer wg.Done()
			analyses[i] = a.analyzeOne(ctx, holding, quote, market)
		}(i, holding, quote)
	}
	wg.Wait()

	for i := range analyses {
		if resolved[i] {
			report.Analyses = append(report.Analyses, analyses[i])
		}
	}
	if len(report.Skipped) > 0 {
		a.logger.WithFields(map[string]interface{}{
			"skipped": report.Skipped,
		}).Warn("Holdings without resolvable quotes")
	}

	report.Rollup = rollup(report.Analyses)
	return report, nil
}

// analyzeOne runs the panel for a single holding.
func (a *Analyzer) analyzeOne(ctx context.Context, holding contracts.Holding, quote contracts.Quote, market *contracts.MarketContext) contracts.HoldingAnalysis {
	target := agents.Target{
		Symbol:       bareSymbol(holding.Symbol),
		Name:         holding.Name,
		Quote:        quote,
		Market:       market,
		CostBasis:    holding.CostBasis,
		HasCostBasis: true,
	}
	verdicts, abstained := a.panel.Evaluate(ctx, target)
	return contracts.HoldingAnalysis{
		Holding: holding,
		Quote:   quote,
		PnLPct:  holding.PnLPct(quote.Price),
		Verdict: aggregate.Combine(verdicts, abstained),
	}
}

// rollup summarizes holding-level signals with the same majority rule
// the panel uses, applied over holdings instead of analysts.
func rollup(analyses []contracts.HoldingAnalysis) contracts.PortfolioRollup {
	var r contracts.PortfolioRollup
	if len(analyses) == 0 {
		r.Signal = contracts.SignalNeutral
		return r
	}

	confidenceSum := 0
	var tally contracts.VoteTally
	for _, analysis := range analyses {
		confidenceSum += analysis.Verdict.Confidence
		switch analysis.Verdict.Signal {
		case contracts.SignalBullish:
			tally.Bullish++
		case contracts.SignalBearish:
			tally.Bearish++
		default:
			tally.Neutral++
		}
	}

	r.Bullish = tally.Bullish
	r.Bearish = tally.Bearish
	r.Neutral = tally.Neutral
	r.AvgConfidence = int(math.Round(float64(confidenceSum) / float64(len(analyses))))
	r.Signal = aggregate.MajoritySignal(tally)
	return r
}

func bareSymbol(symbol string) string {
	for i := 0; i < len(symbol); i++ {
		if symbol[i] == '.' {
			return symbol[:i]
		}
	}
	return symbol
}
