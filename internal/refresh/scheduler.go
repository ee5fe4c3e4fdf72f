// Package refresh drives periodic re-evaluation of holdings and
// candidate screening on independent intervals. It is the sole writer
// of the published "current analysis" state.
package refresh

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wonny/argus/internal/analyzer"
	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/internal/gateway"
	"github.com/wonny/argus/internal/portfolio"
	"github.com/wonny/argus/internal/risk"
	"github.com/wonny/argus/internal/screener"
	"github.com/wonny/argus/pkg/config"
	"github.com/wonny/argus/pkg/logger"
)

// Event names passed to the publish hook.
const (
	EventHoldings  = "holdings"
	EventScreening = "screening"
	EventRisk      = "risk"
)

// Scheduler owns the holdings and screening refresh loops. Results
// are swapped atomically: readers always see either the previous
// complete result or the new one, never a partial state.
type Scheduler struct {
	cron   *cron.Cron
	logger *logger.Logger
	cfg    config.RefreshConfig

	source   gateway.PortfolioSource
	analyzer *analyzer.Analyzer
	screener *screener.Screener
	risk     *risk.Scorer

	holdingsCycle  cycleRunner
	screeningCycle cycleRunner

	holdingsReport atomic.Pointer[contracts.HoldingsReport]
	picks          atomic.Pointer[contracts.MarketPicksResult]
	assessment     atomic.Pointer[contracts.RiskAssessment]

	// onPublish is invoked after each atomic swap, for realtime push.
	onPublish func(event string, payload interface{})

	// onCycleDone is invoked after each published cycle, for metrics.
	onCycleDone func(scope string, d time.Duration, abstained int)

	rootCtx    context.Context
	rootCancel context.CancelFunc

	now func() time.Time
}

// New creates the refresh scheduler.
func New(cfg config.RefreshConfig, source gateway.PortfolioSource, a *analyzer.Analyzer, s *screener.Screener, r *risk.Scorer, log *logger.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:       cron.New(),
		logger:     log,
		cfg:        cfg,
		source:     source,
		analyzer:   a,
		screener:   s,
		risk:       r,
		rootCtx:    ctx,
		rootCancel: cancel,
		now:        time.Now,
	}
}

// OnPublish registers a hook called after each published result.
func (s *Scheduler) OnPublish(fn func(event string, payload interface{})) {
	s.onPublish = fn
}

// OnCycleDone registers a hook called once per published cycle with
// its duration and the number of analyst abstentions it saw.
func (s *Scheduler) OnCycleDone(fn func(scope string, d time.Duration, abstained int)) {
	s.onCycleDone = fn
}

// Start registers both loops and starts the cron. Both run once
// immediately so the published state is warm before the first tick.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(everySpec(s.cfg.HoldingsInterval), func() {
		s.runGated(s.RunHoldingsCycle)
	}); err != nil {
		return fmt.Errorf("failed to schedule holdings loop: %w", err)
	}
	if _, err := s.cron.AddFunc(everySpec(s.cfg.ScreeningInterval), func() {
		s.runGated(s.RunScreeningCycle)
	}); err != nil {
		return fmt.Errorf("failed to schedule screening loop: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"holdings_interval":  s.cfg.HoldingsInterval.String(),
		"screening_interval": s.cfg.ScreeningInterval.String(),
	}).Info("Starting refresh scheduler")

	go s.runGated(s.RunHoldingsCycle)
	go s.runGated(s.RunScreeningCycle)

	s.cron.Start()
	return nil
}

// Stop halts the cron and cancels in-flight cycles.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.holdingsCycle.stop()
	s.screeningCycle.stop()
	s.rootCancel()
	s.logger.Info("Refresh scheduler stopped")
}

func everySpec(interval time.Duration) string {
	return fmt.Sprintf("@every %s", interval)
}

// runGated wraps a cycle with the trading-hours gate.
func (s *Scheduler) runGated(run func() error) {
	if s.cfg.TradingHoursOnly && !isTradingTime(s.now()) {
		s.logger.Debug("Outside trading hours, skipping cycle")
		return
	}
	if err := run(); err != nil {
		s.logger.WithError(err).Warn("Cycle failed, previous result retained")
	}
}

// RunHoldingsCycle evaluates the holdings set once and, when it is
// still the newest cycle, publishes the report and risk assessment.
// On any data-path failure the previously published result stands.
func (s *Scheduler) RunHoldingsCycle() error {
	ctx, gen := s.holdingsCycle.begin(s.rootCtx)
	started := s.now()

	state, err := s.source.GetPortfolio(ctx)
	if err != nil {
		return fmt.Errorf("portfolio fetch failed: %w", err)
	}

	report, err := s.analyzer.Analyze(ctx, state.Holdings)
	if err != nil {
		return fmt.Errorf("holdings analysis failed: %w", err)
	}
	assessment := s.risk.Assess(state)

	committed := s.holdingsCycle.commit(gen, func() {
		s.holdingsReport.Store(report)
		s.assessment.Store(&assessment)
		s.publish(EventHoldings, report)
		s.publish(EventRisk, &assessment)
	})
	if !committed {
		s.logger.Debug("Holdings cycle superseded, dropping result")
		return nil
	}

	abstained := 0
	for _, a := range report.Analyses {
		abstained += a.Verdict.Abstained
	}
	s.cycleDone(EventHoldings, s.now().Sub(started), abstained)

	s.logger.WithFields(map[string]interface{}{
		"holdings": len(report.Analyses),
		"skipped":  len(report.Skipped),
		"signal":   report.Rollup.Signal,
		"duration": s.now().Sub(started).String(),
	}).Info("Holdings cycle published")
	return nil
}

// RunScreeningCycle builds and scores the candidate pool once and
// publishes the picks if the cycle is still current.
func (s *Scheduler) RunScreeningCycle() error {
	ctx, gen := s.screeningCycle.begin(s.rootCtx)
	started := s.now()

	state, err := s.source.GetPortfolio(ctx)
	if err != nil {
		return fmt.Errorf("portfolio fetch failed: %w", err)
	}

	result, err := s.screener.Screen(ctx, portfolio.HeldSymbols(state.Holdings))
	if err != nil {
		return fmt.Errorf("screening failed: %w", err)
	}

	committed := s.screeningCycle.commit(gen, func() {
		s.picks.Store(result)
		s.publish(EventScreening, result)
	})
	if !committed {
		s.logger.Debug("Screening cycle superseded, dropping result")
		return nil
	}
	s.cycleDone(EventScreening, s.now().Sub(started), 0)

	s.logger.WithFields(map[string]interface{}{
		"considered": result.Considered,
		"duration":   s.now().Sub(started).String(),
	}).Info("Screening cycle published")
	return nil
}

func (s *Scheduler) publish(event string, payload interface{}) {
	if s.onPublish != nil {
		s.onPublish(event, payload)
	}
}

func (s *Scheduler) cycleDone(scope string, d time.Duration, abstained int) {
	if s.onCycleDone != nil {
		s.onCycleDone(scope, d, abstained)
	}
}

// HoldingsReport returns the last published holdings report, nil
// before the first successful cycle.
func (s *Scheduler) HoldingsReport() *contracts.HoldingsReport {
	return s.holdingsReport.Load()
}

// Picks returns the last published screening result.
func (s *Scheduler) Picks() *contracts.MarketPicksResult {
	return s.picks.Load()
}

// RiskAssessment returns the last published risk view.
func (s *Scheduler) RiskAssessment() *contracts.RiskAssessment {
	return s.assessment.Load()
}
