package agents

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/pkg/logger"
)

// Panel fans one target out to every registered analyst. Invocations
// run concurrently under a bounded semaphore with a per-analyst
// deadline; the fan-in joins before any aggregation happens, so a
// cycle always reflects exactly the analysts that finished in time.
type Panel struct {
	registry    *Registry
	logger      *logger.Logger
	concurrency int
	timeout     time.Duration
}

// NewPanel creates a panel over the given registry.
func NewPanel(registry *Registry, log *logger.Logger, concurrency int, timeout time.Duration) *Panel {
	if concurrency <= 0 {
		concurrency = 8
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Panel{
		registry:    registry,
		logger:      log,
		concurrency: concurrency,
		timeout:     timeout,
	}
}

// Size returns the number of analysts on the panel.
func (p *Panel) Size() int {
	return p.registry.Len()
}

// Agents returns the panel's analysts in registration order.
func (p *Panel) Agents() []Agent {
	return p.registry.All()
}

// Agent looks up one analyst by name.
func (p *Panel) Agent(name string) (Agent, bool) {
	return p.registry.Get(name)
}

// Evaluate runs every analyst against the target and returns the
// verdicts that were actually produced plus the number of analysts
// that abstained (failed, timed out or not applicable). Failures never
// fail the evaluation; they only shrink the verdict set.
func (p *Panel) Evaluate(ctx context.Context, target Target) ([]contracts.AgentVerdict, int) {
	agents := p.registry.All()
	verdicts := make([]contracts.AgentVerdict, 0, len(agents))
	abstained := 0

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.concurrency)

	for _, agent := range agents {
		wg.Add(1)
		go func(a Agent) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				abstained++
				mu.Unlock()
				return
			}

			verdict, err := p.evaluateOne(ctx, a, target)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				abstained++
				p.logAbstention(a, target, err)
				return
			}
			verdict.Agent = a.Name()
			verdict.Confidence = contracts.ClampConfidence(verdict.Confidence)
			verdicts = append(verdicts, verdict)
		}(agent)
	}
	wg.Wait()

	return verdicts, abstained
}

// evaluateOne runs a single analyst under its own deadline.
func (p *Panel) evaluateOne(ctx context.Context, a Agent, target Target) (contracts.AgentVerdict, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	verdict, err := a.Evaluate(ctx, target)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return contracts.AgentVerdict{}, ErrStrategyTimeout
	}
	return verdict, err
}

func (p *Panel) logAbstention(a Agent, target Target, err error) {
	entry := p.logger.WithFields(map[string]interface{}{
		"agent":  a.Name(),
		"symbol": target.Symbol,
	})
	switch {
	case errors.Is(err, ErrNotApplicable):
		entry.Debug("Agent abstained: not applicable")
	case errors.Is(err, ErrStrategyTimeout):
		entry.Warn("Agent abstained: timeout")
	default:
		entry.WithError(err).Warn("Agent abstained: evaluation failed")
	}
}
