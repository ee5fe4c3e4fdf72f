package commands

import (
	"fmt"

	"github.com/wonny/argus/internal/agents"
	"github.com/wonny/argus/internal/analyzer"
	"github.com/wonny/argus/internal/gateway/eastmoney"
	"github.com/wonny/argus/internal/gateway/guba"
	"github.com/wonny/argus/internal/portfolio"
	"github.com/wonny/argus/internal/risk"
	"github.com/wonny/argus/internal/screener"
	"github.com/wonny/argus/pkg/config"
	"github.com/wonny/argus/pkg/database"
	"github.com/wonny/argus/pkg/httputil"
	"github.com/wonny/argus/pkg/logger"
	"github.com/wonny/argus/pkg/redis"
)

// components holds the assembled service graph shared by the daemon
// and the one-shot commands.
type components struct {
	cfg    *config.Config
	logger *logger.Logger

	db    *database.DB
	cache *redis.Client

	market    *eastmoney.Client
	panel     *agents.Panel
	analyzer  *analyzer.Analyzer
	screener  *screener.Screener
	risk      *risk.Scorer
	portfolio *portfolio.Store
}

// buildComponents assembles the full graph. withDB controls whether a
// Postgres pool is opened; screening-only commands can skip it.
func buildComponents(withDB bool) (*components, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	cacheClient, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, running without snapshot cache")
		cacheClient, _ = redis.New(&config.Config{})
	}
	cache := redis.NewCache(cacheClient, "argus")

	httpClient := httputil.New(log, cfg.Gateway.Timeout).
		WithRateLimit(cfg.Gateway.RatePerSec, cfg.Gateway.RateBurst)

	market := eastmoney.NewClient(httpClient, cache, log, cfg.Gateway.BaseURL).
		WithQuoteTTL(cfg.Gateway.QuoteCacheTTL)
	news := guba.NewClient(httpClient, log, cfg.Gateway.NewsBaseURL)

	registry, err := agents.NewDefaultRegistry(market, news)
	if err != nil {
		return nil, fmt.Errorf("build agent registry: %w", err)
	}
	panel := agents.NewPanel(registry, log, cfg.Panel.Concurrency, cfg.Panel.StrategyTimeout)

	c := &components{
		cfg:      cfg,
		logger:   log,
		cache:    cacheClient,
		market:   market,
		panel:    panel,
		analyzer: analyzer.New(market, panel, log),
		screener: screener.New(market, market, market, panel, cfg.Screener, log),
		risk:     risk.NewScorer(),
	}

	if withDB {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		c.db = db
		c.portfolio = portfolio.NewStore(db.Pool)
	}
	return c, nil
}

// close releases held connections.
func (c *components) close() {
	if c.db != nil {
		c.db.Close()
	}
	if c.cache != nil {
		c.cache.Close()
	}
}
