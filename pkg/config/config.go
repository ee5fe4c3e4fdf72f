package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// Every environment variable is read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (holdings source)
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Market data gateway
	Gateway GatewayConfig

	// Analyst panel
	Panel PanelConfig

	// Refresh schedules
	Refresh RefreshConfig

	// Candidate screening
	Screener ScreenerConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration for the holdings source.
type DatabaseConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration for the quote snapshot cache.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// GatewayConfig holds market data gateway configuration.
type GatewayConfig struct {
	BaseURL       string // eastmoney push2 endpoint
	NewsBaseURL   string // guba headline pages
	Timeout       time.Duration
	RatePerSec    float64 // outbound request rate limit
	RateBurst     int
	QuoteCacheTTL time.Duration
}

// PanelConfig holds analyst panel evaluation settings.
type PanelConfig struct {
	Concurrency     int           // max concurrent strategy invocations
	StrategyTimeout time.Duration // per-strategy deadline
}

// RefreshConfig holds the periodic re-evaluation intervals.
type RefreshConfig struct {
	HoldingsInterval  time.Duration
	ScreeningInterval time.Duration
	TradingHoursOnly  bool
}

// ScreenerConfig holds candidate pool construction constants.
type ScreenerConfig struct {
	SectorCount     int     // top-K sectors used to build the pool
	StocksPerSector int     // top-N stocks by net inflow per sector
	MinChangePct    float64 // eligibility: change% must exceed this
	MaxChangePct    float64 // eligibility: change% must stay below this
	CompositeBase   float64 // composite score base
	CompositeCap    float64 // composite score ceiling before confidence fold
	InflowWeight    float64 // weight applied to normalized inflow
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Gateway: GatewayConfig{
			BaseURL:       getEnv("GATEWAY_BASE_URL", "https://push2.eastmoney.com"),
			NewsBaseURL:   getEnv("GATEWAY_NEWS_BASE_URL", "https://guba.eastmoney.com"),
			Timeout:       getEnvAsDuration("GATEWAY_TIMEOUT", "15s"),
			RatePerSec:    getEnvAsFloat("GATEWAY_RATE_PER_SEC", 5.0),
			RateBurst:     getEnvAsInt("GATEWAY_RATE_BURST", 10),
			QuoteCacheTTL: getEnvAsDuration("GATEWAY_QUOTE_CACHE_TTL", "60s"),
		},

		Panel: PanelConfig{
			Concurrency:     getEnvAsInt("PANEL_CONCURRENCY", 8),
			StrategyTimeout: getEnvAsDuration("PANEL_STRATEGY_TIMEOUT", "20s"),
		},

		Refresh: RefreshConfig{
			HoldingsInterval:  getEnvAsDuration("REFRESH_HOLDINGS_INTERVAL", "2m"),
			ScreeningInterval: getEnvAsDuration("REFRESH_SCREENING_INTERVAL", "5m"),
			TradingHoursOnly:  getEnvAsBool("REFRESH_TRADING_HOURS_ONLY", true),
		},

		Screener: ScreenerConfig{
			SectorCount:     getEnvAsInt("SCREENER_SECTOR_COUNT", 3),
			StocksPerSector: getEnvAsInt("SCREENER_STOCKS_PER_SECTOR", 8),
			MinChangePct:    getEnvAsFloat("SCREENER_MIN_CHANGE_PCT", 1.0),
			MaxChangePct:    getEnvAsFloat("SCREENER_MAX_CHANGE_PCT", 9.0),
			CompositeBase:   getEnvAsFloat("SCREENER_COMPOSITE_BASE", 60.0),
			CompositeCap:    getEnvAsFloat("SCREENER_COMPOSITE_CAP", 85.0),
			InflowWeight:    getEnvAsFloat("SCREENER_INFLOW_WEIGHT", 25.0),
		},

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
// Bad tunables are fatal at startup rather than silently defaulted.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Refresh.HoldingsInterval <= 0 {
		return fmt.Errorf("REFRESH_HOLDINGS_INTERVAL must be positive, got %v", c.Refresh.HoldingsInterval)
	}
	if c.Refresh.ScreeningInterval <= 0 {
		return fmt.Errorf("REFRESH_SCREENING_INTERVAL must be positive, got %v", c.Refresh.ScreeningInterval)
	}

	if c.Panel.Concurrency <= 0 {
		return fmt.Errorf("PANEL_CONCURRENCY must be positive, got %d", c.Panel.Concurrency)
	}
	if c.Panel.StrategyTimeout <= 0 {
		return fmt.Errorf("PANEL_STRATEGY_TIMEOUT must be positive, got %v", c.Panel.StrategyTimeout)
	}

	if c.Screener.SectorCount <= 0 {
		return fmt.Errorf("SCREENER_SECTOR_COUNT must be positive, got %d", c.Screener.SectorCount)
	}
	if c.Screener.StocksPerSector <= 0 {
		return fmt.Errorf("SCREENER_STOCKS_PER_SECTOR must be positive, got %d", c.Screener.StocksPerSector)
	}
	if c.Screener.MinChangePct >= c.Screener.MaxChangePct {
		return fmt.Errorf("eligibility interval is empty: (%v, %v)",
			c.Screener.MinChangePct, c.Screener.MaxChangePct)
	}
	if c.Screener.CompositeBase > c.Screener.CompositeCap {
		return fmt.Errorf("SCREENER_COMPOSITE_BASE %v exceeds cap %v",
			c.Screener.CompositeBase, c.Screener.CompositeCap)
	}

	if c.Gateway.RatePerSec <= 0 {
		return fmt.Errorf("GATEWAY_RATE_PER_SEC must be positive, got %v", c.Gateway.RatePerSec)
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
