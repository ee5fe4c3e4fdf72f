package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Port != "8089" {
		t.Errorf("Expected Port to be 8089, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.Refresh.HoldingsInterval != 2*time.Minute {
		t.Errorf("Expected HoldingsInterval to be 2m, got %v", cfg.Refresh.HoldingsInterval)
	}

	if cfg.Refresh.ScreeningInterval != 5*time.Minute {
		t.Errorf("Expected ScreeningInterval to be 5m, got %v", cfg.Refresh.ScreeningInterval)
	}

	if cfg.Screener.SectorCount != 3 {
		t.Errorf("Expected SectorCount to be 3, got %d", cfg.Screener.SectorCount)
	}

	if cfg.Screener.StocksPerSector != 8 {
		t.Errorf("Expected StocksPerSector to be 8, got %d", cfg.Screener.StocksPerSector)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("ENV", "production")
	os.Setenv("PANEL_CONCURRENCY", "16")
	os.Setenv("SCREENER_MAX_CHANGE_PCT", "7.5")

	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ENV")
		os.Unsetenv("PANEL_CONCURRENCY")
		os.Unsetenv("SCREENER_MAX_CHANGE_PCT")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.Panel.Concurrency != 16 {
		t.Errorf("Expected Panel.Concurrency to be 16, got %d", cfg.Panel.Concurrency)
	}

	if cfg.Screener.MaxChangePct != 7.5 {
		t.Errorf("Expected MaxChangePct to be 7.5, got %v", cfg.Screener.MaxChangePct)
	}
}

func TestLoadRejectsInvalidTunables(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-positive holdings interval", "REFRESH_HOLDINGS_INTERVAL", "0s"},
		{"non-positive screening interval", "REFRESH_SCREENING_INTERVAL", "-1m"},
		{"zero panel concurrency", "PANEL_CONCURRENCY", "0"},
		{"zero sector count", "SCREENER_SECTOR_COUNT", "0"},
		{"zero stocks per sector", "SCREENER_STOCKS_PER_SECTOR", "0"},
		{"inverted eligibility bounds", "SCREENER_MIN_CHANGE_PCT", "12.0"},
		{"zero gateway rate", "GATEWAY_RATE_PER_SEC", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv(tt.key, tt.value)
			defer os.Unsetenv(tt.key)

			if _, err := Load(); err == nil {
				t.Errorf("Load() accepted %s=%s, want validation error", tt.key, tt.value)
			}
		})
	}
}

func TestLoadInvalidEnv(t *testing.T) {
	os.Setenv("ENV", "invalid_env")
	defer os.Unsetenv("ENV")

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid ENV value")
	}
}
