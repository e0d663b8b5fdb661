package config

import (
	"log/slog"
	"os"
	"slices"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Clear any env vars that might affect defaults
	for _, key := range []string{
		"NETWORK", "DATA_SOURCE", "DATABASE_URL", "CHAIN_REST_URL", "CHAIN_RETRY_MAX",
		"CHAIN_RETRY_WAIT", "COMMUNITY_POOL_ADDRESSES", "HTTP_PORT", "FETCH_CONCURRENCY",
		"EXPORT_INTERVAL", "LOG_LEVEL", "LOG_FORMAT", "COINGECKO_URL", "COINGECKO_ID",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.Network != "mainnet" {
		t.Errorf("Network = %q, want mainnet", cfg.Network)
	}
	if cfg.DataSource != "live" {
		t.Errorf("DataSource = %q, want live", cfg.DataSource)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
	if cfg.ChainRetryMax != 4 {
		t.Errorf("ChainRetryMax = %d, want 4", cfg.ChainRetryMax)
	}
	if cfg.ChainRetryWait != time.Second {
		t.Errorf("ChainRetryWait = %v, want 1s", cfg.ChainRetryWait)
	}
	if cfg.CommunityPoolAddresses != nil {
		t.Errorf("CommunityPoolAddresses = %v, want nil", cfg.CommunityPoolAddresses)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
	if cfg.CoinGeckoURL != "https://api.coingecko.com/api/v3" || cfg.CoinGeckoID != "" {
		t.Errorf("CoinGecko = %q/%q, want default URL and no coin", cfg.CoinGeckoURL, cfg.CoinGeckoID)
	}
	if cfg.FetchConcurrency != 8 {
		t.Errorf("FetchConcurrency = %d, want 8", cfg.FetchConcurrency)
	}
	if cfg.ExportInterval != 24*time.Hour {
		t.Errorf("ExportInterval = %v, want 24h", cfg.ExportInterval)
	}
	if cfg.LogLevel != slog.LevelInfo || cfg.LogFormat != "text" {
		t.Errorf("logging = %v/%q, want INFO/text", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("NETWORK", "testnet")
	t.Setenv("DATA_SOURCE", "fixture")
	t.Setenv("DATABASE_URL", "postgres://localhost/indexer")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CHAIN_RETRY_MAX", "10")
	t.Setenv("CHAIN_RETRY_WAIT", "5s")
	t.Setenv("COMMUNITY_POOL_ADDRESSES", " penumbra1abc, ,penumbra1def ")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg := Load()

	if cfg.Network != "testnet" || cfg.DataSource != "fixture" {
		t.Errorf("Network/DataSource = %q/%q, want testnet/fixture", cfg.Network, cfg.DataSource)
	}
	if cfg.DatabaseURL != "postgres://localhost/indexer" {
		t.Errorf("DatabaseURL = %q, want override", cfg.DatabaseURL)
	}
	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q, want 9090", cfg.HTTPPort)
	}
	if cfg.ChainRetryMax != 10 {
		t.Errorf("ChainRetryMax = %d, want 10", cfg.ChainRetryMax)
	}
	if cfg.ChainRetryWait != 5*time.Second {
		t.Errorf("ChainRetryWait = %v, want 5s", cfg.ChainRetryWait)
	}
	if want := []string{"penumbra1abc", "penumbra1def"}; !slices.Equal(cfg.CommunityPoolAddresses, want) {
		t.Errorf("CommunityPoolAddresses = %v, want %v", cfg.CommunityPoolAddresses, want)
	}
	if cfg.LogLevel != slog.LevelDebug || cfg.LogFormat != "json" {
		t.Errorf("logging = %v/%q, want DEBUG/json", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadInvalidEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("CHAIN_RETRY_MAX", "not-a-number")
	t.Setenv("CHAIN_RETRY_WAIT", "invalid-duration")
	t.Setenv("LOG_LEVEL", "verbose")

	cfg := Load()

	if cfg.ChainRetryMax != 4 {
		t.Errorf("ChainRetryMax = %d, want default 4 on invalid input", cfg.ChainRetryMax)
	}
	if cfg.ChainRetryWait != time.Second {
		t.Errorf("ChainRetryWait = %v, want default 1s on invalid input", cfg.ChainRetryWait)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want default INFO on invalid input", cfg.LogLevel)
	}
}
