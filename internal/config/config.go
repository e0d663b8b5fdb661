package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Network                string
	DataSource             string
	DatabaseURL            string
	ChainRESTURL           string
	ChainRetryMax          int
	ChainRetryWait         time.Duration
	ChainDenom             string
	CommunityPoolAddresses []string
	CoinGeckoURL           string
	CoinGeckoID            string
	CoinGeckoDelay         time.Duration
	CoinGeckoRetryMax      int
	HTTPPort               string
	AdminAPIKey            string
	FetchConcurrency       int
	ExportInterval         time.Duration
	ReconcileInterval      time.Duration
	SheetsSpreadsheetID    string
	GoogleCredentialsJSON  string
	XLSXPath               string
	LogLevel               slog.Level
	LogFormat              string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Network:                envOrDefault("NETWORK", "mainnet"),
		DataSource:             envOrDefault("DATA_SOURCE", "live"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		ChainRESTURL:           envOrDefault("CHAIN_REST_URL", ""),
		ChainRetryMax:          envOrDefaultInt("CHAIN_RETRY_MAX", 4),
		ChainRetryWait:         envOrDefaultDuration("CHAIN_RETRY_WAIT", 1*time.Second),
		ChainDenom:             envOrDefault("CHAIN_DENOM", ""),
		CommunityPoolAddresses: envOrDefaultList("COMMUNITY_POOL_ADDRESSES"),
		CoinGeckoURL:           envOrDefault("COINGECKO_URL", "https://api.coingecko.com/api/v3"),
		CoinGeckoID:            os.Getenv("COINGECKO_ID"),
		CoinGeckoDelay:         envOrDefaultDuration("COINGECKO_DELAY", 6*time.Second),
		CoinGeckoRetryMax:      envOrDefaultInt("COINGECKO_RETRY_MAX", 5),
		HTTPPort:               envOrDefault("HTTP_PORT", "8080"),
		AdminAPIKey:            os.Getenv("ADMIN_API_KEY"),
		FetchConcurrency:       envOrDefaultInt("FETCH_CONCURRENCY", 8),
		ExportInterval:         envOrDefaultDuration("EXPORT_INTERVAL", 24*time.Hour),
		ReconcileInterval:      envOrDefaultDuration("RECONCILE_INTERVAL", 15*time.Minute),
		SheetsSpreadsheetID:    os.Getenv("SHEETS_SPREADSHEET_ID"),
		GoogleCredentialsJSON:  os.Getenv("GOOGLE_CREDENTIALS_JSON"),
		XLSXPath:               os.Getenv("XLSX_PATH"),
		LogLevel:               envOrDefaultLevel("LOG_LEVEL", slog.LevelInfo),
		LogFormat:              envOrDefault("LOG_FORMAT", "text"),
	}
}

// RequireLive warns about settings the live data source cannot run without.
func (c Config) RequireLive() {
	envOrDefaultWarn("DATABASE_URL", c.DatabaseURL)
	envOrDefaultWarn("CHAIN_REST_URL", c.ChainRESTURL)
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultWarn(key, val string) string {
	if val == "" {
		slog.Warn("required env var not set", "key", key)
	}
	return val
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}

// envOrDefaultList splits a comma-separated value, dropping blank entries.
func envOrDefaultList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func envOrDefaultLevel(key string, defaultVal slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		slog.Warn("invalid log level env var, using default", "key", key, "value", v, "default", defaultVal)
		return defaultVal
	}
	return level
}
