package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alitto/pond/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/tokenomics/internal/aggregator"
	"github.com/mtlprog/tokenomics/internal/chain"
	"github.com/mtlprog/tokenomics/internal/config"
	"github.com/mtlprog/tokenomics/internal/database"
	"github.com/mtlprog/tokenomics/internal/export"
	"github.com/mtlprog/tokenomics/internal/external"
	"github.com/mtlprog/tokenomics/internal/network"
	"github.com/mtlprog/tokenomics/internal/observability"
	"github.com/mtlprog/tokenomics/internal/source"
)

// runtime holds the collaborators shared by all commands.
type runtime struct {
	cfg     config.Config
	network network.Config
	db      *pgxpool.Pool
	pool    pond.Pool
	metrics *observability.Metrics
	engine  *aggregator.Service
}

// setup loads configuration, installs the logger and wires the metrics engine.
func setup(c *cli.Context) (*runtime, error) {
	cfg := config.Load()
	if v := c.String("network"); v != "" {
		cfg.Network = v
	}
	if v := c.String("data-source"); v != "" {
		cfg.DataSource = v
	}
	setupLogger(cfg)

	netCfg, err := network.ForName(cfg.Network)
	if err != nil {
		return nil, err
	}
	if len(cfg.CommunityPoolAddresses) > 0 {
		netCfg = netCfg.WithCommunityPoolAddresses(cfg.CommunityPoolAddresses)
	}
	if err := netCfg.Validate(); err != nil {
		return nil, fmt.Errorf("network %s: %w", netCfg.Name, err)
	}

	rt := &runtime{
		cfg:     cfg,
		network: netCfg,
		metrics: observability.NewMetrics("tokenomics"),
	}

	deps := source.Deps{}
	if source.Kind(cfg.DataSource) == source.KindLive {
		cfg.RequireLive()
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the live data source")
		}
		rt.db, err = database.Connect(c.Context, cfg.DatabaseURL, int32(cfg.FetchConcurrency))
		if err != nil {
			return nil, err
		}
		denom := cfg.ChainDenom
		if denom == "" {
			denom = netCfg.Denom
		}
		deps.Pool = rt.db
		deps.CommunityPool = chain.NewClient(cfg.ChainRESTURL, denom, netCfg.CommunityPoolAddresses, cfg.ChainRetryMax, cfg.ChainRetryWait)
	}

	src, err := source.New(source.Kind(cfg.DataSource), deps)
	if err != nil {
		rt.Close()
		return nil, err
	}
	if cfg.CoinGeckoID != "" {
		src = source.WithMarketFallback(src, external.NewCoinGeckoClient(cfg.CoinGeckoURL, cfg.CoinGeckoID, cfg.CoinGeckoDelay, cfg.CoinGeckoRetryMax))
	}

	rt.pool = pond.NewPool(max(cfg.FetchConcurrency, 1))
	rt.engine = aggregator.NewService(src, netCfg,
		aggregator.WithPool(rt.pool),
		aggregator.WithMetrics(rt.metrics))

	slog.Info("metrics engine ready",
		"network", netCfg.Name,
		"dataSource", cfg.DataSource,
		"concurrency", cfg.FetchConcurrency)
	return rt, nil
}

// Close releases the worker pool and the database pool.
func (rt *runtime) Close() {
	if rt.pool != nil {
		rt.pool.StopAndWait()
	}
	if rt.db != nil {
		rt.db.Close()
	}
}

// newWriter picks the export destination: Google Sheets when a spreadsheet is
// configured, otherwise a local workbook. It returns nil when neither is set.
func (rt *runtime) newWriter(ctx context.Context, xlsxPath string) (export.SheetWriter, error) {
	if xlsxPath == "" && rt.cfg.SheetsSpreadsheetID != "" {
		if rt.cfg.GoogleCredentialsJSON == "" {
			return nil, fmt.Errorf("GOOGLE_CREDENTIALS_JSON is required when SHEETS_SPREADSHEET_ID is set")
		}
		return export.NewSheetsWriter(ctx, rt.cfg.SheetsSpreadsheetID, rt.cfg.GoogleCredentialsJSON)
	}
	if xlsxPath == "" {
		xlsxPath = rt.cfg.XLSXPath
	}
	if xlsxPath != "" {
		return export.NewXLSXWriter(xlsxPath), nil
	}
	return nil, nil
}

func setupLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
