package export

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/tokenomics/internal/domain"
	"github.com/mtlprog/tokenomics/internal/observability"
)

// burnDays is the history length requested for the burn section.
const burnDays = 30

// Section names of exported rows.
const (
	SectionSummary      = "summary"
	SectionSupply       = "supply"
	SectionBurn         = "burn"
	SectionIssuance     = "issuance"
	SectionDistribution = "distribution"
)

const (
	unitPercent = "%"
	unitUSD     = "USD"
	unitCount   = "count"

	// unitDelegation marks amounts held in delegation tokens rather than the staking token.
	unitDelegation = "delegation"
)

// MetricRow is one exported metric value.
type MetricRow struct {
	Section string
	Name    string
	Value   decimal.Decimal
	Unit    string
}

// Engine is the subset of the metrics engine used by exports.
type Engine interface {
	GetSummaryMetrics(ctx context.Context) (domain.SummaryMetrics, error)
	GetSupplyMetrics(ctx context.Context) (domain.SupplyMetrics, error)
	GetBurnMetrics(ctx context.Context, days int) (domain.BurnMetrics, error)
	GetIssuanceMetrics(ctx context.Context) (domain.IssuanceMetrics, error)
	GetTokenDistribution(ctx context.Context) (domain.DistributionMetrics, error)
}

// SheetWriter writes metric rows to a spreadsheet destination.
type SheetWriter interface {
	Write(ctx context.Context, rows []MetricRow) error
}

// MonitoringWriter appends one dated row of headline metrics per run.
type MonitoringWriter interface {
	AppendMonitoring(ctx context.Context, rows []MetricRow, at time.Time) error
}

// Service collects all metric sections and delegates writing to a SheetWriter.
type Service struct {
	engine  Engine
	writer  SheetWriter
	symbol  string
	metrics *observability.Metrics
	now     func() time.Time
}

// NewService creates a new export Service. metrics may be nil.
func NewService(engine Engine, writer SheetWriter, symbol string, metrics *observability.Metrics) *Service {
	return &Service{
		engine:  engine,
		writer:  writer,
		symbol:  symbol,
		metrics: metrics,
		now:     time.Now,
	}
}

// Export computes every metric section, writes the rows and returns how many were written.
// If the writer also implements MonitoringWriter, a monitoring row is appended.
func (s *Service) Export(ctx context.Context) (n int, err error) {
	defer func() { s.metrics.ObserveExport(err) }()

	rows, err := s.Rows(ctx)
	if err != nil {
		return 0, err
	}

	if err := s.writer.Write(ctx, rows); err != nil {
		return 0, fmt.Errorf("writing metric rows: %w", err)
	}

	if mw, ok := s.writer.(MonitoringWriter); ok {
		if err := mw.AppendMonitoring(ctx, rows, s.now().UTC()); err != nil {
			return 0, fmt.Errorf("appending monitoring row: %w", err)
		}
	}

	slog.Info("metrics exported", "rows", len(rows))
	return len(rows), nil
}

// Rows computes every metric section and flattens it into rows.
func (s *Service) Rows(ctx context.Context) ([]MetricRow, error) {
	summary, err := s.engine.GetSummaryMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing summary metrics: %w", err)
	}
	supply, err := s.engine.GetSupplyMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing supply metrics: %w", err)
	}
	burn, err := s.engine.GetBurnMetrics(ctx, burnDays)
	if err != nil {
		return nil, fmt.Errorf("computing burn metrics: %w", err)
	}
	issuance, err := s.engine.GetIssuanceMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing issuance metrics: %w", err)
	}
	dist, err := s.engine.GetTokenDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing token distribution: %w", err)
	}

	var rows []MetricRow
	rows = append(rows, s.summaryRows(summary)...)
	rows = append(rows, s.supplyRows(supply)...)
	rows = append(rows, s.burnRows(burn)...)
	rows = append(rows, s.issuanceRows(issuance)...)
	rows = append(rows, s.distributionRows(dist)...)
	return rows, nil
}

func (s *Service) summaryRows(m domain.SummaryMetrics) []MetricRow {
	rows := []MetricRow{
		{SectionSummary, "height", decimal.NewFromInt(m.Height), ""},
		{SectionSummary, "total_supply", m.TotalSupply, s.symbol},
		{SectionSummary, "staked_supply", m.StakedSupply, s.symbol},
		{SectionSummary, "total_burned", m.TotalBurned, s.symbol},
		{SectionSummary, "inflation_current", m.Inflation.Current, unitPercent},
		{SectionSummary, "inflation_previous_window", m.Inflation.LastMonth, unitPercent},
	}
	// Price-derived rows are left out when no price was observed.
	if m.Price != nil {
		rows = append(rows, MetricRow{SectionSummary, "price", *m.Price, unitUSD})
	}
	if m.MarketCap != nil {
		rows = append(rows, MetricRow{SectionSummary, "market_cap", *m.MarketCap, unitUSD})
	}
	return rows
}

func (s *Service) supplyRows(m domain.SupplyMetrics) []MetricRow {
	return []MetricRow{
		{SectionSupply, "circulating", m.Unstaked.Circulating, s.symbol},
		{SectionSupply, "auction_locked", m.Unstaked.AuctionLocked, s.symbol},
		{SectionSupply, "dex_liquidity", m.Unstaked.DexLiquidity, s.symbol},
		{SectionSupply, "arbitrage_burned", m.Unstaked.ArbitrageBurned, s.symbol},
		{SectionSupply, "fee_burned", m.Unstaked.FeeBurned, s.symbol},
		{SectionSupply, "total_unstaked", m.Unstaked.TotalUnstaked, s.symbol},
		{SectionSupply, "delegated_base", m.Delegated.TotalBase, s.symbol},
		{SectionSupply, "delegated_tokens", m.Delegated.TotalDelegated, unitDelegation},
		{SectionSupply, "delegated_value", m.Delegated.DelegatedValue, s.symbol},
		{SectionSupply, "validators", decimal.NewFromInt(int64(m.Delegated.ValidatorCount)), unitCount},
		{SectionSupply, "issued_since_launch", m.IssuedSinceLaunch, s.symbol},
		{SectionSupply, "discrepancy", m.Discrepancy, s.symbol},
	}
}

func (s *Service) burnRows(m domain.BurnMetrics) []MetricRow {
	return []MetricRow{
		{SectionBurn, "total_burned", m.TotalBurned, s.symbol},
		{SectionBurn, "fees", m.BySource.Fees, s.symbol},
		{SectionBurn, "arbitrage", m.BySource.Arbitrage, s.symbol},
		{SectionBurn, "locked_auction", m.Locked.Auction, s.symbol},
		{SectionBurn, "locked_dex", m.Locked.Dex, s.symbol},
		{SectionBurn, "percentage_of_supply", m.PercentageOfSupplyBurned, unitPercent},
		{SectionBurn, "rate_per_block", m.BurnRatePerBlock, s.symbol},
	}
}

func (s *Service) issuanceRows(m domain.IssuanceMetrics) []MetricRow {
	window := strconv.Itoa(m.WindowDays) + "d"
	return []MetricRow{
		{SectionIssuance, "issued_in_" + window, m.IssuedInWindow, s.symbol},
		{SectionIssuance, "daily_issuance", m.DailyIssuance, s.symbol},
		{SectionIssuance, "projected_annual", m.ProjectedAnnual, s.symbol},
		{SectionIssuance, "annualized_inflation", m.AnnualizedInflation, unitPercent},
	}
}

func (s *Service) distributionRows(m domain.DistributionMetrics) []MetricRow {
	rows := lo.FlatMap(m.Categories, func(c domain.DistributionCategory, _ int) []MetricRow {
		return []MetricRow{
			{SectionDistribution, c.Name, c.Amount, s.symbol},
			{SectionDistribution, c.Name + "_share", c.Percentage, unitPercent},
		}
	})
	pairs := lo.Map(m.DexLiquidity, func(p domain.PairAllocation, _ int) MetricRow {
		return MetricRow{SectionDistribution, "dex_" + p.Pair, p.Amount, s.symbol}
	})
	return append(rows, pairs...)
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
