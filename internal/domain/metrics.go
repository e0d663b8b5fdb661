package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InflationSummary holds annualized inflation for the current and the previous window.
type InflationSummary struct {
	Current    decimal.Decimal `json:"current"`
	LastMonth  decimal.Decimal `json:"lastMonth"`
	WindowDays int             `json:"windowDays"`
}

// SummaryMetrics is the headline view of the token economy.
type SummaryMetrics struct {
	TotalSupply  decimal.Decimal  `json:"totalSupply"`
	StakedSupply decimal.Decimal  `json:"stakedSupply"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	MarketCap    *decimal.Decimal `json:"marketCap,omitempty"`
	TotalBurned  decimal.Decimal  `json:"totalBurned"`
	Inflation    InflationSummary `json:"inflation"`
	Height       int64            `json:"height"`
	Timestamp    time.Time        `json:"timestamp"`
}

// UnstakedSupply is the unstaked breakdown plus its sum.
type UnstakedSupply struct {
	UnstakedSupplyComponents
	TotalUnstaked decimal.Decimal `json:"totalUnstaked"`
}

// DelegatedSupply summarizes the validator delegation pools.
type DelegatedSupply struct {
	ValidatorCount int             `json:"validatorCount"`
	TotalBase      decimal.Decimal `json:"totalBase"`
	TotalDelegated decimal.Decimal `json:"totalDelegated"`
	// DelegatedValue is TotalDelegated converted to staking tokens at each pool's rate.
	DelegatedValue decimal.Decimal `json:"delegatedValue"`
}

// SupplyMetrics is the full supply breakdown at the latest height.
type SupplyMetrics struct {
	TotalSupply       decimal.Decimal `json:"totalSupply"`
	StakedSupply      decimal.Decimal `json:"stakedSupply"`
	Unstaked          UnstakedSupply  `json:"unstaked"`
	Delegated         DelegatedSupply `json:"delegated"`
	GenesisAllocation decimal.Decimal `json:"genesisAllocation"`
	IssuedSinceLaunch decimal.Decimal `json:"issuedSinceLaunch"`

	// Discrepancy is TotalSupply - (Unstaked.TotalUnstaked + Delegated.TotalBase).
	Discrepancy decimal.Decimal `json:"discrepancy"`
	Reconciled  bool            `json:"reconciled"`
	Height      int64           `json:"height"`
	Timestamp   time.Time       `json:"timestamp"`
}

// BurnBySource holds permanently destroyed amounts by source.
type BurnBySource struct {
	Fees      decimal.Decimal `json:"fees"`
	Arbitrage decimal.Decimal `json:"arbitrage"`
}

// LockedBySource holds locked, not destroyed, amounts by source.
type LockedBySource struct {
	Auction decimal.Decimal `json:"auction"`
	Dex     decimal.Decimal `json:"dex"`
	Total   decimal.Decimal `json:"total"`
}

// BurnRatePoint is one bucket of the historical burn series.
// Rate is the bucket's total burned amount, not a per-block rate.
type BurnRatePoint struct {
	Timestamp time.Time       `json:"timestamp"`
	Rate      decimal.Decimal `json:"rate"`
	Fees      decimal.Decimal `json:"fees"`
	Arbitrage decimal.Decimal `json:"arbitrage"`
}

// BurnMetrics combines point-in-time burn totals with a bucketed history.
type BurnMetrics struct {
	TotalBurned              decimal.Decimal `json:"totalBurned"`
	BySource                 BurnBySource    `json:"bySource"`
	Locked                   LockedBySource  `json:"locked"`
	PercentageOfSupplyBurned decimal.Decimal `json:"percentageOfSupplyBurned"`
	BurnRatePerBlock         decimal.Decimal `json:"burnRatePerBlock"`
	Window                   string          `json:"window"`
	Start                    time.Time       `json:"start"`
	End                      time.Time       `json:"end"`
	HistoricalBurnRate       []BurnRatePoint `json:"historicalBurnRate"`
	Height                   int64           `json:"height"`
}

// IssuanceMetrics describes supply issued since genesis and over the inflation window.
type IssuanceMetrics struct {
	GenesisAllocation   decimal.Decimal `json:"genesisAllocation"`
	TotalSupply         decimal.Decimal `json:"totalSupply"`
	IssuedSinceLaunch   decimal.Decimal `json:"issuedSinceLaunch"`
	IssuedInWindow      decimal.Decimal `json:"issuedInWindow"`
	DailyIssuance       decimal.Decimal `json:"dailyIssuance"`
	ProjectedAnnual     decimal.Decimal `json:"projectedAnnualIssuance"`
	AnnualizedInflation decimal.Decimal `json:"annualizedInflation"`
	WindowDays          int             `json:"windowDays"`
	WindowStartHeight   int64           `json:"windowStartHeight"`
	Height              int64           `json:"height"`
}

// DistributionCategory is one slice of the total supply.
type DistributionCategory struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// PairAllocation is a share of DEX liquidity attributed to a trading pair.
type PairAllocation struct {
	Pair       string          `json:"pair"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// DistributionMetrics breaks the total supply into holder categories.
type DistributionMetrics struct {
	TotalSupply  decimal.Decimal        `json:"totalSupply"`
	Categories   []DistributionCategory `json:"categories"`
	DexLiquidity []PairAllocation       `json:"dexLiquidity"`

	// DexSplitPlaceholder is true while the pair split is a fixed ratio rather than pair reserves.
	DexSplitPlaceholder bool            `json:"dexSplitPlaceholder"`
	Reconciled          bool            `json:"reconciled"`
	Discrepancy         decimal.Decimal `json:"discrepancy"`
	Height              int64           `json:"height"`
}

// InflationPoint is one bucket of the inflation series.
type InflationPoint struct {
	Timestamp      time.Time       `json:"timestamp"`
	Height         int64           `json:"height"`
	TotalSupply    decimal.Decimal `json:"totalSupply"`
	PeriodRate     decimal.Decimal `json:"periodRate"`
	AnnualizedRate decimal.Decimal `json:"annualizedRate"`
}

// InflationTimeSeries is the period-over-period inflation history.
type InflationTimeSeries struct {
	Window                  string           `json:"window"`
	Start                   time.Time        `json:"start"`
	End                     time.Time        `json:"end"`
	AnnualizationWindowDays int              `json:"annualizationWindowDays"`
	Points                  []InflationPoint `json:"points"`
}

// LQTMetrics is the ranked standing of one liquidity-tournament epoch.
type LQTMetrics struct {
	Epoch        int64               `json:"epoch"`
	Method       string              `json:"method"`
	Participants []RankedParticipant `json:"participants"`
	TotalPoints  decimal.Decimal     `json:"totalPoints"`
	TotalVolume  decimal.Decimal     `json:"totalVolume"`
	TotalRewards decimal.Decimal     `json:"totalRewards"`
}
