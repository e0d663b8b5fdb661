package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Block is an indexed block height with its wall-clock time.
type Block struct {
	Height    int64     `json:"height"`
	Timestamp time.Time `json:"timestamp"`
}

// SupplySnapshot is the total and staked supply at one indexed height.
// StakedSupply <= TotalSupply is assumed by every downstream formula but not enforced here.
type SupplySnapshot struct {
	TotalSupply  decimal.Decimal  `json:"totalSupply"`
	StakedSupply decimal.Decimal  `json:"stakedSupply"`
	Height       int64            `json:"height"`
	Timestamp    time.Time        `json:"timestamp"`
	MarketCap    *decimal.Decimal `json:"marketCap,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
}

// UnstakedSupplyComponents breaks the unstaked supply at a height into its sources.
type UnstakedSupplyComponents struct {
	Height          int64           `json:"height"`
	Circulating     decimal.Decimal `json:"circulating"`
	AuctionLocked   decimal.Decimal `json:"auctionLocked"`
	DexLiquidity    decimal.Decimal `json:"dexLiquidity"`
	ArbitrageBurned decimal.Decimal `json:"arbitrageBurned"`
	FeeBurned       decimal.Decimal `json:"feeBurned"`
}

// Total returns the sum of all unstaked components.
func (u UnstakedSupplyComponents) Total() decimal.Decimal {
	return SumDecimals(u.Circulating, u.AuctionLocked, u.DexLiquidity, u.ArbitrageBurned, u.FeeBurned)
}

// DelegatedSupplyComponent is one validator's delegation pool at a height.
// ConversionRateBps2 is a fixed-point rate scaled by 10,000.
type DelegatedSupplyComponent struct {
	ValidatorID        string          `json:"validatorId"`
	Height             int64           `json:"height"`
	BaseAmount         decimal.Decimal `json:"baseAmount"`
	DelegatedAmount    decimal.Decimal `json:"delegatedAmount"`
	ConversionRateBps2 decimal.Decimal `json:"conversionRateBps2"`
}

// MarketData is the latest observed market state of the staking token.
type MarketData struct {
	Price     decimal.Decimal `json:"price"`
	Volume24h decimal.Decimal `json:"volume24h"`
	Height    int64           `json:"height"`
	Timestamp time.Time       `json:"timestamp"`
}
