package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BurnRecord holds burn amounts by source at a height.
// FeeBurns and ArbitrageBurns are destroyed supply; AuctionBurns and DexBurns are
// locked, not destroyed, and never count toward burned totals.
type BurnRecord struct {
	Height         int64           `json:"height"`
	Timestamp      time.Time       `json:"timestamp"`
	FeeBurns       decimal.Decimal `json:"feeBurns"`
	ArbitrageBurns decimal.Decimal `json:"arbitrageBurns"`
	AuctionBurns   decimal.Decimal `json:"auctionBurns"`
	DexBurns       decimal.Decimal `json:"dexBurns"`
}
