// Package calc implements the token-economics formulas as pure functions over decimals.
// No function in this package performs I/O or returns an error: degenerate arithmetic
// (zero denominators) yields zero, and negative inputs pass through unclamped.
package calc

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/tokenomics/internal/domain"
)

var (
	hundred     = decimal.NewFromInt(100)
	daysPerYear = decimal.NewFromInt(365)
	bps2Scale   = decimal.NewFromInt(10_000)
)

// TotalBurned sums the permanently destroyed amounts (fee and arbitrage burns).
// Auction and DEX amounts are locks and are reported by TotalLocked instead.
func TotalBurned(records []domain.BurnRecord) decimal.Decimal {
	return lo.Reduce(records, func(acc decimal.Decimal, r domain.BurnRecord, _ int) decimal.Decimal {
		return acc.Add(r.FeeBurns).Add(r.ArbitrageBurns)
	}, decimal.Zero)
}

// TotalLocked sums the auction and DEX amounts, which are locked but not destroyed.
func TotalLocked(records []domain.BurnRecord) decimal.Decimal {
	return lo.Reduce(records, func(acc decimal.Decimal, r domain.BurnRecord, _ int) decimal.Decimal {
		return acc.Add(r.AuctionBurns).Add(r.DexBurns)
	}, decimal.Zero)
}

// PercentageOfSupplyBurned returns burned / (currentSupply + burned) * 100.
// currentSupply is the supply after burns, so the denominator restores the pre-burn supply.
func PercentageOfSupplyBurned(burned, currentSupply decimal.Decimal) decimal.Decimal {
	return domain.Percent(burned, currentSupply.Add(burned))
}

// BurnRatePerBlock returns the average burned amount per block up to height.
func BurnRatePerBlock(burnedAtLatest decimal.Decimal, height int64) decimal.Decimal {
	return domain.SafeDivide(burnedAtLatest, decimal.NewFromInt(height))
}

// InflationRate returns the percentage change from past to current supply.
func InflationRate(current, past decimal.Decimal) decimal.Decimal {
	return domain.Percent(current.Sub(past), past)
}

// AnnualizedInflationRate scales a rate observed over windowDays to 365 days.
func AnnualizedInflationRate(windowRate decimal.Decimal, windowDays int) decimal.Decimal {
	if windowDays <= 0 {
		return decimal.Zero
	}
	return windowRate.Mul(daysPerYear).Div(decimal.NewFromInt(int64(windowDays)))
}

// CirculatingSupply returns total - (staked + dexLiquidity + communityPool).
// A negative result means the inputs disagree and is returned as is.
func CirculatingSupply(total, staked, dexLiquidity, communityPool decimal.Decimal) decimal.Decimal {
	return total.Sub(staked.Add(dexLiquidity).Add(communityPool))
}

// MarketCap returns totalSupply * price without rounding.
func MarketCap(totalSupply, price decimal.Decimal) decimal.Decimal {
	return totalSupply.Mul(price)
}

// Percentage returns amount as a percentage of total, or zero when total is zero.
func Percentage(amount, total decimal.Decimal) decimal.Decimal {
	return domain.Percent(amount, total)
}

// IssuedSinceLaunch returns the supply minted after genesis. It is negative when the
// genesis allocation exceeds the observed supply.
func IssuedSinceLaunch(totalSupply, genesisAllocation decimal.Decimal) decimal.Decimal {
	return totalSupply.Sub(genesisAllocation)
}

// DailyIssuance returns the average supply growth per day between past and current.
func DailyIssuance(current, past decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return current.Sub(past).Div(decimal.NewFromInt(int64(days)))
}

// ProjectedAnnualIssuance extrapolates a daily issuance to a year.
func ProjectedAnnualIssuance(daily decimal.Decimal) decimal.Decimal {
	return daily.Mul(daysPerYear)
}

// DelegationValue converts a delegation-token amount to staking tokens using a
// fixed-point rate scaled by 10,000.
func DelegationValue(delegated, rateBps2 decimal.Decimal) decimal.Decimal {
	return delegated.Mul(rateBps2).Div(bps2Scale)
}

// StakedFromDelegations sums the base amounts bonded to every validator pool.
func StakedFromDelegations(components []domain.DelegatedSupplyComponent) decimal.Decimal {
	return lo.Reduce(components, func(acc decimal.Decimal, c domain.DelegatedSupplyComponent, _ int) decimal.Decimal {
		return acc.Add(c.BaseAmount)
	}, decimal.Zero)
}

// DelegatedValue sums DelegationValue over every validator pool.
func DelegatedValue(components []domain.DelegatedSupplyComponent) decimal.Decimal {
	return lo.Reduce(components, func(acc decimal.Decimal, c domain.DelegatedSupplyComponent, _ int) decimal.Decimal {
		return acc.Add(DelegationValue(c.DelegatedAmount, c.ConversionRateBps2))
	}, decimal.Zero)
}

// Reconciles reports whether sum is within tolerance of want.
func Reconciles(want, sum, tolerance decimal.Decimal) bool {
	return want.Sub(sum).Abs().LessThanOrEqual(tolerance)
}
