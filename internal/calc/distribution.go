package calc

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Category names used in supply distribution breakdowns.
const (
	CategoryStaked        = "staked"
	CategoryDexLiquidity  = "dexLiquidity"
	CategoryCommunityPool = "communityPool"
	CategoryCirculating   = "circulating"
)

// DefaultTolerance is the absolute tolerance used when reconciling a breakdown to its total.
var DefaultTolerance = decimal.RequireFromString("0.01")

// Share is one category of a breakdown.
type Share struct {
	Name       string
	Amount     decimal.Decimal
	Percentage decimal.Decimal
}

// Breakdown splits a total into shares and records whether they add back up to it.
type Breakdown struct {
	Total       decimal.Decimal
	Shares      []Share
	Sum         decimal.Decimal
	Discrepancy decimal.Decimal
	Reconciled  bool
}

// Share returns the named share, or false when the breakdown has none.
func (b Breakdown) Share(name string) (Share, bool) {
	return lo.Find(b.Shares, func(s Share) bool { return s.Name == name })
}

// Part is a named amount fed to NewBreakdown.
type Part struct {
	Name   string
	Amount decimal.Decimal
}

// NewBreakdown computes each part's percentage of total and reconciles the parts
// against total within tolerance. A non-positive tolerance falls back to DefaultTolerance.
func NewBreakdown(total decimal.Decimal, parts []Part, tolerance decimal.Decimal) Breakdown {
	if !tolerance.IsPositive() {
		tolerance = DefaultTolerance
	}

	shares := lo.Map(parts, func(p Part, _ int) Share {
		return Share{Name: p.Name, Amount: p.Amount, Percentage: Percentage(p.Amount, total)}
	})
	sum := lo.Reduce(parts, func(acc decimal.Decimal, p Part, _ int) decimal.Decimal {
		return acc.Add(p.Amount)
	}, decimal.Zero)

	return Breakdown{
		Total:       total,
		Shares:      shares,
		Sum:         sum,
		Discrepancy: total.Sub(sum),
		Reconciled:  Reconciles(total, sum, tolerance),
	}
}

// Distribution breaks totalSupply into staked, DEX liquidity, community pool and the
// circulating remainder.
func Distribution(totalSupply, staked, dexLiquidity, communityPool, tolerance decimal.Decimal) Breakdown {
	circulating := CirculatingSupply(totalSupply, staked, dexLiquidity, communityPool)
	return NewBreakdown(totalSupply, []Part{
		{Name: CategoryStaked, Amount: staked},
		{Name: CategoryDexLiquidity, Amount: dexLiquidity},
		{Name: CategoryCommunityPool, Amount: communityPool},
		{Name: CategoryCirculating, Amount: circulating},
	}, tolerance)
}

// SplitByRatio divides amount across named ratios. Ratios are fractions of one and are
// applied as given; they are not normalized.
func SplitByRatio(amount decimal.Decimal, ratios []Part) []Share {
	return lo.Map(ratios, func(r Part, _ int) Share {
		return Share{Name: r.Name, Amount: amount.Mul(r.Amount), Percentage: r.Amount.Mul(hundred)}
	})
}
