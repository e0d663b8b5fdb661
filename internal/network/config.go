package network

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Network names accepted by ForName.
const (
	Mainnet = "mainnet"
	Testnet = "testnet"
	Devnet  = "devnet"
)

// Precision describes how raw amounts and derived percentages are presented.
type Precision struct {
	// AmountExponent is the number of decimal places between base units and display units.
	AmountExponent int32
	// PercentPlaces is the number of decimal places kept in reported percentages.
	PercentPlaces int32
}

// Display converts an amount in base units to display units. The shift is exact.
func (p Precision) Display(base decimal.Decimal) decimal.Decimal {
	return base.Shift(-p.AmountExponent)
}

// Percent rounds a percentage to PercentPlaces.
func (p Precision) Percent(v decimal.Decimal) decimal.Decimal {
	return v.Round(p.PercentPlaces)
}

// PairShare is the fraction of DEX liquidity attributed to a trading pair.
type PairShare struct {
	Pair  string
	Share decimal.Decimal
}

// Config holds the per-network constants used by the formulas and the aggregator.
// A Config is selected once per process and not mutated afterwards.
type Config struct {
	Name string
	// Denom is the base-unit denomination of the staking token.
	Denom string
	// Symbol is the display symbol of the staking token.
	Symbol string
	// GenesisAllocation is in display units.
	GenesisAllocation      decimal.Decimal
	BlocksPerDay           int64
	InflationWindowDays    int
	CommunityPoolAddresses []string
	Precision              Precision
	DistributionTolerance  decimal.Decimal

	// DexLiquiditySplit is a fixed placeholder ratio, not derived from pair reserves.
	DexLiquiditySplit []PairShare
}

func defaultDexSplit() []PairShare {
	return []PairShare{
		{Pair: "PEN/USDC", Share: decimal.RequireFromString("0.6")},
		{Pair: "PEN/ETH", Share: decimal.RequireFromString("0.4")},
	}
}

func mainnet() Config {
	return Config{
		Name:                  Mainnet,
		Denom:                 "upenumbra",
		Symbol:                "UM",
		GenesisAllocation:     decimal.NewFromInt(1_000_000_000),
		BlocksPerDay:          17_280,
		InflationWindowDays:   30,
		Precision:             Precision{AmountExponent: 6, PercentPlaces: 4},
		DistributionTolerance: decimal.RequireFromString("0.01"),
		DexLiquiditySplit:     defaultDexSplit(),
	}
}

func testnet() Config {
	c := mainnet()
	c.Name = Testnet
	c.GenesisAllocation = decimal.NewFromInt(100_000_000)
	return c
}

func devnet() Config {
	c := mainnet()
	c.Name = Devnet
	c.GenesisAllocation = decimal.NewFromInt(1_000_000)
	c.BlocksPerDay = 86_400
	c.InflationWindowDays = 7
	return c
}

// Names returns the known network names.
func Names() []string {
	return []string{Mainnet, Testnet, Devnet}
}

// ForName returns a fresh copy of the named network profile.
func ForName(name string) (Config, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Mainnet, "":
		return mainnet(), nil
	case Testnet:
		return testnet(), nil
	case Devnet:
		return devnet(), nil
	default:
		return Config{}, fmt.Errorf("unknown network %q, expected one of %s", name, strings.Join(Names(), ", "))
	}
}

// WithCommunityPoolAddresses returns a copy of c holding addrs as its community pool accounts.
func (c Config) WithCommunityPoolAddresses(addrs []string) Config {
	c.CommunityPoolAddresses = slices.Clone(addrs)
	return c
}

// Validate reports configuration values that would make the formulas meaningless.
func (c Config) Validate() error {
	if c.BlocksPerDay <= 0 {
		return fmt.Errorf("network %s: blocks per day must be positive, got %d", c.Name, c.BlocksPerDay)
	}
	if c.InflationWindowDays <= 0 {
		return fmt.Errorf("network %s: inflation window must be positive, got %d", c.Name, c.InflationWindowDays)
	}
	if c.GenesisAllocation.IsNegative() {
		return fmt.Errorf("network %s: genesis allocation is negative", c.Name)
	}
	total := decimal.Zero
	for _, s := range c.DexLiquiditySplit {
		total = total.Add(s.Share)
	}
	if len(c.DexLiquiditySplit) > 0 && !total.Equal(decimal.NewFromInt(1)) {
		return fmt.Errorf("network %s: DEX liquidity split sums to %s, want 1", c.Name, total)
	}
	return nil
}
