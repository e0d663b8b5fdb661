package source

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/tokenomics/internal/domain"
)

const (
	fixtureDays          = 120
	fixtureStep          = 4 * time.Hour
	fixtureBlocksPerStep = 2_880 // 17,280 blocks per day
	fixtureUnit          = 1_000_000
)

func units(display int64) decimal.Decimal {
	return decimal.NewFromInt(display * fixtureUnit)
}

// fixtureValidators splits staked supply across validators. rate is in bps2.
var fixtureValidators = []struct {
	id    string
	share decimal.Decimal
	rate  decimal.Decimal
}{
	{"penumbravalid1alpha", decimal.RequireFromString("0.5"), decimal.NewFromInt(10_000)},
	{"penumbravalid1bravo", decimal.RequireFromString("0.3"), decimal.NewFromInt(12_500)},
	{"penumbravalid1charlie", decimal.RequireFromString("0.2"), decimal.NewFromInt(20_000)},
}

// DefaultFixture builds a consistent data set of 120 days of rows, one every four hours,
// ending at the hour containing now. Amounts are in base units with six decimals.
//
// At every height the unstaked components plus the delegated base amounts equal the
// total supply, and the burn rows match the burned unstaked components.
func DefaultFixture(now time.Time) Fixture {
	end := now.UTC().Truncate(time.Hour)
	steps := fixtureDays * int(24*time.Hour/fixtureStep)

	var f Fixture
	for i := 0; i <= steps; i++ {
		n := int64(i)
		height := 1 + n*fixtureBlocksPerStep
		ts := end.Add(-time.Duration(steps-i) * fixtureStep)

		total := units(1_000_000_000 + n*50_000)
		staked := units(400_000_000 + n*20_000)
		dex := units(250_000_000)
		auction := units(10_000_000)
		fees := units(n * 200)
		arb := units(n * 100)
		circulating := total.Sub(staked).Sub(dex).Sub(auction).Sub(fees).Sub(arb)

		f.Blocks = append(f.Blocks, domain.Block{Height: height, Timestamp: ts})
		f.Supply = append(f.Supply, domain.SupplySnapshot{
			TotalSupply:  total,
			StakedSupply: staked,
			Height:       height,
			Timestamp:    ts,
		})
		f.Unstaked = append(f.Unstaked, domain.UnstakedSupplyComponents{
			Height:          height,
			Circulating:     circulating,
			AuctionLocked:   auction,
			DexLiquidity:    dex,
			ArbitrageBurned: arb,
			FeeBurned:       fees,
		})
		f.Burns = append(f.Burns, domain.BurnRecord{
			Height:         height,
			Timestamp:      ts,
			FeeBurns:       fees,
			ArbitrageBurns: arb,
			AuctionBurns:   auction,
			DexBurns:       units(n * 5),
		})

		// Validator pools are re-indexed once a day.
		if i%6 == 0 {
			for _, v := range fixtureValidators {
				base := staked.Mul(v.share)
				f.Delegated = append(f.Delegated, domain.DelegatedSupplyComponent{
					ValidatorID:        v.id,
					Height:             height,
					BaseAmount:         base,
					DelegatedAmount:    base.Mul(decimal.NewFromInt(10_000)).Div(v.rate),
					ConversionRateBps2: v.rate,
				})
			}
		}
	}

	last := f.Blocks[len(f.Blocks)-1]
	f.Market = &domain.MarketData{
		Price:     decimal.RequireFromString("2.5"),
		Volume24h: units(1_234_567),
		Height:    last.Height,
		Timestamp: last.Timestamp,
	}
	f.CommunityPool = units(150_000_000)
	f.LQT = map[int64][]domain.LQTParticipant{
		1: {
			{Address: "penumbra1lp0", Points: decimal.NewFromInt(120), VolumeIn: units(5_000), VolumeOut: units(4_000), Rewards: units(600)},
			{Address: "penumbra1lp1", Points: decimal.NewFromInt(80), VolumeIn: units(9_000), VolumeOut: units(8_500), Rewards: units(400)},
		},
		2: {
			{Address: "penumbra1lp0", Points: decimal.NewFromInt(50), VolumeIn: units(2_000), VolumeOut: units(2_000), Rewards: units(250)},
			{Address: "penumbra1lp1", Points: decimal.NewFromInt(100), VolumeIn: units(1_000), VolumeOut: units(1_500), Rewards: units(500)},
			{Address: "penumbra1lp2", Points: decimal.NewFromInt(50), VolumeIn: units(7_000), VolumeOut: units(6_000), Rewards: units(250)},
		},
	}
	return f
}
