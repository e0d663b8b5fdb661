package aggregator

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/tokenomics/internal/calc"
	"github.com/mtlprog/tokenomics/internal/domain"
	"github.com/mtlprog/tokenomics/internal/timewindow"
)

// GetBurnMetrics returns burn totals at the latest height and a burn history over the
// last days, bucketed by the resolved window. days must be positive.
//
// Each history point's Rate is the amount burned within its bucket. It is not divided by
// the bucket's block count, unlike BurnRatePerBlock.
func (s *Service) GetBurnMetrics(ctx context.Context, days int) (m domain.BurnMetrics, err error) {
	defer s.observe(opBurn, time.Now(), &err)

	if days <= 0 {
		return domain.BurnMetrics{}, domain.InvalidHeightf("days must be positive, got %d", days)
	}

	cc, err := s.newContext(ctx)
	if err != nil {
		return domain.BurnMetrics{}, err
	}
	rng, err := timewindow.ResolveRange(days, cc.CurrentTimestamp)
	if err != nil {
		return domain.BurnMetrics{}, err
	}

	var (
		cumulative domain.BurnRecord
		supply     domain.SupplySnapshot
		series     []domain.BurnRecord
	)
	err = s.fetch(ctx, opBurn,
		func(ctx context.Context) error {
			r, err := s.src.BurnsAt(ctx, cc.CurrentHeight)
			if err != nil {
				return fmt.Errorf("fetching burns: %w", err)
			}
			cumulative = s.displayBurn(r)
			return nil
		},
		func(ctx context.Context) error {
			snap, err := s.src.SupplyAt(ctx, cc.CurrentHeight)
			if err != nil {
				return fmt.Errorf("fetching supply: %w", err)
			}
			supply = s.displaySupply(snap)
			return nil
		},
		func(ctx context.Context) error {
			rows, err := s.src.BurnSeries(ctx, rng.Start, rng.End)
			if err != nil {
				return fmt.Errorf("fetching burn series: %w", err)
			}
			series = lo.Map(rows, func(r domain.BurnRecord, _ int) domain.BurnRecord { return s.displayBurn(r) })
			return nil
		},
	)
	if err != nil {
		return domain.BurnMetrics{}, err
	}

	burned := calc.TotalBurned([]domain.BurnRecord{cumulative})
	locked := calc.TotalLocked([]domain.BurnRecord{cumulative})

	return domain.BurnMetrics{
		TotalBurned: burned,
		BySource: domain.BurnBySource{
			Fees:      cumulative.FeeBurns,
			Arbitrage: cumulative.ArbitrageBurns,
		},
		Locked: domain.LockedBySource{
			Auction: cumulative.AuctionBurns,
			Dex:     cumulative.DexBurns,
			Total:   locked,
		},
		PercentageOfSupplyBurned: s.percent(calc.PercentageOfSupplyBurned(burned, supply.TotalSupply)),
		BurnRatePerBlock:         calc.BurnRatePerBlock(burned, cc.CurrentHeight),
		Window:                   rng.Window.String(),
		Start:                    rng.Start,
		End:                      rng.End,
		HistoricalBurnRate:       burnHistory(series, rng.Window),
		Height:                   cc.CurrentHeight,
	}, nil
}

// burnHistory folds per-block burn increments into one point per non-empty bucket.
func burnHistory(series []domain.BurnRecord, w timewindow.Window) []domain.BurnRatePoint {
	buckets := timewindow.Group(series, w, func(r domain.BurnRecord) time.Time { return r.Timestamp })
	return lo.Map(buckets, func(b timewindow.Bucket[domain.BurnRecord], _ int) domain.BurnRatePoint {
		fees := lo.Reduce(b.Rows, func(acc decimal.Decimal, r domain.BurnRecord, _ int) decimal.Decimal {
			return acc.Add(r.FeeBurns)
		}, decimal.Zero)
		arb := lo.Reduce(b.Rows, func(acc decimal.Decimal, r domain.BurnRecord, _ int) decimal.Decimal {
			return acc.Add(r.ArbitrageBurns)
		}, decimal.Zero)
		return domain.BurnRatePoint{
			Timestamp: b.Start,
			Rate:      calc.TotalBurned(b.Rows),
			Fees:      fees,
			Arbitrage: arb,
		}
	})
}
