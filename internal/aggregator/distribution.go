package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/tokenomics/internal/calc"
	"github.com/mtlprog/tokenomics/internal/domain"
	"github.com/mtlprog/tokenomics/internal/network"
)

// GetTokenDistribution splits the total supply into staked, DEX liquidity, community
// pool and circulating amounts.
//
// DEX liquidity is further divided by the network's fixed pair ratio. That split is a
// placeholder and is flagged as such in the result.
func (s *Service) GetTokenDistribution(ctx context.Context) (m domain.DistributionMetrics, err error) {
	defer s.observe(opDistribution, time.Now(), &err)

	cc, err := s.newContext(ctx)
	if err != nil {
		return domain.DistributionMetrics{}, err
	}

	var (
		snap     domain.SupplySnapshot
		unstaked domain.UnstakedSupplyComponents
		pool     decimal.Decimal
	)
	err = s.fetch(ctx, opDistribution,
		func(ctx context.Context) error {
			v, err := s.src.SupplyAt(ctx, cc.CurrentHeight)
			if err != nil {
				return fmt.Errorf("fetching supply: %w", err)
			}
			snap = s.displaySupply(v)
			return nil
		},
		func(ctx context.Context) error {
			v, err := s.src.UnstakedAt(ctx, cc.CurrentHeight)
			if err != nil {
				return fmt.Errorf("fetching unstaked supply: %w", err)
			}
			unstaked = s.displayUnstaked(v)
			return nil
		},
		func(ctx context.Context) error {
			v, err := s.src.CommunityPool(ctx)
			if err != nil {
				return fmt.Errorf("fetching community pool: %w", err)
			}
			pool = s.display(v)
			return nil
		},
	)
	if err != nil {
		return domain.DistributionMetrics{}, err
	}

	breakdown := calc.Distribution(snap.TotalSupply, snap.StakedSupply, unstaked.DexLiquidity, pool, s.cfg.DistributionTolerance)
	s.metrics.SetReconciliationGap(opDistribution, breakdown.Discrepancy.InexactFloat64())

	if circ, ok := breakdown.Share(calc.CategoryCirculating); ok && circ.Amount.IsNegative() {
		slog.Warn("circulating supply is negative, supply inputs are inconsistent",
			"height", cc.CurrentHeight,
			"circulating", circ.Amount.String())
	}

	split := calc.SplitByRatio(unstaked.DexLiquidity, lo.Map(s.cfg.DexLiquiditySplit, func(p network.PairShare, _ int) calc.Part {
		return calc.Part{Name: p.Pair, Amount: p.Share}
	}))

	return domain.DistributionMetrics{
		TotalSupply: snap.TotalSupply,
		Categories: lo.Map(breakdown.Shares, func(sh calc.Share, _ int) domain.DistributionCategory {
			return domain.DistributionCategory{Name: sh.Name, Amount: sh.Amount, Percentage: s.percent(sh.Percentage)}
		}),
		DexLiquidity: lo.Map(split, func(sh calc.Share, _ int) domain.PairAllocation {
			return domain.PairAllocation{Pair: sh.Name, Amount: sh.Amount, Percentage: s.percent(sh.Percentage)}
		}),
		DexSplitPlaceholder: len(split) > 0,
		Reconciled:          breakdown.Reconciled,
		Discrepancy:         breakdown.Discrepancy,
		Height:              cc.CurrentHeight,
	}, nil
}
