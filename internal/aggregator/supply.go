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

// GetSupplyMetrics returns the supply breakdown at the latest height.
// The unstaked components plus the delegated base amounts are reconciled against the
// total supply; a mismatch is reported in the result and logged, never corrected.
func (s *Service) GetSupplyMetrics(ctx context.Context) (m domain.SupplyMetrics, err error) {
	defer s.observe(opSupply, time.Now(), &err)

	cc, err := s.newContext(ctx)
	if err != nil {
		return domain.SupplyMetrics{}, err
	}

	var (
		snap      domain.SupplySnapshot
		unstaked  domain.UnstakedSupplyComponents
		delegated []domain.DelegatedSupplyComponent
	)
	err = s.fetch(ctx, opSupply,
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
			v, err := s.src.DelegatedAt(ctx, cc.CurrentHeight)
			if err != nil {
				return fmt.Errorf("fetching delegated supply: %w", err)
			}
			delegated = lo.Map(v, func(c domain.DelegatedSupplyComponent, _ int) domain.DelegatedSupplyComponent {
				return s.displayDelegated(c)
			})
			return nil
		},
	)
	if err != nil {
		return domain.SupplyMetrics{}, err
	}

	m = buildSupplyMetrics(s.cfg, snap, unstaked, delegated)
	m.Height = cc.CurrentHeight
	m.Timestamp = cc.CurrentTimestamp

	s.metrics.SetReconciliationGap(opSupply, m.Discrepancy.InexactFloat64())
	if !m.Reconciled {
		slog.Warn("supply components do not reconcile with total supply",
			"height", m.Height,
			"totalSupply", m.TotalSupply.String(),
			"discrepancy", m.Discrepancy.String())
	}
	return m, nil
}

// buildSupplyMetrics assembles SupplyMetrics from display-unit rows.
func buildSupplyMetrics(
	cfg network.Config,
	snap domain.SupplySnapshot,
	unstaked domain.UnstakedSupplyComponents,
	delegated []domain.DelegatedSupplyComponent,
) domain.SupplyMetrics {
	totalUnstaked := unstaked.Total()
	totalBase := calc.StakedFromDelegations(delegated)
	totalDelegated := lo.Reduce(delegated, func(acc decimal.Decimal, c domain.DelegatedSupplyComponent, _ int) decimal.Decimal {
		return acc.Add(c.DelegatedAmount)
	}, decimal.Zero)

	breakdown := calc.NewBreakdown(snap.TotalSupply, []calc.Part{
		{Name: "unstaked", Amount: totalUnstaked},
		{Name: "delegated", Amount: totalBase},
	}, cfg.DistributionTolerance)

	return domain.SupplyMetrics{
		TotalSupply:  snap.TotalSupply,
		StakedSupply: snap.StakedSupply,
		Unstaked: domain.UnstakedSupply{
			UnstakedSupplyComponents: unstaked,
			TotalUnstaked:            totalUnstaked,
		},
		Delegated: domain.DelegatedSupply{
			ValidatorCount: len(delegated),
			TotalBase:      totalBase,
			TotalDelegated: totalDelegated,
			DelegatedValue: calc.DelegatedValue(delegated),
		},
		GenesisAllocation: cfg.GenesisAllocation,
		IssuedSinceLaunch: calc.IssuedSinceLaunch(snap.TotalSupply, cfg.GenesisAllocation),
		Discrepancy:       breakdown.Discrepancy,
		Reconciled:        breakdown.Reconciled,
		Height:            snap.Height,
		Timestamp:         snap.Timestamp,
	}
}
