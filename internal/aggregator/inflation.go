package aggregator

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/mtlprog/tokenomics/internal/calc"
	"github.com/mtlprog/tokenomics/internal/domain"
	"github.com/mtlprog/tokenomics/internal/timewindow"
)

// seriesAnnualizationDays is the window assumed when annualizing each period of the
// inflation series, whatever the bucket width.
const seriesAnnualizationDays = 1

// GetIssuanceMetrics returns the supply issued since genesis and over the network's
// inflation window, with daily and projected annual rates.
func (s *Service) GetIssuanceMetrics(ctx context.Context) (m domain.IssuanceMetrics, err error) {
	defer s.observe(opIssuance, time.Now(), &err)

	cc, err := s.newContext(ctx)
	if err != nil {
		return domain.IssuanceMetrics{}, err
	}
	windowDays := s.cfg.InflationWindowDays

	var current, past domain.SupplySnapshot
	err = s.fetch(ctx, opIssuance,
		func(ctx context.Context) error {
			snap, err := s.src.SupplyAt(ctx, cc.CurrentHeight)
			if err != nil {
				return fmt.Errorf("fetching current supply: %w", err)
			}
			current = s.displaySupply(snap)
			return nil
		},
		func(ctx context.Context) error {
			snap, err := s.historicalSupply(ctx, cc.LookbackHeight(windowDays))
			past = snap
			return err
		},
	)
	if err != nil {
		return domain.IssuanceMetrics{}, err
	}

	daily := calc.DailyIssuance(current.TotalSupply, past.TotalSupply, windowDays)
	return domain.IssuanceMetrics{
		GenesisAllocation:   s.cfg.GenesisAllocation,
		TotalSupply:         current.TotalSupply,
		IssuedSinceLaunch:   calc.IssuedSinceLaunch(current.TotalSupply, s.cfg.GenesisAllocation),
		IssuedInWindow:      current.TotalSupply.Sub(past.TotalSupply),
		DailyIssuance:       daily,
		ProjectedAnnual:     calc.ProjectedAnnualIssuance(daily),
		AnnualizedInflation: s.percent(calc.AnnualizedInflationRate(calc.InflationRate(current.TotalSupply, past.TotalSupply), windowDays)),
		WindowDays:          windowDays,
		WindowStartHeight:   past.Height,
		Height:              cc.CurrentHeight,
	}, nil
}

// GetInflationTimeSeries returns period-over-period inflation between consecutive
// buckets of the supply history over the last days. days must be positive.
//
// Each bucket is represented by its last snapshot. The first bucket has no predecessor
// and only anchors the series. Every period rate is annualized as if it spanned one day,
// so weekly and hourly buckets over- and under-state the annual figure respectively.
func (s *Service) GetInflationTimeSeries(ctx context.Context, days int) (m domain.InflationTimeSeries, err error) {
	defer s.observe(opInflation, time.Now(), &err)

	if days <= 0 {
		return domain.InflationTimeSeries{}, domain.InvalidHeightf("days must be positive, got %d", days)
	}

	cc, err := s.newContext(ctx)
	if err != nil {
		return domain.InflationTimeSeries{}, err
	}
	rng, err := timewindow.ResolveRange(days, cc.CurrentTimestamp)
	if err != nil {
		return domain.InflationTimeSeries{}, err
	}

	rows, err := s.src.SupplySeries(ctx, rng.Start, rng.End)
	if err != nil {
		return domain.InflationTimeSeries{}, fmt.Errorf("fetching supply series: %w", err)
	}
	series := lo.Map(rows, func(r domain.SupplySnapshot, _ int) domain.SupplySnapshot { return s.displaySupply(r) })

	return domain.InflationTimeSeries{
		Window:                  rng.Window.String(),
		Start:                   rng.Start,
		End:                     rng.End,
		AnnualizationWindowDays: seriesAnnualizationDays,
		Points:                  s.inflationPoints(series, rng.Window),
	}, nil
}

func (s *Service) inflationPoints(series []domain.SupplySnapshot, w timewindow.Window) []domain.InflationPoint {
	buckets := timewindow.Group(series, w, func(r domain.SupplySnapshot) time.Time { return r.Timestamp })
	if len(buckets) < 2 {
		return []domain.InflationPoint{}
	}

	points := make([]domain.InflationPoint, 0, len(buckets)-1)
	prev := buckets[0].Last()
	for _, b := range buckets[1:] {
		cur := b.Last()
		rate := calc.InflationRate(cur.TotalSupply, prev.TotalSupply)
		points = append(points, domain.InflationPoint{
			Timestamp:      b.Start,
			Height:         cur.Height,
			TotalSupply:    cur.TotalSupply,
			PeriodRate:     s.percent(rate),
			AnnualizedRate: s.percent(calc.AnnualizedInflationRate(rate, seriesAnnualizationDays)),
		})
		prev = cur
	}
	return points
}
