package aggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/tokenomics/internal/calc"
	"github.com/mtlprog/tokenomics/internal/domain"
)

// GetSummaryMetrics returns the headline supply, burn, price and inflation figures.
// Inflation compares the latest supply with the supply one and two inflation windows
// ago, annualized over the window length.
func (s *Service) GetSummaryMetrics(ctx context.Context) (m domain.SummaryMetrics, err error) {
	defer s.observe(opSummary, time.Now(), &err)

	cc, err := s.newContext(ctx)
	if err != nil {
		return domain.SummaryMetrics{}, err
	}
	windowDays := s.cfg.InflationWindowDays

	var (
		current, lastWindow, prevWindow domain.SupplySnapshot
		burns                           domain.BurnRecord
		market                          *domain.MarketData
	)
	err = s.fetch(ctx, opSummary,
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
			lastWindow = snap
			return err
		},
		func(ctx context.Context) error {
			snap, err := s.historicalSupply(ctx, cc.LookbackHeight(2*windowDays))
			prevWindow = snap
			return err
		},
		func(ctx context.Context) error {
			r, err := s.src.BurnsAt(ctx, cc.CurrentHeight)
			if err != nil {
				return fmt.Errorf("fetching burns: %w", err)
			}
			burns = s.displayBurn(r)
			return nil
		},
		func(ctx context.Context) error {
			md, err := s.src.Market(ctx)
			if errors.Is(err, domain.ErrDataUnavailable) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("fetching market data: %w", err)
			}
			market = &md
			return nil
		},
	)
	if err != nil {
		return domain.SummaryMetrics{}, err
	}

	price := current.Price
	if price == nil && market != nil {
		price = &market.Price
	}
	var marketCap *decimal.Decimal
	if price != nil {
		mc := calc.MarketCap(current.TotalSupply, *price)
		marketCap = &mc
	}

	return domain.SummaryMetrics{
		TotalSupply:  current.TotalSupply,
		StakedSupply: current.StakedSupply,
		Price:        price,
		MarketCap:    marketCap,
		TotalBurned:  calc.TotalBurned([]domain.BurnRecord{burns}),
		Inflation: domain.InflationSummary{
			Current:    s.percent(calc.AnnualizedInflationRate(calc.InflationRate(current.TotalSupply, lastWindow.TotalSupply), windowDays)),
			LastMonth:  s.percent(calc.AnnualizedInflationRate(calc.InflationRate(lastWindow.TotalSupply, prevWindow.TotalSupply), windowDays)),
			WindowDays: windowDays,
		},
		Height:    cc.CurrentHeight,
		Timestamp: cc.CurrentTimestamp,
	}, nil
}
