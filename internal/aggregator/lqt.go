package aggregator

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/tokenomics/internal/calc"
	"github.com/mtlprog/tokenomics/internal/domain"
)

// GetLQTMetrics ranks the participants of a liquidity-tournament epoch.
// Epoch 0 selects the latest epoch; negative epochs and unknown methods are rejected.
func (s *Service) GetLQTMetrics(ctx context.Context, epoch int64, method calc.LQTMethod) (m domain.LQTMetrics, err error) {
	defer s.observe(opLQT, time.Now(), &err)

	method, err = calc.ParseLQTMethod(string(method))
	if err != nil {
		return domain.LQTMetrics{}, domain.InvalidHeightf("%v", err)
	}
	if epoch < 0 {
		return domain.LQTMetrics{}, domain.InvalidHeightf("epoch %d is negative", epoch)
	}
	if epoch == 0 {
		epoch, err = s.src.LatestEpoch(ctx)
		if err != nil {
			return domain.LQTMetrics{}, fmt.Errorf("fetching latest epoch: %w", err)
		}
	}

	participants, err := s.src.LQTParticipants(ctx, epoch)
	if err != nil {
		return domain.LQTMetrics{}, fmt.Errorf("fetching participants of epoch %d: %w", epoch, err)
	}
	participants = lo.Map(participants, func(p domain.LQTParticipant, _ int) domain.LQTParticipant {
		p.VolumeIn = s.display(p.VolumeIn)
		p.VolumeOut = s.display(p.VolumeOut)
		p.Rewards = s.display(p.Rewards)
		return p
	})

	sum := func(f func(domain.LQTParticipant) decimal.Decimal) decimal.Decimal {
		return lo.Reduce(participants, func(acc decimal.Decimal, p domain.LQTParticipant, _ int) decimal.Decimal {
			return acc.Add(f(p))
		}, decimal.Zero)
	}

	return domain.LQTMetrics{
		Epoch:        epoch,
		Method:       string(method),
		Participants: calc.RankLQT(participants, method),
		TotalPoints:  sum(func(p domain.LQTParticipant) decimal.Decimal { return p.Points }),
		TotalVolume:  sum(func(p domain.LQTParticipant) decimal.Decimal { return p.VolumeIn.Add(p.VolumeOut) }),
		TotalRewards: sum(func(p domain.LQTParticipant) decimal.Decimal { return p.Rewards }),
	}, nil
}
