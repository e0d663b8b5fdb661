package source

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/tokenomics/internal/domain"
)

// Fixture is a fixed data set served by FixtureSource. Row slices must be ordered by height.
type Fixture struct {
	Blocks        []domain.Block
	Supply        []domain.SupplySnapshot
	Unstaked      []domain.UnstakedSupplyComponents
	Delegated     []domain.DelegatedSupplyComponent
	Burns         []domain.BurnRecord
	Market        *domain.MarketData
	CommunityPool decimal.Decimal
	LQT           map[int64][]domain.LQTParticipant
}

// FixtureSource serves canned rows with the same contracts as PgSource.
// It is used in tests and when the service runs without an indexer database.
type FixtureSource struct {
	f Fixture
}

// NewFixtureSource creates a FixtureSource over f.
func NewFixtureSource(f Fixture) *FixtureSource {
	return &FixtureSource{f: f}
}

// atOrBefore returns the last element of rows whose height does not exceed height.
func atOrBefore[T any](rows []T, height int64, heightOf func(T) int64) (T, bool) {
	i := sort.Search(len(rows), func(i int) bool { return heightOf(rows[i]) > height })
	if i == 0 {
		var zero T
		return zero, false
	}
	return rows[i-1], true
}

func between[T any](rows []T, start, end time.Time, timeOf func(T) time.Time) []T {
	return lo.Filter(rows, func(r T, _ int) bool {
		ts := timeOf(r)
		return !ts.Before(start) && !ts.After(end)
	})
}

func (s *FixtureSource) LatestBlock(_ context.Context) (domain.Block, error) {
	if len(s.f.Blocks) == 0 {
		return domain.Block{}, domain.Unavailablef("latest block: no blocks indexed")
	}
	return s.f.Blocks[len(s.f.Blocks)-1], nil
}

func (s *FixtureSource) BlockAtOrBefore(_ context.Context, height int64) (domain.Block, error) {
	if err := checkHeight(height); err != nil {
		return domain.Block{}, err
	}
	b, ok := atOrBefore(s.f.Blocks, height, func(b domain.Block) int64 { return b.Height })
	if !ok {
		return domain.Block{}, domain.Unavailablef("no block at or before height %d", height)
	}
	return b, nil
}

func (s *FixtureSource) SupplyAt(_ context.Context, height int64) (domain.SupplySnapshot, error) {
	if err := checkHeight(height); err != nil {
		return domain.SupplySnapshot{}, err
	}
	snap, ok := atOrBefore(s.f.Supply, height, func(s domain.SupplySnapshot) int64 { return s.Height })
	if !ok {
		return domain.SupplySnapshot{}, domain.Unavailablef("no supply row at or before height %d", height)
	}
	return snap, nil
}

func (s *FixtureSource) SupplySeries(_ context.Context, start, end time.Time) ([]domain.SupplySnapshot, error) {
	return between(s.f.Supply, start, end, func(s domain.SupplySnapshot) time.Time { return s.Timestamp }), nil
}

func (s *FixtureSource) UnstakedAt(_ context.Context, height int64) (domain.UnstakedSupplyComponents, error) {
	if err := checkHeight(height); err != nil {
		return domain.UnstakedSupplyComponents{}, err
	}
	u, ok := atOrBefore(s.f.Unstaked, height, func(u domain.UnstakedSupplyComponents) int64 { return u.Height })
	if !ok {
		return domain.UnstakedSupplyComponents{}, domain.Unavailablef("no unstaked supply row at or before height %d", height)
	}
	return u, nil
}

func (s *FixtureSource) DelegatedAt(_ context.Context, height int64) ([]domain.DelegatedSupplyComponent, error) {
	if err := checkHeight(height); err != nil {
		return nil, err
	}
	latest := make(map[string]domain.DelegatedSupplyComponent)
	for _, c := range s.f.Delegated {
		if c.Height <= height {
			latest[c.ValidatorID] = c
		}
	}
	components := lo.Values(latest)
	slices.SortFunc(components, func(a, b domain.DelegatedSupplyComponent) int {
		if a.ValidatorID < b.ValidatorID {
			return -1
		}
		if a.ValidatorID > b.ValidatorID {
			return 1
		}
		return 0
	})
	return components, nil
}

func (s *FixtureSource) BurnsAt(_ context.Context, height int64) (domain.BurnRecord, error) {
	if err := checkHeight(height); err != nil {
		return domain.BurnRecord{}, err
	}
	r, ok := atOrBefore(s.f.Burns, height, func(r domain.BurnRecord) int64 { return r.Height })
	if !ok {
		return domain.BurnRecord{}, domain.Unavailablef("no burn row at or before height %d", height)
	}
	return r, nil
}

// BurnSeries derives per-block increments from the cumulative burn rows.
func (s *FixtureSource) BurnSeries(_ context.Context, start, end time.Time) ([]domain.BurnRecord, error) {
	deltas := make([]domain.BurnRecord, len(s.f.Burns))
	for i, r := range s.f.Burns {
		prev := r
		if i > 0 {
			prev = s.f.Burns[i-1]
		}
		deltas[i] = domain.BurnRecord{
			Height:         r.Height,
			Timestamp:      r.Timestamp,
			FeeBurns:       r.FeeBurns.Sub(prev.FeeBurns),
			ArbitrageBurns: r.ArbitrageBurns.Sub(prev.ArbitrageBurns),
			AuctionBurns:   r.AuctionBurns.Sub(prev.AuctionBurns),
			DexBurns:       r.DexBurns.Sub(prev.DexBurns),
		}
	}
	return between(deltas, start, end, func(r domain.BurnRecord) time.Time { return r.Timestamp }), nil
}

func (s *FixtureSource) Market(_ context.Context) (domain.MarketData, error) {
	if s.f.Market == nil {
		return domain.MarketData{}, domain.Unavailablef("market data: no price observed")
	}
	return *s.f.Market, nil
}

func (s *FixtureSource) CommunityPool(_ context.Context) (decimal.Decimal, error) {
	return s.f.CommunityPool, nil
}

func (s *FixtureSource) LatestEpoch(_ context.Context) (int64, error) {
	if len(s.f.LQT) == 0 {
		return 0, domain.Unavailablef("no LQT epochs")
	}
	return lo.Max(lo.Keys(s.f.LQT)), nil
}

func (s *FixtureSource) LQTParticipants(_ context.Context, epoch int64) ([]domain.LQTParticipant, error) {
	if epoch < 0 {
		return nil, domain.InvalidHeightf("epoch %d is negative", epoch)
	}
	participants, ok := s.f.LQT[epoch]
	if !ok || len(participants) == 0 {
		return nil, domain.Unavailablef("no LQT participants for epoch %d", epoch)
	}
	return slices.Clone(participants), nil
}
