package source

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/tokenomics/internal/domain"
)

// BlockFetcher looks up indexed blocks.
type BlockFetcher interface {
	LatestBlock(ctx context.Context) (domain.Block, error)
	// BlockAtOrBefore returns the highest indexed block not above height.
	BlockAtOrBefore(ctx context.Context, height int64) (domain.Block, error)
}

// SupplyFetcher reads supply rows. Amounts are in base units.
type SupplyFetcher interface {
	// SupplyAt returns the latest supply snapshot at or before height.
	SupplyAt(ctx context.Context, height int64) (domain.SupplySnapshot, error)
	// SupplySeries returns snapshots with timestamps in [start, end], ordered by height.
	SupplySeries(ctx context.Context, start, end time.Time) ([]domain.SupplySnapshot, error)
	UnstakedAt(ctx context.Context, height int64) (domain.UnstakedSupplyComponents, error)
	DelegatedAt(ctx context.Context, height int64) ([]domain.DelegatedSupplyComponent, error)
}

// BurnFetcher reads burn rows. Amounts are in base units.
type BurnFetcher interface {
	// BurnsAt returns cumulative burns by source up to height.
	BurnsAt(ctx context.Context, height int64) (domain.BurnRecord, error)
	// BurnSeries returns per-block burn increments with timestamps in [start, end].
	BurnSeries(ctx context.Context, start, end time.Time) ([]domain.BurnRecord, error)
}

// MarketFetcher reads the latest market data of the staking token.
type MarketFetcher interface {
	Market(ctx context.Context) (domain.MarketData, error)
}

// CommunityPoolFetcher returns the community pool balance in base units.
type CommunityPoolFetcher interface {
	CommunityPool(ctx context.Context) (decimal.Decimal, error)
}

// LQTFetcher reads liquidity-tournament standings.
type LQTFetcher interface {
	LatestEpoch(ctx context.Context) (int64, error)
	LQTParticipants(ctx context.Context, epoch int64) ([]domain.LQTParticipant, error)
}

// DataSource is the full capability set consumed by the aggregator.
type DataSource interface {
	BlockFetcher
	SupplyFetcher
	BurnFetcher
	MarketFetcher
	CommunityPoolFetcher
	LQTFetcher
}

// Kind selects a DataSource variant.
type Kind string

const (
	KindLive    Kind = "live"
	KindFixture Kind = "fixture"
)

// Deps holds the collaborators a live source needs.
type Deps struct {
	Pool          *pgxpool.Pool
	CommunityPool CommunityPoolFetcher
	// Now anchors the fixture data set. Zero means time.Now.
	Now time.Time
}

// New constructs the DataSource variant named by kind.
func New(kind Kind, deps Deps) (DataSource, error) {
	switch kind {
	case KindLive:
		if deps.Pool == nil {
			return nil, fmt.Errorf("live data source requires a database pool")
		}
		if deps.CommunityPool == nil {
			return nil, fmt.Errorf("live data source requires a community pool fetcher")
		}
		return NewPgSource(deps.Pool, deps.CommunityPool), nil
	case KindFixture:
		now := deps.Now
		if now.IsZero() {
			now = time.Now()
		}
		return NewFixtureSource(DefaultFixture(now)), nil
	default:
		return nil, fmt.Errorf("unknown data source %q", kind)
	}
}
