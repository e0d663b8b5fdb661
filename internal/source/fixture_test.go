package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/tokenomics/internal/domain"
)

var fixtureNow = time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

func TestDefaultFixtureIsConsistent(t *testing.T) {
	f := DefaultFixture(fixtureNow)
	src := NewFixtureSource(f)
	ctx := context.Background()

	latest, err := src.LatestBlock(ctx)
	if err != nil {
		t.Fatalf("LatestBlock error: %v", err)
	}
	if want := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC); !latest.Timestamp.Equal(want) {
		t.Errorf("latest timestamp = %v, want %v", latest.Timestamp, want)
	}

	for _, h := range []int64{1, latest.Height / 2, latest.Height} {
		supply, err := src.SupplyAt(ctx, h)
		if err != nil {
			t.Fatalf("SupplyAt(%d) error: %v", h, err)
		}
		unstaked, err := src.UnstakedAt(ctx, h)
		if err != nil {
			t.Fatalf("UnstakedAt(%d) error: %v", h, err)
		}
		if !unstaked.Total().Add(supply.StakedSupply).Equal(supply.TotalSupply) {
			t.Errorf("height %d: unstaked %s + staked %s != total %s", h, unstaked.Total(), supply.StakedSupply, supply.TotalSupply)
		}
	}
}

func TestFixtureAtOrBefore(t *testing.T) {
	src := NewFixtureSource(DefaultFixture(fixtureNow))
	ctx := context.Background()

	b, err := src.BlockAtOrBefore(ctx, 2_880+5)
	if err != nil {
		t.Fatalf("BlockAtOrBefore error: %v", err)
	}
	if b.Height != 2_881 {
		t.Errorf("height = %d, want 2881", b.Height)
	}

	if _, err := src.BlockAtOrBefore(ctx, 0); !errors.Is(err, domain.ErrDataUnavailable) {
		t.Errorf("BlockAtOrBefore(0) error = %v, want ErrDataUnavailable", err)
	}
	if _, err := src.SupplyAt(ctx, -1); !errors.Is(err, domain.ErrInvalidHeight) {
		t.Errorf("SupplyAt(-1) error = %v, want ErrInvalidHeight", err)
	}
}

func TestFixtureDelegatedAtLatestPerValidator(t *testing.T) {
	src := NewFixtureSource(DefaultFixture(fixtureNow))
	ctx := context.Background()

	latest, _ := src.LatestBlock(ctx)
	components, err := src.DelegatedAt(ctx, latest.Height)
	if err != nil {
		t.Fatalf("DelegatedAt error: %v", err)
	}
	if len(components) != 3 {
		t.Fatalf("validators = %d, want 3", len(components))
	}
	if components[0].ValidatorID != "penumbravalid1alpha" {
		t.Errorf("first validator = %q, want ordered by id", components[0].ValidatorID)
	}
	for _, c := range components {
		if c.Height != latest.Height {
			t.Errorf("%s height = %d, want latest %d", c.ValidatorID, c.Height, latest.Height)
		}
	}

	none, err := src.DelegatedAt(ctx, 0)
	if err != nil || len(none) != 0 {
		t.Errorf("DelegatedAt(0) = %d rows, %v; want none", len(none), err)
	}
}

func TestFixtureBurnSeriesDeltas(t *testing.T) {
	src := NewFixtureSource(DefaultFixture(fixtureNow))
	ctx := context.Background()

	end := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	series, err := src.BurnSeries(ctx, end.AddDate(0, 0, -1), end)
	if err != nil {
		t.Fatalf("BurnSeries error: %v", err)
	}
	if len(series) != 7 {
		t.Fatalf("rows = %d, want 7 (one every four hours, both ends inclusive)", len(series))
	}
	for _, r := range series {
		if !r.FeeBurns.Equal(decimal.NewFromInt(200_000_000)) {
			t.Errorf("height %d fee delta = %s, want 200000000", r.Height, r.FeeBurns)
		}
		if !r.AuctionBurns.IsZero() {
			t.Errorf("height %d auction delta = %s, want 0", r.Height, r.AuctionBurns)
		}
	}
}

func TestFixtureLQT(t *testing.T) {
	src := NewFixtureSource(DefaultFixture(fixtureNow))
	ctx := context.Background()

	epoch, err := src.LatestEpoch(ctx)
	if err != nil || epoch != 2 {
		t.Fatalf("LatestEpoch = %d, %v; want 2", epoch, err)
	}
	ps, err := src.LQTParticipants(ctx, epoch)
	if err != nil || len(ps) != 3 {
		t.Fatalf("LQTParticipants = %d, %v; want 3", len(ps), err)
	}
	if _, err := src.LQTParticipants(ctx, 9); !errors.Is(err, domain.ErrDataUnavailable) {
		t.Errorf("LQTParticipants(9) error = %v, want ErrDataUnavailable", err)
	}
}

func TestEmptyFixture(t *testing.T) {
	src := NewFixtureSource(Fixture{})
	ctx := context.Background()

	if _, err := src.LatestBlock(ctx); !errors.Is(err, domain.ErrDataUnavailable) {
		t.Errorf("LatestBlock error = %v, want ErrDataUnavailable", err)
	}
	if _, err := src.Market(ctx); !errors.Is(err, domain.ErrDataUnavailable) {
		t.Errorf("Market error = %v, want ErrDataUnavailable", err)
	}
	if _, err := src.LatestEpoch(ctx); !errors.Is(err, domain.ErrDataUnavailable) {
		t.Errorf("LatestEpoch error = %v, want ErrDataUnavailable", err)
	}
}

func TestNew(t *testing.T) {
	src, err := New(KindFixture, Deps{Now: fixtureNow})
	if err != nil {
		t.Fatalf("New(fixture) error: %v", err)
	}
	if _, ok := src.(*FixtureSource); !ok {
		t.Errorf("New(fixture) = %T, want *FixtureSource", src)
	}

	if _, err := New(KindLive, Deps{}); err == nil {
		t.Error("New(live) without a pool returned no error")
	}
	if _, err := New("sqlite", Deps{}); err == nil {
		t.Error("New(sqlite) returned no error")
	}
}
