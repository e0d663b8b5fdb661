package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/tokenomics/internal/domain"
)

type stubMarket struct {
	md    domain.MarketData
	err   error
	calls int
}

func (s *stubMarket) Market(_ context.Context) (domain.MarketData, error) {
	s.calls++
	return s.md, s.err
}

func TestWithMarketFallback(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("primary has data", func(t *testing.T) {
		fb := &stubMarket{md: domain.MarketData{Price: decimal.NewFromInt(9)}}
		src := WithMarketFallback(NewFixtureSource(DefaultFixture(now)), fb)

		md, err := src.Market(ctx)
		if err != nil {
			t.Fatalf("Market error: %v", err)
		}
		if !md.Price.Equal(decimal.RequireFromString("2.5")) || fb.calls != 0 {
			t.Errorf("price = %s, fallback calls = %d; want 2.5 from primary", md.Price, fb.calls)
		}
	})

	t.Run("primary unavailable", func(t *testing.T) {
		f := DefaultFixture(now)
		f.Market = nil
		fb := &stubMarket{md: domain.MarketData{Price: decimal.NewFromInt(9)}}
		src := WithMarketFallback(NewFixtureSource(f), fb)

		md, err := src.Market(ctx)
		if err != nil {
			t.Fatalf("Market error: %v", err)
		}
		if !md.Price.Equal(decimal.NewFromInt(9)) || fb.calls != 1 {
			t.Errorf("price = %s, fallback calls = %d; want 9 from fallback", md.Price, fb.calls)
		}
	})

	t.Run("fallback failure surfaces", func(t *testing.T) {
		f := DefaultFixture(now)
		f.Market = nil
		fb := &stubMarket{err: domain.NewQueryError("coingecko price", errors.New("HTTP 500"))}
		src := WithMarketFallback(NewFixtureSource(f), fb)

		if _, err := src.Market(ctx); !errors.Is(err, domain.ErrQueryFailed) {
			t.Errorf("error = %v, want ErrQueryFailed", err)
		}
	})

	t.Run("nil fallback", func(t *testing.T) {
		inner := NewFixtureSource(DefaultFixture(now))
		if src := WithMarketFallback(inner, nil); src != DataSource(inner) {
			t.Error("nil fallback should return the source unchanged")
		}
	})
}
