package source

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mtlprog/tokenomics/internal/domain"
)

// marketFallback serves market data from a secondary fetcher when the primary
// source has none.
type marketFallback struct {
	DataSource
	fallback MarketFetcher
}

// WithMarketFallback wraps src so that Market falls back to fb on ErrDataUnavailable.
// Other errors from src are returned as is.
func WithMarketFallback(src DataSource, fb MarketFetcher) DataSource {
	if fb == nil {
		return src
	}
	return &marketFallback{DataSource: src, fallback: fb}
}

func (m *marketFallback) Market(ctx context.Context) (domain.MarketData, error) {
	md, err := m.DataSource.Market(ctx)
	if !errors.Is(err, domain.ErrDataUnavailable) {
		return md, err
	}
	slog.Debug("no indexed market data, using fallback quote", "error", err)
	return m.fallback.Market(ctx)
}
