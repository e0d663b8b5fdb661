package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/tokenomics/internal/domain"
)

// CoinGeckoClient fetches the token's USD spot price from the CoinGecko API.
// It serves as a market data fallback when the indexer has no DEX price.
type CoinGeckoClient struct {
	baseURL    string
	coinID     string
	httpClient *http.Client
	delay      time.Duration
	maxRetries int
	now        func() time.Time
}

// NewCoinGeckoClient creates a new CoinGecko API client for coinID.
func NewCoinGeckoClient(baseURL, coinID string, delay time.Duration, maxRetries int) *CoinGeckoClient {
	return &CoinGeckoClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		coinID:     coinID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		delay:      delay,
		maxRetries: maxRetries,
		now:        time.Now,
	}
}

// Market returns the current USD price and 24h volume. Height is left zero since the
// quote is not tied to a block.
func (c *CoinGeckoClient) Market(ctx context.Context) (domain.MarketData, error) {
	u := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd&include_24hr_vol=true",
		c.baseURL, url.QueryEscape(c.coinID))

	body, err := c.fetchWithRetry(ctx, u)
	if err != nil {
		return domain.MarketData{}, domain.NewQueryError("coingecko price", err)
	}

	// Parse: {"penumbra":{"usd":2.5,"usd_24h_vol":12345.6}}
	var raw map[string]map[string]decimal.Decimal
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.MarketData{}, domain.NewQueryError("coingecko price", fmt.Errorf("parsing CoinGecko response: %w", err))
	}

	quote, ok := raw[c.coinID]
	if !ok {
		return domain.MarketData{}, domain.Unavailablef("no CoinGecko quote for %s", c.coinID)
	}
	price, ok := quote["usd"]
	if !ok {
		return domain.MarketData{}, domain.Unavailablef("no USD price for %s", c.coinID)
	}

	return domain.MarketData{
		Price:     price,
		Volume24h: quote["usd_24h_vol"],
		Timestamp: c.now().UTC(),
	}, nil
}

func (c *CoinGeckoClient) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := range c.maxRetries + 1 {
		if attempt > 0 {
			baseDelay := c.delay
			if baseDelay == 0 {
				baseDelay = 10 * time.Second
			}
			delay := baseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating CoinGecko request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("CoinGecko request failed: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading CoinGecko response: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			return body, nil
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("CoinGecko rate limited (attempt %d/%d)", attempt+1, c.maxRetries+1)
			continue
		}

		return nil, fmt.Errorf("CoinGecko HTTP %d: %s", resp.StatusCode, string(body))
	}

	return nil, lastErr
}
