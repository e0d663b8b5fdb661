package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/tokenomics/internal/domain"
)

// Client reads community pool balances from a chain REST endpoint.
type Client struct {
	baseURL    string
	denom      string
	addresses  []string
	httpClient *retryablehttp.Client
}

// NewClient creates a Client. Requests are retried up to retryMax times on
// connection errors and 5xx/429 responses, backing off from retryWait.
func NewClient(baseURL, denom string, addresses []string, retryMax int, retryWait time.Duration) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = retryMax
	rc.RetryWaitMin = retryWait
	rc.RetryWaitMax = 8 * retryWait
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = nil

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		denom:      denom,
		addresses:  addresses,
		httpClient: rc,
	}
}

type coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// CommunityPool returns the pool balance in the client's denom plus the balances held
// by the configured community pool addresses, in base units.
func (c *Client) CommunityPool(ctx context.Context) (decimal.Decimal, error) {
	var pool struct {
		Pool []coin `json:"pool"`
	}
	if err := c.getJSON(ctx, "/cosmos/distribution/v1beta1/community_pool", &pool); err != nil {
		return decimal.Zero, domain.NewQueryError("community pool", err)
	}

	total := decimal.Zero
	for _, co := range pool.Pool {
		if co.Denom != c.denom {
			continue
		}
		amount, err := decimal.NewFromString(co.Amount)
		if err != nil {
			return decimal.Zero, domain.NewQueryError("community pool", fmt.Errorf("parsing amount %q: %w", co.Amount, err))
		}
		total = total.Add(amount)
	}

	for _, addr := range c.addresses {
		balance, err := c.balance(ctx, addr)
		if err != nil {
			return decimal.Zero, domain.NewQueryError("community pool account balance", err)
		}
		total = total.Add(balance)
	}
	return total, nil
}

func (c *Client) balance(ctx context.Context, addr string) (decimal.Decimal, error) {
	var out struct {
		Balance coin `json:"balance"`
	}
	path := fmt.Sprintf("/cosmos/bank/v1beta1/balances/%s/by_denom?denom=%s", url.PathEscape(addr), url.QueryEscape(c.denom))
	if err := c.getJSON(ctx, path, &out); err != nil {
		return decimal.Zero, err
	}
	if out.Balance.Amount == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(out.Balance.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing balance of %s: %w", addr, err)
	}
	return amount, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("chain REST request failed", "path", path, "error", err)
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		slog.Error("chain REST request rejected", "path", path, "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, path)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("parsing JSON from %s: %w", path, err)
	}
	return nil
}
