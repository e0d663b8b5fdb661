package chain

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/tokenomics/internal/domain"
)

func TestCommunityPool(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/cosmos/distribution/v1beta1/community_pool":
			w.Write([]byte(`{"pool":[{"denom":"upenumbra","amount":"1500000.5"},{"denom":"uusdc","amount":"999"}]}`))
		case "/cosmos/bank/v1beta1/balances/penumbra1treasury/by_denom":
			if r.URL.Query().Get("denom") != "upenumbra" {
				t.Errorf("denom query = %q, want upenumbra", r.URL.Query().Get("denom"))
			}
			w.Write([]byte(`{"balance":{"denom":"upenumbra","amount":"500000"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "upenumbra", []string{"penumbra1treasury"}, 0, time.Millisecond)
	got, err := client.CommunityPool(context.Background())
	if err != nil {
		t.Fatalf("CommunityPool error: %v", err)
	}
	if want := decimal.RequireFromString("2000000.5"); !got.Equal(want) {
		t.Errorf("CommunityPool = %s, want %s", got, want)
	}
}

func TestCommunityPoolRetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"pool":[{"denom":"upenumbra","amount":"42"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "upenumbra", nil, 3, time.Millisecond)
	got, err := client.CommunityPool(context.Background())
	if err != nil {
		t.Fatalf("CommunityPool error: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(42)) {
		t.Errorf("CommunityPool = %s, want 42", got)
	}
	if n := attempts.Load(); n != 3 {
		t.Errorf("attempts = %d, want 3", n)
	}
}

func TestCommunityPoolFailureIsQueryFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":3,"message":"invalid request"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "upenumbra", nil, 2, time.Millisecond)
	_, err := client.CommunityPool(context.Background())
	if !errors.Is(err, domain.ErrQueryFailed) {
		t.Errorf("error = %v, want ErrQueryFailed", err)
	}
}

func TestCommunityPoolMalformedAmount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pool":[{"denom":"upenumbra","amount":"lots"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "upenumbra", nil, 0, time.Millisecond)
	if _, err := client.CommunityPool(context.Background()); !errors.Is(err, domain.ErrQueryFailed) {
		t.Errorf("error = %v, want ErrQueryFailed", err)
	}
}

func TestCommunityPoolCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, "upenumbra", nil, 5, time.Second)
	if _, err := client.CommunityPool(ctx); err == nil {
		t.Fatal("expected error on cancelled context, got nil")
	}
}
