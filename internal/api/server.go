package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/mtlprog/tokenomics/internal/observability"
)

// Exporter pushes the current metrics to the configured sheet.
type Exporter interface {
	Export(ctx context.Context) (int, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options holds the optional collaborators of the HTTP server.
type Options struct {
	Metrics     *observability.Metrics
	Exporter    Exporter
	Health      Pinger
	AdminAPIKey string
}

// NewServer creates an HTTP server with all routes configured.
func NewServer(port string, engine Engine, opts Options) *http.Server {
	handler := NewHandler(engine)

	mux := http.NewServeMux()
	route := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, opts.Metrics.Instrument(pattern, h))
	}

	route("GET /api/v1/summary", handler.GetSummary)
	route("GET /api/v1/supply", handler.GetSupply)
	route("GET /api/v1/burn", handler.GetBurn)
	route("GET /api/v1/issuance", handler.GetIssuance)
	route("GET /api/v1/distribution", handler.GetDistribution)
	route("GET /api/v1/inflation", handler.GetInflation)
	route("GET /api/v1/lqt", handler.GetLQT)
	route("GET /healthz", healthHandler(opts.Health))

	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics.Handler())
	}

	if opts.Exporter != nil {
		exportHandler := opts.Metrics.Instrument("POST /api/v1/export", exportHandler(opts.Exporter))
		if opts.AdminAPIKey != "" {
			mux.Handle("POST /api/v1/export", requireAuth(opts.AdminAPIKey, exportHandler))
		} else {
			mux.Handle("POST /api/v1/export", exportHandler)
		}
	}

	return &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
