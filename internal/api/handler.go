package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mtlprog/tokenomics/internal/calc"
	"github.com/mtlprog/tokenomics/internal/domain"
)

const (
	defaultDays = 30
	maxDays     = 3650
)

// Engine computes the metrics served by the API.
type Engine interface {
	GetSummaryMetrics(ctx context.Context) (domain.SummaryMetrics, error)
	GetSupplyMetrics(ctx context.Context) (domain.SupplyMetrics, error)
	GetBurnMetrics(ctx context.Context, days int) (domain.BurnMetrics, error)
	GetIssuanceMetrics(ctx context.Context) (domain.IssuanceMetrics, error)
	GetTokenDistribution(ctx context.Context) (domain.DistributionMetrics, error)
	GetInflationTimeSeries(ctx context.Context, days int) (domain.InflationTimeSeries, error)
	GetLQTMetrics(ctx context.Context, epoch int64, method calc.LQTMethod) (domain.LQTMetrics, error)
}

// Handler provides HTTP endpoints for the metrics API.
type Handler struct {
	engine Engine
}

// NewHandler creates a new API handler.
func NewHandler(engine Engine) *Handler {
	return &Handler{engine: engine}
}

// GetSummary handles GET /api/v1/summary.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	m, err := h.engine.GetSummaryMetrics(r.Context())
	if err != nil {
		writeEngineError(w, "summary", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// GetSupply handles GET /api/v1/supply.
func (h *Handler) GetSupply(w http.ResponseWriter, r *http.Request) {
	m, err := h.engine.GetSupplyMetrics(r.Context())
	if err != nil {
		writeEngineError(w, "supply", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// GetBurn handles GET /api/v1/burn?days=N.
func (h *Handler) GetBurn(w http.ResponseWriter, r *http.Request) {
	days, ok := parseDays(w, r)
	if !ok {
		return
	}
	m, err := h.engine.GetBurnMetrics(r.Context(), days)
	if err != nil {
		writeEngineError(w, "burn", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// GetIssuance handles GET /api/v1/issuance.
func (h *Handler) GetIssuance(w http.ResponseWriter, r *http.Request) {
	m, err := h.engine.GetIssuanceMetrics(r.Context())
	if err != nil {
		writeEngineError(w, "issuance", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// GetDistribution handles GET /api/v1/distribution.
func (h *Handler) GetDistribution(w http.ResponseWriter, r *http.Request) {
	m, err := h.engine.GetTokenDistribution(r.Context())
	if err != nil {
		writeEngineError(w, "distribution", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// GetInflation handles GET /api/v1/inflation?days=N.
func (h *Handler) GetInflation(w http.ResponseWriter, r *http.Request) {
	days, ok := parseDays(w, r)
	if !ok {
		return
	}
	m, err := h.engine.GetInflationTimeSeries(r.Context(), days)
	if err != nil {
		writeEngineError(w, "inflation", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// GetLQT handles GET /api/v1/lqt?epoch=N&method=points|volume|combined.
func (h *Handler) GetLQT(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var epoch int64
	if e := q.Get("epoch"); e != "" {
		n, err := strconv.ParseInt(e, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid epoch, expected an integer")
			return
		}
		epoch = n
	}

	method, err := calc.ParseLQTMethod(q.Get("method"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	m, err := h.engine.GetLQTMetrics(r.Context(), epoch, method)
	if err != nil {
		writeEngineError(w, "lqt", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// parseDays reads the days query parameter. A missing value means defaultDays.
// Non-positive values are passed through so the engine rejects them.
func parseDays(w http.ResponseWriter, r *http.Request) (int, bool) {
	s := r.URL.Query().Get("days")
	if s == "" {
		return defaultDays, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid days, expected an integer")
		return 0, false
	}
	return min(n, maxDays), true
}

// writeEngineError maps the domain error taxonomy onto HTTP statuses.
// Query failures are logged with their cause and reported generically.
func writeEngineError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidHeight):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDataUnavailable):
		slog.Info("metric data unavailable", "operation", op, "error", err)
		writeError(w, http.StatusNotFound, "data not available")
	default:
		attrs := []any{"operation", op, "error", err}
		var qe *domain.QueryError
		if errors.As(err, &qe) {
			attrs = append(attrs, "cause", qe.Err)
		}
		slog.Error("failed to compute metrics", attrs...)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
