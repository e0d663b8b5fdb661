package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const healthTimeout = 3 * time.Second

// healthHandler handles GET /healthz. Without a Pinger it only reports liveness.
func healthHandler(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				slog.Warn("health check failed", "error", err)
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// exportHandler handles POST /api/v1/export.
func exportHandler(e Exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := e.Export(r.Context())
		if err != nil {
			slog.Error("failed to export metrics", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to export metrics")
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"rows": rows})
	}
}
