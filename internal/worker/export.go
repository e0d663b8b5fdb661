package worker

import (
	"context"
	"log/slog"
	"time"
)

// Exporter pushes the current metrics to a spreadsheet.
type Exporter interface {
	Export(ctx context.Context) (int, error)
}

// ExportWorker periodically exports metrics.
type ExportWorker struct {
	exporter Exporter
	interval time.Duration
}

// NewExportWorker creates a new ExportWorker.
func NewExportWorker(exporter Exporter, interval time.Duration) *ExportWorker {
	return &ExportWorker{
		exporter: exporter,
		interval: interval,
	}
}

func (w *ExportWorker) export(ctx context.Context, phase string) {
	rows, err := w.exporter.Export(ctx)
	if err != nil {
		slog.Error("ExportWorker: "+phase+" export failed", "error", err)
		return
	}
	slog.Info("ExportWorker: "+phase+" export completed", "rows", rows)
}

// Run starts the export worker loop. It blocks until the context is cancelled.
func (w *ExportWorker) Run(ctx context.Context) {
	slog.Info("ExportWorker: starting", "interval", w.interval)

	// Export immediately on startup
	w.export(ctx, "initial")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("ExportWorker: shutting down")
			return
		case <-ticker.C:
			w.export(ctx, "scheduled")
		}
	}
}
