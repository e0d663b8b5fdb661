package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/mtlprog/tokenomics/internal/domain"
)

// SupplyChecker computes the reconciled supply breakdown.
type SupplyChecker interface {
	GetSupplyMetrics(ctx context.Context) (domain.SupplyMetrics, error)
}

// ReconcileWorker periodically recomputes the supply breakdown so reconciliation gaps
// are logged and exported as metrics without waiting for API traffic.
type ReconcileWorker struct {
	checker  SupplyChecker
	interval time.Duration
}

// NewReconcileWorker creates a new ReconcileWorker.
func NewReconcileWorker(checker SupplyChecker, interval time.Duration) *ReconcileWorker {
	return &ReconcileWorker{
		checker:  checker,
		interval: interval,
	}
}

func (w *ReconcileWorker) check(ctx context.Context) {
	m, err := w.checker.GetSupplyMetrics(ctx)
	if err != nil {
		slog.Error("ReconcileWorker: supply check failed", "error", err)
		return
	}
	if !m.Reconciled {
		slog.Warn("ReconcileWorker: supply out of balance",
			"height", m.Height,
			"discrepancy", m.Discrepancy.String())
		return
	}
	slog.Debug("ReconcileWorker: supply reconciled", "height", m.Height)
}

// Run starts the reconcile worker loop. It blocks until the context is cancelled.
func (w *ReconcileWorker) Run(ctx context.Context) {
	slog.Info("ReconcileWorker: starting", "interval", w.interval)

	w.check(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("ReconcileWorker: shutting down")
			return
		case <-ticker.C:
			w.check(ctx)
		}
	}
}
