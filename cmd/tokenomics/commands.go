package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/tokenomics/internal/api"
	"github.com/mtlprog/tokenomics/internal/calc"
	"github.com/mtlprog/tokenomics/internal/export"
	"github.com/mtlprog/tokenomics/internal/worker"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the metrics API and run background workers",
		Action: func(c *cli.Context) error {
			rt, err := setup(c)
			if err != nil {
				return err
			}
			defer rt.Close()
			ctx := c.Context

			opts := api.Options{Metrics: rt.metrics, AdminAPIKey: rt.cfg.AdminAPIKey}
			if rt.db != nil {
				opts.Health = rt.db
			}

			writer, err := rt.newWriter(ctx, "")
			if err != nil {
				return err
			}
			if writer != nil {
				exporter := export.NewService(rt.engine, writer, rt.network.Symbol, rt.metrics)
				opts.Exporter = exporter
				go worker.NewExportWorker(exporter, rt.cfg.ExportInterval).Run(ctx)
				if rt.cfg.AdminAPIKey == "" {
					slog.Warn("ADMIN_API_KEY not set, export endpoint is unprotected")
				}
			}
			go worker.NewReconcileWorker(rt.engine, rt.cfg.ReconcileInterval).Run(ctx)

			srv := api.NewServer(rt.cfg.HTTPPort, rt.engine, opts)
			errCh := make(chan error, 1)
			go func() {
				slog.Info("HTTP server listening", "port", rt.cfg.HTTPPort)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case <-ctx.Done():
			case err := <-errCh:
				return fmt.Errorf("HTTP server: %w", err)
			}
			slog.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Error("HTTP server shutdown error", "error", err)
			}
			slog.Info("shutdown complete")
			return nil
		},
	}
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "print one metric group as JSON",
		ArgsUsage: "summary|supply|burn|issuance|distribution|inflation|lqt",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "days", Value: 30, Usage: "history length for burn and inflation"},
			&cli.Int64Flag{Name: "epoch", Usage: "LQT epoch, 0 for the latest"},
			&cli.StringFlag{Name: "method", Value: string(calc.LQTByPoints), Usage: "LQT ranking method"},
		},
		Action: func(c *cli.Context) error {
			group := c.Args().First()
			if group == "" {
				group = "summary"
			}
			rt, err := setup(c)
			if err != nil {
				return err
			}
			defer rt.Close()

			result, err := runReport(c.Context, rt, group, c.Int("days"), c.Int64("epoch"), c.String("method"))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}

func runReport(ctx context.Context, rt *runtime, group string, days int, epoch int64, method string) (any, error) {
	e := rt.engine
	switch group {
	case "summary":
		return e.GetSummaryMetrics(ctx)
	case "supply":
		return e.GetSupplyMetrics(ctx)
	case "burn":
		return e.GetBurnMetrics(ctx, days)
	case "issuance":
		return e.GetIssuanceMetrics(ctx)
	case "distribution":
		return e.GetTokenDistribution(ctx)
	case "inflation":
		return e.GetInflationTimeSeries(ctx, days)
	case "lqt":
		m, err := calc.ParseLQTMethod(method)
		if err != nil {
			return nil, err
		}
		return e.GetLQTMetrics(ctx, epoch, m)
	default:
		return nil, fmt.Errorf("unknown metric group %q", group)
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "export all metrics once to Google Sheets or an .xlsx workbook",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "xlsx", Usage: "write to this workbook instead of the configured destination"},
		},
		Action: func(c *cli.Context) error {
			rt, err := setup(c)
			if err != nil {
				return err
			}
			defer rt.Close()

			writer, err := rt.newWriter(c.Context, c.String("xlsx"))
			if err != nil {
				return err
			}
			if writer == nil {
				return errors.New("no export destination: set SHEETS_SPREADSHEET_ID, XLSX_PATH or --xlsx")
			}

			n, err := export.NewService(rt.engine, writer, rt.network.Symbol, rt.metrics).Export(c.Context)
			if err != nil {
				return err
			}
			slog.Info("export finished", "rows", n)
			return nil
		},
	}
}
