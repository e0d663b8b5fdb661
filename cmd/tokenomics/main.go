package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  "tokenomics",
		Usage: "token supply, burn, issuance and distribution metrics",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "network",
				Usage:   "network profile (mainnet, testnet, devnet)",
				EnvVars: []string{"NETWORK"},
			},
			&cli.StringFlag{
				Name:    "data-source",
				Usage:   "data source variant (live, fixture)",
				EnvVars: []string{"DATA_SOURCE"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			reportCommand(),
			exportCommand(),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		slog.Error("tokenomics failed", "error", err)
		stop()
		os.Exit(1)
	}
}
