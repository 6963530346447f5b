package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"stock-ingest/internal/scheduler"
)

func newIngestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest [symbols...]",
		Short: "Run a full ingestion cycle",
		Long: `Fetch live, daily, fundamental, and analysis data for the given
symbols (or the configured ticker list) and persist the combined result.

Categories fail independently: an upstream failure in one category or
symbol group never aborts the run.`,
		Example: `  stockingest ingest
  stockingest ingest AAPL MSFT GOOGL`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Pipeline == nil {
				output.Error("Store not available; cannot ingest.")
				return fmt.Errorf("store not initialized")
			}

			symbols := app.Config.Ingest.Tickers
			if len(args) > 0 {
				symbols = upperAll(args)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			report := app.Pipeline.Run(ctx, symbols)

			if output.IsJSON() {
				return output.JSON(report)
			}

			output.Bold("Ingestion Report")
			output.Printf("  Symbols:       %d\n", report.Symbols)
			output.Printf("  Live:          %d\n", report.Live)
			output.Printf("  Daily:         %d\n", report.Daily)
			output.Printf("  Fundamentals:  %d\n", report.Fundamentals)
			output.Printf("  Analysis:      %d\n", report.Analysis)
			output.Printf("  Duration:      %s\n", report.Duration.Round(time.Millisecond))
			if report.Persisted {
				output.Success("Data persisted.")
			} else {
				output.Warning("Nothing persisted this run; see logs.")
			}
			return nil
		},
	}
}

func newWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run ingestion on a recurring schedule",
		Long: `Run a full ingestion immediately, then repeat on the configured
interval until interrupted.`,
		Example: `  stockingest watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Pipeline == nil {
				output.Error("Store not available; cannot ingest.")
				return fmt.Errorf("store not initialized")
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			symbols := app.Config.Ingest.Tickers
			interval := time.Duration(app.Config.Ingest.IntervalMinutes) * time.Minute

			app.Pipeline.Run(ctx, symbols)
			showSnapshot(ctx, app, output)

			sched := scheduler.New(app.Logger)
			err := sched.Start(interval, func() {
				app.Pipeline.Run(context.Background(), symbols)
			})
			if err != nil {
				return err
			}
			defer sched.Stop()

			output.Info("Updating every %s. Press Ctrl+C to stop.", interval)
			<-ctx.Done()
			output.Println()
			output.Dim("Shutting down.")
			return nil
		},
	}
}

func upperAll(symbols []string) []string {
	out := make([]string, len(symbols))
	for i, s := range symbols {
		out[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	return out
}
