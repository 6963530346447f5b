package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "stock-ingest/internal/errors"
)

func newLiveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live <symbol>",
		Short: "Show the freshest persisted live data for a symbol",
		Long: `Display the most recent persisted live-data row for a symbol.

With --refresh, a single-symbol live-only fetch/store cycle runs first,
so the displayed row reflects the market right now.`,
		Example: `  stockingest live AAPL
  stockingest live MSFT --refresh`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Error("Store not available.")
				return fmt.Errorf("store not initialized")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			symbol := strings.ToUpper(args[0])
			refresh, _ := cmd.Flags().GetBool("refresh")

			if refresh {
				if app.Pipeline == nil || !app.Pipeline.RefreshLive(ctx, symbol) {
					output.Warning("Refresh failed for %s; showing stored data if any.", symbol)
				}
			}

			row, err := app.Store.LatestLive(ctx, symbol)
			if err != nil {
				if apperrors.Is(err, apperrors.ErrDataNotFound) {
					output.Warning("No live data found for %s. Run 'stockingest ingest %s' first.", symbol, symbol)
					return nil
				}
				return err
			}

			if output.IsJSON() {
				return output.JSON(row)
			}

			output.Bold("%s", row.Symbol)
			output.Printf("  Price:      %.2f\n", row.Price)
			output.Printf("  Change:     %s\n", output.ChangeString(row.Change, fmt.Sprintf("%+.2f", row.Change)))
			output.Printf("  Change %%:   %s\n", output.ChangeString(row.PercentChange, fmt.Sprintf("%+.2f%%", row.PercentChange)))
			output.Printf("  As of:      %s\n", row.Timestamp)
			return nil
		},
	}

	cmd.Flags().Bool("refresh", false, "fetch and store fresh live data before displaying")
	return cmd
}

func newSnapshotCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Show the freshest live data for all known tickers",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Error("Store not available.")
				return fmt.Errorf("store not initialized")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			showSnapshot(ctx, app, output)
			return nil
		},
	}
}

// showSnapshot renders the latest live row per ticker as a table.
func showSnapshot(ctx context.Context, app *App, output *Output) {
	rows, err := app.Store.LiveSnapshot(ctx)
	if err != nil {
		output.Error("Unable to read live snapshot: %v", err)
		return
	}
	if len(rows) == 0 {
		output.Warning("No live data in the database yet.")
		return
	}

	if output.IsJSON() {
		output.JSON(rows)
		return
	}

	output.Bold("Live Data Snapshot")
	output.Printf("%-8s %10s %10s %10s %25s\n", "Symbol", "Price", "Change", "PctChg", "Timestamp")
	output.Dim(strings.Repeat("-", 70))
	for _, r := range rows {
		output.Printf("%-8s %10.2f %s %s %25s\n",
			r.Symbol,
			r.Price,
			output.ChangeString(r.Change, fmt.Sprintf("%10.2f", r.Change)),
			output.ChangeString(r.PercentChange, fmt.Sprintf("%10.2f", r.PercentChange)),
			r.Timestamp)
	}
}

func newAnalysisCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "analysis <symbol>",
		Short:   "Show the freshest persisted analysis summary for a symbol",
		Example: "  stockingest analysis AAPL",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Error("Store not available.")
				return fmt.Errorf("store not initialized")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			symbol := strings.ToUpper(args[0])
			summary, err := app.Store.LatestAnalysis(ctx, symbol)
			if err != nil {
				if apperrors.Is(err, apperrors.ErrDataNotFound) {
					output.Warning("No analysis data found for %s. Run 'stockingest ingest %s' first.", symbol, symbol)
					return nil
				}
				return err
			}

			if output.IsJSON() {
				return output.JSON(summary)
			}

			output.Bold("%s Analysis", symbol)
			output.Printf("  Recommendation:       %s\n", summary.Recommendation)
			output.Printf("  P/E Ratio:            %s\n", formatRatio(summary.PERatio))
			output.Printf("  PEG Ratio:            %s\n", formatRatio(summary.PEGRatio))
			output.Printf("  Next Quarter Growth:  %s\n", formatRatio(summary.NextQuarterGrowth))
			return nil
		},
	}
}

// formatRatio renders a nullable ratio, keeping "no data" distinct from zero.
func formatRatio(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}

func newTickersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tickers",
		Short: "Show the configured ticker list",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(app.Config.Ingest.Tickers)
				return
			}
			for _, t := range app.Config.Ingest.Tickers {
				output.Println(t)
			}
		},
	}
}
