package cli

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stock-ingest/internal/config"
	"stock-ingest/internal/ingest"
	"stock-ingest/internal/logging"
	"stock-ingest/internal/provider"
	"stock-ingest/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Store    store.DataStore
	Pipeline *ingest.Pipeline
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dataStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, data commands will be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Database.Path).Msg("SQLite store initialized")

		client := provider.NewYahooClient(
			cfg.Provider.Endpoint,
			time.Duration(cfg.Provider.TimeoutSeconds)*time.Second,
			logger,
		)
		fetcher := ingest.NewFetcher(client, cfg.Ingest.ChunkSize, logger)
		app.Pipeline = ingest.NewPipeline(fetcher, dataStore, logger)
	}

	rootCmd := &cobra.Command{
		Use:   "stockingest",
		Short: "Stock market data ingestion CLI",
		Long: `stockingest periodically fetches stock market data (live quotes, daily
summaries, fundamentals, analyst recommendations) from Yahoo Finance,
normalizes it, and persists it to a local SQLite database.

Use 'stockingest ingest' for a one-off run, 'stockingest watch' for
recurring updates, and 'stockingest live <SYMBOL>' to read back the
freshest quote.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/stock-ingest)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newIngestCmd(app))
	rootCmd.AddCommand(newWatchCmd(app))
	rootCmd.AddCommand(newLiveCmd(app))
	rootCmd.AddCommand(newSnapshotCmd(app))
	rootCmd.AddCommand(newAnalysisCmd(app))
	rootCmd.AddCommand(newTickersCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("stockingest v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Ingest Configuration")
	output.Printf("  Tickers:          %v\n", cfg.Ingest.Tickers)
	output.Printf("  Chunk Size:       %d\n", cfg.Ingest.ChunkSize)
	output.Printf("  Interval:         %d min\n", cfg.Ingest.IntervalMinutes)
	output.Println()

	output.Bold("Provider")
	output.Printf("  Endpoint:         %s\n", cfg.Provider.Endpoint)
	output.Printf("  Timeout:          %ds\n", cfg.Provider.TimeoutSeconds)
	output.Println()

	output.Bold("Database")
	output.Printf("  Path:             %s\n", cfg.Database.Path)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:            %s\n", cfg.Logging.Level)
	output.Printf("  Console:          %v\n", cfg.Logging.Console)
	output.Printf("  File:             %v\n", cfg.Logging.File)
}
