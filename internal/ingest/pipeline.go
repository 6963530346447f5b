package ingest

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"stock-ingest/internal/logging"
	"stock-ingest/internal/store"
)

// Report summarizes one ingestion run: how many symbols each category
// produced and whether the combined result reached the store.
type Report struct {
	Symbols      int           `json:"symbols"`
	Live         int           `json:"live"`
	Daily        int           `json:"daily"`
	Fundamentals int           `json:"fundamentals"`
	Analysis     int           `json:"analysis"`
	Persisted    bool          `json:"persisted"`
	Duration     time.Duration `json:"duration"`
}

// Pipeline runs the fetch, combine, persist cycle.
type Pipeline struct {
	fetcher *Fetcher
	store   store.DataStore
	log     zerolog.Logger
}

// NewPipeline creates a Pipeline over the given fetcher and store.
func NewPipeline(fetcher *Fetcher, st store.DataStore, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		store:   st,
		log:     logger,
	}
}

// Run ingests all four categories for symbols, combines them, and
// persists the result. Every failure degrades to a partial or empty
// result plus a log entry; Run never returns an error. A persistence
// failure leaves no durable effect and is reported as Persisted=false,
// to be retried on the next scheduled run.
func (p *Pipeline) Run(ctx context.Context, symbols []string) Report {
	start := time.Now()
	log := logging.WithOperation(p.log, "ingest")
	log.Info().Int("symbols", len(symbols)).Msg("Starting ingestion run")

	live := p.fetcher.FetchLive(ctx, symbols)
	daily := p.fetcher.FetchDaily(ctx, symbols)
	fundamentals := p.fetcher.FetchFundamentals(ctx, symbols)
	analysis := p.fetcher.FetchAnalysis(ctx, symbols)

	combined := Combine(live, daily, fundamentals, analysis)

	report := Report{
		Symbols:      len(combined),
		Live:         len(live),
		Daily:        len(daily),
		Fundamentals: len(fundamentals),
		Analysis:     len(analysis),
	}

	if len(combined) > 0 {
		if err := p.store.SaveCombined(ctx, combined); err != nil {
			log.Error().Err(err).Msg("Persisting combined data failed, run discarded")
		} else {
			report.Persisted = true
		}
	}

	report.Duration = time.Since(start)
	log.Info().
		Int("symbols", report.Symbols).
		Int("live", report.Live).
		Int("daily", report.Daily).
		Int("fundamentals", report.Fundamentals).
		Int("analysis", report.Analysis).
		Bool("persisted", report.Persisted).
		Dur("duration", report.Duration).
		Msg("Ingestion run complete")

	return report
}

// RefreshLive fetches and persists only the live category for a single
// symbol. Returns false when the symbol produced no data or the write
// failed; both are logged rather than surfaced.
func (p *Pipeline) RefreshLive(ctx context.Context, symbol string) bool {
	log := logging.WithSymbol(p.log, symbol)
	log.Info().Msg("Refreshing live data")

	live := p.fetcher.FetchLive(ctx, []string{symbol})
	data, ok := live[symbol]
	if !ok {
		log.Warn().Msg("No live data returned")
		return false
	}

	if err := p.store.SaveLive(ctx, symbol, data); err != nil {
		log.Error().Err(err).Msg("Saving live data failed")
		return false
	}
	return true
}
