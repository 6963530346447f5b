package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	apperrors "stock-ingest/internal/errors"
	"stock-ingest/internal/logging"
	"stock-ingest/internal/models"
	"stock-ingest/internal/normalize"
	"stock-ingest/internal/provider"
)

// Fetcher retrieves and normalizes category data in fixed-size symbol
// groups. Failures are isolated per group and per symbol; a run is never
// aborted by upstream errors.
type Fetcher struct {
	client    provider.Client
	chunkSize int
	now       func() time.Time
	log       zerolog.Logger
}

// NewFetcher creates a Fetcher. A chunkSize below 1 falls back to
// DefaultChunkSize.
func NewFetcher(client provider.Client, chunkSize int, logger zerolog.Logger) *Fetcher {
	if chunkSize < 1 {
		chunkSize = DefaultChunkSize
	}
	return &Fetcher{
		client:    client,
		chunkSize: chunkSize,
		now:       time.Now,
		log:       logger,
	}
}

// timestamp is the capture time stamped on every record at normalization.
func (f *Fetcher) timestamp() string {
	return f.now().Format(time.RFC3339)
}

// recordFor pulls one symbol's raw record out of a batch payload. An
// absent symbol normalizes from an empty record (defaults apply); a
// present but non-record value is a per-symbol upstream error.
func recordFor(payload map[string]any, symbol string) (map[string]any, error) {
	v, ok := payload[symbol]
	if !ok || v == nil {
		return map[string]any{}, nil
	}
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedRecord, v)
}

// fetchCategory issues one batch request per symbol group and extracts
// each symbol's record independently. A failed group is logged and its
// unfetched symbols skipped; later groups are still attempted. A failed
// symbol is logged and omitted from the output.
func fetchCategory[T any](
	ctx context.Context,
	f *Fetcher,
	symbols []string,
	category models.Category,
	call func(context.Context, provider.Batch) (map[string]any, error),
	extract func(raw map[string]any, capturedAt string) *T,
) map[string]*T {
	results := make(map[string]*T)
	log := logging.WithCategory(f.log, string(category))

	for _, group := range Chunk(symbols, f.chunkSize) {
		batch := f.client.Batch(group)
		payload, err := call(ctx, batch)
		if err != nil {
			log.Error().
				Err(apperrors.NewBatchError(category, group, err)).
				Msg("Batch request failed, skipping group")
			continue
		}

		capturedAt := f.timestamp()
		for _, symbol := range group {
			raw, err := recordFor(payload, symbol)
			if err != nil {
				log.Error().
					Err(apperrors.NewDataError(category, symbol, "extracting record", err)).
					Msg("Symbol omitted from category")
				continue
			}
			results[symbol] = extract(raw, capturedAt)
		}
	}
	return results
}

// FetchLive fetches the live-price category for symbols.
func (f *Fetcher) FetchLive(ctx context.Context, symbols []string) map[string]*models.LiveData {
	f.log.Info().Int("symbols", len(symbols)).Int("chunk_size", f.chunkSize).Msg("Fetching live data")

	return fetchCategory(ctx, f, symbols, models.CategoryLive,
		func(ctx context.Context, b provider.Batch) (map[string]any, error) {
			return b.Price(ctx)
		},
		func(raw map[string]any, capturedAt string) *models.LiveData {
			return &models.LiveData{
				Price:         normalize.Numeric(normalize.Get(raw, "regularMarketPrice", nil), 0),
				Change:        normalize.Numeric(normalize.Get(raw, "regularMarketChange", nil), 0),
				PercentChange: normalize.Numeric(normalize.Get(raw, "regularMarketChangePercent", nil), 0),
				Timestamp:     capturedAt,
			}
		})
}

// FetchDaily fetches the daily-summary category for symbols.
func (f *Fetcher) FetchDaily(ctx context.Context, symbols []string) map[string]*models.DailyData {
	f.log.Info().Int("symbols", len(symbols)).Int("chunk_size", f.chunkSize).Msg("Fetching daily data")

	return fetchCategory(ctx, f, symbols, models.CategoryDaily,
		func(ctx context.Context, b provider.Batch) (map[string]any, error) {
			return b.SummaryDetail(ctx)
		},
		func(raw map[string]any, capturedAt string) *models.DailyData {
			return &models.DailyData{
				Open:          normalize.Numeric(normalize.Get(raw, "open", nil), 0),
				PreviousClose: normalize.Numeric(normalize.Get(raw, "previousClose", nil), 0),
				DayHigh:       normalize.Numeric(normalize.Get(raw, "dayHigh", nil), 0),
				DayLow:        normalize.Numeric(normalize.Get(raw, "dayLow", nil), 0),
				Volume:        int64(normalize.Numeric(normalize.Get(raw, "volume", nil), 0)),
				MarketCap:     int64(normalize.Numeric(normalize.Get(raw, "marketCap", nil), 0)),
				TrailingPE:    normalize.Numeric(normalize.Get(raw, "trailingPE", nil), 0),
				ForwardPE:     normalize.Numeric(normalize.Get(raw, "forwardPE", nil), 0),
				Timestamp:     capturedAt,
			}
		})
}

// FetchFundamentals fetches the company-profile category for symbols.
func (f *Fetcher) FetchFundamentals(ctx context.Context, symbols []string) map[string]*models.Fundamentals {
	f.log.Info().Int("symbols", len(symbols)).Int("chunk_size", f.chunkSize).Msg("Fetching fundamental data")

	return fetchCategory(ctx, f, symbols, models.CategoryFundamentals,
		func(ctx context.Context, b provider.Batch) (map[string]any, error) {
			return b.AssetProfile(ctx)
		},
		func(raw map[string]any, capturedAt string) *models.Fundamentals {
			return &models.Fundamentals{
				Sector:            normalize.Str(normalize.Get(raw, "sector", nil)),
				Industry:          normalize.Str(normalize.Get(raw, "industry", nil)),
				FullTimeEmployees: int64(normalize.Numeric(normalize.Get(raw, "fullTimeEmployees", nil), 0)),
				Country:           normalize.Str(normalize.Get(raw, "country", nil)),
				Website:           normalize.Str(normalize.Get(raw, "website", nil)),
				Description:       normalize.Str(normalize.Get(raw, "longBusinessSummary", nil)),
				Timestamp:         capturedAt,
			}
		})
}

// FetchAnalysis fetches recommendation, earnings and index trends and
// condenses them per symbol. Unlike the other categories, every symbol
// in a reachable group gets a record: assembly failures produce the
// Error sentinel instead of dropping the symbol.
func (f *Fetcher) FetchAnalysis(ctx context.Context, symbols []string) map[string]*models.Analysis {
	f.log.Info().Int("symbols", len(symbols)).Int("chunk_size", f.chunkSize).Msg("Fetching analysis data")
	results := make(map[string]*models.Analysis)

	for _, group := range Chunk(symbols, f.chunkSize) {
		batch := f.client.Batch(group)

		recData := f.analysisPart(ctx, group, "recommendation_trend", batch.RecommendationTrend)
		earningsData := f.analysisPart(ctx, group, "earnings_trend", batch.EarningsTrend)
		indexData := f.analysisPart(ctx, group, "index_trend", batch.IndexTrend)

		capturedAt := f.timestamp()
		for _, symbol := range group {
			analysis, err := assembleAnalysis(recData, earningsData, indexData, symbol, capturedAt)
			if err != nil {
				f.log.Error().
					Err(apperrors.NewDataError(models.CategoryAnalysis, symbol, "assembling analysis", err)).
					Msg("Analysis assembly failed, storing error sentinel")
				sentinel := ErrorAnalysis(capturedAt)
				results[symbol] = &sentinel
				continue
			}
			results[symbol] = analysis
			f.log.Debug().Str("symbol", symbol).
				Str("recommendation", analysis.Summary.Recommendation).
				Msg("Analysis assembled")
		}
	}
	return results
}

// analysisPart fetches one analysis sub-structure, degrading a group
// failure to an empty payload so the remaining parts still contribute.
func (f *Fetcher) analysisPart(
	ctx context.Context,
	group []string,
	name string,
	call func(context.Context) (map[string]any, error),
) map[string]any {
	payload, err := call(ctx)
	if err != nil {
		f.log.Error().
			Err(apperrors.NewBatchError(models.CategoryAnalysis, group, err)).
			Str("part", name).
			Msg("Analysis part unavailable for group")
		return map[string]any{}
	}
	return payload
}

// assembleAnalysis builds one symbol's analysis record from the three
// raw trend payloads.
func assembleAnalysis(recData, earningsData, indexData map[string]any, symbol, capturedAt string) (*models.Analysis, error) {
	details := SummarizeRecommendations(trendRows(recData[symbol]))

	earnings, err := recordFor(earningsData, symbol)
	if err != nil {
		return nil, fmt.Errorf("earnings trend: %w", err)
	}
	index, err := recordFor(indexData, symbol)
	if err != nil {
		return nil, fmt.Errorf("index trend: %w", err)
	}

	analysis := BuildAnalysis(details, earnings, index, capturedAt)
	return &analysis, nil
}

// trendRows extracts a symbol's recommendation rows from its raw
// recommendationTrend value; anything that is not a trend-bearing
// record yields no rows (summarized as No Data).
func trendRows(v any) []models.RecommendationRow {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return ParseRecommendationRows(normalize.Get(m, "trend", nil))
}
