package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/piquette/finance-go/quote"
	"github.com/rs/zerolog"

	apperrors "stock-ingest/internal/errors"
)

const (
	// DefaultEndpoint is the Yahoo quoteSummary API base.
	DefaultEndpoint = "https://query2.finance.yahoo.com"

	// summaryModules are the quoteSummary modules fetched per batch.
	summaryModules = "summaryDetail,assetProfile,recommendationTrend,earningsTrend,indexTrend"

	userAgent = "Mozilla/5.0 (compatible; stockingest/0.1)"
)

// YahooClient issues batch queries against Yahoo Finance. Live quotes go
// through the finance-go quote API; everything else through quoteSummary.
type YahooClient struct {
	endpoint string
	http     *http.Client
	log      zerolog.Logger
}

// NewYahooClient creates a Yahoo-backed provider client. An empty
// endpoint uses the public API.
func NewYahooClient(endpoint string, timeout time.Duration, logger zerolog.Logger) *YahooClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &YahooClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		log:      logger,
	}
}

// Batch creates a batch query for one symbol group. The quoteSummary
// payload is fetched once per batch and shared by all module accessors.
func (c *YahooClient) Batch(symbols []string) Batch {
	return &yahooBatch{client: c, symbols: symbols}
}

type yahooBatch struct {
	client  *YahooClient
	symbols []string

	once sync.Once
	// records holds per-symbol quoteSummary results: either a
	// module-keyed RawRecord or a provider error string.
	records  map[string]any
	fetchErr error
}

// Price returns live quote records via finance-go, shaped like the
// quoteSummary price module fields the normalizer reads.
func (b *yahooBatch) Price(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(b.symbols))
	iter := quote.List(b.symbols)
	for iter.Next() {
		q := iter.Quote()
		if q == nil {
			continue
		}
		out[q.Symbol] = RawRecord{
			"regularMarketPrice":         q.RegularMarketPrice,
			"regularMarketChange":        q.RegularMarketChange,
			"regularMarketChangePercent": q.RegularMarketChangePercent,
		}
	}
	if err := iter.Err(); err != nil {
		return nil, apperrors.Wrap(err, "listing quotes")
	}
	return out, nil
}

func (b *yahooBatch) SummaryDetail(ctx context.Context) (map[string]any, error) {
	return b.module(ctx, "summaryDetail")
}

func (b *yahooBatch) AssetProfile(ctx context.Context) (map[string]any, error) {
	return b.module(ctx, "assetProfile")
}

func (b *yahooBatch) RecommendationTrend(ctx context.Context) (map[string]any, error) {
	return b.module(ctx, "recommendationTrend")
}

func (b *yahooBatch) EarningsTrend(ctx context.Context) (map[string]any, error) {
	return b.module(ctx, "earningsTrend")
}

func (b *yahooBatch) IndexTrend(ctx context.Context) (map[string]any, error) {
	return b.module(ctx, "indexTrend")
}

// module projects one quoteSummary module out of the shared batch fetch.
// Symbols whose fetch failed upstream keep their error string so callers
// can isolate the failure per symbol.
func (b *yahooBatch) module(ctx context.Context, name string) (map[string]any, error) {
	b.once.Do(func() { b.fetchSummary(ctx) })
	if b.fetchErr != nil {
		return nil, b.fetchErr
	}

	out := make(map[string]any, len(b.records))
	for symbol, rec := range b.records {
		modules, ok := rec.(RawRecord)
		if !ok {
			out[symbol] = rec
			continue
		}
		if v, ok := modules[name]; ok && v != nil {
			out[symbol] = v
		}
	}
	return out, nil
}

// quoteSummaryResponse is the Yahoo quoteSummary envelope.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []RawRecord `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// fetchSummary loads quoteSummary modules for every symbol in the batch.
// Transport failures abort the whole group; per-symbol API errors are
// recorded as error strings against that symbol.
func (b *yahooBatch) fetchSummary(ctx context.Context) {
	b.records = make(map[string]any, len(b.symbols))

	for _, symbol := range b.symbols {
		rec, err := b.client.quoteSummary(ctx, symbol)
		if err != nil {
			b.fetchErr = apperrors.Wrapf(err, "quoteSummary batch %v", b.symbols)
			return
		}
		b.records[symbol] = rec
	}
}

// quoteSummary fetches all configured modules for one symbol. The
// returned value is a module-keyed RawRecord, or an error string when
// the API rejected the symbol.
func (c *YahooClient) quoteSummary(ctx context.Context, symbol string) (any, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.endpoint, url.PathEscape(symbol), url.QueryEscape(summaryModules))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrConnectionFailed, err.Error())
	}
	defer resp.Body.Close()

	var envelope quoteSummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Sprintf("HTTP %d for %s", resp.StatusCode, symbol), nil
		}
		return nil, apperrors.Wrap(err, "decoding quoteSummary response")
	}

	if e := envelope.QuoteSummary.Error; e != nil {
		c.log.Debug().Str("symbol", symbol).Str("code", e.Code).Msg("quoteSummary returned an error")
		return e.Description, nil
	}
	if len(envelope.QuoteSummary.Result) == 0 {
		return fmt.Sprintf("no quoteSummary result for %s", symbol), nil
	}

	flat, _ := flattenRawValues(envelope.QuoteSummary.Result[0]).(RawRecord)
	return flat, nil
}

// flattenRawValues rewrites Yahoo's {"raw": x, "fmt": "..."} wrappers to
// their raw scalar, recursively, so downstream code sees plain values.
func flattenRawValues(v any) any {
	switch val := v.(type) {
	case map[string]any:
		if raw, ok := val["raw"]; ok && len(val) <= 3 {
			if _, hasFmt := val["fmt"]; hasFmt || len(val) == 1 {
				return raw
			}
		}
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = flattenRawValues(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = flattenRawValues(inner)
		}
		return out
	default:
		return v
	}
}
