package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFlattenRawValues(t *testing.T) {
	in := map[string]any{
		"trailingPE": map[string]any{"raw": 28.4, "fmt": "28.40"},
		"marketCap":  map[string]any{"raw": 3.5e12, "fmt": "3.5T", "longFmt": "3,500,000,000,000"},
		"sector":     "Technology",
		"trend": []any{
			map[string]any{
				"period": "0m",
				"growth": map[string]any{"raw": 0.12, "fmt": "12%"},
			},
		},
		"nested": map[string]any{
			"peRatio": map[string]any{"raw": 21.3, "fmt": "21.30"},
		},
	}

	out, ok := flattenRawValues(in).(map[string]any)
	if !ok {
		t.Fatal("flatten changed the top-level shape")
	}

	if out["trailingPE"] != 28.4 {
		t.Errorf("trailingPE = %v, want 28.4", out["trailingPE"])
	}
	if out["marketCap"] != 3.5e12 {
		t.Errorf("marketCap = %v, want 3.5e12", out["marketCap"])
	}
	if out["sector"] != "Technology" {
		t.Errorf("sector = %v", out["sector"])
	}

	trend := out["trend"].([]any)[0].(map[string]any)
	if trend["growth"] != 0.12 {
		t.Errorf("nested growth = %v, want 0.12", trend["growth"])
	}
	nested := out["nested"].(map[string]any)
	if nested["peRatio"] != 21.3 {
		t.Errorf("nested peRatio = %v, want 21.3", nested["peRatio"])
	}
}

func TestFlattenRawValues_RealRecordsSurvive(t *testing.T) {
	// A record that happens to contain a "raw" key among others is not a
	// wrapper and must stay a map.
	in := map[string]any{
		"raw":    1.0,
		"period": "0m",
		"growth": 0.12,
		"extra":  true,
	}
	out, ok := flattenRawValues(in).(map[string]any)
	if !ok {
		t.Fatalf("record collapsed to %v", flattenRawValues(in))
	}
	if out["period"] != "0m" {
		t.Errorf("period = %v", out["period"])
	}
}

func summaryHandler(t *testing.T, bodyFor func(symbol string) string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		symbol := parts[len(parts)-1]
		if got := r.URL.Query().Get("modules"); !strings.Contains(got, "recommendationTrend") {
			t.Errorf("modules param = %q", got)
		}
		fmt.Fprint(w, bodyFor(symbol))
	}
}

func TestYahooBatchModules(t *testing.T) {
	body := `{
		"quoteSummary": {
			"result": [{
				"summaryDetail": {
					"open": {"raw": 230.0, "fmt": "230.00"},
					"volume": {"raw": 1000000, "fmt": "1M", "longFmt": "1,000,000"}
				},
				"recommendationTrend": {
					"trend": [
						{"period": "0m", "strongBuy": 3, "buy": 12, "hold": 5, "sell": 1, "strongSell": 0}
					]
				}
			}],
			"error": null
		}
	}`
	srv := httptest.NewServer(summaryHandler(t, func(string) string { return body }))
	defer srv.Close()

	client := NewYahooClient(srv.URL, 5*time.Second, zerolog.Nop())
	batch := client.Batch([]string{"AAPL"})

	summary, err := batch.SummaryDetail(context.Background())
	if err != nil {
		t.Fatalf("SummaryDetail failed: %v", err)
	}
	rec, ok := summary["AAPL"].(map[string]any)
	if !ok {
		t.Fatalf("AAPL summary = %v", summary["AAPL"])
	}
	if rec["open"] != 230.0 {
		t.Errorf("open = %v, want the unwrapped raw value", rec["open"])
	}

	trend, err := batch.RecommendationTrend(context.Background())
	if err != nil {
		t.Fatalf("RecommendationTrend failed: %v", err)
	}
	if _, ok := trend["AAPL"].(map[string]any); !ok {
		t.Errorf("AAPL trend = %v", trend["AAPL"])
	}
}

// An API-level rejection keeps the symbol in the payload as an error
// string instead of failing the batch.
func TestYahooBatch_APIErrorBecomesSymbolString(t *testing.T) {
	srv := httptest.NewServer(summaryHandler(t, func(symbol string) string {
		if symbol == "BAD" {
			return `{"quoteSummary": {"result": null, "error": {"code": "Not Found", "description": "Quote not found for ticker symbol: BAD"}}}`
		}
		return `{"quoteSummary": {"result": [{"summaryDetail": {"open": {"raw": 1.0, "fmt": "1.00"}}}], "error": null}}`
	}))
	defer srv.Close()

	client := NewYahooClient(srv.URL, 5*time.Second, zerolog.Nop())
	batch := client.Batch([]string{"AAPL", "BAD"})

	summary, err := batch.SummaryDetail(context.Background())
	if err != nil {
		t.Fatalf("SummaryDetail failed: %v", err)
	}

	if _, ok := summary["AAPL"].(map[string]any); !ok {
		t.Errorf("AAPL = %v, want a record", summary["AAPL"])
	}
	msg, ok := summary["BAD"].(string)
	if !ok || !strings.Contains(msg, "BAD") {
		t.Errorf("BAD = %v, want the provider error string", summary["BAD"])
	}
}

// A transport failure fails the whole group for every module accessor.
func TestYahooBatch_TransportFailureFailsGroup(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connections now refused

	client := NewYahooClient(srv.URL, time.Second, zerolog.Nop())
	batch := client.Batch([]string{"AAPL"})

	if _, err := batch.SummaryDetail(context.Background()); err == nil {
		t.Error("expected a group error on transport failure")
	}
	if _, err := batch.EarningsTrend(context.Background()); err == nil {
		t.Error("the shared fetch error must surface on every accessor")
	}
}

// The quoteSummary payload is fetched once per batch and shared across
// module accessors.
func TestYahooBatch_SingleFetchPerBatch(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"quoteSummary": {"result": [{"summaryDetail": {}}], "error": null}}`)
	}))
	defer srv.Close()

	client := NewYahooClient(srv.URL, 5*time.Second, zerolog.Nop())
	batch := client.Batch([]string{"AAPL", "MSFT"})

	ctx := context.Background()
	batch.SummaryDetail(ctx)
	batch.AssetProfile(ctx)
	batch.RecommendationTrend(ctx)
	batch.EarningsTrend(ctx)
	batch.IndexTrend(ctx)

	if hits != 2 {
		t.Errorf("upstream hit %d times, want once per symbol", hits)
	}
}
