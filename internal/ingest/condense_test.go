package ingest

import (
	"testing"

	"stock-ingest/internal/models"
)

func TestBuildAnalysis(t *testing.T) {
	details := RecommendationDetails{
		Trend:    []models.RecommendationRow{{Period: "0m", Buy: 5}},
		Computed: models.RecBuy,
	}
	earnings := map[string]any{
		"trend": []any{
			map[string]any{"period": "0q", "growth": 0.05},
			map[string]any{"period": "+1q", "growth": 0.121},
		},
	}
	index := map[string]any{"peRatio": 21.3, "pegRatio": 1.8}

	got := BuildAnalysis(details, earnings, index, "2026-08-23T10:00:00Z")

	if got.FullData == nil {
		t.Fatal("FullData should be populated on success")
	}
	if got.FullData.ComputedRecommendation != models.RecBuy {
		t.Errorf("ComputedRecommendation = %q, want %q", got.FullData.ComputedRecommendation, models.RecBuy)
	}
	if got.Summary.Recommendation != models.RecBuy {
		t.Errorf("Summary.Recommendation = %q, want %q", got.Summary.Recommendation, models.RecBuy)
	}
	if got.Summary.PERatio == nil || *got.Summary.PERatio != 21.3 {
		t.Errorf("PERatio = %v, want 21.3", got.Summary.PERatio)
	}
	if got.Summary.PEGRatio == nil || *got.Summary.PEGRatio != 1.8 {
		t.Errorf("PEGRatio = %v, want 1.8", got.Summary.PEGRatio)
	}
	if got.Summary.NextQuarterGrowth == nil || *got.Summary.NextQuarterGrowth != 0.121 {
		t.Errorf("NextQuarterGrowth = %v, want 0.121 (the +1q entry)", got.Summary.NextQuarterGrowth)
	}
	if got.Timestamp != "2026-08-23T10:00:00Z" {
		t.Errorf("Timestamp = %q", got.Timestamp)
	}
}

// Upstream nulls and absent ratio fields must survive as nil, never
// collapse to zero.
func TestBuildAnalysis_NullsStayNull(t *testing.T) {
	details := RecommendationDetails{Trend: []models.RecommendationRow{}, Computed: models.RecNoData}

	tests := []struct {
		name     string
		earnings map[string]any
		index    map[string]any
	}{
		{"empty payloads", map[string]any{}, map[string]any{}},
		{"explicit nulls", map[string]any{"trend": nil}, map[string]any{"peRatio": nil, "pegRatio": nil}},
		{"non-numeric ratios", map[string]any{}, map[string]any{"peRatio": "21.3", "pegRatio": true}},
		{"growth missing on +1q", map[string]any{"trend": []any{map[string]any{"period": "+1q"}}}, map[string]any{}},
		{"growth null on +1q", map[string]any{"trend": []any{map[string]any{"period": "+1q", "growth": nil}}}, map[string]any{}},
		{"no +1q entry", map[string]any{"trend": []any{map[string]any{"period": "0q", "growth": 0.3}}}, map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildAnalysis(details, tt.earnings, tt.index, "ts")
			if got.Summary.PERatio != nil {
				t.Errorf("PERatio = %v, want nil", *got.Summary.PERatio)
			}
			if got.Summary.PEGRatio != nil {
				t.Errorf("PEGRatio = %v, want nil", *got.Summary.PEGRatio)
			}
			if got.Summary.NextQuarterGrowth != nil {
				t.Errorf("NextQuarterGrowth = %v, want nil", *got.Summary.NextQuarterGrowth)
			}
		})
	}
}

func TestErrorAnalysis(t *testing.T) {
	got := ErrorAnalysis("2026-08-23T10:00:00Z")

	if got.FullData != nil {
		t.Errorf("FullData = %+v, want nil on assembly failure", got.FullData)
	}
	if got.Summary.Recommendation != models.RecError {
		t.Errorf("Recommendation = %q, want %q", got.Summary.Recommendation, models.RecError)
	}
	if got.Summary.PERatio != nil || got.Summary.PEGRatio != nil || got.Summary.NextQuarterGrowth != nil {
		t.Error("sentinel summary must carry no ratio values")
	}
	if got.Timestamp != "2026-08-23T10:00:00Z" {
		t.Errorf("Timestamp = %q, want the run timestamp", got.Timestamp)
	}
}

func TestParseRecommendationRows(t *testing.T) {
	t.Run("typed rows from raw entries", func(t *testing.T) {
		raw := []any{
			map[string]any{"period": "0m", "strongBuy": 3.0, "buy": 12.0, "hold": 5.0, "sell": 1.0, "strongSell": 0.0},
			map[string]any{"period": "-1m", "strongBuy": 2.0, "buy": 11.0, "hold": 6.0, "sell": 2.0, "strongSell": 1.0},
		}
		rows := ParseRecommendationRows(raw)
		if len(rows) != 2 {
			t.Fatalf("got %d rows, want 2", len(rows))
		}
		want := models.RecommendationRow{Period: "0m", StrongBuy: 3, Buy: 12, Hold: 5, Sell: 1}
		if rows[0] != want {
			t.Errorf("rows[0] = %+v, want %+v", rows[0], want)
		}
	})

	t.Run("non-mapping entries are dropped", func(t *testing.T) {
		raw := []any{
			"garbage",
			map[string]any{"period": "0m", "buy": 4.0},
			nil,
		}
		rows := ParseRecommendationRows(raw)
		if len(rows) != 1 {
			t.Fatalf("got %d rows, want 1", len(rows))
		}
		if rows[0].Period != "0m" || rows[0].Buy != 4 {
			t.Errorf("rows[0] = %+v", rows[0])
		}
	})

	t.Run("non-list input yields no rows", func(t *testing.T) {
		if rows := ParseRecommendationRows("not a list"); rows != nil {
			t.Errorf("got %v, want nil", rows)
		}
		if rows := ParseRecommendationRows(nil); rows != nil {
			t.Errorf("got %v, want nil", rows)
		}
	})

	t.Run("missing counts default to zero", func(t *testing.T) {
		rows := ParseRecommendationRows([]any{map[string]any{"period": "0m"}})
		if len(rows) != 1 {
			t.Fatalf("got %d rows, want 1", len(rows))
		}
		if rows[0].StrongBuy != 0 || rows[0].StrongSell != 0 {
			t.Errorf("rows[0] = %+v, want zero counts", rows[0])
		}
	})
}
