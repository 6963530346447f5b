package ingest

import (
	"testing"

	"stock-ingest/internal/models"
)

func TestDominantLabel(t *testing.T) {
	tests := []struct {
		name   string
		counts map[string]int
		want   string
	}{
		{
			name:   "nil counts yields Unknown",
			counts: nil,
			want:   models.RecUnknown,
		},
		{
			name:   "clear winner",
			counts: map[string]int{"strongBuy": 1, "buy": 9, "hold": 3, "sell": 0, "strongSell": 0},
			want:   models.RecBuy,
		},
		{
			name:   "tie breaks to the earlier rating",
			counts: map[string]int{"strongBuy": 2, "buy": 2, "hold": 1, "sell": 0, "strongSell": 0},
			want:   models.RecStrongBuy,
		},
		{
			name:   "tie between later ratings",
			counts: map[string]int{"strongBuy": 0, "buy": 1, "hold": 4, "sell": 4, "strongSell": 0},
			want:   models.RecHold,
		},
		{
			name:   "all zero counts fall to the first rating",
			counts: map[string]int{"strongBuy": 0, "buy": 0, "hold": 0, "sell": 0, "strongSell": 0},
			want:   models.RecStrongBuy,
		},
		{
			name:   "bearish consensus",
			counts: map[string]int{"strongBuy": 0, "buy": 1, "hold": 2, "sell": 3, "strongSell": 8},
			want:   models.RecStrongSell,
		},
		{
			name:   "missing keys count as zero",
			counts: map[string]int{"hold": 5},
			want:   models.RecHold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DominantLabel(tt.counts); got != tt.want {
				t.Errorf("DominantLabel(%v) = %q, want %q", tt.counts, got, tt.want)
			}
		})
	}
}

func TestSummarizeRecommendations(t *testing.T) {
	t.Run("no rows yields No Data and an empty trend", func(t *testing.T) {
		got := SummarizeRecommendations(nil)
		if got.Computed != models.RecNoData {
			t.Errorf("Computed = %q, want %q", got.Computed, models.RecNoData)
		}
		if got.Trend == nil || len(got.Trend) != 0 {
			t.Errorf("Trend = %v, want empty non-nil slice", got.Trend)
		}
	})

	t.Run("current period row wins", func(t *testing.T) {
		rows := []models.RecommendationRow{
			{Period: "-1m", StrongBuy: 0, Buy: 0, Hold: 9},
			{Period: "0m", StrongBuy: 5, Buy: 2, Hold: 1},
		}
		got := SummarizeRecommendations(rows)
		if got.Computed != models.RecStrongBuy {
			t.Errorf("Computed = %q, want %q", got.Computed, models.RecStrongBuy)
		}
		if len(got.Trend) != 2 {
			t.Errorf("Trend length = %d, want 2 (rows carried through)", len(got.Trend))
		}
	})

	t.Run("missing current period falls back to the first row", func(t *testing.T) {
		rows := []models.RecommendationRow{
			{Period: "-1m", Buy: 1, Hold: 7},
			{Period: "-2m", StrongBuy: 9},
		}
		got := SummarizeRecommendations(rows)
		if got.Computed != models.RecHold {
			t.Errorf("Computed = %q, want %q (from first row, not %q)", got.Computed, models.RecHold, models.RecNoData)
		}
	})
}
