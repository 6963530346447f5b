package ingest

import (
	"stock-ingest/internal/models"
)

// currentPeriod marks the reporting period treated as "now" by the
// provider's recommendation trend.
const currentPeriod = "0m"

// ratingOrder fixes the tie-break order for the dominant label: the
// earliest rating wins a tied count.
var ratingOrder = [5]string{"strongBuy", "buy", "hold", "sell", "strongSell"}

var ratingLabels = map[string]string{
	"strongBuy":  models.RecStrongBuy,
	"buy":        models.RecBuy,
	"hold":       models.RecHold,
	"sell":       models.RecSell,
	"strongSell": models.RecStrongSell,
}

// RecommendationDetails is the summarizer output for one symbol: the
// full ordered row list plus the dominant label for the current period.
type RecommendationDetails struct {
	Trend    []models.RecommendationRow
	Computed string
}

// DominantLabel picks the rating with the strictly largest count; ties
// break to the earliest rating in ratingOrder. A nil counts map yields
// the Unknown sentinel.
func DominantLabel(counts map[string]int) string {
	if counts == nil {
		return models.RecUnknown
	}

	best := ratingOrder[0]
	bestCount := counts[best]
	for _, key := range ratingOrder[1:] {
		if counts[key] > bestCount {
			best = key
			bestCount = counts[key]
		}
	}
	return ratingLabels[best]
}

// rowCounts projects a recommendation row onto its per-rating counts.
func rowCounts(row models.RecommendationRow) map[string]int {
	return map[string]int{
		"strongBuy":  row.StrongBuy,
		"buy":        row.Buy,
		"hold":       row.Hold,
		"sell":       row.Sell,
		"strongSell": row.StrongSell,
	}
}

// SummarizeRecommendations reduces a symbol's recommendation rows to a
// dominant current-period label. No rows at all yields the No Data
// sentinel; a missing "0m" period falls back to the first row.
func SummarizeRecommendations(rows []models.RecommendationRow) RecommendationDetails {
	if len(rows) == 0 {
		return RecommendationDetails{
			Trend:    []models.RecommendationRow{},
			Computed: models.RecNoData,
		}
	}

	current := rows[0]
	for _, row := range rows {
		if row.Period == currentPeriod {
			current = row
			break
		}
	}

	return RecommendationDetails{
		Trend:    rows,
		Computed: DominantLabel(rowCounts(current)),
	}
}
