package ingest

import (
	"stock-ingest/internal/models"
	"stock-ingest/internal/normalize"
)

// nextQuarterPeriod is the earnings-trend period the summary reports
// growth for.
const nextQuarterPeriod = "+1q"

// BuildAnalysis assembles the verbose analysis record and derives its
// condensed summary for one symbol. The earnings and index structures
// are carried through exactly as the provider returned them.
func BuildAnalysis(rec RecommendationDetails, earnings, index map[string]any, capturedAt string) models.Analysis {
	full := &models.FullAnalysis{
		RecommendationTrend:    rec.Trend,
		ComputedRecommendation: rec.Computed,
		EarningsTrend:          earnings,
		IndexTrend:             index,
	}

	return models.Analysis{
		FullData: full,
		Summary: models.AnalysisSummary{
			Recommendation:    rec.Computed,
			PERatio:           floatField(index, "peRatio"),
			PEGRatio:          floatField(index, "pegRatio"),
			NextQuarterGrowth: nextQuarterGrowth(earnings),
		},
		Timestamp: capturedAt,
	}
}

// ErrorAnalysis is the sentinel record for a symbol whose analysis
// assembly failed: empty full data, Error summary, run timestamp.
func ErrorAnalysis(capturedAt string) models.Analysis {
	return models.Analysis{
		Summary:   models.AnalysisSummary{Recommendation: models.RecError},
		Timestamp: capturedAt,
	}
}

// ParseRecommendationRows decodes raw trend rows into typed rows,
// dropping entries that are not mappings.
func ParseRecommendationRows(raw any) []models.RecommendationRow {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}

	var rows []models.RecommendationRow
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		period, _ := entry["period"].(string)
		rows = append(rows, models.RecommendationRow{
			Period:     period,
			StrongBuy:  int(normalize.Numeric(normalize.Get(entry, "strongBuy", nil), 0)),
			Buy:        int(normalize.Numeric(normalize.Get(entry, "buy", nil), 0)),
			Hold:       int(normalize.Numeric(normalize.Get(entry, "hold", nil), 0)),
			Sell:       int(normalize.Numeric(normalize.Get(entry, "sell", nil), 0)),
			StrongSell: int(normalize.Numeric(normalize.Get(entry, "strongSell", nil), 0)),
		})
	}
	return rows
}

// floatField reads a numeric field without coercion, so an upstream
// null, absent key, or non-numeric value stays nil in the summary.
func floatField(m map[string]any, key string) *float64 {
	if v, ok := m[key].(float64); ok {
		return &v
	}
	return nil
}

// nextQuarterGrowth scans the earnings trend for the next-quarter entry
// and reads its growth field; no matching period yields nil.
func nextQuarterGrowth(earnings map[string]any) *float64 {
	for _, item := range normalize.List(normalize.Get(earnings, "trend", nil), nil) {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if period, _ := entry["period"].(string); period == nextQuarterPeriod {
			return floatField(entry, "growth")
		}
	}
	return nil
}
