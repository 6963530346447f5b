package ingest

import (
	"stock-ingest/internal/models"
)

// Combine unions the per-category maps into one record per symbol,
// keyed by every symbol appearing in any input. A symbol's output
// depends only on its own four inputs, so the result is deterministic
// and order-independent; categories a symbol is missing stay nil and
// are left untouched by the store.
func Combine(
	live map[string]*models.LiveData,
	daily map[string]*models.DailyData,
	fundamentals map[string]*models.Fundamentals,
	analysis map[string]*models.Analysis,
) map[string]*models.SymbolRecord {
	combined := make(map[string]*models.SymbolRecord)

	record := func(symbol string) *models.SymbolRecord {
		if r, ok := combined[symbol]; ok {
			return r
		}
		r := &models.SymbolRecord{}
		combined[symbol] = r
		return r
	}

	for symbol, v := range live {
		record(symbol).Live = v
	}
	for symbol, v := range daily {
		record(symbol).Daily = v
	}
	for symbol, v := range fundamentals {
		record(symbol).Fundamentals = v
	}
	for symbol, v := range analysis {
		record(symbol).Analysis = v
	}

	return combined
}
