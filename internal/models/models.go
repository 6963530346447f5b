// Package models provides domain models for the stock data ingestion application.
package models

// Category identifies one of the four data domains collected per symbol.
type Category string

const (
	CategoryLive         Category = "live"
	CategoryDaily        Category = "daily"
	CategoryFundamentals Category = "fundamentals"
	CategoryAnalysis     Category = "analysis"
)

// Canonical recommendation labels plus sentinels for missing or failed data.
const (
	RecStrongBuy  = "Strong Buy"
	RecBuy        = "Buy"
	RecHold       = "Hold"
	RecSell       = "Sell"
	RecStrongSell = "Strong Sell"
	RecNoData     = "No Data"
	RecUnknown    = "Unknown"
	RecError      = "Error"
)

// LiveData holds the live-price category for one symbol.
// Timestamp is the wall-clock capture time (RFC 3339), set at normalization.
type LiveData struct {
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percent_change"`
	Timestamp     string  `json:"timestamp"`
}

// DailyData holds the daily-summary category for one symbol.
type DailyData struct {
	Open          float64 `json:"open"`
	PreviousClose float64 `json:"previous_close"`
	DayHigh       float64 `json:"day_high"`
	DayLow        float64 `json:"day_low"`
	Volume        int64   `json:"volume"`
	MarketCap     int64   `json:"market_cap"`
	TrailingPE    float64 `json:"trailing_pe"`
	ForwardPE     float64 `json:"forward_pe"`
	Timestamp     string  `json:"timestamp"`
}

// Fundamentals holds the slow-changing company profile for one symbol.
// Text fields are nil when upstream was missing, empty, or whitespace-only.
type Fundamentals struct {
	Sector            *string `json:"sector"`
	Industry          *string `json:"industry"`
	FullTimeEmployees int64   `json:"full_time_employees"`
	Country           *string `json:"country"`
	Website           *string `json:"website"`
	Description       *string `json:"description"`
	Timestamp         string  `json:"timestamp"`
}

// RecommendationRow is one analyst-recommendation reporting period
// (e.g. "0m" for the current month, "-1m", "+1q").
type RecommendationRow struct {
	Period     string `json:"period"`
	StrongBuy  int    `json:"strongBuy"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongSell int    `json:"strongSell"`
}

// FullAnalysis is the verbose analysis payload. EarningsTrend and
// IndexTrend are carried through exactly as the provider returned them.
type FullAnalysis struct {
	RecommendationTrend    []RecommendationRow `json:"recommendation_trend"`
	ComputedRecommendation string              `json:"computed_recommendation"`
	EarningsTrend          map[string]any      `json:"earnings_trend"`
	IndexTrend             map[string]any      `json:"index_trend"`
}

// AnalysisSummary is the condensed view derived from FullAnalysis.
// Ratio and growth fields stay nil when the provider had no value;
// they are never defaulted to zero.
type AnalysisSummary struct {
	Recommendation    string   `json:"recommendation"`
	PERatio           *float64 `json:"pe_ratio"`
	PEGRatio          *float64 `json:"peg_ratio"`
	NextQuarterGrowth *float64 `json:"next_quarter_growth"`
}

// Analysis is the analysis category record. FullData is nil when
// assembly failed for the symbol; Summary then carries the Error sentinel.
type Analysis struct {
	FullData  *FullAnalysis   `json:"full_data"`
	Summary   AnalysisSummary `json:"summary"`
	Timestamp string          `json:"timestamp"`
}

// SymbolRecord is one symbol's combined record across categories.
// A nil field means the category was not produced in the current run;
// the store leaves the previously persisted value for that slot untouched.
type SymbolRecord struct {
	Live         *LiveData     `json:"live,omitempty"`
	Daily        *DailyData    `json:"daily,omitempty"`
	Fundamentals *Fundamentals `json:"fundamentals,omitempty"`
	Analysis     *Analysis     `json:"analysis,omitempty"`
}

// LiveRow is a persisted live-data row read back from the store.
type LiveRow struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percent_change"`
	Timestamp     string  `json:"timestamp"`
}
