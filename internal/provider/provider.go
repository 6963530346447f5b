// Package provider defines the upstream market-data contract and its
// Yahoo implementation.
package provider

import "context"

// RawRecord is a loosely-typed provider payload for one symbol. Field
// presence is not guaranteed; consumers validate only what they read.
type RawRecord = map[string]any

// Batch is one batch query over a fixed symbol group, mirroring the
// provider's category accessors. Each accessor returns a symbol-keyed
// payload: a value may be a RawRecord, a provider error string, or
// absent entirely when the provider dropped the symbol. A non-nil error
// means the whole group failed for that category.
type Batch interface {
	Price(ctx context.Context) (map[string]any, error)
	SummaryDetail(ctx context.Context) (map[string]any, error)
	AssetProfile(ctx context.Context) (map[string]any, error)
	RecommendationTrend(ctx context.Context) (map[string]any, error)
	EarningsTrend(ctx context.Context) (map[string]any, error)
	IndexTrend(ctx context.Context) (map[string]any, error)
}

// Client constructs batch queries over symbol groups.
type Client interface {
	Batch(symbols []string) Batch
}
