// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"stock-ingest/internal/models"
)

// DataStore defines the persistence contract for ingested market data.
// Writes are append-only per category; "freshest row per symbol and
// category" is the read-side rule, so a new run supersedes the prior
// value for a slot without ever deleting untouched categories.
type DataStore interface {
	// Ingestion
	SaveCombined(ctx context.Context, combined map[string]*models.SymbolRecord) error
	SaveLive(ctx context.Context, symbol string, data *models.LiveData) error

	// Reads
	LatestLive(ctx context.Context, symbol string) (*models.LiveRow, error)
	LiveSnapshot(ctx context.Context) ([]models.LiveRow, error)
	LatestAnalysis(ctx context.Context, symbol string) (*models.AnalysisSummary, error)

	// Lifecycle
	Close() error
}
