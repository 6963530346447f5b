package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "stock-ingest/internal/errors"
	"stock-ingest/internal/models"
	"stock-ingest/internal/normalize"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store at dbPath,
// creating the parent directory and schema as needed.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS Ticker (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT UNIQUE NOT NULL
	);

	CREATE TABLE IF NOT EXISTS LiveData (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker_id INTEGER,
		price REAL,
		change REAL,
		percent_change REAL,
		timestamp TEXT,
		FOREIGN KEY (ticker_id) REFERENCES Ticker(id)
	);

	CREATE TABLE IF NOT EXISTS DailyData (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker_id INTEGER,
		open REAL,
		previous_close REAL,
		day_high REAL,
		day_low REAL,
		volume INTEGER,
		market_cap INTEGER,
		trailing_pe REAL,
		forward_pe REAL,
		timestamp TEXT,
		FOREIGN KEY (ticker_id) REFERENCES Ticker(id)
	);

	CREATE TABLE IF NOT EXISTS Fundamentals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker_id INTEGER,
		sector TEXT,
		industry TEXT,
		full_time_employees INTEGER,
		country TEXT,
		website TEXT,
		description TEXT,
		timestamp TEXT,
		FOREIGN KEY (ticker_id) REFERENCES Ticker(id)
	);

	CREATE TABLE IF NOT EXISTS Analysis (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker_id INTEGER,
		computed_recommendation TEXT,
		pe_ratio REAL,
		peg_ratio REAL,
		next_quarter_growth REAL,
		timestamp TEXT,
		FOREIGN KEY (ticker_id) REFERENCES Ticker(id)
	);

	CREATE TABLE IF NOT EXISTS RecommendationTrend (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		analysis_id INTEGER,
		period TEXT,
		strongBuy INTEGER,
		buy INTEGER,
		hold INTEGER,
		sell INTEGER,
		strongSell INTEGER,
		FOREIGN KEY (analysis_id) REFERENCES Analysis(id)
	);

	CREATE TABLE IF NOT EXISTS EarningsTrend (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		analysis_id INTEGER,
		period TEXT,
		growth REAL,
		FOREIGN KEY (analysis_id) REFERENCES Analysis(id)
	);

	CREATE TABLE IF NOT EXISTS IndexTrend (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		analysis_id INTEGER,
		peRatio REAL,
		pegRatio REAL,
		FOREIGN KEY (analysis_id) REFERENCES Analysis(id)
	);

	CREATE INDEX IF NOT EXISTS idx_live_ticker ON LiveData(ticker_id);
	CREATE INDEX IF NOT EXISTS idx_daily_ticker ON DailyData(ticker_id);
	CREATE INDEX IF NOT EXISTS idx_fundamentals_ticker ON Fundamentals(ticker_id);
	CREATE INDEX IF NOT EXISTS idx_analysis_ticker ON Analysis(ticker_id);
	CREATE INDEX IF NOT EXISTS idx_rectrend_analysis ON RecommendationTrend(analysis_id);
	CREATE INDEX IF NOT EXISTS idx_earningstrend_analysis ON EarningsTrend(analysis_id);
	CREATE INDEX IF NOT EXISTS idx_indextrend_analysis ON IndexTrend(analysis_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveCombined persists one ingestion run. Each present category gets a
// new row; absent (nil) categories are not written, so the freshest
// prior row for that slot stays authoritative.
func (s *SQLiteStore) SaveCombined(ctx context.Context, combined map[string]*models.SymbolRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStoreError("begin", err)
	}
	defer tx.Rollback()

	for symbol, record := range combined {
		tickerID, err := getOrCreateTicker(ctx, tx, symbol)
		if err != nil {
			return apperrors.NewStoreError("upsert ticker "+symbol, err)
		}

		if record.Live != nil {
			if err := insertLive(ctx, tx, tickerID, record.Live); err != nil {
				return apperrors.NewStoreError("insert live "+symbol, err)
			}
		}
		if record.Daily != nil {
			if err := insertDaily(ctx, tx, tickerID, record.Daily); err != nil {
				return apperrors.NewStoreError("insert daily "+symbol, err)
			}
		}
		if record.Fundamentals != nil {
			if err := insertFundamentals(ctx, tx, tickerID, record.Fundamentals); err != nil {
				return apperrors.NewStoreError("insert fundamentals "+symbol, err)
			}
		}
		if record.Analysis != nil {
			if err := insertAnalysis(ctx, tx, tickerID, record.Analysis); err != nil {
				return apperrors.NewStoreError("insert analysis "+symbol, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStoreError("commit", err)
	}
	return nil
}

// SaveLive persists a single live-data row for one symbol.
func (s *SQLiteStore) SaveLive(ctx context.Context, symbol string, data *models.LiveData) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStoreError("begin", err)
	}
	defer tx.Rollback()

	tickerID, err := getOrCreateTicker(ctx, tx, symbol)
	if err != nil {
		return apperrors.NewStoreError("upsert ticker "+symbol, err)
	}
	if err := insertLive(ctx, tx, tickerID, data); err != nil {
		return apperrors.NewStoreError("insert live "+symbol, err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStoreError("commit", err)
	}
	return nil
}

// getOrCreateTicker upserts a symbol into Ticker and returns its id.
func getOrCreateTicker(ctx context.Context, tx *sql.Tx, symbol string) (int64, error) {
	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO Ticker (symbol) VALUES (?)`, symbol); err != nil {
		return 0, err
	}

	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM Ticker WHERE symbol = ?`, symbol).Scan(&id)
	return id, err
}

func insertLive(ctx context.Context, tx *sql.Tx, tickerID int64, d *models.LiveData) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO LiveData (ticker_id, price, change, percent_change, timestamp)
		VALUES (?, ?, ?, ?, ?)`,
		tickerID, d.Price, d.Change, d.PercentChange, d.Timestamp)
	return err
}

func insertDaily(ctx context.Context, tx *sql.Tx, tickerID int64, d *models.DailyData) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO DailyData (ticker_id, open, previous_close, day_high, day_low,
			volume, market_cap, trailing_pe, forward_pe, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tickerID, d.Open, d.PreviousClose, d.DayHigh, d.DayLow,
		d.Volume, d.MarketCap, d.TrailingPE, d.ForwardPE, d.Timestamp)
	return err
}

func insertFundamentals(ctx context.Context, tx *sql.Tx, tickerID int64, f *models.Fundamentals) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO Fundamentals (ticker_id, sector, industry, full_time_employees,
			country, website, description, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tickerID, f.Sector, f.Industry, f.FullTimeEmployees,
		f.Country, f.Website, f.Description, f.Timestamp)
	return err
}

// insertAnalysis writes the Analysis row plus its RecommendationTrend,
// EarningsTrend and IndexTrend children keyed to the new analysis id.
// An error-sentinel record (nil FullData) writes the parent row only.
func insertAnalysis(ctx context.Context, tx *sql.Tx, tickerID int64, a *models.Analysis) error {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO Analysis (ticker_id, computed_recommendation, pe_ratio, peg_ratio,
			next_quarter_growth, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		tickerID, a.Summary.Recommendation, a.Summary.PERatio, a.Summary.PEGRatio,
		a.Summary.NextQuarterGrowth, a.Timestamp)
	if err != nil {
		return err
	}
	analysisID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if a.FullData == nil {
		return nil
	}

	for _, row := range a.FullData.RecommendationTrend {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO RecommendationTrend (analysis_id, period, strongBuy, buy, hold, sell, strongSell)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			analysisID, row.Period, row.StrongBuy, row.Buy, row.Hold, row.Sell, row.StrongSell)
		if err != nil {
			return err
		}
	}

	for _, item := range normalize.List(normalize.Get(a.FullData.EarningsTrend, "trend", nil), nil) {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		period, _ := entry["period"].(string)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO EarningsTrend (analysis_id, period, growth)
			VALUES (?, ?, ?)`,
			analysisID, period, nullFloat(entry, "growth"))
		if err != nil {
			return err
		}
	}

	if len(a.FullData.IndexTrend) > 0 {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO IndexTrend (analysis_id, peRatio, pegRatio)
			VALUES (?, ?, ?)`,
			analysisID, nullFloat(a.FullData.IndexTrend, "peRatio"), nullFloat(a.FullData.IndexTrend, "pegRatio"))
		if err != nil {
			return err
		}
	}

	return nil
}

// nullFloat reads a numeric field as a nullable value (nil maps to NULL).
func nullFloat(m map[string]any, key string) *float64 {
	if v, ok := m[key].(float64); ok {
		return &v
	}
	return nil
}

// LatestLive returns the most recent live-data row for a symbol, or
// ErrDataNotFound when the symbol has never been ingested.
func (s *SQLiteStore) LatestLive(ctx context.Context, symbol string) (*models.LiveRow, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT t.symbol, l.price, l.change, l.percent_change, l.timestamp
		FROM LiveData l
		JOIN Ticker t ON t.id = l.ticker_id
		WHERE t.symbol = ?
		ORDER BY l.id DESC
		LIMIT 1`, symbol)

	var r models.LiveRow
	if err := row.Scan(&r.Symbol, &r.Price, &r.Change, &r.PercentChange, &r.Timestamp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrDataNotFound
		}
		return nil, apperrors.NewStoreError("latest live", err)
	}
	return &r, nil
}

// LiveSnapshot returns the most recent live-data row for every known
// ticker, ordered by symbol.
func (s *SQLiteStore) LiveSnapshot(ctx context.Context) ([]models.LiveRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.symbol, l.price, l.change, l.percent_change, l.timestamp
		FROM LiveData l
		JOIN Ticker t ON t.id = l.ticker_id
		WHERE l.id IN (
			SELECT MAX(id)
			FROM LiveData
			GROUP BY ticker_id
		)
		ORDER BY t.symbol`)
	if err != nil {
		return nil, apperrors.NewStoreError("live snapshot", err)
	}
	defer rows.Close()

	var out []models.LiveRow
	for rows.Next() {
		var r models.LiveRow
		if err := rows.Scan(&r.Symbol, &r.Price, &r.Change, &r.PercentChange, &r.Timestamp); err != nil {
			return nil, apperrors.NewStoreError("live snapshot scan", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LatestAnalysis returns the most recent analysis summary for a symbol,
// or ErrDataNotFound when none has been ingested.
func (s *SQLiteStore) LatestAnalysis(ctx context.Context, symbol string) (*models.AnalysisSummary, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT a.computed_recommendation, a.pe_ratio, a.peg_ratio, a.next_quarter_growth
		FROM Analysis a
		JOIN Ticker t ON t.id = a.ticker_id
		WHERE t.symbol = ?
		ORDER BY a.id DESC
		LIMIT 1`, symbol)

	var (
		summary         models.AnalysisSummary
		pe, peg, growth sql.NullFloat64
	)
	if err := row.Scan(&summary.Recommendation, &pe, &peg, &growth); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrDataNotFound
		}
		return nil, apperrors.NewStoreError("latest analysis", err)
	}

	if pe.Valid {
		summary.PERatio = &pe.Float64
	}
	if peg.Valid {
		summary.PEGRatio = &peg.Float64
	}
	if growth.Valid {
		summary.NextQuarterGrowth = &growth.Float64
	}
	return &summary, nil
}
