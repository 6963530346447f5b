package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Stock Ingest Configuration

[ingest]
# Default ticker list for batch ingestion runs
tickers = ["AAPL", "MSFT", "GOOGL", "AMZN"]
# Number of symbols per upstream batch request
chunk_size = 3
# Minutes between scheduled ingestion runs (watch command)
interval_minutes = 10

[provider]
# Yahoo quoteSummary endpoint
endpoint = "https://query2.finance.yahoo.com"
# HTTP timeout per batch request
timeout_seconds = 30

[database]
# SQLite database path (empty = ~/.config/stock-ingest/stockdata.db)
path = ""

[logging]
# Log level: debug, info, warn, error
level = "info"
# Log to console
console = true
# Log to rotating file under the config directory
file = true
`

// createTemplateConfig writes a commented template config file so the
// first run leaves something editable behind.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(configTemplate), 0644)
}
