// Package ingest implements the fetch, normalize, combine, persist
// pipeline for stock market data.
package ingest

// DefaultChunkSize bounds upstream batch request size.
const DefaultChunkSize = 3

// Chunk partitions symbols into consecutive groups of at most size,
// preserving the original order. Boundaries depend only on position,
// never on symbol content. A size below 1 is treated as 1.
func Chunk(symbols []string, size int) [][]string {
	if size < 1 {
		size = 1
	}

	var groups [][]string
	for i := 0; i < len(symbols); i += size {
		end := i + size
		if end > len(symbols) {
			end = len(symbols)
		}
		groups = append(groups, symbols[i:end])
	}
	return groups
}
