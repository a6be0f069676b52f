package source

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/etnz/importer"
	"gopkg.in/yaml.v3"
)

// Mapping maps a raw row key to the table headers that hold it.
//
// In yaml:
//
//	transaction_date: [Trade Date, Date]
//	symbol: [Ticker]
//	total_amount: [Net Amount]
type Mapping map[string][]string

// DefaultMapping returns the headers commonly found in broker exports.
func DefaultMapping() Mapping {
	return Mapping{
		importer.KeyID:          {"id", "reference", "order id"},
		importer.KeyDate:        {"transaction_date", "date", "trade date", "settlement date"},
		importer.KeyType:        {"transaction_type", "type", "action", "side"},
		importer.KeySymbol:      {"symbol", "ticker"},
		importer.KeyName:        {"name", "product", "description", "security"},
		importer.KeyQuantity:    {"quantity", "qty", "shares", "units"},
		importer.KeyPrice:       {"price", "unit price"},
		importer.KeyFees:        {"fees", "fee", "commission"},
		importer.KeyTotalAmount: {"total_amount", "total", "amount", "net amount"},
		importer.KeyNotes:       {"notes", "comment"},

		importer.KeyConfidenceScore: {"confidence_score", "confidence"},
		importer.KeyNeedsReview:     {"needs_review", "needs review", "review"},
	}
}

// LoadMapping reads a yaml mapping file. Keys of the file replace the
// default headers of that key, other keys keep their defaults.
func LoadMapping(path string) (Mapping, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read mapping: %w", err)
	}
	var m Mapping
	if err := yaml.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("invalid mapping %q: %w", path, err)
	}
	known := make(map[string]bool)
	for k := range DefaultMapping() {
		known[k] = true
	}
	for k := range m {
		if !known[k] {
			return nil, fmt.Errorf("invalid mapping %q: unknown key %q", path, k)
		}
	}
	merged := DefaultMapping()
	maps.Copy(merged, m)
	return merged, nil
}

// columns returns the raw row key of each column of 'header'. Columns
// without a key are absent. Headers are compared case insensitively.
func (m Mapping) columns(header []string) (map[int]string, error) {
	byHeader := make(map[string]string)
	for key, headers := range m {
		for _, h := range headers {
			byHeader[normalizeHeader(h)] = key
		}
	}
	cols := make(map[int]string)
	used := make(map[string]bool)
	for i, h := range header {
		key, ok := byHeader[normalizeHeader(h)]
		if !ok || used[key] {
			continue
		}
		cols[i] = key
		used[key] = true
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no known column in header %q", header)
	}
	return cols, nil
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff") // excel adds a BOM to csv exports
	return strings.ToLower(strings.TrimSpace(h))
}

// rows converts a table whose first record is the header.
func (m Mapping) rows(records [][]string) ([]importer.RawRow, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header row")
	}
	cols, err := m.columns(records[0])
	if err != nil {
		return nil, err
	}
	var rows []importer.RawRow
	for _, record := range records[1:] {
		row := make(importer.RawRow)
		for i, cell := range record {
			key, ok := cols[i]
			if !ok || strings.TrimSpace(cell) == "" {
				continue
			}
			row[key] = cell
		}
		if len(row) == 0 {
			continue // blank line
		}
		rows = append(rows, row)
	}
	return rows, nil
}
