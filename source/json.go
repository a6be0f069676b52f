package source

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/importer"
	"github.com/etnz/importer/date"
)

// DefaultRowsPath locates the rows in a parsing service response.
const DefaultRowsPath = "$.parsed_data.transactions"

// paths of the statement metadata in a parsing service response.
const (
	providerPath   = "$.parsed_data.provider"
	startDatePath  = "$.parsed_data.statement_period.start_date"
	endDatePath    = "$.parsed_data.statement_period.end_date"
	warningsPath   = "$.parsed_data.metadata.warnings"
	confidencePath = "$.parsed_data.metadata.parsing_confidence"
)

// DecodeJSON reads a json statement.
//
// The document is either a parsing service response, whose rows are found at
// opts.RowsPath, or a bare array of rows. Numbers are kept as json.Number so
// that amounts are not rounded.
func DecodeJSON(r io.Reader, opts Options) (*Statement, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var jobj any
	if err := dec.Decode(&jobj); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}

	st := new(Statement)
	jrows := jobj
	if _, isArray := jobj.([]any); !isArray {
		var err error
		if jrows, err = jsonpath.Get(opts.rowsPath(), jobj); err != nil {
			return nil, fmt.Errorf("no rows at %q: %w", opts.rowsPath(), err)
		}
		st.Source = metadata(jobj)
	}

	list, ok := jrows.([]any)
	if !ok {
		return nil, fmt.Errorf("rows at %q are not a list", opts.rowsPath())
	}
	for i, jrow := range list {
		row, ok := jrow.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("row %d is not an object", i+1)
		}
		st.Rows = append(st.Rows, importer.RawRow(row))
	}
	if opts.Provider != "" {
		st.Source.Provider = opts.Provider
	}
	return st, nil
}

// metadata extracts what is known about the statement. Missing or invalid
// values are ignored.
func metadata(jobj any) importer.Source {
	var src importer.Source
	src.Provider = text(jobj, providerPath)
	src.Period.Start, _ = date.Parse(text(jobj, startDatePath))
	src.Period.End, _ = date.Parse(text(jobj, endDatePath))
	if v, err := strconv.ParseFloat(text(jobj, confidencePath), 64); err == nil {
		src.Confidence = v
	}
	if jval, err := jsonpath.Get(warningsPath, jobj); err == nil {
		if list, ok := jval.([]any); ok {
			for _, w := range list {
				if s, ok := w.(string); ok && s != "" {
					src.Warnings = append(src.Warnings, s)
				}
			}
		}
	}
	return src
}

// text returns the value at 'path' as a string, or "" if there is none.
func text(jobj any, path string) string {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil || jval == nil {
		return ""
	}
	return importer.RawRow{"v": jval}.String("v")
}
