// Package source decodes account statements into raw rows.
//
// A statement is either the json document produced by the statement parsing
// service, or a table exported by a broker (csv or xlsx) whose header row is
// mapped to raw row keys by a Mapping.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/importer"
)

// Statement is a decoded statement: its origin and its raw rows.
type Statement struct {
	Source importer.Source
	Rows   []importer.RawRow
}

// Options controls the decoding of a statement.
type Options struct {
	RowsPath string  // jsonpath of the rows in a json document, DefaultRowsPath if empty
	Mapping  Mapping // header mapping of tables, DefaultMapping if nil
	Provider string  // overrides the provider found in the statement
}

func (o Options) rowsPath() string {
	if o.RowsPath == "" {
		return DefaultRowsPath
	}
	return o.RowsPath
}

func (o Options) mapping() Mapping {
	if o.Mapping == nil {
		return DefaultMapping()
	}
	return o.Mapping
}

// Open decodes the statement file at 'path', the format is chosen from the
// file extension.
func Open(path string, opts Options) (*Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open statement: %w", err)
	}
	defer f.Close()

	var st *Statement
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		st, err = DecodeJSON(f, opts)
	case ".csv", ".txt":
		st, err = DecodeCSV(f, opts)
	case ".xlsx", ".xlsm":
		st, err = DecodeXLSX(f, opts)
	default:
		return nil, fmt.Errorf("unsupported statement format %q, want .json, .csv or .xlsx", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot decode %q: %w", path, err)
	}
	st.Source.Filename = filepath.Base(path)
	return st, nil
}
