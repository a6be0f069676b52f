// Package store provides durable key value backends for the import draft.
//
// All backends implement importer.KV: Get reports importer.ErrKeyNotFound for
// a missing key, and deleting a missing key is not an error.
package store

import (
	"path/filepath"
	"strings"

	"github.com/etnz/importer"
)

// Store is a KV that holds resources.
type Store interface {
	importer.KV
	Close() error
}

// Open returns the store at 'path'. Paths ending with .db or .sqlite are
// SQLite databases, any other path is a folder of files.
func Open(path string) (Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		s, err := OpenDir(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
