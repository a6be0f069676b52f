// Package catalog loads the asset catalog and keeps the asset directory up
// to date.
package catalog

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/importer"
)

// Source lists the assets known to the portfolio service.
type Source interface {
	Assets(ctx context.Context) ([]importer.Asset, error)
}

// File is a catalog stored in a jsonl file, one asset per line.
type File string

// Assets reads the file. Blank lines are ignored.
func (f File) Assets(ctx context.Context) ([]importer.Asset, error) {
	r, err := os.Open(string(f))
	if err != nil {
		return nil, fmt.Errorf("cannot open catalog: %w", err)
	}
	defer r.Close()

	var assets []importer.Asset
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var a importer.Asset
		if err := json.Unmarshal([]byte(text), &a); err != nil {
			return nil, fmt.Errorf("%s:%d: invalid asset: %w", f, line, err)
		}
		if a.ID == 0 {
			return nil, fmt.Errorf("%s:%d: asset without id", f, line)
		}
		assets = append(assets, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read catalog: %w", err)
	}
	return assets, ctx.Err()
}

// WriteFile saves 'assets' as a jsonl catalog.
func WriteFile(path string, assets []importer.Asset) error {
	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error opening catalog %q for writing: %w", path, err)
	}
	enc := json.NewEncoder(w)
	for _, a := range assets {
		if err := enc.Encode(a); err != nil {
			w.Close()
			return fmt.Errorf("error writing catalog %q: %w", path, err)
		}
	}
	return w.Close()
}
