package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/importer"
)

// Dir stores each key in its own json file inside a folder.
type Dir struct {
	path string
}

// OpenDir returns the Dir store rooted at 'path', the folder is created on
// the first write.
func OpenDir(path string) (*Dir, error) {
	if path == "" {
		return nil, fmt.Errorf("empty draft folder path")
	}
	return &Dir{path: path}, nil
}

// file returns the file path of a key: "import.transactions" is stored in
// "<path>/import.transactions.json".
func (s *Dir) file(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.path, key+".json"), nil
}

func (s *Dir) Get(key string) ([]byte, error) {
	file, err := s.file(key)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, importer.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", file, err)
	}
	return content, nil
}

// Set writes the value in a temporary file first and renames it, a reader
// sees either the old or the new value.
func (s *Dir) Set(key string, value []byte) error {
	file, err := s.file(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.path, 0755); err != nil {
		return fmt.Errorf("could not create draft folder %q: %w", s.path, err)
	}
	f, err := os.CreateTemp(s.path, "."+key+".*")
	if err != nil {
		return fmt.Errorf("error opening %q for writing: %w", file, err)
	}
	tmp := f.Name()
	if _, err := f.Write(value); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("error writing %q: %w", file, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("error writing %q: %w", file, err)
	}
	if err := os.Rename(tmp, file); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("error replacing %q: %w", file, err)
	}
	return nil
}

func (s *Dir) Delete(key string) error {
	file, err := s.file(key)
	if err != nil {
		return err
	}
	if err := os.Remove(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot delete %q: %w", file, err)
	}
	return nil
}

func (s *Dir) Close() error { return nil }
