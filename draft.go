package importer

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/etnz/importer/date"
)

// ErrKeyNotFound is returned by KV.Get when the key has no value.
var ErrKeyNotFound = errors.New("key not found")

// KV is a durable key value storage. Deleting a missing key is not an error.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Keys used by the DraftStore.
const (
	draftTransactionsKey = "import.transactions"
	draftSourceKey       = "import.source"
)

// Period is a statement period.
type Period struct {
	Start date.Date `json:"start_date"`
	End   date.Date `json:"end_date"`
}

// Source describes where a batch comes from.
type Source struct {
	Provider   string   `json:"provider,omitempty"`
	Filename   string   `json:"filename,omitempty"`
	Period     Period   `json:"statement_period"`
	Confidence float64  `json:"parsing_confidence,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Draft is the in-progress import: the working batch and its origin.
type Draft struct {
	Batch  *Batch
	Source Source
}

// DraftStore persists the draft so that it survives a restart.
type DraftStore struct {
	kv KV
}

// NewDraftStore returns a DraftStore on top of 'kv'.
func NewDraftStore(kv KV) *DraftStore { return &DraftStore{kv: kv} }

// Save persists 'd', replacing any previous draft.
func (s *DraftStore) Save(d Draft) error {
	batch := d.Batch
	if batch == nil {
		batch = &Batch{}
	}
	txs, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("cannot encode draft transactions: %w", err)
	}
	src, err := json.Marshal(d.Source)
	if err != nil {
		return fmt.Errorf("cannot encode draft source: %w", err)
	}
	if err := s.kv.Set(draftTransactionsKey, txs); err != nil {
		return fmt.Errorf("cannot save draft transactions: %w", err)
	}
	if err := s.kv.Set(draftSourceKey, src); err != nil {
		return fmt.Errorf("cannot save draft source: %w", err)
	}
	return nil
}

// Load returns the saved draft, or nil if there is none.
func (s *DraftStore) Load() (*Draft, error) {
	txs, err := s.kv.Get(draftTransactionsKey)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot load draft transactions: %w", err)
	}
	d := &Draft{Batch: &Batch{}}
	if err := json.Unmarshal(txs, d.Batch); err != nil {
		return nil, fmt.Errorf("cannot decode draft transactions: %w", err)
	}

	src, err := s.kv.Get(draftSourceKey)
	switch {
	case errors.Is(err, ErrKeyNotFound):
		// a draft without a source is still a draft.
	case err != nil:
		return nil, fmt.Errorf("cannot load draft source: %w", err)
	default:
		if err := json.Unmarshal(src, &d.Source); err != nil {
			return nil, fmt.Errorf("cannot decode draft source: %w", err)
		}
	}
	return d, nil
}

// Clear deletes the saved draft.
func (s *DraftStore) Clear() error {
	return errors.Join(s.kv.Delete(draftTransactionsKey), s.kv.Delete(draftSourceKey))
}
