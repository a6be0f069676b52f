package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
)

// ErrNotFound is returned when a candidate id is not part of the batch.
var ErrNotFound = errors.New("not found")

// Batch is the working set of candidates of an import, in insertion order.
// Each id maps to at most one candidate.
type Batch struct {
	candidates []*Candidate
	index      map[string]*Candidate
}

// NewBatch returns a batch holding 'candidates'. It fails on duplicate ids.
func NewBatch(candidates ...*Candidate) (*Batch, error) {
	b := &Batch{index: make(map[string]*Candidate)}
	for _, c := range candidates {
		if err := b.Add(c); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Len returns the number of candidates in the batch.
func (b *Batch) Len() int { return len(b.candidates) }

// Add appends 'c' to the batch.
func (b *Batch) Add(c *Candidate) error {
	if c.ID == "" {
		return errors.New("candidate id is missing")
	}
	if b.index == nil {
		b.index = make(map[string]*Candidate)
	}
	if _, exists := b.index[c.ID]; exists {
		return fmt.Errorf("duplicate candidate id %q", c.ID)
	}
	b.candidates = append(b.candidates, c)
	b.index[c.ID] = c
	return nil
}

// Has reports whether the batch contains a candidate with this id.
func (b *Batch) Has(id string) bool {
	_, ok := b.index[id]
	return ok
}

// Get returns the candidate with this id.
func (b *Batch) Get(id string) (*Candidate, error) {
	c, ok := b.index[id]
	if !ok {
		return nil, fmt.Errorf("candidate %q: %w", id, ErrNotFound)
	}
	return c, nil
}

// Delete removes the candidate with this id.
func (b *Batch) Delete(id string) error {
	if _, ok := b.index[id]; !ok {
		return fmt.Errorf("candidate %q: %w", id, ErrNotFound)
	}
	delete(b.index, id)
	for i, c := range b.candidates {
		if c.ID == id {
			b.candidates = append(b.candidates[:i], b.candidates[i+1:]...)
			break
		}
	}
	return nil
}

// All iterates over candidates in batch order.
func (b *Batch) All() iter.Seq[*Candidate] {
	return func(yield func(*Candidate) bool) {
		for _, c := range b.candidates {
			if !yield(c) {
				return
			}
		}
	}
}

// Incomplete returns the candidates that cannot be committed, in batch order.
func (b *Batch) Incomplete() []*Candidate {
	var list []*Candidate
	for c := range b.All() {
		if IsIncomplete(*c) {
			list = append(list, c)
		}
	}
	return list
}

// Clone returns a deep copy of the batch.
func (b *Batch) Clone() *Batch {
	n := &Batch{index: make(map[string]*Candidate, len(b.candidates))}
	for _, c := range b.candidates {
		cc := *c
		n.candidates = append(n.candidates, &cc)
		n.index[cc.ID] = &cc
	}
	return n
}

// MarshalJSON encodes the batch as a json array of candidates.
func (b *Batch) MarshalJSON() ([]byte, error) {
	if b.candidates == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(b.candidates)
}

// UnmarshalJSON decodes a json array of candidates.
func (b *Batch) UnmarshalJSON(data []byte) error {
	var list []*Candidate
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	n, err := NewBatch(list...)
	if err != nil {
		return err
	}
	*b = *n
	return nil
}
