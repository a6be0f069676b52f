package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// ErrSessionClosed is returned when mutating a session after its batch has
// been committed or cancelled.
var ErrSessionClosed = errors.New("review session is closed")

// Session is an open review of an import.
//
// It owns the working batch: every mutation goes through the pipeline and is
// persisted in the draft store before the method returns. The session
// listens to its directory and resolves pending candidates whenever it
// changes. A Session is safe for concurrent use.
type Session struct {
	dir    AssetDirectory
	drafts *DraftStore
	coord  *Coordinator

	mu         sync.Mutex
	batch      *Batch
	source     Source
	closed     bool
	committing bool
	stop       func()
}

// OpenSession restores the draft saved in 'drafts', if any, and starts
// listening to 'dir'. Close must be called to stop listening.
func OpenSession(dir AssetDirectory, drafts *DraftStore, coord *Coordinator) (*Session, error) {
	s := &Session{dir: dir, drafts: drafts, coord: coord, batch: &Batch{}}
	d, err := drafts.Load()
	if err != nil {
		return nil, err
	}
	if d != nil {
		s.batch, s.source = d.Batch, d.Source
	}
	s.stop = dir.OnChanged(func() {
		_, err := s.Reconcile()
		if err != nil && !errors.Is(err, ErrSessionClosed) && !errors.Is(err, ErrCommitInFlight) {
			log.Printf("warning: reconciliation after a directory change failed: %v", err)
		}
	})
	return s, nil
}

// Close stops listening to the directory. The draft is kept.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

// Source returns the origin of the working batch.
func (s *Session) Source() Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Candidates returns a copy of the working batch in review order.
func (s *Session) Candidates() []Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	sorted := Sorted(s.batch)
	list := make([]Candidate, len(sorted))
	for i, c := range sorted {
		list[i] = *c
	}
	return list
}

// Incomplete returns the number of candidates that cannot be committed yet.
func (s *Session) Incomplete() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batch.Incomplete())
}

// writable returns an error if the working batch cannot change. Must be
// called with s.mu held.
func (s *Session) writable() error {
	switch {
	case s.closed:
		return ErrSessionClosed
	case s.committing:
		return ErrCommitInFlight
	}
	return nil
}

// mutate runs 'fn' on the working batch and persists the draft.
func (s *Session) mutate(fn func(b *Batch) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(); err != nil {
		return err
	}
	if err := fn(s.batch); err != nil {
		return err
	}
	return s.drafts.Save(Draft{Batch: s.batch, Source: s.source})
}

// Start replaces the working batch with the ingestion of 'rows'.
func (s *Session) Start(rows []RawRow, src Source) error {
	return s.mutate(func(*Batch) error {
		s.batch, s.source = Ingest(rows, s.dir), src
		return nil
	})
}

// Add inserts a candidate, typically created by NewCandidate.
func (s *Session) Add(c *Candidate) error {
	return s.mutate(func(b *Batch) error {
		if !c.Resolved() {
			c.SetSymbol(s.dir, c.Symbol)
		}
		return b.Add(c)
	})
}

// Apply edits a field of the candidate 'id', see Candidate.Apply.
func (s *Session) Apply(id string, field Field, value string) error {
	return s.mutate(func(b *Batch) error {
		c, err := b.Get(id)
		if err != nil {
			return err
		}
		return c.Apply(s.dir, field, value)
	})
}

// SelectAsset links the candidate 'id' to 'a'.
func (s *Session) SelectAsset(id string, a Asset) error {
	return s.mutate(func(b *Batch) error {
		c, err := b.Get(id)
		if err != nil {
			return err
		}
		c.SelectAsset(a)
		return nil
	})
}

// Delete removes the candidate 'id'.
func (s *Session) Delete(id string) error {
	return s.mutate(func(b *Batch) error { return b.Delete(id) })
}

// Reconcile resolves pending candidates against the directory, it returns
// the number of newly resolved candidates. The draft is saved only if
// something changed.
func (s *Session) Reconcile() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(); err != nil {
		return 0, err
	}
	n := Reconcile(s.batch, s.dir)
	if n == 0 {
		return 0, nil
	}
	return n, s.drafts.Save(Draft{Batch: s.batch, Source: s.source})
}

// Commit submits the working batch to 'portfolioID'. When every transaction
// is created the draft is dropped and the session closes.
//
// The network call runs without holding the session: reads remain possible,
// but edits fail with ErrCommitInFlight until it returns.
func (s *Session) Commit(ctx context.Context, portfolioID int64) (Outcome, error) {
	s.mu.Lock()
	if err := s.writable(); err != nil {
		s.mu.Unlock()
		return Outcome{}, err
	}
	batch, src := s.batch.Clone(), s.source
	s.committing = true
	s.mu.Unlock()

	out, err := s.coord.Commit(ctx, portfolioID, batch, src)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.committing = false
	if err == nil && out.Closed() {
		s.batch, s.closed = &Batch{}, true
	}
	return out, err
}

// Cancel drops the draft and closes the session.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.committing {
		return ErrCommitInFlight
	}
	if err := s.drafts.Clear(); err != nil {
		return fmt.Errorf("cannot cancel the import: %w", err)
	}
	s.batch, s.closed = &Batch{}, true
	return nil
}
