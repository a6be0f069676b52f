package importer

import (
	"testing"

	"github.com/etnz/importer/date"
)

func TestDraftStore(t *testing.T) {
	kv := newMemKV()
	s := NewDraftStore(kv)

	d, err := s.Load()
	if err != nil || d != nil {
		t.Fatalf("Load() on an empty store = %v, %v, want nil, nil", d, err)
	}

	b, _ := NewBatch(buy("a", date.New(2025, 6, 30), aapl, 2, 50))
	src := Source{
		Provider: "degiro",
		Filename: "june.pdf",
		Period:   Period{Start: date.New(2025, 6, 1), End: date.New(2025, 6, 30)},
		Warnings: []string{"page 3 unreadable"},
	}
	if err := s.Save(Draft{Batch: b, Source: src}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	d, err = s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if d.Batch.Len() != 1 {
		t.Errorf("restored %d candidates, want 1", d.Batch.Len())
	}
	if d.Source.Provider != "degiro" || d.Source.Period.End != src.Period.End || len(d.Source.Warnings) != 1 {
		t.Errorf("restored source = %+v, want %+v", d.Source, src)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if d, _ := s.Load(); d != nil {
		t.Errorf("Load() after Clear() = %+v, want nil", d)
	}
	if err := s.Clear(); err != nil {
		t.Errorf("Clear() on an empty store error = %v", err)
	}
}

func TestDraftStore_MissingSource(t *testing.T) {
	kv := newMemKV()
	kv.Set(draftTransactionsKey, []byte(`[{"id":"a","transaction_type":"buy"}]`))

	d, err := NewDraftStore(kv).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if d == nil || d.Batch.Len() != 1 || d.Source.Provider != "" {
		t.Errorf("Load() = %+v, want one candidate and an empty source", d)
	}
}

func TestDraftStore_SourceWithoutTransactions(t *testing.T) {
	kv := newMemKV()
	kv.Set(draftSourceKey, []byte(`{"provider":"degiro"}`))

	d, err := NewDraftStore(kv).Load()
	if err != nil || d != nil {
		t.Errorf("Load() = %v, %v, want no draft", d, err)
	}
}

func TestDraftStore_Corrupted(t *testing.T) {
	kv := newMemKV()
	kv.Set(draftTransactionsKey, []byte(`{not json`))
	if _, err := NewDraftStore(kv).Load(); err == nil {
		t.Errorf("Load() of a corrupted draft should fail")
	}
}
