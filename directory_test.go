package importer

import (
	"sync/atomic"
	"testing"
)

func TestDirectory_Resolve(t *testing.T) {
	d := newTestDirectory(aapl, msft)

	for _, symbol := range []string{"AAPL", "aapl", "  Aapl\t"} {
		a, ok := d.Resolve(symbol)
		if !ok || a.ID != aapl.ID {
			t.Errorf("Resolve(%q) = %v, %v, want AAPL", symbol, a, ok)
		}
	}
	if _, ok := d.Resolve("XYZ"); ok {
		t.Errorf("Resolve(XYZ) should miss")
	}
	if _, ok := d.Resolve(""); ok {
		t.Errorf("Resolve(\"\") should miss")
	}
}

func TestDirectory_Len(t *testing.T) {
	d := newTestDirectory(aapl, msft)
	if d.Len() != 2 || len(d.Assets()) != 2 {
		t.Fatalf("Len() = %d, %d assets, want 2", d.Len(), len(d.Assets()))
	}
	d.Merge(air)
	if d.Len() != 3 || len(d.Assets()) != 3 {
		t.Errorf("Len() = %d, %d assets, want 3", d.Len(), len(d.Assets()))
	}
	for _, a := range []Asset{aapl, msft, air} {
		if _, ok := d.Resolve(a.Symbol); !ok {
			t.Errorf("Resolve(%s) should hit", a.Symbol)
		}
	}
}

func TestDirectory_LowestIDWins(t *testing.T) {
	d := newTestDirectory(
		Asset{ID: 7, Symbol: "AIR", Name: "Air Lease"},
		Asset{ID: 3, Symbol: "air", Name: "Airbus SE"},
	)
	a, ok := d.Resolve("AIR")
	if !ok || a.ID != 3 {
		t.Errorf("Resolve(AIR) = %v, want id 3", a)
	}
}

func TestDirectory_ReplaceAndMerge(t *testing.T) {
	d := newTestDirectory(aapl, msft)

	d.Merge(air, Asset{ID: 2, Symbol: "MSFT", Name: "Microsoft"})
	if d.Len() != 3 {
		t.Errorf("Len() after Merge = %d, want 3", d.Len())
	}
	if a, _ := d.Resolve("MSFT"); a.Name != "Microsoft" {
		t.Errorf("Merge() did not refresh MSFT, got %q", a.Name)
	}

	d.Replace([]Asset{air})
	if _, ok := d.Resolve("AAPL"); ok {
		t.Errorf("Replace() should drop AAPL")
	}
	if got := d.Assets(); len(got) != 1 || got[0].ID != air.ID {
		t.Errorf("Assets() = %v, want [AIR]", got)
	}
}

func TestDirectory_OnChanged(t *testing.T) {
	d := NewDirectory()
	var calls atomic.Int32
	cancel := d.OnChanged(func() {
		// listeners may query the directory
		if _, ok := d.Resolve("AAPL"); ok {
			calls.Add(1)
		}
	})

	d.Merge(aapl)
	if calls.Load() != 1 {
		t.Errorf("listener called %d times, want 1", calls.Load())
	}

	cancel()
	d.Merge(msft)
	if calls.Load() != 1 {
		t.Errorf("listener called after cancel")
	}
}

func TestMergeByID(t *testing.T) {
	page1 := []Asset{msft, aapl}
	page2 := []Asset{{ID: 2, Symbol: "MSFT", Name: "Microsoft"}, air}

	merged := MergeByID(page1, page2, assetID)
	if len(merged) != 3 {
		t.Fatalf("MergeByID() = %v, want 3 assets", merged)
	}
	for i, id := range []AssetID{1, 2, 3} {
		if merged[i].ID != id {
			t.Errorf("merged[%d].ID = %d, want %d", i, merged[i].ID, id)
		}
	}
	if merged[1].Name != "Microsoft" {
		t.Errorf("later records must replace earlier ones, got %q", merged[1].Name)
	}

	again := MergeByID(merged, page2, assetID)
	if len(again) != len(merged) {
		t.Errorf("MergeByID() is not idempotent: %v", again)
	}
}
