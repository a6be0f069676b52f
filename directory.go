package importer

import (
	"cmp"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/patrickmn/go-cache"
)

// AssetDirectory resolves free text symbols to catalog assets.
//
// The directory is refreshed by an external catalog, OnChanged registers a
// function called after each change. The returned function unregisters it.
type AssetDirectory interface {
	Resolve(symbol string) (Asset, bool)
	OnChanged(fn func()) (cancel func())
}

// NormalizeSymbol returns the lookup key of a symbol: trimmed and upper case.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Directory is the in memory AssetDirectory.
//
// Assets are indexed by normalized symbol. When several assets share a
// symbol the one with the lowest id wins. Each update builds a new index and
// swaps it in, so lookups never observe a partially loaded directory.
type Directory struct {
	index atomic.Pointer[cache.Cache]

	mu        sync.Mutex // guards assets, listeners and serializes updates
	assets    []Asset    // sorted by id
	listeners map[int]func()
	next      int
}

// NewDirectory returns an empty directory. Entries never expire, they change
// only with Replace or Merge.
func NewDirectory() *Directory {
	d := &Directory{listeners: make(map[int]func())}
	d.index.Store(d.build(nil))
	return d
}

// Resolve returns the asset for this symbol.
func (d *Directory) Resolve(symbol string) (Asset, bool) {
	key := NormalizeSymbol(symbol)
	if key == "" {
		return Asset{}, false
	}
	v, ok := d.index.Load().Get(key)
	if !ok {
		return Asset{}, false
	}
	return v.(Asset), true
}

// OnChanged registers 'fn' to be called after each change of the directory.
func (d *Directory) OnChanged(fn func()) (cancel func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.next
	d.next++
	d.listeners[id] = fn
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.listeners, id)
	}
}

// Len returns the number of indexed symbols.
func (d *Directory) Len() int { return d.index.Load().ItemCount() }

// Assets returns the indexed assets sorted by symbol.
func (d *Directory) Assets() []Asset {
	items := d.index.Load().Items()
	list := make([]Asset, 0, len(items))
	for _, item := range items {
		list = append(list, item.Object.(Asset))
	}
	slices.SortFunc(list, func(a, b Asset) int { return strings.Compare(a.Symbol, b.Symbol) })
	return list
}

// Replace sets the directory content to 'assets' and notifies listeners.
func (d *Directory) Replace(assets []Asset) {
	d.update(func([]Asset) []Asset { return MergeByID(nil, assets, assetID) })
}

// Merge adds or refreshes 'assets', keeping all others, and notifies listeners.
func (d *Directory) Merge(assets ...Asset) {
	d.update(func(current []Asset) []Asset { return MergeByID(current, assets, assetID) })
}

func (d *Directory) update(next func([]Asset) []Asset) {
	d.mu.Lock()
	d.assets = next(d.assets)
	d.index.Store(d.build(d.assets))
	fns := slices.Collect(maps.Values(d.listeners))
	d.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// build returns a new index of 'assets', which must be sorted by id.
func (d *Directory) build(assets []Asset) *cache.Cache {
	c := cache.New(cache.NoExpiration, 0)
	for _, a := range assets {
		key := NormalizeSymbol(a.Symbol)
		if key == "" {
			continue
		}
		// Add fails when the key exists: lower ids win.
		c.Add(key, a, cache.DefaultExpiration)
	}
	return c
}

func assetID(a Asset) AssetID { return a.ID }

// MergeByID merges two sequences of records with an identity. Records of
// 'update' replace the ones of 'base' with the same id. The result is sorted
// by id, merging the same update twice gives the same result.
func MergeByID[T any, K cmp.Ordered](base, update []T, id func(T) K) []T {
	byID := make(map[K]T, len(base)+len(update))
	for _, v := range base {
		byID[id(v)] = v
	}
	for _, v := range update {
		byID[id(v)] = v
	}
	keys := slices.Sorted(maps.Keys(byID))
	merged := make([]T, 0, len(keys))
	for _, k := range keys {
		merged = append(merged, byID[k])
	}
	return merged
}
