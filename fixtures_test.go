package importer

import (
	"sync"

	"github.com/etnz/importer/date"
)

// Assets used across tests.
var (
	aapl = Asset{ID: 1, Symbol: "AAPL", Name: "Apple Inc.", Currency: "USD"}
	msft = Asset{ID: 2, Symbol: "MSFT", Name: "Microsoft Corp.", Currency: "USD"}
	air  = Asset{ID: 3, Symbol: "AIR", Name: "Airbus SE", Currency: "EUR"}
)

// newTestDirectory returns a directory holding 'assets'.
func newTestDirectory(assets ...Asset) *Directory {
	d := NewDirectory()
	d.Replace(assets)
	return d
}

// memKV is a KV for tests.
type memKV struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemKV() *memKV { return &memKV{m: make(map[string][]byte)} }

func (kv *memKV) Get(key string) ([]byte, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.m[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return v, nil
}

func (kv *memKV) Set(key string, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.m[key] = value
	return nil
}

func (kv *memKV) Delete(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.m, key)
	return nil
}

// buy returns a complete buy candidate of 'asset'.
func buy(id string, on date.Date, asset Asset, qty, price float64) *Candidate {
	c := &Candidate{
		ID:       id,
		Date:     on,
		Type:     Buy,
		Symbol:   asset.Symbol,
		AssetID:  asset.ID,
		Name:     asset.Name,
		Quantity: D(qty),
		Price:    D(price),
	}
	c.TotalAmount = c.Quantity.Mul(c.Price)
	return c
}
