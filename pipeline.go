package importer

import (
	"log"

	"github.com/google/uuid"
)

// Ingest turns raw statement rows into a batch of candidates.
//
// Symbols are normalized and resolved against 'dir'. Amounts that do not
// parse are zero, and missing amounts are derived from the others when the
// row carries enough of them. Rows without an id, or with an id already
// used by a previous row, get a fresh one.
func Ingest(rows []RawRow, dir AssetDirectory) *Batch {
	b := &Batch{index: make(map[string]*Candidate, len(rows))}
	for i, row := range rows {
		c := candidateFrom(row, dir)
		if c.ID == "" || b.Has(c.ID) {
			if c.ID != "" {
				log.Printf("row %d: duplicate id %q, assigning a new one", i+1, c.ID)
			}
			c.ID = uuid.NewString()
		}
		b.Add(c) // cannot fail, id is unique
	}
	return b
}

// candidateFrom reads a single raw row.
func candidateFrom(row RawRow, dir AssetDirectory) *Candidate {
	c := &Candidate{
		ID:          row.String(KeyID),
		Date:        row.Date(KeyDate),
		Type:        ParseTransactionType(row.String(KeyType)),
		Symbol:      NormalizeSymbol(row.String(KeySymbol)),
		Name:        row.String(KeyName),
		Quantity:    row.Decimal(KeyQuantity),
		Price:       row.Decimal(KeyPrice),
		Fees:        row.Decimal(KeyFees),
		TotalAmount: row.Decimal(KeyTotalAmount),
		Notes:       row.String(KeyNotes),
		Confidence:  row.Decimal(KeyConfidenceScore).InexactFloat64(),
		NeedsReview: row.Bool(KeyNeedsReview),
	}
	c.resolve(dir)
	completeAmounts(c)
	return c
}

// completeAmounts fills the one amount missing from a statement row, the
// figures printed on the statement are never overwritten.
func completeAmounts(c *Candidate) {
	total, price, qty := c.TotalAmount.IsPositive(), c.Price.IsPositive(), c.Quantity.IsPositive()
	switch {
	case total && qty && c.Price.IsZero():
		Derive(c, FieldTotalAmount)
	case total && price && c.Quantity.IsZero():
		Derive(c, FieldTotalAmount)
	case qty && price && c.TotalAmount.IsZero():
		Derive(c, FieldQuantity)
	}
}

// Reconcile resolves again the candidates of 'b' that have a symbol but no
// asset, typically after 'dir' changed. Resolved candidates are never
// touched, even if the directory now maps their symbol differently.
//
// It returns the number of candidates resolved by this pass.
func Reconcile(b *Batch, dir AssetDirectory) int {
	n := 0
	for c := range b.All() {
		if c.resolve(dir) {
			n++
		}
	}
	return n
}
