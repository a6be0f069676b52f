package importer

import (
	"errors"
	"testing"

	"github.com/etnz/importer/date"
)

func TestParseTransactionType(t *testing.T) {
	tests := map[string]TransactionType{
		"buy":          Buy,
		" SELL ":       Sell,
		"spin-off":     SpinOff,
		"Transfer In":  TransferIn,
		"rights_issue": RightsIssue,
		"reinvest":     Other,
		"":             Other,
	}
	for in, want := range tests {
		if got := ParseTransactionType(in); got != want {
			t.Errorf("ParseTransactionType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseField(t *testing.T) {
	for in, want := range map[string]Field{"qty": FieldQuantity, "total": FieldTotalAmount, "Price": FieldPrice, "total_amount": FieldTotalAmount} {
		got, err := ParseField(in)
		if err != nil || got != want {
			t.Errorf("ParseField(%q) = %q, %v, want %q", in, got, err, want)
		}
	}
	if _, err := ParseField("isin"); err == nil {
		t.Errorf("ParseField(isin) should fail")
	}
}

func TestNewCandidate(t *testing.T) {
	c := NewCandidate()
	if c.ID == "" || c.Type != Buy || c.Date != date.Today() {
		t.Errorf("NewCandidate() = %+v", c)
	}
	if !c.Quantity.IsZero() || !c.Price.IsZero() || !c.Fees.IsZero() || !c.TotalAmount.IsZero() {
		t.Errorf("NewCandidate() amounts should be zero")
	}
	if !IsIncomplete(*c) {
		t.Errorf("a new buy has no quantity nor price, it is incomplete")
	}
}

func TestCandidate_Apply(t *testing.T) {
	dir := newTestDirectory(aapl)
	c := NewCandidate()

	steps := []struct {
		field Field
		value string
	}{
		{FieldSymbol, " aapl"},
		{FieldTotalAmount, "1000"},
		{FieldPrice, "100"},
		{FieldDate, "2025-02-03"},
	}
	for _, s := range steps {
		if err := c.Apply(dir, s.field, s.value); err != nil {
			t.Fatalf("Apply(%s, %q) error = %v", s.field, s.value, err)
		}
	}
	if c.AssetID != aapl.ID || !c.Quantity.Equal(D(10)) || c.Date != date.New(2025, 2, 3) {
		t.Errorf("after edits got %+v", c)
	}
	if IsIncomplete(*c) {
		t.Errorf("candidate should be complete: %q", Reasons(*c))
	}

	before := *c
	err := c.Apply(dir, FieldPrice, "ten")
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != FieldPrice {
		t.Errorf("Apply(price, ten) error = %v, want a FieldError", err)
	}
	if c.Price != before.Price || c.Quantity != before.Quantity {
		t.Errorf("a rejected edit changed the candidate")
	}

	if err := c.Apply(dir, FieldType, "swap"); err == nil {
		t.Errorf("Apply(type, swap) should fail")
	}
	if err := c.Apply(dir, FieldDate, "yesterday"); err == nil {
		t.Errorf("Apply(date, yesterday) should fail")
	}

	// clearing the price back-solves nothing and falls back to total = fees
	if err := c.Apply(dir, FieldPrice, ""); err != nil {
		t.Fatal(err)
	}
	if !c.Price.IsZero() {
		t.Errorf("empty value should clear the price, got %v", c.Price)
	}
}

func TestCandidate_SetSymbol(t *testing.T) {
	dir := newTestDirectory(aapl)

	c := &Candidate{Name: "typed by hand"}
	c.SetSymbol(dir, "aapl")
	if c.AssetID != aapl.ID || c.Name != aapl.Name {
		t.Errorf("hit: got %d/%q", c.AssetID, c.Name)
	}

	c.SetSymbol(dir, "XYZ")
	if c.AssetID != 0 || c.Name != "" || c.Symbol != "XYZ" {
		t.Errorf("miss: got %q/%d/%q, want XYZ/0/\"\"", c.Symbol, c.AssetID, c.Name)
	}

	c.Name = "kept"
	c.SetSymbol(dir, "  ")
	if c.AssetID != 0 || c.Name != "kept" || c.Symbol != "" {
		t.Errorf("empty: got %q/%d/%q, want \"\"/0/kept", c.Symbol, c.AssetID, c.Name)
	}
}

func TestCandidate_SelectAsset(t *testing.T) {
	c := &Candidate{Symbol: "APPLE"}
	c.SelectAsset(aapl)
	if c.Symbol != "AAPL" || c.AssetID != aapl.ID || c.Name != aapl.Name {
		t.Errorf("SelectAsset() = %+v", c)
	}
}
