package importer

import (
	"fmt"
	"strings"

	"github.com/etnz/importer/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is a typed string for identifying the kind of transaction.
type TransactionType string

// Transaction types accepted by the portfolio ledger.
const (
	Buy                 TransactionType = "buy"
	Sell                TransactionType = "sell"
	Dividend            TransactionType = "dividend"
	Split               TransactionType = "split"
	Merger              TransactionType = "merger"
	SpinOff             TransactionType = "spin_off"
	RightsIssue         TransactionType = "rights_issue"
	StockOptionExercise TransactionType = "stock_option_exercise"
	TransferIn          TransactionType = "transfer_in"
	TransferOut         TransactionType = "transfer_out"
	Fee                 TransactionType = "fee"
	Other               TransactionType = "other"
)

// TransactionTypes lists all transaction types in their canonical order.
var TransactionTypes = []TransactionType{
	Buy, Sell, Dividend, Split, Merger, SpinOff, RightsIssue,
	StockOptionExercise, TransferIn, TransferOut, Fee, Other,
}

// ParseTransactionType reads a transaction type leniently: case and
// surrounding spaces are ignored, '-' and ' ' are read as '_'.
// Unknown types are read as Other.
func ParseTransactionType(s string) TransactionType {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	for _, t := range TransactionTypes {
		if string(t) == s {
			return t
		}
	}
	return Other
}

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	for _, v := range TransactionTypes {
		if v == t {
			return true
		}
	}
	return false
}

// requiresPricing reports whether quantity and price are mandatory for this type.
func (t TransactionType) requiresPricing() bool { return t == Buy || t == Sell }

// AssetID is the portfolio service identifier of an asset. Zero means unresolved.
type AssetID int64

// Asset is the canonical identity of an asset in the catalog.
type Asset struct {
	ID       AssetID `json:"id"`
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Currency string  `json:"currency,omitempty"`
	Exchange string  `json:"exchange,omitempty"`
	ISIN     string  `json:"isin,omitempty"`
	Type     string  `json:"asset_type,omitempty"`
}

// Candidate is a transaction row of an import batch, possibly incomplete.
type Candidate struct {
	ID          string          `json:"id"`
	Date        date.Date       `json:"transaction_date"`
	Type        TransactionType `json:"transaction_type"`
	Symbol      string          `json:"symbol,omitempty"`
	AssetID     AssetID         `json:"asset_id,omitempty"`
	Name        string          `json:"name,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Fees        decimal.Decimal `json:"fees"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Notes       string          `json:"notes,omitempty"`

	// Set by the statement parser, zero when not reported.
	Confidence  float64 `json:"confidence_score,omitempty"`
	NeedsReview bool    `json:"needs_review,omitempty"`
}

// NewCandidate creates a manually inserted candidate: dated today, a buy,
// with all amounts at zero and a fresh id.
func NewCandidate() *Candidate {
	return &Candidate{
		ID:   uuid.NewString(),
		Date: date.Today(),
		Type: Buy,
	}
}

// Resolved reports whether the candidate is linked to a catalog asset.
func (c *Candidate) Resolved() bool { return c.AssetID != 0 }

// Field identifies an editable field of a Candidate.
type Field string

// Editable fields.
const (
	FieldDate        Field = "date"
	FieldType        Field = "type"
	FieldSymbol      Field = "symbol"
	FieldName        Field = "name"
	FieldQuantity    Field = "quantity"
	FieldPrice       Field = "price"
	FieldFees        Field = "fees"
	FieldTotalAmount Field = "total_amount"
	FieldNotes       Field = "notes"
)

// Fields lists all editable fields.
var Fields = []Field{FieldDate, FieldType, FieldSymbol, FieldName, FieldQuantity, FieldPrice, FieldFees, FieldTotalAmount, FieldNotes}

// ParseField returns the field named s. Common aliases are accepted.
func ParseField(s string) (Field, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "total", "amount", "total-amount":
		return FieldTotalAmount, nil
	case "qty":
		return FieldQuantity, nil
	case "transaction_date":
		return FieldDate, nil
	case "transaction_type":
		return FieldType, nil
	}
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// numeric reports whether the field holds an amount.
func (f Field) numeric() bool {
	switch f {
	case FieldQuantity, FieldPrice, FieldFees, FieldTotalAmount:
		return true
	}
	return false
}

// FieldError reports an operator value that cannot be stored in a field.
type FieldError struct {
	Field Field
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Apply is the edit transition: it stores 'value' in 'field' and then runs
// the consequences of that edit. Amount edits run the derivation cascade,
// symbol edits resolve the symbol against 'dir'.
//
// On error the candidate is left unchanged.
func (c *Candidate) Apply(dir AssetDirectory, field Field, value string) error {
	if field.numeric() {
		// an empty value clears the amount.
		var v decimal.Decimal
		if strings.TrimSpace(value) != "" {
			var err error
			if v, err = ParseDecimal(value); err != nil {
				return &FieldError{field, value, err}
			}
		}
		switch field {
		case FieldQuantity:
			c.Quantity = v
		case FieldPrice:
			c.Price = v
		case FieldFees:
			c.Fees = v
		case FieldTotalAmount:
			c.TotalAmount = v
		}
		Derive(c, field)
		return nil
	}

	switch field {
	case FieldDate:
		d, err := date.Parse(value)
		if err != nil {
			return &FieldError{field, value, err}
		}
		c.Date = d
	case FieldType:
		t := TransactionType(strings.ToLower(strings.TrimSpace(value)))
		if !t.Valid() {
			return &FieldError{field, value, fmt.Errorf("want one of %v", TransactionTypes)}
		}
		c.Type = t
	case FieldSymbol:
		c.SetSymbol(dir, value)
	case FieldName:
		c.Name = value
	case FieldNotes:
		c.Notes = value
	default:
		return &FieldError{field, value, fmt.Errorf("not an editable field")}
	}
	return nil
}

// SetSymbol replaces the candidate symbol and resolves it immediately.
//
// A hit sets the asset id and name, a miss clears them. Clearing the symbol
// entirely keeps the name, which is then operator free text.
func (c *Candidate) SetSymbol(dir AssetDirectory, symbol string) {
	c.Symbol = NormalizeSymbol(symbol)
	c.AssetID = 0
	if c.Symbol == "" {
		return
	}
	if a, ok := dir.Resolve(c.Symbol); ok {
		c.AssetID, c.Name = a.ID, a.Name
		return
	}
	c.Name = ""
}

// SelectAsset links the candidate to 'a' explicitly, as an operator choice.
func (c *Candidate) SelectAsset(a Asset) {
	c.Symbol = NormalizeSymbol(a.Symbol)
	c.AssetID = a.ID
	c.Name = a.Name
}

// resolve attempts to link an unresolved candidate, it returns true on success.
func (c *Candidate) resolve(dir AssetDirectory) bool {
	if c.Resolved() || c.Symbol == "" {
		return false
	}
	a, ok := dir.Resolve(c.Symbol)
	if !ok {
		return false
	}
	c.AssetID, c.Name = a.ID, a.Name
	return true
}
