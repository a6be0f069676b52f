package importer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/etnz/importer/date"
	"github.com/shopspring/decimal"
)

// Keys of a RawRow as produced by the statement parsing service.
const (
	KeyID              = "id"
	KeyDate            = "transaction_date"
	KeyType            = "transaction_type"
	KeySymbol          = "symbol"
	KeyName            = "name"
	KeyQuantity        = "quantity"
	KeyPrice           = "price"
	KeyFees            = "fees"
	KeyTotalAmount     = "total_amount"
	KeyNotes           = "notes"
	KeyConfidenceScore = "confidence_score"
	KeyNeedsReview     = "needs_review"
)

// RawRow is a loosely typed transaction record from a statement. All keys
// are optional, values are json-like: string, float64, json.Number, bool or nil.
type RawRow map[string]any

// String returns the text value of 'key', numbers are formatted.
func (r RawRow) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case decimal.Decimal:
		return v.String()
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Decimal returns the numeric value of 'key'. Missing or invalid values are zero.
func (r RawRow) Decimal(key string) decimal.Decimal {
	switch v := r[key].(type) {
	case nil:
		return decimal.Zero
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case decimal.Decimal:
		return v
	}
	d, err := ParseDecimal(r.String(key))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Bool returns the boolean value of 'key'. Missing or invalid values are false.
func (r RawRow) Bool(key string) bool {
	if v, ok := r[key].(bool); ok {
		return v
	}
	b, err := strconv.ParseBool(r.String(key))
	if err != nil {
		return strings.EqualFold(r.String(key), "yes")
	}
	return b
}

// Date returns the date value of 'key'. Missing or invalid values are the zero date.
func (r RawRow) Date(key string) date.Date {
	d, err := date.Parse(r.String(key))
	if err != nil {
		return date.Date{}
	}
	return d
}
