package renderer

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Rhymond/go-money"
	"github.com/etnz/importer"
	"github.com/shopspring/decimal"
)

// Row is a candidate as displayed in the review table.
type Row struct {
	importer.Candidate
	Currency string   // currency of the asset, if resolved
	Reasons  []string // why the row cannot be committed
	Warnings []string // what to double check
}

// Incomplete reports whether the row blocks the commit.
func (r Row) Incomplete() bool { return len(r.Reasons) > 0 }

// Flagged reports whether the row should be double checked.
func (r Row) Flagged() bool { return len(r.Warnings) > 0 }

// Review is the content of the review screen.
type Review struct {
	Source     importer.Source
	Rows       []Row
	Incomplete int
	Flagged    int
}

// NewReview builds the review of 'candidates', which are expected in review
// order. Currencies are looked up in 'dir'.
func NewReview(candidates []importer.Candidate, dir importer.AssetDirectory, src importer.Source) *Review {
	r := &Review{Source: src}
	for _, c := range candidates {
		row := Row{Candidate: c, Reasons: importer.Reasons(c), Warnings: importer.Warnings(c)}
		if c.Resolved() {
			if a, ok := dir.Resolve(c.Symbol); ok && a.ID == c.AssetID {
				row.Currency = a.Currency
			}
		}
		if row.Incomplete() {
			r.Incomplete++
		}
		if row.Flagged() {
			r.Flagged++
		}
		r.Rows = append(r.Rows, row)
	}
	return r
}

func (r *Review) issues() *Review {
	n := &Review{Source: r.Source, Incomplete: r.Incomplete, Flagged: r.Flagged}
	for _, row := range r.Rows {
		if row.Incomplete() || row.Flagged() {
			n.Rows = append(n.Rows, row)
		}
	}
	return n
}

// Outcome is the result of a commit.
type Outcome struct {
	importer.Outcome
	PortfolioID int64
}

// ShortID is the length of the id prefix shown in tables.
const ShortID = 8

var funcs = template.FuncMap{
	"short": func(id string) string {
		if len(id) > ShortID {
			return id[:ShortID]
		}
		return id
	},
	"money":    Money,
	"quantity": Quantity,
	"cell":     cell,
	"join":     strings.Join,
	"percent":  func(f float64) string { return fmt.Sprintf("%.0f%%", f*100) },
}

// Money formats an amount in 'currency'. Without a currency the amount is
// printed with two decimals.
func Money(amount decimal.Decimal, currency string) string {
	if amount.IsZero() {
		return ""
	}
	if currency == "" || money.GetCurrency(currency) == nil {
		return amount.StringFixed(2)
	}
	// to get a never nil currency I need to call the Money constructor
	cur := *money.New(0, currency).Currency()
	dec := amount.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// Quantity formats a number of units, zero is blank.
func Quantity(q decimal.Decimal) string {
	if q.IsZero() {
		return ""
	}
	return q.String()
}

// cell escapes a free text for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
