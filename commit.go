package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

// Local refusals and hard failures of a commit.
var (
	ErrNoPortfolio     = errors.New("no target portfolio selected")
	ErrEmptyBatch      = errors.New("nothing to commit, the batch is empty")
	ErrCommitInFlight  = errors.New("a commit is already in progress")
	ErrMalformedResult = errors.New("malformed commit result: missing summary")
)

// IncompleteError refuses a commit because some candidates are not ready.
type IncompleteError struct {
	IDs         []string // incomplete candidates
	MissingDate []string // candidates without a transaction date
}

func (e *IncompleteError) Error() string {
	var parts []string
	if n := len(e.IDs); n > 0 {
		parts = append(parts, fmt.Sprintf("%d %s incomplete", n, plural(n, "transaction is", "transactions are")))
	}
	if n := len(e.MissingDate); n > 0 {
		parts = append(parts, fmt.Sprintf("%d %s no date", n, plural(n, "transaction has", "transactions have")))
	}
	return "cannot commit: " + strings.Join(parts, ", ")
}

// Count returns the number of offending candidates.
func (e *IncompleteError) Count() int {
	seen := make(map[string]struct{})
	for _, id := range append(append([]string(nil), e.IDs...), e.MissingDate...) {
		seen[id] = struct{}{}
	}
	return len(seen)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// CommitError is a transport or server failure of the commit call.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string { return "commit failed: " + e.Err.Error() }
func (e *CommitError) Unwrap() error { return e.Err }

// Payload is a committed transaction as sent to the portfolio service.
type Payload struct {
	Date        string          `json:"transaction_date"`
	Type        TransactionType `json:"transaction_type"`
	AssetID     AssetID         `json:"asset_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Fees        decimal.Decimal `json:"fees"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Notes       string          `json:"notes"`
}

// BatchCommitResult summarizes a batch commit on the server side. Errors are
// free text, they are not keyed by candidate.
type BatchCommitResult struct {
	TotalCreated int      `json:"total_created"`
	TotalFailed  int      `json:"total_failed"`
	Errors       []string `json:"errors"`
}

// CreatedTransaction is a transaction created by a batch commit.
type CreatedTransaction struct {
	ID          int64           `json:"id"`
	Date        string          `json:"transaction_date"`
	AssetID     AssetID         `json:"asset_id"`
	Type        TransactionType `json:"transaction_type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Fees        decimal.Decimal `json:"fees"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PortfolioID int64           `json:"portfolio_id"`
}

// CommitResponse is the server response to a batch commit.
type CommitResponse struct {
	Created []CreatedTransaction `json:"created_transactions"`
	Summary *BatchCommitResult   `json:"summary"`
}

// Committer submits a batch of transactions to a portfolio.
//
//go:generate mockgen -destination=mocks/mock_committer.go -package=mocks . Committer
type Committer interface {
	CommitBatch(ctx context.Context, portfolioID int64, txs []Payload) (*CommitResponse, error)
}

// Status is the overall result of a commit.
type Status int

const (
	NothingImported Status = iota
	Committed
	PartiallyCommitted
	Failed
)

func (s Status) String() string {
	switch s {
	case Committed:
		return "committed"
	case PartiallyCommitted:
		return "partially committed"
	case Failed:
		return "failed"
	default:
		return "nothing imported"
	}
}

// Outcome is what the operator needs to know after a commit.
type Outcome struct {
	Status       Status
	Created      int
	Failed       int
	Errors       []string
	Transactions []CreatedTransaction
	DraftCleared bool // the draft has been dropped
}

// Closed reports whether the review session is over.
func (o Outcome) Closed() bool { return o.Status == Committed }

// Coordinator commits batches and decides what happens to the draft.
type Coordinator struct {
	committer Committer
	drafts    *DraftStore
	inFlight  atomic.Bool
}

// NewCoordinator returns a Coordinator committing through 'c'. 'drafts' may be
// nil when there is no draft to clear.
func NewCoordinator(c Committer, drafts *DraftStore) *Coordinator {
	return &Coordinator{committer: c, drafts: drafts}
}

// Check validates 'b' for a commit into 'portfolioID' without any network call.
func Check(portfolioID int64, b *Batch) error {
	if portfolioID == 0 {
		return ErrNoPortfolio
	}
	if b == nil || b.Len() == 0 {
		return ErrEmptyBatch
	}
	incomplete := new(IncompleteError)
	for c := range b.All() {
		if IsIncomplete(*c) {
			incomplete.IDs = append(incomplete.IDs, c.ID)
		}
		if c.Date.IsZero() {
			incomplete.MissingDate = append(incomplete.MissingDate, c.ID)
		}
	}
	if len(incomplete.IDs) > 0 || len(incomplete.MissingDate) > 0 {
		return incomplete
	}
	return nil
}

// Commit submits 'b' to the portfolio 'portfolioID'.
//
// The batch is checked locally first, nothing is sent if any candidate is
// incomplete. The draft is cleared only when every transaction has been
// created, any failure keeps the whole draft. Only one commit can be in
// flight at a time.
func (c *Coordinator) Commit(ctx context.Context, portfolioID int64, b *Batch, src Source) (Outcome, error) {
	if err := Check(portfolioID, b); err != nil {
		return Outcome{}, err
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		return Outcome{}, ErrCommitInFlight
	}
	defer c.inFlight.Store(false)

	resp, err := c.committer.CommitBatch(ctx, portfolioID, Payloads(b, src))
	if err != nil {
		return Outcome{Status: Failed}, &CommitError{err}
	}
	if resp == nil || resp.Summary == nil {
		return Outcome{Status: Failed}, &CommitError{ErrMalformedResult}
	}

	sum := resp.Summary
	out := Outcome{
		Created:      sum.TotalCreated,
		Failed:       sum.TotalFailed,
		Errors:       sum.Errors,
		Transactions: resp.Created,
	}
	switch {
	case sum.TotalCreated > 0 && sum.TotalFailed == 0:
		out.Status = Committed
	case sum.TotalCreated > 0:
		out.Status = PartiallyCommitted
	case sum.TotalFailed > 0:
		out.Status = Failed
	default:
		out.Status = NothingImported
	}

	if out.Status == Committed && c.drafts != nil {
		if err := c.drafts.Clear(); err != nil {
			log.Printf("warning: transactions committed but the draft could not be cleared: %v", err)
		} else {
			out.DraftCleared = true
		}
	}
	return out, nil
}

// Payloads returns the transactions to send for 'b'.
func Payloads(b *Batch, src Source) []Payload {
	fallback := "Imported from account statement"
	if src.Provider != "" {
		fallback = fmt.Sprintf("Imported from %s statement", src.Provider)
	}
	list := make([]Payload, 0, b.Len())
	for c := range b.All() {
		notes := strings.TrimSpace(c.Notes)
		if notes == "" {
			notes = fallback
		}
		list = append(list, Payload{
			Date:        c.Date.String(),
			Type:        c.Type,
			AssetID:     c.AssetID,
			Quantity:    c.Quantity,
			Price:       c.Price,
			Fees:        c.Fees,
			TotalAmount: c.TotalAmount,
			Notes:       notes,
		})
	}
	return list
}
