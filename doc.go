// Package importer turns the transactions of an account statement into
// transactions ready to be committed to a portfolio.
//
// A statement is read as raw rows, loosely typed and often incomplete. Ingest
// makes a Batch of Candidate transactions from them: symbols are resolved
// against an AssetDirectory and missing amounts are derived (see Derive).
// The operator then reviews the batch: candidates that cannot be committed
// yet are reported by IsIncomplete and listed first by Sorted, and each edit
// goes through Candidate.Apply which runs the derivation again.
//
// The batch is saved in a DraftStore after every change, so that a review can
// be continued later. When the catalog of assets changes, Reconcile resolves
// the pending symbols without touching the candidates already linked.
//
// Finally a Coordinator commits the whole batch in a single request. The
// draft is cleared only if every transaction was created.
//
// Session ties all of this together for a long lived review.
package importer
