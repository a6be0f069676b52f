package importer

import "fmt"

// IsIncomplete reports whether 'c' cannot be committed as is.
//
// A candidate is incomplete when its symbol is not resolved to an asset, or
// when it is a buy or a sell without a quantity or a price.
func IsIncomplete(c Candidate) bool {
	return len(Reasons(c)) > 0
}

// Reasons returns a human readable reason for each completeness rule 'c' fails.
func Reasons(c Candidate) []string {
	var reasons []string
	if c.Symbol != "" && !c.Resolved() {
		reasons = append(reasons, "unknown symbol "+c.Symbol)
	}
	if c.Type.requiresPricing() {
		if c.Quantity.IsZero() {
			reasons = append(reasons, "missing quantity")
		}
		if c.Price.IsZero() {
			reasons = append(reasons, "missing price")
		}
	}
	return reasons
}

// LowConfidence is the parser confidence under which a candidate is flagged.
const LowConfidence = 0.7

// Warnings returns what the operator should double check on 'c'. Unlike
// Reasons, warnings never block a commit.
func Warnings(c Candidate) []string {
	var warnings []string
	if c.NeedsReview {
		warnings = append(warnings, "flagged by the statement parser")
	}
	if c.Confidence > 0 && c.Confidence < LowConfidence {
		warnings = append(warnings, fmt.Sprintf("low parsing confidence %.0f%%", c.Confidence*100))
	}
	return warnings
}
