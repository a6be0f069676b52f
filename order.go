package importer

import "slices"

// Compare orders candidates for review: incomplete candidates come first,
// then the most recent ones.
func Compare(a, b *Candidate) int {
	ia, ib := IsIncomplete(*a), IsIncomplete(*b)
	if ia != ib {
		if ia {
			return -1
		}
		return 1
	}
	return b.Date.Compare(a.Date)
}

// Sorted returns the candidates of 'b' in review order. Candidates that
// compare equal keep their batch order.
func Sorted(b *Batch) []*Candidate {
	list := slices.Collect(b.All())
	slices.SortStableFunc(list, Compare)
	return list
}
