package forecast

import "sort"

// DefaultTopN is the size of the daily shortlist.
const DefaultTopN = 5

// Rank returns the n candidates with the lowest odds in ascending order.
// Equal odds keep their input order. The input slice is not modified.
func Rank(cands []Candidate, n int) []Candidate {
	if n <= 0 || len(cands) == 0 {
		return []Candidate{}
	}

	sorted := make([]Candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Odds < sorted[j].Odds
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
