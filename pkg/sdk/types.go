package overlap

import (
	"cmp"
	"slices"
)

// Document is one text to compare. ID must be non-empty and unique within a call.
type Document struct {
	ID   string
	Text string
}

// Pair is the similarity of two documents. A precedes B in the input.
type Pair struct {
	A     string
	B     string
	Score float64
	// Degraded is set when the pair could not be scored; Score is then 0.
	Degraded bool
	// Err is the scoring failure of a degraded pair.
	Err error
}

// Result is the outcome of comparing a document set.
type Result struct {
	Algorithm string
	Documents int
	// Pairs holds every unordered pair in ascending (i, j) input order.
	Pairs    []Pair
	Degraded int
}

// Above returns pairs with Score >= threshold, highest first.
// Degraded pairs are never included.
func (r Result) Above(threshold float64) []Pair {
	out := make([]Pair, 0, len(r.Pairs))
	for _, p := range r.Pairs {
		if !p.Degraded && p.Score >= threshold {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b Pair) int { return cmp.Compare(b.Score, a.Score) })
	return out
}
