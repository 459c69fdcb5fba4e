package engine

import (
	"fmt"
	"math"
	"sort"
	"unicode/utf8"
)

// groupSize is the number of documents in a comparison group (N in the IDF formula).
const groupSize = 2

// Term is a single term-weight pair in a sparse vector.
type Term struct {
	Word   string
	Weight float64
}

// Vector is a sparse term-weight vector, sorted by Word for merge-join operations.
// A nil Vector is the zero vector.
type Vector []Term

// IsZero reports whether v has no non-zero entries.
func (v Vector) IsZero() bool {
	for _, t := range v {
		if t.Weight != 0 {
			return false
		}
	}
	return true
}

// Weight returns the weight of word, or 0 if absent.
func (v Vector) Weight(word string) float64 {
	i := sort.Search(len(v), func(i int) bool { return v[i].Word >= word })
	if i < len(v) && v[i].Word == word {
		return v[i].Weight
	}
	return 0
}

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, t := range v {
		sum += t.Weight * t.Weight
	}
	return math.Sqrt(sum)
}

// Vectorize builds unit-length TF-IDF vectors for the comparison group {a, b}.
//
// Vocabulary and document frequencies come from these two texts only and are
// discarded on return, so the same text gets different vectors in different
// pairs. IDF is smoothed: ln((1+N)/(1+df)) + 1 with N = 2.
//
// A text without terms yields the zero vector, not an error. Invalid UTF-8 or
// a non-finite weight returns ErrVectorization.
func Vectorize(a, b string) (Vector, Vector, error) {
	if !utf8.ValidString(a) || !utf8.ValidString(b) {
		return nil, nil, fmt.Errorf("%w: text is not valid UTF-8", ErrVectorization)
	}

	tfA, tfB := termCounts(a), termCounts(b)

	df := make(map[string]int, len(tfA)+len(tfB))
	for t := range tfA {
		df[t]++
	}
	for t := range tfB {
		df[t]++
	}

	idf := make(map[string]float64, len(df))
	for t, n := range df {
		idf[t] = smoothIDF(n, groupSize)
	}

	va, err := weigh(tfA, idf)
	if err != nil {
		return nil, nil, err
	}
	vb, err := weigh(tfB, idf)
	if err != nil {
		return nil, nil, err
	}
	return va, vb, nil
}

// smoothIDF computes ln((1+n)/(1+df)) + 1. Terms present in every document keep weight 1.
func smoothIDF(df, n int) float64 {
	return math.Log(float64(1+n)/float64(1+df)) + 1
}

// weigh multiplies raw counts by idf and L2-normalizes the result into a sorted Vector.
func weigh(tf map[string]int, idf map[string]float64) (Vector, error) {
	if len(tf) == 0 {
		return nil, nil
	}

	v := make(Vector, 0, len(tf))
	for word, count := range tf {
		v = append(v, Term{Word: word, Weight: float64(count) * idf[word]})
	}
	// Sum in term order so the same text always yields the same bits.
	sort.Slice(v, func(i, j int) bool {
		return v[i].Word < v[j].Word
	})
	var sum float64
	for _, t := range v {
		sum += t.Weight * t.Weight
	}

	norm := math.Sqrt(sum)
	if math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil, fmt.Errorf("%w: non-finite vector norm", ErrVectorization)
	}
	if norm == 0 {
		return nil, nil
	}
	for i := range v {
		v[i].Weight /= norm
	}
	return v, nil
}
