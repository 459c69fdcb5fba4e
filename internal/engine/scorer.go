package engine

import "math"

// Score returns the cosine similarity of two unit-length vectors, clamped to [0, 1].
//
// Both inputs come from Vectorize, so the dot product over shared terms is the
// cosine and no further division is needed. Either side being the zero vector
// scores 0. Merge-join, no allocations, O(n+m).
func Score(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var dot float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Word == b[j].Word:
			dot += a[i].Weight * b[j].Weight
			i++
			j++
		case a[i].Word < b[j].Word:
			i++
		default:
			j++
		}
	}
	return clamp01(dot)
}

// clamp01 absorbs rounding that pushes near-identical vectors slightly past 1.
func clamp01(x float64) float64 {
	switch {
	case math.IsNaN(x), x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}

// ScoreTexts vectorizes the group {a, b} and scores it.
func ScoreTexts(a, b string) (float64, error) {
	va, vb, err := Vectorize(a, b)
	if err != nil {
		return 0, err
	}
	return Score(va, vb), nil
}
