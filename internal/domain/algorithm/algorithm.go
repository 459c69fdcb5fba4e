package algorithm

import "fmt"

// Algorithm is the similarity strategy used to score a pair of documents.
type Algorithm string

// Supported algorithms.
const (
	// CosineTFIDF scores pairs by cosine similarity of pair-local TF-IDF vectors.
	CosineTFIDF Algorithm = "cosine_tfidf"
)

// Default is the algorithm used when none is configured.
const Default = CosineTFIDF

// IsValid checks if the algorithm is one of the supported values.
func (a Algorithm) IsValid() bool {
	return a == CosineTFIDF
}

// Parse converts a config or request string into an Algorithm.
// An empty string selects Default.
func Parse(s string) (Algorithm, error) {
	if s == "" {
		return Default, nil
	}
	a := Algorithm(s)
	if !a.IsValid() {
		return "", fmt.Errorf("unsupported algorithm %q", s)
	}
	return a, nil
}
