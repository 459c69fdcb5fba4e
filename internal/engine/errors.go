package engine

import "errors"

var (
	// ErrInvalidDocument signals a structurally invalid document (missing or duplicate id).
	// It aborts the whole run.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrVectorization signals a numeric or encoding fault while building one pair's vectors.
	// The pair degrades to a 0.0 score and the run continues.
	ErrVectorization = errors.New("vectorization failed")
	// ErrUnsupportedAlgorithm signals an algorithm outside the supported set.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
)
