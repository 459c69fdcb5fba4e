package overlap

import "github.com/kailas-cloud/overlap/internal/engine"

// Sentinel errors re-exported from the engine.
// Use errors.Is() to check.
var (
	ErrInvalidDocument      = engine.ErrInvalidDocument
	ErrVectorization        = engine.ErrVectorization
	ErrUnsupportedAlgorithm = engine.ErrUnsupportedAlgorithm
)
