package analysis

import (
	"context"

	"github.com/kailas-cloud/overlap/internal/domain/algorithm"
	domcmp "github.com/kailas-cloud/overlap/internal/domain/comparison"
	domsub "github.com/kailas-cloud/overlap/internal/domain/submission"
	"github.com/kailas-cloud/overlap/internal/engine"
)

// SubmissionStore reads and clears stored submissions.
type SubmissionStore interface {
	List(ctx context.Context) ([]domsub.Submission, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) (int, error)
}

// ResultRepository stores the latest run.
type ResultRepository interface {
	Replace(ctx context.Context, run domcmp.Run, results []domcmp.Result) error
	List(ctx context.Context) ([]domcmp.Result, error)
	LastRun(ctx context.Context) (domcmp.Run, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) (int, error)
}

// Comparer scores all pairs of a document set.
type Comparer interface {
	CompareAll(ctx context.Context, docs []engine.Document) (engine.Run, error)
	Algorithm() algorithm.Algorithm
}
