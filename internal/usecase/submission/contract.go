package submission

import (
	"context"

	domsub "github.com/kailas-cloud/overlap/internal/domain/submission"
)

// Repository defines the storage contract for submissions.
type Repository interface {
	NextSeq(ctx context.Context) (int64, error)
	// SaveAll stores submissions together; on error none is reported as stored.
	SaveAll(ctx context.Context, subs []*domsub.Submission) error
	Get(ctx context.Context, id string) (domsub.Submission, error)
	List(ctx context.Context) ([]domsub.Submission, error)
	Count(ctx context.Context) (int, error)
}

// Extractor turns uploaded bytes into plain text.
type Extractor func(filename string, content []byte) (string, error)
