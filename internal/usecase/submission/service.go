package submission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/overlap/internal/domain"
	dombatch "github.com/kailas-cloud/overlap/internal/domain/batch"
	domsub "github.com/kailas-cloud/overlap/internal/domain/submission"
)

// Default upload limits.
const (
	DefaultMaxFiles     = 100
	DefaultMaxFileBytes = 10 << 20 // 10MB
)

// Upload is one file received from a student.
type Upload struct {
	StudentID string
	Filename  string
	Content   []byte
}

// Service handles submission uploads and reads.
type Service struct {
	repo         Repository
	extract      Extractor
	maxFiles     int
	maxFileBytes int
	newID        func() string
	now          func() time.Time
}

// New creates a submission service.
func New(repo Repository, extract Extractor) *Service {
	return &Service{
		repo:         repo,
		extract:      extract,
		maxFiles:     DefaultMaxFiles,
		maxFileBytes: DefaultMaxFileBytes,
		newID:        uuid.NewString,
		now:          time.Now,
	}
}

// WithMaxFiles configures the maximum number of files per upload.
func (s *Service) WithMaxFiles(n int) *Service {
	if n > 0 {
		s.maxFiles = n
	}
	return s
}

// WithMaxFileBytes configures the maximum size of a single file.
func (s *Service) WithMaxFileBytes(n int) *Service {
	if n > 0 {
		s.maxFileBytes = n
	}
	return s
}

// Upload extracts and stores each file independently.
// A file that fails extraction or validation is reported and skipped; the rest
// are stored together in one batch.
func (s *Service) Upload(ctx context.Context, items []Upload) []dombatch.Result {
	results := make([]dombatch.Result, len(items))

	if len(items) > s.maxFiles {
		for i, item := range items {
			results[i] = dombatch.NewError(
				item.Filename,
				fmt.Errorf("upload exceeds %d files: %w", s.maxFiles, domain.ErrTooManyDocuments),
			)
		}
		return results
	}

	accepted := make([]int, 0, len(items))
	subs := make([]*domsub.Submission, 0, len(items))
	for i, item := range items {
		sub, err := s.prepare(ctx, item)
		if err != nil {
			results[i] = dombatch.NewError(item.Filename, err)
			continue
		}
		accepted = append(accepted, i)
		subs = append(subs, sub)
	}

	if err := s.repo.SaveAll(ctx, subs); err != nil {
		for _, i := range accepted {
			results[i] = dombatch.NewError(items[i].Filename, fmt.Errorf("save: %w", err))
		}
		return results
	}
	for k, i := range accepted {
		results[i] = dombatch.NewOK(items[i].Filename, subs[k].ID())
	}
	return results
}

// prepare validates one upload and builds its submission with a reserved sequence number.
func (s *Service) prepare(ctx context.Context, item Upload) (*domsub.Submission, error) {
	if len(item.Content) > s.maxFileBytes {
		return nil, fmt.Errorf("file exceeds %d bytes: %w", s.maxFileBytes, domain.ErrTooLarge)
	}

	text, err := s.extract(item.Filename, item.Content)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	// Validate before reserving a sequence number.
	if _, err := domsub.New("pending", item.StudentID, item.Filename, text, 0, s.now()); err != nil {
		return nil, err
	}

	seq, err := s.repo.NextSeq(ctx)
	if err != nil {
		return nil, err
	}
	sub, err := domsub.New(s.newID(), item.StudentID, item.Filename, text, seq, s.now())
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Get returns a submission by id.
func (s *Service) Get(ctx context.Context, id string) (domsub.Submission, error) {
	sub, err := s.repo.Get(ctx, id)
	if err != nil {
		return domsub.Submission{}, fmt.Errorf("get submission: %w", err)
	}
	return sub, nil
}

// List returns all submissions in upload order.
func (s *Service) List(ctx context.Context) ([]domsub.Submission, error) {
	subs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

// Count returns the number of stored submissions.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return n, nil
}
