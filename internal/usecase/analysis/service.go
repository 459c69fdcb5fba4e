package analysis

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/overlap/internal/domain"
	domcmp "github.com/kailas-cloud/overlap/internal/domain/comparison"
	"github.com/kailas-cloud/overlap/internal/engine"
	"github.com/kailas-cloud/overlap/internal/metrics"
)

// DefaultMaxDocuments bounds a single run; pairs grow quadratically.
const DefaultMaxDocuments = 2000

// Run outcome labels for metrics.
const (
	runOK        = "ok"
	runInvalid   = "invalid"
	runCancelled = "cancelled"
	runError     = "error"
)

// Stats summarizes stored state.
type Stats struct {
	Submissions int
	Results     int
	// LastRun is nil until a run completes.
	LastRun *domcmp.Run
}

// Service runs pairwise analysis over stored submissions.
type Service struct {
	subs         SubmissionStore
	results      ResultRepository
	comparer     Comparer
	maxDocuments int
	logger       *zap.Logger
	now          func() time.Time
}

// New creates an analysis service.
func New(subs SubmissionStore, results ResultRepository, comparer Comparer, logger *zap.Logger) *Service {
	return &Service{
		subs:         subs,
		results:      results,
		comparer:     comparer,
		maxDocuments: DefaultMaxDocuments,
		logger:       logger,
		now:          time.Now,
	}
}

// WithMaxDocuments configures the per-run document limit.
func (s *Service) WithMaxDocuments(n int) *Service {
	if n > 0 {
		s.maxDocuments = n
	}
	return s
}

// Run compares every pair of stored submissions and replaces stored results.
// Stored results are left untouched when the run fails.
func (s *Service) Run(ctx context.Context) (domcmp.Run, error) {
	subs, err := s.subs.List(ctx)
	if err != nil {
		metrics.AnalysisRunsTotal.WithLabelValues(runError).Inc()
		return domcmp.Run{}, fmt.Errorf("list submissions: %w", err)
	}
	if len(subs) > s.maxDocuments {
		metrics.AnalysisRunsTotal.WithLabelValues(runInvalid).Inc()
		return domcmp.Run{}, fmt.Errorf("%d submissions exceed limit %d: %w",
			len(subs), s.maxDocuments, domain.ErrTooManyDocuments)
	}

	docs := make([]engine.Document, len(subs))
	for i := range subs {
		docs[i] = engine.Document{ID: subs[i].ID(), Text: subs[i].Text()}
	}

	start := time.Now()
	out, err := s.comparer.CompareAll(ctx, docs)
	duration := time.Since(start)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrInvalidDocument):
			metrics.AnalysisRunsTotal.WithLabelValues(runInvalid).Inc()
			return domcmp.Run{}, fmt.Errorf("%w: %w", domain.ErrInvalidDocument, err)
		case ctx.Err() != nil:
			metrics.AnalysisRunsTotal.WithLabelValues(runCancelled).Inc()
		default:
			metrics.AnalysisRunsTotal.WithLabelValues(runError).Inc()
		}
		return domcmp.Run{}, fmt.Errorf("compare: %w", err)
	}

	results := make([]domcmp.Result, len(out.Pairs))
	for k, p := range out.Pairs {
		a, b := &subs[p.I], &subs[p.J]
		results[k] = domcmp.NewResult(a.ID(), b.ID(), a.StudentID(), b.StudentID(), p.Score, p.Degraded())
	}

	run := domcmp.Run{
		Algorithm:   out.Algorithm,
		Documents:   out.Documents,
		Comparisons: len(results),
		Degraded:    out.Degraded,
		Duration:    duration,
		CompletedAt: s.now().UTC(),
	}
	if err := s.results.Replace(ctx, run, results); err != nil {
		metrics.AnalysisRunsTotal.WithLabelValues(runError).Inc()
		return domcmp.Run{}, fmt.Errorf("store results: %w", err)
	}

	metrics.AnalysisRunsTotal.WithLabelValues(runOK).Inc()
	metrics.AnalysisRunDuration.Observe(duration.Seconds())
	metrics.AnalysisComparisonsTotal.WithLabelValues(string(domcmp.StatusOK)).Add(float64(run.Comparisons - run.Degraded))
	metrics.AnalysisComparisonsTotal.WithLabelValues(string(domcmp.StatusDegraded)).Add(float64(run.Degraded))
	metrics.AnalysisDocuments.Set(float64(run.Documents))

	s.logger.Info("Analysis complete",
		zap.String("algorithm", string(run.Algorithm)),
		zap.Int("documents", run.Documents),
		zap.Int("comparisons", run.Comparisons),
		zap.Int("degraded", run.Degraded),
		zap.Duration("duration", run.Duration),
	)
	return run, nil
}

// Results returns stored results with score >= minScore, highest first.
// limit <= 0 means no limit.
func (s *Service) Results(ctx context.Context, minScore float64, limit int) ([]domcmp.Result, error) {
	if math.IsNaN(minScore) || minScore < 0 || minScore > 1 {
		return nil, fmt.Errorf("min_score must be within [0, 1]: %w", domain.ErrInvalidQuery)
	}
	all, err := s.results.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	filtered := slices.DeleteFunc(all, func(r domcmp.Result) bool { return r.Score() < minScore })
	slices.SortStableFunc(filtered, func(a, b domcmp.Result) int {
		return cmp.Compare(b.Score(), a.Score())
	})
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// Stats reports stored counts and the latest run summary.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	subs, err := s.subs.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count submissions: %w", err)
	}
	results, err := s.results.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count results: %w", err)
	}
	st := Stats{Submissions: subs, Results: results}

	run, err := s.results.LastRun(ctx)
	switch {
	case err == nil:
		st.LastRun = &run
	case errors.Is(err, domain.ErrNotFound):
	default:
		return Stats{}, fmt.Errorf("last run: %w", err)
	}
	return st, nil
}

// Clear removes all results and submissions.
// Results are removed first so none outlive their submissions.
func (s *Service) Clear(ctx context.Context) (submissions, results int, err error) {
	results, err = s.results.DeleteAll(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("delete results: %w", err)
	}
	submissions, err = s.subs.DeleteAll(ctx)
	if err != nil {
		return 0, results, fmt.Errorf("delete submissions: %w", err)
	}
	s.logger.Info("Data cleared",
		zap.Int("submissions", submissions),
		zap.Int("results", results),
	)
	return submissions, results, nil
}

// selfTestText is scored against itself; any healthy engine returns 1.
const selfTestText = "the quick brown fox jumps over the lazy dog"

// SelfTest scores a fixed identical pair through the configured comparer.
func (s *Service) SelfTest(ctx context.Context) error {
	out, err := s.comparer.CompareAll(ctx, []engine.Document{
		{ID: "self-test-a", Text: selfTestText},
		{ID: "self-test-b", Text: selfTestText},
	})
	if err != nil {
		return fmt.Errorf("self test: %w", err)
	}
	if len(out.Pairs) != 1 || out.Degraded != 0 || math.Abs(out.Pairs[0].Score-1) > 1e-9 {
		return errors.New("self test: identical texts did not score 1")
	}
	return nil
}
