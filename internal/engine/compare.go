package engine

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/overlap/internal/domain/algorithm"
)

// Document is an opaque identifier plus a UTF-8 text body.
// The engine borrows it for one run and keeps nothing afterwards.
type Document struct {
	ID   string
	Text string
}

// Pair identifies two documents by their position in the input, I < J.
type Pair struct {
	I, J int
}

// ScoredPair is the outcome of comparing one unordered pair.
// A precedes B in the caller's ordering.
type ScoredPair struct {
	A, B  string
	I, J  int
	Score float64
	// Err is set when scoring failed and Score was forced to 0.
	Err error
}

// Degraded reports whether the score is a fallback rather than a computed value.
func (p ScoredPair) Degraded() bool { return p.Err != nil }

// Run is the full set of scored pairs for one document collection.
type Run struct {
	Algorithm algorithm.Algorithm
	Documents int
	// Pairs are in ascending (I, J) order.
	Pairs []ScoredPair
	// Degraded counts pairs that fell back to 0 because of an error.
	Degraded int
}

type scoreFunc func(a, b string) (float64, error)

// Comparer scores every unordered pair of a document collection on a bounded worker pool.
// It holds configuration only; each CompareAll call is independent.
type Comparer struct {
	algo    algorithm.Algorithm
	score   scoreFunc
	workers int
	logger  *zap.Logger
}

// NewComparer creates a Comparer for the given algorithm.
func NewComparer(algo algorithm.Algorithm) (*Comparer, error) {
	c := &Comparer{
		algo:    algo,
		workers: runtime.GOMAXPROCS(0),
		logger:  zap.NewNop(),
	}
	switch algo {
	case algorithm.CosineTFIDF:
		c.score = ScoreTexts
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algo)
	}
	return c, nil
}

// WithWorkers sets the worker pool size. Non-positive values are ignored.
func (c *Comparer) WithWorkers(n int) *Comparer {
	if n > 0 {
		c.workers = n
	}
	return c
}

// WithLogger sets the logger used to report degraded pairs.
func (c *Comparer) WithLogger(l *zap.Logger) *Comparer {
	if l != nil {
		c.logger = l
	}
	return c
}

// Algorithm returns the configured algorithm.
func (c *Comparer) Algorithm() algorithm.Algorithm { return c.algo }

// Workers returns the configured worker pool size.
func (c *Comparer) Workers() int { return c.workers }

// Pairs enumerates all (i, j) with 0 <= i < j < n in ascending order.
func Pairs(n int) []Pair {
	if n < 2 {
		return nil
	}
	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{I: i, J: j})
		}
	}
	return pairs
}

// CompareAll scores every unordered pair of docs.
//
// Structurally invalid input (empty or duplicate id) returns ErrInvalidDocument
// before any pair is scored. A pair whose scoring fails is recorded with score 0
// and a non-nil Err; the run continues. If ctx is cancelled the run is abandoned
// and ctx.Err() is returned without partial results.
func (c *Comparer) CompareAll(ctx context.Context, docs []Document) (Run, error) {
	if err := validateDocuments(docs); err != nil {
		return Run{}, err
	}

	pairs := Pairs(len(docs))
	results := make([]ScoredPair, len(pairs))

	workers := min(c.workers, len(pairs))
	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range jobs {
				results[k] = c.scorePair(docs, pairs[k])
			}
		}()
	}

produce:
	for k := range pairs {
		select {
		case <-ctx.Done():
			break produce
		case jobs <- k:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Run{}, fmt.Errorf("compare abandoned: %w", err)
	}

	run := Run{
		Algorithm: c.algo,
		Documents: len(docs),
		Pairs:     results,
	}
	for _, p := range results {
		if p.Degraded() {
			run.Degraded++
			c.logger.Warn("pair scoring degraded",
				zap.String("doc_a", p.A),
				zap.String("doc_b", p.B),
				zap.Error(p.Err),
			)
		}
	}
	return run, nil
}

// scorePair runs the configured algorithm for one pair. Errors and panics
// become a zero score with Err set.
func (c *Comparer) scorePair(docs []Document, p Pair) (sp ScoredPair) {
	a, b := docs[p.I], docs[p.J]
	sp = ScoredPair{A: a.ID, B: b.ID, I: p.I, J: p.J}

	defer func() {
		if r := recover(); r != nil {
			sp.Score = 0
			sp.Err = fmt.Errorf("%w: panic: %v", ErrVectorization, r)
		}
	}()

	score, err := c.score(a.Text, b.Text)
	if err != nil {
		sp.Err = err
		return sp
	}
	sp.Score = score
	return sp
}

func validateDocuments(docs []Document) error {
	seen := make(map[string]int, len(docs))
	for i, d := range docs {
		if strings.TrimSpace(d.ID) == "" {
			return fmt.Errorf("%w: document %d has no id", ErrInvalidDocument, i)
		}
		if prev, ok := seen[d.ID]; ok {
			return fmt.Errorf("%w: documents %d and %d share id %q", ErrInvalidDocument, prev, i, d.ID)
		}
		seen[d.ID] = i
	}
	return nil
}
