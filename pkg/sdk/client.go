package overlap

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/overlap/internal/domain/algorithm"
	"github.com/kailas-cloud/overlap/internal/engine"
)

// comparer is the engine surface the client needs; replaced in tests.
type comparer interface {
	CompareAll(ctx context.Context, docs []engine.Document) (engine.Run, error)
	Algorithm() algorithm.Algorithm
}

// Client is the overlap SDK entry point. It is safe for concurrent use.
type Client struct {
	comparer comparer
	obs      *observer
}

// New creates a Client.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	algo, err := algorithm.Parse(cfg.algorithm)
	if err != nil {
		return nil, fmt.Errorf("overlap: %w: %w", ErrUnsupportedAlgorithm, err)
	}
	c, err := engine.NewComparer(algo)
	if err != nil {
		return nil, fmt.Errorf("overlap: %w", err)
	}
	if cfg.workers > 0 {
		c = c.WithWorkers(cfg.workers)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	return &Client{comparer: c, obs: obs}, nil
}

// Compare scores every unordered pair of docs.
func (c *Client) Compare(ctx context.Context, docs []Document) (res Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("compare", start, err, res.Degraded) }()

	in := make([]engine.Document, len(docs))
	for i, d := range docs {
		in[i] = engine.Document{ID: d.ID, Text: d.Text}
	}

	run, err := c.comparer.CompareAll(ctx, in)
	if err != nil {
		return Result{}, fmt.Errorf("overlap: %w", err)
	}

	pairs := make([]Pair, len(run.Pairs))
	for k, p := range run.Pairs {
		pairs[k] = Pair{A: p.A, B: p.B, Score: p.Score, Degraded: p.Degraded(), Err: p.Err}
	}
	return Result{
		Algorithm: string(run.Algorithm),
		Documents: run.Documents,
		Pairs:     pairs,
		Degraded:  run.Degraded,
	}, nil
}

// Score returns the similarity of two texts.
// Unlike Compare, a scoring failure is returned as an error.
func (c *Client) Score(ctx context.Context, a, b string) (float64, error) {
	res, err := c.Compare(ctx, []Document{{ID: "a", Text: a}, {ID: "b", Text: b}})
	if err != nil {
		return 0, err
	}
	p := res.Pairs[0]
	if p.Degraded {
		return 0, fmt.Errorf("overlap: %w", p.Err)
	}
	return p.Score, nil
}

// Algorithm returns the configured algorithm name.
func (c *Client) Algorithm() string {
	return string(c.comparer.Algorithm())
}
