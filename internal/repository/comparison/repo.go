package comparison

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/overlap/internal/db"
	"github.com/kailas-cloud/overlap/internal/domain"
	domcmp "github.com/kailas-cloud/overlap/internal/domain/comparison"
)

// store is the consumer interface for comparison results (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, keys ...string) error
}

// Repo implements usecase/analysis.ResultRepository.
// Only the latest run is kept; each Replace overwrites the previous one.
type Repo struct {
	store  store
	prefix string
}

// New creates a comparison repository. All keys are namespaced by prefix.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) key() string { return r.prefix + "results" }

// Replace stores a run and its results, superseding any earlier run.
func (r *Repo) Replace(ctx context.Context, run domcmp.Run, results []domcmp.Result) error {
	data, err := json.Marshal(toSnapshot(run, results))
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := r.store.Set(ctx, r.key(), data); err != nil {
		return fmt.Errorf("set results: %w", err)
	}
	return nil
}

// List returns the results of the latest run in stored order.
// Returns an empty slice when no run has been stored.
func (r *Repo) List(ctx context.Context) ([]domcmp.Result, error) {
	snap, err := r.load(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return []domcmp.Result{}, nil
	}
	if err != nil {
		return nil, err
	}
	return snap.results(), nil
}

// LastRun returns the summary of the latest run, or domain.ErrNotFound.
func (r *Repo) LastRun(ctx context.Context) (domcmp.Run, error) {
	snap, err := r.load(ctx)
	if err != nil {
		return domcmp.Run{}, err
	}
	return snap.run(), nil
}

// Count returns the number of stored results.
func (r *Repo) Count(ctx context.Context) (int, error) {
	snap, err := r.load(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return len(snap.Results), nil
}

// DeleteAll removes stored results and returns how many there were.
func (r *Repo) DeleteAll(ctx context.Context) (int, error) {
	n, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	if err := r.store.Del(ctx, r.key()); err != nil {
		return 0, fmt.Errorf("del results: %w", err)
	}
	return n, nil
}

func (r *Repo) load(ctx context.Context) (*snapshot, error) {
	data, err := r.store.Get(ctx, r.key())
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get results: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal results: %w", err)
	}
	return &snap, nil
}
