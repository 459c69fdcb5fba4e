package submission

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/kailas-cloud/overlap/internal/db"
	"github.com/kailas-cloud/overlap/internal/domain"
	domsub "github.com/kailas-cloud/overlap/internal/domain/submission"
)

// store is the consumer interface for submissions (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
}

// Repo implements usecase/submission.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a submission repository. All keys are namespaced by prefix.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) key(id string) string { return r.prefix + "submission:" + id }
func (r *Repo) seqKey() string       { return r.prefix + "submission:seq" }

// NextSeq reserves the next upload sequence number.
func (r *Repo) NextSeq(ctx context.Context) (int64, error) {
	n, err := r.store.IncrBy(ctx, r.seqKey(), 1)
	if err != nil {
		return 0, fmt.Errorf("incr submission seq: %w", err)
	}
	return n, nil
}

// SaveAll stores submissions in one round-trip. A single submission is a plain HSET.
func (r *Repo) SaveAll(ctx context.Context, subs []*domsub.Submission) error {
	switch len(subs) {
	case 0:
		return nil
	case 1:
		s := subs[0]
		if err := r.store.HSet(ctx, r.key(s.ID()), submissionToHash(s)); err != nil {
			return fmt.Errorf("hset submission %s: %w", s.ID(), err)
		}
		return nil
	}

	items := make([]db.HashSetItem, len(subs))
	for i, s := range subs {
		items[i] = db.HashSetItem{Key: r.key(s.ID()), Fields: submissionToHash(s)}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset %d submissions: %w", len(subs), err)
	}
	return nil
}

// Get retrieves a submission by id.
func (r *Repo) Get(ctx context.Context, id string) (domsub.Submission, error) {
	m, err := r.store.HGetAll(ctx, r.key(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domsub.Submission{}, domain.ErrNotFound
		}
		return domsub.Submission{}, fmt.Errorf("hgetall submission %s: %w", id, err)
	}
	if len(m) == 0 {
		return domsub.Submission{}, domain.ErrNotFound
	}
	return submissionFromHash(m)
}

// List returns all submissions in upload order.
func (r *Repo) List(ctx context.Context) ([]domsub.Submission, error) {
	keys, err := r.keys(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []domsub.Submission{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi submissions: %w", err)
	}

	subs := make([]domsub.Submission, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		s, err := submissionFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse submission %s: %w", keys[i], err)
		}
		subs = append(subs, s)
	}

	slices.SortFunc(subs, func(a, b domsub.Submission) int {
		switch {
		case a.Seq() < b.Seq():
			return -1
		case a.Seq() > b.Seq():
			return 1
		default:
			return 0
		}
	})
	return subs, nil
}

// Count returns the number of stored submissions.
func (r *Repo) Count(ctx context.Context) (int, error) {
	keys, err := r.keys(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// DeleteAll removes every submission and resets the sequence.
func (r *Repo) DeleteAll(ctx context.Context) (int, error) {
	keys, err := r.keys(ctx)
	if err != nil {
		return 0, err
	}
	if err := r.store.Del(ctx, append(keys, r.seqKey())...); err != nil {
		return 0, fmt.Errorf("del submissions: %w", err)
	}
	return len(keys), nil
}

// keys lists distinct submission hash keys, excluding the sequence counter.
func (r *Repo) keys(ctx context.Context) ([]string, error) {
	found, err := r.store.Scan(ctx, r.key("*"))
	if err != nil {
		return nil, fmt.Errorf("scan submissions: %w", err)
	}
	seq := r.seqKey()
	found = slices.DeleteFunc(found, func(k string) bool { return k == seq })
	slices.Sort(found)
	return slices.Compact(found), nil
}
