package comparison

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/overlap/internal/db"
	"github.com/kailas-cloud/overlap/internal/domain/algorithm"
	domcmp "github.com/kailas-cloud/overlap/internal/domain/comparison"
)

const testPrefix = "overlap:"

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error
	delFn func(ctx context.Context, keys ...string) error
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	if m.delFn != nil {
		return m.delFn(ctx, keys...)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, testPrefix), ms
}

func testRun() domcmp.Run {
	return domcmp.Run{
		Algorithm:   algorithm.CosineTFIDF,
		Documents:   3,
		Comparisons: 3,
		Degraded:    1,
		Duration:    1500 * time.Millisecond,
		CompletedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func testResults() []domcmp.Result {
	return []domcmp.Result{
		domcmp.NewResult("s1", "s2", "alice", "bob", 0.75, false),
		domcmp.NewResult("s1", "s3", "alice", "carol", 0, true),
		domcmp.NewResult("s2", "s3", "bob", "carol", 0.1, false),
	}
}
