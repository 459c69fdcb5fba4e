package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/overlap/internal/domain/algorithm"
)

func newTestComparer(t *testing.T) *Comparer {
	t.Helper()
	c, err := NewComparer(algorithm.CosineTFIDF)
	if err != nil {
		t.Fatalf("NewComparer: %v", err)
	}
	return c
}

func docs(texts ...string) []Document {
	out := make([]Document, len(texts))
	for i, text := range texts {
		out[i] = Document{ID: fmt.Sprintf("doc-%d", i), Text: text}
	}
	return out
}

func TestNewComparer_UnsupportedAlgorithm(t *testing.T) {
	_, err := NewComparer(algorithm.Algorithm("jaccard"))
	if !errors.Is(err, ErrUnsupportedAlgorithm) {
		t.Fatalf("expected ErrUnsupportedAlgorithm, got %v", err)
	}
}

func TestComparer_WithWorkers(t *testing.T) {
	c := newTestComparer(t).WithWorkers(3)
	if c.Workers() != 3 {
		t.Errorf("workers = %d, want 3", c.Workers())
	}
	c.WithWorkers(0)
	if c.Workers() != 3 {
		t.Errorf("non-positive workers should be ignored, got %d", c.Workers())
	}
}

func TestPairs(t *testing.T) {
	for n := 0; n <= 7; n++ {
		pairs := Pairs(n)
		want := n * (n - 1) / 2
		if len(pairs) != want {
			t.Fatalf("Pairs(%d) len = %d, want %d", n, len(pairs), want)
		}
		seen := make(map[Pair]bool, len(pairs))
		for k, p := range pairs {
			if p.I >= p.J {
				t.Fatalf("Pairs(%d)[%d] = %v, want I < J", n, k, p)
			}
			if seen[p] {
				t.Fatalf("Pairs(%d) duplicate %v", n, p)
			}
			seen[p] = true
			if k > 0 {
				prev := pairs[k-1]
				if prev.I > p.I || (prev.I == p.I && prev.J >= p.J) {
					t.Fatalf("Pairs(%d) not ascending at %d: %v then %v", n, k, prev, p)
				}
			}
		}
	}
}

func TestCompareAll_ScenarioA(t *testing.T) {
	c := newTestComparer(t)
	run, err := c.CompareAll(context.Background(), docs(
		"This is a test document about machine learning.",
		"This is a test document about machine learning.",
		"The sky is blue. The ocean is also blue.",
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(run.Pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(run.Pairs))
	}

	identical := run.Pairs[0]
	if identical.I != 0 || identical.J != 1 {
		t.Fatalf("first pair = (%d,%d), want (0,1)", identical.I, identical.J)
	}
	if math.Abs(identical.Score-1) > tolerance {
		t.Errorf("identical pair score = %f, want 1", identical.Score)
	}
	for _, p := range run.Pairs[1:] {
		if p.Score >= identical.Score {
			t.Errorf("pair (%d,%d) score %f should be below identical %f", p.I, p.J, p.Score, identical.Score)
		}
		if p.Score > 0.2 {
			t.Errorf("pair (%d,%d) score %f, want near 0", p.I, p.J, p.Score)
		}
	}
	if run.Degraded != 0 {
		t.Errorf("degraded = %d, want 0", run.Degraded)
	}
}

func TestCompareAll_ScenarioB(t *testing.T) {
	c := newTestComparer(t)
	run, err := c.CompareAll(context.Background(), docs("", "machine learning"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(run.Pairs) != 1 || run.Pairs[0].Score != 0 {
		t.Fatalf("expected one pair scoring 0, got %+v", run.Pairs)
	}
	if run.Pairs[0].Degraded() {
		t.Error("empty text must not count as degraded")
	}
}

func TestCompareAll_ScenarioC(t *testing.T) {
	c := newTestComparer(t)
	text := "Machine learning is a subset of artificial intelligence."
	run, err := c.CompareAll(context.Background(), docs(text, text, text))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(run.Pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(run.Pairs))
	}
	for _, p := range run.Pairs {
		if math.Abs(p.Score-1) > tolerance {
			t.Errorf("pair (%d,%d) score = %f, want 1", p.I, p.J, p.Score)
		}
	}
}

func TestCompareAll_PairCompleteness(t *testing.T) {
	c := newTestComparer(t).WithWorkers(4)
	for _, n := range []int{0, 1, 2, 5, 12} {
		texts := randomTexts(n)
		run, err := c.CompareAll(context.Background(), docs(texts...))
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if run.Documents != n {
			t.Errorf("n=%d: documents = %d", n, run.Documents)
		}
		if len(run.Pairs) != n*(n-1)/2 {
			t.Fatalf("n=%d: pairs = %d, want %d", n, len(run.Pairs), n*(n-1)/2)
		}
		for k, p := range run.Pairs {
			if p.A == p.B {
				t.Fatalf("n=%d: self pair at %d", n, k)
			}
			if p.A != fmt.Sprintf("doc-%d", p.I) || p.B != fmt.Sprintf("doc-%d", p.J) {
				t.Fatalf("n=%d: pair %d ids %s/%s do not match indices (%d,%d)", n, k, p.A, p.B, p.I, p.J)
			}
		}
	}
}

func TestCompareAll_WorkerCountDoesNotChangeResult(t *testing.T) {
	texts := randomTexts(15)
	serial, err := newTestComparer(t).WithWorkers(1).CompareAll(context.Background(), docs(texts...))
	if err != nil {
		t.Fatalf("serial: %v", err)
	}
	parallel, err := newTestComparer(t).WithWorkers(8).CompareAll(context.Background(), docs(texts...))
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	for k := range serial.Pairs {
		s, p := serial.Pairs[k], parallel.Pairs[k]
		if s.I != p.I || s.J != p.J || math.Abs(s.Score-p.Score) > 1e-12 {
			t.Fatalf("pair %d differs: serial %+v parallel %+v", k, s, p)
		}
	}
}

func TestCompareAll_InvalidDocument(t *testing.T) {
	tests := []struct {
		name string
		docs []Document
	}{
		{"empty id", []Document{{ID: "a", Text: "x"}, {ID: "", Text: "y"}}},
		{"blank id", []Document{{ID: "  ", Text: "x"}}},
		{"duplicate id", []Document{{ID: "a", Text: "x"}, {ID: "b"}, {ID: "a", Text: "z"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := newTestComparer(t).CompareAll(context.Background(), tt.docs)
			if !errors.Is(err, ErrInvalidDocument) {
				t.Fatalf("expected ErrInvalidDocument, got %v", err)
			}
			if run.Pairs != nil {
				t.Error("no pairs should be returned for an invalid run")
			}
		})
	}
}

func TestCompareAll_DegradedPairContinues(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c := newTestComparer(t).WithLogger(zap.New(core))

	run, err := c.CompareAll(context.Background(), []Document{
		{ID: "good-1", Text: "machine learning"},
		{ID: "broken", Text: "machine \xff learning"},
		{ID: "good-2", Text: "machine learning"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Degraded != 2 {
		t.Fatalf("degraded = %d, want 2", run.Degraded)
	}
	for _, p := range run.Pairs {
		involvesBroken := p.A == "broken" || p.B == "broken"
		if involvesBroken {
			if !p.Degraded() || p.Score != 0 || !errors.Is(p.Err, ErrVectorization) {
				t.Errorf("pair %s/%s should be degraded with score 0, got %+v", p.A, p.B, p)
			}
			continue
		}
		if p.Degraded() || math.Abs(p.Score-1) > tolerance {
			t.Errorf("pair %s/%s should score 1, got %+v", p.A, p.B, p)
		}
	}
	if logs.Len() != 2 {
		t.Errorf("expected 2 warn logs, got %d", logs.Len())
	}
}

func TestCompareAll_PanicRecovered(t *testing.T) {
	c := newTestComparer(t)
	c.score = func(a, b string) (float64, error) {
		if a == "boom" || b == "boom" {
			panic("numeric fault")
		}
		return ScoreTexts(a, b)
	}

	run, err := c.CompareAll(context.Background(), docs("alpha beta", "boom", "alpha beta"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Degraded != 2 {
		t.Fatalf("degraded = %d, want 2", run.Degraded)
	}
	if !errors.Is(run.Pairs[0].Err, ErrVectorization) {
		t.Errorf("expected ErrVectorization for panicking pair, got %v", run.Pairs[0].Err)
	}
	if math.Abs(run.Pairs[1].Score-1) > tolerance {
		t.Errorf("healthy pair score = %f, want 1", run.Pairs[1].Score)
	}
}

func TestCompareAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := newTestComparer(t).CompareAll(ctx, docs(randomTexts(10)...))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if run.Pairs != nil {
		t.Error("abandoned run should carry no pairs")
	}
}
