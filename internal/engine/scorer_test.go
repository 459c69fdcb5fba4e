package engine

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"testing"
)

const tolerance = 1e-6

func mustScore(t *testing.T, a, b string) float64 {
	t.Helper()
	s, err := ScoreTexts(a, b)
	if err != nil {
		t.Fatalf("ScoreTexts: %v", err)
	}
	return s
}

func TestScoreIdentity(t *testing.T) {
	texts := []string{
		"machine learning",
		"This is a test document about machine learning.",
		"blue blue blue ocean",
		"Über café naïve 2024",
	}
	for _, text := range texts {
		if got := mustScore(t, text, text); math.Abs(got-1) > tolerance {
			t.Errorf("score(%q, itself) = %f, want 1", text, got)
		}
	}
}

func TestScoreDisjoint(t *testing.T) {
	got := mustScore(t, "machine learning models", "blue ocean sky")
	if got != 0 {
		t.Errorf("disjoint score = %v, want exactly 0", got)
	}
}

func TestScoreEmpty(t *testing.T) {
	tests := []struct{ a, b string }{
		{"", "machine learning"},
		{"machine learning", ""},
		{"", ""},
		{"   ", "\n\t"},
		{"a b c", "a b c"},
	}
	for _, tc := range tests {
		if got := mustScore(t, tc.a, tc.b); got != 0 {
			t.Errorf("score(%q, %q) = %f, want 0", tc.a, tc.b, got)
		}
	}
}

func TestScoreKnownValue(t *testing.T) {
	// Both vectors are [1, ln(1.5)+1] over different second terms; only "aa" overlaps.
	rare := math.Log(1.5) + 1
	want := 1 / (1 + rare*rare)

	got := mustScore(t, "aa bb", "aa cc")
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("score = %.12f, want %.12f", got, want)
	}
}

func TestScoreSymmetry(t *testing.T) {
	texts := randomTexts(20)
	for i := range texts {
		for j := range texts {
			ab := mustScore(t, texts[i], texts[j])
			ba := mustScore(t, texts[j], texts[i])
			if ab != ba {
				t.Fatalf("asymmetric: score(%d,%d)=%v score(%d,%d)=%v", i, j, ab, j, i, ba)
			}
		}
	}
}

func TestScoreDeterministic(t *testing.T) {
	a, b := longTexts()
	first := mustScore(t, a, b)
	for k := 0; k < 200; k++ {
		if got := mustScore(t, a, b); math.Float64bits(got) != math.Float64bits(first) {
			t.Fatalf("run %d: score = %.20f, first = %.20f", k, got, first)
		}
		if got := mustScore(t, b, a); math.Float64bits(got) != math.Float64bits(first) {
			t.Fatalf("run %d: reversed score = %.20f, first = %.20f", k, got, first)
		}
	}
}

// longTexts builds two overlapping texts with hundreds of distinct terms so
// the weight sums involve many additions.
func longTexts() (string, string) {
	r := rand.New(rand.NewPCG(3, 5))
	words := func(n int) string {
		out := make([]string, n)
		for k := range out {
			out[k] = fmt.Sprintf("w%d", r.IntN(300))
		}
		return strings.Join(out, " ")
	}
	return words(400), words(400)
}

func TestScoreBounded(t *testing.T) {
	texts := randomTexts(30)
	for i := range texts {
		for j := range texts {
			s := mustScore(t, texts[i], texts[j])
			if s < 0 || s > 1 {
				t.Fatalf("score(%d,%d) = %v out of [0,1]", i, j, s)
			}
		}
	}
}

func TestScoreZeroVector(t *testing.T) {
	v := Vector{{Word: "aa", Weight: 1}}
	if Score(nil, v) != 0 || Score(v, nil) != 0 {
		t.Error("zero vector should score 0")
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{-1e-17, 0},
		{0.5, 0.5},
		{1 + 1e-15, 1},
		{math.NaN(), 0},
	}
	for _, tc := range tests {
		if got := clamp01(tc.in); got != tc.want {
			t.Errorf("clamp01(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

// randomTexts builds deterministic texts over a small vocabulary so pairs overlap often.
func randomTexts(n int) []string {
	vocab := []string{"alpha", "beta", "gamma", "delta", "epsilon", "is", "the", "x", "42", "zeta"}
	r := rand.New(rand.NewPCG(7, 11))
	texts := make([]string, n)
	for i := range texts {
		words := make([]string, r.IntN(12))
		for k := range words {
			words[k] = vocab[r.IntN(len(vocab))]
		}
		texts[i] = strings.Join(words, " ")
	}
	return texts
}
