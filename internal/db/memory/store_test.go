package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/kailas-cloud/overlap/internal/db"
)

func TestHashRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	if err := s.HSet(ctx, "h:1", map[string]string{"a": "1"}); err != nil {
		t.Fatalf("HSet: %v", err)
	}
	if err := s.HSet(ctx, "h:1", map[string]string{"b": "2"}); err != nil {
		t.Fatalf("HSet: %v", err)
	}
	m, err := s.HGetAll(ctx, "h:1")
	if err != nil {
		t.Fatalf("HGetAll: %v", err)
	}
	if m["a"] != "1" || m["b"] != "2" {
		t.Errorf("fields not merged: %v", m)
	}

	m["a"] = "mutated"
	again, _ := s.HGetAll(ctx, "h:1")
	if again["a"] != "1" {
		t.Error("HGetAll must return a copy")
	}
}

func TestHGetAll_Missing(t *testing.T) {
	_, err := NewStore().HGetAll(context.Background(), "nope")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestHGetAllMulti(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_ = s.HSetMulti(ctx, []db.HashSetItem{
		{Key: "k1", Fields: map[string]string{"f": "a"}},
		{Key: "k2", Fields: map[string]string{"f": "b"}},
	})

	out, err := s.HGetAllMulti(ctx, []string{"k1", "missing", "k2"})
	if err != nil {
		t.Fatalf("HGetAllMulti: %v", err)
	}
	if out[0]["f"] != "a" || len(out[1]) != 0 || out[2]["f"] != "b" {
		t.Errorf("unexpected results: %v", out)
	}
}

func TestScanAndDel(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_ = s.HSet(ctx, "p:submission:1", map[string]string{"x": "1"})
	_ = s.HSet(ctx, "p:submission:2", map[string]string{"x": "2"})
	_ = s.Set(ctx, "p:results", []byte("{}"))

	keys, err := s.Scan(ctx, "p:submission:*")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "p:submission:1" {
		t.Fatalf("unexpected keys: %v", keys)
	}

	if err := s.Del(ctx, keys...); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, err := s.HGetAll(ctx, "p:submission:1"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Error("key should be deleted")
	}
	if _, err := s.Get(ctx, "p:results"); err != nil {
		t.Error("unrelated key should remain")
	}
}

func TestScan_SlashInPrefix(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_ = s.HSet(ctx, "team/a:submission:1", map[string]string{"x": "1"})
	_ = s.HSet(ctx, "team/a:submission:sub/2", map[string]string{"x": "2"})
	_ = s.HSet(ctx, "team/b:submission:3", map[string]string{"x": "3"})

	keys, err := s.Scan(ctx, "team/a:submission:*")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	sort.Strings(keys)
	want := []string{"team/a:submission:1", "team/a:submission:sub/2"}
	if len(keys) != 2 || keys[0] != want[0] || keys[1] != want[1] {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
}

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern, key string
		want         bool
	}{
		{"*", "a/b/c", true},
		{"p:*", "p:x/y", true},
		{"p:*", "q:x", false},
		{"h?llo", "hello", true},
		{"h?llo", "h/llo", true},
		{"h?llo", "hllo", false},
		{"h[ae]llo", "hallo", true},
		{"h[ae]llo", "hillo", false},
		{"h[^e]llo", "hallo", true},
		{"h[^e]llo", "hello", false},
		{"h[a-c]llo", "hbllo", true},
		{"a\\*b", "a*b", true},
		{"a\\*b", "axb", false},
		{"a**b", "ab", true},
		{"exact", "exact", true},
		{"exact", "exactly", false},
	}
	for _, tc := range tests {
		if got := matchGlob(tc.pattern, tc.key); got != tc.want {
			t.Errorf("matchGlob(%q, %q) = %v, want %v", tc.pattern, tc.key, got, tc.want)
		}
	}
}

func TestScan_BadPattern(t *testing.T) {
	_, err := NewStore().Scan(context.Background(), "[")
	if err == nil {
		t.Fatal("expected error for malformed pattern")
	}
}

func TestGetSet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	_ = s.Set(ctx, "k", []byte("v1"))
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v1" {
		t.Fatalf("Get = %q, %v", got, err)
	}
}

func TestIncrBy_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.IncrBy(ctx, "seq", 1)
		}()
	}
	wg.Wait()

	n, err := s.IncrBy(ctx, "seq", 1)
	if err != nil {
		t.Fatalf("IncrBy: %v", err)
	}
	if n != 51 {
		t.Errorf("expected 51, got %d", n)
	}
}

func TestIncrBy_NotInteger(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_ = s.Set(ctx, "k", []byte("abc"))
	if _, err := s.IncrBy(ctx, "k", 1); err == nil {
		t.Fatal("expected error for non-integer value")
	}
}
