package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestRememberLoadsOnce(t *testing.T) {
	s := New(time.Minute)
	calls := 0
	load := func() ([]string, error) {
		calls++
		return []string{"Dune"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Remember(s, "movies", "all", load)
		if err != nil {
			t.Fatalf("remember: %v", err)
		}
		if len(got) != 1 || got[0] != "Dune" {
			t.Fatalf("unexpected value %v", got)
		}
	}

	if calls != 1 {
		t.Fatalf("loader called %d times, want 1", calls)
	}
}

func TestInvalidateDropsOnlyThatEntity(t *testing.T) {
	s := New(time.Minute)
	s.Set("books", "all", 1)
	s.Set("books", "genre:Fiction", 2)
	s.Set("movies", "all", 3)

	s.Invalidate("books")

	if _, ok := s.Get("books", "all"); ok {
		t.Fatal("books:all should be gone")
	}
	if _, ok := s.Get("books", "genre:Fiction"); ok {
		t.Fatal("books:genre:Fiction should be gone")
	}
	if v, ok := s.Get("movies", "all"); !ok || v.(int) != 3 {
		t.Fatal("movies:all should survive a books invalidation")
	}
}

func TestEntriesExpire(t *testing.T) {
	s := New(time.Second)
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }

	s.Set("communities", "all", "x")
	now = now.Add(2 * time.Second)

	if _, ok := s.Get("communities", "all"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestRememberDoesNotCacheErrors(t *testing.T) {
	s := New(time.Minute)
	boom := errors.New("boom")

	if _, err := Remember(s, "books", "all", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if s.Len() != 0 {
		t.Fatalf("error result was cached")
	}
}

func TestNilStoreIsPassThrough(t *testing.T) {
	var s *Store
	calls := 0
	for i := 0; i < 2; i++ {
		Remember(s, "books", "all", func() (int, error) { calls++; return 1, nil })
	}
	s.Invalidate("books")
	if calls != 2 {
		t.Fatalf("nil store should not cache, loader called %d times", calls)
	}
}

func TestExpiredEntriesAreRemoved(t *testing.T) {
	s := New(time.Millisecond)
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }

	for i := 0; i < 5000; i++ {
		s.Set("books", fmt.Sprintf("genre:junk-%d", i), i)
	}
	now = now.Add(time.Second)

	if _, ok := s.Get("books", "genre:junk-0"); ok {
		t.Fatal("expired entry served")
	}
	if got := s.Len(); got != 4999 {
		t.Fatalf("Len after expired read = %d, want 4999", got)
	}

	if removed := s.Sweep(); removed != 4999 {
		t.Fatalf("Sweep removed %d, want 4999", removed)
	}
	if got := s.Len(); got != 0 {
		t.Fatalf("Len after sweep = %d, want 0", got)
	}
}

func TestStoreIsBounded(t *testing.T) {
	s := NewWithLimit(time.Minute, 3)
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		s.Set("books", fmt.Sprintf("genre:%d", i), i)
	}
	if got := s.Len(); got != 3 {
		t.Fatalf("Len = %d, want 3", got)
	}

	// once the old keys expire there is room again
	now = now.Add(2 * time.Minute)
	s.Set("books", "genre:fresh", 1)
	if _, ok := s.Get("books", "genre:fresh"); !ok || s.Len() != 1 {
		t.Fatalf("fresh entry not stored, Len = %d", s.Len())
	}
}

func TestRunSweepsUntilCancelled(t *testing.T) {
	s := New(time.Millisecond)
	s.Set("movies", "all", 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for s.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done

	if s.Len() != 0 {
		t.Fatal("Run did not sweep the expired entry")
	}
}

func TestRememberSkipsStoreAfterConcurrentInvalidate(t *testing.T) {
	s := New(time.Minute)

	got, err := Remember(s, "books", "all", func() (string, error) {
		// a write lands while the read is in flight
		s.Invalidate("books")
		return "before write", nil
	})
	if err != nil || got != "before write" {
		t.Fatalf("Remember = %q, %v", got, err)
	}
	if _, ok := s.Get("books", "all"); ok {
		t.Fatal("value loaded before the invalidation was cached")
	}

	Remember(s, "books", "all", func() (string, error) { return "after write", nil })
	if v, ok := s.Get("books", "all"); !ok || v.(string) != "after write" {
		t.Fatalf("fresh load not cached: %v %v", v, ok)
	}
}
