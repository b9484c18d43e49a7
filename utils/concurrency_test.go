package utils

import (
	"sort"
	"sync/atomic"
	"testing"
)

func TestIDSetNoDuplicates(t *testing.T) {
	s := NewIDSet()

	added := s.Add("r-1")
	if !added {
		t.Error("first Add should return true")
	}

	added = s.Add("r-1")
	if added {
		t.Error("second Add of same id should return false")
	}

	if s.Size() != 1 {
		t.Errorf("size: got %d, want 1", s.Size())
	}
	if !s.Contains("r-1") {
		t.Error("Contains(r-1) should be true")
	}
	if s.Contains("r-2") {
		t.Error("Contains(r-2) should be false")
	}
}

func TestIDSetConcurrency(t *testing.T) {
	s := NewIDSet()
	var added int64

	pool := NewWorkerPool(10)
	for i := 0; i < 100; i++ {
		pool.Submit(func() {
			if s.Add("same") {
				atomic.AddInt64(&added, 1)
			}
		})
	}
	pool.Wait()

	if added != 1 {
		t.Errorf("expected exactly 1 successful add, got %d", added)
	}
}

func TestIDSetSlice(t *testing.T) {
	s := NewIDSet()
	s.Add("b")
	s.Add("a")
	s.Add("b")

	got := s.Slice()
	sort.Strings(got)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Slice: got %v, want [a b]", got)
	}
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	pool := NewWorkerPool(3)
	var running, peak, done int64

	for i := 0; i < 50; i++ {
		pool.Submit(func() {
			n := atomic.AddInt64(&running, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			atomic.AddInt64(&done, 1)
			atomic.AddInt64(&running, -1)
		})
	}
	pool.Wait()

	if done != 50 {
		t.Errorf("done: got %d, want 50", done)
	}
	if peak > 3 {
		t.Errorf("peak concurrency: got %d, want <= 3", peak)
	}
}

func TestWorkerPoolMinimumSize(t *testing.T) {
	if got := NewWorkerPool(0).Size(); got != 1 {
		t.Errorf("Size: got %d, want 1", got)
	}
}
