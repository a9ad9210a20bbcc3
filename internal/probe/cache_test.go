package probe

import (
	"fmt"
	"sync"
	"testing"
)

func TestCacheGetOrCompute(t *testing.T) {
	c := NewCache()
	calls := 0
	compute := func() Result {
		calls++
		return Result{Name: "latex", Present: true}
	}

	first := c.GetOrCompute("latex", compute)
	second := c.GetOrCompute("latex", compute)

	if first != second {
		t.Errorf("results differ: %v vs %v", first, second)
	}
	if calls != 1 {
		t.Errorf("compute ran %d times, want 1", calls)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCacheStoresNegativeResults(t *testing.T) {
	c := NewCache()
	c.GetOrCompute("latex", func() Result {
		return Result{Name: "latex", Reason: "not found"}
	})

	got, ok := c.Get("latex")
	if !ok {
		t.Fatal("negative result was not cached")
	}
	if got.Present || got.Reason != "not found" {
		t.Errorf("cached result = %v", got)
	}
}

func TestCacheFirstStoreWins(t *testing.T) {
	// Two racing computations for the same key must converge on one
	// stored result; both callers see it.
	c := NewCache()

	var wg sync.WaitGroup
	results := make([]Result, 2)
	start := make(chan struct{})
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i] = c.GetOrCompute("latex", func() Result {
				return Result{Name: "latex", Reason: fmt.Sprintf("computed by goroutine %d", i)}
			})
		}(i)
	}
	close(start)
	wg.Wait()

	if results[0] != results[1] {
		t.Errorf("racing callers observed different results: %v vs %v", results[0], results[1])
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCacheConcurrentDistinctKeys(t *testing.T) {
	c := NewCache()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("probe-%d", i)
			c.GetOrCompute(key, func() Result {
				return Result{Name: key, Present: i%2 == 0, Reason: "maybe"}
			})
		}(i)
	}
	wg.Wait()

	if c.Len() != 32 {
		t.Errorf("Len = %d, want 32", c.Len())
	}
}

func TestCacheSnapshot(t *testing.T) {
	c := NewCache()
	c.GetOrCompute("a", func() Result { return Result{Name: "a", Present: true} })

	snap := c.Snapshot()
	snap["b"] = Result{Name: "b"}

	if c.Len() != 1 {
		t.Error("mutating a snapshot changed the cache")
	}
}
