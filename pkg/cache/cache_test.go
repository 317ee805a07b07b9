package cache_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/sandrolain/nusa/pkg/cache"
	"github.com/sandrolain/nusa/pkg/parser"
	"github.com/sandrolain/nusa/pkg/types"
)

func compile(t *testing.T, src string) *types.Program {
	t.Helper()
	prog, err := parser.Compile(src)
	if err != nil {
		t.Fatal(err)
	}
	return prog
}

func TestCacheNew(t *testing.T) {
	c := cache.New(10)
	if got := c.Len(); got != 0 {
		t.Fatalf("expected empty cache, got %d", got)
	}
	if got := c.Capacity(); got != 10 {
		t.Fatalf("expected capacity 10, got %d", got)
	}
}

func TestCacheDefaultCapacity(t *testing.T) {
	c := cache.New(0)
	if got := c.Capacity(); got != cache.DefaultCapacity {
		t.Fatalf("expected default capacity %d, got %d", cache.DefaultCapacity, got)
	}
}

func TestCacheSetGet(t *testing.T) {
	c := cache.New(4)
	prog := compile(t, "print 1;")
	c.Set("print 1;", prog)
	if got := c.Len(); got != 1 {
		t.Fatalf("expected 1 entry, got %d", got)
	}
	got, ok := c.Get("print 1;")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != prog {
		t.Fatal("expected same program pointer")
	}
}

func TestCacheMiss(t *testing.T) {
	c := cache.New(4)
	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected cache miss")
	}
	if s := c.Stats(); s.Misses != 1 || s.Hits != 0 {
		t.Fatalf("unexpected stats %+v", s)
	}
}

func TestCacheLRUEviction(t *testing.T) {
	c := cache.New(3)
	for _, k := range []string{"a", "b", "c"} {
		c.Set(k, compile(t, k))
	}
	// Touch "a" so that "b" becomes the least recently used entry.
	if _, ok := c.Get("a"); !ok {
		t.Fatal(`expected "a" to be cached`)
	}
	c.Set("d", compile(t, "d"))

	if got := c.Len(); got != 3 {
		t.Fatalf("expected 3 entries after eviction, got %d", got)
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal(`expected "b" to be evicted (LRU)`)
	}
	for _, k := range []string{"a", "c", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Fatalf("expected %q to survive", k)
		}
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Fatalf("expected 1 eviction, got %d", got)
	}
}

func TestCacheInvalidate(t *testing.T) {
	c := cache.New(4)
	c.Set("k", compile(t, "k"))
	c.Invalidate("k")
	c.Invalidate("never-set")
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after Invalidate")
	}
}

func TestCacheClear(t *testing.T) {
	c := cache.New(4)
	for _, k := range []string{"a", "b", "c"} {
		c.Set(k, compile(t, k))
	}
	c.Get("a")
	c.Clear()
	if got := c.Len(); got != 0 {
		t.Fatalf("expected 0 after Clear, got %d", got)
	}
	if got := c.Stats().Hits; got != 1 {
		t.Fatalf("Clear should keep counters, hits = %d", got)
	}
	c.Set("x", compile(t, "x"))
	if got := c.Len(); got != 1 {
		t.Fatalf("expected 1 entry after reuse, got %d", got)
	}
}

func TestCacheGetOrCompile(t *testing.T) {
	c := cache.New(4)
	callCount := 0
	compileFn := func() (*types.Program, error) {
		callCount++
		return parser.Compile("let a = 1;")
	}

	prog1, err := c.GetOrCompile("let a = 1;", compileFn)
	if err != nil || prog1 == nil {
		t.Fatalf("first GetOrCompile: %v", err)
	}
	if callCount != 1 {
		t.Fatalf("expected 1 compile call, got %d", callCount)
	}

	prog2, err := c.GetOrCompile("let a = 1;", compileFn)
	if err != nil || prog2 == nil {
		t.Fatalf("second GetOrCompile: %v", err)
	}
	if callCount != 1 {
		t.Fatalf("expected still 1 call (cached), got %d", callCount)
	}
	if prog1 != prog2 {
		t.Fatal("expected same pointer from cache")
	}
}

func TestCacheGetOrCompileError(t *testing.T) {
	c := cache.New(4)
	boom := errors.New("boom")
	_, err := c.GetOrCompile("bad", func() (*types.Program, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the compile error, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatal("errors must not be cached")
	}
}

func TestCacheSetUpdate(t *testing.T) {
	c := cache.New(4)
	prog1 := compile(t, "print 'a';")
	prog2 := compile(t, "print 'b';")
	c.Set("k", prog1)
	c.Set("k", prog2) // overwrite
	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected hit after overwrite")
	}
	if got != prog2 {
		t.Fatal("expected updated program pointer")
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry after overwrite, got %d", c.Len())
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := cache.New(8)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			src := fmt.Sprintf("print %d;", i%10)
			for j := 0; j < 100; j++ {
				if _, err := c.GetOrCompile(src, func() (*types.Program, error) {
					return parser.Compile(src)
				}); err != nil {
					t.Error(err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > c.Capacity() {
		t.Fatalf("len %d exceeds capacity %d", c.Len(), c.Capacity())
	}
	s := c.Stats()
	if s.Hits+s.Misses != 1600 {
		t.Fatalf("expected 1600 lookups, got %+v", s)
	}
}
