// Package cache provides a thread-safe LRU cache for compiled NusaLang programs.
//
// The cache is used by the evaluator's Run method when the WithCaching option
// is enabled. It avoids re-lexing and re-parsing the same source text when a
// script is run repeatedly, e.g. by a long-lived host.
//
// # Example
//
//	c := cache.New(1024)
//	prog, err := c.GetOrCompile(source, compile)
package cache

import (
	"container/list"
	"sync"

	"github.com/sandrolain/nusa/pkg/types"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 256

// entry is a cache entry stored in the doubly-linked list.
type entry struct {
	source string
	prog   *types.Program
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Cache is a thread-safe LRU (Least Recently Used) cache of compiled programs
// keyed by source text. Once the capacity is reached, the least recently
// accessed entry is evicted.
//
// Safe for concurrent use by multiple goroutines.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front is most recently used
	items    map[string]*list.Element
	stats    Stats
}

// New creates a new LRU cache with the given capacity.
// If capacity <= 0, DefaultCapacity is used.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get retrieves the compiled program for source and marks it most recently used.
func (c *Cache) Get(source string) (*types.Program, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[source]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	c.order.MoveToFront(el)
	return el.Value.(*entry).prog, true
}

// Set inserts or replaces the program for source.
// If at capacity, the least recently used entry is evicted first.
func (c *Cache) Set(source string, prog *types.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[source]; ok {
		el.Value.(*entry).prog = prog
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.capacity {
		c.evictLocked()
	}
	c.items[source] = c.order.PushFront(&entry{source: source, prog: prog})
}

// GetOrCompile returns the cached program for source, or calls compile,
// caches its result and returns it. Compile errors are not cached.
//
// Concurrent misses on the same source may each call compile; the last
// result wins. Programs are immutable, so either is correct.
func (c *Cache) GetOrCompile(source string, compile func() (*types.Program, error)) (*types.Program, error) {
	if prog, ok := c.Get(source); ok {
		return prog, nil
	}
	prog, err := compile()
	if err != nil {
		return nil, err
	}
	c.Set(source, prog)
	return prog, nil
}

// Len returns the number of entries currently in the cache.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Capacity returns the maximum number of entries the cache can hold.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Stats returns a snapshot of the hit, miss and eviction counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Invalidate removes the entry for source, if present.
func (c *Cache) Invalidate(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[source]; ok {
		c.order.Remove(el)
		delete(c.items, source)
	}
}

// Clear removes all entries. Counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}

// evictLocked removes the least recently used entry.
// Must be called with c.mu held.
func (c *Cache) evictLocked() {
	el := c.order.Back()
	if el == nil {
		return
	}
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry).source)
	c.stats.Evictions++
}
