// Package cache provides a small bounded map used for compiled type plans.
// Eviction is approximately least-recently-used: entries are tracked with a
// second-chance bit instead of an ordered list, which keeps Get cheap.
package cache

import "sync"

type entry[V any] struct {
	value   V
	visited bool
}

type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]*entry[V]
	ring     []K
	hand     int
}

func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity <= 0 {
		capacity = 512
	}
	return &Cache[K, V]{
		capacity: capacity,
		items:    make(map[K]*entry[V], capacity),
	}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		e.visited = true
		return e.value, true
	}
	var zero V
	return zero, false
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		e.value = value
		e.visited = true
		return
	}
	if len(c.items) >= c.capacity {
		c.evict()
	}
	c.items[key] = &entry[V]{value: value}
	c.ring = append(c.ring, key)
}

// evict advances the clock hand, giving visited entries a second chance,
// and removes the first unvisited entry it lands on. Ring slots whose key
// was already dropped are compacted as the hand passes them.
func (c *Cache[K, V]) evict() {
	for len(c.ring) > 0 {
		if c.hand >= len(c.ring) {
			c.hand = 0
		}
		key := c.ring[c.hand]
		e, ok := c.items[key]
		if !ok {
			c.ring = append(c.ring[:c.hand], c.ring[c.hand+1:]...)
			continue
		}
		if e.visited {
			e.visited = false
			c.hand++
			continue
		}
		delete(c.items, key)
		c.ring = append(c.ring[:c.hand], c.ring[c.hand+1:]...)
		return
	}
}
