package cache

import "sync"

// Bounded is a size-capped string cache with evict-oldest semantics.
// When a Set would exceed the capacity, the entry that has been present
// longest is evicted (insertion order, not recency of use).
type Bounded struct {
	mu       sync.Mutex
	capacity int
	order    []string
	entries  map[string]string
}

// NewBounded creates a cache holding at most capacity entries. A
// capacity below one is treated as one.
func NewBounded(capacity int) *Bounded {
	if capacity < 1 {
		capacity = 1
	}
	return &Bounded{
		capacity: capacity,
		entries:  make(map[string]string, capacity),
	}
}

// Get returns the cached value and whether it was present.
func (b *Bounded) Get(key string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.entries[key]
	return v, ok
}

// Has reports whether key is cached.
func (b *Bounded) Has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.entries[key]
	return ok
}

// Set stores value under key, evicting the oldest entry if the cache
// is full. Overwriting an existing key keeps its original age.
func (b *Bounded) Set(key, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.entries[key]; ok {
		b.entries[key] = value
		return
	}

	if len(b.entries) >= b.capacity {
		oldest := b.order[0]
		b.order = b.order[1:]
		delete(b.entries, oldest)
	}

	b.entries[key] = value
	b.order = append(b.order, key)
}

// Delete removes key from the cache if present.
func (b *Bounded) Delete(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.entries[key]; !ok {
		return
	}
	delete(b.entries, key)
	for i, k := range b.order {
		if k == key {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of cached entries.
func (b *Bounded) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
