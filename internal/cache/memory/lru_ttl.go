package memory

import (
	"container/list"
	"sync"
	"time"
)

type cell[K comparable, V any] struct {
	key      K
	value    V
	deadline time.Time
	bytes    int
}

// LRUTTL is a threadsafe LRU cache with per-entry TTL. Entries are
// evicted oldest-first once either the entry or byte limit is exceeded.
type LRUTTL[K comparable, V any] struct {
	mu        sync.Mutex
	order     *list.List
	index     map[K]*list.Element
	capacity  int
	byteCap   int
	liveBytes int
	ttl       time.Duration
}

func NewLRUTTL[K comparable, V any](capacity int, byteCap int, ttl time.Duration) *LRUTTL[K, V] {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &LRUTTL[K, V]{
		order:    list.New(),
		index:    make(map[K]*list.Element),
		capacity: capacity,
		byteCap:  byteCap,
		ttl:      ttl,
	}
}

func (c *LRUTTL[K, V]) Get(key K) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ele, ok := c.index[key]
	if !ok {
		return zero, false
	}
	ent := ele.Value.(*cell[K, V])
	if time.Now().After(ent.deadline) {
		c.drop(ele)
		return zero, false
	}
	c.order.MoveToFront(ele)
	return ent.value, true
}

func (c *LRUTTL[K, V]) Set(key K, value V, sizeBytes int) {
	if c == nil {
		return
	}
	if sizeBytes < 0 {
		sizeBytes = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if ele, ok := c.index[key]; ok {
		ent := ele.Value.(*cell[K, V])
		c.liveBytes += sizeBytes - ent.bytes
		ent.value = value
		ent.bytes = sizeBytes
		ent.deadline = time.Now().Add(c.ttl)
		c.order.MoveToFront(ele)
		c.trim()
		return
	}

	ele := c.order.PushFront(&cell[K, V]{
		key:      key,
		value:    value,
		bytes:    sizeBytes,
		deadline: time.Now().Add(c.ttl),
	})
	c.index[key] = ele
	c.liveBytes += sizeBytes
	c.trim()
}

func (c *LRUTTL[K, V]) Delete(key K) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, ok := c.index[key]; ok {
		c.drop(ele)
	}
}

func (c *LRUTTL[K, V]) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = list.New()
	c.index = make(map[K]*list.Element)
	c.liveBytes = 0
}

// Len reports the number of entries still held, expired ones included
// until they are touched or evicted.
func (c *LRUTTL[K, V]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *LRUTTL[K, V]) trim() {
	for c.order.Len() > 0 {
		if c.order.Len() <= c.capacity && (c.byteCap <= 0 || c.liveBytes <= c.byteCap) {
			return
		}
		c.drop(c.order.Back())
	}
}

func (c *LRUTTL[K, V]) drop(ele *list.Element) {
	if ele == nil {
		return
	}
	c.order.Remove(ele)
	ent := ele.Value.(*cell[K, V])
	delete(c.index, ent.key)
	c.liveBytes -= ent.bytes
	if c.liveBytes < 0 {
		c.liveBytes = 0
	}
}
