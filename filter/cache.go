package filter

import (
	"container/list"
	"sync"
)

// lruCache holds compiled filters keyed by expression, evicting the least recently used.
type lruCache[V any] struct {
	size      int
	evictList *list.List
	items     map[string]*list.Element
	mu        sync.Mutex
}

type cacheEntry[V any] struct {
	key   string
	value V
}

func newLRUCache[V any](size int) *lruCache[V] {
	return &lruCache[V]{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
	}
}

func (c *lruCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.evictList.MoveToFront(elem)
	return elem.Value.(*cacheEntry[V]).value, true
}

func (c *lruCache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.evictList.MoveToFront(elem)
		elem.Value.(*cacheEntry[V]).value = value
		return
	}

	c.items[key] = c.evictList.PushFront(&cacheEntry[V]{key: key, value: value})
	if c.evictList.Len() > c.size {
		oldest := c.evictList.Back()
		c.evictList.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry[V]).key)
	}
}

func (c *lruCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}
