package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// entry is one memoized outcome. Terminal errors are stored alongside
// values so a repeatedly failing key does not hit the upstream again.
// insertedAt is kept so a TTL sweep can be added without touching the
// Resolve contract.
type entry[V any] struct {
	key        string
	value      V
	err        error
	insertedAt time.Time
}

// flight is an in-progress computation late callers attach to.
// value and err are written before done is closed.
type flight[V any] struct {
	done  chan struct{}
	value V
	err   error
}

// Keyed memoizes computations by string key with least-recently-used
// eviction and inflight deduplication.
//
// Concurrent Resolve calls for the same cold key agree on a single
// computation: the cache lookup and the flight registration happen under
// one mutex, so exactly one caller computes and every other caller waits
// for that flight. Safe for concurrent use.
type Keyed[V any] struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
	inflight map[string]*flight[V]
}

func NewKeyed[V any](capacity int) *Keyed[V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Keyed[V]{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		inflight: make(map[string]*flight[V]),
	}
}

// Resolve returns the memoized outcome for key. On a cache hit the entry
// is marked most recently used and compute is never invoked. On an
// inflight hit the caller waits for the running computation and receives
// its outcome. Otherwise compute runs once and its outcome (value or
// error) is stored before waiters are released.
func (c *Keyed[V]) Resolve(ctx context.Context, key string, compute func() (V, error)) (V, error) {
	c.mu.Lock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		e := el.Value.(*entry[V])
		v, err := e.value, e.err
		c.mu.Unlock()
		return v, err
	}
	if fl, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-fl.done:
			return fl.value, fl.err
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err()
		}
	}
	fl := &flight[V]{done: make(chan struct{})}
	c.inflight[key] = fl
	c.mu.Unlock()

	fl.value, fl.err = compute()

	c.mu.Lock()
	el := c.order.PushFront(&entry[V]{
		key:        key,
		value:      fl.value,
		err:        fl.err,
		insertedAt: time.Now(),
	})
	c.entries[key] = el
	delete(c.inflight, key)
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry[V]).key)
	}
	c.mu.Unlock()

	close(fl.done)
	return fl.value, fl.err
}

// Len reports the number of memoized entries.
func (c *Keyed[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
