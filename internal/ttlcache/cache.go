package ttlcache

import (
	"container/list"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/jhzhu89/azure-client-pool/internal/ports"
)

// Disposer is re-exported locally so callers of this package don't need to
// import internal/ports just to type-assert a cached value.
type Disposer = ports.Disposer

// Stats reports a snapshot of a Cache's occupancy.
type Stats struct {
	Size         int
	MaxSize      int
	PendingCount int
}

// entry is the internal bookkeeping wrapper around a cached value. deadline
// is recomputed on every successful read from slidingTTL (the per-entry
// sliding duration fixed at creation, not the cache's default); absoluteDeadline,
// if non-zero, never moves.
type entry[T any] struct {
	key              string
	value            T
	createdAt        time.Time
	deadline         time.Time
	slidingTTL       time.Duration
	absoluteDeadline time.Time // zero means "no absolute bound"
	element          *list.Element
}

func (e *entry[T]) expired(now time.Time) bool {
	if now.After(e.deadline) || now.Equal(e.deadline) {
		return true
	}
	if !e.absoluteDeadline.IsZero() && !now.Before(e.absoluteDeadline) {
		return true
	}
	return false
}

// Cache is a bounded, disposal-aware map from string keys to values of type
// T, with sliding and absolute TTL expiry, LRU eviction, and single-flight
// coalescing of concurrent factory invocations for the same key.
type Cache[T any] struct {
	mu      sync.Mutex
	items   map[string]*entry[T]
	lru     *list.List
	group   singleflight.Group
	pending sync.Map // key -> struct{}, tracked separately from singleflight for Stats()

	maxSize    int
	slidingTTL time.Duration
	logger     ports.Logger
	now        func() time.Time
}

// Option configures a Cache at construction time.
type Option[T any] func(*Cache[T])

// WithLogger sets the logger used for disposal-error warnings. Defaults to
// slog.Default().
func WithLogger[T any](logger ports.Logger) Option[T] {
	return func(c *Cache[T]) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the cache's notion of "now", for deterministic tests.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(c *Cache[T]) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a Cache bounded to maxSize entries, with slidingTTL as the
// default per-entry sliding deadline for GetOrCreate calls that pass no
// custom TTL.
func New[T any](maxSize int, slidingTTL time.Duration, opts ...Option[T]) *Cache[T] {
	c := &Cache[T]{
		items:      make(map[string]*entry[T]),
		lru:        list.New(),
		maxSize:    maxSize,
		slidingTTL: slidingTTL,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Factory constructs the value for a cache miss. customTTL, when non-nil,
// overrides the cache's default sliding TTL for this entry; a customTTL of
// zero or less means "construct but do not cache."
type Factory[T any] func(ctx context.Context) (value T, customTTL *time.Duration, absoluteTTL *time.Duration, err error)

// GetOrCreate implements the coordinator's protocol: a live, unexpired
// entry is returned immediately and its sliding deadline is refreshed; a
// miss coalesces concurrent callers onto a single factory invocation via
// singleflight, so at most one construction for key is ever in flight.
func (c *Cache[T]) GetOrCreate(ctx context.Context, key string, factory Factory[T]) (T, error) {
	if v, ok := c.tryGet(key); ok {
		return v, nil
	}

	c.pending.Store(key, struct{}{})
	defer c.pending.Delete(key)

	result, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under the singleflight rendezvous: another goroutine may
		// have populated the entry between our tryGet and Do taking the key.
		if v, ok := c.tryGet(key); ok {
			return v, nil
		}

		traceID := uuid.NewString()
		value, customTTL, absoluteTTL, err := factory(ctx)
		if err != nil {
			c.logger.Warn("ttlcache: factory invocation failed", "trace_id", traceID, "key", key, "error", err)
			var zero T
			return zero, err
		}
		c.logger.Debug("ttlcache: factory invocation succeeded", "trace_id", traceID, "key", key)

		ttl := c.slidingTTL
		if customTTL != nil {
			ttl = *customTTL
		}
		if ttl <= 0 {
			// Uncacheable: successful construction, nothing stored.
			return value, nil
		}

		c.store(key, value, ttl, absoluteTTL)
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

func (c *Cache[T]) tryGet(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		var zero T
		return zero, false
	}

	now := c.now()
	if e.expired(now) {
		c.removeLocked(e)
		go c.dispose(e.value)
		var zero T
		return zero, false
	}

	e.deadline = now.Add(e.slidingTTL)
	c.lru.MoveToFront(e.element)
	return e.value, true
}

func (c *Cache[T]) store(key string, value T, ttl time.Duration, absoluteTTL *time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	if existing, ok := c.items[key]; ok {
		c.removeLocked(existing)
		go c.dispose(existing.value)
	}

	e := &entry[T]{
		key:        key,
		value:      value,
		createdAt:  now,
		deadline:   now.Add(ttl),
		slidingTTL: ttl,
	}
	if absoluteTTL != nil {
		e.absoluteDeadline = now.Add(*absoluteTTL)
	}
	e.element = c.lru.PushFront(e)
	c.items[key] = e

	if c.maxSize > 0 && len(c.items) > c.maxSize {
		c.evictLRULocked()
	}
}

// evictLRULocked removes the least-recently-used entry. Must be called with
// mu held.
func (c *Cache[T]) evictLRULocked() {
	oldest := c.lru.Back()
	if oldest == nil {
		return
	}
	e := oldest.Value.(*entry[T])
	c.removeLocked(e)
	go c.dispose(e.value)
}

// removeLocked unlinks e from both the map and the LRU list. Must be called
// with mu held. Callers dispose the removed value outside the lock (expiry,
// replacement and LRU eviction in a detached goroutine; Delete and Clear
// after releasing mu), so a key mid-disposal can be reinserted immediately.
func (c *Cache[T]) removeLocked(e *entry[T]) {
	delete(c.items, e.key)
	c.lru.Remove(e.element)
}

// dispose invokes the value's Disposer capability, if any, and logs but
// swallows any resulting error.
func (c *Cache[T]) dispose(value any) {
	d, ok := value.(ports.Disposer)
	if !ok {
		return
	}
	if err := d.Dispose(context.Background()); err != nil {
		c.logger.Warn("ttlcache: disposal failed", "error", err)
	}
}

// Delete removes and disposes the entry for key, if present. Returns true
// if an entry was removed.
func (c *Cache[T]) Delete(key string) bool {
	c.mu.Lock()
	e, ok := c.items[key]
	if ok {
		c.removeLocked(e)
	}
	c.mu.Unlock()

	if ok {
		c.dispose(e.value)
	}
	return ok
}

// Clear removes and disposes every entry.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	entries := make([]*entry[T], 0, len(c.items))
	for _, e := range c.items {
		entries = append(entries, e)
	}
	c.items = make(map[string]*entry[T])
	c.lru.Init()
	c.mu.Unlock()

	for _, e := range entries {
		c.dispose(e.value)
	}
}

// Stats returns a snapshot of the cache's current occupancy.
func (c *Cache[T]) Stats() Stats {
	c.mu.Lock()
	size := len(c.items)
	c.mu.Unlock()

	pending := 0
	c.pending.Range(func(_, _ any) bool {
		pending++
		return true
	})

	return Stats{Size: size, MaxSize: c.maxSize, PendingCount: pending}
}
