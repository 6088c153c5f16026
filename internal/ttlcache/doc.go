// Package ttlcache implements the bounded, disposal-aware cache shared by
// the client pool and the credential manager: a map guarded by one mutex,
// LRU order tracked with container/list, sliding and absolute expiry, and
// concurrent-construction coalescing via golang.org/x/sync/singleflight.
// Callers never see a pending marker directly — GetOrCreate hides the
// coalescing protocol behind a single call.
package ttlcache
