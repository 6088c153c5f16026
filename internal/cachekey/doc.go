// Package cachekey builds deterministic cache keys from an auth context,
// a client factory's fingerprint, and arbitrary caller-supplied options. The
// raw key is a human-readable, "::"-joined string retained only for log
// messages; the stable key is its fixed-width digest, used as the actual
// cache map key.
package cachekey
