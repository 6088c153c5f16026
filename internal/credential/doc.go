// Package credential implements the Credential Manager: one ttlcache.Cache
// of application credentials, stored under the single key
// "<prefix>::application" for the configured prefix, plus a synchronous, uncached path for delegated credentials
// exchanged from a caller's user assertion. It is the only component that
// talks to ports.ApplicationStrategy and ports.DelegatedStrategy.
package credential
