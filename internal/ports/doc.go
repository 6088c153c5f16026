// Package ports declares the interfaces through which the client pool's core
// engine talks to everything outside itself: strategies that mint
// credentials, the optional disposal hook a cached value can implement, and
// the logger type threaded through constructors. Client factories are
// declared in the root clientpool package, not here. Nothing in
// this package does I/O; it only names the seams adapters fill in.
package ports
