package clientpool

import "context"

// Extractor pulls auth material and client options out of an arbitrary
// caller request type R. It must be pure with respect to r: no I/O, no
// mutation, and a Facade calls it at most once per GetClient /
// InvalidateClientCache call. assertion is nil when r carries no user
// identity (the request should authorize as Application); options is nil
// when r carries no client-shaping parameters.
type Extractor[R any] func(r R) (assertion *UserAssertion, options any)

// Resolver maps an optional assertion extracted from a caller request into
// the AuthRequest the pool understands. A nil assertion should normally
// resolve to NewApplicationRequest(); a non-nil one to NewDelegatedRequest
// or NewCompositeRequest depending on what the caller's factory expects to
// be able to ask for.
type Resolver func(assertion *UserAssertion) AuthRequest

// Facade is the Request-Aware Facade: it composes an Extractor and a
// Resolver in front of a Pool so callers can hand it their own request
// type R directly, without constructing an AuthRequest themselves at every
// call site.
type Facade[R any, C any] struct {
	pool      *Pool[C]
	extractor Extractor[R]
	resolver  Resolver
}

// NewFacade composes pool with extractor and resolver.
func NewFacade[R any, C any](pool *Pool[C], extractor Extractor[R], resolver Resolver) *Facade[R, C] {
	return &Facade[R, C]{pool: pool, extractor: extractor, resolver: resolver}
}

// GetClient extracts auth material and options from r, resolves them to an
// AuthRequest, and delegates to the underlying Pool.
func (f *Facade[R, C]) GetClient(ctx context.Context, r R) (C, error) {
	assertion, options := f.extractor(r)
	req := f.resolver(assertion)
	return f.pool.GetClient(ctx, req, options)
}

// InvalidateClientCache extracts and resolves r the same way GetClient
// does, then delegates to the underlying Pool.
func (f *Facade[R, C]) InvalidateClientCache(r R) (bool, error) {
	assertion, options := f.extractor(r)
	req := f.resolver(assertion)
	return f.pool.InvalidateClientCache(req, options)
}

// Stats returns the underlying Pool's client cache occupancy.
func (f *Facade[R, C]) Stats() Stats {
	return f.pool.Stats()
}
