package domain

// AuthRequest is the raw, caller-constructed tagged variant described by
// the data model: an Application request carries no payload, while
// Delegated and Composite both carry a UserAssertion. Callers build these
// through the root package's NewApplicationRequest / NewDelegatedRequest /
// NewCompositeRequest constructors rather than assembling the struct
// directly, so this type stays an internal implementation detail of the
// tagged union rather than a public API surface with its own invariants to
// maintain independently.
type AuthRequest struct {
	Mode      AuthMode
	Assertion *UserAssertion // nil for Application
}
