package domain

import "time"

// AuthContext is the validated, normalized internal form of an AuthRequest.
// It is the only shape the pool, credential manager, and key builder accept
// downstream of Validate — see validate.go, the Auth-Request Adapter.
type AuthContext struct {
	Mode AuthMode

	// TenantID and UserObjectID are non-empty for Delegated and Composite
	// contexts; both are empty for Application.
	TenantID     string
	UserObjectID string

	// Assertion is the validated user assertion backing a Delegated or
	// Composite context. Nil for Application.
	Assertion *UserAssertion
}

// IsApplicationOnly reports whether this context carries no user
// assertion, i.e. it cannot back a delegated credential.
func (c *AuthContext) IsApplicationOnly() bool {
	return c.Assertion == nil
}

// TTLRemaining returns how long remains before the backing assertion
// expires, relative to now. For an Application context (no assertion) it
// returns false to signal "not token-bound."
func (c *AuthContext) TTLRemaining(now time.Time) (time.Duration, bool) {
	if c.Assertion == nil {
		return 0, false
	}
	return c.Assertion.remaining(now), true
}
