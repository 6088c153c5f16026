package domain

import "errors"

// Sentinel errors for auth-request validation and credential-manager
// failures. Use with errors.Is() for checking, fmt.Errorf("%w", ...) for
// wrapping with context.
var (
	// ErrMissingTenant indicates a non-application auth request arrived
	// without a tenant identifier on its user assertion.
	ErrMissingTenant = errors.New("auth request is missing a tenant id")

	// ErrMissingUser indicates a non-application auth request arrived
	// without a user object identifier on its user assertion.
	ErrMissingUser = errors.New("auth request is missing a user object id")

	// ErrTokenExpired indicates a user assertion's expiry has already
	// passed at validation time.
	ErrTokenExpired = errors.New("user assertion has expired")

	// ErrAuthModeMismatch indicates a caller asked for a delegated
	// credential from an auth request that carries no user assertion.
	ErrAuthModeMismatch = errors.New("delegated credential requested from an application-only auth request")

	// ErrInternal indicates an invariant violation that should not occur
	// given a well-formed AuthRequest (e.g. an unrecognized AuthMode).
	ErrInternal = errors.New("internal invariant violation")
)
