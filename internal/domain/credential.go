package domain

import (
	"golang.org/x/oauth2"
)

// CredentialKind distinguishes the two credential shapes a Credential Manager
// can hand back. The distinction matters for caching: Application credentials
// are reusable across callers and safe to cache (the Credential Manager keeps
// one under a single application key);
// Delegated credentials are scoped to one user's assertion and are never
// cached.
type CredentialKind string

const (
	// ApplicationCredential authorizes as the process's own identity.
	ApplicationCredential CredentialKind = "application"

	// DelegatedCredential authorizes as the user behind a UserAssertion.
	// Its lifetime is tied to that assertion and it is never cached.
	DelegatedCredential CredentialKind = "delegated"
)

// Credential is the payload a strategy produces and a ClientFactory consumes.
// Token wraps the actual bearer material; Principal carries an optional
// human-readable identifier (user UPN, service principal name) useful for
// logging, not for authorization decisions.
type Credential struct {
	Kind      CredentialKind
	Token     *oauth2.Token
	Principal string
}

// Expired reports whether the wrapped token has passed its expiry, using
// oauth2.Token's own (small-skew) notion of validity.
func (c *Credential) Expired() bool {
	if c.Token == nil {
		return true
	}
	return !c.Token.Valid()
}
