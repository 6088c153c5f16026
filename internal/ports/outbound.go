package ports

import (
	"context"

	"github.com/jhzhu89/azure-client-pool/internal/domain"
)

// ApplicationStrategy mints a Credential that authorizes as the process's
// own identity, independent of any caller's user assertion. Implementations
// live under internal/strategy (cli, managedidentity, chain).
type ApplicationStrategy interface {
	AcquireApplicationCredential(ctx context.Context, tenantID string) (*domain.Credential, error)
}

// DelegatedStrategy mints a Credential that authorizes as the user behind a
// UserAssertion, typically via an OAuth2 on-behalf-of exchange. Its result is
// never cached by the Credential Manager: the lifetime of a delegated
// credential is the lifetime of the assertion it was exchanged from.
type DelegatedStrategy interface {
	AcquireDelegatedCredential(ctx context.Context, assertion *domain.UserAssertion) (*domain.Credential, error)
}

// Disposer is the single capability interface a cached value may implement
// to release resources (close connections, revoke a lease) when evicted or
// explicitly invalidated. The cache does not special-case io.Closer or any
// other shape; a value that needs cleanup implements exactly this.
type Disposer interface {
	Dispose(ctx context.Context) error
}
