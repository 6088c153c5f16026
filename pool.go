// Package clientpool is a client pool with authenticated-credential
// caching: for a given (auth context, client options) pair it returns a
// ready-to-use client of caller-chosen type C, reusing previously
// constructed instances whenever safe, and guarantees that neither
// duplicate client construction nor duplicate credential acquisition
// occurs under concurrent load.
package clientpool

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jhzhu89/azure-client-pool/internal/cachekey"
	"github.com/jhzhu89/azure-client-pool/internal/credential"
	"github.com/jhzhu89/azure-client-pool/internal/domain"
	"github.com/jhzhu89/azure-client-pool/internal/ports"
	"github.com/jhzhu89/azure-client-pool/internal/ttlcache"
)

// AuthRequest, UserAssertion, AuthMode, CredentialKind, and Credential are
// the public names for the tagged-union request type and its supporting
// value objects. They are aliases, not wrappers, so a caller never pays an
// adapter layer to cross the package boundary.
type (
	AuthRequest    = domain.AuthRequest
	UserAssertion  = domain.UserAssertion
	AuthMode       = domain.AuthMode
	CredentialKind = domain.CredentialKind
	Credential     = domain.Credential
)

// Re-exported AuthMode / CredentialKind literals, so callers never need to
// import internal/domain directly.
const (
	Application AuthMode = domain.Application
	Delegated   AuthMode = domain.Delegated
	Composite   AuthMode = domain.Composite

	ApplicationCredential CredentialKind = domain.ApplicationCredential
	DelegatedCredential   CredentialKind = domain.DelegatedCredential
)

// NewApplicationRequest builds an AuthRequest that carries no user
// assertion and authorizes as the process's own identity.
func NewApplicationRequest() AuthRequest {
	return AuthRequest{Mode: domain.Application}
}

// NewDelegatedRequest builds an AuthRequest that authorizes as the user
// behind assertion, scoped to one tenant.
func NewDelegatedRequest(assertion UserAssertion) AuthRequest {
	return AuthRequest{Mode: domain.Delegated, Assertion: &assertion}
}

// NewCompositeRequest builds an AuthRequest like NewDelegatedRequest, but
// signals that the client factory may legitimately ask for either
// credential kind.
func NewCompositeRequest(assertion UserAssertion) AuthRequest {
	return AuthRequest{Mode: domain.Composite, Assertion: &assertion}
}

// ClientFactory constructs and fingerprints the pooled client type C.
type ClientFactory[C any] interface {
	CreateClient(ctx context.Context, creds CredentialProvider, options any) (C, error)
	Fingerprint(options any) string
}

// CredentialProvider is the capability a ClientFactory uses to obtain the
// credential backing the client it is about to construct.
type CredentialProvider interface {
	GetCredential(ctx context.Context, kind CredentialKind) (*Credential, error)
}

// Disposer is the single capability a pooled client may implement to
// release resources when evicted or explicitly invalidated.
type Disposer = ports.Disposer

// ApplicationStrategy and DelegatedStrategy are re-exported so callers
// wiring a custom strategy never need to import internal/ports.
type (
	ApplicationStrategy = ports.ApplicationStrategy
	DelegatedStrategy   = ports.DelegatedStrategy
)

// Stats reports a cache's current occupancy.
type Stats = ttlcache.Stats

// Pool is the Client Pool: it derives a client's effective TTL from the
// backing auth context's token lifetime, caches client instances per
// (auth context × options), and exposes GetClient / InvalidateClientCache.
type Pool[C any] struct {
	factory ClientFactory[C]
	creds   *credential.Manager

	cache     *ttlcache.Cache[C]
	keyPrefix string
	bufferTTL time.Duration

	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Pool at construction time.
type Option[C any] func(*Pool[C])

// WithLogger sets the logger used for pool-level diagnostics and disposal
// warnings in the underlying client cache.
func WithLogger[C any](logger *slog.Logger) Option[C] {
	return func(p *Pool[C]) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock overrides the pool's notion of "now", for deterministic tests.
func WithClock[C any](now func() time.Time) Option[C] {
	return func(p *Pool[C]) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a Pool. factory constructs and fingerprints client instances;
// credentialManager backs every credential lookup a factory makes through
// the CredentialProvider view it's handed. keyPrefix, clientSlidingTTL,
// clientMaxSize, and bufferTTL configure the underlying client cache per
// the cache configuration section.
func New[C any](
	factory ClientFactory[C],
	credentialManager *credential.Manager,
	keyPrefix string,
	clientSlidingTTL time.Duration,
	clientMaxSize int,
	bufferTTL time.Duration,
	opts ...Option[C],
) *Pool[C] {
	p := &Pool[C]{
		factory:   factory,
		creds:     credentialManager,
		keyPrefix: keyPrefix,
		bufferTTL: bufferTTL,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.cache = ttlcache.New[C](clientMaxSize, clientSlidingTTL, ttlcache.WithLogger[C](p.logger), ttlcache.WithClock[C](p.now))
	return p
}

// GetClient validates req, computes its cache key, and returns a cached
// client if one exists and has not expired; otherwise it constructs one via
// the pool's ClientFactory and, unless the auth context's token lifetime is
// too short to cache safely, stores it.
//
// A cached client never outlives the validity of the credentials that may
// be derived through it: for token-bound modes the effective client TTL is
// strictly less than assertion.expiresAt - now.
func (p *Pool[C]) GetClient(ctx context.Context, req AuthRequest, options any) (C, error) {
	var zero C

	authCtx, err := domain.Validate(req, p.now())
	if err != nil {
		return zero, mapValidationError(err)
	}

	rawKey, stableKey, err := p.buildKey(authCtx, options)
	if err != nil {
		return zero, newError(Internal, "building cache key", err)
	}
	p.logger.Debug("clientpool: resolving client", "raw_key", cachekey.Truncate(rawKey))

	customTTL := p.customTTL(authCtx)

	client, err := p.cache.GetOrCreate(ctx, stableKey, func(ctx context.Context) (C, *time.Duration, *time.Duration, error) {
		creds := &credentialProviderView{manager: p.creds, authCtx: authCtx}
		c, err := p.factory.CreateClient(ctx, creds, options)
		if err != nil {
			var zero C
			return zero, nil, nil, newError(FactoryFailure, "client factory failed", err)
		}
		// customTTL is also the entry's absolute bound, so sliding refreshes
		// on later hits never carry it past the buffered assertion expiry.
		return c, customTTL, customTTL, nil
	})
	if err != nil {
		return zero, err
	}
	return client, nil
}

// InvalidateClientCache validates req the same way GetClient does and
// attempts to remove the matching cache entry. It reports whether a
// matching entry was present.
func (p *Pool[C]) InvalidateClientCache(req AuthRequest, options any) (bool, error) {
	authCtx, err := domain.Validate(req, p.now())
	if err != nil {
		return false, mapValidationError(err)
	}

	rawKey, stableKey, err := p.buildKey(authCtx, options)
	if err != nil {
		return false, newError(Internal, "building cache key", err)
	}
	p.logger.Debug("clientpool: invalidating client", "raw_key", cachekey.Truncate(rawKey))

	return p.cache.Delete(stableKey), nil
}

// Stats returns a snapshot of the client cache's current occupancy.
func (p *Pool[C]) Stats() Stats {
	return p.cache.Stats()
}

func (p *Pool[C]) buildKey(authCtx *domain.AuthContext, options any) (raw, stable string, err error) {
	fingerprint := ""
	if p.factory != nil {
		fingerprint = p.factory.Fingerprint(options)
	}
	return cachekey.Build(p.keyPrefix, authCtx.Mode, authCtx.TenantID, authCtx.UserObjectID, fingerprint, options)
}

// customTTL derives the client cache entry's TTL ceiling from the backing
// assertion's remaining lifetime. A nil return means "use the cache's
// default sliding TTL" (an Application context carries no token to bound
// against). A non-nil value at or below zero means "construct but do not
// cache" — ttlcache.Cache.GetOrCreate already treats that as uncacheable.
func (p *Pool[C]) customTTL(authCtx *domain.AuthContext) *time.Duration {
	remaining, ok := authCtx.TTLRemaining(p.now())
	if !ok {
		return nil
	}
	ttl := remaining - p.bufferTTL
	return &ttl
}

func mapValidationError(err error) error {
	switch {
	case err == nil:
		return nil
	case isSentinel(err, domain.ErrMissingTenant):
		return newError(MissingTenant, "auth request is missing a tenant id", err)
	case isSentinel(err, domain.ErrMissingUser):
		return newError(MissingUser, "auth request is missing a user object id", err)
	case isSentinel(err, domain.ErrTokenExpired):
		return newError(TokenExpired, "user assertion has expired", err)
	case isSentinel(err, domain.ErrAuthModeMismatch):
		return newError(AuthModeMismatch, "delegated credential requested from an application-only auth request", err)
	default:
		return newError(Internal, fmt.Sprintf("unexpected validation failure: %v", err), err)
	}
}

func isSentinel(err, sentinel error) bool {
	for err != nil {
		if err == sentinel {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// credentialProviderView is the capability handed to a ClientFactory: it
// defers to the Credential Manager with the original, already-validated
// auth context bound in, so factories never see AuthRequest or strategy
// plumbing.
type credentialProviderView struct {
	manager *credential.Manager
	authCtx *domain.AuthContext
}

func (v *credentialProviderView) GetCredential(ctx context.Context, kind CredentialKind) (*Credential, error) {
	cred, err := v.manager.GetCredential(ctx, v.authCtx, kind)
	if err != nil {
		if isSentinel(err, domain.ErrAuthModeMismatch) {
			return nil, newError(AuthModeMismatch, "delegated credential requested from an application-only auth request", err)
		}
		if isSentinel(err, domain.ErrTokenExpired) {
			return nil, newError(TokenExpired, "user assertion has expired", err)
		}
		return nil, newError(CredentialFailure, "credential acquisition failed", err)
	}
	return cred, nil
}
