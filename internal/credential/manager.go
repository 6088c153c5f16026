package credential

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jhzhu89/azure-client-pool/internal/domain"
	"github.com/jhzhu89/azure-client-pool/internal/ports"
	"github.com/jhzhu89/azure-client-pool/internal/ttlcache"
)

// Manager is the Credential Manager: it owns the single application
// credential cache and mediates every delegated credential exchange.
// Delegated credentials are never cached — their lifetime is the lifetime
// of the user assertion they were exchanged from.
type Manager struct {
	appStrategy       ports.ApplicationStrategy
	delegatedStrategy ports.DelegatedStrategy

	cache       *ttlcache.Cache[*domain.Credential]
	keyPrefix   string
	absoluteTTL time.Duration

	logger ports.Logger
}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithLogger sets the logger used for manager-level diagnostics.
func WithLogger(logger ports.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithDelegatedStrategy sets the strategy used to exchange a user assertion
// for a delegated credential. Omitting it is valid for pools that never
// issue Delegated/Composite auth requests.
func WithDelegatedStrategy(strategy ports.DelegatedStrategy) Option {
	return func(m *Manager) {
		m.delegatedStrategy = strategy
	}
}

// New creates a Manager backed by appStrategy for application credentials.
// keyPrefix, slidingTTL, maxSize, and absoluteTTL configure the underlying
// application-credential cache per the cache configuration section.
func New(appStrategy ports.ApplicationStrategy, keyPrefix string, slidingTTL time.Duration, maxSize int, absoluteTTL time.Duration, opts ...Option) *Manager {
	m := &Manager{
		appStrategy: appStrategy,
		keyPrefix:   keyPrefix,
		absoluteTTL: absoluteTTL,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.cache = ttlcache.New[*domain.Credential](maxSize, slidingTTL, ttlcache.WithLogger[*domain.Credential](m.logger))
	return m
}

// GetCredential returns a credential of the requested kind for ctx.
//
// Cross-mode safety: asking for a Delegated credential from an
// application-only auth context (no user assertion) always fails with
// domain.ErrAuthModeMismatch, regardless of what the caller's AuthMode
// literal claims — this makes it impossible for an application-only code
// path to accidentally receive a user-identity credential.
func (m *Manager) GetCredential(ctx context.Context, authCtx *domain.AuthContext, kind domain.CredentialKind) (*domain.Credential, error) {
	switch kind {
	case domain.ApplicationCredential:
		return m.getApplicationCredential(ctx)
	case domain.DelegatedCredential:
		return m.getDelegatedCredential(ctx, authCtx)
	default:
		return nil, fmt.Errorf("%w: unrecognized credential kind %q", domain.ErrInternal, kind)
	}
}

func (m *Manager) getApplicationCredential(ctx context.Context) (*domain.Credential, error) {
	key := m.keyPrefix + "::application"

	return m.cache.GetOrCreate(ctx, key, func(ctx context.Context) (*domain.Credential, *time.Duration, *time.Duration, error) {
		cred, err := m.appStrategy.AcquireApplicationCredential(ctx, "")
		if err != nil {
			return nil, nil, nil, fmt.Errorf("credential: acquiring application credential: %w", err)
		}
		absolute := m.absoluteTTL
		return cred, nil, &absolute, nil
	})
}

func (m *Manager) getDelegatedCredential(ctx context.Context, authCtx *domain.AuthContext) (*domain.Credential, error) {
	if authCtx == nil || authCtx.IsApplicationOnly() {
		return nil, domain.ErrAuthModeMismatch
	}
	if m.delegatedStrategy == nil {
		return nil, fmt.Errorf("%w: no delegated credential strategy configured", domain.ErrInternal)
	}

	assertion := authCtx.Assertion
	if assertion.IsExpired(time.Now()) {
		return nil, domain.ErrTokenExpired
	}

	cred, err := m.delegatedStrategy.AcquireDelegatedCredential(ctx, assertion)
	if err != nil {
		return nil, fmt.Errorf("credential: acquiring delegated credential: %w", err)
	}
	return cred, nil
}

// Stats returns a snapshot of the application credential cache's
// occupancy. Delegated credentials are never cached, so they contribute
// nothing to these figures.
func (m *Manager) Stats() ttlcache.Stats {
	return m.cache.Stats()
}
