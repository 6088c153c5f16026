package credential_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jhzhu89/azure-client-pool/internal/credential"
	"github.com/jhzhu89/azure-client-pool/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type stubAppStrategy struct {
	calls int32
	err   error
}

func (s *stubAppStrategy) AcquireApplicationCredential(ctx context.Context, tenantID string) (*domain.Credential, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Credential{
		Kind:  domain.ApplicationCredential,
		Token: &oauth2.Token{AccessToken: "app-token", Expiry: time.Now().Add(time.Hour)},
	}, nil
}

type stubDelegatedStrategy struct {
	calls int32
	err   error
}

func (s *stubDelegatedStrategy) AcquireDelegatedCredential(ctx context.Context, assertion *domain.UserAssertion) (*domain.Credential, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Credential{
		Kind:      domain.DelegatedCredential,
		Token:     &oauth2.Token{AccessToken: "delegated-token", Expiry: assertion.ExpiresAt},
		Principal: assertion.Subject,
	}, nil
}

func TestManager_ApplicationCredential_CachedAcrossCalls(t *testing.T) {
	t.Parallel()

	strategy := &stubAppStrategy{}
	m := credential.New(strategy, "client", time.Minute, 10, time.Hour)

	c1, err := m.GetCredential(context.Background(), &domain.AuthContext{Mode: domain.Application}, domain.ApplicationCredential)
	require.NoError(t, err)
	c2, err := m.GetCredential(context.Background(), &domain.AuthContext{Mode: domain.Application}, domain.ApplicationCredential)
	require.NoError(t, err)

	assert.Same(t, c1, c2)
	assert.EqualValues(t, 1, atomic.LoadInt32(&strategy.calls))
}

func TestManager_ApplicationCredential_StrategyFailurePropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("identity provider unavailable")
	strategy := &stubAppStrategy{err: boom}
	m := credential.New(strategy, "client", time.Minute, 10, time.Hour)

	_, err := m.GetCredential(context.Background(), &domain.AuthContext{Mode: domain.Application}, domain.ApplicationCredential)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestManager_DelegatedCredential_NeverCached(t *testing.T) {
	t.Parallel()

	appStrategy := &stubAppStrategy{}
	delegatedStrategy := &stubDelegatedStrategy{}
	m := credential.New(appStrategy, "client", time.Minute, 10, time.Hour, credential.WithDelegatedStrategy(delegatedStrategy))

	authCtx := &domain.AuthContext{
		Mode:         domain.Delegated,
		TenantID:     "tenant-1",
		UserObjectID: "user-1",
		Assertion: &domain.UserAssertion{
			Subject:   "user-1",
			TenantID:  "tenant-1",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}

	c1, err := m.GetCredential(context.Background(), authCtx, domain.DelegatedCredential)
	require.NoError(t, err)
	c2, err := m.GetCredential(context.Background(), authCtx, domain.DelegatedCredential)
	require.NoError(t, err)

	assert.NotSame(t, c1, c2)
	assert.EqualValues(t, 2, atomic.LoadInt32(&delegatedStrategy.calls))
}

func TestManager_DelegatedCredential_RejectsExpiredAssertion(t *testing.T) {
	t.Parallel()

	appStrategy := &stubAppStrategy{}
	delegatedStrategy := &stubDelegatedStrategy{}
	m := credential.New(appStrategy, "client", time.Minute, 10, time.Hour, credential.WithDelegatedStrategy(delegatedStrategy))

	authCtx := &domain.AuthContext{
		Mode:         domain.Delegated,
		TenantID:     "tenant-1",
		UserObjectID: "user-1",
		Assertion: &domain.UserAssertion{
			Subject:   "user-1",
			TenantID:  "tenant-1",
			ExpiresAt: time.Now().Add(-time.Second),
		},
	}

	_, err := m.GetCredential(context.Background(), authCtx, domain.DelegatedCredential)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
	assert.Zero(t, atomic.LoadInt32(&delegatedStrategy.calls))
}

func TestManager_DelegatedCredential_RejectedFromApplicationOnlyContext(t *testing.T) {
	t.Parallel()

	appStrategy := &stubAppStrategy{}
	delegatedStrategy := &stubDelegatedStrategy{}
	m := credential.New(appStrategy, "client", time.Minute, 10, time.Hour, credential.WithDelegatedStrategy(delegatedStrategy))

	_, err := m.GetCredential(context.Background(), &domain.AuthContext{Mode: domain.Application}, domain.DelegatedCredential)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthModeMismatch)
	assert.Zero(t, atomic.LoadInt32(&delegatedStrategy.calls))
}

func TestManager_Stats_ReflectsOnlyApplicationCache(t *testing.T) {
	t.Parallel()

	appStrategy := &stubAppStrategy{}
	m := credential.New(appStrategy, "client", time.Minute, 10, time.Hour)

	stats := m.Stats()
	assert.Equal(t, 0, stats.Size)

	_, err := m.GetCredential(context.Background(), &domain.AuthContext{Mode: domain.Application}, domain.ApplicationCredential)
	require.NoError(t, err)

	stats = m.Stats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, 10, stats.MaxSize)
}
