package domain_test

import (
	"testing"
	"time"

	"github.com/jhzhu89/azure-client-pool/internal/domain"
	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"
)

func TestCredential_Expired(t *testing.T) {
	t.Parallel()

	t.Run("nil token is expired", func(t *testing.T) {
		t.Parallel()
		c := &domain.Credential{Kind: domain.ApplicationCredential}
		assert.True(t, c.Expired())
	})

	t.Run("token past expiry is expired", func(t *testing.T) {
		t.Parallel()
		c := &domain.Credential{
			Kind: domain.ApplicationCredential,
			Token: &oauth2.Token{
				AccessToken: "token",
				Expiry:      time.Now().Add(-time.Minute),
			},
		}
		assert.True(t, c.Expired())
	})

	t.Run("token with future expiry is not expired", func(t *testing.T) {
		t.Parallel()
		c := &domain.Credential{
			Kind: domain.DelegatedCredential,
			Token: &oauth2.Token{
				AccessToken: "token",
				Expiry:      time.Now().Add(time.Hour),
			},
		}
		assert.False(t, c.Expired())
	})
}
