package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategy_AcquireApplicationCredential_ParsesPayload(t *testing.T) {
	t.Parallel()

	expiresOn := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	s := New(Config{Command: "az", TenantID: "tenant-1"})
	s.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		assert.Equal(t, "az", name)
		return []byte(`{"accessToken":"token-abc","tokenType":"Bearer","expiresOn":"2026-06-01T00:00:00Z"}`), nil
	}

	cred, err := s.AcquireApplicationCredential(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, cred.Token)
	assert.Equal(t, "token-abc", cred.Token.AccessToken)
	assert.Equal(t, "Bearer", cred.Token.TokenType)
	assert.True(t, expiresOn.Equal(cred.Token.Expiry))
}

func TestStrategy_AcquireApplicationCredential_CommandFailurePropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("exit status 1")
	s := New(Config{Command: "az"})
	s.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, boom
	}

	_, err := s.AcquireApplicationCredential(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestStrategy_AcquireApplicationCredential_EmptyTokenIsError(t *testing.T) {
	t.Parallel()

	s := New(Config{Command: "az"})
	s.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte(`{"accessToken":""}`), nil
	}

	_, err := s.AcquireApplicationCredential(context.Background(), "")
	require.Error(t, err)
}

func TestStrategy_ArgsTemplateInterpolatesTenantAndClient(t *testing.T) {
	t.Parallel()

	s := New(Config{
		Command:      "az",
		ArgsTemplate: []string{"account", "get-access-token", "--tenant", "%[1]s", "--client-id", "%[2]s"},
		TenantID:     "tenant-1",
		ClientID:     "client-1",
	})

	var gotArgs []string
	s.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = args
		return []byte(`{"accessToken":"tok"}`), nil
	}

	_, err := s.AcquireApplicationCredential(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"account", "get-access-token", "--tenant", "tenant-1", "--client-id", "client-1"}, gotArgs)
}
