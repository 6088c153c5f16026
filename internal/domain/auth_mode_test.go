package domain_test

import (
	"testing"

	"github.com/jhzhu89/azure-client-pool/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestAuthMode_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode domain.AuthMode
		want bool
	}{
		{domain.Application, true},
		{domain.Delegated, true},
		{domain.Composite, true},
		{domain.AuthMode(""), false},
		{domain.AuthMode("bogus"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.mode.IsValid(), "mode %q", tt.mode)
	}
}

func TestAuthMode_RequiresAssertion(t *testing.T) {
	t.Parallel()

	assert.False(t, domain.Application.RequiresAssertion())
	assert.True(t, domain.Delegated.RequiresAssertion())
	assert.True(t, domain.Composite.RequiresAssertion())
}

func TestAuthMode_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "delegated", domain.Delegated.String())
}
