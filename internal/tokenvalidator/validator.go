package tokenvalidator

import (
	"context"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/jhzhu89/azure-client-pool/internal/domain"
)

// tenantClaim is the custom claim this adapter reads the tenant identifier
// from. Azure AD v2 tokens carry the tenant under "tid".
const tenantClaim = "tid"

// Validator parses and, when a key set is configured, cryptographically
// verifies a raw bearer assertion into a domain.UserAssertion.
type Validator interface {
	Validate(ctx context.Context, rawToken string) (*domain.UserAssertion, error)
}

// JWXValidator implements Validator on top of lestrrat-go/jwx. The JWKS
// fetch and refresh policy is out of scope here: callers hand this adapter
// an already-built jwk.Set (e.g. fetched once at startup, or refreshed by
// an external cache) rather than a JWKS URI.
type JWXValidator struct {
	keySet jwk.Set
}

// New creates a JWXValidator. A nil keySet means tokens are parsed but
// never cryptographically verified — intended only for local development
// against a trusted token source, never for production traffic.
func New(keySet jwk.Set) *JWXValidator {
	return &JWXValidator{keySet: keySet}
}

// Validate parses rawToken and, when a key set was configured, verifies its
// signature and validates its time claims with jwx; a token whose "exp" is
// already in the past then fails with jwx's own validation error, wrapped,
// not with domain.ErrTokenExpired. With a nil key set the claims are not
// validated, so an expired token is returned as parsed.
func (v *JWXValidator) Validate(ctx context.Context, rawToken string) (*domain.UserAssertion, error) {
	opts := []jwt.ParseOption{jwt.WithContext(ctx)}
	if v.keySet != nil {
		opts = append(opts, jwt.WithKeySet(v.keySet), jwt.WithValidate(true))
	} else {
		opts = append(opts, jwt.WithVerify(false), jwt.WithValidate(false))
	}

	token, err := jwt.ParseString(rawToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("tokenvalidator: parsing assertion: %w", err)
	}

	rawTenantID, ok := token.Get(tenantClaim)
	if !ok {
		return nil, fmt.Errorf("%w: assertion missing %q claim", domain.ErrMissingTenant, tenantClaim)
	}
	tenantID, ok := rawTenantID.(string)
	if !ok {
		return nil, fmt.Errorf("%w: assertion missing %q claim", domain.ErrMissingTenant, tenantClaim)
	}

	if token.Subject() == "" {
		return nil, domain.ErrMissingUser
	}

	return &domain.UserAssertion{
		RawToken:  rawToken,
		Subject:   token.Subject(),
		TenantID:  tenantID,
		ExpiresAt: token.Expiration(),
	}, nil
}
