package domain

import (
	"fmt"
	"time"
)

// Validate is the Auth-Request Adapter (spec §4.6): the only place a raw
// AuthRequest is accepted and turned into an AuthContext. Downstream
// components (the client pool, the credential manager) receive only
// pre-validated AuthContext values.
//
// Application requests are always valid. Delegated and Composite requests
// require a non-nil assertion with non-empty TenantID and Subject, and an
// ExpiresAt strictly after now.
func Validate(req AuthRequest, now time.Time) (*AuthContext, error) {
	if !req.Mode.IsValid() {
		return nil, fmt.Errorf("%w: unrecognized auth mode %q", ErrInternal, req.Mode)
	}

	if req.Mode == Application {
		return &AuthContext{Mode: Application}, nil
	}

	if req.Assertion == nil {
		return nil, ErrMissingUser
	}
	if req.Assertion.TenantID == "" {
		return nil, ErrMissingTenant
	}
	if req.Assertion.Subject == "" {
		return nil, ErrMissingUser
	}
	if req.Assertion.IsExpired(now) {
		return nil, ErrTokenExpired
	}

	assertion := *req.Assertion
	return &AuthContext{
		Mode:         req.Mode,
		TenantID:     assertion.TenantID,
		UserObjectID: assertion.Subject,
		Assertion:    &assertion,
	}, nil
}
