// Package chain implements an ApplicationStrategy that tries a sequence of
// strategies in order, returning the first success. It mirrors the
// ChainedTokenCredential pattern from Azure's own identity SDK.
package chain

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/jhzhu89/azure-client-pool/internal/domain"
	"github.com/jhzhu89/azure-client-pool/internal/ports"
)

// Strategy tries each of its component strategies in order and returns the
// first successful credential. If every strategy fails, it returns a
// *multierror.Error aggregating all of their failures, in order.
type Strategy struct {
	strategies []ports.ApplicationStrategy
}

// New creates a Strategy that tries strategies in the given order. It
// panics if called with no strategies — a chain of zero links can never
// succeed, which almost certainly indicates a wiring bug rather than an
// intended empty chain.
func New(strategies ...ports.ApplicationStrategy) *Strategy {
	if len(strategies) == 0 {
		panic("chain: at least one strategy is required")
	}
	return &Strategy{strategies: strategies}
}

// AcquireApplicationCredential tries each configured strategy in order,
// returning the first success.
func (s *Strategy) AcquireApplicationCredential(ctx context.Context, tenantID string) (*domain.Credential, error) {
	var errs *multierror.Error

	for _, strategy := range s.strategies {
		cred, err := strategy.AcquireApplicationCredential(ctx, tenantID)
		if err == nil {
			return cred, nil
		}
		errs = multierror.Append(errs, err)
	}

	return nil, errs.ErrorOrNil()
}
