// Package managedidentity implements an ApplicationStrategy backed by a
// platform-issued workload identity, fetched over the SPIFFE Workload API —
// the closest real analogue in the retrieval pack to a cloud managed
// identity endpoint.
package managedidentity

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spiffe/go-spiffe/v2/svid/jwtsvid"
	"github.com/spiffe/go-spiffe/v2/workloadapi"
	"golang.org/x/oauth2"

	"github.com/jhzhu89/azure-client-pool/internal/domain"
)

// Config configures the Workload API connection used to fetch a JWT-SVID
// standing in for a managed-identity access token.
type Config struct {
	// WorkloadSocket is the SPIRE agent's Workload API socket address. A
	// bare filesystem path is normalized to a unix:// address. Empty means
	// "let the SDK resolve SPIFFE_ENDPOINT_SOCKET".
	WorkloadSocket string

	// Audience is the intended audience of the fetched JWT-SVID, mirroring
	// the resource/scope parameter of a managed-identity token request.
	Audience string
}

// Strategy fetches a fresh JWT-SVID from the Workload API on every
// invocation and adapts it into an application credential. It maintains its
// own long-lived Workload API client, opened lazily and reused across
// calls; the pool's own ttlcache is what actually bounds how often this
// strategy's AcquireApplicationCredential runs.
type Strategy struct {
	cfg Config

	mu     sync.Mutex
	client *workloadapi.Client
}

// New creates a Strategy from cfg. The Workload API connection is
// established lazily on first use, not here, so constructing a Strategy
// never blocks on an unavailable agent socket.
func New(cfg Config) *Strategy {
	return &Strategy{cfg: cfg}
}

// AcquireApplicationCredential fetches a JWT-SVID scoped to the configured
// audience and adapts it into a domain.Credential. tenantID is accepted for
// interface conformance but unused: workload identity is process-scoped,
// not tenant-scoped.
func (s *Strategy) AcquireApplicationCredential(ctx context.Context, tenantID string) (*domain.Credential, error) {
	client, err := s.clientFor(ctx)
	if err != nil {
		return nil, fmt.Errorf("managedidentity: connecting to workload API: %w", err)
	}

	svid, err := client.FetchJWTSVID(ctx, jwtsvid.Params{Audience: s.cfg.Audience})
	if err != nil {
		return nil, fmt.Errorf("managedidentity: fetching JWT-SVID: %w", err)
	}

	return &domain.Credential{
		Kind: domain.ApplicationCredential,
		Token: &oauth2.Token{
			AccessToken: svid.Marshal(),
			TokenType:   "Bearer",
			Expiry:      svid.Expiry,
		},
		Principal: svid.ID.String(),
	}, nil
}

func (s *Strategy) clientFor(ctx context.Context) (*workloadapi.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	var opts []workloadapi.ClientOption
	if s.cfg.WorkloadSocket != "" {
		opts = append(opts, workloadapi.WithAddr(normalizeToAddr(s.cfg.WorkloadSocket)))
	}

	client, err := workloadapi.New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	s.client = client
	return client, nil
}

// Close releases the underlying Workload API connection, if one was opened.
func (s *Strategy) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

func normalizeToAddr(raw string) string {
	if strings.HasPrefix(raw, "unix://") || strings.HasPrefix(raw, "tcp://") {
		return raw
	}
	return "unix://" + raw
}
