// Package cli implements an ApplicationStrategy that shells out to an
// external credential-issuing CLI and parses its stdout as a JSON token
// payload — the same shape the Azure CLI's `az account get-access-token`
// emits. No ecosystem library in the retrieval pack wraps "exec a process
// and parse its JSON stdout" more specifically than os/exec plus
// encoding/json, so this adapter uses both directly.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/jhzhu89/azure-client-pool/internal/domain"
)

// tokenPayload is the JSON shape the configured CLI is expected to emit on
// stdout: an access token, its type, and an absolute expiry.
type tokenPayload struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresOn   time.Time `json:"expiresOn"`
}

// Config names the external binary and the arguments used to request a
// token, plus the tenant/client identifiers substituted into those
// arguments via the indexed verbs %[1]s (tenant) and %[2]s (client).
type Config struct {
	// Command is the executable to invoke, e.g. "az".
	Command string

	// Args are passed to Command as-is. Use ArgsTemplate instead if the
	// tenant/client IDs need to be interpolated into the argument list.
	Args []string

	// ArgsTemplate, when non-nil, is formatted with (tenantID, clientID)
	// via fmt.Sprintf on each element containing a '%' before exec, taking
	// precedence over Args. Both IDs are always passed, so an element with a
	// plain %s gets an %!(EXTRA ...) suffix; use %[1]s / %[2]s. Elements
	// with no '%' pass through unchanged.
	ArgsTemplate []string

	TenantID string
	ClientID string
}

// Strategy shells out to Config.Command on every invocation. The pool's own
// ttlcache is what bounds how often that actually happens.
type Strategy struct {
	cfg Config
	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// New creates a Strategy from cfg.
func New(cfg Config) *Strategy {
	return &Strategy{cfg: cfg, run: runCommand}
}

// AcquireApplicationCredential runs the configured CLI and parses its
// stdout as a tokenPayload. tenantID overrides cfg.TenantID for this call
// when non-empty.
func (s *Strategy) AcquireApplicationCredential(ctx context.Context, tenantID string) (*domain.Credential, error) {
	if tenantID == "" {
		tenantID = s.cfg.TenantID
	}

	args := s.cfg.Args
	if s.cfg.ArgsTemplate != nil {
		args = make([]string, len(s.cfg.ArgsTemplate))
		for i, a := range s.cfg.ArgsTemplate {
			if strings.Contains(a, "%") {
				args[i] = fmt.Sprintf(a, tenantID, s.cfg.ClientID)
			} else {
				args[i] = a
			}
		}
	}

	out, err := s.run(ctx, s.cfg.Command, args...)
	if err != nil {
		return nil, fmt.Errorf("cli: running %s: %w", s.cfg.Command, err)
	}

	var payload tokenPayload
	if err := json.Unmarshal(out, &payload); err != nil {
		return nil, fmt.Errorf("cli: parsing token payload: %w", err)
	}
	if payload.AccessToken == "" {
		return nil, fmt.Errorf("cli: %s produced no access token", s.cfg.Command)
	}

	return &domain.Credential{
		Kind: domain.ApplicationCredential,
		Token: &oauth2.Token{
			AccessToken: payload.AccessToken,
			TokenType:   payload.TokenType,
			Expiry:      payload.ExpiresOn,
		},
	}, nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
