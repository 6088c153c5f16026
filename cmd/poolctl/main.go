// Command poolctl is a minimal wiring demonstration: it loads a pool
// configuration file, builds the configured ApplicationStrategy, and
// fetches one application-credentialed *http.Client to prove the wiring
// works end to end. It is not a feature-bearing binary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/oauth2"

	clientpool "github.com/jhzhu89/azure-client-pool"
	"github.com/jhzhu89/azure-client-pool/internal/config"
	"github.com/jhzhu89/azure-client-pool/internal/credential"
	"github.com/jhzhu89/azure-client-pool/internal/obslog"
	"github.com/jhzhu89/azure-client-pool/internal/ports"
	"github.com/jhzhu89/azure-client-pool/internal/strategy/chain"
	"github.com/jhzhu89/azure-client-pool/internal/strategy/cli"
	"github.com/jhzhu89/azure-client-pool/internal/strategy/managedidentity"
)

func main() {
	configPath := flag.String("config", "poolctl.yaml", "Path to pool config file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	obslog.SetLogger(logger)

	if err := run(*configPath, logger); err != nil {
		logger.Error("poolctl: run failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return &clientpool.Error{Code: clientpool.ConfigurationInvalid, Message: "loading pool config", Cause: err}
	}

	appStrategy, err := buildApplicationStrategy(cfg.Auth)
	if err != nil {
		return &clientpool.Error{Code: clientpool.ConfigurationInvalid, Message: "building application strategy", Cause: err}
	}

	credManager := credential.New(
		appStrategy,
		cfg.Cache.KeyPrefix,
		cfg.Cache.CredentialCacheSlidingTTLDuration(),
		cfg.Cache.CredentialCacheMaxSize,
		cfg.Cache.CredentialCacheAbsoluteTTLDuration(),
		credential.WithLogger(logger),
	)

	pool := clientpool.New[*http.Client](
		&httpClientFactory{},
		credManager,
		cfg.Cache.KeyPrefix,
		cfg.Cache.ClientCacheSlidingTTLDuration(),
		cfg.Cache.ClientCacheMaxSize,
		cfg.Cache.ClientCacheBufferDuration(),
		clientpool.WithLogger[*http.Client](logger),
	)

	ctx := context.Background()
	httpClient, err := pool.GetClient(ctx, clientpool.NewApplicationRequest(), nil)
	if err != nil {
		return fmt.Errorf("getting client: %w", err)
	}

	logger.Info("poolctl: acquired client", "timeout", httpClient.Timeout, "stats", pool.Stats())
	return nil
}

func buildApplicationStrategy(auth config.AuthSection) (ports.ApplicationStrategy, error) {
	switch auth.ApplicationStrategy {
	case config.StrategyCLI:
		return cli.New(cli.Config{
			Command:      auth.CLICommand,
			ArgsTemplate: auth.CLIArgsTemplate,
			TenantID:     auth.TenantID,
			ClientID:     auth.ClientID,
		}), nil
	case config.StrategyManagedIdentity:
		return managedidentity.New(managedidentity.Config{
			WorkloadSocket: auth.WorkloadSocket,
			Audience:       auth.Audience,
		}), nil
	case config.StrategyChain:
		return chain.New(
			managedidentity.New(managedidentity.Config{
				WorkloadSocket: auth.WorkloadSocket,
				Audience:       auth.Audience,
			}),
			cli.New(cli.Config{
				Command:      auth.CLICommand,
				ArgsTemplate: auth.CLIArgsTemplate,
				TenantID:     auth.TenantID,
				ClientID:     auth.ClientID,
			}),
		), nil
	default:
		return nil, fmt.Errorf("unrecognized application strategy %q", auth.ApplicationStrategy)
	}
}

// httpClientFactory builds an oauth2-authenticated *http.Client from the
// application credential behind whatever auth context the pool hands it.
type httpClientFactory struct{}

func (f *httpClientFactory) CreateClient(ctx context.Context, creds clientpool.CredentialProvider, options any) (*http.Client, error) {
	cred, err := creds.GetCredential(ctx, clientpool.ApplicationCredential)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(cred.Token)), nil
}

func (f *httpClientFactory) Fingerprint(options any) string {
	return ""
}
