package config

import (
	"errors"
	"fmt"
)

// Validate checks cfg for the constraints a Pool needs to hold before
// construction: positive TTLs and sizes, a recognized application
// strategy, and that strategy's required fields.
//
// Ensures:
//   - every cache.*_ttl and cache.*_max_size value is positive
//   - auth.application_strategy is one of cli, managed-identity, chain
//   - cli requires auth.cli_command
//   - managed-identity requires auth.audience
func Validate(cfg Config) error {
	if cfg.Cache.KeyPrefix == "" {
		return errors.New("cache.key_prefix must be set")
	}
	if cfg.Cache.ClientCacheSlidingTTL <= 0 {
		return errors.New("cache.client_cache_sliding_ttl must be positive")
	}
	if cfg.Cache.ClientCacheMaxSize <= 0 {
		return errors.New("cache.client_cache_max_size must be positive")
	}
	if cfg.Cache.ClientCacheBufferMs < 0 {
		return errors.New("cache.client_cache_buffer_ms must not be negative")
	}
	if cfg.Cache.CredentialCacheSlidingTTL <= 0 {
		return errors.New("cache.credential_cache_sliding_ttl must be positive")
	}
	if cfg.Cache.CredentialCacheMaxSize <= 0 {
		return errors.New("cache.credential_cache_max_size must be positive")
	}
	if cfg.Cache.CredentialCacheAbsoluteTTL <= 0 {
		return errors.New("cache.credential_cache_absolute_ttl must be positive")
	}

	switch cfg.Auth.ApplicationStrategy {
	case StrategyCLI:
		if cfg.Auth.CLICommand == "" {
			return errors.New("auth.cli_command must be set when auth.application_strategy is \"cli\"")
		}
	case StrategyManagedIdentity:
		if cfg.Auth.Audience == "" {
			return errors.New("auth.audience must be set when auth.application_strategy is \"managed-identity\"")
		}
	case StrategyChain:
		// chain composes cli and managed-identity; require whichever of
		// their fields is set to be internally consistent is left to the
		// caller composing the chain in code, not to this config loader.
	default:
		return fmt.Errorf("auth.application_strategy %q is not recognized", cfg.Auth.ApplicationStrategy)
	}

	return nil
}
