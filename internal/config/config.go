// Package config loads the pool's cache and auth sections from a YAML file
// plus environment-variable overrides, and validates the result before a
// Pool is constructed. Configuration is resolved once; a running Pool never
// observes later changes to the file or the environment.
package config

import "time"

// CacheSection bounds and tunes the two-level cache (clients and
// application credentials).
type CacheSection struct {
	// KeyPrefix prefixes every raw cache key. Defaults to "client".
	KeyPrefix string `yaml:"key_prefix"`

	// ClientCacheSlidingTTL is the default sliding TTL for cached clients,
	// in milliseconds.
	ClientCacheSlidingTTL int64 `yaml:"client_cache_sliding_ttl"`

	// ClientCacheMaxSize bounds the number of concurrently cached clients.
	ClientCacheMaxSize int `yaml:"client_cache_max_size"`

	// ClientCacheBufferMs is the safety buffer subtracted from a
	// token-bound assertion's remaining lifetime when deriving a client's
	// custom TTL.
	ClientCacheBufferMs int64 `yaml:"client_cache_buffer_ms"`

	// CredentialCacheSlidingTTL is the sliding TTL for cached application
	// credentials, in milliseconds.
	CredentialCacheSlidingTTL int64 `yaml:"credential_cache_sliding_ttl"`

	// CredentialCacheMaxSize bounds the number of cached application
	// credentials.
	CredentialCacheMaxSize int `yaml:"credential_cache_max_size"`

	// CredentialCacheAbsoluteTTL is the hard expiry for cached application
	// credentials, in milliseconds, regardless of access pattern.
	CredentialCacheAbsoluteTTL int64 `yaml:"credential_cache_absolute_ttl"`
}

// ApplicationStrategyKind selects which default ApplicationStrategy
// adapter a Pool built from this config wires in.
type ApplicationStrategyKind string

const (
	StrategyCLI             ApplicationStrategyKind = "cli"
	StrategyManagedIdentity ApplicationStrategyKind = "managed-identity"
	StrategyChain           ApplicationStrategyKind = "chain"
)

// AuthSection configures the default application credential strategy.
type AuthSection struct {
	ApplicationStrategy ApplicationStrategyKind `yaml:"application_strategy"`
	TenantID            string                  `yaml:"tenant_id"`
	ClientID            string                  `yaml:"client_id"`

	// WorkloadSocket and Audience configure the managed-identity strategy,
	// when selected.
	WorkloadSocket string `yaml:"workload_socket"`
	Audience       string `yaml:"audience"`

	// CLICommand and CLIArgsTemplate configure the cli strategy, when
	// selected.
	CLICommand      string   `yaml:"cli_command"`
	CLIArgsTemplate []string `yaml:"cli_args_template"`
}

// Config is the fully resolved configuration for a Pool.
type Config struct {
	Cache CacheSection `yaml:"cache"`
	Auth  AuthSection  `yaml:"auth"`
}

// Default returns a Config with the documented defaults. Load unmarshals the
// YAML file over it, so every field the file leaves unset keeps its default.
func Default() Config {
	return Config{
		Cache: CacheSection{
			KeyPrefix:                  "client",
			ClientCacheSlidingTTL:      60_000,
			ClientCacheMaxSize:         1000,
			ClientCacheBufferMs:        5_000,
			CredentialCacheSlidingTTL:  600_000,
			CredentialCacheMaxSize:     100,
			CredentialCacheAbsoluteTTL: 3_600_000,
		},
		Auth: AuthSection{
			ApplicationStrategy: StrategyCLI,
		},
	}
}

// ClientCacheSlidingTTLDuration returns ClientCacheSlidingTTL as a
// time.Duration.
func (c CacheSection) ClientCacheSlidingTTLDuration() time.Duration {
	return time.Duration(c.ClientCacheSlidingTTL) * time.Millisecond
}

// ClientCacheBufferDuration returns ClientCacheBufferMs as a
// time.Duration.
func (c CacheSection) ClientCacheBufferDuration() time.Duration {
	return time.Duration(c.ClientCacheBufferMs) * time.Millisecond
}

// CredentialCacheSlidingTTLDuration returns CredentialCacheSlidingTTL as a
// time.Duration.
func (c CacheSection) CredentialCacheSlidingTTLDuration() time.Duration {
	return time.Duration(c.CredentialCacheSlidingTTL) * time.Millisecond
}

// CredentialCacheAbsoluteTTLDuration returns CredentialCacheAbsoluteTTL as
// a time.Duration.
func (c CacheSection) CredentialCacheAbsoluteTTLDuration() time.Duration {
	return time.Duration(c.CredentialCacheAbsoluteTTL) * time.Millisecond
}
