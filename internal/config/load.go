package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads path as YAML into a Config seeded with Default(), then applies
// environment-variable overrides, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) // #nosec G304 - config path is operator-supplied, not request input
	if err != nil {
		return Config{}, fmt.Errorf("config: reading file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing file: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: applying environment overrides: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config: validating: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides overrides cfg's fields with environment variables, when
// set, failing fast on a malformed value rather than silently ignoring it.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("CLIENTPOOL_CACHE_KEY_PREFIX"); v != "" {
		cfg.Cache.KeyPrefix = v
	}
	if err := overrideInt64(&cfg.Cache.ClientCacheSlidingTTL, "CLIENTPOOL_CLIENT_CACHE_SLIDING_TTL_MS"); err != nil {
		return err
	}
	if err := overrideInt(&cfg.Cache.ClientCacheMaxSize, "CLIENTPOOL_CLIENT_CACHE_MAX_SIZE"); err != nil {
		return err
	}
	if err := overrideInt64(&cfg.Cache.ClientCacheBufferMs, "CLIENTPOOL_CLIENT_CACHE_BUFFER_MS"); err != nil {
		return err
	}
	if err := overrideInt64(&cfg.Cache.CredentialCacheSlidingTTL, "CLIENTPOOL_CREDENTIAL_CACHE_SLIDING_TTL_MS"); err != nil {
		return err
	}
	if err := overrideInt(&cfg.Cache.CredentialCacheMaxSize, "CLIENTPOOL_CREDENTIAL_CACHE_MAX_SIZE"); err != nil {
		return err
	}
	if err := overrideInt64(&cfg.Cache.CredentialCacheAbsoluteTTL, "CLIENTPOOL_CREDENTIAL_CACHE_ABSOLUTE_TTL_MS"); err != nil {
		return err
	}

	if v := os.Getenv("CLIENTPOOL_APPLICATION_STRATEGY"); v != "" {
		cfg.Auth.ApplicationStrategy = ApplicationStrategyKind(v)
	}
	if v := os.Getenv("CLIENTPOOL_TENANT_ID"); v != "" {
		cfg.Auth.TenantID = v
	}
	if v := os.Getenv("CLIENTPOOL_CLIENT_ID"); v != "" {
		cfg.Auth.ClientID = v
	}
	if v := os.Getenv("CLIENTPOOL_WORKLOAD_SOCKET"); v != "" {
		cfg.Auth.WorkloadSocket = v
	}
	if v := os.Getenv("CLIENTPOOL_AUDIENCE"); v != "" {
		cfg.Auth.Audience = v
	}
	if v := os.Getenv("CLIENTPOOL_CLI_COMMAND"); v != "" {
		cfg.Auth.CLICommand = v
	}
	if v := os.Getenv("CLIENTPOOL_CLI_ARGS_TEMPLATE"); v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		cfg.Auth.CLIArgsTemplate = parts
	}

	return nil
}

func overrideInt64(dst *int64, env string) error {
	v := os.Getenv(env)
	if v == "" {
		return nil
	}
	parsed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", env, v, err)
	}
	*dst = parsed
	return nil
}

func overrideInt(dst *int, env string) error {
	v := os.Getenv(env)
	if v == "" {
		return nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", env, v, err)
	}
	*dst = parsed
	return nil
}
