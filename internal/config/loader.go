package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names and prefix.
const (
	EnvPrefix     = "NUTRIPLAN_"
	EnvConfigFile = EnvPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if NUTRIPLAN_CONFIG is set
//  3. env (prefix NUTRIPLAN_)
func Load(_ context.Context) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Map env keys like NUTRIPLAN_RECOMMENDER_URL -> recommender_url (flat keys).
	// List values are comma separated.
	envProvider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(EnvPrefix))
		if key == "config" {
			return "", nil
		}
		if key == "cors_allowed_origins" {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field combinations that would prevent the service from running.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.RecommendationMode != ModeSequential && c.RecommendationMode != ModeConcurrent:
		return fmt.Errorf("%w: recommendation_mode must be %q or %q, got %q",
			ErrInvalidConfig, ModeSequential, ModeConcurrent, c.RecommendationMode)
	case c.RecommendationConcurrency < 1:
		return fmt.Errorf("%w: recommendation_concurrency must be at least 1", ErrInvalidConfig)
	case c.RecommenderTimeoutMS < 0:
		return fmt.Errorf("%w: recommender_timeout_ms must not be negative", ErrInvalidConfig)
	}
	u, err := url.Parse(c.RecommenderURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: recommender_url must be an absolute URL, got %q", ErrInvalidConfig, c.RecommenderURL)
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
