// Copyright 2026 The Ask Authors
// SPDX-License-Identifier: MIT

// Package config loads and persists ask's configuration file.
//
// Configuration is resolved in three layers: built-in defaults, the
// config file, then environment variables. Command-line flags are applied
// on top by the cmd layer. The resulting Config value is immutable for
// the life of the process; the core packages receive it by value and
// never read ambient state themselves.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultModel is used when neither file, environment, nor flags name one.
	DefaultModel = "gpt-5.2-chat-latest"

	// DefaultTokenLimit is the conversation token budget for the default model.
	DefaultTokenLimit = 128000

	// DefaultTemperature matches the remote API's sampling default.
	DefaultTemperature = 0.7
)

// Environment variables honored by Load. ASK_GLOBAL_MODEL predates
// ASK_MODEL and is kept for compatibility with existing setups.
const (
	EnvAPIKey      = "OPENAI_API_KEY"
	EnvBaseURL     = "OPENAI_BASE_URL"
	EnvModel       = "ASK_MODEL"
	EnvModelLegacy = "ASK_GLOBAL_MODEL"
	EnvTokenLimit  = "ASK_TOKEN_LIMIT"
)

// Config is the persisted configuration plus per-run settings.
type Config struct {
	APIKey         string  `toml:"api_key,omitempty"`
	Model          string  `toml:"model"`
	BaseURL        string  `toml:"base_url,omitempty"`
	Temperature    float64 `toml:"temperature"`
	TokenLimit     int     `toml:"token_limit"`
	Persona        string  `toml:"persona,omitempty"`
	TimeoutSeconds int     `toml:"timeout_seconds,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		TokenLimit:  DefaultTokenLimit,
	}
}

// Timeout converts TimeoutSeconds to a duration. Zero means no
// client-side timeout; the transport's own behavior applies.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks invariants the core depends on.
func (c Config) Validate() error {
	if c.TokenLimit <= 0 {
		return fmt.Errorf("config: token_limit must be positive, got %d", c.TokenLimit)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config: temperature must be in [0, 2], got %g", c.Temperature)
	}
	if c.Model == "" {
		return fmt.Errorf("config: model must not be empty")
	}
	return nil
}

// Load resolves the configuration from defaults, the config file at
// Path (if present), and the environment, in that order.
func Load() (Config, error) {
	cfg, err := LoadFile(Path())
	if err != nil {
		return Config{}, err
	}
	return cfg.withEnv(os.LookupEnv), nil
}

// LoadFile reads a config file over the defaults. A missing file is not
// an error; the defaults are returned unchanged.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	for _, key := range meta.Undecoded() {
		slog.Warn("unknown config key ignored", "key", key.String(), "file", path)
	}
	return cfg, nil
}

func (c Config) withEnv(lookup func(string) (string, bool)) Config {
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		c.APIKey = v
	}
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := lookup(EnvModel); ok && v != "" {
		c.Model = v
	} else if v, ok := lookup(EnvModelLegacy); ok && v != "" {
		c.Model = v
	}
	if v, ok := lookup(EnvTokenLimit); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.TokenLimit = n
		}
	}
	return c
}
