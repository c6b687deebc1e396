// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package config loads service configuration from a YAML file, environment
// variables, and command-line flags, in that order of precedence (last
// wins).
package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// SMTP configures the outbound mail notifier. When Addr is empty, reset
// emails are written to the log instead.
type SMTP struct {
	Addr     string `koanf:"addr"`
	From     string `koanf:"from"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// Config is the full service configuration.
type Config struct {
	HTTPAddr      string        `koanf:"http_addr"`
	MetricsAddr   string        `koanf:"metrics_addr"`
	BaseURL       string        `koanf:"base_url"`
	DatabaseURL   string        `koanf:"database_url"`
	RedisURL      string        `koanf:"redis_url"`
	SessionSecret string        `koanf:"session_secret"`
	SessionTTL    time.Duration `koanf:"session_ttl"`
	CookieSecure  bool          `koanf:"cookie_secure"`
	LogFormat     string        `koanf:"log_format"`
	LogLevel      string        `koanf:"log_level"`
	SMTP          SMTP          `koanf:"smtp"`
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		HTTPAddr:    ":4000",
		MetricsAddr: "127.0.0.1:9100",
		BaseURL:     "http://localhost:3000",
		RedisURL:    "redis://localhost:6379/0",
		SessionTTL:  7 * 24 * time.Hour,
		LogFormat:   "json",
		LogLevel:    "info",
	}
}

// Load builds a Config from defaults, an optional YAML file, environment
// variables, and flags. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		// Flag names use dashes; config keys use underscores.
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	// Secrets come from the environment, never the config file.
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("EMBER_SESSION_SECRET"); v != "" {
		cfg.SessionSecret = v
	}
	if v := os.Getenv("EMBER_SMTP_PASSWORD"); v != "" {
		cfg.SMTP.Password = v
	}

	return cfg, nil
}

// Validate checks that the fields required to serve are present.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database_url is required (set DATABASE_URL)")
	}
	if c.SessionSecret == "" {
		return oops.Code("CONFIG_INVALID").Errorf("session_secret is required (set EMBER_SESSION_SECRET)")
	}
	if c.SessionTTL <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("session_ttl must be positive")
	}
	return nil
}
