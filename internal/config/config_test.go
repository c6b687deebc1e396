// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberforum/ember/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ember.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, ":4000", cfg.HTTPAddr)
	assert.Equal(t, "127.0.0.1:9100", cfg.MetricsAddr)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_NoFileNoFlags(t *testing.T) {
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default().HTTPAddr, cfg.HTTPAddr)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
http_addr: ":8080"
base_url: "https://forum.example.com"
log_format: text
smtp:
  addr: "smtp.example.com:587"
  from: "noreply@example.com"
`)

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "https://forum.example.com", cfg.BaseURL)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "smtp.example.com:587", cfg.SMTP.Addr)
	// Untouched keys keep their defaults.
	assert.Equal(t, "127.0.0.1:9100", cfg.MetricsAddr)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := writeConfigFile(t, `http_addr: ":8080"`)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("http-addr", ":4000", "")
	flags.String("log-format", "json", "")
	require.NoError(t, flags.Parse([]string{"--http-addr", ":9999"}))

	cfg, err := config.Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTPAddr, "set flag should win over file")
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_EnvironmentSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env-host/ember")
	t.Setenv("EMBER_SESSION_SECRET", "env-secret")
	t.Setenv("EMBER_SMTP_PASSWORD", "env-smtp-pass")

	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env-host/ember", cfg.DatabaseURL)
	assert.Equal(t, "env-secret", cfg.SessionSecret)
	assert.Equal(t, "env-smtp-pass", cfg.SMTP.Password)
}

func TestConfig_Validate(t *testing.T) {
	valid := config.Default()
	valid.DatabaseURL = "postgres://localhost/ember"
	valid.SessionSecret = "secret"

	t.Run("valid config passes", func(t *testing.T) {
		require.NoError(t, valid.Validate())
	})

	t.Run("missing database url", func(t *testing.T) {
		cfg := valid
		cfg.DatabaseURL = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database_url")
	})

	t.Run("missing session secret", func(t *testing.T) {
		cfg := valid
		cfg.SessionSecret = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "session_secret")
	})

	t.Run("non-positive session ttl", func(t *testing.T) {
		cfg := valid
		cfg.SessionTTL = 0
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "session_ttl")
	})
}
