// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets the override variables for the duration of a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LIBSQL_SHELL_HISTORY",
		"LIBSQL_SHELL_DATABASE",
		"LIBSQL_SHELL_LOG_LEVEL",
		"LIBSQL_SHELL_PROMPT",
	} {
		t.Setenv(key, "")
	}
}

// TestConfig_Default tests that Default() returns a valid config with defaults.
func TestConfig_Default(t *testing.T) {
	cfg := Default()

	if cfg.Shell.MainPrompt != "libsql> " {
		t.Errorf("Expected main prompt %q, got %q", "libsql> ", cfg.Shell.MainPrompt)
	}
	if cfg.Shell.ContinuationPrompt != "   ...> " {
		t.Errorf("Expected continuation prompt %q, got %q", "   ...> ", cfg.Shell.ContinuationPrompt)
	}
	if !cfg.Shell.Headers {
		t.Error("Headers should be on by default")
	}
	if filepath.Base(cfg.History.File) != HistoryFilename {
		t.Errorf("History file should be named %s, got %s", HistoryFilename, cfg.History.File)
	}
	if cfg.Database.Path != MemoryDatabase {
		t.Errorf("Expected in-memory database, got %q", cfg.Database.Path)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

// TestConfig_Validate tests configuration validation.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid default config",
			mutate: func(c *Config) {},
		},
		{
			name:    "multi-line prompt",
			mutate:  func(c *Config) { c.Shell.MainPrompt = "a\nb> " },
			wantErr: "shell.main_prompt",
		},
		{
			name:    "multi-line continuation prompt",
			mutate:  func(c *Config) { c.Shell.ContinuationPrompt = "\r..> " },
			wantErr: "shell.continuation_prompt",
		},
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Log.Level = "chatty" },
			wantErr: "log.level",
		},
		{
			name:   "empty prompt is allowed",
			mutate: func(c *Config) { c.Shell.MainPrompt = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateCollectsAll(t *testing.T) {
	c := Default()
	c.Database.Path = ""
	c.Log.Level = "nope"

	err := c.Validate()
	require.Error(t, err)
	verrs, ok := err.(ValidateErrors)
	require.True(t, ok)
	assert.Len(t, verrs, 2)
}

// =============================================================================
// LOAD TESTS
// =============================================================================

func TestLoad_TOML(t *testing.T) {
	clearEnv(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/shell.toml", []byte(`
[shell]
main_prompt = "db> "
echo = true
null_value = "NULL"

[history]
file = "/tmp/hist"
ignore_space = true

[database]
path = "/data/app.db"
`), 0644))

	cfg, err := Load(fs, "/etc/shell.toml")
	require.NoError(t, err)

	assert.Equal(t, "db> ", cfg.Shell.MainPrompt)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, "   ...> ", cfg.Shell.ContinuationPrompt)
	assert.True(t, cfg.Shell.Headers)
	assert.True(t, cfg.Shell.Echo)
	assert.Equal(t, "NULL", cfg.Shell.NullValue)
	assert.Equal(t, "/tmp/hist", cfg.History.File)
	assert.True(t, cfg.History.IgnoreSpace)
	assert.Equal(t, "/data/app.db", cfg.Database.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/shell.yaml", []byte(`
shell:
  headers: false
history:
  disabled: true
log:
  level: debug
`), 0644))

	cfg, err := Load(fs, "/etc/shell.yaml")
	require.NoError(t, err)

	assert.False(t, cfg.Shell.Headers)
	assert.True(t, cfg.History.Disabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "libsql> ", cfg.Shell.MainPrompt)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(afero.NewMemMapFs(), "/nowhere/config.toml")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_DefaultLocationMissing(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(afero.NewMemMapFs(), "")
	require.NoError(t, err)
	assert.Equal(t, Default().Shell, cfg.Shell)
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.toml", []byte("[shell\nmain_prompt = "), 0644))

	_, err := Load(fs, "/bad.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode TOML")
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/c.toml", []byte("[log]\nlevel = \"loud\"\n"), 0644))

	_, err := Load(fs, "/c.toml")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LIBSQL_SHELL_HISTORY", "/env/hist")
	t.Setenv("LIBSQL_SHELL_DATABASE", "/env/db.sqlite")
	t.Setenv("LIBSQL_SHELL_LOG_LEVEL", "trace")
	t.Setenv("LIBSQL_SHELL_PROMPT", "env> ")

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/c.toml", []byte("[database]\npath = \"/file.db\"\n"), 0644))

	cfg, err := Load(fs, "/c.toml")
	require.NoError(t, err)

	assert.Equal(t, "/env/hist", cfg.History.File)
	assert.Equal(t, "/env/db.sqlite", cfg.Database.Path)
	assert.Equal(t, "trace", cfg.Log.Level)
	assert.Equal(t, "env> ", cfg.Shell.MainPrompt)
}

func TestConfig_SetDefaults(t *testing.T) {
	c := &Config{}
	c.SetDefaults()
	assert.NotEmpty(t, c.History.File)
	assert.Equal(t, MemoryDatabase, c.Database.Path)
	assert.Equal(t, "warn", c.Log.Level)
}

// =============================================================================
// SAVE TESTS
// =============================================================================

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	for _, path := range []string{"/home/me/.libsql-shell/config.toml", "/home/me/shell.yml"} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			fs := afero.NewMemMapFs()
			want := Default()
			want.Shell.NullValue = "∅"
			want.Shell.Echo = true
			want.History.File = "/h"

			require.NoError(t, Save(fs, want, path))
			got, err := Load(fs, path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestSave_TOMLHeader(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, Save(fs, Default(), "/c.toml"))

	data, err := afero.ReadFile(fs, "/c.toml")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# libsql-shell configuration file"))
	assert.Contains(t, string(data), "[shell]")
}

func TestConfig_String(t *testing.T) {
	c := Default()
	assert.Contains(t, c.String(), `main_prompt = "libsql> "`)
	assert.Contains(t, c.String(), `level = "warn"`)
}

// =============================================================================
// WATCHER TESTS
// =============================================================================

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	fs := afero.NewOsFs()
	require.NoError(t, Save(fs, Default(), path))

	logger, _ := test.NewNullLogger()
	w, err := NewWatcher(fs, path, logrus.NewEntry(logger))
	require.NoError(t, err)
	require.NoError(t, w.Watch())
	defer w.Close()

	updated := Default()
	updated.Shell.MainPrompt = "reloaded> "
	require.NoError(t, Save(fs, updated, path))

	select {
	case cfg := <-w.Updates():
		assert.Equal(t, "reloaded> ", cfg.Shell.MainPrompt)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after config change")
	}
}

func TestWatcher_SkipsInvalidEdit(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	fs := afero.NewOsFs()
	require.NoError(t, Save(fs, Default(), path))

	logger, hook := test.NewNullLogger()
	w, err := NewWatcher(fs, path, logrus.NewEntry(logger))
	require.NoError(t, err)
	require.NoError(t, w.Watch())
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"loud\"\n"), 0600))

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if e := hook.LastEntry(); e != nil && e.Message == "config change ignored" {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case cfg := <-w.Updates():
		t.Fatalf("unexpected update %+v", cfg)
	default:
	}
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "config change ignored", hook.LastEntry().Message)
}

