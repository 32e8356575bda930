// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/libsql-shell/internal/input"
	"github.com/jeranaias/libsql-shell/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete shell configuration.
type Config struct {
	Shell    ShellConfig    `toml:"shell" yaml:"shell"`
	History  HistoryConfig  `toml:"history" yaml:"history"`
	Database DatabaseConfig `toml:"database" yaml:"database"`
	Log      LogConfig      `toml:"log" yaml:"log"`
}

// ShellConfig holds the settings the dot-commands can also change at
// runtime.
type ShellConfig struct {
	MainPrompt         string `toml:"main_prompt" yaml:"main_prompt"`
	ContinuationPrompt string `toml:"continuation_prompt" yaml:"continuation_prompt"`
	// Headers shows column names above query results.
	Headers bool `toml:"headers" yaml:"headers"`
	// Echo prints each statement before it runs.
	Echo bool `toml:"echo" yaml:"echo"`
	// NullValue is printed in place of SQL NULL.
	NullValue string `toml:"null_value" yaml:"null_value"`
}

// HistoryConfig controls the persistent input history.
type HistoryConfig struct {
	// File is the history location. Empty means ~/.libsql_history.
	File string `toml:"file" yaml:"file"`
	// Disabled turns off loading and recording history.
	Disabled bool `toml:"disabled" yaml:"disabled"`
	// IgnoreSpace keeps lines that start with a space out of history.
	IgnoreSpace bool `toml:"ignore_space" yaml:"ignore_space"`
}

// DatabaseConfig selects the database opened at startup.
type DatabaseConfig struct {
	// Path is a database file or ":memory:".
	Path string `toml:"path" yaml:"path"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// HistoryFilename is the name of the history file in the home directory.
const HistoryFilename = ".libsql_history"

// MemoryDatabase is the path of a private in-memory database.
const MemoryDatabase = ":memory:"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Shell: ShellConfig{
			MainPrompt:         input.MainPrompt,
			ContinuationPrompt: input.ContinuationPrompt,
			Headers:            true,
		},
		History: HistoryConfig{
			File: DefaultHistoryPath(),
		},
		Database: DatabaseConfig{
			Path: MemoryDatabase,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".libsql-shell"), nil
}

// DefaultPath returns the path of the default TOML config file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultHistoryPath returns ~/.libsql_history, or a relative
// .libsql_history when the home directory is unknown.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return HistoryFilename
	}
	return filepath.Join(home, HistoryFilename)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the configuration at path on fs. An empty path means the
// default location, which may be absent. Environment overrides are applied
// after the file, then the result is validated.
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := afero.ReadFile(fs, path)
		switch {
		case err == nil:
			if err := decode(cfg, path, data); err != nil {
				return nil, err
			}
		case os.IsNotExist(err) && !explicit:
			// No config file: defaults.
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decode(cfg *Config, path string, data []byte) error {
	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode YAML file %s: %w", path, err)
		}
		return nil
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to path atomically, as YAML for .yaml/.yml paths and TOML
// otherwise.
func Save(fs afero.Fs, cfg *Config, path string) error {
	var buf bytes.Buffer
	if isYAML(path) {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
	} else {
		fmt.Fprintln(&buf, "# libsql-shell configuration file")
		fmt.Fprintln(&buf, "")
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
	}

	if err := util.AtomicWriteFile(fs, path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// String renders the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("error encoding config: %v", err)
	}
	return buf.String()
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects every validation failure.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for values the shell cannot use.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if strings.ContainsAny(c.Shell.MainPrompt, "\r\n") {
		errs = append(errs, ValidationError{"shell.main_prompt", "must be a single line"})
	}
	if strings.ContainsAny(c.Shell.ContinuationPrompt, "\r\n") {
		errs = append(errs, ValidationError{"shell.continuation_prompt", "must be a single line"})
	}
	if c.Database.Path == "" {
		errs = append(errs, ValidationError{"database.path", "must not be empty"})
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, ValidationError{"log.level", fmt.Sprintf("unknown level %q", c.Log.Level)})
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// IsValidationError reports whether err came from Validate.
func IsValidationError(err error) bool {
	var verrs ValidateErrors
	return errors.As(err, &verrs)
}

// SetDefaults fills values that must never be empty.
func (c *Config) SetDefaults() {
	if c.History.File == "" {
		c.History.File = DefaultHistoryPath()
	}
	if c.Database.Path == "" {
		c.Database.Path = MemoryDatabase
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - LIBSQL_SHELL_HISTORY: overrides history.file
//   - LIBSQL_SHELL_DATABASE: overrides database.path
//   - LIBSQL_SHELL_LOG_LEVEL: overrides log.level
//   - LIBSQL_SHELL_PROMPT: overrides shell.main_prompt
func (c *Config) ApplyEnvOverrides() {
	if path := os.Getenv("LIBSQL_SHELL_HISTORY"); path != "" {
		c.History.File = path
	}
	if db := os.Getenv("LIBSQL_SHELL_DATABASE"); db != "" {
		c.Database.Path = db
	}
	if level := os.Getenv("LIBSQL_SHELL_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if prompt := os.Getenv("LIBSQL_SHELL_PROMPT"); prompt != "" {
		c.Shell.MainPrompt = prompt
	}
}
