// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for
// libsql-shell.
//
// Supports both TOML and YAML configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ShellConfig: Prompts and result display settings
//   - HistoryConfig: History file location and filtering
//   - Watcher: Reloads the config file when it changes
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command-line flags (applied by the cli package)
//   - Environment variables (LIBSQL_SHELL_*)
//   - --config FILE, or ~/.libsql-shell/config.toml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load(afero.NewOsFs(), "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Follow edits while the shell runs:
//
//	w, _ := config.NewWatcher(fs, path, logger)
//	_ = w.Watch()
//	defer w.Close()
//	for cfg := range w.Updates() { ... }
package config
