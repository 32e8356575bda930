// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the libsql-shell command line and interactive shell.
//
// The root command loads configuration, opens the database and runs a Shell,
// which pulls logical inputs from an input.Reader and either dispatches a
// dot-command or executes a SQL statement.
//
// # Key Types
//
//   - Shell: The read-execute loop
//   - Settings: Display options changed by dot-commands
//   - CommandError, UsageError, ConfigError: Structured errors with exit codes
//
// # Usage
//
//	func main() {
//	    os.Exit(cli.Execute())
//	}
//
// # Dot-Commands
//
//   - .echo on|off, .headers on|off, .nullvalue STRING: display settings
//   - .tables ?PATTERN?, .indexes ?TABLE?: schema listings
//   - .prompt MAIN ?CONTINUE?: replace the prompts
//   - .print, .show, .help, .quit
package cli
