// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error types and exit codes for the shell and its subcommands.
//
// STANDARDIZED PATTERN:
//   - Commands return errors; Execute displays them once
//   - Dot-command failures are printed and the shell keeps running
//   - Structured error types select the process exit code

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/libsql-shell/internal/config"
)

// =============================================================================
// EXIT CODES - Specific codes for different error categories
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
)

// =============================================================================
// ERROR TYPES FOR STRUCTURED ERROR HANDLING
// =============================================================================

// CommandError represents a failed shell operation with context.
type CommandError struct {
	Command string // Command that failed (e.g., "open", "config")
	Action  string // Action being performed (e.g., "init", "show")
	Reason  string // Human-readable reason
	Err     error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// UsageError reports a dot-command or flag used with the wrong arguments.
type UsageError struct {
	Command string
	Usage   string
	Reason  string
}

func (e *UsageError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Command, e.Reason)
	if e.Usage != "" {
		msg += fmt.Sprintf("\nUsage: %s", e.Usage)
	}
	return msg
}

// UnknownCommandError is returned for a dot-command the shell does not know.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q. Enter \".help\" for help", e.Name)
}

// ConfigError wraps a failure to load or write the configuration file.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("configuration error: %v", e.Err)
	}
	return fmt.Sprintf("configuration error in %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// errStatementsFailed ends a non-interactive run in which at least one
// statement failed. Each failure has already been printed.
var errStatementsFailed = errors.New("one or more statements failed")

// =============================================================================
// ERROR CONSTRUCTION HELPERS
// =============================================================================

// NewCommandError creates a new command error.
func NewCommandError(command, action, reason string, err error) error {
	return &CommandError{
		Command: command,
		Action:  action,
		Reason:  reason,
		Err:     err,
	}
}

// NewUsageError creates a usage error for command.
func NewUsageError(command, usage, reason string) error {
	return &UsageError{
		Command: command,
		Usage:   usage,
		Reason:  reason,
	}
}

// =============================================================================
// ERROR DISPLAY HELPERS
// =============================================================================

// DisplayError writes err to w in the shell's error style.
func DisplayError(w io.Writer, err error) {
	if err == nil || errors.Is(err, errStatementsFailed) {
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), err.Error())
}

// GetExitCode determines the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if IsUsageError(err) {
		return ExitUsageError
	}

	var configErr *ConfigError
	if errors.As(err, &configErr) || config.IsValidationError(err) {
		return ExitConfigError
	}

	return ExitGeneralError
}

// IsUsageError checks if an error is a UsageError.
func IsUsageError(err error) bool {
	var e *UsageError
	return errors.As(err, &e)
}
