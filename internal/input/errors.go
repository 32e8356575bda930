// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package input

import (
	"io"

	"github.com/peterh/liner"
	errors "gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrInputInterrupted is returned when the user interrupts the prompt
	// (Ctrl+C) or closes the input (Ctrl+D, end of a piped script). The
	// cause is the editor's own error.
	ErrInputInterrupted = errors.NewKind("input interrupted")

	// ErrReadFailed wraps any other failure from the editor.
	ErrReadFailed = errors.NewKind("cannot read input")

	// ErrHistoryLoadFailed is reported when the history file exists but
	// cannot be read. It never stops the shell from starting.
	ErrHistoryLoadFailed = errors.NewKind("cannot load history from %s")

	// ErrHistoryWriteFailed is reported when a line cannot be appended to
	// the history file.
	ErrHistoryWriteFailed = errors.NewKind("cannot append to history %s")
)

// IsEOF reports whether err signals the end of input.
func IsEOF(err error) bool {
	return cause(err) == io.EOF
}

// IsInterrupt reports whether err signals a Ctrl+C at the prompt.
func IsInterrupt(err error) bool {
	return cause(err) == liner.ErrPromptAborted
}

func isInterruptOrEOF(err error) bool {
	return err == io.EOF || err == liner.ErrPromptAborted
}

// cause unwraps go-errors chains down to the original error.
func cause(err error) error {
	for err != nil {
		e, ok := err.(*errors.Error)
		if !ok || e.Cause() == nil {
			return err
		}
		err = e.Cause()
	}
	return nil
}
