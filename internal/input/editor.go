// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package input

import (
	"bufio"
	"io"

	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"
)

// Editor supplies physical lines of input. ReadLine blocks until a line is
// submitted and fails with liner.ErrPromptAborted on Ctrl+C and io.EOF when
// input ends.
type Editor interface {
	ReadLine(prompt string) (string, error)
	AddHistory(line string) error
	Close() error
}

// =============================================================================
// INTERACTIVE EDITOR
// =============================================================================

// LinerOptions configures a LinerEditor.
type LinerOptions struct {
	// History is the persistent store. Nil keeps history in memory only.
	History *History
	// Completer feeds tab completion. Nil disables completion.
	Completer Completer
	Logger    *logrus.Entry
}

// LinerEditor reads lines from the terminal with line editing, history
// navigation and circular tab completion.
type LinerEditor struct {
	state   *liner.State
	history *History
}

// NewLinerEditor puts the terminal into line editing mode and loads the
// history file. A history that cannot be loaded is logged and treated as
// empty.
func NewLinerEditor(opts LinerOptions) *LinerEditor {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetTabCompletionStyle(liner.TabCircular)

	if opts.Completer != nil {
		complete := opts.Completer
		state.SetCompleter(func(line string) []string {
			return replacements(complete(line))
		})
	}

	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	e := &LinerEditor{
		state:   state,
		history: opts.History,
	}
	if e.history != nil {
		loadHistory(e.history, state.AppendHistory, log)
	}
	return e
}

// loadHistory feeds the stored entries to add. A failed load is logged and
// whatever was read before the failure is still used.
func loadHistory(h *History, add func(string), log *logrus.Entry) int {
	entries, err := h.Load()
	if err != nil {
		log.WithError(err).Warn("history not fully loaded")
	}
	for _, entry := range entries {
		add(entry)
	}
	log.WithField("entries", len(entries)).Debug("history loaded")
	return len(entries)
}

// ReadLine implements Editor.
func (e *LinerEditor) ReadLine(prompt string) (string, error) {
	return e.state.Prompt(prompt)
}

// AddHistory records line for arrow-key navigation and appends it to the
// history file.
func (e *LinerEditor) AddHistory(line string) error {
	if e.history == nil {
		if line != "" {
			e.state.AppendHistory(line)
		}
		return nil
	}
	if e.history.Skip(line) {
		return nil
	}
	e.state.AppendHistory(line)
	return e.history.Append(line)
}

// Close restores the terminal.
func (e *LinerEditor) Close() error {
	return e.state.Close()
}

// =============================================================================
// NON-INTERACTIVE EDITOR
// =============================================================================

// ScanEditor reads lines from a plain reader, for piped scripts and
// --command. Prompts are not printed and nothing is recorded in history.
type ScanEditor struct {
	scanner *bufio.Scanner
}

// NewScanEditor returns an editor over r.
func NewScanEditor(r io.Reader) *ScanEditor {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &ScanEditor{scanner: scanner}
}

// ReadLine implements Editor. The prompt is ignored.
func (e *ScanEditor) ReadLine(string) (string, error) {
	if e.scanner.Scan() {
		return e.scanner.Text(), nil
	}
	if err := e.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// AddHistory implements Editor.
func (e *ScanEditor) AddHistory(string) error {
	return nil
}

// Close implements Editor.
func (e *ScanEditor) Close() error {
	return nil
}
