// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package input

import (
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
)

// Default prompts.
const (
	MainPrompt         = "libsql> "
	ContinuationPrompt = "   ...> "
)

// Reader accumulates physical lines from an Editor into logical inputs.
// It is not safe for concurrent use.
type Reader struct {
	editor     Editor
	mainPrompt string
	contPrompt string
	log        *logrus.Entry

	historyErr error
}

// Option configures a Reader.
type Option func(*Reader)

// WithPrompts overrides the main and continuation prompts.
func WithPrompts(main, cont string) Option {
	return func(r *Reader) {
		r.mainPrompt = main
		r.contPrompt = cont
	}
}

// WithLogger sets the logger used for classification traces and history
// warnings.
func WithLogger(log *logrus.Entry) Option {
	return func(r *Reader) {
		r.log = log
	}
}

// NewReader returns a Reader pulling lines from editor.
func NewReader(editor Editor, opts ...Option) *Reader {
	r := &Reader{
		editor:     editor,
		mainPrompt: MainPrompt,
		contPrompt: ContinuationPrompt,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logrus.NewEntry(logrus.StandardLogger())
	}
	return r
}

// SetPrompts replaces both prompts for subsequent reads.
func (r *Reader) SetPrompts(main, cont string) {
	r.mainPrompt = main
	r.contPrompt = cont
}

// Prompts returns the main and continuation prompts.
func (r *Reader) Prompts() (main, cont string) {
	return r.mainPrompt, r.contPrompt
}

// HistoryErr returns the last history write failure seen by the current or
// most recent ReadInput call.
func (r *Reader) HistoryErr() error {
	return r.historyErr
}

// ReadInput reads lines until they form one complete input.
//
// A line starting with "." is a dot-command when nothing is buffered. A line
// starting with "#" is a comment and is dropped. Anything else is trimmed of
// trailing whitespace and appended to the buffer; the buffer is complete
// once a fragment ends with ";" or is exactly "go" or "/". While the buffer
// is non-empty the continuation prompt is shown, and a "." line is plain
// statement text.
//
// Every line is added to the history before it is classified. An interrupt
// or end of input discards the buffer and returns ErrInputInterrupted.
func (r *Reader) ReadInput() (Input, error) {
	var buf strings.Builder
	r.historyErr = nil

	for {
		prompt := r.mainPrompt
		if buf.Len() > 0 {
			prompt = r.contPrompt
		}

		line, err := r.editor.ReadLine(prompt)
		if err != nil {
			if buf.Len() > 0 {
				r.log.WithField("discarded", buf.String()).Debug("partial statement dropped")
			}
			if isInterruptOrEOF(err) {
				return Input{}, ErrInputInterrupted.Wrap(err)
			}
			return Input{}, ErrReadFailed.Wrap(err)
		}

		r.record(line)

		switch {
		case strings.HasPrefix(line, "."):
			if buf.Len() == 0 {
				r.trace("dot-command", line)
				return DotCommand(line), nil
			}
			// Commands are only recognized between statements.
			buf.WriteString(line)
			if term, ok := terminator(strings.TrimRightFunc(line, unicode.IsSpace)); ok {
				r.trace("terminated", line)
				return SQLStatement(buf.String(), term), nil
			}
			r.trace("continued", line)

		case strings.HasPrefix(line, "#"):
			r.trace("comment", line)

		default:
			trimmed := strings.TrimRightFunc(line, unicode.IsSpace)
			buf.WriteString(trimmed)
			if term, ok := terminator(trimmed); ok {
				r.trace("terminated", line)
				return SQLStatement(buf.String(), term), nil
			}
			r.trace("continued", line)
		}
	}
}

// terminator reports the termination token a trimmed fragment ends with.
func terminator(trimmed string) (string, bool) {
	switch {
	case strings.HasSuffix(trimmed, TerminatorSemicolon):
		return TerminatorSemicolon, true
	case trimmed == TerminatorGo:
		return TerminatorGo, true
	case trimmed == TerminatorSlash:
		return TerminatorSlash, true
	}
	return "", false
}

func (r *Reader) record(line string) {
	if err := r.editor.AddHistory(line); err != nil {
		r.historyErr = err
		r.log.WithError(err).Warn("history entry not saved")
	}
}

func (r *Reader) trace(state, line string) {
	r.log.WithFields(logrus.Fields{
		"state": state,
		"line":  line,
	}).Trace("classified input line")
}
