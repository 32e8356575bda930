// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package input

import (
	"fmt"
	"strings"
)

// Kind tags a logical input.
type Kind int

const (
	// KindDotCommand is a shell meta-command such as ".tables".
	KindDotCommand Kind = iota
	// KindSQL is a terminated SQL statement.
	KindSQL
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindDotCommand:
		return "DotCommand"
	case KindSQL:
		return "SqlStatement"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Termination tokens recognized at the end of a SQL fragment.
const (
	TerminatorSemicolon = ";"
	TerminatorGo        = "go"
	TerminatorSlash     = "/"
)

// Input is one complete unit of user intent.
type Input struct {
	Kind Kind

	// Text is the raw dot-command line, or the exact concatenation of all
	// SQL fragments read for this input.
	Text string

	// Terminator is the token that completed a SQL input. Empty for
	// dot-commands.
	Terminator string
}

// DotCommand builds a dot-command input.
func DotCommand(line string) Input {
	return Input{Kind: KindDotCommand, Text: line}
}

// SQLStatement builds a SQL input.
func SQLStatement(text, terminator string) Input {
	return Input{Kind: KindSQL, Text: text, Terminator: terminator}
}

// IsDotCommand reports whether the input is a meta-command.
func (in Input) IsDotCommand() bool {
	return in.Kind == KindDotCommand
}

// Statement returns the SQL text to hand to the database. The "go" and "/"
// batch terminators are lines of their own and are not valid SQL, so they
// are stripped from the end of the text. A ";" terminated statement is
// returned as is.
func (in Input) Statement() string {
	if in.Kind != KindSQL {
		return ""
	}
	switch in.Terminator {
	case TerminatorGo, TerminatorSlash:
		return strings.TrimSuffix(in.Text, in.Terminator)
	default:
		return in.Text
	}
}

// String renders the input as DotCommand(...) or SqlStatement(...).
func (in Input) String() string {
	return fmt.Sprintf("%s(%q)", in.Kind, in.Text)
}
