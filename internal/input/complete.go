// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package input

import "strings"

// MetaCommands lists the dot-commands offered for completion, in the order
// they are suggested.
var MetaCommands = []string{
	".echo",
	".headers",
	".help",
	".indexes",
	".nullvalue",
	".print",
	".prompt",
	".quit",
	".show",
	".tables",
}

// Candidate is a single completion suggestion.
type Candidate struct {
	Display     string
	Replacement string
}

// Completer returns the candidates for the text typed so far on the line.
type Completer func(line string) []Candidate

// Complete returns every meta-command that starts with partial, in
// declaration order. The match is a case-sensitive byte prefix match, so an
// empty partial matches everything.
func Complete(partial string) []Candidate {
	candidates := make([]Candidate, 0, len(MetaCommands))
	for _, cmd := range MetaCommands {
		if strings.HasPrefix(cmd, partial) {
			candidates = append(candidates, Candidate{
				Display:     cmd,
				Replacement: cmd,
			})
		}
	}
	return candidates
}

// replacements flattens candidates to the strings an editor inserts.
func replacements(candidates []Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Replacement
	}
	return out
}
