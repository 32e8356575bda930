// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/libsql-shell/internal/util"
)

const helpIntro = "Statements end with `;`, or with a line holding only `go` or `/`.\n" +
	"Lines starting with `#` are comments. Dot-commands are only recognized\n" +
	"at the start of a statement.\n"

// helpMarkdown is the .help text rendered on a terminal.
func helpMarkdown() string {
	var b strings.Builder
	b.WriteString("# libsql-shell\n\n")
	b.WriteString(helpIntro)
	b.WriteString("\n## Commands\n\n")
	for _, c := range dotCommands {
		fmt.Fprintf(&b, "- `%s` %s\n", c.usage(), c.help)
	}
	return b.String()
}

// helpText is the plain .help text for pipes and dumb terminals.
func helpText() string {
	width := 0
	for _, c := range dotCommands {
		if w := util.StringWidth(c.usage()); w > width {
			width = w
		}
	}

	var b strings.Builder
	for _, c := range dotCommands {
		fmt.Fprintf(&b, "%s  %s\n", util.PadRight(c.usage(), width), c.help)
	}
	b.WriteString("\n")
	b.WriteString(strings.ReplaceAll(helpIntro, "`", ""))
	return b.String()
}

// renderHelp returns the help text, as rendered markdown when markdown is
// set. Rendering failures fall back to plain text.
func renderHelp(markdown bool) string {
	if !markdown {
		return helpText()
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return helpText()
	}
	out, err := renderer.Render(helpMarkdown())
	if err != nil {
		return helpText()
	}
	return out
}
