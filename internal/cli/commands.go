// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// dotCommand describes one meta-command. Handlers receive the arguments
// after the command name, already split.
type dotCommand struct {
	name string
	args string
	help string
	// min and max bound the argument count; max < 0 means unbounded.
	min, max int
	run      func(ctx context.Context, s *Shell, args []string) error
}

func (c *dotCommand) usage() string {
	if c.args == "" {
		return c.name
	}
	return c.name + " " + c.args
}

// dotCommands follows the completion order of input.MetaCommands. It is
// filled in init because .help reads it.
var dotCommands []dotCommand

func init() {
	dotCommands = []dotCommand{
		{name: ".echo", args: "on|off", help: "Print each statement before running it", min: 1, max: 1, run: cmdEcho},
		{name: ".headers", args: "on|off", help: "Show or hide column headers", min: 1, max: 1, run: cmdHeaders},
		{name: ".help", help: "Show this message", max: 0, run: cmdHelp},
		{name: ".indexes", args: "?TABLE?", help: "List index names, optionally only for TABLE", max: 1, run: cmdIndexes},
		{name: ".nullvalue", args: "STRING", help: "Print STRING in place of NULL values", min: 1, max: 1, run: cmdNullValue},
		{name: ".print", args: "STRING...", help: "Print the arguments separated by spaces", max: -1, run: cmdPrint},
		{name: ".prompt", args: "MAIN ?CONTINUE?", help: "Replace the main and continuation prompts", min: 1, max: 2, run: cmdPrompt},
		{name: ".quit", help: "Exit the shell", max: 0, run: cmdQuit},
		{name: ".show", help: "Show the current settings", max: 0, run: cmdShow},
		{name: ".tables", args: "?PATTERN?", help: "List tables, optionally only those matching the LIKE PATTERN", max: 1, run: cmdTables},
	}
}

func lookupCommand(name string) (*dotCommand, bool) {
	for i := range dotCommands {
		if dotCommands[i].name == name {
			return &dotCommands[i], true
		}
	}
	return nil, false
}

// runDotCommand parses and dispatches one dot-command line.
func (s *Shell) runDotCommand(ctx context.Context, line string) error {
	fields := splitArgs(line)
	if len(fields) == 0 {
		return &UnknownCommandError{Name: strings.TrimSpace(line)}
	}
	name, args := fields[0], fields[1:]

	cmd, ok := lookupCommand(name)
	if !ok {
		return &UnknownCommandError{Name: name}
	}
	if len(args) < cmd.min || (cmd.max >= 0 && len(args) > cmd.max) {
		return NewUsageError(cmd.name, cmd.usage(), "wrong number of arguments")
	}

	s.log.WithField("command", name).Debug("running dot-command")
	return cmd.run(ctx, s, args)
}

// splitArgs splits a dot-command line on whitespace. Single or double quotes
// group text containing spaces; the quotes themselves are dropped. An
// unterminated quote runs to the end of the line.
func splitArgs(line string) []string {
	var (
		args  []string
		cur   strings.Builder
		inArg bool
		quote rune
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inArg = true
		case unicode.IsSpace(r):
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args
}

func parseOnOff(command, value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "yes", "true", "1":
		return true, nil
	case "off", "no", "false", "0":
		return false, nil
	}
	return false, NewUsageError(command, command+" on|off", fmt.Sprintf("expected on or off, got %q", value))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// =============================================================================
// HANDLERS
// =============================================================================

func cmdEcho(_ context.Context, s *Shell, args []string) error {
	on, err := parseOnOff(".echo", args[0])
	if err != nil {
		return err
	}
	s.settings.Echo = on
	return nil
}

func cmdHeaders(_ context.Context, s *Shell, args []string) error {
	on, err := parseOnOff(".headers", args[0])
	if err != nil {
		return err
	}
	s.settings.Headers = on
	return nil
}

func cmdHelp(_ context.Context, s *Shell, _ []string) error {
	_, err := fmt.Fprint(s.out, renderHelp(s.colors))
	return err
}

func cmdIndexes(ctx context.Context, s *Shell, args []string) error {
	var table string
	if len(args) > 0 {
		table = args[0]
	}
	names, err := s.db.Indexes(ctx, table)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(s.out, formatColumns(names, s.width))
	return err
}

func cmdNullValue(_ context.Context, s *Shell, args []string) error {
	s.settings.NullValue = args[0]
	return nil
}

func cmdPrint(_ context.Context, s *Shell, args []string) error {
	_, err := fmt.Fprintln(s.out, strings.Join(args, " "))
	return err
}

func cmdPrompt(_ context.Context, s *Shell, args []string) error {
	_, cont := s.reader.Prompts()
	if len(args) > 1 {
		cont = args[1]
	}
	s.reader.SetPrompts(promptsOrDefault(args[0], cont))
	return nil
}

func cmdQuit(_ context.Context, s *Shell, _ []string) error {
	s.quit = true
	return nil
}

func cmdShow(_ context.Context, s *Shell, _ []string) error {
	main, cont := s.reader.Prompts()
	history := s.historyPath
	if history == "" {
		history = "off"
	}

	settings := []struct{ label, value string }{
		{"echo", onOff(s.settings.Echo)},
		{"headers", onOff(s.settings.Headers)},
		{"nullvalue", fmt.Sprintf("%q", s.settings.NullValue)},
		{"prompt", fmt.Sprintf("%q", main)},
		{"continuation", fmt.Sprintf("%q", cont)},
		{"database", s.db.Path()},
		{"history", history},
	}
	for _, setting := range settings {
		if _, err := fmt.Fprintf(s.out, "%s%s\n", RenderLabel(setting.label, 14), ValueStyle.Render(setting.value)); err != nil {
			return err
		}
	}
	return nil
}

func cmdTables(ctx context.Context, s *Shell, args []string) error {
	var pattern string
	if len(args) > 0 {
		pattern = args[0]
	}
	names, err := s.db.Tables(ctx, pattern)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(s.out, formatColumns(names, s.width))
	return err
}
