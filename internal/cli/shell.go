// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/jeranaias/libsql-shell/internal/config"
	"github.com/jeranaias/libsql-shell/internal/db"
	"github.com/jeranaias/libsql-shell/internal/input"
)

// Settings are the display options the dot-commands change at runtime.
type Settings struct {
	Headers   bool
	Echo      bool
	NullValue string
}

// SettingsFromConfig extracts the runtime settings from the [shell] section.
func SettingsFromConfig(sc config.ShellConfig) Settings {
	return Settings{
		Headers:   sc.Headers,
		Echo:      sc.Echo,
		NullValue: sc.NullValue,
	}
}

// ShellOptions configures a Shell.
type ShellOptions struct {
	Editor input.Editor
	DB     *db.DB
	Out    io.Writer
	Err    io.Writer
	Logger *logrus.Entry

	Settings           Settings
	MainPrompt         string
	ContinuationPrompt string
	// HistoryPath is only reported by .show; empty means history is off.
	HistoryPath string

	// Interactive enables Ctrl+C handling during statements and keeps
	// failed statements from affecting the exit status.
	Interactive bool
	// Colors enables highlighted echo and rendered help.
	Colors bool
	// Width is the output width for column listings. Zero means the
	// terminal width.
	Width int

	// Updates delivers reloaded configurations between inputs.
	Updates <-chan *config.Config
}

// Shell reads logical inputs and runs them against a database.
type Shell struct {
	reader *input.Reader
	db     *db.DB
	out    io.Writer
	errOut io.Writer
	log    *logrus.Entry

	settings    Settings
	historyPath string
	interactive bool
	colors      bool
	width       int
	updates     <-chan *config.Config

	historyWarned bool
	failed        bool
	quit          bool
}

// NewShell creates a shell over opts.Editor. The editor stays owned by the
// caller.
func NewShell(opts ShellOptions) *Shell {
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := opts.Err
	if errOut == nil {
		errOut = os.Stderr
	}
	width := opts.Width
	if width <= 0 {
		width = GetTerminalWidth()
	}

	mainPrompt, contPrompt := promptsOrDefault(opts.MainPrompt, opts.ContinuationPrompt)

	return &Shell{
		reader: input.NewReader(opts.Editor,
			input.WithPrompts(mainPrompt, contPrompt),
			input.WithLogger(log.WithField("component", "input")),
		),
		db:          opts.DB,
		out:         out,
		errOut:      errOut,
		log:         log.WithField("component", "shell"),
		settings:    opts.Settings,
		historyPath: opts.HistoryPath,
		interactive: opts.Interactive,
		colors:      opts.Colors,
		width:       width,
		updates:     opts.Updates,
	}
}

// Run reads and executes inputs until .quit, end of input, or ctx is done.
// Ctrl+C at a prompt discards the statement being typed. In a
// non-interactive run a failed statement or command makes Run return an
// error once input is exhausted.
func (s *Shell) Run(ctx context.Context) error {
	for !s.quit {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.applyUpdates()

		in, err := s.reader.ReadInput()
		s.warnHistory()
		if err != nil {
			if input.IsInterrupt(err) {
				continue
			}
			if input.IsEOF(err) {
				if s.interactive {
					fmt.Fprintln(s.out)
				}
				break
			}
			return NewCommandError("input", "read", "cannot read input", err)
		}

		s.execute(ctx, in)
	}

	if s.failed && !s.interactive {
		return errStatementsFailed
	}
	return nil
}

func (s *Shell) execute(ctx context.Context, in input.Input) {
	// Ctrl+C while an input runs interrupts the input, not the shell.
	if s.interactive {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
	}

	var err error
	if in.IsDotCommand() {
		err = s.runDotCommand(ctx, in.Text)
	} else {
		err = s.runStatement(ctx, in.Statement())
	}
	if err != nil {
		s.failed = true
		DisplayError(s.errOut, err)
	}
}

func (s *Shell) runStatement(ctx context.Context, stmt string) error {
	if s.settings.Echo {
		fmt.Fprintln(s.out, highlightSQL(stmt, s.colors))
	}

	res, err := s.db.Run(ctx, stmt)
	if err != nil {
		return err
	}
	return renderResult(s.out, res, s.settings)
}

// promptsOrDefault falls back to the built-in prompts when both are empty,
// so the continuation state always stays visible.
func promptsOrDefault(main, cont string) (string, string) {
	if main == "" && cont == "" {
		return input.MainPrompt, input.ContinuationPrompt
	}
	return main, cont
}

// warnHistory reports the first history write failure of the session.
func (s *Shell) warnHistory() {
	err := s.reader.HistoryErr()
	if err == nil || s.historyWarned {
		return
	}
	s.historyWarned = true
	fmt.Fprintf(s.errOut, "%s %v\n", WarningStyle.Render("Warning:"), err)
}

// applyUpdates takes any reloaded configuration without blocking.
func (s *Shell) applyUpdates() {
	for {
		select {
		case cfg, ok := <-s.updates:
			if !ok {
				s.updates = nil
				return
			}
			s.settings = SettingsFromConfig(cfg.Shell)
			s.reader.SetPrompts(promptsOrDefault(cfg.Shell.MainPrompt, cfg.Shell.ContinuationPrompt))
			s.log.Info("shell settings reloaded")
		default:
			return
		}
	}
}

// Settings returns the current display settings.
func (s *Shell) Settings() Settings {
	return s.settings
}
