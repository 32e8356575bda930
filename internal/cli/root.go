// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// root.go - The libsql-shell command and interactive session startup.
//
// Command: libsql-shell [DATABASE]
//
// Examples:
//   libsql-shell                        Shell on a private in-memory database
//   libsql-shell app.db                 Open or create app.db
//   libsql-shell app.db -c ".tables"    Run one input and exit
//   libsql-shell app.db < script.sql    Run a script
//
// Flags:
//   --config FILE       Config file (TOML or YAML)
//   --history FILE      History file path
//   --no-history        Do not load or record history
//   --log-level LEVEL   Diagnostic log level on stderr
//   -c, --command TEXT  Run TEXT non-interactively and exit

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/jeranaias/libsql-shell/internal/config"
	"github.com/jeranaias/libsql-shell/internal/db"
	"github.com/jeranaias/libsql-shell/internal/input"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type rootOptions struct {
	fs afero.Fs

	configPath  string
	historyPath string
	noHistory   bool
	logLevel    string
	command     string
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		DisplayError(cmd.ErrOrStderr(), err)
		return GetExitCode(err)
	}
	return ExitSuccess
}

// NewRootCommand builds the libsql-shell command tree on the OS filesystem.
func NewRootCommand() *cobra.Command {
	return newRootCommand(afero.NewOsFs())
}

func newRootCommand(fs afero.Fs) *cobra.Command {
	opts := &rootOptions{fs: fs}

	cmd := &cobra.Command{
		Use:   "libsql-shell [DATABASE]",
		Short: "Interactive SQL shell for libSQL and SQLite databases",
		Long: `libsql-shell reads SQL statements and dot-commands and runs them against a
database file. Without DATABASE a private in-memory database is used.

Statements end with ";", or with a line holding only "go" or "/".
Enter ".help" inside the shell for the list of dot-commands.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, opts, args)
		},
	}
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return NewUsageError(c.Name(), c.UseLine(), err.Error())
	})

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (TOML or YAML, default ~/.libsql-shell/config.toml)")
	flags := cmd.Flags()
	flags.StringVar(&opts.historyPath, "history", "", "history file (default ~/.libsql_history)")
	flags.BoolVar(&opts.noHistory, "no-history", false, "do not load or record history")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: panic|fatal|error|warn|info|debug|trace")
	flags.StringVarP(&opts.command, "command", "c", "", "run SQL or a dot-command non-interactively and exit")

	cmd.AddCommand(newVersionCommand(), newConfigCommand(opts))
	return cmd
}

// loadConfig loads the configuration named by --config, or the default file.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.fs, o.configPath)
	if err != nil {
		return nil, &ConfigError{Path: o.configPath, Err: err}
	}
	return cfg, nil
}

// apply layers command-line flags and arguments over cfg.
func (o *rootOptions) apply(cfg *config.Config, args []string) error {
	if o.historyPath != "" {
		cfg.History.File = o.historyPath
	}
	if o.noHistory {
		cfg.History.Disabled = true
	}
	if o.logLevel != "" {
		if _, err := logrus.ParseLevel(o.logLevel); err != nil {
			return NewUsageError("--log-level", "--log-level panic|fatal|error|warn|info|debug|trace", err.Error())
		}
		cfg.Log.Level = o.logLevel
	}
	if len(args) > 0 {
		cfg.Database.Path = args[0]
	}
	return nil
}

func runShell(cmd *cobra.Command, opts *rootOptions, args []string) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if err := opts.apply(cfg, args); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log.Level, cmd.ErrOrStderr())
	if err != nil {
		return &ConfigError{Path: opts.configPath, Err: err}
	}
	log := sessionLogger(logger)

	database, err := db.Open(cfg.Database.Path, log.WithField("component", "db"))
	if err != nil {
		return NewCommandError("open", cfg.Database.Path, "cannot open database", err)
	}
	defer database.Close()

	stdin, stdout := cmd.InOrStdin(), cmd.OutOrStdout()
	interactive := opts.command == "" && isTerminal(stdin)

	editor, historyPath := opts.newEditor(cfg, stdin, interactive, log)
	defer editor.Close()

	var updates <-chan *config.Config
	if interactive {
		if w := opts.startWatcher(log); w != nil {
			defer w.Close()
			updates = w.Updates()
		}
	}

	shell := NewShell(ShellOptions{
		Editor:             editor,
		DB:                 database,
		Out:                stdout,
		Err:                cmd.ErrOrStderr(),
		Logger:             log,
		Settings:           SettingsFromConfig(cfg.Shell),
		MainPrompt:         cfg.Shell.MainPrompt,
		ContinuationPrompt: cfg.Shell.ContinuationPrompt,
		HistoryPath:        historyPath,
		Interactive:        interactive,
		Colors:             isTerminal(stdout) && ColorsEnabled(),
		Updates:            updates,
	})

	if interactive {
		printWelcome(stdout, database.Path())
	}
	log.WithFields(logrus.Fields{
		"database":    database.Path(),
		"interactive": interactive,
	}).Debug("shell started")

	return shell.Run(cmd.Context())
}

// newEditor picks the line source: the --command text, a line editor on a
// terminal, or plain line reading for pipes. The returned history path is
// empty when nothing is recorded.
func (o *rootOptions) newEditor(cfg *config.Config, stdin io.Reader, interactive bool, log *logrus.Entry) (input.Editor, string) {
	if o.command != "" {
		return input.NewScanEditor(strings.NewReader(commandScript(o.command))), ""
	}
	if !interactive {
		return input.NewScanEditor(stdin), ""
	}

	var history *input.History
	historyPath := ""
	if !cfg.History.Disabled {
		history = input.NewHistory(o.fs, cfg.History.File)
		history.IgnoreSpace = cfg.History.IgnoreSpace
		historyPath = history.Path()
	}
	return input.NewLinerEditor(input.LinerOptions{
		History:   history,
		Completer: input.Complete,
		Logger:    log.WithField("component", "editor"),
	}), historyPath
}

// startWatcher follows the config file while the shell runs. It returns nil
// when there is no file to watch or watching is unavailable.
func (o *rootOptions) startWatcher(log *logrus.Entry) *config.Watcher {
	path := o.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil
		}
		path = p
	}
	if ok, _ := afero.Exists(o.fs, path); !ok {
		return nil
	}

	w, err := config.NewWatcher(o.fs, path, log)
	if err != nil {
		log.WithError(err).Warn("config changes will not be reloaded")
		return nil
	}
	if err := w.Watch(); err != nil {
		w.Close()
		log.WithError(err).Warn("config changes will not be reloaded")
		return nil
	}
	return w
}

// commandScript terminates the last statement of --command text so that
// "select 1" runs without an explicit ";".
func commandScript(text string) string {
	text = strings.TrimRightFunc(text, unicode.IsSpace)
	lines := strings.Split(text, "\n")
	last := strings.TrimRightFunc(lines[len(lines)-1], unicode.IsSpace)

	switch {
	case last == "",
		strings.HasPrefix(last, "."),
		strings.HasPrefix(last, "#"),
		strings.HasSuffix(last, input.TerminatorSemicolon),
		last == input.TerminatorGo,
		last == input.TerminatorSlash:
		return text + "\n"
	}
	return text + ";\n"
}

func printWelcome(w io.Writer, database string) {
	fmt.Fprintln(w, TitleStyle.Render("libsql-shell "+Version))
	fmt.Fprintln(w, DimStyle.Render(fmt.Sprintf("Connected to %s. Enter \".help\" for usage hints.", database)))
}

// =============================================================================
// SUBCOMMANDS
// =============================================================================

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "libsql-shell %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
			return err
		},
	}
}

func newConfigCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return &ConfigError{Err: err}
				}
				path = p
			}
			if ok, _ := afero.Exists(opts.fs, path); ok && !force {
				return NewCommandError("config", "init", path+" already exists (use --force to overwrite)", nil)
			}
			if err := config.Save(opts.fs, config.Default(), path); err != nil {
				return &ConfigError{Path: path, Err: err}
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", SuccessStyle.Render("Wrote"), path)
			return err
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), cfg.String())
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
