package main

import (
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"patreonfetch/internal/config"
	"patreonfetch/internal/deps"
	"patreonfetch/internal/logging"
	"patreonfetch/internal/runner"
)

// credentialEnv supplies the session cookie when --cookie is absent.
const credentialEnv = "PATREON_SESSION_ID"

// environment captures the host facts the command depends on so tests can
// replace them.
type environment struct {
	getenv   func(string) string
	goos     string
	probe    deps.Prober
	lookPath deps.LookPathFunc
	executor runner.Executor
	workDir  string
}

func defaultEnvironment() environment {
	return environment{
		getenv:   os.Getenv,
		goos:     runtime.GOOS,
		probe:    deps.ExecProbe,
		lookPath: exec.LookPath,
		workDir:  os.TempDir(),
	}
}

type commandContext struct {
	flags    *cliFlags
	env      environment
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	logger   *slog.Logger
	colorize bool

	settings config.Settings
	source   config.Source
}

func newCommandContext(cmd *cobra.Command, flags *cliFlags, env environment) (*commandContext, error) {
	level := "info"
	if flags.verbose {
		level = "debug"
	}
	base, err := logging.New(logging.Options{
		Level:  level,
		Format: flags.logFormat,
		Writer: cmd.ErrOrStderr(),
		File:   flags.logFile,
	})
	if err != nil {
		return nil, err
	}
	logger := logging.NewComponentLogger(base.With(logging.String(logging.FieldSessionID, uuid.NewString())), "cli")

	settings, source := config.Load(flags.configPath)
	for _, warning := range source.Warnings {
		logging.WarnWithContext(logger, "settings file problem", "settings_load_warning",
			logging.String("detail", warning),
			logging.String("path", source.Path),
			logging.String(logging.FieldImpact, "affected settings keep their defaults"),
			logging.String(logging.FieldErrorHint, "fix or delete the settings file"),
		)
	}
	logger.Debug("settings loaded",
		logging.String("path", source.Path),
		logging.Bool("exists", source.Exists),
	)

	return &commandContext{
		flags:    flags,
		env:      env,
		in:       cmd.InOrStdin(),
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
		logger:   logger,
		colorize: shouldColorize(cmd.OutOrStdout()),
		settings: settings,
		source:   source,
	}, nil
}

// credential resolves the session cookie from the flag or the environment.
func (c *commandContext) credential() string {
	if v := strings.TrimSpace(c.flags.cookie); v != "" {
		return v
	}
	if c.env.getenv == nil {
		return ""
	}
	return strings.TrimSpace(c.env.getenv(credentialEnv))
}

// settingsPath is where --setup and the interactive flow persist settings.
func (c *commandContext) settingsPath() string {
	if c.source.Path != "" {
		return c.source.Path
	}
	if path, err := config.DefaultPath(); err == nil {
		return path
	}
	return "patreon_downloader_config.toml"
}
