package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"patreonfetch/internal/config"
	"patreonfetch/internal/deps"
	"patreonfetch/internal/logging"
	"patreonfetch/internal/preflight"
	"patreonfetch/internal/prompt"
	"patreonfetch/internal/runner"
	"patreonfetch/internal/urllist"
)

var (
	errMissingCredential = errors.New("session cookie required: pass --cookie or set " + credentialEnv)
	errNoURLs            = errors.New("no URLs provided")
	// errRunFailed reports that at least one download failed; the summary
	// has already been printed.
	errRunFailed = errors.New("one or more downloads failed")
)

func (c *commandContext) runInteractive(ctx context.Context) error {
	fmt.Fprintln(c.out, "=== patreonfetch ===")
	fmt.Fprintln(c.out, "Interactive mode")

	binary, err := c.checkDependencies(ctx)
	if err != nil {
		return err
	}

	collector := prompt.New(c.in, c.out)
	answers, err := c.setup(ctx, collector, c.credential())
	if err != nil {
		return err
	}
	if answers.Credential == "" {
		return errMissingCredential
	}

	urls, err := collector.URLs(ctx)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return errNoURLs
	}
	return c.download(ctx, binary, urls, answers.Settings, answers.Credential)
}

func (c *commandContext) runFlags(ctx context.Context, args []string) error {
	if c.flags.setup {
		_, err := c.setup(ctx, prompt.New(c.in, c.out), c.credential())
		return err
	}

	binary, err := c.checkDependencies(ctx)
	if err != nil {
		return err
	}

	settings := c.settings
	if dir := strings.TrimSpace(c.flags.outputDir); dir != "" {
		settings.OutputDir = dir
	}

	urls := c.collectURLs(args)
	if len(urls) == 0 {
		return errNoURLs
	}

	if c.flags.listTiers {
		return c.listTiers(ctx, binary, urls)
	}

	credential := c.credential()
	if credential == "" {
		return errMissingCredential
	}
	return c.download(ctx, binary, urls, settings, credential)
}

// checkDependencies locates patreon-dl (fatal when missing) and probes FFmpeg
// (warning only).
func (c *commandContext) checkDependencies(ctx context.Context) (string, error) {
	fmt.Fprintln(c.out, "Checking dependencies...")

	candidates := deps.Candidates(c.env.goos, c.env.getenv)
	binary, err := deps.Locate(ctx, candidates, c.env.probe)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		fmt.Fprintln(c.out, renderStatusLine(deps.ExecutableName, statusError, "not found", c.colorize))
		runtimes := deps.CheckBinaries(deps.RuntimeRequirements(), c.env.lookPath)
		for _, status := range runtimes {
			fmt.Fprintln(c.out, dependencyLine(status, c.colorize))
		}
		return "", fmt.Errorf("%w; %s", err, deps.InstallHint(runtimes))
	}
	fmt.Fprintln(c.out, renderStatusLine(deps.ExecutableName, statusOK, binary, c.colorize))

	helper := deps.CheckMediaHelper(ctx, c.settings.FFmpegPath, c.env.probe)
	fmt.Fprintln(c.out, dependencyLine(helper, c.colorize))
	if !helper.Available() {
		logging.WarnWithContext(c.logger, "media helper unavailable", "media_helper_missing",
			logging.String("command", helper.Command),
			logging.String("detail", helper.Detail),
			logging.String(logging.FieldImpact, "video posts that need FFmpeg will fail"),
			logging.String(logging.FieldErrorHint, "install FFmpeg or set ffmpeg_path in the settings file"),
		)
	}
	return binary, nil
}

// setup runs the questionnaire, stores the answers on the context, and
// persists them when asked.
func (c *commandContext) setup(ctx context.Context, collector *prompt.Collector, credential string) (prompt.Answers, error) {
	answers, err := collector.Setup(ctx, c.settings, credential)
	if err != nil {
		return answers, err
	}
	c.settings = answers.Settings
	if !answers.Save {
		return answers, nil
	}
	path := c.settingsPath()
	if err := config.Save(answers.Settings, path); err != nil {
		return answers, fmt.Errorf("save settings: %w", err)
	}
	fmt.Fprintf(c.out, "Settings saved to: %s\n", path)
	fmt.Fprintln(c.out, renderSettings(answers.Settings))
	return answers, nil
}

// collectURLs merges the URL file (when given) with positional arguments.
// An unreadable file is reported and treated as empty.
func (c *commandContext) collectURLs(args []string) []string {
	var fromFile []string
	if path := strings.TrimSpace(c.flags.urlsFile); path != "" {
		urls, err := urllist.ReadFile(path)
		if err != nil {
			logging.WarnWithContext(c.logger, "url file unreadable", "url_file_unreadable",
				logging.Error(err),
				logging.String(logging.FieldImpact, "no URLs were taken from the file"),
				logging.String(logging.FieldErrorHint, "check the --urls-file path"),
			)
		}
		fromFile = urls
	}
	return urllist.Merge(fromFile, args)
}

func (c *commandContext) newRunner(binary string) (*runner.Runner, error) {
	return runner.New(binary,
		runner.WithExecutor(c.env.executor),
		runner.WithLogger(c.logger),
		runner.WithOutput(c.out, c.errOut),
		runner.WithWorkDir(c.env.workDir),
	)
}

func (c *commandContext) listTiers(ctx context.Context, binary string, targets []string) error {
	creators := urllist.CreatorsFromArgs(targets)
	if len(creators) == 0 {
		fmt.Fprintln(c.out, "No creators found in the given arguments.")
		return nil
	}
	r, err := c.newRunner(binary)
	if err != nil {
		return err
	}
	return r.ListTiers(ctx, creators, c.out)
}

func (c *commandContext) download(ctx context.Context, binary string, urls []string, settings config.Settings, credential string) error {
	root, err := config.ExpandPath(strings.TrimSpace(settings.OutputDir))
	if err != nil {
		return fmt.Errorf("resolve output directory: %w", err)
	}
	if root == "" {
		root = config.Default().OutputDir
	}
	settings.OutputDir = root
	if check := preflight.EnsureOutputRoot(root); !check.Passed {
		return fmt.Errorf("%s: %s", check.Name, check.Detail)
	}

	r, err := c.newRunner(binary)
	if err != nil {
		return err
	}
	summary, runErr := r.Run(ctx, urls, settings, credential)
	fmt.Fprintln(c.out, renderSummary(summary, c.colorize))
	if runErr != nil {
		return runErr
	}
	if !summary.OK() {
		return errRunFailed
	}
	return nil
}
