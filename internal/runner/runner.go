package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"patreonfetch/internal/config"
	"patreonfetch/internal/jobconfig"
	"patreonfetch/internal/logging"
	"patreonfetch/internal/textutil"
	"patreonfetch/internal/urllist"
)

// ErrNoJobs is returned when a run is started without any URL.
var ErrNoJobs = errors.New("no URLs to process")

// State is the lifecycle position of a job.
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Job is one URL's unit of work. Jobs are values; nothing mutates them once planned.
type Job struct {
	// Index is 1-based.
	Index     int
	URL       string
	Creator   string
	OutputDir string
}

// Result is the outcome of a finished job.
type Result struct {
	Job      Job
	State    State
	ExitCode int
	Err      error
	Duration time.Duration
	// Bytes is the size of the creator directory after the job.
	Bytes int64
}

// Summary aggregates every job of a run.
type Summary struct {
	OutputRoot string
	Total      int
	Attempted  int
	Succeeded  int
	Failed     int
	Results    []Result
}

// OK reports whether every planned job ran and succeeded.
func (s Summary) OK() bool {
	return s.Total > 0 && s.Attempted == s.Total && s.Failed == 0
}

func (s *Summary) record(r Result) {
	s.Attempted++
	if r.State == StateSucceeded {
		s.Succeeded++
	} else {
		s.Failed++
	}
	s.Results = append(s.Results, r)
}

// Option configures the runner.
type Option func(*Runner)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(r *Runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithLogger sets the logger used for job progress.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithOutput sets where patreon-dl's own output is forwarded.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		if stdout != nil {
			r.stdout = stdout
		}
		if stderr != nil {
			r.stderr = stderr
		}
	}
}

// WithWorkDir sets the directory generated configuration files are written to.
func WithWorkDir(dir string) Option {
	return func(r *Runner) {
		r.workDir = dir
	}
}

// WithClock overrides the time source (primarily for tests).
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// Runner invokes patreon-dl for each job.
type Runner struct {
	binary  string
	exec    Executor
	logger  *slog.Logger
	stdout  io.Writer
	stderr  io.Writer
	workDir string
	now     func() time.Time
}

// New constructs a runner for the patreon-dl executable at binary.
func New(binary string, opts ...Option) (*Runner, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("patreon-dl binary required")
	}
	r := &Runner{
		binary:  binary,
		exec:    commandExecutor{},
		logger:  logging.NewNop(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		workDir: os.TempDir(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "runner")
	return r, nil
}

// Plan derives one job per URL. Creators come from the URL path; URLs without
// one get a "download_<n>" placeholder. Each job writes to its own sanitized
// directory below the settings' output root.
func Plan(urls []string, settings config.Settings) (string, []Job, error) {
	root, err := filepath.Abs(strings.TrimSpace(settings.OutputDir))
	if err != nil {
		return "", nil, fmt.Errorf("resolve output root: %w", err)
	}
	jobs := make([]Job, 0, len(urls))
	for i, url := range urls {
		index := i + 1
		placeholder := "download_" + strconv.Itoa(index)
		creator, ok := urllist.CreatorFromURL(url)
		if !ok {
			creator = placeholder
		}
		dirName := textutil.SanitizeDirName(creator)
		if dirName == "" {
			dirName = placeholder
		}
		jobs = append(jobs, Job{
			Index:     index,
			URL:       url,
			Creator:   creator,
			OutputDir: filepath.Join(root, dirName),
		})
	}
	return root, jobs, nil
}

// CommandArgs returns the patreon-dl arguments for one job.
func CommandArgs(configPath, logLevel, url string) []string {
	if strings.TrimSpace(logLevel) == "" {
		logLevel = config.LogLevelInfo
	}
	return []string{"--config-file", configPath, "--log-level", logLevel, "--no-prompt", url}
}

// Run processes urls sequentially. The returned error is non-nil only when
// the run could not start or ctx was cancelled; job failures are reported in
// the Summary.
func (r *Runner) Run(ctx context.Context, urls []string, settings config.Settings, credential string) (Summary, error) {
	root, jobs, err := Plan(urls, settings)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{OutputRoot: root, Total: len(jobs)}
	if len(jobs) == 0 {
		return summary, ErrNoJobs
	}
	if strings.TrimSpace(credential) == "" {
		return summary, errors.New("session credential required")
	}

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.record(r.runJob(ctx, job, len(jobs), settings, credential))
		if err := ctx.Err(); err != nil {
			return summary, err
		}
	}

	r.logger.Info("run finished",
		logging.Int("attempted", summary.Attempted),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.String("output_root", summary.OutputRoot),
	)
	return summary, nil
}

func (r *Runner) runJob(ctx context.Context, job Job, total int, settings config.Settings, credential string) Result {
	logger := r.logger.With(
		logging.Int(logging.FieldJobIndex, job.Index),
		logging.Int(logging.FieldJobCount, total),
		logging.String(logging.FieldCreator, job.Creator),
	)
	started := r.now()
	result := Result{Job: job, State: StateRunning}
	logger.Info("download started",
		logging.String("url", job.URL),
		logging.String("output_dir", job.OutputDir),
	)

	fail := func(err error) Result {
		result.State = StateFailed
		result.Err = err
		result.ExitCode = ExitCode(err)
		result.Duration = r.now().Sub(started)
		return result
	}

	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		err = fmt.Errorf("create output directory: %w", err)
		logging.ErrorWithContext(logger, "job preparation failed", "job_prepare_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the output directory is writable"),
		)
		return fail(err)
	}

	doc, err := jobconfig.Render(jobconfig.Options{
		Credential:  credential,
		OutputDir:   job.OutputDir,
		Settings:    settings,
		GeneratedAt: started,
	})
	if err != nil {
		logging.ErrorWithContext(logger, "job preparation failed", "job_config_render_failed", logging.Error(err))
		return fail(err)
	}
	configPath, err := jobconfig.Write(r.workDir, doc, started)
	if err != nil {
		logging.ErrorWithContext(logger, "job preparation failed", "job_config_write_failed", logging.Error(err))
		return fail(err)
	}
	defer r.removeConfig(logger, configPath)

	args := CommandArgs(configPath, settings.LogLevel, job.URL)
	logger.Debug("executing patreon-dl",
		logging.String("command", r.binary+" "+strings.Join(args, " ")),
	)

	runErr := r.exec.Run(ctx, r.binary, args, r.stdout, r.stderr)
	result.Bytes = dirSize(job.OutputDir)
	if runErr != nil {
		result = fail(runErr)
		logging.ErrorWithContext(logger, "download failed", "download_failed",
			logging.Int("exit_code", result.ExitCode),
			logging.Error(runErr),
			logging.String(logging.FieldErrorHint, "rerun with log_level=debug to see patreon-dl's diagnostics"),
		)
		return result
	}

	result.State = StateSucceeded
	result.Duration = r.now().Sub(started)
	logger.Info("download finished",
		logging.Duration("duration", result.Duration),
		logging.Int64("bytes", result.Bytes),
	)
	return result
}

func (r *Runner) removeConfig(logger *slog.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.WarnWithContext(logger, "failed to remove job config", "job_config_cleanup_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "a file containing the session cookie was left behind"),
			logging.String(logging.FieldErrorHint, "delete the file manually"),
		)
	}
}

func dirSize(root string) int64 {
	var total int64
	_ = filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				total += info.Size()
			}
		}
		return nil
	})
	return total
}
