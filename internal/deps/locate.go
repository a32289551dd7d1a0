package deps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ExecutableName is the bare name of the downloader executable.
const ExecutableName = "patreon-dl"

const (
	defaultMediaHelper = "ffmpeg"
	probeTimeout       = 30 * time.Second
)

// ErrNotFound is returned when no candidate executable responds.
var ErrNotFound = errors.New("patreon-dl executable not found")

// Prober runs binary with args and returns nil on a clean exit.
type Prober func(ctx context.Context, binary string, args ...string) error

// ExecProbe runs the binary with its output discarded.
func ExecProbe(ctx context.Context, binary string, args ...string) error {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	cmd := exec.CommandContext(probeCtx, binary, args...) //nolint:gosec
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run()
}

// Candidates lists where patreon-dl may live, in lookup order. PATH comes
// first, then the npm global prefixes used on Windows. On Windows the .cmd
// shims npm installs are tried before the bare names.
func Candidates(goos string, getenv func(string) string) []string {
	bases := []string{ExecutableName}
	for _, dir := range []struct{ env, sub string }{
		{"APPDATA", "npm"},
		{"LOCALAPPDATA", "npm"},
		{"PROGRAMFILES", "nodejs"},
		{"PROGRAMFILES(X86)", "nodejs"},
	} {
		root := strings.TrimSpace(getenv(dir.env))
		if root == "" {
			continue
		}
		bases = append(bases, filepath.Join(root, dir.sub, ExecutableName))
	}
	if goos != "windows" {
		return bases
	}
	out := make([]string, 0, len(bases)*2)
	for _, base := range bases {
		out = append(out, base+".cmd")
	}
	return append(out, bases...)
}

// Locate returns the first candidate that exits cleanly when run with --help.
func Locate(ctx context.Context, candidates []string, probe Prober) (string, error) {
	if probe == nil {
		probe = ExecProbe
	}
	tried := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		tried = append(tried, candidate)
		if err := probe(ctx, candidate, "--help"); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w (tried %s)", ErrNotFound, strings.Join(tried, ", "))
}

// CheckMediaHelper probes the FFmpeg binary at path, or "ffmpeg" from PATH
// when path is empty. A failed probe is reported, never returned as an error.
func CheckMediaHelper(ctx context.Context, path string, probe Prober) Status {
	if probe == nil {
		probe = ExecProbe
	}
	cmd := strings.TrimSpace(path)
	if cmd == "" {
		cmd = defaultMediaHelper
	}
	status := Status{
		Name:     "FFmpeg",
		Command:  cmd,
		Purpose:  "some videos may not download",
		Optional: true,
	}
	if err := probe(ctx, cmd, "-version"); err != nil {
		status.Detail = fmt.Sprintf("%s -version failed: %v", cmd, err)
		return status
	}
	status.Path = cmd
	return status
}
