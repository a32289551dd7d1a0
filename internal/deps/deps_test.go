package deps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestCandidatesLinux(t *testing.T) {
	got := Candidates("linux", envFrom(nil))
	if !reflect.DeepEqual(got, []string{"patreon-dl"}) {
		t.Fatalf("unexpected candidates: %q", got)
	}
}

func TestCandidatesWindowsPrefersCmdShims(t *testing.T) {
	env := envFrom(map[string]string{
		"APPDATA":      `C:\Users\me\AppData\Roaming`,
		"PROGRAMFILES": `C:\Program Files`,
	})
	got := Candidates("windows", env)
	if len(got) != 6 {
		t.Fatalf("expected 6 candidates, got %q", got)
	}
	for i := 0; i < 3; i++ {
		if filepath.Ext(got[i]) != ".cmd" {
			t.Fatalf("expected .cmd variant at %d, got %q", i, got[i])
		}
		if got[i] != got[i+3]+".cmd" {
			t.Fatalf("expected %q to be the .cmd variant of %q", got[i], got[i+3])
		}
	}
	if got[0] != "patreon-dl.cmd" || got[3] != "patreon-dl" {
		t.Fatalf("PATH lookup must come first, got %q", got)
	}
}

func TestLocateReturnsFirstCleanExit(t *testing.T) {
	var probed []string
	probe := func(_ context.Context, binary string, args ...string) error {
		probed = append(probed, binary)
		if len(args) != 1 || args[0] != "--help" {
			t.Fatalf("unexpected probe args %q", args)
		}
		if binary == "second" || binary == "third" {
			return nil
		}
		return errors.New("exit status 1")
	}

	got, err := Locate(context.Background(), []string{"first", "", "second", "third"}, probe)
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if got != "second" {
		t.Fatalf("expected second candidate, got %q", got)
	}
	if !reflect.DeepEqual(probed, []string{"first", "second"}) {
		t.Fatalf("unexpected probe order %q", probed)
	}
}

func TestLocateNotFound(t *testing.T) {
	probe := func(context.Context, string, ...string) error { return errors.New("missing") }
	_, err := Locate(context.Background(), []string{"a", "b"}, probe)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLocateWithRealExecutables(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	dir := t.TempDir()
	failing := filepath.Join(dir, "failing")
	working := filepath.Join(dir, "working")
	if err := os.WriteFile(failing, []byte("#!/bin/sh\nexit 3\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	if err := os.WriteFile(working, []byte("#!/bin/sh\necho usage\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	got, err := Locate(context.Background(), []string{filepath.Join(dir, "absent"), failing, working}, nil)
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if got != working {
		t.Fatalf("expected %q, got %q", working, got)
	}
}

func TestCheckMediaHelperDefaultsToFFmpeg(t *testing.T) {
	var seen string
	probe := func(_ context.Context, binary string, args ...string) error {
		seen = binary
		return nil
	}
	status := CheckMediaHelper(context.Background(), "", probe)
	if seen != "ffmpeg" || !status.Available() || !status.Optional {
		t.Fatalf("unexpected status %+v (probed %q)", status, seen)
	}
}

func TestCheckMediaHelperFailureIsReported(t *testing.T) {
	probe := func(context.Context, string, ...string) error { return errors.New("not found") }
	status := CheckMediaHelper(context.Background(), "/opt/ffmpeg", probe)
	if status.Available() {
		t.Fatal("expected helper to be unavailable")
	}
	if status.Command != "/opt/ffmpeg" || status.Detail == "" {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestCheckBinaries(t *testing.T) {
	var looked []string
	lookPath := func(file string) (string, error) {
		looked = append(looked, file)
		if file == "node" {
			return "/usr/local/bin/node", nil
		}
		return "", errors.New("executable file not found in $PATH")
	}
	results := CheckBinaries([]Requirement{
		{Name: "Node.js", Command: " node "},
		{Name: "npm", Command: "npm", Optional: true},
		{Name: "Empty"},
	}, lookPath)
	if !results[0].Available() || results[0].Path != "/usr/local/bin/node" || results[0].Detail != "" {
		t.Fatalf("expected node available, got %+v", results[0])
	}
	if results[1].Available() || !results[1].Optional || !strings.Contains(results[1].Detail, "npm") {
		t.Fatalf("expected missing npm reported, got %+v", results[1])
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for empty command: %+v", results[2])
	}
	if !reflect.DeepEqual(looked, []string{"node", "npm"}) {
		t.Fatalf("empty command must not be looked up, looked up %q", looked)
	}
}

func TestCheckBinariesDefaultsToPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	present := filepath.Join(t.TempDir(), "present")
	if err := os.WriteFile(present, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	results := CheckBinaries([]Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}, nil)
	if !results[0].Available() {
		t.Fatalf("expected stub available, got %+v", results[0])
	}
	if results[1].Available() {
		t.Fatalf("expected missing binary reported, got %+v", results[1])
	}
}

func TestInstallHintFollowsNpmAvailability(t *testing.T) {
	withNpm := []Status{{Command: "node", Path: "/usr/bin/node"}, {Command: "npm", Path: "/usr/bin/npm"}}
	if got := InstallHint(withNpm); !strings.Contains(got, "npm i -g patreon-dl") || strings.Contains(got, "install Node.js") {
		t.Fatalf("unexpected hint with npm present: %q", got)
	}
	withoutNpm := []Status{{Command: "node"}, {Command: "npm", Detail: "missing"}}
	if got := InstallHint(withoutNpm); !strings.Contains(got, "install Node.js") {
		t.Fatalf("unexpected hint without npm: %q", got)
	}
}

func TestRuntimeRequirementsMarkNpmOptional(t *testing.T) {
	reqs := RuntimeRequirements()
	if len(reqs) != 2 || reqs[0].Command != "node" || reqs[0].Optional {
		t.Fatalf("unexpected requirements %+v", reqs)
	}
	if reqs[1].Command != "npm" || !reqs[1].Optional {
		t.Fatalf("npm must be optional: %+v", reqs[1])
	}
}
