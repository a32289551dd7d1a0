package runner

import (
	"context"
	"errors"
	"io"
	"runtime"
	"testing"
)

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Fatalf("ExitCode(nil) = %d", got)
	}
	if got := ExitCode(errors.New("start failed")); got != -1 {
		t.Fatalf("ExitCode(non-exit error) = %d", got)
	}
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	err := commandExecutor{}.Run(context.Background(), "/bin/sh", []string{"-c", "exit 7"}, io.Discard, io.Discard)
	if got := ExitCode(err); got != 7 {
		t.Fatalf("ExitCode = %d, want 7 (err=%v)", got, err)
	}
}
