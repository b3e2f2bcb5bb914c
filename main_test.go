package main

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestMain lets the test binary stand in for lumen when LUMEN_EXEC_MAIN is set.
func TestMain(m *testing.M) {
	if os.Getenv("LUMEN_EXEC_MAIN") == "1" {
		os.Args = append([]string{"lumen"}, strings.Fields(os.Getenv("LUMEN_ARGS"))...)
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func TestNoDeviceExitsNonZero(t *testing.T) {
	pattern := filepath.Join(t.TempDir(), "video*")

	cmd := exec.Command(os.Args[0])
	cmd.Env = append(os.Environ(),
		"LUMEN_EXEC_MAIN=1",
		"LUMEN_ARGS=-headless -max-ticks 1 -devices "+pattern,
	)
	out, err := cmd.Output()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected a non-zero exit, got err=%v output=%s", err, out)
	}
	if code := exitErr.ExitCode(); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(string(out), "no capture devices found") {
		t.Errorf("missing diagnostic in output: %s", out)
	}
}
