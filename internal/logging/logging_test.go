package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_DiscardsWithoutDestination(t *testing.T) {
	t.Parallel()

	l, err := New(Options{Level: "debug"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.Core().Enabled(-1) {
		t.Fatalf("expected a no-op logger")
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "factboard.log")
	l, err := New(Options{Level: "warn", File: path, Fallback: "stderr"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("dropped")
	l.Warn("kept")
	_ = l.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(b)
	if strings.Contains(out, "dropped") || !strings.Contains(out, `"msg":"kept"`) {
		t.Fatalf("unexpected log contents: %s", out)
	}
}

func TestNew_VerboseForcesDebug(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "debug.log")
	l, err := New(Options{Level: "error", Verbose: true, File: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Debug("trace")
	_ = l.Sync()
	b, _ := os.ReadFile(path)
	if !strings.Contains(string(b), "trace") {
		t.Fatalf("expected debug line; got %s", b)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	t.Parallel()

	if _, err := New(Options{Level: "chatty", Fallback: "stderr"}); err == nil {
		t.Fatalf("expected error")
	}
}
