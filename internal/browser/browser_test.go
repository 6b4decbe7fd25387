package browser

import (
	"runtime"
	"testing"
)

func TestOpen_EmptyURL(t *testing.T) {
	t.Parallel()

	if err := Open("   "); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestCommand_PassesTargetLast(t *testing.T) {
	t.Parallel()

	cmd := Command("https://example.org/")
	if got := cmd.Args[len(cmd.Args)-1]; got != "https://example.org/" {
		t.Fatalf("expected target as last arg; got %v", cmd.Args)
	}
	if runtime.GOOS == "linux" && cmd.Args[0] != "xdg-open" {
		t.Fatalf("expected xdg-open on linux; got %v", cmd.Args)
	}
}
