// Package browser hands URLs to the platform opener.
package browser

import (
	"errors"
	"io"
	"os/exec"
	"runtime"
	"strings"
)

// Command returns the opener invocation for target on this platform.
func Command(target string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", target)
	case "windows":
		return exec.Command("cmd", "/c", "start", "", target)
	default:
		return exec.Command("xdg-open", target)
	}
}

// Open runs the platform opener for target and waits for it to exit.
func Open(target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return errors.New("empty url")
	}
	cmd := Command(target)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run()
}
