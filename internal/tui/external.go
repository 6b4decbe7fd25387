package tui

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"

	"factboard/internal/browser"

	tea "github.com/charmbracelet/bubbletea"
)

// openURL hands u to the platform opener without blocking the update loop.
func openURL(u string) tea.Cmd {
	return func() tea.Msg {
		return urlOpenDoneMsg{url: u, err: browser.Open(u)}
	}
}

func copyCmd(s string) tea.Cmd {
	return func() tea.Msg { return clipboardDoneMsg{err: copyToClipboard(s)} }
}

func copyToClipboard(s string) error {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	switch runtime.GOOS {
	case "darwin":
		return runClipboardCmd("pbcopy", nil, s)
	case "windows":
		return runClipboardCmd("cmd", []string{"/c", "clip"}, s)
	default:
		if err := runClipboardCmd("wl-copy", nil, s); err == nil {
			return nil
		}
		return runClipboardCmd("xclip", []string{"-selection", "clipboard"}, s)
	}
}

func runClipboardCmd(name string, args []string, stdin string) error {
	if _, err := exec.LookPath(name); err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	if err := cmd.Run(); err != nil {
		return errors.New(name + ": " + err.Error())
	}
	return nil
}
