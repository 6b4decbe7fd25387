package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"factboard/internal/cli"
	"factboard/internal/model"
)

func isCategoryShortcut(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return model.IsCategory(s)
}

func rewriteCategoryShortcutArgs(argv []string) []string {
	// Convenience: `factboard <category>` works like `factboard facts list --category <category>`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (e.g. `factboard --format table science`), so we
	// look for the first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config":  true,
		"--format":  true,
		"--backend": true,
	}
	boolFlags := map[string]bool{
		"--pretty":  true,
		"--verbose": true,
		"-v":        true,
	}

	rewrite := func(i int) []string {
		out := make([]string, 0, len(argv)+3)
		out = append(out, argv[:i]...)
		out = append(out, "facts", "list", "--category", strings.ToLower(strings.TrimSpace(argv[i])))
		out = append(out, argv[i+1:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isCategoryShortcut(argv[i+1]) {
				out := make([]string, 0, len(argv)+3)
				out = append(out, argv[:i]...)
				out = append(out, "facts", "list", "--category", strings.ToLower(strings.TrimSpace(argv[i+1])))
				out = append(out, argv[i+2:]...)
				return out
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++ // skip value if present
			}
			continue
		}

		// First positional token.
		if isCategoryShortcut(a) {
			return rewrite(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteCategoryShortcutArgs(os.Args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
