package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"factboard/internal/app"
	"factboard/internal/config"
	"factboard/internal/factstore"
	"factboard/internal/format"
	"factboard/internal/logging"
	"factboard/internal/session"
	"factboard/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// noConfigAnnotation marks commands that run without loading config.
const noConfigAnnotation = "factboard/no-config"

type App struct {
	ConfigPath string
	Backend    string
	PrettyJSON bool
	Format     string
	Verbose    bool

	cfg     *config.Config
	log     *zap.Logger
	closers []func() error
}

func NewRootCmd() *cobra.Command {
	a := &App{}

	cmd := &cobra.Command{
		Use:          "factboard",
		Short:        "Share and vote on short facts (TUI + CLI + web)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive board
  factboard

  # Scriptable commands
  factboard facts list --category science
  factboard facts add --text "Octopuses have three hearts" --source https://example.org --category science
  factboard facts vote 42 mindblowing

  # Category shortcut (same as: factboard facts list --category history)
  factboard history
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive board.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, a)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[noConfigAnnotation] == "true" {
			return nil
		}
		// The root command is the TUI, which owns the terminal.
		interactive := !cmd.HasParent()
		if err := a.setup(interactive); err != nil {
			return writeErr(cmd, err)
		}
		return nil
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		a.close()
		return nil
	}

	cmd.PersistentFlags().StringVar(&a.ConfigPath, "config", envOr("FACTBOARD_CONFIG", ""), "Path to config.yaml (default: ~/.factboard/config.yaml)")
	cmd.PersistentFlags().StringVar(&a.Backend, "backend", "", "Fact store backend (rest|sqlite); overrides store.backend")
	cmd.PersistentFlags().BoolVar(&a.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&a.Format, "format", "", "Output format (json|yaml|table); overrides output.format")
	cmd.PersistentFlags().BoolVarP(&a.Verbose, "verbose", "v", false, "Debug logging")

	cmd.AddCommand(newFactsCmd(a))
	cmd.AddCommand(newCategoriesCmd(a))
	cmd.AddCommand(newWhoamiCmd(a))
	cmd.AddCommand(newLoginCmd(a))
	cmd.AddCommand(newLogoutCmd(a))
	cmd.AddCommand(newWebCmd(a))

	return cmd
}

// setup loads config and builds the logger. Flags win over env and file.
func (a *App) setup(interactive bool) error {
	cfg, err := config.Load(a.ConfigPath, func(c *config.Config) {
		if b := strings.TrimSpace(a.Backend); b != "" {
			c.Store.Backend = b
		}
		if f := strings.TrimSpace(a.Format); f != "" {
			c.Output.Format = f
		}
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	if a.Format == "" {
		a.Format = cfg.Output.Format
	}

	fallback := "stderr"
	if interactive {
		fallback = ""
	}
	log, err := logging.New(logging.Options{
		Level:    cfg.Log.Level,
		Verbose:  a.Verbose,
		File:     cfg.Log.File,
		Fallback: fallback,
	})
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func (a *App) logger() *zap.Logger {
	if a.log == nil {
		return zap.NewNop()
	}
	return a.log
}

func (a *App) openStore(ctx context.Context) (factstore.Store, error) {
	if a.cfg == nil {
		return nil, errors.New("config not loaded")
	}
	switch a.cfg.Store.Backend {
	case config.BackendSQLite:
		st, err := factstore.OpenSQLite(ctx, factstore.SQLiteConfig{
			Path:   a.cfg.Store.SQLitePath,
			Logger: a.logger(),
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, st.Close)
		return st, nil
	default:
		return factstore.NewREST(factstore.RESTConfig{
			BaseURL: a.cfg.Store.URL,
			APIKey:  a.cfg.Store.Key,
			Timeout: a.cfg.HTTP.Timeout,
			Logger:  a.logger(),
		})
	}
}

// openSession returns nil (and no error) when no session service is configured.
func (a *App) openSession() (*session.Client, error) {
	if a.cfg == nil || strings.TrimSpace(a.cfg.Session.URL) == "" {
		return nil, nil
	}
	return session.New(session.Config{
		BaseURL: a.cfg.Session.URL,
		Cookie:  a.cfg.Session.Cookie,
		Timeout: a.cfg.HTTP.Timeout,
		Logger:  a.logger(),
	})
}

// newController wires a controller to the configured store (and session, if any).
func (a *App) newController(ctx context.Context, opts ...app.Option) (*app.Controller, *session.Client, error) {
	st, err := a.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	sess, err := a.openSession()
	if err != nil {
		return nil, nil, err
	}
	opts = append([]app.Option{app.WithLogger(a.logger())}, opts...)
	if sess == nil {
		return app.New(st, nil, opts...), nil, nil
	}
	return app.New(st, sess, opts...), sess, nil
}

func runTUI(cmd *cobra.Command, a *App) error {
	ctrl, sess, err := a.newController(cmd.Context())
	if err != nil {
		return writeErr(cmd, err)
	}
	opts := tui.Options{Title: a.cfg.UI.Title}
	if sess != nil {
		opts.LoginURL = sess.LoginURL()
		opts.LogoutURL = sess.LogoutURL()
	}
	return tui.Run(cmd.Context(), ctrl, opts, a.logger())
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, a *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, a.Format, a.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
