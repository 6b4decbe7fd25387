package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"factboard/internal/browser"
	"factboard/internal/web"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWebCmd(a *App) *cobra.Command {
	var addr string
	var open bool

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the board as HTML (no JavaScript)",
		Long: strings.TrimSpace(`
Serve the fact board from a local HTTP server.

Pages are server-rendered; forms post back and redirect. Each request asks the
session service who is logged in, forwarding the browser's cookies.
`),
		Example: strings.TrimSpace(`
# Serve on localhost
factboard web --addr 127.0.0.1:3335

# Serve a local SQLite board
factboard --backend sqlite web --addr :3335
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}

			st, err := a.openStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := a.openSession()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg := web.ServerConfig{
				Addr:           listenAddr,
				Title:          a.cfg.UI.Title,
				Store:          st,
				SessionCookie:  a.cfg.Session.CookieName,
				Logger:         a.logger(),
				RequestTimeout: a.cfg.HTTP.Timeout,
			}
			if sess != nil {
				cfg.Session = sess
			}
			srv, err := web.NewServer(cfg)
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			opened := false
			openErr := ""
			if open {
				if err := browser.Open(url); err != nil {
					openErr = err.Error()
				} else {
					opened = true
				}
			}

			hints := []string{}
			if !opened {
				hints = append(hints, "open "+url)
			}

			_ = writeOut(cmd, a, map[string]any{
				"data": map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"backend":   a.cfg.Store.Backend,
					"opened":    opened,
					"openError": openErr,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": hints,
			})

			fmt.Fprintf(cmd.ErrOrStderr(), "factboard web running at %s (backend=%s)\n", url, a.cfg.Store.Backend)
			if openErr != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to open browser: %s\n", openErr)
			}

			return serveUntilDone(cmd.Context(), ln, srv.Handler(), a.logger())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3335", "Bind address (host:port or :port)")
	cmd.Flags().BoolVar(&open, "open", true, "Open the UI in your default browser")
	return cmd
}

// serveUntilDone serves on ln until ctx is cancelled, then shuts down gracefully.
func serveUntilDone(ctx context.Context, ln net.Listener, h http.Handler, log *zap.Logger) error {
	hs := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- hs.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
