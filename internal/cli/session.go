package cli

import (
	"encoding/json"
	"strings"

	"factboard/internal/browser"
	"factboard/internal/model"

	"github.com/spf13/cobra"
)

type whoamiPayload struct {
	Data whoamiData `json:"data"`
}

type whoamiData struct {
	LoggedIn bool            `json:"loggedIn"`
	Greeting string          `json:"greeting"`
	Name     string          `json:"name,omitempty"`
	Identity json.RawMessage `json:"identity,omitempty"`
}

func (p whoamiPayload) Table() ([]string, [][]string) {
	loggedIn := "no"
	if p.Data.LoggedIn {
		loggedIn = "yes"
	}
	return []string{"loggedIn", "greeting", "name"}, [][]string{{loggedIn, p.Data.Greeting, p.Data.Name}}
}

func newWhoamiCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show who the session service thinks you are",
		Long: strings.TrimSpace(`
Ask the session service who is logged in, using session.cookie
(FACTBOARD_SESSION_COOKIE) as the browser would send it.
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, sess, err := a.newController(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if sess != nil {
				ctrl.FetchIdentity(cmd.Context())
			}
			id := ctrl.State().UserInfo
			out := whoamiData{LoggedIn: id != nil, Greeting: model.Greeting(id)}
			if id != nil {
				out.Name = id.DisplayName()
				out.Identity = id.Raw
			}
			return writeOut(cmd, a, whoamiPayload{Data: out})
		},
	}
}

func newLoginCmd(a *App) *cobra.Command {
	return newSessionURLCmd(a, "login", "Open the session service login page", func(u sessionURLs) string { return u.LoginURL() })
}

func newLogoutCmd(a *App) *cobra.Command {
	return newSessionURLCmd(a, "logout", "Open the session service logout page", func(u sessionURLs) string { return u.LogoutURL() })
}

type sessionURLs interface {
	LoginURL() string
	LogoutURL() string
}

// newSessionURLCmd builds login/logout: both just navigate to the service.
func newSessionURLCmd(a *App, use, short string, pick func(sessionURLs) string) *cobra.Command {
	var open bool
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession()
			if err != nil {
				return writeErr(cmd, err)
			}
			if sess == nil {
				return writeErr(cmd, errNoSession())
			}
			u := pick(sess)

			opened := false
			openErr := ""
			if open {
				if err := browser.Open(u); err != nil {
					openErr = err.Error()
				} else {
					opened = true
				}
			}
			return writeOut(cmd, a, map[string]any{
				"data": map[string]any{
					"url":       u,
					"opened":    opened,
					"openError": openErr,
				},
			})
		},
	}
	cmd.Flags().BoolVar(&open, "open", true, "Open the URL in your default browser")
	return cmd
}
