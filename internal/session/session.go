// Package session probes the remote login service for the current identity.
//
// The service owns the whole login protocol: login and logout are plain
// navigation targets, and the only call made here is GET /user.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"factboard/internal/model"

	"go.uber.org/zap"
)

// ErrNotLoggedIn is returned by Identity for any non-200 answer and for a
// 200 whose body is JSON null.
var ErrNotLoggedIn = errors.New("session: not logged in")

type Config struct {
	BaseURL string
	// Cookie is a raw Cookie header value sent with every probe (e.g. "sid=abc").
	Cookie     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type Client struct {
	base   string
	cookie string
	hc     *http.Client
	log    *zap.Logger
}

func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("session: invalid base url: %q", cfg.BaseURL)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base:   base,
		cookie: strings.TrimSpace(cfg.Cookie),
		hc:     hc,
		log:    log.Named("session"),
	}, nil
}

func (c *Client) LoginURL() string  { return c.base + "/login" }
func (c *Client) LogoutURL() string { return c.base + "/logout" }
func (c *Client) UserURL() string   { return c.base + "/user" }

// Identity asks the service who is logged in. Extra cookies (for example the
// ones a browser sent to the web UI) are forwarded alongside the configured one.
func (c *Client) Identity(ctx context.Context, cookies ...*http.Cookie) (*model.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.UserURL(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}
	for _, ck := range cookies {
		if ck != nil {
			req.AddCookie(ck)
		}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Debug("identity probe failed", zap.Error(err))
		return nil, fmt.Errorf("session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		c.log.Debug("identity probe: not logged in", zap.Int("status", resp.StatusCode))
		return nil, ErrNotLoggedIn
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("session: read identity: %w", err)
	}
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		c.log.Debug("identity probe: null identity")
		return nil, ErrNotLoggedIn
	}
	var id model.Identity
	if err := json.Unmarshal(b, &id); err != nil {
		return nil, fmt.Errorf("session: decode identity: %w", err)
	}
	c.log.Debug("identity probe: logged in", zap.Bool("named", id.DisplayName() != ""))
	return &id, nil
}
