package session

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, h http.HandlerFunc, cookie string) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL, Cookie: cookie})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestIdentity_LoggedIn(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			http.NotFound(w, r)
			return
		}
		if ck, err := r.Cookie("sid"); err != nil || ck.Value != "abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"name":{"value":"Alice"}}`)
	}, "sid=abc")

	id, err := c.Identity(context.Background())
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	if id.DisplayName() != "Alice" {
		t.Fatalf("expected Alice; got %q", id.DisplayName())
	}
}

func TestIdentity_ForwardsCookies(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("connect.sid"); err != nil || ck.Value != "xyz" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"name":{"value":"Bob"}}`)
	}, "")

	id, err := c.Identity(context.Background(), &http.Cookie{Name: "connect.sid", Value: "xyz"})
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	if id.DisplayName() != "Bob" {
		t.Fatalf("expected Bob; got %q", id.DisplayName())
	}
}

func TestIdentity_Non200IsNotLoggedIn(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusUnauthorized, http.StatusFound, http.StatusInternalServerError} {
		status := status
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}, "")
		id, err := c.Identity(context.Background())
		if !errors.Is(err, ErrNotLoggedIn) {
			t.Fatalf("status %d: expected ErrNotLoggedIn; got %v", status, err)
		}
		if id != nil {
			t.Fatalf("status %d: expected nil identity", status)
		}
	}
}

func TestIdentity_NullBodyIsNotLoggedIn(t *testing.T) {
	t.Parallel()

	for _, body := range []string{"null", " null\n"} {
		body := body
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, body)
		}, "")
		id, err := c.Identity(context.Background())
		if !errors.Is(err, ErrNotLoggedIn) {
			t.Fatalf("body %q: expected ErrNotLoggedIn; got %v", body, err)
		}
		if id != nil {
			t.Fatalf("body %q: expected nil identity; got %+v", body, id)
		}
	}
}

func TestIdentity_BadJSON(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	}, "")
	if _, err := c.Identity(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestNavigationURLs(t *testing.T) {
	t.Parallel()

	c, err := New(Config{BaseURL: "https://auth.example.com/"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.LoginURL() != "https://auth.example.com/login" {
		t.Fatalf("unexpected login url: %s", c.LoginURL())
	}
	if c.LogoutURL() != "https://auth.example.com/logout" {
		t.Fatalf("unexpected logout url: %s", c.LogoutURL())
	}
	if _, err := New(Config{BaseURL: ""}); err == nil {
		t.Fatalf("expected error for empty base url")
	}
}
