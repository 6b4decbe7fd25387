package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// writeConfig writes a config.yaml pointing at a fresh SQLite board.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "store:\n  backend: sqlite\n  sqlite_path: " + filepath.Join(dir, "facts.sqlite") + "\nlog:\n  level: error\n" + extra
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func mustRunJSON(t *testing.T, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: factboard %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	return env
}

func addFact(t *testing.T, cfg, text, source, category string) int64 {
	t.Helper()
	env := mustRunJSON(t, "--config", cfg, "facts", "add", "--text", text, "--source", source, "--category", category)
	id, _ := env["data"].(map[string]any)["id"].(float64)
	if id == 0 {
		t.Fatalf("expected facts add to return an id; got %#v", env["data"])
	}
	return int64(id)
}

func TestCategories_NoConfigNeeded(t *testing.T) {
	t.Parallel()

	env := mustRunJSON(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "categories")
	cats, ok := env["data"].([]any)
	if !ok || len(cats) != 8 {
		t.Fatalf("expected 8 categories, got %#v", env["data"])
	}
	first := cats[0].(map[string]any)
	if first["name"] != "technology" || first["color"] != "#3b82f6" {
		t.Fatalf("unexpected first category: %#v", first)
	}
}

func TestFacts_AddListVote(t *testing.T) {
	t.Parallel()

	cfg := writeConfig(t, "")
	lisbon := addFact(t, cfg, "Lisbon is the capital of Portugal", "https://en.wikipedia.org/wiki/Lisbon", "society")
	addFact(t, cfg, "Go was announced in 2009", "https://go.dev/blog/", "technology")

	all := mustRunJSON(t, "--config", cfg, "facts", "list")
	if xs := all["data"].([]any); len(xs) != 2 {
		t.Fatalf("expected 2 facts, got %d", len(xs))
	}
	meta := all["meta"].(map[string]any)
	if meta["message"] != "There are 2 facts in the database. Add your own!" {
		t.Fatalf("unexpected message: %v", meta["message"])
	}

	society := mustRunJSON(t, "--config", cfg, "facts", "list", "--category", "society")
	if xs := society["data"].([]any); len(xs) != 1 {
		t.Fatalf("expected 1 society fact, got %d", len(xs))
	}

	empty := mustRunJSON(t, "--config", cfg, "facts", "list", "--category", "science")
	if msg := empty["meta"].(map[string]any)["message"]; msg != "No facts for this category. Create one above." {
		t.Fatalf("unexpected empty message: %v", msg)
	}

	id := strconv.FormatInt(lisbon, 10)
	voted := mustRunJSON(t, "--config", cfg, "facts", "vote", id, "mindblowing")
	if got := voted["data"].(map[string]any)["votesMindblowing"]; got != float64(1) {
		t.Fatalf("expected votesMindblowing 1, got %v", got)
	}
	voted = mustRunJSON(t, "--config", cfg, "facts", "vote", id, "votesMindblowing")
	if got := voted["data"].(map[string]any)["votesMindblowing"]; got != float64(2) {
		t.Fatalf("expected votesMindblowing 2, got %v", got)
	}

	shown := mustRunJSON(t, "--config", cfg, "facts", "show", id)
	if got := shown["data"].(map[string]any)["text"]; got != "Lisbon is the capital of Portugal" {
		t.Fatalf("unexpected text: %v", got)
	}
}

func TestFacts_ListFormats(t *testing.T) {
	t.Parallel()

	cfg := writeConfig(t, "")
	addFact(t, cfg, "Go was announced in 2009", "https://go.dev/blog/", "technology")

	stdout, stderr, err := runCLI(t, []string{"--config", cfg, "--format", "table", "facts", "list"})
	if err != nil {
		t.Fatalf("facts list: %v\n%s", err, stderr)
	}
	out := string(stdout)
	if !strings.Contains(out, "Go was announced in 2009") || !strings.Contains(out, "mindblowing") {
		t.Fatalf("unexpected table:\n%s", out)
	}

	stdout, stderr, err = runCLI(t, []string{"--config", cfg, "--format", "yaml", "facts", "list"})
	if err != nil {
		t.Fatalf("facts list: %v\n%s", err, stderr)
	}
	if !strings.Contains(string(stdout), "category: technology") {
		t.Fatalf("unexpected yaml:\n%s", stdout)
	}
}

func TestFacts_Errors(t *testing.T) {
	t.Parallel()

	cfg := writeConfig(t, "")
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"unknown category", []string{"facts", "list", "--category", "gossip"}, "category not found: gossip"},
		{"bad source", []string{"facts", "add", "--text", "x", "--source", "nope", "--category", "science"}, "invalid fact"},
		{"text too long", []string{"facts", "add", "--text", strings.Repeat("a", 201), "--source", "https://example.org", "--category", "science"}, "invalid fact"},
		{"bad column", []string{"facts", "vote", "1", "boring"}, "boring"},
		{"missing fact", []string{"facts", "vote", "999", "false"}, "fact not found: 999"},
		{"bad id", []string{"facts", "show", "abc"}, "invalid fact id"},
	}
	for _, tc := range cases {
		_, stderr, err := runCLI(t, append([]string{"--config", cfg}, tc.args...))
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !strings.Contains(string(stderr), tc.want) {
			t.Fatalf("%s: expected stderr to contain %q, got:\n%s", tc.name, tc.want, stderr)
		}
	}
}

func TestWhoamiAndLogin(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" || !strings.Contains(r.Header.Get("Cookie"), "sid=alice") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"name":{"value":"Alice"}}`)
	}))
	t.Cleanup(ts.Close)

	cfg := writeConfig(t, "session:\n  url: "+ts.URL+"\n  cookie: sid=alice\n")
	who := mustRunJSON(t, "--config", cfg, "whoami")
	data := who["data"].(map[string]any)
	if data["loggedIn"] != true || data["greeting"] != "Welcome back, Alice" {
		t.Fatalf("unexpected whoami: %#v", data)
	}

	login := mustRunJSON(t, "--config", cfg, "login", "--open=false")
	if got := login["data"].(map[string]any)["url"]; got != ts.URL+"/login" {
		t.Fatalf("unexpected login url: %v", got)
	}

	anon := writeConfig(t, "")
	who = mustRunJSON(t, "--config", anon, "whoami")
	if data := who["data"].(map[string]any); data["loggedIn"] != false || data["greeting"] != "Not logged in" {
		t.Fatalf("unexpected anonymous whoami: %#v", data)
	}
	if _, _, err := runCLI(t, []string{"--config", anon, "logout", "--open=false"}); err == nil {
		t.Fatalf("expected logout to fail without a session service")
	}
}
