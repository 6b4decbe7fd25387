package format

import (
	"bytes"
	"strings"
	"testing"
)

type factRows struct {
	Data []string `json:"data"`
}

func (f factRows) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(f.Data))
	for _, d := range f.Data {
		rows = append(rows, []string{d})
	}
	return []string{"text"}, rows
}

func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"data": 1}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != "{\"data\":1}\n" {
		t.Fatalf("unexpected json: %q", got)
	}
}

func TestWrite_YAMLUsesJSONNames(t *testing.T) {
	t.Parallel()

	type payload struct {
		VotesFalse int `json:"votesFalse"`
	}
	var buf bytes.Buffer
	if err := Write(&buf, payload{VotesFalse: 2}, "yaml", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != "votesFalse: 2\n" {
		t.Fatalf("unexpected yaml: %q", got)
	}
}

func TestWrite_TableTabular(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, factRows{Data: []string{"Lisbon is the capital of Portugal"}}, "table", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "text") || !strings.Contains(out, "Lisbon is the capital of Portugal") {
		t.Fatalf("unexpected table: %s", out)
	}
}

func TestWrite_TableKeyValueFallback(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"loginUrl": "https://auth.example.com/login", "count": 3}, "table", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "loginUrl") || !strings.Contains(out, "https://auth.example.com/login") || !strings.Contains(out, "3") {
		t.Fatalf("unexpected table: %s", out)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	if err := Write(&bytes.Buffer{}, 1, "edn", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
