package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestFactDisputed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		f    Fact
		want bool
	}{
		{name: "false outweighs", f: Fact{VotesInteresting: 1, VotesMindblowing: 0, VotesFalse: 5}, want: true},
		{name: "interesting outweighs", f: Fact{VotesInteresting: 5, VotesMindblowing: 0, VotesFalse: 1}, want: false},
		{name: "tie is not disputed", f: Fact{VotesInteresting: 2, VotesMindblowing: 1, VotesFalse: 3}, want: false},
		{name: "no votes", f: Fact{}, want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.f.Disputed(); got != tt.want {
				t.Fatalf("Disputed() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestGreeting(t *testing.T) {
	t.Parallel()

	if got := Greeting(&Identity{Name: &IdentityName{Value: "Alice"}}); got != "Welcome back, Alice" {
		t.Fatalf("unexpected greeting: %q", got)
	}
	if got := Greeting(nil); got != "Not logged in" {
		t.Fatalf("unexpected greeting for nil identity: %q", got)
	}
	if got := Greeting(&Identity{}); got != "Not logged in" {
		t.Fatalf("identity without a name should not greet; got %q", got)
	}
	if got := Greeting(&Identity{Name: &IdentityName{Value: ""}}); got != "Not logged in" {
		t.Fatalf("empty name should not greet; got %q", got)
	}
}

func TestIdentityKeepsRawDocument(t *testing.T) {
	t.Parallel()

	raw := `{"name":{"value":"Alice"},"uinfin":{"value":"S1234567A"}}`
	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if id.DisplayName() != "Alice" {
		t.Fatalf("expected name Alice; got %q", id.DisplayName())
	}
	b, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), "uinfin") {
		t.Fatalf("expected extra fields preserved; got %s", b)
	}
}

func TestParseVoteColumn(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]VoteColumn{
		"interesting":      VotesInteresting,
		"Mindblowing":      VotesMindblowing,
		"false":            VotesFalse,
		"votesInteresting": VotesInteresting,
		"votesFalse":       VotesFalse,
	} {
		got, err := ParseVoteColumn(in)
		if err != nil {
			t.Fatalf("ParseVoteColumn(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseVoteColumn(%q) = %q; want %q", in, got, want)
		}
	}
	if _, err := ParseVoteColumn("votesBoring"); err == nil {
		t.Fatalf("expected error for unknown column")
	}
}

func TestValidateNewFact(t *testing.T) {
	t.Parallel()

	ok := NewFact{Text: "Lisbon is the capital of Portugal", Source: "https://en.wikipedia.org/wiki/Lisbon", Category: "society"}
	if err := ValidateNewFact(ok); err != nil {
		t.Fatalf("expected valid; got %v", err)
	}

	tests := []struct {
		name string
		nf   NewFact
	}{
		{name: "empty text", nf: NewFact{Text: "", Source: ok.Source, Category: ok.Category}},
		{name: "text 201 chars", nf: NewFact{Text: strings.Repeat("x", 201), Source: ok.Source, Category: ok.Category}},
		{name: "101 astral emoji", nf: NewFact{Text: strings.Repeat("🐙", 101), Source: ok.Source, Category: ok.Category}},
		{name: "ftp source", nf: NewFact{Text: ok.Text, Source: "ftp://x", Category: ok.Category}},
		{name: "not a url", nf: NewFact{Text: ok.Text, Source: "wikipedia", Category: ok.Category}},
		{name: "empty category", nf: NewFact{Text: ok.Text, Source: ok.Source, Category: ""}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateNewFact(tt.nf)
			if !errors.Is(err, ErrInvalidFact) {
				t.Fatalf("expected ErrInvalidFact; got %v", err)
			}
		})
	}

	if err := ValidateNewFact(NewFact{Text: strings.Repeat("é", 200), Source: "http://x.org", Category: "news"}); err != nil {
		t.Fatalf("200 characters should be accepted; got %v", err)
	}
}

func TestTextLenCountsUTF16Units(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{in: "", want: 0},
		{in: "abc", want: 3},
		{in: "é", want: 1},
		{in: "🐙", want: 2},
		{in: "go 🐙 ok", want: 8},
	}
	for _, tt := range tests {
		if got := TextLen(tt.in); got != tt.want {
			t.Fatalf("TextLen(%q) = %d; want %d", tt.in, got, tt.want)
		}
	}
	if err := ValidateNewFact(NewFact{Text: strings.Repeat("🐙", 100), Source: "http://x.org", Category: "news"}); err != nil {
		t.Fatalf("100 astral emoji are 200 units and should be accepted; got %v", err)
	}
}

func TestCategoryRegistry(t *testing.T) {
	t.Parallel()

	if !IsCategorySelector("all") || !IsCategorySelector("science") {
		t.Fatalf("expected all and science to be selectors")
	}
	if IsCategorySelector("Science") || IsCategorySelector("sports") {
		t.Fatalf("unexpected selector accepted")
	}
	if got := CategoryColor("Technology"); got != "#3b82f6" {
		t.Fatalf("expected case-insensitive color lookup; got %q", got)
	}
	if got := CategoryColor("sports"); got != DefaultCategoryColor {
		t.Fatalf("expected fallback color; got %q", got)
	}
	sel := CategorySelectors()
	if len(sel) != 9 || sel[0] != AllCategories || sel[1] != "technology" || sel[8] != "news" {
		t.Fatalf("unexpected selectors: %v", sel)
	}

	cs := Categories()
	cs[0].Name = "mutated"
	if Categories()[0].Name != "technology" {
		t.Fatalf("registry must not be mutable through Categories()")
	}
}
