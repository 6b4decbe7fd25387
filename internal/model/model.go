package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Fact struct {
	ID               int64  `json:"id"`
	Text             string `json:"text"`
	Source           string `json:"source"`
	Category         string `json:"category"`
	VotesInteresting int    `json:"votesInteresting"`
	VotesMindblowing int    `json:"votesMindblowing"`
	VotesFalse       int    `json:"votesFalse"`
	CreatedIn        int    `json:"createdIn"`
}

// Disputed reports whether more people voted a fact false than found it
// interesting or mindblowing combined. It is display-only and never stored.
func (f Fact) Disputed() bool {
	return f.VotesInteresting+f.VotesMindblowing < f.VotesFalse
}

// Votes returns the current count for col.
func (f Fact) Votes(col VoteColumn) int {
	switch col {
	case VotesInteresting:
		return f.VotesInteresting
	case VotesMindblowing:
		return f.VotesMindblowing
	case VotesFalse:
		return f.VotesFalse
	default:
		return 0
	}
}

// NewFact is the payload of an insert. The store assigns id, vote counters and createdIn.
type NewFact struct {
	Text     string `json:"text"`
	Source   string `json:"source"`
	Category string `json:"category"`
}

type VoteColumn string

const (
	VotesInteresting VoteColumn = "votesInteresting"
	VotesMindblowing VoteColumn = "votesMindblowing"
	VotesFalse       VoteColumn = "votesFalse"
)

// VoteColumns lists the vote columns in display order.
var VoteColumns = []VoteColumn{VotesMindblowing, VotesInteresting, VotesFalse}

func (c VoteColumn) Valid() bool {
	switch c {
	case VotesInteresting, VotesMindblowing, VotesFalse:
		return true
	default:
		return false
	}
}

// ParseVoteColumn accepts either the column name or its short form
// (interesting|mindblowing|false).
func ParseVoteColumn(s string) (VoteColumn, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "interesting", strings.ToLower(string(VotesInteresting)):
		return VotesInteresting, nil
	case "mindblowing", strings.ToLower(string(VotesMindblowing)):
		return VotesMindblowing, nil
	case "false", strings.ToLower(string(VotesFalse)):
		return VotesFalse, nil
	}
	return "", fmt.Errorf("invalid vote column: %q (expected interesting|mindblowing|false)", s)
}

// Identity is whatever the session service reports for the current visitor.
// Only name.value is interpreted; the raw document is kept for display.
type Identity struct {
	Name *IdentityName `json:"name,omitempty"`

	Raw json.RawMessage `json:"-"`
}

type IdentityName struct {
	Value string `json:"value"`
}

func (id *Identity) UnmarshalJSON(b []byte) error {
	type plain Identity
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*id = Identity(p)
	id.Raw = append(json.RawMessage(nil), b...)
	return nil
}

func (id Identity) MarshalJSON() ([]byte, error) {
	if len(id.Raw) > 0 {
		return id.Raw, nil
	}
	type plain Identity
	return json.Marshal(plain(id))
}

// DisplayName returns name.value, or "" when the identity carries no name.
func (id *Identity) DisplayName() string {
	if id == nil || id.Name == nil {
		return ""
	}
	return strings.TrimSpace(id.Name.Value)
}

// Greeting is the header message for the given identity (nil means not logged in).
func Greeting(id *Identity) string {
	if name := id.DisplayName(); name != "" {
		return "Welcome back, " + name
	}
	return "Not logged in"
}
