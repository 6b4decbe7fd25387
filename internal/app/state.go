package app

import (
	"fmt"

	"factboard/internal/model"
)

// Messages shown by every front end.
const (
	LoadingMessage   = "Loading..."
	EmptyListMessage = "No facts for this category. Create one above."
	FetchAlert       = "There was a problem getting data"
	CategoryPrompt   = "Choose category:"
)

// State is everything a view needs to render. It is only mutated by the Controller.
type State struct {
	ShowForm        bool
	Facts           []model.Fact
	IsLoading       bool
	CurrentCategory string
	UserInfo        *model.Identity

	Form Form
	// Updating holds the ids of facts with a vote in flight.
	Updating map[int64]bool
	// Alert is the last user-visible error; views clear it once shown.
	Alert string
}

// Form holds the new-fact form fields.
type Form struct {
	Text      string
	Source    string
	Category  string
	Uploading bool
}

func (f Form) NewFact() model.NewFact {
	return model.NewFact{Text: f.Text, Source: f.Source, Category: f.Category}
}

// RemainingChars is the counter shown next to the text input; it goes negative past the limit.
func (f Form) RemainingChars() int {
	return model.MaxFactTextLen - model.TextLen(f.Text)
}

type FormField int

const (
	FieldText FormField = iota
	FieldSource
	FieldCategory
)

func (s State) clone() State {
	out := s
	if s.Facts != nil {
		out.Facts = append([]model.Fact(nil), s.Facts...)
	}
	out.Updating = make(map[int64]bool, len(s.Updating))
	for k, v := range s.Updating {
		out.Updating[k] = v
	}
	return out
}

// IsUpdating reports whether a vote for fact id is in flight.
func (s State) IsUpdating(id int64) bool {
	return s.Updating[id]
}

func FactCountMessage(n int) string {
	return fmt.Sprintf("There are %d facts in the database. Add your own!", n)
}

func FormToggleLabel(showForm bool) string {
	if showForm {
		return "Close"
	}
	return "Share a fact"
}
