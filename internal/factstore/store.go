// Package factstore talks to the table that holds facts.
//
// The hosted backend speaks the PostgREST dialect (REST); SQLite offers the
// same semantics against a local file for development and tests.
package factstore

import (
	"context"
	"errors"
	"fmt"

	"factboard/internal/model"
)

// Table is the name of the facts table on every backend.
const Table = "facts"

// MaxListLimit caps every list request.
const MaxListLimit = 1000

// ErrNoRows is returned when a write succeeds but the store hands back no row.
var ErrNoRows = errors.New("factstore: no row returned")

type Store interface {
	List(ctx context.Context, q Query) ([]model.Fact, error)
	Insert(ctx context.Context, nf model.NewFact) (model.Fact, error)
	// Update sets col to value on the row with the given id and returns the updated row.
	Update(ctx context.Context, id int64, col model.VoteColumn, value int) (model.Fact, error)
}

// Query describes a list request. The zero value lists every category.
type Query struct {
	// Category is an equality filter; "" or "all" means no filter.
	Category string
	// OrderBy defaults to votesInteresting.
	OrderBy string
	// Ascending flips the default descending order.
	Ascending bool
	// Limit defaults to (and is capped at) MaxListLimit.
	Limit int
}

// ListQuery builds the query used for a category selector.
func ListQuery(category string) Query {
	return Query{Category: category}.normalized()
}

func (q Query) normalized() Query {
	if q.Category == model.AllCategories {
		q.Category = ""
	}
	if q.OrderBy == "" {
		q.OrderBy = string(model.VotesInteresting)
	}
	if q.Limit <= 0 || q.Limit > MaxListLimit {
		q.Limit = MaxListLimit
	}
	return q
}

// orderColumns lists what the facts table may be ordered by.
var orderColumns = map[string]bool{
	"id":                           true,
	"createdIn":                    true,
	string(model.VotesInteresting): true,
	string(model.VotesMindblowing): true,
	string(model.VotesFalse):       true,
}

func (q Query) validate() error {
	if !orderColumns[q.OrderBy] {
		return fmt.Errorf("factstore: cannot order by %q", q.OrderBy)
	}
	return nil
}

// APIError is a non-2xx response from a remote store.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("factstore: remote returned status %d", e.Status)
	}
	if e.Code == "" {
		return fmt.Sprintf("factstore: remote returned status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("factstore: remote returned status %d (%s): %s", e.Status, e.Code, e.Message)
}
