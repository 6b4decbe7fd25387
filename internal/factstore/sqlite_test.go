package factstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"factboard/internal/model"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(context.Background(), SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "facts.sqlite"),
		Now:  func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLite_InsertAssignsDefaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestSQLite(t)
	f, err := s.Insert(ctx, model.NewFact{Text: "Lisbon is the capital of Portugal", Source: "https://en.wikipedia.org/wiki/Lisbon", Category: "society"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if f.ID == 0 {
		t.Fatalf("expected server-assigned id")
	}
	if f.VotesInteresting != 0 || f.VotesMindblowing != 0 || f.VotesFalse != 0 {
		t.Fatalf("expected zero vote counters; got %+v", f)
	}
	if f.CreatedIn != 2025 {
		t.Fatalf("expected createdIn 2025; got %d", f.CreatedIn)
	}
}

func TestSQLite_ListFiltersOrdersAndLimits(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestSQLite(t)

	seed := []struct {
		nf          model.NewFact
		interesting int
	}{
		{model.NewFact{Text: "a", Source: "https://a.example", Category: "science"}, 1},
		{model.NewFact{Text: "b", Source: "https://b.example", Category: "science"}, 9},
		{model.NewFact{Text: "c", Source: "https://c.example", Category: "history"}, 5},
	}
	for _, sd := range seed {
		f, err := s.Insert(ctx, sd.nf)
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if _, err := s.Update(ctx, f.ID, model.VotesInteresting, sd.interesting); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	all, err := s.List(ctx, ListQuery(model.AllCategories))
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 3 || all[0].Text != "b" || all[1].Text != "c" || all[2].Text != "a" {
		t.Fatalf("expected votesInteresting desc order b,c,a; got %+v", all)
	}

	sci, err := s.List(ctx, ListQuery("science"))
	if err != nil {
		t.Fatalf("List science: %v", err)
	}
	if len(sci) != 2 || sci[0].Text != "b" || sci[1].Text != "a" {
		t.Fatalf("expected science facts b,a; got %+v", sci)
	}

	limited, err := s.List(ctx, Query{Limit: 1})
	if err != nil {
		t.Fatalf("List limited: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 row; got %d", len(limited))
	}

	empty, err := s.List(ctx, ListQuery("finance"))
	if err != nil {
		t.Fatalf("List finance: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil result; got %#v", empty)
	}
}

func TestSQLite_UpdateMissingRow(t *testing.T) {
	t.Parallel()

	s := openTestSQLite(t)
	_, err := s.Update(context.Background(), 404, model.VotesFalse, 1)
	if !errors.Is(err, ErrNoRows) {
		t.Fatalf("expected ErrNoRows; got %v", err)
	}
}

func TestSQLite_RejectsUnknownOrder(t *testing.T) {
	t.Parallel()

	s := openTestSQLite(t)
	if _, err := s.List(context.Background(), Query{OrderBy: "text; DROP TABLE facts"}); err == nil {
		t.Fatalf("expected error for unknown order column")
	}
}
