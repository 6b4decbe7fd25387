package factstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"factboard/internal/model"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var factColumns = []string{
	"id",
	"text",
	"source",
	"category",
	`"votesInteresting"`,
	`"votesMindblowing"`,
	`"votesFalse"`,
	`"createdIn"`,
}

type SQLiteConfig struct {
	Path   string
	Logger *zap.Logger
	// Now stamps createdIn on insert; defaults to time.Now.
	Now func() time.Time
}

// SQLite stores facts in a local database file with the same semantics as the hosted table.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
	log *zap.Logger
}

var _ Store = (*SQLite)(nil)

func OpenSQLite(ctx context.Context, cfg SQLiteConfig) (*SQLite, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("factstore: sqlite path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL + busy_timeout so the TUI and a CLI invocation can share one file.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &SQLite{db: db, now: now, log: log.Named("factstore.sqlite")}, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS facts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			text TEXT NOT NULL,
			source TEXT NOT NULL,
			category TEXT NOT NULL,
			"votesInteresting" INTEGER NOT NULL DEFAULT 0,
			"votesMindblowing" INTEGER NOT NULL DEFAULT 0,
			"votesFalse" INTEGER NOT NULL DEFAULT 0,
			"createdIn" INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_facts_category ON facts(category);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) List(ctx context.Context, q Query) ([]model.Fact, error) {
	q = q.normalized()
	if err := q.validate(); err != nil {
		return nil, err
	}
	dir := "DESC"
	if q.Ascending {
		dir = "ASC"
	}
	b := sq.Select(factColumns...).
		From(Table).
		OrderBy(fmt.Sprintf("%q %s", q.OrderBy, dir), "id ASC").
		Limit(uint64(q.Limit))
	if q.Category != "" {
		b = b.Where(sq.Eq{"category": q.Category})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("factstore: list: %w", err)
	}
	defer rows.Close()

	out := []model.Fact{}
	for rows.Next() {
		f, err := scanFact(rows)
		if err != nil {
			return nil, fmt.Errorf("factstore: list: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("factstore: list: %w", err)
	}
	s.log.Debug("listed facts", zap.String("category", q.Category), zap.Int("rows", len(out)))
	return out, nil
}

func (s *SQLite) Insert(ctx context.Context, nf model.NewFact) (model.Fact, error) {
	query, args, err := sq.Insert(Table).
		Columns("text", "source", "category", `"createdIn"`).
		Values(nf.Text, nf.Source, nf.Category, s.now().Year()).
		Suffix("RETURNING " + strings.Join(factColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Fact{}, err
	}
	f, err := scanFact(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return model.Fact{}, fmt.Errorf("factstore: insert: %w", err)
	}
	s.log.Debug("inserted fact", zap.Int64("id", f.ID))
	return f, nil
}

func (s *SQLite) Update(ctx context.Context, id int64, col model.VoteColumn, value int) (model.Fact, error) {
	if !col.Valid() {
		return model.Fact{}, fmt.Errorf("factstore: update: invalid column %q", col)
	}
	query, args, err := sq.Update(Table).
		Set(fmt.Sprintf("%q", string(col)), value).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(factColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Fact{}, err
	}
	f, err := scanFact(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Fact{}, fmt.Errorf("factstore: update %d: %w", id, ErrNoRows)
	}
	if err != nil {
		return model.Fact{}, fmt.Errorf("factstore: update %d: %w", id, err)
	}
	s.log.Debug("updated fact", zap.Int64("id", id), zap.String("column", string(col)), zap.Int("value", value))
	return f, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFact(r rowScanner) (model.Fact, error) {
	var f model.Fact
	err := r.Scan(
		&f.ID,
		&f.Text,
		&f.Source,
		&f.Category,
		&f.VotesInteresting,
		&f.VotesMindblowing,
		&f.VotesFalse,
		&f.CreatedIn,
	)
	return f, err
}
