// Package sqlite implements the record store on an embedded SQLite database.
//
// The default DSN is a private in-memory database, so records still vanish
// when the process exits. Scalar filter predicates are evaluated in SQL.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/kailas-cloud/strindex/internal/domain"
	"github.com/kailas-cloud/strindex/internal/domain/analysis"
	"github.com/kailas-cloud/strindex/internal/domain/query/filter"
	"github.com/kailas-cloud/strindex/internal/domain/record"
)

// DefaultDSN opens a private in-memory database.
const DefaultDSN = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS strings (
	seq           INTEGER PRIMARY KEY AUTOINCREMENT,
	id            TEXT    NOT NULL UNIQUE,
	value         TEXT    NOT NULL,
	length        INTEGER NOT NULL,
	is_palindrome INTEGER NOT NULL,
	word_count    INTEGER NOT NULL,
	created_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS strings_length ON strings(length);
`

// Store keeps records in a single-connection SQLite database.
// seq preserves insertion order.
type Store struct {
	db         *sql.DB
	maxRecords int
}

// Open connects to dsn (DefaultDSN when empty) and creates the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// An in-memory database lives exactly as long as its connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// WithMaxRecords caps the number of stored records. Zero or negative means unlimited.
func (s *Store) WithMaxRecords(n int) *Store {
	if n > 0 {
		s.maxRecords = n
	}
	return s
}

// Close releases the database. An in-memory database is discarded.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores r. Returns ErrAlreadyExists for a known ID and ErrStoreFull at capacity.
func (s *Store) Put(ctx context.Context, r record.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put %s: begin: %w", r.ID(), err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM strings WHERE id = ?`, r.ID()).Scan(&exists); err != nil {
		return fmt.Errorf("put %s: %w", r.ID(), err)
	}
	if exists > 0 {
		return fmt.Errorf("put %s: %w", r.ID(), domain.ErrAlreadyExists)
	}

	if s.maxRecords > 0 {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM strings`).Scan(&n); err != nil {
			return fmt.Errorf("put %s: %w", r.ID(), err)
		}
		if n >= s.maxRecords {
			return fmt.Errorf("put %s: %w (max %d)", r.ID(), domain.ErrStoreFull, s.maxRecords)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO strings (id, value, length, is_palindrome, word_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID(), r.Value(), r.Length(), boolInt(r.IsPalindrome()), r.WordCount(), r.CreatedAt().UnixNano(),
	); err != nil {
		return fmt.Errorf("put %s: insert: %w", r.ID(), err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put %s: commit: %w", r.ID(), err)
	}
	return nil
}

// Get returns the record with the given ID.
func (s *Store) Get(ctx context.Context, id string) (record.Record, error) {
	var (
		value string
		ns    int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT value, created_at FROM strings WHERE id = ?`, id).Scan(&value, &ns)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Record{}, domain.ErrNotFound
	}
	if err != nil {
		return record.Record{}, fmt.Errorf("get %s: %w", id, err)
	}
	return hydrate(value, ns), nil
}

// List returns records matching f in insertion order.
func (s *Store) List(ctx context.Context, f filter.Set) ([]record.Record, error) {
	where, args := whereClause(f)
	rows, err := s.db.QueryContext(ctx,
		`SELECT value, created_at FROM strings`+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]record.Record, 0)
	for rows.Next() {
		var (
			value string
			ns    int64
		)
		if err := rows.Scan(&value, &ns); err != nil {
			return nil, fmt.Errorf("list: scan: %w", err)
		}
		// SQL narrows the rows; Matches has the final word.
		if r := hydrate(value, ns); f.Matches(r) {
			out = append(out, r)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return out, nil
}

// Delete removes the record with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM strings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count returns the number of stored records, or 0 if the database is unreachable.
func (s *Store) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM strings`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite: %w", err)
	}
	return nil
}

// whereClause translates the present predicates of f into SQL.
func whereClause(f filter.Set) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if v, ok := f.IsPalindrome(); ok {
		conds = append(conds, "is_palindrome = ?")
		args = append(args, boolInt(v))
	}
	if v, ok := f.MinLength(); ok {
		conds = append(conds, "length >= ?")
		args = append(args, v)
	}
	if v, ok := f.MaxLength(); ok {
		conds = append(conds, "length <= ?")
		args = append(args, v)
	}
	if v, ok := f.WordCount(); ok {
		conds = append(conds, "word_count = ?")
		args = append(args, v)
	}
	if c, ok := f.ContainsCharacter(); ok {
		conds = append(conds, "instr(value, ?) > 0")
		args = append(args, string(c))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// hydrate rebuilds a record; properties are a pure function of the value.
func hydrate(value string, createdAtNanos int64) record.Record {
	props := analysis.Analyze(value)
	return record.Reconstruct(props.SHA256Hash, value, props, time.Unix(0, createdAtNanos).UTC())
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
