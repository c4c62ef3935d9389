// Package sqldb implements store.Store over database/sql. The SQL is written
// once with '?' placeholders; a Dialect adapts it to each backend.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/quizdesk/internal/store"
)

// Dialect captures what differs between backends.
type Dialect struct {
	Name string

	// Placeholder renders the n-th (1-based) bind parameter. Nil keeps '?'.
	Placeholder func(n int) string

	// LockClause is appended to a SELECT that must hold an exclusive row
	// lock for the rest of the transaction. Empty when the backend
	// serializes writers at transaction start instead.
	LockClause string

	// IsUniqueViolation recognises the driver's unique-constraint error.
	IsUniqueViolation func(error) bool
}

// Dollar renders postgres-style $n placeholders.
func Dollar(n int) string { return "$" + strconv.Itoa(n) }

// Rebind rewrites '?' placeholders for the dialect. Queries in this package
// never contain a literal '?'.
func (d Dialect) Rebind(query string) string {
	if d.Placeholder == nil {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(d.Placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Migrator applies the driver's embedded migrations to db.
type Migrator func(db *sql.DB) error

type Store struct {
	db      *sql.DB
	dialect Dialect
	migrate Migrator
}

func New(db *sql.DB, d Dialect, migrate Migrator) *Store {
	return &Store{db: db, dialect: d, migrate: migrate}
}

// DB exposes the pool to drivers and tests.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Driver() string { return s.dialect.Name }

func (s *Store) ApplyMigrations() error {
	if s.migrate == nil {
		return errors.New("sqldb: no migrator configured")
	}
	return s.migrate(s.db)
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	// No-op after a successful commit.
	defer func() { _ = sqlTx.Rollback() }()

	if err := fn(repos{conn{q: sqlTx, d: s.dialect}}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) root() repos { return repos{conn{q: s.db, d: s.dialect}} }

func (s *Store) Accounts() store.Accounts       { return s.root().Accounts() }
func (s *Store) Tokens() store.Tokens           { return s.root().Tokens() }
func (s *Store) Questions() store.Questions     { return s.root().Questions() }
func (s *Store) Submissions() store.Submissions { return s.root().Submissions() }
func (s *Store) Ledger() store.Ledger           { return s.root().Ledger() }

// repos implements store.Tx over either the pool or a transaction.
type repos struct{ c conn }

func (r repos) Accounts() store.Accounts       { return accountsRepo{r.c} }
func (r repos) Tokens() store.Tokens           { return tokensRepo{r.c} }
func (r repos) Questions() store.Questions     { return questionsRepo{r.c} }
func (r repos) Submissions() store.Submissions { return submissionsRepo{r.c} }
func (r repos) Ledger() store.Ledger           { return ledgerRepo{r.c} }

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn binds a querier to a dialect so repositories write portable SQL.
type conn struct {
	q querier
	d Dialect
}

func (c conn) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.q.ExecContext(ctx, c.d.Rebind(query), args...)
}

func (c conn) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.q.QueryContext(ctx, c.d.Rebind(query), args...)
}

func (c conn) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return c.q.QueryRowContext(ctx, c.d.Rebind(query), args...)
}

func (c conn) mapWriteErr(err error) error {
	if err != nil && c.d.IsUniqueViolation != nil && c.d.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", store.ErrAlreadyExists, err)
	}
	return err
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// Timestamps are stored as unix milliseconds so both dialects compare them
// the same way.
func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func optionalMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func mapNullMillis(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromMillis(n.Int64)
	return &t
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
