// Package postgres opens a quizdesk store backed by PostgreSQL through pgx.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/quizdesk/internal/store/sqldb"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const DriverName = "postgres"

const uniqueViolation = "23505"

var Dialect = sqldb.Dialect{
	Name:              DriverName,
	Placeholder:       sqldb.Dollar,
	LockClause:        "FOR UPDATE",
	IsUniqueViolation: isUniqueViolation,
}

// Open connects to the database at dsn (a postgres:// URL or key/value DSN).
// Migrations are not applied.
func Open(ctx context.Context, dsn string) (*sqldb.Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return sqldb.New(db, Dialect, func(*sql.DB) error {
		return applyMigrations(dsn)
	}), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
