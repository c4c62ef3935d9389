// Package sqlite opens a quizdesk store backed by a local SQLite file.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/quizdesk/internal/store/sqldb"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const DriverName = "sqlite"

// Dialect keeps '?' placeholders and needs no row lock clause: every
// transaction begins IMMEDIATE, so writers are serialized at BEGIN.
var Dialect = sqldb.Dialect{
	Name:              DriverName,
	IsUniqueViolation: isUniqueViolation,
}

// DSN turns a plain file path into a modernc DSN with the pragmas the store
// relies on. Values that already look like a DSN are returned unchanged.
func DSN(path string) string {
	if strings.HasPrefix(path, "file:") || strings.Contains(path, "?") {
		return path
	}
	return "file:" + path +
		"?_pragma=busy_timeout(5000)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(1)" +
		"&_txlock=immediate"
}

// Open connects to the SQLite database at path. Migrations are not applied.
func Open(path string) (*sqldb.Store, error) {
	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A single connection gives one writer at a time and keeps pragmas
	// applied to the only session.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return sqldb.New(db, Dialect, applyMigrations), nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}
