package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/quizdesk/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Repos is the set of repositories available both on the root Store and
// inside a transaction.
type Repos interface {
	Accounts() Accounts
	Tokens() Tokens
	Questions() Questions
	Submissions() Submissions
	Ledger() Ledger
}

// Store is the root data access interface. Drivers (sqlite, postgres)
// construct it; business logic only ever sees this interface.
type Store interface {
	Repos

	// Driver names the backing dialect ("sqlite", "postgres").
	Driver() string

	ApplyMigrations() error

	// WithTx runs fn in one read/write transaction, committing when fn
	// returns nil and rolling back otherwise. Repos obtained from tx must not
	// escape fn.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Ping(ctx context.Context) error
	Close() error
}

// Tx is a transaction-scoped view of the repositories. Nested transactions
// are not supported.
type Tx interface {
	Repos
}

type Accounts interface {
	// Create inserts a; ErrAlreadyExists on a username or email clash.
	Create(ctx context.Context, a domain.Account) error

	GetByID(ctx context.Context, id string) (domain.Account, error)

	// GetByLogin matches login case-insensitively against username or
	// email, preferring a username match.
	GetByLogin(ctx context.Context, login string) (domain.Account, error)

	// Exists reports whether username or email is taken (case-insensitive).
	Exists(ctx context.Context, username, email string) (bool, error)

	SetStaff(ctx context.Context, username string, staff bool) error
}

type Tokens interface {
	Create(ctx context.Context, t domain.Token) error

	// Resolve returns the account bound to a live token; ErrNotFound when the
	// fingerprint is unknown or expired at now.
	Resolve(ctx context.Context, fingerprint string, now time.Time) (domain.Account, error)

	Exists(ctx context.Context, fingerprint string, now time.Time) (bool, error)

	// Delete removes one token and reports whether it existed.
	Delete(ctx context.Context, fingerprint string) (bool, error)

	// DeleteExpired removes tokens expired at now and returns how many.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	CountForAccount(ctx context.Context, accountID string) (int, error)
}

type Questions interface {
	Create(ctx context.Context, q domain.Question) (int64, error)

	// List returns all questions in creation order.
	List(ctx context.Context) ([]domain.Question, error)

	// CorrectOptions returns the correct option for each id that exists.
	// Missing ids are simply absent from the map.
	CorrectOptions(ctx context.Context, ids []int64) (map[int64]domain.Option, error)
}

type Submissions interface {
	// Create writes the header and every answer row; call it inside WithTx.
	Create(ctx context.Context, s domain.Submission) (int64, error)

	// Latest returns the most recent submission for username with answers.
	Latest(ctx context.Context, username string) (domain.Submission, error)
}

type Ledger interface {
	// Ensure creates a zero ledger row for username if none exists.
	Ensure(ctx context.Context, username string, now time.Time) error

	// LockScore reads the score holding an exclusive row lock until the
	// surrounding transaction ends.
	LockScore(ctx context.Context, username string) (int64, error)

	// SetScore writes score and bumps the attempts counter.
	SetScore(ctx context.Context, username string, score int64, now time.Time) error

	// Profile joins the account with its ledger row; ErrNotFound when the
	// account does not exist.
	Profile(ctx context.Context, username string) (domain.Profile, error)

	// Profiles lists every account by score descending, then username.
	Profiles(ctx context.Context) ([]domain.Profile, error)
}
