package sqldb

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/quizdesk/internal/domain"
	"github.com/aussiebroadwan/quizdesk/internal/store"
)

type accountsRepo struct{ c conn }

const accountColumns = `id, username, email, password_hash, first_name, last_name, is_staff, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (domain.Account, error) {
	var (
		a       domain.Account
		created int64
	)
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName, &a.IsStaff, &created)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	a.CreatedAt = fromMillis(created)
	return a, nil
}

func (r accountsRepo) Create(ctx context.Context, a domain.Account) error {
	_, err := r.c.exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Username, a.Email, a.PasswordHash, a.FirstName, a.LastName, a.IsStaff, toMillis(a.CreatedAt),
	)
	return r.c.mapWriteErr(err)
}

func (r accountsRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	return scanAccount(r.c.queryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
}

func (r accountsRepo) GetByLogin(ctx context.Context, login string) (domain.Account, error) {
	return scanAccount(r.c.queryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)
		ORDER BY CASE WHEN LOWER(username) = LOWER(?) THEN 0 ELSE 1 END
		LIMIT 1`,
		login, login, login,
	))
}

func (r accountsRepo) Exists(ctx context.Context, username, email string) (bool, error) {
	var n int
	err := r.c.queryRow(ctx, `
		SELECT COUNT(*) FROM accounts
		WHERE LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)`,
		username, email,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r accountsRepo) SetStaff(ctx context.Context, username string, staff bool) error {
	res, err := r.c.exec(ctx,
		`UPDATE accounts SET is_staff = ? WHERE LOWER(username) = LOWER(?)`, staff, username)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: account %q", store.ErrNotFound, username)
	}
	return nil
}
