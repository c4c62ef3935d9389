package sqldb

import (
	"context"
	"time"

	"github.com/aussiebroadwan/quizdesk/internal/domain"
)

type tokensRepo struct{ c conn }

func (r tokensRepo) Create(ctx context.Context, t domain.Token) error {
	_, err := r.c.exec(ctx, `
		INSERT INTO tokens (fingerprint, account_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)`,
		t.Fingerprint, t.AccountID, toMillis(t.CreatedAt), optionalMillis(t.ExpiresAt),
	)
	return r.c.mapWriteErr(err)
}

func (r tokensRepo) Resolve(ctx context.Context, fingerprint string, now time.Time) (domain.Account, error) {
	return scanAccount(r.c.queryRow(ctx, `
		SELECT a.id, a.username, a.email, a.password_hash, a.first_name, a.last_name, a.is_staff, a.created_at
		FROM tokens t
		JOIN accounts a ON a.id = t.account_id
		WHERE t.fingerprint = ? AND (t.expires_at IS NULL OR t.expires_at > ?)`,
		fingerprint, toMillis(now),
	))
}

func (r tokensRepo) Exists(ctx context.Context, fingerprint string, now time.Time) (bool, error) {
	var n int
	err := r.c.queryRow(ctx, `
		SELECT COUNT(*) FROM tokens
		WHERE fingerprint = ? AND (expires_at IS NULL OR expires_at > ?)`,
		fingerprint, toMillis(now),
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r tokensRepo) Delete(ctx context.Context, fingerprint string) (bool, error) {
	res, err := r.c.exec(ctx, `DELETE FROM tokens WHERE fingerprint = ?`, fingerprint)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r tokensRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.c.exec(ctx,
		`DELETE FROM tokens WHERE expires_at IS NOT NULL AND expires_at <= ?`, toMillis(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r tokensRepo) CountForAccount(ctx context.Context, accountID string) (int, error) {
	var n int
	err := r.c.queryRow(ctx, `SELECT COUNT(*) FROM tokens WHERE account_id = ?`, accountID).Scan(&n)
	return n, err
}
