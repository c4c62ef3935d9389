package sqldb

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/quizdesk/internal/domain"
)

type ledgerRepo struct{ c conn }

func (r ledgerRepo) Ensure(ctx context.Context, username string, now time.Time) error {
	_, err := r.c.exec(ctx, `
		INSERT INTO score_ledger (username, score, attempts, updated_at)
		VALUES (?, 0, 0, ?)
		ON CONFLICT (username) DO NOTHING`,
		username, toMillis(now),
	)
	return err
}

func (r ledgerRepo) LockScore(ctx context.Context, username string) (int64, error) {
	var score int64
	query := `SELECT score FROM score_ledger WHERE username = ?`
	if r.c.d.LockClause != "" {
		query += " " + r.c.d.LockClause
	}
	err := r.c.queryRow(ctx, query, username).Scan(&score)
	return score, mapNotFound(err)
}

func (r ledgerRepo) SetScore(ctx context.Context, username string, score int64, now time.Time) error {
	_, err := r.c.exec(ctx, `
		UPDATE score_ledger
		SET score = ?, attempts = attempts + 1, updated_at = ?
		WHERE username = ?`,
		score, toMillis(now), username,
	)
	return err
}

const profileSelect = `
	SELECT a.username, a.email, a.first_name, a.last_name, a.is_staff,
	       COALESCE(l.score, 0), COALESCE(l.attempts, 0), l.updated_at
	FROM accounts a
	LEFT JOIN score_ledger l ON l.username = a.username`

func scanProfile(row scanner) (domain.Profile, error) {
	var (
		p       domain.Profile
		updated sql.NullInt64
	)
	err := row.Scan(&p.Username, &p.Email, &p.FirstName, &p.LastName, &p.IsStaff, &p.Score, &p.Attempts, &updated)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	p.UpdatedAt = mapNullMillis(updated)
	return p, nil
}

func (r ledgerRepo) Profile(ctx context.Context, username string) (domain.Profile, error) {
	return scanProfile(r.c.queryRow(ctx, profileSelect+` WHERE a.username = ?`, username))
}

func (r ledgerRepo) Profiles(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.c.query(ctx, profileSelect+` ORDER BY COALESCE(l.score, 0) DESC, a.username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
