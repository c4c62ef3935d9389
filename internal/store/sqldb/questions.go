package sqldb

import (
	"context"

	"github.com/aussiebroadwan/quizdesk/internal/domain"
)

type questionsRepo struct{ c conn }

func (r questionsRepo) Create(ctx context.Context, q domain.Question) (int64, error) {
	var id int64
	err := r.c.queryRow(ctx, `
		INSERT INTO questions (question_text, option_a, option_b, option_c, option_d, correct_option, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		q.Text, q.OptionA, q.OptionB, q.OptionC, q.OptionD, string(q.CorrectOption), q.CreatedBy, toMillis(q.CreatedAt),
	).Scan(&id)
	return id, err
}

func (r questionsRepo) List(ctx context.Context) ([]domain.Question, error) {
	rows, err := r.c.query(ctx, `
		SELECT id, question_text, option_a, option_b, option_c, option_d, correct_option, created_by, created_at
		FROM questions
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Question{}
	for rows.Next() {
		var (
			q       domain.Question
			correct string
			created int64
		)
		if err := rows.Scan(&q.ID, &q.Text, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &correct, &q.CreatedBy, &created); err != nil {
			return nil, err
		}
		q.CorrectOption = domain.Option(correct)
		q.CreatedAt = fromMillis(created)
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r questionsRepo) CorrectOptions(ctx context.Context, ids []int64) (map[int64]domain.Option, error) {
	out := make(map[int64]domain.Option, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.c.query(ctx,
		`SELECT id, correct_option FROM questions WHERE id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id      int64
			correct string
		)
		if err := rows.Scan(&id, &correct); err != nil {
			return nil, err
		}
		out[id] = domain.Option(correct)
	}
	return out, rows.Err()
}
