package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aussiebroadwan/quizdesk/internal/domain"
)

type submissionsRepo struct{ c conn }

func (r submissionsRepo) Create(ctx context.Context, s domain.Submission) (int64, error) {
	var id int64
	err := r.c.queryRow(ctx, `
		INSERT INTO submissions (username, total_questions, correct_answers, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`,
		s.Username, s.TotalQuestions, s.CorrectAnswers, toMillis(s.CreatedAt),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert submission: %w", err)
	}

	for i, a := range s.Answers {
		var correct sql.NullString
		if a.CorrectOption != nil {
			correct = sql.NullString{String: string(*a.CorrectOption), Valid: true}
		}
		_, err := r.c.exec(ctx, `
			INSERT INTO submission_answers (submission_id, position, question_id, selected_option, is_correct, correct_option)
			VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, a.QuestionID, string(a.SelectedOption), a.IsCorrect, correct,
		)
		if err != nil {
			return 0, fmt.Errorf("insert answer %d: %w", i, err)
		}
	}
	return id, nil
}

func (r submissionsRepo) Latest(ctx context.Context, username string) (domain.Submission, error) {
	var (
		s       domain.Submission
		created int64
	)
	err := r.c.queryRow(ctx, `
		SELECT id, username, total_questions, correct_answers, created_at
		FROM submissions
		WHERE username = ?
		ORDER BY id DESC
		LIMIT 1`, username,
	).Scan(&s.ID, &s.Username, &s.TotalQuestions, &s.CorrectAnswers, &created)
	if err != nil {
		return domain.Submission{}, mapNotFound(err)
	}
	s.CreatedAt = fromMillis(created)

	rows, err := r.c.query(ctx, `
		SELECT question_id, selected_option, is_correct, correct_option
		FROM submission_answers
		WHERE submission_id = ?
		ORDER BY position`, s.ID)
	if err != nil {
		return domain.Submission{}, err
	}
	defer rows.Close()

	s.Answers = []domain.Answer{}
	for rows.Next() {
		var (
			a        domain.Answer
			selected string
			correct  sql.NullString
		)
		if err := rows.Scan(&a.QuestionID, &selected, &a.IsCorrect, &correct); err != nil {
			return domain.Submission{}, err
		}
		a.SelectedOption = domain.Option(selected)
		if correct.Valid {
			opt := domain.Option(correct.String)
			a.CorrectOption = &opt
		}
		s.Answers = append(s.Answers, a)
	}
	return s, rows.Err()
}
