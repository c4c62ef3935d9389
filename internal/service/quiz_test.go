package service

import (
	"context"
	"errors"
	"testing"

	"github.com/aussiebroadwan/quizdesk/internal/domain"
	"github.com/stretchr/testify/require"
)

var (
	staff   = domain.Identity{Username: "teacher", IsStaff: true}
	student = domain.Identity{Username: "alice"}
)

func seedQuestions(t *testing.T, svc *QuestionService, correct ...string) []int64 {
	t.Helper()
	var ids []int64
	for _, c := range correct {
		id, err := svc.Create(context.Background(), staff, QuestionInput{
			Text: "Pick " + c, OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectOption: c,
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestQuestionCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := &QuestionService{Store: newTestStore(t)}

	valid := QuestionInput{Text: "2+2?", OptionA: "3", OptionB: "4", OptionC: "5", OptionD: "6", CorrectOption: " b "}

	_, err := svc.Create(ctx, student, valid)
	require.ErrorIs(t, err, domain.ErrForbidden)

	missing := valid
	missing.OptionC = "  "
	_, err = svc.Create(ctx, staff, missing)
	require.ErrorIs(t, err, domain.ErrValidation)

	bad := valid
	bad.CorrectOption = "E"
	_, err = svc.Create(ctx, staff, bad)
	require.ErrorIs(t, err, domain.ErrValidation)
	require.Equal(t, "correct_option must be one of A, B, C, D", domain.Message(err))

	id, err := svc.Create(ctx, staff, valid)
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, id, list[0].ID)
	require.Equal(t, domain.OptionB, list[0].CorrectOption)
	require.Equal(t, "teacher", list[0].CreatedBy)
}

func TestSubmitGrades(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	ids := seedQuestions(t, &QuestionService{Store: st}, "A", "C")
	grader := &GraderService{Store: st}

	sub, err := grader.Submit(ctx, student, []domain.AnswerInput{
		{QuestionID: ids[0], SelectedOption: "a"},
		{QuestionID: ids[1], SelectedOption: "B"},
		{QuestionID: 9999, SelectedOption: "C"},
	})
	require.NoError(t, err)
	require.NotZero(t, sub.ID)
	require.Equal(t, 3, sub.TotalQuestions)
	require.Equal(t, 1, sub.CorrectAnswers)
	require.Equal(t, 33.33, sub.ScorePercent())

	require.True(t, sub.Answers[0].IsCorrect)
	require.False(t, sub.Answers[1].IsCorrect)
	require.Equal(t, domain.OptionC, *sub.Answers[1].CorrectOption)
	require.False(t, sub.Answers[2].IsCorrect)
	require.Nil(t, sub.Answers[2].CorrectOption)

	latest, err := grader.Latest(ctx, student)
	require.NoError(t, err)
	require.Equal(t, sub.ID, latest.ID)
	require.Len(t, latest.Answers, 3)

	correct := 0
	for _, a := range latest.Answers {
		if a.IsCorrect {
			correct++
		}
	}
	require.Equal(t, latest.CorrectAnswers, correct)

	again, err := grader.Submit(ctx, student, []domain.AnswerInput{{QuestionID: ids[0], SelectedOption: "A"}})
	require.NoError(t, err)
	require.Greater(t, again.ID, sub.ID, "resubmission creates a new submission")
}

func TestSubmitRejects(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	ids := seedQuestions(t, &QuestionService{Store: st}, "D")
	grader := &GraderService{Store: st}

	_, err := grader.Submit(ctx, student, nil)
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = grader.Submit(ctx, student, []domain.AnswerInput{{QuestionID: ids[0], SelectedOption: "Z"}})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = grader.Submit(ctx, student, []domain.AnswerInput{{QuestionID: 404, SelectedOption: "A"}})
	require.ErrorIs(t, err, domain.ErrValidation)
	require.Equal(t, "No matching questions found for provided IDs", domain.Message(err))

	_, err = grader.Latest(ctx, student)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

type fixedKey map[int64]domain.Option

func (k fixedKey) CorrectOptions(context.Context, []int64) (map[int64]domain.Option, error) {
	return k, nil
}

func TestSubmitPersistenceFailure(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	grader := &GraderService{Store: st, AnswerKey: fixedKey{1: domain.OptionA}}
	require.NoError(t, st.Close())

	_, err := grader.Submit(context.Background(), student, []domain.AnswerInput{{QuestionID: 1, SelectedOption: "A"}})
	require.ErrorIs(t, err, domain.ErrPersistence)
	require.Equal(t, "failed to save submission", domain.Message(err))
}

type failingKey struct{}

func (failingKey) CorrectOptions(context.Context, []int64) (map[int64]domain.Option, error) {
	return nil, errors.New("connection refused")
}

func TestSubmitLookupFailure(t *testing.T) {
	t.Parallel()
	grader := &GraderService{Store: newTestStore(t), AnswerKey: failingKey{}}

	_, err := grader.Submit(context.Background(), student, []domain.AnswerInput{{QuestionID: 1, SelectedOption: "A"}})
	require.ErrorIs(t, err, domain.ErrPersistence)
}
