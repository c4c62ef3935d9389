package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/quizdesk/internal/answerkey"
	"github.com/aussiebroadwan/quizdesk/internal/domain"
	"github.com/aussiebroadwan/quizdesk/internal/store"
	"github.com/aussiebroadwan/quizdesk/pkg/slogx"
)

// GraderService grades submitted answers and records them.
type GraderService struct {
	Store store.Store

	// AnswerKey supplies correct options; nil reads them from Store.
	AnswerKey answerkey.Source

	Timeout time.Duration
	Now     func() time.Time
}

func (s *GraderService) answerKey() answerkey.Source {
	if s.AnswerKey != nil {
		return s.AnswerKey
	}
	return answerkey.NewStore(s.Store)
}

// Submit grades pairs for identity and stores the result in one
// transaction. Every pair counts towards the total; pairs naming an unknown
// question are graded incorrect with no correct option.
func (s *GraderService) Submit(ctx context.Context, identity domain.Identity, pairs []domain.AnswerInput) (domain.Submission, error) {
	if len(pairs) == 0 {
		return domain.Submission{}, domain.Validationf("answers must be a non-empty array")
	}

	selected := make([]domain.Option, len(pairs))
	ids := make([]int64, 0, len(pairs))
	seen := make(map[int64]struct{}, len(pairs))
	for i, p := range pairs {
		opt, ok := domain.ParseOption(p.SelectedOption)
		if !ok {
			return domain.Submission{}, domain.Validationf("selected_option must be one of A, B, C, D")
		}
		selected[i] = opt
		if _, dup := seen[p.QuestionID]; !dup {
			seen[p.QuestionID] = struct{}{}
			ids = append(ids, p.QuestionID)
		}
	}

	rctx, cancel := store.ReadContext(ctx, s.Timeout)
	key, err := s.answerKey().CorrectOptions(rctx, ids)
	cancel()
	if err != nil {
		return domain.Submission{}, domain.Persistence("look up questions", err)
	}
	if len(key) == 0 {
		return domain.Submission{}, domain.Validationf("No matching questions found for provided IDs")
	}

	sub := domain.Submission{
		Username:       identity.Username,
		TotalQuestions: len(pairs),
		Answers:        make([]domain.Answer, len(pairs)),
		CreatedAt:      nowFunc(s.Now),
	}
	for i, p := range pairs {
		a := domain.Answer{QuestionID: p.QuestionID, SelectedOption: selected[i]}
		if correct, ok := key[p.QuestionID]; ok {
			a.CorrectOption = &correct
			a.IsCorrect = selected[i] == correct
		}
		if a.IsCorrect {
			sub.CorrectAnswers++
		}
		sub.Answers[i] = a
	}

	wctx, cancel := store.WriteContext(ctx, s.Timeout)
	defer cancel()
	err = s.Store.WithTx(wctx, func(tx store.Tx) error {
		id, err := tx.Submissions().Create(wctx, sub)
		if err != nil {
			return err
		}
		sub.ID = id
		return nil
	})
	if err != nil {
		return domain.Submission{}, domain.Persistence("save submission", err)
	}

	slogx.FromContext(ctx).InfoContext(ctx, "submission graded",
		"submission_id", sub.ID,
		"username", sub.Username,
		"total", sub.TotalQuestions,
		"correct", sub.CorrectAnswers,
	)
	return sub, nil
}

// Latest returns the most recent submission made by identity.
func (s *GraderService) Latest(ctx context.Context, identity domain.Identity) (domain.Submission, error) {
	rctx, cancel := store.ReadContext(ctx, s.Timeout)
	defer cancel()
	sub, err := s.Store.Submissions().Latest(rctx, identity.Username)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Submission{}, domain.NotFound("No submissions found")
	}
	if err != nil {
		return domain.Submission{}, domain.Persistence("load submission", err)
	}
	return sub, nil
}
