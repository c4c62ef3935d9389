package service

import (
	"context"
	"strings"
	"time"

	"github.com/aussiebroadwan/quizdesk/internal/domain"
	"github.com/aussiebroadwan/quizdesk/internal/store"
	"github.com/aussiebroadwan/quizdesk/pkg/slogx"
)

type QuestionInput struct {
	Text          string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectOption string
}

type QuestionService struct {
	Store   store.Store
	Timeout time.Duration
	Now     func() time.Time
}

// Create stores a new question. Only staff may create questions.
func (s *QuestionService) Create(ctx context.Context, requester domain.Identity, in QuestionInput) (int64, error) {
	if !requester.IsStaff {
		return 0, domain.Forbidden("Forbidden: staff only")
	}

	q := domain.Question{
		Text:      strings.TrimSpace(in.Text),
		OptionA:   strings.TrimSpace(in.OptionA),
		OptionB:   strings.TrimSpace(in.OptionB),
		OptionC:   strings.TrimSpace(in.OptionC),
		OptionD:   strings.TrimSpace(in.OptionD),
		CreatedBy: requester.Username,
		CreatedAt: nowFunc(s.Now),
	}
	if q.Text == "" || q.OptionA == "" || q.OptionB == "" || q.OptionC == "" || q.OptionD == "" {
		return 0, domain.Validationf("All options and question_text are required")
	}

	correct, ok := domain.ParseOption(in.CorrectOption)
	if !ok {
		return 0, domain.Validationf("correct_option must be one of A, B, C, D")
	}
	q.CorrectOption = correct

	wctx, cancel := store.WriteContext(ctx, s.Timeout)
	defer cancel()
	id, err := s.Store.Questions().Create(wctx, q)
	if err != nil {
		return 0, domain.Persistence("create question", err)
	}

	slogx.FromContext(ctx).InfoContext(ctx, "question created", "question_id", id, "created_by", q.CreatedBy)
	return id, nil
}

// List returns every question in creation order.
func (s *QuestionService) List(ctx context.Context) ([]domain.Question, error) {
	rctx, cancel := store.ReadContext(ctx, s.Timeout)
	defer cancel()
	qs, err := s.Store.Questions().List(rctx)
	if err != nil {
		return nil, domain.Persistence("list questions", err)
	}
	return qs, nil
}
