package http

import (
	"net/http"

	"github.com/aussiebroadwan/quizdesk/internal/domain"
	"github.com/aussiebroadwan/quizdesk/internal/service"
	"github.com/aussiebroadwan/quizdesk/internal/verifier"
	"github.com/aussiebroadwan/quizdesk/pkg/httpx"
)

type QuizHandler struct {
	Questions *service.QuestionService
	Grader    *service.GraderService
	Verifier  verifier.Verifier
}

// ListQuestions godoc
//
//	@Summary	List questions
//	@Tags		Quiz
//	@Produce	json
//	@Success	200	{array}		QuestionView
//	@Failure	500	{object}	httpx.ErrorResponse
//	@Router		/questions [get]
func (h *QuizHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := h.Questions.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]QuestionView, len(qs))
	for i, q := range qs {
		out[i] = questionView(q)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// CreateQuestion godoc
//
//	@Summary	Create a question
//	@Tags		Quiz
//	@Security	TokenQuery
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CreateQuestionRequest	true	"Question"
//	@Success	200		{object}	CreateQuestionResponse
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Failure	401		{object}	httpx.ErrorResponse
//	@Failure	403		{object}	httpx.ErrorResponse	"staff only"
//	@Router		/questions [post]
func (h *QuizHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requester, ok := authenticate(ctx, h.Verifier, w, r)
	if !ok {
		return
	}

	var req CreateQuestionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	id, err := h.Questions.Create(ctx, requester, service.QuestionInput{
		Text:          req.QuestionText,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectOption: req.CorrectOption,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, CreateQuestionResponse{Message: "Question created", ID: id})
}

// Submit godoc
//
//	@Summary		Submit answers
//	@Description	Grades every answer; unknown question ids are graded incorrect. At least one id must exist.
//	@Tags			Quiz
//	@Security		TokenQuery
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SubmitRequest	true	"Answers"
//	@Success		200		{object}	SubmissionView
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Failure		401		{object}	httpx.ErrorResponse
//	@Failure		500		{object}	httpx.ErrorResponse
//	@Router			/submit [post]
func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SubmitRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if len(req.Answers) == 0 {
		writeBadRequest(w, "answers must be a non-empty array")
		return
	}

	identity, ok := authenticate(ctx, h.Verifier, w, r)
	if !ok {
		return
	}

	pairs := make([]domain.AnswerInput, len(req.Answers))
	for i, a := range req.Answers {
		pairs[i] = domain.AnswerInput{QuestionID: a.QuestionID, SelectedOption: a.SelectedOption}
	}

	sub, err := h.Grader.Submit(ctx, identity, pairs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, submissionView(sub))
}

// LatestSubmission godoc
//
//	@Summary	Latest submission of the caller
//	@Tags		Quiz
//	@Security	TokenQuery
//	@Produce	json
//	@Success	200	{object}	SubmissionView
//	@Failure	401	{object}	httpx.ErrorResponse
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/submissions/latest [get]
func (h *QuizHandler) LatestSubmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := authenticate(ctx, h.Verifier, w, r)
	if !ok {
		return
	}

	sub, err := h.Grader.Latest(ctx, identity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, submissionView(sub))
}
