package http

import (
	"time"

	"github.com/aussiebroadwan/quizdesk/internal/domain"
)

// QuestionView is a question as listed publicly, without its answer.
type QuestionView struct {
	ID           int64  `json:"id" example:"1"`
	QuestionText string `json:"question_text" example:"What is 2 + 2?"`
	OptionA      string `json:"option_a" example:"3"`
	OptionB      string `json:"option_b" example:"4"`
	OptionC      string `json:"option_c" example:"5"`
	OptionD      string `json:"option_d" example:"22"`
}

type CreateQuestionRequest struct {
	QuestionText  string `json:"question_text"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectOption string `json:"correct_option" example:"B"`
}

type CreateQuestionResponse struct {
	Message string `json:"message" example:"Question created"`
	ID      int64  `json:"id" example:"1"`
}

type AnswerRequest struct {
	QuestionID     int64  `json:"question_id" example:"1"`
	SelectedOption string `json:"selected_option" example:"b"`
}

type SubmitRequest struct {
	Answers []AnswerRequest `json:"answers"`
}

type AnswerView struct {
	QuestionID     int64   `json:"question_id"`
	SelectedOption string  `json:"selected_option"`
	IsCorrect      bool    `json:"is_correct"`
	CorrectOption  *string `json:"correct_option"`
}

type SubmissionView struct {
	SubmissionID   int64        `json:"submission_id"`
	Username       string       `json:"username"`
	TotalQuestions int          `json:"total_questions"`
	CorrectAnswers int          `json:"correct_answers"`
	ScorePercent   float64      `json:"score_percent"`
	CreatedAt      time.Time    `json:"created_at"`
	Answers        []AnswerView `json:"answers"`
}

type ProfileView struct {
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	FullName  string     `json:"full_name"`
	IsStaff   bool       `json:"is_staff"`
	Score     int64      `json:"score"`
	Attempts  int64      `json:"attempts"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type ScoreRequest struct {
	ScoreIncrement int64 `json:"score_increment" example:"5"`
}

type ScoreResponse struct {
	Username  string `json:"username"`
	NewScore  int64  `json:"new_score"`
	Increment int64  `json:"increment"`
}

func questionView(q domain.Question) QuestionView {
	return QuestionView{
		ID:           q.ID,
		QuestionText: q.Text,
		OptionA:      q.OptionA,
		OptionB:      q.OptionB,
		OptionC:      q.OptionC,
		OptionD:      q.OptionD,
	}
}

func submissionView(s domain.Submission) SubmissionView {
	v := SubmissionView{
		SubmissionID:   s.ID,
		Username:       s.Username,
		TotalQuestions: s.TotalQuestions,
		CorrectAnswers: s.CorrectAnswers,
		ScorePercent:   s.ScorePercent(),
		CreatedAt:      s.CreatedAt,
		Answers:        make([]AnswerView, len(s.Answers)),
	}
	for i, a := range s.Answers {
		av := AnswerView{
			QuestionID:     a.QuestionID,
			SelectedOption: string(a.SelectedOption),
			IsCorrect:      a.IsCorrect,
		}
		if a.CorrectOption != nil {
			c := string(*a.CorrectOption)
			av.CorrectOption = &c
		}
		v.Answers[i] = av
	}
	return v
}

func profileView(p domain.Profile) ProfileView {
	return ProfileView{
		Username:  p.Username,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		FullName:  p.FullName(),
		IsStaff:   p.IsStaff,
		Score:     p.Score,
		Attempts:  p.Attempts,
		UpdatedAt: p.UpdatedAt,
	}
}
