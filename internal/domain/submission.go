package domain

import (
	"math"
	"time"
)

// AnswerInput is one submitted (question, option) pair before grading.
type AnswerInput struct {
	QuestionID     int64
	SelectedOption string
}

// Answer is a graded pair. CorrectOption is nil when the question id was
// not found at grading time.
type Answer struct {
	QuestionID     int64
	SelectedOption Option
	IsCorrect      bool
	CorrectOption  *Option
}

// Submission is one immutable graded attempt.
type Submission struct {
	ID             int64
	Username       string
	TotalQuestions int
	CorrectAnswers int
	Answers        []Answer
	CreatedAt      time.Time
}

// ScorePercent is correct/total as a percentage rounded to two places.
func (s Submission) ScorePercent() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	pct := float64(s.CorrectAnswers) * 100 / float64(s.TotalQuestions)
	return math.Round(pct*100) / 100
}
