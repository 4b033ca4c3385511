package questionnaire

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// AnswerSet maps question ids to their final answer value.
type AnswerSet map[string]string

// Clone returns an independent copy.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Receipt acknowledges an accepted submission.
type Receipt struct {
	ID          string    `json:"id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// QuestionSource supplies the ordered question list.
type QuestionSource interface {
	LoadQuestions(ctx context.Context) ([]Question, error)
}

// SubmissionSink receives the completed answer set.
type SubmissionSink interface {
	SubmitAnswers(ctx context.Context, answers AnswerSet) (Receipt, error)
}

// ResumeSource returns answers saved from an earlier session.
type ResumeSource interface {
	LoadAnswers(ctx context.Context) (AnswerSet, error)
}

// ErrIncomplete is matched by every *ValidationError.
var ErrIncomplete = errors.New("questionnaire incomplete")

// ValidationError blocks a transition until the user fixes their answer.
// Message is meant to be shown as is.
type ValidationError struct {
	QuestionID string
	Message    string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return ErrIncomplete }

const (
	msgChooseAnswer = "Please choose an answer to continue."
	msgChooseDetail = "Please choose one of the detailed options to continue."
	msgInvalid      = "That answer is no longer available, please choose again."
)

// Validate reports the first question in order that has no valid answer.
func Validate(questions []Question, answers AnswerSet) error {
	for _, q := range questions {
		if err := checkAnswer(q, answers); err != nil {
			return err
		}
	}
	return nil
}

func checkAnswer(q Question, answers AnswerSet) error {
	v, ok := answers[q.QuestionID()]
	switch q := q.(type) {
	case Simple:
		if !ok || v == "" {
			return &ValidationError{QuestionID: q.ID, Message: msgChooseAnswer}
		}
		if !hasChoice(q.Options, v) {
			return &ValidationError{QuestionID: q.ID, Message: msgInvalid}
		}
	case Branching:
		if !ok || v == "" {
			return &ValidationError{QuestionID: q.ID, Message: msgChooseDetail}
		}
		if _, found := q.PrimaryFor(v); !found {
			return &ValidationError{QuestionID: q.ID, Message: msgInvalid}
		}
	default:
		return fmt.Errorf("unsupported question type %T", q)
	}
	return nil
}
