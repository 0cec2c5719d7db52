package domain

import (
	"fmt"
	"time"
)

// QuizStatus is the lifecycle state of a quiz.
type QuizStatus string

const (
	StatusDraft    QuizStatus = "draft"
	StatusApproved QuizStatus = "approved"
	StatusDeleted  QuizStatus = "deleted"
)

// allowedTransitions is the explicit state machine for quiz statuses.
// There is no edge out of deleted and no approved -> draft edge.
var allowedTransitions = map[QuizStatus][]QuizStatus{
	StatusDraft:    {StatusApproved, StatusDeleted},
	StatusApproved: {StatusDeleted},
	StatusDeleted:  {},
}

// IsValid reports whether s is a known status.
func (s QuizStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusApproved, StatusDeleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status machine permits s -> next.
func (s QuizStatus) CanTransitionTo(next QuizStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseStatus converts raw text into a QuizStatus.
func ParseStatus(raw string) (QuizStatus, error) {
	s := QuizStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown quiz status: %q", raw)
	}
	return s, nil
}

// Question is a single multiple-choice item owned by a quiz.
type Question struct {
	Text               string
	Options            []string
	CorrectAnswerIndex int
}

// Validate validates the question
func (q *Question) Validate() error {
	if q.Text == "" {
		return ValidationErrors{NewMissingFieldError("text")}
	}
	if len(q.Options) < MinOptions || len(q.Options) > MaxOptions {
		return ValidationErrors{NewOutOfRangeError("options", len(q.Options), MinOptions, MaxOptions)}
	}
	if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
		return ValidationErrors{NewOutOfRangeError("correct_answer_index", q.CorrectAnswerIndex, 0, len(q.Options)-1)}
	}
	return nil
}

// Option count limits carried over from the forms provider.
const (
	MinOptions = 2
	MaxOptions = 4
)

// QuizDraft is the provider-independent input shape for quiz creation,
// produced by the API surface or by ingestion.
type QuizDraft struct {
	Title       string
	Description string
	Questions   []Question
}

// Validate validates the draft and all of its questions.
func (d *QuizDraft) Validate() error {
	var errs ValidationErrors
	if d.Title == "" {
		errs = append(errs, NewMissingFieldError("title"))
	}
	if len(d.Questions) == 0 {
		errs = append(errs, NewMissingFieldError("questions"))
	}
	for i, q := range d.Questions {
		if err := q.Validate(); err != nil {
			if qErrs, ok := err.(ValidationErrors); ok {
				for _, qe := range qErrs {
					errs = append(errs, NewValidationError(fmt.Sprintf("questions[%d].%s", i, qe.Field), qe.Message))
				}
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Quiz represents a quiz in the domain
type Quiz struct {
	ID          string
	Title       string
	Description string
	Status      QuizStatus
	FormID      string
	FormURL     string
	Questions   []Question
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewQuiz creates a draft quiz from its input draft. The form reference may be
// empty when the external form could not be created.
func NewQuiz(draft *QuizDraft, formID, formURL string) *Quiz {
	return &Quiz{
		Title:       draft.Title,
		Description: draft.Description,
		Status:      StatusDraft,
		FormID:      formID,
		FormURL:     formURL,
		Questions:   draft.Questions,
	}
}

// Validate validates the quiz
func (q *Quiz) Validate() error {
	draft := QuizDraft{Title: q.Title, Description: q.Description, Questions: q.Questions}
	if err := draft.Validate(); err != nil {
		return err
	}
	if !q.Status.IsValid() {
		return ValidationErrors{NewInvalidFormatError("status", string(q.Status))}
	}
	return nil
}
