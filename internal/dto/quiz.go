package dto

import "time"

// QuestionPayload represents a single question in requests and responses
// @Description Multiple-choice question with 2-4 options and one correct index
type QuestionPayload struct {
	Text               string   `json:"text" validate:"required"`
	Options            []string `json:"options" validate:"required,min=2,max=4,unique,dive,required"`
	CorrectAnswerIndex int      `json:"correct_answer_index" validate:"gte=0"`
}

// CreateQuizRequest is the request body for creating a quiz
type CreateQuizRequest struct {
	Title       string            `json:"title" validate:"required"`
	Description string            `json:"description"`
	Questions   []QuestionPayload `json:"questions" validate:"required,min=1,dive"`
}

// QuizResponse represents a quiz in the API response
// @Description Quiz information including its lifecycle status and form reference
type QuizResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Status      string            `json:"status"`
	FormID      string            `json:"form_id,omitempty"`
	FormURL     string            `json:"form_url,omitempty"`
	Questions   []QuestionPayload `json:"questions"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ApproveQuizRequest carries the recipients notified on approval
type ApproveQuizRequest struct {
	Recipients []string `json:"recipients" validate:"required,min=1,dive,email"`
}

// QuizTextRequest is the request body for creating a quiz from free text
type QuizTextRequest struct {
	Text           string `json:"text" validate:"required"`
	SuggestedTitle string `json:"suggested_title"`
}

// FieldError describes a single invalid request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}
