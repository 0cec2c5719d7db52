package domain

import "context"

// FormQuestion is one question read back from an external form.
// CorrectAnswerIndex is UnknownAnswerIndex when the form carries no grading
// metadata for the item.
type FormQuestion struct {
	Text               string
	Options            []string
	CorrectAnswerIndex int
}

// UnknownAnswerIndex marks a form question whose correct answer could not be
// determined from grading metadata.
const UnknownAnswerIndex = -1

// FormProvider materializes quizzes as external forms and reads them back.
type FormProvider interface {
	// CreateForm creates an external form mirroring the given questions and
	// returns its id and respondent-facing URL.
	CreateForm(ctx context.Context, title, description string, questions []Question) (formID, formURL string, err error)

	// GetForm returns the form's question items in their display order.
	GetForm(ctx context.Context, formID string) ([]FormQuestion, error)
}

// MailProvider dispatches quiz invitation mail. A non-nil error gates the
// approve transition.
type MailProvider interface {
	Send(ctx context.Context, recipients []string, quizTitle, formURL string) error
}

// TextGenerator is the generative-text provider used by ingestion. The raw
// response is expected, but not guaranteed, to contain a JSON object.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// QuizRepository defines the interface for quiz persistence
type QuizRepository interface {
	// SaveQuiz persists a new quiz and its questions. It assigns the id and
	// timestamps on the passed quiz. Callers are expected to run it inside a
	// transaction so the quiz and its questions become visible atomically.
	SaveQuiz(ctx context.Context, quiz *Quiz) error

	// GetQuizByID retrieves a quiz with its questions in insertion order.
	// Returns (nil, nil) when no such id exists.
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)

	// ListQuizzes returns all quizzes whose status is not deleted, further
	// filtered by status when it is non-empty.
	ListQuizzes(ctx context.Context, status QuizStatus) ([]*Quiz, error)

	// UpdateQuizStatus sets the status and refreshes updated_at. Returns
	// (nil, nil) when no such id exists.
	UpdateQuizStatus(ctx context.Context, id string, status QuizStatus) (*Quiz, error)
}

// TransactionManager runs a function within a database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
