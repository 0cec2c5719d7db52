package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"autoquiz/internal/domain"
	"autoquiz/internal/repository/models"
	"autoquiz/internal/util"

	"github.com/jmoiron/sqlx"
)

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

const selectQuizColumns = `SELECT
		id "id",
		title "title",
		description "description",
		status "status",
		form_id "form_id",
		form_url "form_url",
		created_at "created_at",
		updated_at "updated_at"
	FROM quizzes`

// SaveQuiz implements domain.QuizRepository. It inserts the quiz row and its
// question rows; run it inside a TransactionManager.WithTransaction so the
// quiz never becomes visible without its questions.
func (a *QuizDatabaseAdapter) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if quiz == nil {
		return domain.NewStorageError("cannot save nil quiz", nil)
	}
	executor := GetExecutor(ctx, a.db)

	now := time.Now()
	quiz.ID = util.NewULID()
	quiz.CreatedAt = now
	quiz.UpdatedAt = now
	if quiz.Status == "" {
		quiz.Status = domain.StatusDraft
	}

	quizInsert := `INSERT INTO quizzes (
		id, title, description, status, form_id, form_url, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8
	)`

	_, err := executor.ExecContext(ctx, quizInsert,
		quiz.ID,
		quiz.Title,
		util.StringToNullString(quiz.Description),
		string(quiz.Status),
		util.StringToNullString(quiz.FormID),
		util.StringToNullString(quiz.FormURL),
		quiz.CreatedAt,
		quiz.UpdatedAt,
	)
	if err != nil {
		return domain.NewStorageError("failed to save quiz", err)
	}

	questionInsert := `INSERT INTO questions (
		id, quiz_id, position, text, options, correct_answer_index
	) VALUES (
		:1, :2, :3, :4, :5, :6
	)`

	for idx, question := range quiz.Questions {
		_, err := executor.ExecContext(ctx, questionInsert,
			util.NewULID(),
			quiz.ID,
			idx,
			question.Text,
			models.StringSlice(question.Options),
			question.CorrectAnswerIndex,
		)
		if err != nil {
			return domain.NewStorageError("failed to save quiz question", err)
		}
	}

	return nil
}

// GetQuizByID implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	executor := GetExecutor(ctx, a.db)

	var modelQuiz models.Quiz
	query := selectQuizColumns + ` WHERE id = :1`

	err := executor.GetContext(ctx, &modelQuiz, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewStorageError("failed to get quiz by ID", err)
	}

	questions, err := a.getQuestions(ctx, executor, modelQuiz.ID)
	if err != nil {
		return nil, err
	}

	return toDomainQuiz(&modelQuiz, questions)
}

// ListQuizzes implements domain.QuizRepository. Deleted quizzes are never
// returned; ordering is newest first for determinism.
func (a *QuizDatabaseAdapter) ListQuizzes(ctx context.Context, status domain.QuizStatus) ([]*domain.Quiz, error) {
	executor := GetExecutor(ctx, a.db)

	var (
		modelQuizzes []models.Quiz
		err          error
	)
	if status != "" {
		query := selectQuizColumns + ` WHERE status = :1 AND status != :2 ORDER BY created_at DESC, id`
		err = executor.SelectContext(ctx, &modelQuizzes, query, string(status), string(domain.StatusDeleted))
	} else {
		query := selectQuizColumns + ` WHERE status != :1 ORDER BY created_at DESC, id`
		err = executor.SelectContext(ctx, &modelQuizzes, query, string(domain.StatusDeleted))
	}
	if err != nil {
		return nil, domain.NewStorageError("failed to list quizzes", err)
	}

	quizzes := make([]*domain.Quiz, 0, len(modelQuizzes))
	for i := range modelQuizzes {
		questions, err := a.getQuestions(ctx, executor, modelQuizzes[i].ID)
		if err != nil {
			return nil, err
		}
		quiz, err := toDomainQuiz(&modelQuizzes[i], questions)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, nil
}

// UpdateQuizStatus implements domain.QuizRepository
func (a *QuizDatabaseAdapter) UpdateQuizStatus(ctx context.Context, id string, status domain.QuizStatus) (*domain.Quiz, error) {
	executor := GetExecutor(ctx, a.db)

	existing, err := a.GetQuizByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	updatedAt := time.Now()
	query := `UPDATE quizzes SET status = :1, updated_at = :2 WHERE id = :3`
	if _, err := executor.ExecContext(ctx, query, string(status), updatedAt, id); err != nil {
		return nil, domain.NewStorageError("failed to update quiz status", err)
	}

	existing.Status = status
	existing.UpdatedAt = updatedAt
	return existing, nil
}

func (a *QuizDatabaseAdapter) getQuestions(ctx context.Context, executor DBTX, quizID string) ([]models.Question, error) {
	var questions []models.Question
	query := `SELECT
		id "id",
		quiz_id "quiz_id",
		position "position",
		text "text",
		options "options",
		correct_answer_index "correct_answer_index"
	FROM questions
	WHERE quiz_id = :1
	ORDER BY position`

	if err := executor.SelectContext(ctx, &questions, query, quizID); err != nil {
		return nil, domain.NewStorageError("failed to get quiz questions", err)
	}
	return questions, nil
}

func toDomainQuiz(modelQuiz *models.Quiz, modelQuestions []models.Question) (*domain.Quiz, error) {
	status, err := domain.ParseStatus(modelQuiz.Status)
	if err != nil {
		return nil, domain.NewStorageError("quiz row has invalid status", err)
	}

	questions := make([]domain.Question, 0, len(modelQuestions))
	for _, mq := range modelQuestions {
		questions = append(questions, domain.Question{
			Text:               mq.Text,
			Options:            []string(mq.Options),
			CorrectAnswerIndex: mq.CorrectAnswerIndex,
		})
	}

	return &domain.Quiz{
		ID:          modelQuiz.ID,
		Title:       modelQuiz.Title,
		Description: util.NullStringToString(modelQuiz.Description),
		Status:      status,
		FormID:      util.NullStringToString(modelQuiz.FormID),
		FormURL:     util.NullStringToString(modelQuiz.FormURL),
		Questions:   questions,
		CreatedAt:   modelQuiz.CreatedAt,
		UpdatedAt:   modelQuiz.UpdatedAt,
	}, nil
}
