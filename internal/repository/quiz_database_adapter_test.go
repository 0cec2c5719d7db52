package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"autoquiz/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "oracle"), mock
}

func quizColumns() []string {
	return []string{"id", "title", "description", "status", "form_id", "form_url", "created_at", "updated_at"}
}

func questionColumns() []string {
	return []string{"id", "quiz_id", "position", "text", "options", "correct_answer_index"}
}

func TestSaveQuizInsertsQuizAndQuestions(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := NewQuizDatabaseAdapter(db)

	quiz := &domain.Quiz{
		Title:       "Go Basics",
		Description: "Fundamentals",
		FormID:      "form-1",
		FormURL:     "https://docs.google.com/forms/d/form-1/edit",
		Questions: []domain.Question{
			{Text: "q1", Options: []string{"a", "b"}, CorrectAnswerIndex: 0},
			{Text: "q2", Options: []string{"c", "d"}, CorrectAnswerIndex: 1},
		},
	}

	mock.ExpectExec(`INSERT INTO quizzes`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO questions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO questions`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.SaveQuiz(context.Background(), quiz)

	assert.NoError(t, err)
	assert.NotEmpty(t, quiz.ID)
	assert.Equal(t, domain.StatusDraft, quiz.Status)
	assert.False(t, quiz.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveQuizWrapsStorageError(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := NewQuizDatabaseAdapter(db)

	mock.ExpectExec(`INSERT INTO quizzes`).
		WillReturnError(errors.New("ORA-00001: unique constraint violated"))

	err := adapter.SaveQuiz(context.Background(), &domain.Quiz{Title: "x"})

	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeStorageError, domainErr.Code)
}

func TestGetQuizByIDReturnsNilWhenAbsent(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := NewQuizDatabaseAdapter(db)

	mock.ExpectQuery(`SELECT(.|\n)*FROM quizzes(.|\n)*WHERE id = :1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(quizColumns()))

	quiz, err := adapter.GetQuizByID(context.Background(), "missing")

	assert.NoError(t, err)
	assert.Nil(t, quiz)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetQuizByIDLoadsQuestionsInOrder(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := NewQuizDatabaseAdapter(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT(.|\n)*FROM quizzes(.|\n)*WHERE id = :1`).
		WithArgs("q1").
		WillReturnRows(sqlmock.NewRows(quizColumns()).
			AddRow("q1", "Go Basics", "Fundamentals", "draft", "form-1", "https://example.com", now, now))
	mock.ExpectQuery(`SELECT(.|\n)*FROM questions(.|\n)*ORDER BY position`).
		WithArgs("q1").
		WillReturnRows(sqlmock.NewRows(questionColumns()).
			AddRow("qu1", "q1", 0, "first", `["a","b"]`, 0).
			AddRow("qu2", "q1", 1, "second", `["c","d"]`, 1))

	quiz, err := adapter.GetQuizByID(context.Background(), "q1")

	require.NoError(t, err)
	require.NotNil(t, quiz)
	assert.Equal(t, "Go Basics", quiz.Title)
	assert.Equal(t, domain.StatusDraft, quiz.Status)
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, "first", quiz.Questions[0].Text)
	assert.Equal(t, []string{"c", "d"}, quiz.Questions[1].Options)
	assert.Equal(t, 1, quiz.Questions[1].CorrectAnswerIndex)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListQuizzesExcludesDeleted(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := NewQuizDatabaseAdapter(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT(.|\n)*FROM quizzes(.|\n)*WHERE status != :1 ORDER BY created_at DESC, id`).
		WithArgs("deleted").
		WillReturnRows(sqlmock.NewRows(quizColumns()).
			AddRow("q1", "Quiz One", nil, "draft", nil, nil, now, now))
	mock.ExpectQuery(`SELECT(.|\n)*FROM questions`).
		WithArgs("q1").
		WillReturnRows(sqlmock.NewRows(questionColumns()))

	quizzes, err := adapter.ListQuizzes(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	assert.Equal(t, "Quiz One", quizzes[0].Title)
	assert.Empty(t, quizzes[0].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListQuizzesWithStatusFilter(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := NewQuizDatabaseAdapter(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT(.|\n)*FROM quizzes(.|\n)*WHERE status = :1 AND status != :2`).
		WithArgs("approved", "deleted").
		WillReturnRows(sqlmock.NewRows(quizColumns()).
			AddRow("q1", "Approved Quiz", nil, "approved", "form-1", "https://example.com", now, now))
	mock.ExpectQuery(`SELECT(.|\n)*FROM questions`).
		WithArgs("q1").
		WillReturnRows(sqlmock.NewRows(questionColumns()))

	quizzes, err := adapter.ListQuizzes(context.Background(), domain.StatusApproved)

	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	assert.Equal(t, domain.StatusApproved, quizzes[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateQuizStatus(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := NewQuizDatabaseAdapter(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT(.|\n)*FROM quizzes(.|\n)*WHERE id = :1`).
		WithArgs("q1").
		WillReturnRows(sqlmock.NewRows(quizColumns()).
			AddRow("q1", "Quiz", nil, "draft", "form-1", "https://example.com", now, now))
	mock.ExpectQuery(`SELECT(.|\n)*FROM questions`).
		WithArgs("q1").
		WillReturnRows(sqlmock.NewRows(questionColumns()))
	mock.ExpectExec(`UPDATE quizzes SET status = :1, updated_at = :2 WHERE id = :3`).
		WithArgs("approved", sqlmock.AnyArg(), "q1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	quiz, err := adapter.UpdateQuizStatus(context.Background(), "q1", domain.StatusApproved)

	require.NoError(t, err)
	require.NotNil(t, quiz)
	assert.Equal(t, domain.StatusApproved, quiz.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateQuizStatusReturnsNilWhenAbsent(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := NewQuizDatabaseAdapter(db)

	mock.ExpectQuery(`SELECT(.|\n)*FROM quizzes(.|\n)*WHERE id = :1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(quizColumns()))

	quiz, err := adapter.UpdateQuizStatus(context.Background(), "missing", domain.StatusDeleted)

	assert.NoError(t, err)
	assert.Nil(t, quiz)
	assert.NoError(t, mock.ExpectationsWereMet())
}
