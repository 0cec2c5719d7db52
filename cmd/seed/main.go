package main

import (
	"context"
	"fmt"
	"os"

	"autoquiz/internal/config"
	"autoquiz/internal/database"
	"autoquiz/internal/domain"
	"autoquiz/internal/logger"
	"autoquiz/internal/repository"

	"go.uber.org/zap"
)

// Seeds a couple of sample quizzes for local development. Safe to run more
// than once; each run inserts fresh rows with new IDs.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	repo := repository.NewQuizDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	ctx := context.Background()
	for _, quiz := range sampleQuizzes() {
		quiz := quiz
		err := txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			return repo.SaveQuiz(txCtx, &quiz)
		})
		if err != nil {
			log.Fatal("failed to seed quiz", zap.String("title", quiz.Title), zap.Error(err))
		}
		log.Info("seeded quiz", zap.String("id", quiz.ID), zap.String("title", quiz.Title))
	}
}

func sampleQuizzes() []domain.Quiz {
	return []domain.Quiz{
		{
			Title:       "Go Basics",
			Description: "Fundamentals of the Go programming language",
			Status:      domain.StatusDraft,
			Questions: []domain.Question{
				{
					Text:               "Which keyword declares a new variable with inferred type?",
					Options:            []string{"var", ":=", "let", "def"},
					CorrectAnswerIndex: 1,
				},
				{
					Text:               "What does a Go channel do?",
					Options:            []string{"Stores files", "Communicates between goroutines", "Formats strings"},
					CorrectAnswerIndex: 1,
				},
			},
		},
		{
			Title:       "HTTP Fundamentals",
			Description: "Status codes and methods",
			Status:      domain.StatusDraft,
			Questions: []domain.Question{
				{
					Text:               "Which status code means Not Found?",
					Options:            []string{"400", "404", "500"},
					CorrectAnswerIndex: 1,
				},
				{
					Text:               "Which method is idempotent?",
					Options:            []string{"POST", "PUT"},
					CorrectAnswerIndex: 1,
				},
			},
		},
	}
}
