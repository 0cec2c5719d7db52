package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"autoquiz/internal/cache"
	"autoquiz/internal/domain"
	"autoquiz/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// QuizService exposes the quiz authoring lifecycle: drafting, approval with
// invitations, deletion, and import from external forms or source text.
type QuizService interface {
	CreateQuiz(ctx context.Context, draft *domain.QuizDraft) (*domain.Quiz, error)
	GetQuiz(ctx context.Context, id string) (*domain.Quiz, error)
	ListQuizzes(ctx context.Context, status string) ([]*domain.Quiz, error)
	ApproveQuiz(ctx context.Context, id string, recipients []string) (*domain.Quiz, error)
	DeleteQuiz(ctx context.Context, id string) error
	GetFormQuestions(ctx context.Context, formID string) ([]domain.FormQuestion, error)
	CreateQuizFromText(ctx context.Context, text string, titleHint string) (*domain.Quiz, error)
	CreateQuizFromFile(ctx context.Context, filename string, content []byte, titleHint string) (*domain.Quiz, error)
}

type quizServiceImpl struct {
	repo             domain.QuizRepository
	txManager        domain.TransactionManager
	formProvider     domain.FormProvider
	mailProvider     domain.MailProvider
	ingestion        IngestionService
	cache            domain.Cache
	formQuestionsTTL time.Duration
	sfGroup          singleflight.Group
}

// NewQuizService creates a new QuizService.
func NewQuizService(
	repo domain.QuizRepository,
	txManager domain.TransactionManager,
	formProvider domain.FormProvider,
	mailProvider domain.MailProvider,
	ingestion IngestionService,
	cacheAdapter domain.Cache,
	formQuestionsTTL time.Duration,
) QuizService {
	return &quizServiceImpl{
		repo:             repo,
		txManager:        txManager,
		formProvider:     formProvider,
		mailProvider:     mailProvider,
		ingestion:        ingestion,
		cache:            cacheAdapter,
		formQuestionsTTL: formQuestionsTTL,
	}
}

// CreateQuiz validates the draft, provisions an external form for it on a
// best-effort basis, and persists the quiz in draft status. A form provider
// outage never fails creation; the quiz is simply saved without a form.
func (s *quizServiceImpl) CreateQuiz(ctx context.Context, draft *domain.QuizDraft) (*domain.Quiz, error) {
	log := logger.Get()

	if draft == nil {
		return nil, domain.NewValidationError("quiz", "quiz payload is required")
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	formID, formURL := "", ""
	id, url, err := s.formProvider.CreateForm(ctx, draft.Title, draft.Description, draft.Questions)
	if err != nil {
		log.Warn("External form creation failed, saving quiz without a form",
			zap.String("title", draft.Title),
			zap.Error(err),
		)
	} else {
		formID, formURL = id, url
	}

	quiz := domain.NewQuiz(draft, formID, formURL)

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.repo.SaveQuiz(txCtx, quiz)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Created quiz",
		zap.String("quiz_id", quiz.ID),
		zap.String("title", quiz.Title),
		zap.Bool("has_form", formID != ""),
	)
	return quiz, nil
}

// GetQuiz returns the quiz by ID. Deleted quizzes are indistinguishable from
// absent ones.
func (s *quizServiceImpl) GetQuiz(ctx context.Context, id string) (*domain.Quiz, error) {
	quiz, err := s.repo.GetQuizByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quiz == nil || quiz.Status == domain.StatusDeleted {
		return nil, domain.NewQuizNotFoundError(id)
	}
	return quiz, nil
}

// ListQuizzes returns non-deleted quizzes, optionally filtered by status.
func (s *quizServiceImpl) ListQuizzes(ctx context.Context, status string) ([]*domain.Quiz, error) {
	var filter domain.QuizStatus
	if status != "" {
		parsed, err := domain.ParseStatus(status)
		if err != nil {
			return nil, domain.NewValidationError("status", "status must be one of: draft, approved")
		}
		if parsed == domain.StatusDeleted {
			return nil, domain.NewValidationError("status", "deleted quizzes cannot be listed")
		}
		filter = parsed
	}
	return s.repo.ListQuizzes(ctx, filter)
}

// ApproveQuiz moves a draft quiz to approved. Approval requires an external
// form and succeeds only after the invitation mail is delivered, so a mail
// failure leaves the quiz in draft.
func (s *quizServiceImpl) ApproveQuiz(ctx context.Context, id string, recipients []string) (*domain.Quiz, error) {
	log := logger.Get()

	quiz, err := s.repo.GetQuizByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quiz == nil || quiz.Status == domain.StatusDeleted {
		return nil, domain.NewQuizNotFoundError(id)
	}
	if !quiz.Status.CanTransitionTo(domain.StatusApproved) {
		return nil, domain.NewInvalidTransitionError(fmt.Sprintf("only draft quizzes can be approved, current status is %s", quiz.Status))
	}
	if quiz.FormURL == "" {
		return nil, domain.NewInvalidTransitionError("quiz has no external form and cannot be approved")
	}

	if err := s.mailProvider.Send(ctx, recipients, quiz.Title, quiz.FormURL); err != nil {
		log.Warn("Invitation mail failed, quiz remains in draft",
			zap.String("quiz_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	var updated *domain.Quiz
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var txErr error
		updated, txErr = s.repo.UpdateQuizStatus(txCtx, id, domain.StatusApproved)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.NewQuizNotFoundError(id)
	}

	log.Info("Approved quiz",
		zap.String("quiz_id", id),
		zap.Int("recipient_count", len(recipients)),
	)
	return updated, nil
}

// DeleteQuiz soft-deletes the quiz. Already-deleted and unknown quizzes both
// report not found.
func (s *quizServiceImpl) DeleteQuiz(ctx context.Context, id string) error {
	quiz, err := s.repo.GetQuizByID(ctx, id)
	if err != nil {
		return err
	}
	if quiz == nil || quiz.Status == domain.StatusDeleted {
		return domain.NewQuizNotFoundError(id)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		_, txErr := s.repo.UpdateQuizStatus(txCtx, id, domain.StatusDeleted)
		return txErr
	})
	if err != nil {
		return err
	}

	log := logger.Get()
	if quiz.FormID != "" {
		// Cached form questions are only reachable through this quiz.
		if err := s.cache.Delete(ctx, cache.FormQuestionsKey(quiz.FormID)); err != nil {
			log.Warn("Failed to invalidate form questions cache",
				zap.String("form_id", quiz.FormID),
				zap.Error(err),
			)
		}
	}

	log.Info("Deleted quiz", zap.String("quiz_id", id))
	return nil
}

// GetFormQuestions fetches the question set of an external form. Results are
// cached and concurrent fetches for the same form are collapsed into one
// provider call.
func (s *quizServiceImpl) GetFormQuestions(ctx context.Context, formID string) ([]domain.FormQuestion, error) {
	log := logger.Get()

	if strings.TrimSpace(formID) == "" {
		return nil, domain.NewValidationError("form_id", "form id is required")
	}

	key := cache.FormQuestionsKey(formID)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var questions []domain.FormQuestion
		if err := json.Unmarshal([]byte(cached), &questions); err == nil {
			return questions, nil
		}
		log.Warn("Discarding corrupt cache entry", zap.String("key", key))
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		log.Warn("Cache lookup failed, falling back to provider", zap.Error(err))
	}

	result, err, _ := s.sfGroup.Do(key, func() (interface{}, error) {
		fetched, err := s.formProvider.GetForm(ctx, formID)
		if err != nil {
			return nil, err
		}
		// Callers always get a usable index; an unknown answer defaults to
		// the first option.
		for i := range fetched {
			if fetched[i].CorrectAnswerIndex == domain.UnknownAnswerIndex {
				fetched[i].CorrectAnswerIndex = 0
			}
		}

		if encoded, err := json.Marshal(fetched); err == nil {
			if err := s.cache.Set(ctx, key, string(encoded), s.formQuestionsTTL); err != nil {
				log.Warn("Failed to cache form questions", zap.Error(err))
			}
		}
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.FormQuestion), nil
}

// CreateQuizFromText extracts a quiz draft from free-form text and creates it.
func (s *quizServiceImpl) CreateQuizFromText(ctx context.Context, text string, titleHint string) (*domain.Quiz, error) {
	draft, err := s.ingestion.ExtractQuiz(ctx, text, titleHint)
	if err != nil {
		return nil, err
	}
	return s.CreateQuiz(ctx, draft)
}

// CreateQuizFromFile accepts an uploaded plain-text document and creates a
// quiz from its contents. Only .txt and .md files are accepted.
func (s *quizServiceImpl) CreateQuizFromFile(ctx context.Context, filename string, content []byte, titleHint string) (*domain.Quiz, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".txt" && ext != ".md" {
		return nil, domain.NewValidationError("file", "only .txt and .md files are supported")
	}
	if len(content) == 0 {
		return nil, domain.NewValidationError("file", "uploaded file is empty")
	}

	hint := titleHint
	if hint == "" {
		hint = strings.TrimSuffix(filepath.Base(filename), ext)
	}
	return s.CreateQuizFromText(ctx, string(content), hint)
}
