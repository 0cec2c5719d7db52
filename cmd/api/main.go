package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autoquiz/internal/adapter"
	"autoquiz/internal/adapter/extraction"
	"autoquiz/internal/adapter/forms"
	"autoquiz/internal/adapter/mail"
	"autoquiz/internal/cache"
	"autoquiz/internal/config"
	"autoquiz/internal/database"
	"autoquiz/internal/handler"
	"autoquiz/internal/logger"
	"autoquiz/internal/middleware"
	"autoquiz/internal/repository"
	"autoquiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"
)

// @title AutoQuiz API
// @version 1.0
// @description Quiz authoring backend with external form provisioning, mail invitations, and generative quiz extraction.
// @BasePath /
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

	ctx := context.Background()

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	formProvider, err := forms.NewGoogleFormsProvider(ctx, cfg.Forms.CredentialsFile, log)
	if err != nil {
		log.Fatal("failed to initialize forms provider", zap.Error(err))
	}

	mailProvider, err := mail.NewBrevoMailProvider(cfg.Mail.APIKey, cfg.Mail.SenderEmail, cfg.Mail.SenderName, log)
	if err != nil {
		log.Fatal("failed to initialize mail provider", zap.Error(err))
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.Gemini.APIKey),
		googleai.WithDefaultModel(cfg.Gemini.Model),
	)
	if err != nil {
		log.Fatal("failed to initialize Gemini client", zap.Error(err))
	}
	textGenerator, err := extraction.NewGeminiTextGenerator(llm, log)
	if err != nil {
		log.Fatal("failed to initialize text generator", zap.Error(err))
	}

	quizRepo := repository.NewQuizDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	ingestionService := service.NewIngestionService(textGenerator)
	quizService := service.NewQuizService(
		quizRepo,
		txManager,
		formProvider,
		mailProvider,
		ingestionService,
		cacheAdapter,
		cfg.Cache.FormQuestionsTTL,
	)

	quizHandler := handler.NewQuizHandler(quizService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.RequestLogger())

	app.Get("/", func(c *fiber.Ctx) error {
		cacheStatus := "ok"
		if err := cacheAdapter.Ping(c.Context()); err != nil {
			cacheStatus = "unavailable"
		}
		return c.JSON(fiber.Map{"status": "ok", "service": "autoquiz", "cache": cacheStatus})
	})

	api := app.Group("/api")
	quizzes := api.Group("/quizzes")
	quizzes.Post("/", quizHandler.CreateQuiz)
	quizzes.Get("/", quizHandler.ListQuizzes)
	quizzes.Post("/from-text", quizHandler.CreateQuizFromText)
	quizzes.Post("/from-file", quizHandler.CreateQuizFromFile)
	quizzes.Get("/:id", quizHandler.GetQuiz)
	quizzes.Post("/:id/approve", quizHandler.ApproveQuiz)
	quizzes.Delete("/:id", quizHandler.DeleteQuiz)
	api.Get("/forms/:formId/questions", quizHandler.GetFormQuestions)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		log.Info("starting server", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("server exited")
}
