package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/essayforge/essay-api/internal/config"
	"github.com/essayforge/essay-api/internal/database"
	"github.com/essayforge/essay-api/internal/handler"
	"github.com/essayforge/essay-api/internal/middleware"
	"github.com/essayforge/essay-api/internal/models"
	"github.com/essayforge/essay-api/internal/repository"
	"github.com/essayforge/essay-api/internal/router"
	"github.com/essayforge/essay-api/internal/service"
	"github.com/essayforge/essay-api/pkg/evaluator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Essay{}, &models.EvaluationResult{}, &models.Question{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	evaluatorClient, err := evaluator.NewClient(evaluator.Config{
		APIKey:      cfg.EvaluatorAPIKey,
		BaseURL:     cfg.EvaluatorBaseURL,
		Model:       cfg.EvaluatorModel,
		Timeout:     cfg.EvaluatorTimeout,
		MaxAttempts: cfg.EvaluatorMaxAttempts,
		Logger:      logger,
	})
	if err != nil {
		log.Fatalf("failed to create evaluator client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	essayRepo := repository.NewEssayRepository(db)
	resultRepo := repository.NewResultRepository(db)
	questionRepo := repository.NewQuestionRepository(db)

	dedup := service.NewEvaluationCache(redisClient, resultRepo, cfg.EvaluationCacheTTL, logger)
	submissionService := service.NewSubmissionService(essayRepo, resultRepo, dedup, evaluatorClient, validate, logger)
	questionService := service.NewQuestionService(questionRepo, logger)

	essayHandler := handler.NewEssayHandler(submissionService, logger)
	resultHandler := handler.NewResultHandler(submissionService, logger)
	questionHandler := handler.NewQuestionHandler(questionService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})

	var jwtMiddleware fiber.Handler
	if cfg.JWTSecret != "" {
		jwtMiddleware = middleware.JWTProtected(cfg.JWTSecret)
	}

	router.Register(app, cfg, router.Dependencies{
		EssayHandler:    essayHandler,
		ResultHandler:   resultHandler,
		QuestionHandler: questionHandler,
		JWTMiddleware:   jwtMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
