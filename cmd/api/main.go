package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/config"
	"alfredoptarigan/interview-coach/internal/handlers"
	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/repositories"
	"alfredoptarigan/interview-coach/internal/services"
)

const serviceName = "Interview Coach API"

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	if !cfg.EnvFileLoaded {
		zlog.Info("no .env file found, using process environment")
	}

	ctx := context.Background()

	db, err := config.InitDatabase(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}

	resumeRepo := repositories.NewResumeRepository(db)
	interviewRepo := repositories.NewInterviewRepository(db)

	storageService := services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.AllowedExtensions)
	if err := storageService.EnsureUploadDir(); err != nil {
		zlog.Fatal("failed to create upload directory", zap.Error(err))
	}

	geminiService, err := services.NewGeminiService(services.GeminiOptions{
		APIKey:     cfg.Gemini.APIKey,
		Model:      cfg.Gemini.Model,
		EmbedModel: cfg.Gemini.EmbedModel,
		MaxTokens:  cfg.Gemini.MaxTokens,
	}, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize gemini", zap.Error(err))
	}
	generator := services.WithRetry(geminiService, cfg.Gemini.MaxRetries, zlog)

	var guides *services.GuideRetriever
	if cfg.Qdrant.Enabled {
		qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, zlog)
		if err != nil {
			zlog.Fatal("failed to initialize qdrant", zap.Error(err))
		}
		defer qdrantService.Close()

		if err := qdrantService.InitCollection(ctx); err != nil {
			zlog.Fatal("failed to initialize qdrant collection", zap.Error(err))
		}
		guides = services.NewGuideRetriever(geminiService, qdrantService, zlog)
		zlog.Info("interview guide retrieval enabled", zap.String("collection", cfg.Qdrant.Collection))
	}

	store, locks, closeStore, err := newSessionStore(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize session store", zap.Error(err))
	}
	defer closeStore()
	zlog.Info("session store ready", zap.String("backend", cfg.Session.Store), zap.Duration("ttl", cfg.Session.TTL))

	reports := services.NewReportAggregator(generator, zlog)
	interviews := services.NewInterviewService(services.InterviewDeps{
		Store:      store,
		Locks:      locks,
		Questions:  services.NewQuestionGenerator(generator, guides, cfg.Interview.TotalQuestions, zlog),
		Personas:   services.NewPersonaClassifier(generator, zlog),
		Evaluator:  services.NewResponseEvaluator(generator, zlog),
		Narratives: services.NewNarrativeChecker(generator, zlog),
		FollowUps:  services.NewFollowUpEngine(generator, zlog),
		Reports:    reports,
	}, cfg.Interview.AnswerTimeLimit, zlog)

	worker := services.NewWorker(
		interviews,
		store,
		interviewRepo,
		reports,
		cfg.Worker.Concurrency,
		cfg.Session.SweepInterval,
		zlog,
	)
	interviews.OnComplete(worker)
	worker.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      serviceName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers.RegisterRoutes(app, handlers.Handlers{
		Resume: handlers.NewResumeHandler(
			resumeRepo,
			storageService,
			services.NewDocumentExtractor(),
			services.NewResumeParser(generator, zlog),
			cfg.Storage.MaxFileSize,
			zlog,
		),
		Interview: handlers.NewInterviewHandler(
			interviews,
			resumeRepo,
			cfg.Interview.PrepTime,
			cfg.Interview.AnswerTimeLimit,
			zlog,
		),
		Report: handlers.NewReportHandler(interviews, interviewRepo, services.NewReportRenderer(), zlog),
		Health: handlers.NewHealthHandler(serviceName, cfg.Session.Store),
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			zlog.Error("server forced to shutdown", zap.Error(err))
		}
		worker.Stop()
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Server.Env))

	if err := app.Listen(addr); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}

// newSessionStore builds the configured backend, its session locker and a func releasing its resources.
func newSessionStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (services.SessionStore, services.SessionLocker, func(), error) {
	if cfg.Session.Store != config.StoreRedis {
		return services.NewMemorySessionStore(cfg.Session.TTL), services.NewMemorySessionLocker(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}

	locks := services.NewRedisSessionLocker(client, services.RedisLockOptions{
		KeyPrefix: cfg.Redis.LockPrefix,
		TTL:       cfg.Redis.LockTTL,
		Wait:      cfg.Redis.LockWait,
	}, log)

	return services.NewRedisSessionStore(client, cfg.Redis.KeyPrefix, cfg.Session.TTL), locks, func() { client.Close() }, nil
}
