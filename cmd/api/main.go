package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"alfredoptarigan/ats-resume-analyzer/internal/config"
	"alfredoptarigan/ats-resume-analyzer/internal/handlers"
	"alfredoptarigan/ats-resume-analyzer/internal/repositories"
	"alfredoptarigan/ats-resume-analyzer/internal/services"
)

// formOverhead is the body allowance on top of the file size limit for the
// text fields and multipart boundaries.
const formOverhead = 1 << 20

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := config.NewLogger(cfg)
	log.Info().Str("env", cfg.Server.Env).Msg("✅ Config loaded successfully")

	// Initialize analysis store
	analysisRepo, err := newAnalysisRepository(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize analysis store")
	}
	log.Info().Str("driver", cfg.Storage.Driver).Msg("✅ Analysis store initialized")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to create upload directory")
	}

	extractor := services.NewDocumentExtractor(storageService, cfg.Storage.MaxFileSize, log)

	// Initialize Gemini AI
	geminiClient, err := services.NewGeminiClient(context.Background(), cfg.Gemini.APIKey)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize Gemini AI")
	}
	geminiService := services.NewGeminiService(geminiClient, cfg.Gemini.Model, log)
	log.Info().Str("model", cfg.Gemini.Model).Msg("✅ Gemini AI initialized successfully")

	requester := services.NewAnalysisRequester(geminiService, services.RequestPolicy{
		Timeout:     cfg.Gemini.Timeout,
		MaxAttempts: cfg.Gemini.MaxAttempts,
		RetryDelay:  cfg.Gemini.RetryDelay,
	}, log)

	// Start worker pool
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := services.NewAnalysisPool(cfg.Worker.Concurrency, cfg.Worker.QueueSize, log)
	pool.Start(ctx)

	analyzer := services.NewAnalyzerService(
		extractor,
		requester,
		pool,
		analysisRepo,
		cfg.Analysis.StoreResults,
		log,
	)
	log.Info().Msg("✅ Services initialized successfully")

	// Initialize Handlers
	analyzeHandler := handlers.NewAnalyzeHandler(analyzer, log)
	resultHandler := handlers.NewResultHandler(analysisRepo, log)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "ATS Resume Analyzer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Gemini.AnalysisBudget() + 30*time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + formOverhead,
		ErrorHandler: handlers.ErrorHandler(cfg.Storage.MaxFileSize),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	handlers.RegisterRoutes(app, analyzeHandler, resultHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("❌ Server forced to shutdown")
		}
		pool.Stop()
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("🚀 Server starting")

	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to start server")
	}
}

func newAnalysisRepository(cfg *config.Config, log zerolog.Logger) (repositories.AnalysisRepository, error) {
	if cfg.Storage.Driver != config.StorageDriverPostgres {
		return repositories.NewMemoryAnalysisRepository(), nil
	}

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		return nil, err
	}
	return repositories.NewAnalysisRepository(db), nil
}
