package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"travella/internal/classifier"
	"travella/internal/config"
	"travella/internal/content"
	"travella/internal/handler"
	logpkg "travella/internal/logger"
	"travella/internal/metrics"
	"travella/internal/repository"
	"travella/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const (
	defaultQueryLimit = 20
	maxQueryLimit     = 100
	shutdownTimeout   = 15 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting travella API server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
		zap.Int("http_port", cfg.Server.Port),
	)

	ctx := context.Background()
	metrics.Register()

	// Content snapshot
	store, err := content.NewStore(cfg.Data.Dir, cfg.Data.DefaultCity)
	if err != nil {
		logger.Fatal("Failed to load content", zap.String("dir", cfg.Data.Dir), zap.Error(err))
	}
	snap := store.Current()
	logger.Info("Content loaded",
		zap.Int("cities", snap.Cities()),
		zap.Int("destinations", snap.Destinations()),
	)

	// Intent classifier
	trainOpts := classifier.DefaultOptions()
	trainOpts.MaxFeatures = cfg.Classifier.MaxFeatures
	trainOpts.C = cfg.Classifier.C
	trainOpts.Iterations = cfg.Classifier.Iterations
	trainOpts.MinConfidence = cfg.Classifier.MinConfidence

	clf, trained, err := classifier.LoadOrTrain(cfg.Data.ModelPath, cfg.Data.IntentData, trainOpts)
	if clf == nil {
		logger.Fatal("Failed to load intent model", zap.String("model_path", cfg.Data.ModelPath), zap.Error(err))
	}
	if trained {
		logger.Warn("Model artifact not found, trained from labeled queries",
			zap.String("model_path", cfg.Data.ModelPath),
			zap.String("intent_data", cfg.Data.IntentData),
			zap.Error(err),
		)
	}
	clf.SetThreshold(cfg.Classifier.MinConfidence)
	logger.Info("Intent model ready",
		zap.Strings("labels", clf.Labels()),
		zap.Int("vocabulary", clf.VocabularySize()),
		zap.Float64("min_confidence", clf.Threshold()),
		zap.Time("trained_at", clf.TrainedAt()),
	)

	// Optional generation cache. Keep the interface nil when Redis is unavailable.
	var cache service.Cache
	if cfg.Redis.Addr != "" {
		client, err := repository.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, generation cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			defer client.Close()
			cache = client
			logger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.CacheTTL))
		}
	}

	generator := service.NewGenerator(cfg, cache, logger)
	if !cfg.LLMEnabled() {
		logger.Warn("No LLM provider configured, responses use deterministic templates",
			zap.String("hint", "set OPENAI_API_KEY or ANTHROPIC_API_KEY to enable generation"))
	}

	// Optional query log. Pass a nil interface, not a typed nil pointer, when disabled.
	var (
		queries service.QueryLogger
		repo    *repository.PostgresRepository
	)
	if cfg.PostgreSQL.Enabled {
		repo, err = repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer repo.Close()
		if err := repo.Migrate(ctx); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		queries = repo
		logger.Info("Connected to PostgreSQL database, query log enabled")
	}

	// Initialize services
	composer := service.NewComposer(store, generator, cfg.LLM.Timeout, logger)
	predictService := service.NewPredictService(clf, store, composer, queries, logger)
	planner := service.NewPlanner(store)

	// Setup Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logpkg.Middleware(logger))
	router.Use(metrics.Middleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = config.SplitList(cfg.Server.AllowedOrigins)
	corsConfig.AllowMethods = config.SplitList(cfg.Server.AllowedMethods)
	corsConfig.AllowHeaders = config.SplitList(cfg.Server.AllowedHeaders)
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if repo != nil {
			if err := repo.Ping(c.Request.Context()); err != nil {
				logpkg.FromContext(c.Request.Context()).Warn("query log database unreachable", zap.Error(err))
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{
			"status":            status,
			"service":           "travella",
			"version":           Version,
			"llm_available":     composer.Available(),
			"query_log":         queries != nil,
			"content_loaded_at": store.Current().LoadedAt(),
		})
	})

	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.RegisterRoutes(router.Group("/api/v1"),
		handler.NewPredictHandler(predictService),
		handler.NewFeedbackHandler(predictService),
		handler.NewAdminHandler(predictService, defaultQueryLimit, maxQueryLimit),
		handler.NewPlanHandler(planner),
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
