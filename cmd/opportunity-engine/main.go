// cmd/opportunity-engine/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"opportunity-engine/internal/analyzer"
	"opportunity-engine/internal/common/config"
	"opportunity-engine/internal/common/database"
	"opportunity-engine/internal/common/logger"
	"opportunity-engine/internal/common/observability"
	"opportunity-engine/internal/common/validation"
	"opportunity-engine/internal/estimator"
	"opportunity-engine/internal/pipeline"
	"opportunity-engine/internal/providers"
	"opportunity-engine/internal/providers/azuretts"
	"opportunity-engine/internal/providers/elevenlabs"
	"opportunity-engine/internal/providers/gemini"
	"opportunity-engine/internal/providers/groq"
	"opportunity-engine/internal/providers/openai"
	"opportunity-engine/internal/ranker"
	"opportunity-engine/internal/server"
	"opportunity-engine/internal/server/handlers"
	"opportunity-engine/internal/store"
	"opportunity-engine/pkg/catalog"

	commonhttp "opportunity-engine/internal/common/http"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting opportunity engine...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Load provider catalog ---
	cat, err := catalog.LoadCatalog(cfg.Providers.CatalogPath)
	if err != nil {
		zapLog.Fatal("provider catalog load failed", zap.Error(err))
	}

	registry, err := providers.BuildRegistry(cat)
	if err != nil {
		zapLog.Fatal("provider registry build failed", zap.Error(err))
	}
	zapLog.Info("Provider catalog loaded", zap.String("version", cat.Version))

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rd *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rd, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rd.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rd.Close()
	zapLog.Info("Redis connected successfully")

	// --- Build provider adapters ---
	attemptTimeout := config.GetDuration(cfg.Providers.AttemptTimeout)
	httpClient := commonhttp.NewClient(attemptTimeout)

	adapters := []providers.Adapter{
		openai.NewAdapter(cfg.Providers.OpenAI.APIKey, cfg.Providers.OpenAI.Model),
		groq.NewAdapter(httpClient, cfg.Providers.Groq.BaseURL, cfg.Providers.Groq.APIKey, cfg.Providers.Groq.Model),
		gemini.NewAdapter(httpClient, cfg.Providers.Gemini.BaseURL, cfg.Providers.Gemini.APIKey, cfg.Providers.Gemini.Model),
		elevenlabs.NewAdapter(httpClient, cfg.Providers.ElevenLabs.BaseURL, cfg.Providers.ElevenLabs.APIKey, cfg.Providers.ElevenLabs.VoiceID),
		azuretts.NewAdapter(httpClient, cfg.Providers.AzureTTS.Region, cfg.Providers.AzureTTS.APIKey, cfg.Providers.AzureTTS.Voice),
	}

	creds := providers.CredentialMap(cfg.Providers.Credentials())
	executor := providers.NewExecutor(adapters, creds, attemptTimeout, cfg.Providers.FailureThreshold, log)

	// --- Assemble scoring pipeline ---
	var cache analyzer.AnalysisCache
	if cfg.Cache.Enabled {
		cache = store.NewRedisAnalysisCache(rd.GetClient(), config.GetDuration(cfg.Cache.TTL), log)
	}

	scorer := analyzer.NewScorer(registry, executor, cache, log)
	costEstimator := estimator.NewCostEstimator(registry)
	rank := ranker.NewRanker(ranker.Config{
		ScoreWeight:     cfg.Ranking.ScoreWeight,
		ROIWeight:       cfg.Ranking.ROIWeight,
		ROICap:          cfg.Ranking.ROICap,
		MinOverallScore: cfg.Ranking.MinOverallScore,
	})

	validator, err := validation.NewSignalValidator()
	if err != nil {
		zapLog.Fatal("signal validator init failed", zap.Error(err))
	}

	pipe := pipeline.NewPipeline(scorer, costEstimator, rank, validator, pipeline.Config{
		BatchTimeout:    config.GetDuration(cfg.Pipeline.BatchTimeout),
		RevenuePerPoint: cfg.Pipeline.RevenuePerPoint,
		ContentUnits:    cfg.Pipeline.ContentUnits["text"],
	}, log).WithObservability(obs)

	opportunityStore := store.NewOpportunityStore(pg.GetDB(), log)

	// --- HTTP server ---
	container := &server.Container{
		Opportunities: handlers.NewOpportunityHandler(pipe, opportunityStore, log),
		Analysis:      handlers.NewAnalysisHandler(scorer, rank, costEstimator, log),
		Content:       handlers.NewContentHandler(registry, executor, log),
		Checks: map[string]server.HealthChecker{
			"postgres": pg,
			"redis":    rd,
		},
		Logger: log,
	}

	srv := server.New(fmt.Sprintf(":%d", cfg.Server.Port), container)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		zapLog.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			zapLog.Error("http server error", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Opportunity engine stopped")
}
