package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/user/petplaces-service/internal/adapter/memory"
	"github.com/user/petplaces-service/internal/adapter/postgres"
	redis_adapter "github.com/user/petplaces-service/internal/adapter/redis"
	"github.com/user/petplaces-service/internal/adapter/tourapi"
	"github.com/user/petplaces-service/internal/curated"
	"github.com/user/petplaces-service/internal/delivery/http/handler"
	"github.com/user/petplaces-service/internal/delivery/http/router"
	"github.com/user/petplaces-service/internal/repository"
	"github.com/user/petplaces-service/internal/usecase"
	"github.com/user/petplaces-service/pkg/config"
	"github.com/user/petplaces-service/pkg/logger"
	"github.com/user/petplaces-service/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Logger ---
	logLevel := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}
	logger.Init(os.Stdout, logLevel)
	slog.Info("Logger initialized", "level", logLevel.String())

	// --- Metrics ---
	metrics.Init()
	slog.Info("Metrics initialized")

	ctx := context.Background()

	// --- Curated dataset ---
	dataset, err := curated.Load()
	if err != nil {
		slog.Error("Unable to load curated dataset", "error", err)
		os.Exit(1)
	}
	slog.Info("Curated dataset loaded", "places", dataset.Len())

	// --- Upstream client ---
	tourClient := tourapi.NewClient(tourapi.Config{
		GeneralBaseURL: cfg.TourAPIGeneralBaseURL,
		PetBaseURL:     cfg.TourAPIPetBaseURL,
		ServiceKey:     cfg.TourAPIServiceKey,
		MobileOS:       cfg.TourAPIMobileOS,
		MobileApp:      cfg.TourAPIMobileApp,
		Timeout:        cfg.TourAPITimeout,
	}, tourapi.NewXMLDecoder())

	// --- Cache backend ---
	var cache repository.CacheRepository
	if cfg.CacheBackend == "redis" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			slog.Error("Unable to connect to Redis", "error", err)
			os.Exit(1)
		}
		cache = redis_adapter.NewCache(rdb, cfg.CacheTTL, cfg.CacheMaxRecords)
		slog.Info("Redis cache backend established", "addr", cfg.RedisAddr)
	} else {
		cache = memory.NewCache(cfg.CacheTTL, cfg.CacheMaxRecords)
		slog.Info("In-memory cache backend established", "ttl", cfg.CacheTTL.String())
	}

	// --- Optional pipeline run log ---
	var runLog repository.RunLogRepository
	if cfg.PostgresHost != "" {
		pgConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
		dbpool, err := pgxpool.New(ctx, pgConnString)
		if err != nil {
			slog.Error("Unable to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbpool.Close()
		runLog = postgres.NewRunLogRepo(dbpool)
		slog.Info("PostgreSQL run log established")
	} else {
		slog.Info("Pipeline run log disabled (no POSTGRES_HOST)")
	}

	// --- Use Cases ---
	fetcher := usecase.NewKeywordFetcher(tourClient, usecase.KeywordFetcherConfig{
		BatchWidth:         cfg.BatchWidth,
		Retries:            cfg.KeywordRetries,
		RetryDelay:         cfg.RetryDelay,
		ChunkPause:         cfg.ChunkPause,
		MaxItemsPerKeyword: cfg.MaxItemsPerKeyword,
	})
	merger := usecase.NewMergeEngine(dataset, usecase.DefaultMaxMergedResults, usecase.DefaultMinMergedResults)
	aggregator := usecase.NewAggregator(tourClient, cache, runLog, fetcher, merger, dataset, cfg.DefaultRegion)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(aggregator)
	httpRouter := router.New(apiHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("Starting server", "port", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Could not listen on port", "port", cfg.ServerPort, "error", err)
		os.Exit(1)
	}
}
