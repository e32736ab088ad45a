package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hiredeck/talentsearch/internal/config"
	dbRedis "github.com/hiredeck/talentsearch/internal/db/redis"
	"github.com/hiredeck/talentsearch/internal/domain"
	logpkg "github.com/hiredeck/talentsearch/internal/logger"
	"github.com/hiredeck/talentsearch/internal/metrics"
	"github.com/hiredeck/talentsearch/internal/repository/embcache"
	graphrepo "github.com/hiredeck/talentsearch/internal/repository/graph"
	lexicalrepo "github.com/hiredeck/talentsearch/internal/repository/lexical"
	vectorrepo "github.com/hiredeck/talentsearch/internal/repository/vector"
	chiTransport "github.com/hiredeck/talentsearch/internal/transport/chi"
	openaiTransport "github.com/hiredeck/talentsearch/internal/transport/openai"
	healthuc "github.com/hiredeck/talentsearch/internal/usecase/health"
	ingestuc "github.com/hiredeck/talentsearch/internal/usecase/ingest"
	searchuc "github.com/hiredeck/talentsearch/internal/usecase/search"
	"github.com/hiredeck/talentsearch/internal/version"
)

const lexicalIndexName = "talent-profiles"

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting talentsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("vector_url", cfg.Vector.URL),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	vectors, err := vectorrepo.New(vectorrepo.Config{
		URL:        cfg.Vector.URL,
		APIKey:     cfg.Vector.APIKey,
		Collection: cfg.Vector.Collection,
		Dimensions: cfg.Vector.Dimensions,
	})
	if err != nil {
		logger.Fatal("Failed to create vector repository", zap.Error(err))
	}
	defer func() { _ = vectors.Close() }()

	if err := vectors.EnsureCollection(ctx); err != nil {
		logger.Fatal("Failed to ensure vector collection", zap.Error(err))
	}
	logger.Info("Connected to vector index",
		zap.String("collection", cfg.Vector.Collection),
		zap.Int("dimensions", cfg.Vector.Dimensions),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	graph := graphrepo.New(store, cfg.Storage.KeyPrefix)
	lexical := lexicalrepo.New(store, lexicalIndexName, cfg.Storage.KeyPrefix)
	if err := lexical.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure lexical index", zap.Error(err))
	}

	// Embedder chain: OpenAI -> Cached
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})
	var embedder domain.Embedder = embcache.New(
		base, store, cfg.Storage.KeyPrefix, metrics.EmbeddingCacheTotal, logger,
	).WithTTL(time.Duration(cfg.Embedding.CacheTTL) * time.Second)
	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	gate := openaiTransport.NewModerationGate(&openaiTransport.ModerationConfig{
		APIKey:  cfg.Embedding.APIKey,
		BaseURL: cfg.Embedding.BaseURL,
		Model:   cfg.Moderation.Model,
	})

	searchSvc := searchuc.New(embedder, gate, lexical, graph, vectors, searchuc.Options{
		Thresholds: searchuc.Thresholds{
			DirectMatch:   cfg.Search.DirectMatchThreshold,
			LexicalRerank: cfg.Search.LexicalRerankThreshold,
			RoleExpansion: cfg.Search.RoleExpansionThreshold,
			SimilarTalent: cfg.Search.SimilarTalentThreshold,
		},
		ExpansionBeam:    cfg.Search.ExpansionBeam,
		LexicalTopK:      cfg.Search.LexicalTopK,
		SimilarLimit:     cfg.Search.SimilarLimit,
		BranchTimeout:    time.Duration(cfg.Search.BranchTimeoutSec) * time.Second,
		EmbedConcurrency: cfg.Search.EmbedConcurrency,
	})

	ingestSvc, err := ingestuc.New(graph, lexical, vectors, embedder, cfg.Ingest.PoolSize)
	if err != nil {
		logger.Fatal("Failed to create ingest service", zap.Error(err))
	}
	defer ingestSvc.Release()

	healthSvc := healthuc.New(store, vectors, base)

	server := chiTransport.NewServer(searchSvc, ingestSvc, healthSvc, logger, cfg.Ingest.MaxBatchSize)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
