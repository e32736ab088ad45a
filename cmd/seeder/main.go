// Command seeder bulk-loads talent records from a JSON file into the
// search backends. Input is an array of records:
//
//	[{"profile": {"applicant_id": "...", "title": "..."}, "potential_roles": ["..."]}]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/hiredeck/talentsearch/internal/config"
	dbRedis "github.com/hiredeck/talentsearch/internal/db/redis"
	logpkg "github.com/hiredeck/talentsearch/internal/logger"
	"github.com/hiredeck/talentsearch/internal/metrics"
	"github.com/hiredeck/talentsearch/internal/repository/embcache"
	graphrepo "github.com/hiredeck/talentsearch/internal/repository/graph"
	lexicalrepo "github.com/hiredeck/talentsearch/internal/repository/lexical"
	vectorrepo "github.com/hiredeck/talentsearch/internal/repository/vector"
	openaiTransport "github.com/hiredeck/talentsearch/internal/transport/openai"
	ingestuc "github.com/hiredeck/talentsearch/internal/usecase/ingest"
)

const lexicalIndexName = "talent-profiles"

func main() {
	var file string
	flag.StringVar(&file, "file", "", "path to a JSON file with talent records")
	flag.Parse()

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

	if file == "" {
		logger.Fatal("-file is required")
	}

	data, err := os.ReadFile(filepath.Clean(file))
	if err != nil {
		logger.Fatal("Failed to read input file", zap.Error(err))
	}
	var records []ingestuc.Record
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Fatal("Failed to parse input file", zap.Error(err))
	}
	logger.Info("Loaded records", zap.String("file", file), zap.Int("count", len(records)))

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

	metrics.RegisterEmbeddingMetrics()

	graph := graphrepo.New(store, cfg.Storage.KeyPrefix)
	lexical := lexicalrepo.New(store, lexicalIndexName, cfg.Storage.KeyPrefix)
	if err := lexical.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure lexical index", zap.Error(err))
	}

	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})
	embedder := embcache.New(base, store, cfg.Storage.KeyPrefix, metrics.EmbeddingCacheTotal, logger).
		WithTTL(time.Duration(cfg.Embedding.CacheTTL) * time.Second)

	svc, err := ingestuc.New(graph, lexical, vectors, embedder, cfg.Ingest.PoolSize)
	if err != nil {
		logger.Fatal("Failed to create ingest service", zap.Error(err))
	}
	defer svc.Release()

	start := time.Now()
	report := svc.IndexBatch(ctx, records)
	for _, f := range report.Failures {
		logger.Warn("Record failed",
			zap.String("applicant_id", f.ApplicantID), zap.Error(f.Err))
	}
	logger.Info("Seeding finished",
		zap.Int("indexed", report.Indexed),
		zap.Int("failed", len(report.Failures)),
		zap.Duration("took", time.Since(start)),
	)
	if len(report.Failures) > 0 {
		os.Exit(1)
	}
}
