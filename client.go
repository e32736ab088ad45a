// Package talentsearch is the embedded SDK: it wires the search and
// ingestion services over Redis and qdrant without the HTTP surface.
package talentsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hiredeck/talentsearch/internal/db"
	dbRedis "github.com/hiredeck/talentsearch/internal/db/redis"
	"github.com/hiredeck/talentsearch/internal/domain"
	"github.com/hiredeck/talentsearch/internal/repository/embcache"
	graphrepo "github.com/hiredeck/talentsearch/internal/repository/graph"
	lexicalrepo "github.com/hiredeck/talentsearch/internal/repository/lexical"
	vectorrepo "github.com/hiredeck/talentsearch/internal/repository/vector"
	openaiTransport "github.com/hiredeck/talentsearch/internal/transport/openai"
	ingestuc "github.com/hiredeck/talentsearch/internal/usecase/ingest"
	searchuc "github.com/hiredeck/talentsearch/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultLexicalIndex     = "talent-profiles"
)

// Client is the talentsearch SDK entry point.
type Client struct {
	store     db.Store
	vectors   *vectorrepo.Repository
	searchSvc *searchuc.Service
	ingestSvc *ingestuc.Service
}

// New creates a Client and connects to the backends.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix:  "talent:",
		collection: "talents",
		dimensions: 1536,
		poolSize:   4,
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("talentsearch: database address required (use WithRedis)")
	}
	if cfg.vectorURL == "" {
		return nil, errors.New("talentsearch: vector index address required (use WithQdrant)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("talentsearch: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("talentsearch: database not ready: %w", err)
	}

	vectors, err := vectorrepo.New(vectorrepo.Config{
		URL:        cfg.vectorURL,
		APIKey:     cfg.vectorAPIKey,
		Collection: cfg.collection,
		Dimensions: cfg.dimensions,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("talentsearch: create vector repository: %w", err)
	}
	if err := vectors.EnsureCollection(ctx); err != nil {
		store.Close()
		_ = vectors.Close()
		return nil, fmt.Errorf("talentsearch: ensure vector collection: %w", err)
	}

	return wireClient(store, vectors, cfg)
}

func wireClient(store db.Store, vectors *vectorrepo.Repository, cfg *clientConfig) (*Client, error) {
	graph := graphrepo.New(store, cfg.keyPrefix)
	lexical := lexicalrepo.New(store, defaultLexicalIndex, cfg.keyPrefix)
	if err := lexical.EnsureIndex(context.Background()); err != nil {
		store.Close()
		_ = vectors.Close()
		return nil, fmt.Errorf("talentsearch: ensure lexical index: %w", err)
	}

	var embedder domain.Embedder = &noopEmbedder{}
	if cfg.embedder != nil {
		embedder = &embedderAdapter{inner: cfg.embedder}
	} else if cfg.openaiAPIKey != "" {
		base := openaiTransport.NewEmbedder(&openaiTransport.Config{
			APIKey:     cfg.openaiAPIKey,
			BaseURL:    cfg.openaiBaseURL,
			Model:      cfg.embeddingModel,
			Dimensions: cfg.dimensions,
			Provider:   "openai",
			Logger:     cfg.logger,
		})
		embedder = embcache.New(base, store, cfg.keyPrefix, nil, cfg.logger)
	}

	var gate searchuc.ContentGate = passGate{}
	if cfg.openaiAPIKey != "" {
		gate = openaiTransport.NewModerationGate(&openaiTransport.ModerationConfig{
			APIKey:  cfg.openaiAPIKey,
			BaseURL: cfg.openaiBaseURL,
		})
	}

	searchSvc := searchuc.New(embedder, gate, lexical, graph, vectors, cfg.searchOpts)
	ingestSvc, err := ingestuc.New(graph, lexical, vectors, embedder, cfg.poolSize)
	if err != nil {
		store.Close()
		_ = vectors.Close()
		return nil, fmt.Errorf("talentsearch: create ingest service: %w", err)
	}

	return &Client{
		store:     store,
		vectors:   vectors,
		searchSvc: searchSvc,
		ingestSvc: ingestSvc,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.ingestSvc != nil {
		c.ingestSvc.Release()
	}
	if c.vectors != nil {
		_ = c.vectors.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks backend connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if err := c.vectors.Ping(ctx); err != nil {
		return fmt.Errorf("ping vector index: %w", err)
	}
	return nil
}

// Search runs the candidate-matching pipeline for a raw query.
func (c *Client) Search(ctx context.Context, query string) (SearchResult, error) {
	result, err := c.searchSvc.Search(ctx, query)
	if err != nil {
		return SearchResult{}, err
	}
	return fromMatchResult(result), nil
}

// IndexTalent writes one talent into all backends.
func (c *Client) IndexTalent(ctx context.Context, rec Record) error {
	return c.ingestSvc.Index(ctx, toIngestRecord(rec))
}

// IndexTalents bulk-indexes records; failures are per-record.
func (c *Client) IndexTalents(ctx context.Context, recs []Record) IndexReport {
	in := make([]ingestuc.Record, len(recs))
	for i, r := range recs {
		in[i] = toIngestRecord(r)
	}
	return fromBatchReport(c.ingestSvc.IndexBatch(ctx, in))
}

// DeleteTalent removes a talent from all backends.
func (c *Client) DeleteTalent(ctx context.Context, applicantID string) error {
	return c.ingestSvc.Delete(ctx, applicantID)
}

// EmbeddingResult is the public embedding shape for custom embedders.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder lets callers plug a custom embedding provider into the client.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopEmbedder returns an error on Embed call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"talentsearch: embedder not configured (use WithOpenAI or WithEmbedder)",
	)
}

// passGate admits every query when no moderation provider is configured.
type passGate struct{}

func (passGate) IsExplicit(_ context.Context, _ string) (bool, error) { return false, nil }
