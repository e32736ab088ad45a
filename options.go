package talentsearch

import (
	"go.uber.org/zap"

	searchuc "github.com/hiredeck/talentsearch/internal/usecase/search"
)

type clientConfig struct {
	addrs    []string
	password string

	vectorURL    string
	vectorAPIKey string
	collection   string
	dimensions   int

	openaiAPIKey   string
	openaiBaseURL  string
	embeddingModel string
	embedder       Embedder

	keyPrefix  string
	poolSize   int
	searchOpts searchuc.Options
	logger     *zap.Logger
}

// Option configures the client.
type Option func(*clientConfig)

// WithRedis sets the Redis connection. At least one address is required.
func WithRedis(addrs []string, password string) Option {
	return func(c *clientConfig) {
		c.addrs = addrs
		c.password = password
	}
}

// WithQdrant sets the vector index connection. The URL is required.
func WithQdrant(url, apiKey string) Option {
	return func(c *clientConfig) {
		c.vectorURL = url
		c.vectorAPIKey = apiKey
	}
}

// WithCollection overrides the vector collection name and dimensionality.
func WithCollection(name string, dimensions int) Option {
	return func(c *clientConfig) {
		if name != "" {
			c.collection = name
		}
		if dimensions > 0 {
			c.dimensions = dimensions
		}
	}
}

// WithOpenAI enables OpenAI embeddings and moderation. An empty model
// keeps the provider default.
func WithOpenAI(apiKey, baseURL, embeddingModel string) Option {
	return func(c *clientConfig) {
		c.openaiAPIKey = apiKey
		c.openaiBaseURL = baseURL
		c.embeddingModel = embeddingModel
	}
}

// WithEmbedder plugs a custom embedding provider. Takes precedence over
// WithOpenAI for embeddings; moderation still needs an OpenAI key.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithKeyPrefix namespaces every Redis key the client writes.
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) {
		if prefix != "" {
			c.keyPrefix = prefix
		}
	}
}

// WithSearchOptions overrides the search pipeline tuning. Zero fields
// keep their defaults.
func WithSearchOptions(opts searchuc.Options) Option {
	return func(c *clientConfig) {
		c.searchOpts = opts
	}
}

// WithPoolSize sets the ingestion worker pool size.
func WithPoolSize(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.poolSize = n
		}
	}
}

// WithLogger sets the logger used by the embedding provider.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
