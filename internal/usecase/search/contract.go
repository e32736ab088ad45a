package search

import (
	"context"

	"github.com/hiredeck/talentsearch/internal/domain"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// ContentGate classifies query text. The orchestrator fails closed: a gate
// error is treated as a rejection.
type ContentGate interface {
	IsExplicit(ctx context.Context, text string) (bool, error)
}

// LexicalIndex serves BM25 full-text search over indexed profile text.
type LexicalIndex interface {
	FullTextSearch(ctx context.Context, term string, topK int) ([]domain.LexicalHit, error)
}

// GraphStore reads talent profiles and potential-role relationships.
type GraphStore interface {
	GetTalentProfile(ctx context.Context, applicantID string) (domain.TalentProfile, error)
	GetPotentialRoles(ctx context.Context, applicantID string) ([]string, error)
}

// VectorIndex finds talents by embedding similarity.
type VectorIndex interface {
	FindSimilarTalents(ctx context.Context, vec []float32, threshold float64, limit int) ([]domain.VectorHit, error)
}
