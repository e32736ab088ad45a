package ingest

import (
	"context"

	"github.com/hiredeck/talentsearch/internal/domain"
)

// GraphStore persists talent profiles and their potential-role sets.
type GraphStore interface {
	PutTalentProfile(ctx context.Context, profile domain.TalentProfile) error
	AddPotentialRoles(ctx context.Context, applicantID string, roles ...string) error
	DeleteTalent(ctx context.Context, applicantID string) error
}

// LexicalIndex maintains the full-text index over profile text.
type LexicalIndex interface {
	IndexTalent(ctx context.Context, applicantID, profileText string) error
	RemoveTalent(ctx context.Context, applicantID string) error
}

// VectorIndex maintains the embedding index.
type VectorIndex interface {
	UpsertTalent(ctx context.Context, applicantID string, vec []float32) error
	DeleteTalent(ctx context.Context, applicantID string) error
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
