// Package lexical provides the Redis FT.SEARCH full-text index over talent
// profile text.
package lexical

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hiredeck/talentsearch/internal/db"
	"github.com/hiredeck/talentsearch/internal/domain"
)

const (
	fieldApplicantID = "applicant_id"
	fieldProfile     = "profile"
)

// store is the consumer interface for the lexical index (ISP).
type store interface {
	db.HashStore
	db.IndexManager
	db.TextSearcher
}

// Repository indexes talent profile text into an FT index and serves
// BM25 full-text queries over it.
type Repository struct {
	store     store
	indexName string
	prefix    string
}

// New creates a lexical index repository. prefix namespaces document keys.
func New(s store, indexName, prefix string) *Repository {
	return &Repository{store: s, indexName: indexName, prefix: prefix}
}

func (r *Repository) docKey(id string) string { return r.prefix + "talent:lex:" + id }

// EnsureIndex creates the FT index if it does not exist yet.
func (r *Repository) EnsureIndex(ctx context.Context) error {
	err := r.store.CreateIndex(ctx, &db.IndexDefinition{
		Name:     r.indexName,
		Prefixes: []string{r.prefix + "talent:lex:"},
		Fields: []db.IndexField{
			{Name: fieldProfile, Type: db.FieldText},
			{Name: fieldApplicantID, Type: db.FieldTag},
		},
	})
	if err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create lexical index: %w", err)
	}
	return nil
}

// IndexTalent writes a talent's profile text into the full-text index.
func (r *Repository) IndexTalent(ctx context.Context, applicantID, profileText string) error {
	err := r.store.HSet(ctx, r.docKey(applicantID), map[string]string{
		fieldApplicantID: applicantID,
		fieldProfile:     profileText,
	})
	if err != nil {
		return fmt.Errorf("index talent %s: %w", applicantID, err)
	}
	return nil
}

// RemoveTalent drops a talent from the full-text index.
func (r *Repository) RemoveTalent(ctx context.Context, applicantID string) error {
	if err := r.store.Del(ctx, r.docKey(applicantID)); err != nil {
		return fmt.Errorf("remove talent %s: %w", applicantID, err)
	}
	return nil
}

// FullTextSearch runs a BM25 query over indexed profile text and returns
// raw (applicantID, relevance) pairs, best first. Relevance is the BM25
// score; it is not comparable to embedding similarities.
func (r *Repository) FullTextSearch(ctx context.Context, term string, topK int) ([]domain.LexicalHit, error) {
	res, err := r.store.SearchBM25(ctx, &db.TextQuery{
		IndexName:    r.indexName,
		Field:        fieldProfile,
		Query:        term,
		TopK:         topK,
		ReturnFields: []string{fieldApplicantID},
	})
	if err != nil {
		return nil, fmt.Errorf("full text search: %w", err)
	}

	hits := make([]domain.LexicalHit, 0, len(res.Entries))
	for _, e := range res.Entries {
		id := e.Fields[fieldApplicantID]
		if id == "" {
			// Fall back to stripping the key prefix for docs indexed
			// before the applicant_id field existed.
			id = strings.TrimPrefix(e.Key, r.prefix+"talent:lex:")
		}
		if id == "" {
			continue
		}
		hits = append(hits, domain.LexicalHit{ApplicantID: id, Relevance: e.Score})
	}
	return hits, nil
}
