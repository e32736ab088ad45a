// Package ingest writes talent records into the three search backends:
// the profile graph, the lexical index, and the vector index.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/hiredeck/talentsearch/internal/domain"
	"github.com/hiredeck/talentsearch/internal/logger"
)

// ErrEmptyApplicantID rejects records without an identifier.
var ErrEmptyApplicantID = errors.New("applicant id is empty")

// Record is one talent to index: the profile plus the potential roles it
// links to.
type Record struct {
	Profile        domain.TalentProfile `json:"profile"`
	PotentialRoles []string             `json:"potential_roles,omitempty"`
}

// Failure is one failed record of a batch.
type Failure struct {
	ApplicantID string
	Err         error
}

// BatchReport summarizes a batch run. Failures never abort the batch.
type BatchReport struct {
	Indexed  int
	Failures []Failure
}

// Service indexes talents. Batch runs fan out over a shared worker pool so
// embedding calls overlap.
type Service struct {
	graph   GraphStore
	lexical LexicalIndex
	vectors VectorIndex
	embed   Embedder
	pool    *ants.Pool
}

// New creates an ingest service. poolSize <= 0 defaults to half the CPUs.
func New(
	graph GraphStore,
	lexical LexicalIndex,
	vectors VectorIndex,
	embed Embedder,
	poolSize int,
) (*Service, error) {
	if poolSize <= 0 {
		poolSize = runtime.NumCPU() / 2
		if poolSize < 1 {
			poolSize = 1
		}
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &Service{
		graph:   graph,
		lexical: lexical,
		vectors: vectors,
		embed:   embed,
		pool:    pool,
	}, nil
}

// Release frees the worker pool. The service must not be used afterwards.
func (s *Service) Release() {
	s.pool.Release()
}

// Index writes one talent into all three backends. The profile write comes
// first so a half-indexed talent still resolves during enrichment.
func (s *Service) Index(ctx context.Context, rec Record) error {
	if rec.Profile.ApplicantID == "" {
		return ErrEmptyApplicantID
	}
	id := rec.Profile.ApplicantID

	if err := s.graph.PutTalentProfile(ctx, rec.Profile); err != nil {
		return fmt.Errorf("store profile: %w", err)
	}
	if len(rec.PotentialRoles) > 0 {
		if err := s.graph.AddPotentialRoles(ctx, id, rec.PotentialRoles...); err != nil {
			return fmt.Errorf("store potential roles: %w", err)
		}
	}

	text := rec.Profile.ProfileText()
	if err := s.lexical.IndexTalent(ctx, id, text); err != nil {
		return fmt.Errorf("index profile text: %w", err)
	}

	embRes, err := s.embed.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("vectorize profile: %w", err)
	}
	if err := s.vectors.UpsertTalent(ctx, id, embRes.Embedding); err != nil {
		return fmt.Errorf("upsert profile vector: %w", err)
	}
	return nil
}

// IndexBatch indexes records concurrently. Each record fails or succeeds
// on its own; the report lists failures in applicant-id order.
func (s *Service) IndexBatch(ctx context.Context, records []Record) BatchReport {
	log := logger.FromContext(ctx)

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		indexed  int
		failures []Failure
	)

	for _, rec := range records {
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			if err := s.Index(ctx, rec); err != nil {
				log.Warn("record failed to index",
					zap.String("applicant_id", rec.Profile.ApplicantID), zap.Error(err))
				mu.Lock()
				failures = append(failures, Failure{ApplicantID: rec.Profile.ApplicantID, Err: err})
				mu.Unlock()
				return
			}
			mu.Lock()
			indexed++
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			failures = append(failures, Failure{ApplicantID: rec.Profile.ApplicantID, Err: err})
		}
	}
	wg.Wait()

	sort.Slice(failures, func(i, j int) bool {
		return failures[i].ApplicantID < failures[j].ApplicantID
	})
	return BatchReport{Indexed: indexed, Failures: failures}
}

// Delete removes a talent from all three backends. Every backend is
// attempted even when an earlier one fails.
func (s *Service) Delete(ctx context.Context, applicantID string) error {
	if applicantID == "" {
		return ErrEmptyApplicantID
	}

	var errs []error
	if err := s.vectors.DeleteTalent(ctx, applicantID); err != nil {
		errs = append(errs, fmt.Errorf("delete profile vector: %w", err))
	}
	if err := s.lexical.RemoveTalent(ctx, applicantID); err != nil {
		errs = append(errs, fmt.Errorf("remove profile text: %w", err))
	}
	if err := s.graph.DeleteTalent(ctx, applicantID); err != nil {
		errs = append(errs, fmt.Errorf("delete profile: %w", err))
	}
	return errors.Join(errs...)
}
