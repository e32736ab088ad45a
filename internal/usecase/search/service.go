// Package search implements the candidate-matching retrieval pipeline:
// lexical full-text search, direct embedding similarity, and a one-hop
// expansion through candidates' potential roles, merged into one
// deduplicated ranking.
package search

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hiredeck/talentsearch/internal/domain"
	"github.com/hiredeck/talentsearch/internal/logger"
	"github.com/hiredeck/talentsearch/internal/metrics"
)

// Service is the search orchestrator. Each call moves through
// validating → moderating → searching (lexical ∥ semantic) → expanding →
// merging, with early exits for invalid and moderation-blocked queries.
type Service struct {
	embed   Embedder
	gate    ContentGate
	lexical LexicalIndex
	graph   GraphStore
	vectors VectorIndex
	opts    Options
}

// New creates a search service. Zero fields of opts fall back to defaults.
func New(
	embed Embedder,
	gate ContentGate,
	lexical LexicalIndex,
	graph GraphStore,
	vectors VectorIndex,
	opts Options,
) *Service {
	return &Service{
		embed:   embed,
		gate:    gate,
		lexical: lexical,
		graph:   graph,
		vectors: vectors,
		opts:    opts.withDefaults(),
	}
}

// Search runs the full pipeline for one raw query.
//
// Invalid queries and moderation rejections are results, not errors; the
// returned error is reserved for defects (e.g. a vector dimension
// mismatch) that must surface to the caller.
func (s *Service) Search(ctx context.Context, raw string) (domain.MatchResult, error) {
	log := logger.FromContext(ctx)

	q, err := domain.NormalizeQuery(raw)
	if err != nil {
		log.Debug("query rejected by normalizer", zap.String("raw", raw), zap.Error(err))
		metrics.SearchRequestsTotal.WithLabelValues("invalid").Inc()
		return domain.NoMatch(), nil
	}

	if blocked := s.moderate(ctx, q.Cleaned); blocked {
		metrics.SearchRequestsTotal.WithLabelValues("blocked").Inc()
		return domain.Blocked(), nil
	}

	var (
		lexProfiles []domain.TalentProfile
		direct      []domain.TalentCandidate
		queryVec    []float32
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		defer func() {
			metrics.SearchBranchDuration.WithLabelValues("lexical").Observe(time.Since(start).Seconds())
		}()
		lexProfiles = s.lexicalBranch(gctx, q.Cleaned)
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		defer func() {
			metrics.SearchBranchDuration.WithLabelValues("semantic").Observe(time.Since(start).Seconds())
		}()
		queryVec, direct = s.semanticBranch(gctx, q.Cleaned)
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return domain.MatchResult{}, err
	}

	lexRanked, err := s.rerankLexical(ctx, queryVec, lexProfiles)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return domain.MatchResult{}, err
	}

	var expanded []domain.TalentCandidate
	var overlaps []domain.RoleOverlap
	if queryVec != nil && len(direct) > 0 {
		start := time.Now()
		expanded, overlaps, err = s.expandRoles(ctx, q.Cleaned, queryVec, direct)
		metrics.SearchBranchDuration.WithLabelValues("expansion").Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
			return domain.MatchResult{}, err
		}
	}

	merged := mergeResults(lexRanked, direct, expanded)
	metrics.SearchResultsMerged.Observe(float64(len(merged)))

	result := domain.MatchResult{Match: len(merged) > 0, Talents: merged}
	if q.Flags.Debug() && len(overlaps) > 0 {
		result.OverlappingRoles = overlaps
	}

	if result.Match {
		metrics.SearchRequestsTotal.WithLabelValues("match").Inc()
	} else {
		metrics.SearchRequestsTotal.WithLabelValues("no_match").Inc()
	}
	return result, nil
}

// moderate runs the content gate with its own deadline. Fails closed: any
// gate error blocks the query.
func (s *Service) moderate(ctx context.Context, text string) bool {
	mctx, cancel := context.WithTimeout(ctx, s.opts.BranchTimeout)
	defer cancel()

	explicit, err := s.gate.IsExplicit(mctx, text)
	if err != nil {
		logger.FromContext(ctx).Warn("content gate failed, rejecting query", zap.Error(err))
		return true
	}
	return explicit
}

// lexicalBranch runs full-text search and enriches hits with profiles.
// The branch soft-fails: any error leaves it empty.
func (s *Service) lexicalBranch(ctx context.Context, term string) []domain.TalentProfile {
	log := logger.FromContext(ctx)
	bctx, cancel := context.WithTimeout(ctx, s.opts.BranchTimeout)
	defer cancel()

	hits, err := s.lexical.FullTextSearch(bctx, term, s.opts.LexicalTopK)
	if err != nil {
		log.Warn("lexical branch failed", zap.Error(err))
		metrics.SearchPartialFailuresTotal.WithLabelValues("branch").Inc()
		return nil
	}

	profiles := make([]domain.TalentProfile, 0, len(hits))
	for _, hit := range hits {
		profile, err := s.graph.GetTalentProfile(bctx, hit.ApplicantID)
		if err != nil {
			if !errors.Is(err, domain.ErrTalentNotFound) {
				log.Warn("lexical hit enrichment failed",
					zap.String("applicant_id", hit.ApplicantID), zap.Error(err))
				metrics.SearchPartialFailuresTotal.WithLabelValues("lexical_enrich").Inc()
			}
			continue
		}
		profiles = append(profiles, profile)
	}
	return profiles
}

// semanticBranch embeds the query and fetches directly similar talents.
// The branch soft-fails; a nil vector disables re-ranking and expansion.
func (s *Service) semanticBranch(ctx context.Context, term string) ([]float32, []domain.TalentCandidate) {
	log := logger.FromContext(ctx)
	bctx, cancel := context.WithTimeout(ctx, s.opts.BranchTimeout)
	defer cancel()

	embRes, err := s.embed.Embed(bctx, term)
	if err != nil {
		log.Warn("query embedding failed, semantic branch disabled", zap.Error(err))
		metrics.SearchPartialFailuresTotal.WithLabelValues("branch").Inc()
		return nil, nil
	}
	queryVec := embRes.Embedding

	hits, err := s.vectors.FindSimilarTalents(bctx, queryVec, s.opts.Thresholds.DirectMatch, s.opts.SimilarLimit)
	if err != nil {
		log.Warn("direct similarity search failed", zap.Error(err))
		metrics.SearchPartialFailuresTotal.WithLabelValues("branch").Inc()
		return queryVec, nil
	}

	candidates := make([]domain.TalentCandidate, 0, len(hits))
	for _, hit := range hits {
		profile, err := s.graph.GetTalentProfile(bctx, hit.ApplicantID)
		if err != nil {
			if !errors.Is(err, domain.ErrTalentNotFound) {
				log.Warn("semantic hit enrichment failed",
					zap.String("applicant_id", hit.ApplicantID), zap.Error(err))
				metrics.SearchPartialFailuresTotal.WithLabelValues("semantic_enrich").Inc()
			}
			continue
		}
		candidates = append(candidates, domain.TalentCandidate{
			TalentProfile: profile,
			MatchScore:    domain.NewScore(hit.Score),
		})
	}
	return queryVec, candidates
}

// rerankLexical scores lexical hits by their profile's semantic similarity
// to the query and drops hits below the re-rank threshold. Without a query
// vector, hits pass through unscored in their original order.
// A vector dimension mismatch is a defect and aborts the search.
func (s *Service) rerankLexical(
	ctx context.Context, queryVec []float32, profiles []domain.TalentProfile,
) ([]domain.TalentCandidate, error) {
	if len(profiles) == 0 {
		return nil, nil
	}

	if queryVec == nil {
		out := make([]domain.TalentCandidate, len(profiles))
		for i, p := range profiles {
			out[i] = domain.TalentCandidate{TalentProfile: p}
		}
		return out, nil
	}

	log := logger.FromContext(ctx)

	scored := make([]domain.Score, len(profiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.EmbedConcurrency)
	for i, p := range profiles {
		g.Go(func() error {
			embRes, err := s.embed.Embed(gctx, p.ProfileText())
			if err != nil {
				log.Warn("lexical re-rank embedding failed",
					zap.String("applicant_id", p.ApplicantID), zap.Error(err))
				metrics.SearchPartialFailuresTotal.WithLabelValues("rerank").Inc()
				return nil
			}
			sim, err := domain.CosineSimilarity(queryVec, embRes.Embedding)
			if err != nil {
				return err
			}
			scored[i] = domain.NewScore(sim)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.TalentCandidate, 0, len(profiles))
	for i, p := range profiles {
		if !scored[i].Valid || scored[i].Value < s.opts.Thresholds.LexicalRerank {
			continue
		}
		out = append(out, domain.TalentCandidate{TalentProfile: p, MatchScore: scored[i]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore.Value > out[j].MatchScore.Value
	})
	return out, nil
}
