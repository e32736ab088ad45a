package search

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hiredeck/talentsearch/internal/domain"
	"github.com/hiredeck/talentsearch/internal/logger"
	"github.com/hiredeck/talentsearch/internal/metrics"
)

// roleOutcome is the per-role scoring result. Failures are carried
// explicitly instead of being swallowed into nils and filtered out later.
type roleOutcome struct {
	role domain.ScoredRole
	err  error
}

// expandRoles is the one-hop role expansion: take the top semantic hits,
// collect their potential roles, score each distinct role against the
// query, and fetch talents similar to the roles that clear the expansion
// threshold. Single hop, never recursive.
//
// Every per-talent and per-role failure is isolated; only a vector
// dimension mismatch aborts the search.
func (s *Service) expandRoles(
	ctx context.Context, cleanedQuery string, queryVec []float32, direct []domain.TalentCandidate,
) ([]domain.TalentCandidate, []domain.RoleOverlap, error) {
	log := logger.FromContext(ctx)
	ectx, cancel := context.WithTimeout(ctx, s.opts.BranchTimeout)
	defer cancel()

	top := topByScore(direct, s.opts.ExpansionBeam)

	roleNames := s.collectRoles(ectx, top)
	if len(roleNames) == 0 {
		return nil, nil, nil
	}

	kept, err := s.scoreRoles(ectx, cleanedQuery, queryVec, roleNames)
	if err != nil {
		return nil, nil, err
	}
	if len(kept) == 0 {
		return nil, nil, nil
	}

	overlaps := make([]domain.RoleOverlap, len(kept))
	for i, r := range kept {
		overlaps[i] = domain.RoleOverlap{RoleName: r.RoleName, Score: r.Score}
	}

	// Fan out over surviving roles; results keep role order so the final
	// ranking is deterministic.
	perRole := make([][]domain.TalentCandidate, len(kept))
	g, gctx := errgroup.WithContext(ectx)
	g.SetLimit(s.opts.EmbedConcurrency)
	for i, role := range kept {
		g.Go(func() error {
			hits, err := s.vectors.FindSimilarTalents(
				gctx, role.Embedding, s.opts.Thresholds.SimilarTalent, s.opts.SimilarLimit,
			)
			if err != nil {
				log.Warn("role fan-out failed",
					zap.String("role", role.RoleName), zap.Error(err))
				metrics.SearchPartialFailuresTotal.WithLabelValues("role_fanout").Inc()
				return nil
			}
			candidates := make([]domain.TalentCandidate, 0, len(hits))
			for _, hit := range hits {
				profile, err := s.graph.GetTalentProfile(gctx, hit.ApplicantID)
				if err != nil {
					if !errors.Is(err, domain.ErrTalentNotFound) {
						metrics.SearchPartialFailuresTotal.WithLabelValues("role_fanout").Inc()
					}
					continue
				}
				candidates = append(candidates, domain.TalentCandidate{
					TalentProfile: profile,
					MatchScore:    domain.NewScore(hit.Score),
					SourceRole:    role.RoleName,
				})
			}
			perRole[i] = candidates
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var expanded []domain.TalentCandidate
	for _, candidates := range perRole {
		expanded = append(expanded, candidates...)
	}
	return expanded, overlaps, nil
}

// collectRoles gathers the distinct potential roles of the beam talents,
// preserving first-occurrence order. Per-talent fetch failures are logged
// and skipped; expansion proceeds with whatever succeeded.
//
// Role names are deduplicated before scoring: scoring is a pure function
// of role name and query, so rescoring repeats would only waste embedding
// calls.
func (s *Service) collectRoles(ctx context.Context, top []domain.TalentCandidate) []string {
	log := logger.FromContext(ctx)

	perTalent := make([][]string, len(top))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range top {
		g.Go(func() error {
			roles, err := s.graph.GetPotentialRoles(gctx, t.ApplicantID)
			if err != nil {
				log.Warn("potential role fetch failed",
					zap.String("applicant_id", t.ApplicantID), zap.Error(err))
				metrics.SearchPartialFailuresTotal.WithLabelValues("role_fetch").Inc()
				return nil
			}
			// Stable order regardless of the store's set semantics.
			sort.Strings(roles)
			perTalent[i] = roles
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors

	seen := make(map[string]struct{})
	var names []string
	for _, roles := range perTalent {
		for _, name := range roles {
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

// scoreRoles embeds each role phrase and keeps roles whose similarity to
// the query meets the expansion threshold (inclusive).
func (s *Service) scoreRoles(
	ctx context.Context, cleanedQuery string, queryVec []float32, roleNames []string,
) ([]domain.ScoredRole, error) {
	log := logger.FromContext(ctx)

	outcomes := make([]roleOutcome, len(roleNames))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.EmbedConcurrency)
	for i, name := range roleNames {
		g.Go(func() error {
			embRes, err := s.embed.Embed(gctx, rolePhrase(name, cleanedQuery))
			if err != nil {
				outcomes[i] = roleOutcome{err: err}
				return nil
			}
			sim, err := domain.CosineSimilarity(queryVec, embRes.Embedding)
			if err != nil {
				// Dimension mismatch is a defect, not a soft failure.
				return err
			}
			outcomes[i] = roleOutcome{role: domain.ScoredRole{
				RoleName:  name,
				Embedding: embRes.Embedding,
				Score:     sim,
			}}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var kept []domain.ScoredRole
	for i, out := range outcomes {
		if out.err != nil {
			log.Warn("role scoring failed",
				zap.String("role", roleNames[i]), zap.Error(out.err))
			metrics.SearchPartialFailuresTotal.WithLabelValues("role_score").Inc()
			continue
		}
		if out.role.Score >= s.opts.Thresholds.RoleExpansion {
			kept = append(kept, out.role)
		}
	}
	return kept, nil
}

// rolePhrase canonicalizes the text embedded for a candidate role.
func rolePhrase(roleName, cleanedQuery string) string {
	return roleName + " " + cleanedQuery
}

// topByScore returns the n best-scoring candidates, ties broken by
// original order.
func topByScore(candidates []domain.TalentCandidate, n int) []domain.TalentCandidate {
	top := make([]domain.TalentCandidate, len(candidates))
	copy(top, candidates)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].MatchScore.Value > top[j].MatchScore.Value
	})
	if len(top) > n {
		top = top[:n]
	}
	return top
}
