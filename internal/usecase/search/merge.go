package search

import "github.com/hiredeck/talentsearch/internal/domain"

// mergeResults combines the three branch result sets into one
// deduplicated list. Concatenation order is fixed and authoritative:
// re-ranked lexical hits first, then direct semantic hits, then role
// expansion hits. Deduplication is first-occurrence-wins: when a talent
// appears in several branches, the earlier branch's score and metadata
// are kept and later duplicates are dropped, not re-scored.
//
// On the way out, clearance codes are remapped to the display vocabulary
// and scores are rounded to two decimals.
func mergeResults(lexical, direct, expanded []domain.TalentCandidate) []domain.TalentCandidate {
	total := len(lexical) + len(direct) + len(expanded)
	if total == 0 {
		return nil
	}

	seen := make(map[string]struct{}, total)
	merged := make([]domain.TalentCandidate, 0, total)

	for _, branch := range [][]domain.TalentCandidate{lexical, direct, expanded} {
		for _, c := range branch {
			if _, dup := seen[c.ApplicantID]; dup {
				continue
			}
			seen[c.ApplicantID] = struct{}{}

			c.Clearance = domain.Clearance(domain.DisplayClearance(c.Clearance))
			c.MatchScore = c.MatchScore.Rounded()
			merged = append(merged, c)
		}
	}
	return merged
}
