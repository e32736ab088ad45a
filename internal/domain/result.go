package domain

// MatchResult is the final payload of a candidate search.
// Exactly one of the three shapes applies:
//   - ModerationBlocked: no talents, no match
//   - Match false: valid query, nothing found
//   - Match true: deduplicated, ordered talents
type MatchResult struct {
	Match             bool
	ModerationBlocked bool
	Talents           []TalentCandidate
	// OverlappingRoles is populated only when a debug flag was set on the
	// query and at least one role cleared the expansion threshold.
	OverlappingRoles []RoleOverlap
}

// NoMatch is the empty result returned for invalid or unmatched queries.
func NoMatch() MatchResult { return MatchResult{Match: false} }

// Blocked is the result returned for moderation-rejected queries.
func Blocked() MatchResult { return MatchResult{ModerationBlocked: true} }

// LexicalHit is a raw full-text index match before profile enrichment.
type LexicalHit struct {
	ApplicantID string
	Relevance   float64
}

// VectorHit is a raw vector index match before profile enrichment.
type VectorHit struct {
	ApplicantID string
	Score       float64
}
