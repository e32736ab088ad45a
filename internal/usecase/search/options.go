package search

import "time"

// Thresholds are the four independently tuned similarity cutoffs of the
// pipeline. All comparisons are inclusive: a score exactly at a threshold
// passes. The historical deployments disagreed on the exact values, so
// every threshold is configuration, never an inline constant.
type Thresholds struct {
	// DirectMatch gates the direct semantic branch.
	DirectMatch float64
	// LexicalRerank gates lexical hits after semantic re-ranking.
	LexicalRerank float64
	// RoleExpansion gates which potential roles are worth expanding.
	RoleExpansion float64
	// SimilarTalent gates talents found through an expanded role.
	SimilarTalent float64
}

// Options tune the search pipeline.
type Options struct {
	Thresholds Thresholds
	// ExpansionBeam is the number of top semantic hits whose potential
	// roles are expanded. Intentionally narrow.
	ExpansionBeam int
	// LexicalTopK caps raw full-text hits before enrichment.
	LexicalTopK int
	// SimilarLimit caps vector hits per similarity lookup.
	SimilarLimit int
	// BranchTimeout bounds each branch so one slow collaborator cannot
	// stall the whole request. A timed-out branch contributes nothing.
	BranchTimeout time.Duration
	// EmbedConcurrency bounds concurrent embedding calls during re-rank
	// and role scoring.
	EmbedConcurrency int
}

// DefaultOptions returns the default pipeline tuning.
func DefaultOptions() Options {
	return Options{
		Thresholds: Thresholds{
			DirectMatch:   0.70,
			LexicalRerank: 0.70,
			RoleExpansion: 0.65,
			SimilarTalent: 0.67,
		},
		ExpansionBeam:    3,
		LexicalTopK:      20,
		SimilarLimit:     10,
		BranchTimeout:    10 * time.Second,
		EmbedConcurrency: 8,
	}
}

// withDefaults fills zero fields with defaults.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Thresholds.DirectMatch <= 0 {
		o.Thresholds.DirectMatch = def.Thresholds.DirectMatch
	}
	if o.Thresholds.LexicalRerank <= 0 {
		o.Thresholds.LexicalRerank = def.Thresholds.LexicalRerank
	}
	if o.Thresholds.RoleExpansion <= 0 {
		o.Thresholds.RoleExpansion = def.Thresholds.RoleExpansion
	}
	if o.Thresholds.SimilarTalent <= 0 {
		o.Thresholds.SimilarTalent = def.Thresholds.SimilarTalent
	}
	if o.ExpansionBeam <= 0 {
		o.ExpansionBeam = def.ExpansionBeam
	}
	if o.LexicalTopK <= 0 {
		o.LexicalTopK = def.LexicalTopK
	}
	if o.SimilarLimit <= 0 {
		o.SimilarLimit = def.SimilarLimit
	}
	if o.BranchTimeout <= 0 {
		o.BranchTimeout = def.BranchTimeout
	}
	if o.EmbedConcurrency <= 0 {
		o.EmbedConcurrency = def.EmbedConcurrency
	}
	return o
}
