package domain

// PotentialRole links a talent to a role label previously inferred for it.
type PotentialRole struct {
	ApplicantID string
	RoleName    string
}

// ScoredRole is a role name scored against the current query.
// Derived per search, never persisted.
type ScoredRole struct {
	RoleName  string
	Embedding []float32
	Score     float64
}

// RoleOverlap is a single entry of the debug-mode role-overlap report.
type RoleOverlap struct {
	RoleName string
	Score    float64
}
